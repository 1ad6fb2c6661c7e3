package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chainfeed/feedctl/internal/config"
	"github.com/chainfeed/feedctl/internal/style"
)

func init() {
	rootCmd.AddCommand(groupsCmd)
}

var groupsCmd = &cobra.Command{
	Use:     "groups",
	GroupID: GroupDiag,
	Short:   "Show the configured feed groups",
	Long: `Show the group registry: every group a worker can be launched for,
with its enabled state and member symbols.

Groups are defined in the YAML registry file; edit it and re-run to see
changes. feedctl never validates group contents beyond parsing - the
workers own that.`,
	Args: cobra.NoArgs,
	RunE: runGroups,
}

func runGroups(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	return renderGroups(a)
}

// renderGroups prints the group registry table. Shared by the groups
// command and the menu.
func renderGroups(a *app) error {
	reg, err := config.LoadGroups(a.cfg.GroupsPath)
	if err != nil {
		return err
	}

	fmt.Printf("Group registry: %s\n\n", style.Dim.Render(a.cfg.GroupsPath))

	if len(reg.Feeds) == 0 {
		style.PrintWarning("no groups defined")
		return nil
	}

	table := style.NewTable(
		style.Column{Name: "GROUP", Width: 20},
		style.Column{Name: "ENABLED", Width: 8},
		style.Column{Name: "SYMBOLS", Width: 40},
		style.Column{Name: "DESCRIPTION", Width: 30, Style: style.Dim},
	)
	for _, name := range reg.Names() {
		g := reg.Feeds[name]
		enabled := style.Success.Render("yes")
		if !g.Enabled {
			enabled = style.Dim.Render("no")
		}
		table.AddRow(name, enabled, strings.Join(g.Symbols, ","), g.Description)
	}
	fmt.Print(table.Render())
	return nil
}
