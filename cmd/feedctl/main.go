// feedctl is the ChainFeed CLI for supervising ingestion workers.
package main

import (
	"os"

	"github.com/chainfeed/feedctl/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
