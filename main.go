// Command hbs (How Big Search) counts the files under one or more paths
// that match a type, name and permission filter, and sums their sizes.
package main

import (
	"fmt"
	"os"

	"github.com/idelchi/hbs/internal/cli"
)

// version is set at build time.
var version = "unknown - unofficial & generated by unknown"

func main() {
	if err := cli.New(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
