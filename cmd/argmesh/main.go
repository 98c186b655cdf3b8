// Command argmesh is a small CLI around the argmesh library: it lists the
// built-in named types and runs an interactive demo command on the terminal.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
