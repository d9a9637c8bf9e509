// Command ivmap exercises canonical interval maps from the command line.
//
//	ivmap demo                 walk through a small example map
//	ivmap load data.yaml       build a map out of a YAML dataset and print it
//	ivmap bench                run a random workload and report its metrics
//	ivmap version
//
// Every flag can also be set through an IVMAP_<FLAG> environment variable (dashes
// become underscores) or a .env / .env.local file in the working directory.
package main

import (
	"fmt"
	"os"
)

const Version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
