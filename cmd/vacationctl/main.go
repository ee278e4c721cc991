// Command vacationctl computes vacation periods from the command line.
//
//	vacationctl periods --hire-date 2020-01-01 --today 2021-06-15
//	vacationctl format 2024-03-05
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
