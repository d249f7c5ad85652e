// Command navtool builds, queries and inspects platformer navigation graphs
// outside the viewer.
package main

import (
	"os"
)

func main() {
	a := newApp()
	err := a.rootCmd().Execute()
	if cerr := a.close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Exit(1)
	}
}
