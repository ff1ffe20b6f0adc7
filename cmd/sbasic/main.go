// sbasic compiles, runs and debugs SmallBasic programs.
package main

import (
	"os"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
