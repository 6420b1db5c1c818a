// Command fieldset edits, renders and validates weighbridge settings defined
// by a settings schema.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(newApp()).Execute(); err != nil {
		os.Exit(1)
	}
}
