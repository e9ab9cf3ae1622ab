package main

import (
	"os"

	"vtruck/cmd/vtruck/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
