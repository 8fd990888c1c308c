package main

import (
	"os"

	"github.com/msto63/arcanequest/cmd/arcq/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
