package main

import (
	"os"

	"github.com/giovaniif/items/cmd/shell"
)

func main() {
	os.Exit(shell.Execute())
}
