package main

import (
	"os"

	"github.com/tsawler/patentid/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
