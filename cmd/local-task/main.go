package main

import (
	"os"

	"github.com/tuanemuy/local-task/internal/cli"
)

func main() {
	code := cli.Run(os.Args[1:])
	os.Exit(code)
}
