package main

import (
	"os"

	"github.com/khkim/krxscreen/cmd/krxscreen/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
