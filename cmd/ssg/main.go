package main

import (
	"os"

	"github.com/bianoble/ssg/cmd/ssg/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
