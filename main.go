package main

import (
	"os"

	"github.com/gyrostable/gyro-go/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
