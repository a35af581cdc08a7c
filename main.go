package main

import (
	"os"

	"github.com/denysvitali/refgallery-watermark/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
