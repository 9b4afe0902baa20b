package main

import (
	"os"

	"github.com/bnema/spo-contact-sync/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
