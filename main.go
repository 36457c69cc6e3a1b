package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/askdb/askdb/cmd"
	"github.com/askdb/askdb/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)

		if structured, ok := err.(*errors.Error); ok {
			for _, suggestion := range structured.Suggestions {
				fmt.Fprintf(os.Stderr, "  hint: %s\n", suggestion)
			}
		}

		os.Exit(1)
	}
}
