package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/outsider/cmd/outsider"
	"github.com/arthur-debert/outsider/internal/version"
)

func main() {
	rootCmd := outsider.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "OUTSIDER",
		Section: "1",
		Source:  "outsider " + version.Version,
		Manual:  "outsider manual",
	}

	if err := doc.GenMan(rootCmd, header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
