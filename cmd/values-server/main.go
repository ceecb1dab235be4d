package main

import (
	"fmt"
	"os"

	"confbot/internal/features/docstore/domain"
	"confbot/internal/features/docstore/presentation/cli"
)

func main() {
	if err := cli.NewCommand(domain.KindValues).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
