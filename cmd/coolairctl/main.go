package main

import (
	"fmt"
	"os"

	"github.com/coolair/coolair-backend/internal/cli"
	"github.com/coolair/coolair-backend/internal/logging"
)

func main() {
	logging.Setup()

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
