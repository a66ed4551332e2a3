package main

import (
	"fmt"
	"os"

	"github.com/spec-kit/helpdesk-service/internal/cli"
	"github.com/spec-kit/helpdesk-service/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := cli.RootCmd(cfg.Client).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
