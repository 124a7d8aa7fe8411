// Package main is the entry point for the ked line editor.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cmarsh/ked/internal/config"
	"github.com/cmarsh/ked/internal/engine"
	"github.com/cmarsh/ked/internal/frontend"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := parseFlags()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		return 1
	}

	eng := engine.New(cfg.SnapshotInterval, cfg.ReclaimPool)
	f := frontend.New(eng, os.Stdin, os.Stdout, cfg.MaxLineBytes)

	if err := f.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() string {
	var configPath string
	flag.StringVar(&configPath, "config", os.Getenv("KED_CONFIG"), "Path to a TOML config file (tunables only)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "ked - a line-addressable text editor\n\n")
		fmt.Fprintf(os.Stderr, "Usage: ked [options]\n\n")
		fmt.Fprintf(os.Stderr, "Reads editing commands from stdin and writes query results to stdout.\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	return configPath
}
