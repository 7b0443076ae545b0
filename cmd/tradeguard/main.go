package main

import (
	"fmt"
	"os"
	"strings"

	"tradeguard/internal/cli"
	"tradeguard/internal/config"
	"tradeguard/internal/logging"
)

// configDirFromArgs extracts --config before cobra runs, so the config
// file steers how the command tree itself is built. Both "--config dir"
// and "--config=dir" forms are accepted.
func configDirFromArgs(args []string) string {
	configDir := ""
	for i, arg := range args {
		if arg == "--config" && i+1 < len(args) {
			configDir = args[i+1]
		} else if v, ok := strings.CutPrefix(arg, "--config="); ok {
			configDir = v
		}
	}
	return configDir
}

func main() {
	cfg, err := config.Load(configDirFromArgs(os.Args[1:]))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger()

	rootCmd, cleanup := cli.NewRootCmd(cfg, logger)
	err = rootCmd.Execute()
	cleanup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
