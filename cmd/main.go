package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/javanhut/xfactor-shell/pkg/config"
)

// Version is stamped at build time with -ldflags "-X main.Version=...".
var Version = "dev"

var (
	cfgFile     string
	verbose     bool
	logFileFlag string
	rootCmd = &cobra.Command{
		Use:   "xfactor-shell",
		Short: "Supervises the XFactor trading backend for the desktop shell",
		Long: `xfactor-shell owns the lifecycle of the trading backend process:
- Reuses a backend that is already answering on its health port
- Locates and launches the bundled backend, detached from the shell
- Falls back to a development sidecar when no bundled binary exists
- Stops the backend gracefully on quit, or forcibly via the kill switch`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.xfactor-shell.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "also write JSON logs to this file, rotated by size")
	rootCmd.Version = Version
}

func initConfig() {
	if cfgFile != "" {
		config.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatal(err)
		}
		config.SetConfigPath(home)
		config.SetConfigName(".xfactor-shell.yaml")
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
