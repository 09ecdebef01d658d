// Command dshell is a security-hardened interactive command shell.
package main

import (
	"fmt"
	"os"

	"github.com/dhuangca/dshell/internal/config"
	"github.com/dhuangca/dshell/internal/executor"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

var (
	debug              bool
	configPath         string
	showVersion        bool
	printDefaultConfig bool
)

func main() {
	// The internal re-exec mode must be checked before cobra ever sees
	// argv, to avoid flag conflicts with whatever the sandboxed command
	// itself expects.
	if len(os.Args) >= 2 && os.Args[1] == executor.LandlockApplyFlag {
		executor.ApplyLandlockAndExec()
		return
	}

	rootCmd := &cobra.Command{
		Use:           "dshell",
		Short:         "A security-hardened interactive command shell",
		Long:          "dshell is an interactive shell that isolates external commands\nunder a kernel-enforced Landlock filesystem sandbox and an\nexplicit environment-variable allow list.",
		RunE:          runShell,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
	}

	rootCmd.Flags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config.toml (default: ~/.config/dshell/config.toml)")
	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "Show version information")
	rootCmd.Flags().BoolVar(&printDefaultConfig, "print-default-config", false, "Print a commented default config.toml to stdout and exit")

	exitCode := 0
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = 1
	}
	os.Exit(exitCode)
}

func runShell(cmd *cobra.Command, args []string) error {
	if showVersion {
		fmt.Printf("dshell %s (built %s, commit %s)\n", version, buildTime, gitCommit)
		return nil
	}

	if printDefaultConfig {
		fmt.Print(config.DefaultConfigTemplate())
		return nil
	}

	cfg := config.Load()
	if configPath != "" {
		cfg = config.LoadFrom(configPath)
	}

	app := newApp(cfg, debug)
	return app.run()
}
