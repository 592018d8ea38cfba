// nexus-audit: ethical risk self-assessment for AI systems.
//
// Runs as an MCP server for AI hosts, or offline from an answers file.
//
// Usage:
//
//	nexus-audit serve                  # Start MCP server (stdio transport)
//	nexus-audit assess answers.yaml    # Print the report for a set of answers
//	nexus-audit dataset data.csv       # Profile a dataset for bias review
//	nexus-audit history                # List archived audits
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/HendryAvila/nexus-audit/internal/config"
	"github.com/HendryAvila/nexus-audit/internal/logging"
	"github.com/HendryAvila/nexus-audit/internal/server"
)

// app carries the settings resolved by the root command.
type app struct {
	configPath string
	logLevel   string
	cfg        config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "nexus-audit",
		Short: "Ethical risk self-assessment for AI systems",
		Long: `nexus-audit scores an AI system's autonomy against the human control
around it, records value priorities and bias findings, and produces an
audit report with a risk tier.

Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "nexus-audit": {
        "command": "nexus-audit",
        "args": ["serve"]
      }
    }
  }`,
		Version:       server.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "",
		fmt.Sprintf("config file (default $%s or ~/%s/%s)", config.EnvPath, config.Dir, config.File))
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override the configured log level (debug, info, warn, error)")

	root.AddCommand(
		newServeCmd(a),
		newAssessCmd(a),
		newDatasetCmd(a),
		newHistoryCmd(a),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// Skip config loading: version must work with a broken config.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "nexus-audit v%s\n", server.Version)
		},
	}
}

// load resolves the config file and configures logging on stderr.
func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(config.ResolvePath(a.configPath))
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logging.Init(level, cfg.Log.Format, cmd.ErrOrStderr())
	a.cfg = cfg
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
