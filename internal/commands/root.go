// Package commands implements the prism-mcp command line.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/prism-tools-mcp/internal/config"
)

// BuildInfo is stamped into the binary by ldflags in main.
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

// globalFlags are the persistent flags shared by every subcommand. They
// override the config file and the environment.
type globalFlags struct {
	configPath string
	logLevel   string
	hostMarker string
	scale      float64
}

// NewRootCmd returns the prism-mcp command tree. Running it without a
// subcommand starts the MCP server.
func NewRootCmd(info BuildInfo) *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "prism-mcp",
		Short: "Prism image CDN URL tools",
		Long: `prism-mcp builds Prism image CDN URLs and serves them to MCP clients.

Without a subcommand it runs the MCP server over stdin/stdout.

Examples:
  prism-mcp build https://images.tryprism.com/cat.png --width 100 --height 200 --scale 2
  prism-mcp parse "https://images.tryprism.com/cat.png?w=200&h=400"
  prism-mcp --config prism.toml serve`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, g, info)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "Config file (.toml, .yaml or .yml)")
	pf.StringVar(&g.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	pf.StringVar(&g.hostMarker, "host-marker", "", "Substring identifying Prism hosts")
	pf.Float64Var(&g.scale, "scale", 0, "Display scale applied to requested sizes")

	rootCmd.AddCommand(
		newServeCmd(g, info),
		newBuildCmd(g),
		newParseCmd(g),
		newVersionCmd(info),
	)
	return rootCmd
}

// Execute runs the command line with os.Args.
func Execute(info BuildInfo) error {
	return NewRootCmd(info).Execute()
}

// loadConfig applies the persistent flags on top of config.Load.
func (g *globalFlags) loadConfig() (config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return cfg, err
	}
	if g.logLevel != "" {
		cfg.LogLevel = g.logLevel
	}
	if g.hostMarker != "" {
		cfg.HostMarker = g.hostMarker
	}
	if g.scale != 0 {
		cfg.DisplayScale = g.scale
	}
	return cfg, cfg.Validate()
}
