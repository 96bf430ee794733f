package commands

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ironsheep/prism-tools-mcp/internal/server"
)

func newServeCmd(g *globalFlags, info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server over stdin/stdout",
		Long: `Run the MCP server. Requests are read from stdin one per line and
responses written to stdout; logs go to stderr.

Configure it in your MCP client (e.g., Claude Desktop) rather than running
it by hand.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, g, info)
		},
	}
}

func runServe(cmd *cobra.Command, g *globalFlags, info BuildInfo) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}

	// stdout carries the protocol
	logger := cfg.NewLogger("prism-mcp", cmd.ErrOrStderr())
	logger.Debug("starting",
		"version", info.Version,
		"build_time", info.BuildTime,
		"commit", info.GitCommit,
	)
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		logger.Warn("stdin is a terminal; the server expects JSON-RPC from an MCP client")
	}

	srv := server.New(cfg, logger.Named("server"), info.Version)
	if err := srv.Serve(cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
		logger.Error("server stopped", "error", err)
		return err
	}
	return nil
}
