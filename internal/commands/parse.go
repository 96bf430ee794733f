package commands

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/prism-tools-mcp/internal/server"
	"github.com/ironsheep/prism-tools-mcp/prism"
)

func newParseCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <url>",
		Short: "Decode the options of a Prism URL",
		Long: `Decode the Prism query parameters of a URL and print them as YAML.

Example:
  prism-mcp parse "https://images.tryprism.com/cat.png?out=png&w=200&h=400&cmd=resize_then_crop"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, g, args[0])
		},
	}
}

func runParse(cmd *cobra.Command, g *globalFlags, raw string) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	opts, err := prism.Decode(u)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(server.NewParseURLResult(u, opts, cfg.HostMarker)); err != nil {
		return fmt.Errorf("failed to write yaml: %w", err)
	}
	return enc.Close()
}
