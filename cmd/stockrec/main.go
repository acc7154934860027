// stockrec is a terminal client for the recommendation backend. It shares the
// portal's configuration and can serve the portal's MCP tools over stdio.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/stockrec-portal/internal/cache"
	"github.com/bobmcallan/stockrec-portal/internal/client"
	"github.com/bobmcallan/stockrec-portal/internal/common"
	"github.com/bobmcallan/stockrec-portal/internal/config"
	"github.com/bobmcallan/stockrec-portal/internal/regime"
)

// cli holds what every subcommand needs once flags are parsed.
type cli struct {
	out     io.Writer
	cfg     *config.Config
	logger  *common.Logger
	backend *client.Client

	configFiles []string
	apiURL      string
	token       string
	timeout     time.Duration
	logLevel    string
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{out: out}

	rootCmd := &cobra.Command{
		Use:           "stockrec",
		Short:         "Stock recommendations from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
	}
	rootCmd.SetOut(out)

	flags := rootCmd.PersistentFlags()
	flags.StringSliceVarP(&c.configFiles, "config", "c", nil, "Configuration file path (repeatable)")
	flags.StringVar(&c.apiURL, "api-url", "", "Backend URL (overrides config)")
	flags.StringVar(&c.token, "token", os.Getenv("STOCKREC_TOKEN"), "Backend session token (defaults to STOCKREC_TOKEN)")
	flags.DurationVar(&c.timeout, "timeout", 0, "Backend request timeout (overrides config)")
	flags.StringVar(&c.logLevel, "log-level", "warn", "Log level for stderr output")

	rootCmd.AddCommand(
		c.recommendCmd(),
		c.historyCmd(),
		c.losersCmd(),
		c.regimeCmd(),
		c.connectorsCmd(),
		c.refreshCmd(),
		c.cramerCmd(),
		c.searchCmd(),
		c.mcpCmd(),
		c.versionCmd(),
	)
	return rootCmd
}

// setup loads configuration with flag overrides and builds the backend client.
func (c *cli) setup() error {
	config.LoadDotEnv(".env", ".env.local")

	cfg, err := config.LoadFromFiles(c.configFiles...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if c.apiURL != "" {
		cfg.API.URL = c.apiURL
	}
	timeout := cfg.API.GetTimeout()
	if c.timeout > 0 {
		timeout = c.timeout
	}

	c.cfg = cfg
	// Console only: stdout belongs to command output and the MCP transport.
	c.logger = common.NewLoggerFromConfig(common.LoggingConfig{
		Level:   c.logLevel,
		Outputs: []string{"console"},
	})
	c.backend = client.New(cfg.API.URL, client.WithTimeout(timeout))
	return nil
}

// context returns a context carrying the session token, if any.
func (c *cli) context(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if c.token != "" {
		ctx = client.WithToken(ctx, c.token)
	}
	return ctx
}

// regimes builds an in-process regime service for one invocation.
func (c *cli) regimes() *regime.Service {
	return regime.NewService(c.backend, cache.NewMemoryStore(c.cfg.Cache.MaxEntries),
		c.cfg.Cache.GetRegimeTTL(), c.cfg.Fetch.RegimeConcurrency, c.logger)
}
