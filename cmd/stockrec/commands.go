package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bobmcallan/stockrec-portal/internal/client"
	"github.com/bobmcallan/stockrec-portal/internal/config"
	"github.com/bobmcallan/stockrec-portal/internal/mcp"
	"github.com/bobmcallan/stockrec-portal/internal/models"
	"github.com/bobmcallan/stockrec-portal/internal/poller"
	"github.com/bobmcallan/stockrec-portal/internal/views"
)

func (c *cli) recommendCmd() *cobra.Command {
	var company string
	var stored bool

	cmd := &cobra.Command{
		Use:   "recommend SYMBOL",
		Short: "Generate an on-demand recommendation (not saved)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := c.context(cmd)
			symbol := strings.ToUpper(strings.TrimSpace(args[0]))

			var rec *models.Recommendation
			if stored {
				history, err := c.backend.RecommendationHistory(ctx, symbol, 1)
				if err != nil && !client.IsNotFound(err) {
					return err
				}
				if len(history) == 0 {
					return fmt.Errorf("no stored recommendation for %s, run without --stored to generate one", symbol)
				}
				rec = &history[0]
			} else {
				fresh, err := c.backend.OnDemandRecommendation(ctx, symbol, company)
				if err != nil {
					return err
				}
				rec = fresh
			}

			if rec.Regime == nil {
				if reg, err := c.regimes().Get(ctx, symbol); err == nil {
					rec.Regime = reg
				}
			}
			renderRecommendation(c.out, views.NewRecommendationView(*rec))
			return nil
		},
	}
	cmd.Flags().StringVar(&company, "company", "", "Company name passed to the generator")
	cmd.Flags().BoolVar(&stored, "stored", false, "Show the latest stored recommendation instead")
	return cmd
}

func (c *cli) historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history SYMBOL",
		Short: "List stored recommendations for a symbol, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := strings.ToUpper(strings.TrimSpace(args[0]))
			limit = min(max(limit, 1), 100)

			history, err := c.backend.RecommendationHistory(c.context(cmd), symbol, limit)
			if err != nil && !client.IsNotFound(err) {
				return err
			}
			renderHistory(c.out, symbol, views.NewRecommendationViews(history))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of entries (1-100)")
	return cmd
}

func (c *cli) losersCmd() *cobra.Command {
	var over10 bool

	cmd := &cobra.Command{
		Use:   "losers",
		Short: "Show today's big cap losers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := c.context(cmd)

			var (
				all, o10 []models.BigCapLoser
				summary  *models.LosersSummary
			)
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				var err error
				all, err = c.backend.LosersWithRecommendations(gctx)
				return err
			})
			g.Go(func() error {
				var err error
				o10, err = c.backend.Over10Losers(gctx)
				return err
			})
			g.Go(func() error {
				if s, err := c.backend.LosersSummary(gctx); err == nil {
					summary = s
				}
				return nil
			})
			if err := g.Wait(); err != nil {
				return err
			}

			renderLosers(c.out, views.SplitLosers(all, o10), summary, over10)
			return nil
		},
	}
	cmd.Flags().BoolVar(&over10, "over-10", false, "Only losers down more than 10%")
	return cmd
}

func (c *cli) regimeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "regime SYMBOL...",
		Short: "Show the market regime for one or more symbols",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbols := make([]string, 0, len(args))
			for _, a := range args {
				symbols = append(symbols, strings.ToUpper(strings.TrimSpace(a)))
			}
			regimes, errs := c.regimes().GetMany(c.context(cmd), symbols)
			renderRegimes(c.out, symbols, regimes, errs)
			if len(errs) == len(symbols) {
				return fmt.Errorf("no regimes available")
			}
			return nil
		},
	}
}

func (c *cli) connectorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "connectors",
		Short: "Show data, LLM and crawler connector status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := c.context(cmd)

			var (
				data, llm                 []models.ConnectorStatus
				crawlers                  []models.CrawlerService
				dataErr, llmErr, crawlErr error
			)
			var g errgroup.Group
			g.Go(func() error { data, dataErr = c.backend.ConnectorStatus(ctx); return nil })
			g.Go(func() error { llm, llmErr = c.backend.LLMConnectorStatus(ctx); return nil })
			g.Go(func() error { crawlers, crawlErr = c.backend.CrawlerServices(ctx); return nil })
			g.Wait()

			renderConnectors(c.out,
				views.NewConnectorSection(data, dataErr, views.FallbackDataConnectors, models.KindData),
				views.NewConnectorSection(llm, llmErr, views.FallbackLLMConnectors, models.KindLLM),
				views.NewCrawlerSection(crawlers, crawlErr),
			)
			return nil
		},
	}
}

func (c *cli) refreshCmd() *cobra.Command {
	var wait bool

	cmd := &cobra.Command{
		Use:       "refresh losers|connectors|llm",
		Short:     "Trigger a backend refresh",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"losers", "connectors", "llm"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := c.context(cmd)

			var (
				check   poller.CheckFunc
				maxWait time.Duration
			)
			switch args[0] {
			case "losers":
				var baseline time.Time
				if s, err := c.backend.LosersSummary(ctx); err == nil {
					baseline = s.GeneratedAt.Time
				}
				result, err := c.backend.RefreshLosers(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.out, "Refresh started: %d losers, %d recommendations generated\n",
					result.Stats.BigCapLosers, result.Stats.RecommendationsGenerated)
				check = poller.SummaryChanged(c.backend.LosersSummary, baseline)
				maxWait = c.cfg.Poll.GetLosersMaxWait()
			case "connectors", "llm":
				trigger, status := c.backend.RefreshConnectors, c.backend.ConnectorStatus
				if args[0] == "llm" {
					trigger, status = c.backend.RefreshLLMConnectors, c.backend.LLMConnectorStatus
				}
				since := time.Now()
				if _, err := trigger(ctx); err != nil {
					return err
				}
				fmt.Fprintln(c.out, "Health check started")
				check = poller.CheckedSince(status, since)
				maxWait = c.cfg.Poll.GetConnectorsMaxWait()
			default:
				return fmt.Errorf("unknown refresh target %q (want losers, connectors or llm)", args[0])
			}

			if !wait {
				return nil
			}
			res := poller.Run(ctx, poller.Options{Interval: c.cfg.Poll.GetInterval(), MaxWait: maxWait}, check)
			switch res.Outcome {
			case poller.OutcomeCompleted:
				fmt.Fprintf(c.out, "Done after %s\n", res.Elapsed.Round(time.Second))
				return nil
			case poller.OutcomeTimedOut:
				return fmt.Errorf("refresh still running after %s", maxWait)
			default:
				return fmt.Errorf("refresh wait cancelled")
			}
		},
	}
	cmd.Flags().BoolVarP(&wait, "wait", "w", false, "Poll until the refresh finishes")
	return cmd
}

func (c *cli) cramerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cramer",
		Short: "Show today's Jim Cramer summary and mentions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := c.context(cmd)

			var (
				summary  *models.CramerSummary
				mentions []models.CramerMention
			)
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				s, err := c.backend.CramerSummary(gctx)
				if err != nil && !client.IsNotFound(err) {
					return err
				}
				summary = s
				return nil
			})
			g.Go(func() error {
				var err error
				mentions, err = c.backend.CramerMentionsToday(gctx)
				if client.IsNotFound(err) {
					return nil
				}
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}
			renderCramer(c.out, summary, mentions)
			return nil
		},
	}
}

func (c *cli) searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search QUERY",
		Short: "Search stocks by symbol or name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := c.backend.SearchStocks(c.context(cmd), strings.Join(args, " "))
			if err != nil {
				return err
			}
			renderSearch(c.out, results)
			return nil
		},
	}
}

func (c *cli) mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the portal's MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.logger.Info().Str("api_url", c.cfg.API.URL).Msg("MCP stdio server starting")
			s := mcp.NewServer(c.backend, c.regimes(), c.logger)
			return mcp.ServeStdio(s, c.token)
		},
	}
}

func (c *cli) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print client and backend versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := map[string]any{
				"stockrec": config.Info(),
			}
			ctx, cancel := context.WithTimeout(c.context(cmd), 5*time.Second)
			defer cancel()
			if backend, err := c.backend.Version(ctx); err == nil {
				info["backend"] = backend
			} else {
				info["backend"] = "unreachable"
			}
			enc := json.NewEncoder(c.out)
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		},
	}
}
