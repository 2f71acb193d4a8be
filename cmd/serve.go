package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Retsomm/Elon-Musk-Web-sub000/internal/aggregate"
	"github.com/Retsomm/Elon-Musk-Web-sub000/internal/config"
	"github.com/Retsomm/Elon-Musk-Web-sub000/internal/feed"
	"github.com/Retsomm/Elon-Musk-Web-sub000/internal/newsapi"
	"github.com/Retsomm/Elon-Musk-Web-sub000/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/ratelimit"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the news aggregator HTTP endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		log := slog.New(slog.NewTextHandler(os.Stderr, nil))

		search := newsapi.New(cfg.APIKey(), cfg.Language, cfg.GetPageSize(), cfg.QueryTimeoutDuration())

		opts := []aggregate.Option{
			aggregate.WithLimiter(ratelimit.New(1, ratelimit.Per(cfg.QueryDelayDuration()))),
			aggregate.WithTimeout(cfg.QueryTimeoutDuration()),
			aggregate.WithLogger(log),
		}
		if feeds := cfg.EnabledFeeds(); len(feeds) > 0 {
			sources := make([]aggregate.FeedSource, 0, len(feeds))
			for _, f := range feeds {
				sources = append(sources, aggregate.FeedSource{Name: f.Name, URL: f.URL})
			}
			opts = append(opts, aggregate.WithFeeds(feed.NewFetcher(cfg.FeedMaxAgeDuration()), sources))
		}
		agg := aggregate.New(search, cfg.Terms, opts...)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(agg, log)
		log.Info("listening", "addr", cfg.ListenAddr, "terms", len(cfg.Terms))
		if err := srv.ListenAndServe(ctx, cfg.ListenAddr); err != nil {
			// Shutdown on signal surfaces as ErrServerClosed; not a failure.
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		return nil
	},
}
