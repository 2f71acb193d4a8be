package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/Retsomm/Elon-Musk-Web-sub000/internal/browser"
	"github.com/Retsomm/Elon-Musk-Web-sub000/internal/config"
	"github.com/Retsomm/Elon-Musk-Web-sub000/internal/coordinator"
	"github.com/Retsomm/Elon-Musk-Web-sub000/internal/retry"
	"github.com/Retsomm/Elon-Musk-Web-sub000/internal/store"
	"github.com/spf13/cobra"
)

var flagOpen int

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the latest news, merging into the local history",
	RunE:  runFetch,
}

func init() {
	fetchCmd.Flags().IntVar(&flagOpen, "open", 0, "open the Nth article in the browser after fetching")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := store.Open(config.CachePath())
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	defer db.Close()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	client := coordinator.NewHTTPClient(cfg.Endpoint, cfg.FetchTimeoutDuration())
	coord := coordinator.New(client, db,
		coordinator.WithRetryPolicy(retry.Policy{
			MaxAttempts: cfg.GetRetryAttempts(),
			Backoff:     retry.Linear(cfg.RetryBackoffDuration()),
		}),
		coordinator.WithDedupeWindow(cfg.DedupeWindowDuration()),
		coordinator.WithLogger(log))

	// Show last-known-good headlines before any network round trip.
	if st := coord.Status(); st.Data != nil {
		fmt.Print(renderCache(*st.Data, true))
	}

	result, fetchErr := coord.Fetch(cmd.Context())
	switch {
	case fetchErr == nil:
		fmt.Print(renderCache(result, false))
	case errors.Is(fetchErr, coordinator.ErrNoNewData):
		fmt.Println(renderNotice("沒有新的新聞，顯示快取內容"))
	default:
		fmt.Println(renderNotice(fmt.Sprintf("更新失敗：%v", fetchErr)))
		if len(result.Articles) == 0 {
			return fetchErr
		}
	}

	if flagOpen > 0 {
		if flagOpen > len(result.Articles) {
			return fmt.Errorf("--open %d: only %d articles available", flagOpen, len(result.Articles))
		}
		return browser.Open(result.Articles[flagOpen-1].Link)
	}
	return nil
}
