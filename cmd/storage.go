package cmd

import (
	"context"
	"fmt"

	"github.com/Retsomm/Elon-Musk-Web-sub000/internal/config"
	"github.com/Retsomm/Elon-Musk-Web-sub000/internal/coordinator"
	"github.com/Retsomm/Elon-Musk-Web-sub000/internal/news"
	"github.com/Retsomm/Elon-Musk-Web-sub000/internal/store"
	"github.com/spf13/cobra"
)

// nopClient satisfies the coordinator's client interface for commands that
// only touch the persisted cache.
type nopClient struct{}

func (nopClient) FetchNews(context.Context, int) (news.Response, error) {
	return news.Response{}, nil
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show local cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := config.CachePath()
		db, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer db.Close()

		count, size, err := db.Stats(dbPath)
		if err != nil {
			return fmt.Errorf("reading stats: %w", err)
		}

		fmt.Printf("Cache: %s\n", dbPath)
		fmt.Printf("Keys: %d\n", count)
		fmt.Printf("Size: %s\n", formatBytes(size))

		if at, ok, err := db.UpdatedAt(coordinator.HistoryKey); err == nil && ok {
			fmt.Printf("History updated: %s\n", at.Local().Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the persisted news history",
	Long: `Delete the locally persisted news history envelope (and its legacy
mirror). The next fetch starts from an empty cache. Diagnostics only.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.Open(config.CachePath())
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer db.Close()

		coord := coordinator.New(nopClient{}, db)
		if err := coord.ClearHistory(); err != nil {
			return fmt.Errorf("clearing history: %w", err)
		}
		fmt.Println("News history cleared.")
		return nil
	},
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
