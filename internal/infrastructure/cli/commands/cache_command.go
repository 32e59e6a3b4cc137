package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/doeshing/shellsage/internal/app"
)

// NewCacheCommand creates the cache command with all subcommands
func NewCacheCommand(container *app.Container) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the response cache",
	}

	cacheCmd.AddCommand(
		newCacheClearCommand(container),
		newCacheInfoCommand(container),
	)

	return cacheCmd
}

func newCacheClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached response",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.CacheStore == nil {
				return errors.New(ErrCacheStoreUnavailable)
			}
			if err := container.CacheStore.Clear(); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), MsgCacheCleared)
			return nil
		},
	}
}

func newCacheInfoCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show cache location, size and settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.CacheStore == nil {
				return errors.New(ErrCacheStoreUnavailable)
			}
			out := cmd.OutOrStdout()
			dir := container.CacheStore.Dir()
			entries, size := dirUsage(dir)
			cfg := container.Config
			fmt.Fprintf(out, "Directory: %s\n", dir)
			fmt.Fprintf(out, "Enabled: %t\n", cfg.Cache.Enabled)
			fmt.Fprintf(out, "Entries: %d / %d\n", entries, cfg.Cache.MaxEntries)
			fmt.Fprintf(out, "Size: %s\n", humanize.Bytes(uint64(size)))
			fmt.Fprintf(out, "TTL: %s\n", cfg.CacheTTL())
			return nil
		},
	}
}

func dirUsage(dir string) (int, int64) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return 0, 0
	}
	var count int
	var size int64
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".json" {
			continue
		}
		if info, err := f.Info(); err == nil {
			count++
			size += info.Size()
		}
	}
	return count, size
}
