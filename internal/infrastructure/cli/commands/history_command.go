package commands

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/doeshing/shellsage/internal/app"
	"github.com/doeshing/shellsage/internal/domain"
	"github.com/doeshing/shellsage/internal/ports"
)

// NewHistoryCommand creates the history command with all subcommands
func NewHistoryCommand(container *app.Container) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the log of past analyses",
	}

	historyCmd.AddCommand(
		newHistoryListCommand(container),
		newHistoryClearCommand(container),
		newHistoryStatsCommand(container),
	)

	return historyCmd
}

func newHistoryListCommand(container *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent analyses",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listAnalyses(cmd.OutOrStdout(), container.AnalysisLog, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", domain.DefaultHistoryListLimit, "Max entries to show")
	return cmd
}

func newHistoryClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded analysis",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.AnalysisLog == nil {
				return errors.New(ErrAnalysisLogUnavailable)
			}
			if err := container.AnalysisLog.Clear(); err != nil {
				return fmt.Errorf("failed to clear analysis log: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), MsgHistoryCleared)
			return nil
		},
	}
}

func newHistoryStatsCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show success rate and most analysed commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showAnalysisStats(cmd.OutOrStdout(), container.AnalysisLog)
		},
	}
}

// listAnalyses prints one line per record, newest first.
func listAnalyses(out io.Writer, store ports.AnalysisRepository, limit int) error {
	if store == nil {
		return errors.New(ErrAnalysisLogUnavailable)
	}
	records, err := store.Records(limit)
	if err != nil {
		return fmt.Errorf("failed to retrieve analyses: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}

	for _, rec := range records {
		outcome := "ok"
		switch {
		case !rec.Succeeded:
			outcome = "failed"
		case rec.FromCache:
			outcome = "cached"
		}
		fmt.Fprintf(out, "%s (%s) | exit %d | %s | %s | %s\n",
			rec.Timestamp.Local().Format(TimestampFormat),
			humanize.Time(rec.Timestamp),
			rec.ExitCode,
			rec.Model,
			outcome,
			rec.Command)
	}
	return nil
}

type commandCount struct {
	command string
	count   int
}

// showAnalysisStats summarises the whole log.
func showAnalysisStats(out io.Writer, store ports.AnalysisRepository) error {
	if store == nil {
		return errors.New(ErrAnalysisLogUnavailable)
	}
	records, err := store.Records(0)
	if err != nil {
		return fmt.Errorf("failed to retrieve analyses: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}

	var succeeded, cached int
	var totalMS int64
	counts := map[string]int{}
	for _, rec := range records {
		if rec.Succeeded {
			succeeded++
		}
		if rec.FromCache {
			cached++
		}
		totalMS += rec.DurationMS
		counts[domain.FirstToken(rec.Command)]++
	}

	top := make([]commandCount, 0, len(counts))
	for command, count := range counts {
		top = append(top, commandCount{command: command, count: count})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].count != top[j].count {
			return top[i].count > top[j].count
		}
		return top[i].command < top[j].command
	})
	if len(top) > 5 {
		top = top[:5]
	}

	total := len(records)
	fmt.Fprintf(out, "Analyses: %s\n", humanize.Comma(int64(total)))
	fmt.Fprintf(out, "Succeeded: %d (%.0f%%)\n", succeeded, percent(succeeded, total))
	fmt.Fprintf(out, "Served from cache: %d (%.0f%%)\n", cached, percent(cached, total))
	fmt.Fprintf(out, "Average duration: %dms\n", totalMS/int64(total))
	fmt.Fprintln(out, "Most analysed commands:")
	for _, entry := range top {
		fmt.Fprintf(out, "  %-16s %d\n", entry.command, entry.count)
	}
	return nil
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) * 100 / float64(total)
}
