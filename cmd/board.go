package cmd

import (
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/antopolskiy/taskboard/internal/board"
	"github.com/antopolskiy/taskboard/internal/clierr"
	"github.com/antopolskiy/taskboard/internal/output"
)

const defaultSummaryDays = 7

var boardCmd = &cobra.Command{
	Use:     "board",
	Aliases: []string{"summary"},
	Short:   "Show board summary",
	Long: `Displays a summary of the board: task counts per column, WIP usage,
the status summary and sections of noteworthy tasks. With --write the
summary is rendered as Markdown into a file, replacing a previously
written summary in place.`,
	Args: cobra.NoArgs,
	RunE: runBoard,
}

func init() {
	boardCmd.Flags().StringSlice("section", nil, "sections to include ("+strings.Join(board.SectionNames(), ", ")+")")
	boardCmd.Flags().Int("days", defaultSummaryDays, "horizon of the due-soon section in days")
	boardCmd.Flags().String("write", "", "write the summary as Markdown into this file")
	rootCmd.AddCommand(boardCmd)
}

func runBoard(cmd *cobra.Command, _ []string) error {
	cfg, _, b, err := loadBoard()
	if err != nil {
		return err
	}

	sections, _ := cmd.Flags().GetStringSlice("section")
	for _, s := range sections {
		if !slices.Contains(board.SectionNames(), s) {
			return clierr.Newf(clierr.InvalidInput, "unknown section %q", s).
				WithDetails(map[string]any{"section": s, "allowed": board.SectionNames()})
		}
	}
	days, _ := cmd.Flags().GetInt("days")
	if days < 0 {
		return clierr.Newf(clierr.InvalidInput, "invalid --days %d", days)
	}

	summary := board.Summarize(cfg, b, b.Now(), board.SummaryOptions{Sections: sections, Days: days})

	if path, _ := cmd.Flags().GetString("write"); path != "" {
		if err := board.WriteSummaryToFile(path, board.RenderSummaryMarkdown(summary)); err != nil {
			return err
		}
		if outputFormat() != output.FormatJSON {
			output.Messagef(os.Stdout, "Wrote summary to %s", path)
			return nil
		}
	}

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, summary)
	case output.FormatCompact:
		output.OverviewCompact(os.Stdout, summary)
	default:
		output.OverviewTable(os.Stdout, summary)
	}
	return nil
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the status summary",
	Long: `Counts tasks that are unscheduled, in progress, completed, blocked and
overdue, each with its share of all tasks. The categories overlap.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, _ []string) error {
	_, _, b, err := loadBoard()
	if err != nil {
		return err
	}
	stats := b.Stats()

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, stats)
	case output.FormatCompact:
		output.StatsCompact(os.Stdout, stats)
	default:
		output.StatsTable(os.Stdout, stats)
	}
	return nil
}
