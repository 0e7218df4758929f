package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/antopolskiy/taskboard/internal/board"
	"github.com/antopolskiy/taskboard/internal/clierr"
	"github.com/antopolskiy/taskboard/internal/output"
)

const exportFileMode = 0o600

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export tasks as CSV",
	Long: `Writes tasks as comma-separated values with the columns Title,
Description, Status, Due Date, Assignee, Priority and Package. The file
is named tasks-export-YYYY-MM-DD.csv unless --output is given.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "output file (default: tasks-export-<date>.csv)")
	exportCmd.Flags().Bool("stdout", false, "write to stdout instead of a file")
	exportCmd.Flags().String("view", viewAll, "task selection (active, completed, all)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	_, _, b, err := loadBoard()
	if err != nil {
		return err
	}

	view, _ := cmd.Flags().GetString("view")
	if view == viewPackage {
		return clierr.New(clierr.InvalidInput, "the package view cannot be exported")
	}
	tasks, err := selectTasks(b, view)
	if err != nil {
		return err
	}

	if toStdout, _ := cmd.Flags().GetBool("stdout"); toStdout {
		if err := board.ExportCSV(os.Stdout, tasks); err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout)
		return nil
	}

	path, _ := cmd.Flags().GetString("output")
	if path == "" {
		path = board.ExportFilename(b.Now())
	}
	if err := os.WriteFile(path, []byte(board.ExportCSVString(tasks)), exportFileMode); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	logger.WithField("path", path).WithField("tasks", len(tasks)).Debug("tasks exported")

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"path": path, "count": len(tasks)})
	}
	output.Messagef(os.Stdout, "Exported %d task(s) to %s", len(tasks), path)
	return nil
}
