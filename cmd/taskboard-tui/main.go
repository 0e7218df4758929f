// taskboard-tui opens the interactive terminal UI of a taskboard board.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/antopolskiy/taskboard/cmd"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cobra.Command{
		Use:           "taskboard-tui",
		Short:         "Interactive terminal UI for taskboard boards",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(c *cobra.Command, _ []string) error {
			dir, _ := c.Flags().GetString("dir")
			return cmd.RunTUI(dir)
		},
	}
	c.Flags().String("dir", "", "path to board directory (default: search upward)")
	return c
}
