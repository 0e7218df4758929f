package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/antopolskiy/taskboard/internal/board"
	"github.com/antopolskiy/taskboard/internal/clierr"
	"github.com/antopolskiy/taskboard/internal/output"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the board file",
	Long: `Checks the board file against its schema and reports consistency
problems such as duplicate ids or tasks whose status does not match their
column. With --fix the repairs are written back. Exits with code 1 when the
file does not match the schema.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().Bool("fix", false, "write the repaired board back to disk")
	rootCmd.AddCommand(validateCmd)
}

type validateResult struct {
	Valid bool   `json:"valid"`
	File  string `json:"file"`
	Fixed bool   `json:"fixed"`

	SchemaProblems []string `json:"schema_problems"`
	Warnings       []string `json:"warnings"`
	Repairs        []string `json:"repairs"`
}

func runValidate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st := openStore(cfg)
	res, err := st.Check()
	if err != nil {
		return err
	}

	out := validateResult{
		Valid:          res.Valid(),
		File:           st.Path(),
		SchemaProblems: nonNil(res.SchemaProblems),
		Warnings:       nonNil(res.Warnings),
		Repairs:        nonNil(res.Repairs),
	}
	if fix, _ := cmd.Flags().GetBool("fix"); fix && out.Valid && len(res.Repairs) > 0 {
		if _, err := st.Update(func(*board.Board) error { return nil }); err != nil {
			return err
		}
		out.Fixed = true
	}

	if outputFormat() == output.FormatJSON {
		if err := output.JSON(os.Stdout, out); err != nil {
			return err
		}
	} else {
		printValidation(out)
	}
	if !out.Valid {
		return &clierr.SilentError{Code: 1}
	}
	return nil
}

func printValidation(out validateResult) {
	for _, p := range out.SchemaProblems {
		fmt.Fprintf(os.Stderr, "Error: %s\n", p)
	}
	for _, w := range out.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}
	verb := "Would repair"
	if out.Fixed {
		verb = "Repaired"
	}
	for _, r := range out.Repairs {
		output.Messagef(os.Stdout, "%s: %s", verb, r)
	}
	if out.Valid {
		output.Messagef(os.Stdout, "%s is valid", out.File)
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
