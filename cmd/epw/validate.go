package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// fileCheck tracks the outcome of parsing one file.
type fileCheck struct {
	path    string
	records int
	err     error
}

func (c fileCheck) passed() bool { return c.err == nil }

func newValidateCmd() *cobra.Command {
	var maxLines int
	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Parse EPW files and report which ones fail",
		Long: `Parse every file and print a PASS/FAIL line for each. The command
exits non-zero when any file fails.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkMaxLines(maxLines); err != nil {
				return err
			}
			checks := make([]fileCheck, 0, len(args))
			for _, path := range args {
				cols, err := parseFile(path, maxLines)
				checks = append(checks, fileCheck{path: path, records: cols.Len(), err: err})
			}
			return report(cmd.OutOrStdout(), checks)
		},
	}
	addMaxLinesFlag(cmd, &maxLines)
	return cmd
}

func report(w io.Writer, checks []fileCheck) error {
	failed := 0
	for _, c := range checks {
		status := fmt.Sprintf("PASS (%d records)", c.records)
		if !c.passed() {
			status = "FAIL"
			failed++
		}
		fmt.Fprintf(w, "  %-42s %s\n", c.path, status)
	}

	// Print detailed errors.
	for i, c := range checks {
		if c.passed() {
			continue
		}
		fmt.Fprintf(w, "\n  [%d] %v\n", i+1, c.err)
	}

	if failed == 0 {
		fmt.Fprintln(w, "\nAll files passed.")
		return nil
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
	return fmt.Errorf("%d of %d files failed", failed, len(checks))
}
