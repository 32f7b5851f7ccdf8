package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/couchcryptid/epw-etl/internal/domain"
	"github.com/spf13/cobra"
)

func newPreviewCmd() *cobra.Command {
	var maxLines, first, last int
	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Show the first and last rows of an EPW file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkMaxLines(maxLines); err != nil {
				return err
			}
			cols, err := parseFile(args[0], maxLines)
			if err != nil {
				return err
			}
			p := domain.Preview(cols, first, last)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ts\twind_dir\twind_speed")
			for i := range p.Len() {
				fmt.Fprintf(tw, "%s\t%g\t%g\n", p.TS[i].Format(tsLayout), p.WindDir[i], p.WindSpeed[i])
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "(%d of %d rows)\n", p.Len(), cols.Len())
			return nil
		},
	}
	addMaxLinesFlag(cmd, &maxLines)
	cmd.Flags().IntVar(&first, "first", 5, "rows to show from the start")
	cmd.Flags().IntVar(&last, "last", 5, "rows to show from the end")
	return cmd
}
