package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/couchcryptid/epw-etl/internal/domain"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	var (
		maxLines int
		format   string
	)
	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Print the wind series of an EPW file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkMaxLines(maxLines); err != nil {
				return err
			}
			cols, err := parseFile(args[0], maxLines)
			if err != nil {
				return err
			}
			switch format {
			case "csv":
				return writeCSV(cmd.OutOrStdout(), cols)
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(cols)
			default:
				return fmt.Errorf("unknown format %q (want csv or json)", format)
			}
		},
	}
	addMaxLinesFlag(cmd, &maxLines)
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "output format: csv or json")
	return cmd
}

func writeCSV(w io.Writer, cols domain.Columns) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ts", "wind_dir", "wind_speed"}); err != nil {
		return err
	}
	for i := range cols.Len() {
		row := []string{
			cols.TS[i].Format(tsLayout),
			strconv.FormatFloat(float64(cols.WindDir[i]), 'f', -1, 32),
			strconv.FormatFloat(float64(cols.WindSpeed[i]), 'f', -1, 32),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
