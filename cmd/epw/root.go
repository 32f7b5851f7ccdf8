package main

import (
	"fmt"
	"os"

	"github.com/couchcryptid/epw-etl/internal/domain"
	"github.com/spf13/cobra"
)

// tsLayout renders timestamps at millisecond precision without a zone.
const tsLayout = "2006-01-02T15:04:05.000"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "epw",
		Short: "EPW weather file tools",
		Long: `Tools for EnergyPlus weather (EPW) files: extract the wind series,
preview it, validate files, and generate synthetic fixtures.

Examples:
  epw parse station.epw --max-lines 200
  epw validate data/*.epw`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newParseCmd(), newPreviewCmd(), newValidateCmd(), newSynthCmd())
	return root
}

// parseFile reads a whole file and decodes its wind series.
func parseFile(path string, maxLines int) (domain.Columns, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return domain.Columns{}, fmt.Errorf("read %s: %w", path, err)
	}
	records, err := domain.EPWParser{}.Parse(buf, maxLines)
	if err != nil {
		return domain.Columns{}, fmt.Errorf("%s: %w", path, err)
	}
	return domain.NewColumns(records), nil
}

func addMaxLinesFlag(cmd *cobra.Command, dst *int) {
	cmd.Flags().IntVar(dst, "max-lines", domain.NoLineLimit, "read at most this many physical lines, header included (-1 for no limit)")
}

func checkMaxLines(n int) error {
	if n < 0 && n != domain.NoLineLimit {
		return fmt.Errorf("--max-lines must be >= 0 or %d", domain.NoLineLimit)
	}
	return nil
}
