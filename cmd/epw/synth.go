package main

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/spf13/cobra"
)

const hoursPerYear = 8760

// synthHeader mirrors the eight header records of a real EPW file.
var synthHeader = []string{
	"LOCATION,Synthetic Station,NA,XXX,synthetic,000000,0.00,0.00,0.0,0.0",
	"DESIGN CONDITIONS,0",
	"TYPICAL/EXTREME PERIODS,0",
	"GROUND TEMPERATURES,0",
	"HOLIDAYS/DAYLIGHT SAVINGS,No,0,0,0",
	"COMMENTS 1,Generated by epw synth",
	"COMMENTS 2,Wind series only; other fields are placeholders",
	"DATA PERIODS,1,1,Data,Sunday, 1/ 1,12/31",
}

func newSynthCmd() *cobra.Command {
	var (
		year  int
		hours int
		out   string
	)
	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Write a synthetic, well-formed EPW file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if hours < 0 {
				return fmt.Errorf("--hours must be >= 0")
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			defer f.Close()

			if err := writeSynthetic(f, year, hours); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d hourly rows to %s\n", hours, out)
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", 2014, "calendar year of the first row")
	cmd.Flags().IntVar(&hours, "hours", hoursPerYear, "number of hourly rows")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

// writeSynthetic emits the header followed by hours rows of 35 fields
// starting at January 1st, 01:00 in EPW hour numbering. Wind direction
// sweeps the compass once a day; speed follows a daily cycle.
func writeSynthetic(w io.Writer, year, hours int) error {
	bw := bufio.NewWriter(w)
	for _, line := range synthHeader {
		fmt.Fprintln(bw, line)
	}

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := range hours {
		ts := start.Add(time.Duration(i) * time.Hour)
		dir := float64(i%24) * 15
		speed := 4 + 3*math.Sin(2*math.Pi*float64(i%24)/24)
		fmt.Fprintf(bw,
			"%d,%d,%d,%d,0,?9?9?9?9E0?9?9?9*9*9?9*9*9?9*9*9?9*9*9?9*9*9*9*9*9,"+
				"5.0,1.0,70,101325,0,0,300,0,0,0,0,0,0,0,%.0f,%.1f,"+
				"5,5,20.0,77777,9,999999999,0,0.10,0,88,0.000,0.0,0.0\n",
			ts.Year(), int(ts.Month()), ts.Day(), ts.Hour()+1, dir, speed)
	}
	return bw.Flush()
}
