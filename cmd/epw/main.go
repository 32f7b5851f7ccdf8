// Command epw reads and writes EnergyPlus weather files with the same
// parser the ETL service uses.
//
// Usage:
//
//	epw parse station.epw --format csv
//	epw preview station.epw --first 3 --last 3
//	epw validate data/*.epw
//	epw synth --year 2014 --out testdata/synthetic.epw
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
