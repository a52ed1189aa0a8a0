// daqview - DashDAQ Telemetry Log Toolkit
//
// daqview ingests DashDAQ CSV exports (metadata preamble, units row, trailing
// placeholder columns) and produces clean numeric time-series tables for
// charting and analysis.
package main

import (
	"os"

	"daqview/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
