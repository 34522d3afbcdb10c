// Copyright 2016 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package debug configures console logging from command line flags.
package debug

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/celo-org/celo-blockchain/log"
	"github.com/celo-org/celo-blockchain/metrics"
	colorable "github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"gopkg.in/urfave/cli.v1"
)

var (
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=detail",
		Value: 3,
	}
	vmoduleFlag = cli.StringFlag{
		Name:  "vmodule",
		Usage: "Per-module verbosity: comma-separated list of <pattern>=<level> (e.g. signer/*=5)",
		Value: "",
	}
	debugFlag = cli.BoolFlag{
		Name:  "debug",
		Usage: "Prepends log messages with call-site location (file and line number)",
	}
	consoleFormatFlag = cli.StringFlag{
		Name:  "consoleformat",
		Usage: "Write console logs as 'json' or 'term'",
	}
	consoleOutputFlag = cli.StringFlag{
		Name: "consoleoutput",
		Usage: "(stderr|stdout|split) By default, console output goes to stderr. " +
			"In stdout mode, write console logs to stdout (not stderr). " +
			"In split mode, write critical(warning, error, and critical) console logs to stderr " +
			"and non-critical (info, debug, and trace) to stdout",
	}
	// metrics.Enabled is switched on by the metrics package itself when it
	// sees this flag on the command line.
	metricsFlag = cli.BoolFlag{
		Name:  "metrics",
		Usage: "Collect signing timings and log them on exit",
	}
)

// Flags holds all command-line flags required for debugging.
var Flags = []cli.Flag{
	verbosityFlag, vmoduleFlag, debugFlag,
	consoleFormatFlag, consoleOutputFlag, metricsFlag,
}

type StdoutStderrHandler struct {
	stdoutHandler log.Handler
	stderrHandler log.Handler
}

func (h StdoutStderrHandler) Log(r *log.Record) error {
	switch r.Lvl {
	case log.LvlCrit, log.LvlError, log.LvlWarn:
		return h.stderrHandler.Log(r)
	default:
		return h.stdoutHandler.Log(r)
	}
}

// Setup initializes logging based on the CLI flags.
// It should be called as early as possible in the program.
func Setup(ctx *cli.Context) error {
	ostream, err := CreateStreamHandler(ctx.GlobalString(consoleFormatFlag.Name), ctx.GlobalString(consoleOutputFlag.Name))
	if err != nil {
		return err
	}
	glogger := log.NewGlogHandler(ostream)

	log.PrintOrigins(ctx.GlobalBool(debugFlag.Name))
	glogger.Verbosity(log.Lvl(ctx.GlobalInt(verbosityFlag.Name)))
	if err := glogger.Vmodule(ctx.GlobalString(vmoduleFlag.Name)); err != nil {
		return fmt.Errorf("invalid --%s: %w", vmoduleFlag.Name, err)
	}
	log.Root().SetHandler(glogger)
	return nil
}

// CreateStreamHandler builds the console handler for the given format and
// output mode. Empty values select terminal format on stderr.
func CreateStreamHandler(consoleFormat string, consoleOutputMode string) (log.Handler, error) {
	switch consoleOutputMode {
	case "stdout":
		return streamHandler(os.Stdout, consoleFormat)
	case "stderr", "":
		return streamHandler(os.Stderr, consoleFormat)
	case "split":
		stdout, err := streamHandler(os.Stdout, consoleFormat)
		if err != nil {
			return nil, err
		}
		stderr, err := streamHandler(os.Stderr, consoleFormat)
		if err != nil {
			return nil, err
		}
		return StdoutStderrHandler{stdoutHandler: stdout, stderrHandler: stderr}, nil
	}
	return nil, fmt.Errorf("unexpected value for \"%s\" flag: \"%s\"", consoleOutputFlag.Name, consoleOutputMode)
}

func streamHandler(file *os.File, consoleFormat string) (log.Handler, error) {
	usecolor := useColor(file)
	format, err := getConsoleLogFormat(consoleFormat, usecolor)
	if err != nil {
		return nil, err
	}
	var output io.Writer = file
	if usecolor {
		output = colorable.NewColorable(file)
	}
	return log.StreamHandler(output, format), nil
}

func useColor(file *os.File) bool {
	return (isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())) && os.Getenv("TERM") != "dumb"
}

func getConsoleLogFormat(consoleFormat string, usecolor bool) (log.Format, error) {
	switch consoleFormat {
	case "json":
		return log.JSONFormat(), nil
	case "term", "":
		return log.TerminalFormat(usecolor), nil
	}
	return nil, fmt.Errorf("unexpected value for \"%s\" flag: \"%s\"", consoleFormatFlag.Name, consoleFormat)
}

// ReportMetrics logs the timers and meters of the default registry. It is a
// no-op unless metrics collection is enabled.
func ReportMetrics() {
	if !metrics.Enabled {
		return
	}
	var names []string
	all := make(map[string]interface{})
	metrics.DefaultRegistry.Each(func(name string, m interface{}) {
		names = append(names, name)
		all[name] = m
	})
	sort.Strings(names)
	for _, name := range names {
		switch m := all[name].(type) {
		case metrics.Timer:
			if m.Count() > 0 {
				log.Info("Timer", "name", name, "count", m.Count(), "mean", time.Duration(m.Mean()), "max", time.Duration(m.Max()))
			}
		case metrics.Meter:
			if m.Count() > 0 {
				log.Info("Meter", "name", name, "count", m.Count())
			}
		}
	}
}
