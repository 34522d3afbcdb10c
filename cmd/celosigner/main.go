// Copyright 2024 The Celo Authors
// This file is part of celo.
//
// celo is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// celo is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with celo. If not, see <http://www.gnu.org/licenses/>.

// celosigner signs Celo transactions with a hardware wallet style signer.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/celo-org/celo-ledger-signer/internal/debug"
	"gopkg.in/urfave/cli.v1"
)

const version = "1.0.0"

var app = newApp()

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = filepath.Base(os.Args[0])
	app.Usage = "sign Celo transactions with a Ledger style device"
	app.Version = version
	app.Writer = os.Stdout
	app.Flags = append([]cli.Flag{
		configFileFlag,
		chainIDFlag,
		hdPathFlag,
		rpcFlag,
		mnemonicFileFlag,
		auditCSVFlag,
	}, debug.Flags...)
	app.Before = func(ctx *cli.Context) error {
		return debug.Setup(ctx)
	}
	app.After = func(ctx *cli.Context) error {
		debug.ReportMetrics()
		return nil
	}
	app.Commands = []cli.Command{
		addressCommand,
		populateCommand,
		signCommand,
		sendCommand,
		decodeCommand,
		dumpConfigCommand,
	}
	return app
}

func main() {
	exit(app.Run(os.Args))
}

func exit(err interface{}) {
	if err == nil {
		os.Exit(0)
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
