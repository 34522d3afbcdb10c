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

package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"
	"unicode"

	"github.com/celo-org/celo-ledger-signer/signer"
	"github.com/naoina/toml"
	"gopkg.in/urfave/cli.v1"
)

var dumpConfigCommand = cli.Command{
	Action:      dumpConfig,
	Name:        "dumpconfig",
	Usage:       "Show configuration values",
	ArgsUsage:   "",
	Description: `The dumpconfig command shows configuration values.`,
}

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		var link string
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://godoc.org/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

type signerConfig struct {
	ChainID        uint64
	DerivationPath string
}

type nodeConfig struct {
	RPC string
}

type deviceConfig struct {
	MnemonicFile string
}

type auditConfig struct {
	CSV string
}

type celosignerConfig struct {
	Signer signerConfig
	Node   nodeConfig
	Device deviceConfig
	Audit  auditConfig
}

func defaultConfig() celosignerConfig {
	return celosignerConfig{
		Signer: signerConfig{
			ChainID:        signer.DefaultConfig.ChainID.Uint64(),
			DerivationPath: signer.DefaultConfig.DerivationPath,
		},
		Node: nodeConfig{RPC: "http://localhost:8545"},
	}
}

func loadConfig(file string, cfg *celosignerConfig) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

// makeConfig loads the config file, if any, and applies the global flags.
func makeConfig(ctx *cli.Context) (celosignerConfig, error) {
	cfg := defaultConfig()
	if file := ctx.GlobalString(configFileFlag.Name); file != "" {
		if err := loadConfig(file, &cfg); err != nil {
			return cfg, err
		}
	}
	if ctx.GlobalIsSet(chainIDFlag.Name) {
		cfg.Signer.ChainID = ctx.GlobalUint64(chainIDFlag.Name)
	}
	if ctx.GlobalIsSet(hdPathFlag.Name) {
		cfg.Signer.DerivationPath = ctx.GlobalString(hdPathFlag.Name)
	}
	if ctx.GlobalIsSet(rpcFlag.Name) {
		cfg.Node.RPC = ctx.GlobalString(rpcFlag.Name)
	}
	if ctx.GlobalIsSet(mnemonicFileFlag.Name) {
		cfg.Device.MnemonicFile = ctx.GlobalString(mnemonicFileFlag.Name)
	}
	if ctx.GlobalIsSet(auditCSVFlag.Name) {
		cfg.Audit.CSV = ctx.GlobalString(auditCSVFlag.Name)
	}
	return cfg, nil
}

// dumpConfig is the dumpconfig command.
func dumpConfig(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	out, err := tomlSettings.Marshal(&cfg)
	if err != nil {
		return err
	}
	_, err = ctx.App.Writer.Write(out)
	return err
}
