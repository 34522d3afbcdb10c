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
	"encoding/json"
	"fmt"

	"github.com/celo-org/celo-blockchain/common"
	"github.com/celo-org/celo-blockchain/common/hexutil"
	"github.com/celo-org/celo-blockchain/common/math"
	"github.com/celo-org/celo-ledger-signer/celotx"
	"github.com/celo-org/celo-ledger-signer/common/decimal/token"
	"gopkg.in/urfave/cli.v1"
)

// Global flags. They carry no default values so that values loaded from the
// config file are only overridden when a flag is given.
var (
	configFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	chainIDFlag = cli.Uint64Flag{
		Name:  "chainid",
		Usage: "Chain id to sign for (default: 42220, Celo mainnet)",
	}
	hdPathFlag = cli.StringFlag{
		Name:  "hd.path",
		Usage: "Derivation path of the signing account (default: m/44'/52752'/0'/0/0)",
	}
	rpcFlag = cli.StringFlag{
		Name:  "rpc",
		Usage: "Node JSON-RPC endpoint (default: http://localhost:8545)",
	}
	mnemonicFileFlag = cli.StringFlag{
		Name:  "mnemonic.file",
		Usage: "File holding the mnemonic of the emulated device",
	}
	auditCSVFlag = cli.StringFlag{
		Name:  "audit.csv",
		Usage: "Append every signed transaction to this CSV file",
	}
)

// Transaction flags.
var (
	toFlag = cli.StringFlag{
		Name:  "to",
		Usage: "Recipient address",
	}
	fromFlag = cli.StringFlag{
		Name:  "from",
		Usage: "Expected sender address, checked against the device",
	}
	valueFlag = cli.StringFlag{
		Name:  "value",
		Usage: "Amount to transfer in CELO (e.g. 1.5)",
	}
	dataFlag = cli.StringFlag{
		Name:  "data",
		Usage: "Hex encoded call data",
	}
	nonceFlag = cli.Uint64Flag{
		Name:  "nonce",
		Usage: "Account nonce (default: pending nonce from the node)",
	}
	gasFlag = cli.Uint64Flag{
		Name:  "gas",
		Usage: "Gas limit (default: estimated by the node)",
	}
	gasPriceFlag = cli.StringFlag{
		Name:  "gasprice",
		Usage: "Gas price in wei of the fee currency (default: suggested by the node)",
	}
	feeCurrencyFlag = cli.StringFlag{
		Name:  "fee-currency",
		Usage: "Address of the token used to pay fees (default: CELO)",
	}
	gatewayFeeRecipientFlag = cli.StringFlag{
		Name:  "gateway-fee-recipient",
		Usage: "Address receiving the gateway fee",
	}
	gatewayFeeFlag = cli.StringFlag{
		Name:  "gateway-fee",
		Usage: "Gateway fee in wei",
	}

	txFlags = []cli.Flag{
		toFlag, fromFlag, valueFlag, dataFlag, nonceFlag, gasFlag, gasPriceFlag,
		feeCurrencyFlag, gatewayFeeRecipientFlag, gatewayFeeFlag,
	}
)

// txFromFlags builds a request from the optional JSON argument, then applies
// the transaction flags on top of it.
func txFromFlags(ctx *cli.Context) (*celotx.TxRequest, error) {
	tx := new(celotx.TxRequest)
	if ctx.NArg() > 0 {
		if err := json.Unmarshal([]byte(ctx.Args().First()), tx); err != nil {
			return nil, fmt.Errorf("invalid transaction json: %w", err)
		}
	}

	addresses := []struct {
		flag cli.StringFlag
		dst  **common.Address
	}{
		{toFlag, &tx.To},
		{fromFlag, &tx.From},
		{feeCurrencyFlag, &tx.FeeCurrency},
		{gatewayFeeRecipientFlag, &tx.GatewayFeeRecipient},
	}
	for _, a := range addresses {
		if !ctx.IsSet(a.flag.Name) {
			continue
		}
		value := ctx.String(a.flag.Name)
		if !common.IsHexAddress(value) {
			return nil, fmt.Errorf("invalid --%s address %q", a.flag.Name, value)
		}
		addr := common.HexToAddress(value)
		*a.dst = &addr
	}

	wei := []struct {
		flag cli.StringFlag
		dst  **hexutil.Big
	}{
		{gasPriceFlag, &tx.GasPrice},
		{gatewayFeeFlag, &tx.GatewayFee},
	}
	for _, w := range wei {
		if !ctx.IsSet(w.flag.Name) {
			continue
		}
		value, ok := math.ParseBig256(ctx.String(w.flag.Name))
		if !ok || value.Sign() < 0 {
			return nil, fmt.Errorf("invalid --%s amount %q", w.flag.Name, ctx.String(w.flag.Name))
		}
		*w.dst = (*hexutil.Big)(value)
	}

	if ctx.IsSet(valueFlag.Name) {
		amount, err := token.New(ctx.String(valueFlag.Name))
		if err != nil {
			return nil, fmt.Errorf("invalid --%s: %w", valueFlag.Name, err)
		}
		tx.Value = (*hexutil.Big)(amount.BigInt())
	}
	if ctx.IsSet(dataFlag.Name) {
		data, err := hexutil.Decode(celotx.EnsureLeading0x(ctx.String(dataFlag.Name)))
		if err != nil {
			return nil, fmt.Errorf("invalid --%s: %w", dataFlag.Name, err)
		}
		tx.Data = (*hexutil.Bytes)(&data)
	}
	if ctx.IsSet(nonceFlag.Name) {
		nonce := hexutil.Uint64(ctx.Uint64(nonceFlag.Name))
		tx.Nonce = &nonce
	}
	if ctx.IsSet(gasFlag.Name) {
		gas := hexutil.Uint64(ctx.Uint64(gasFlag.Name))
		tx.Gas = &gas
	}
	return tx, nil
}
