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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"syscall"

	"github.com/celo-org/celo-blockchain/common"
	"github.com/celo-org/celo-blockchain/common/hexutil"
	"github.com/celo-org/celo-blockchain/log"
	"github.com/celo-org/celo-ledger-signer/celoclient"
	"github.com/celo-org/celo-ledger-signer/celotx"
	"github.com/celo-org/celo-ledger-signer/common/decimal/token"
	"github.com/celo-org/celo-ledger-signer/device/emulator"
	"github.com/celo-org/celo-ledger-signer/internal/audit"
	"github.com/celo-org/celo-ledger-signer/internal/fileutils"
	"github.com/celo-org/celo-ledger-signer/signer"
	"gopkg.in/urfave/cli.v1"
)

var (
	addressCommand = cli.Command{
		Action: showAddress,
		Name:   "address",
		Usage:  "Print the address of the signing account",
	}
	populateCommand = cli.Command{
		Action:    populate,
		Name:      "populate",
		Usage:     "Fill in the missing fields of a transaction",
		ArgsUsage: "[<json encoded tx>]",
		Flags:     txFlags,
	}
	signCommand = cli.Command{
		Action:    sign,
		Name:      "sign",
		Usage:     "Sign a transaction and print the raw encoding",
		ArgsUsage: "[<json encoded tx>]",
		Flags:     txFlags,
		Description: `
The sign command populates the transaction from the node where needed, asks the
device for a signature and prints the 0x prefixed signed transaction.`,
	}
	sendCommand = cli.Command{
		Action:    send,
		Name:      "send",
		Usage:     "Sign a transaction and submit it to the node",
		ArgsUsage: "[<json encoded tx>]",
		Flags:     txFlags,
	}
	decodeCommand = cli.Command{
		Action:    decode,
		Name:      "decode",
		Usage:     "Decode a signed transaction and recover its sender",
		ArgsUsage: "<raw tx>",
	}
)

// session holds what a command needs to talk to the device and the node.
type session struct {
	cfg    celosignerConfig
	signer signer.Signer
	client *celoclient.Client
	audit  *audit.CSVRecorder
}

func (s *session) Close() {
	if s.client != nil {
		s.client.Close()
	}
	if err := s.audit.Close(); err != nil {
		log.Warn("Failed to close audit trail", "err", err)
	}
}

func newSession(ctx *cli.Context, withNode bool) (*session, error) {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.Device.MnemonicFile == "" {
		return nil, fmt.Errorf("no device configured, set --%s", mnemonicFileFlag.Name)
	}
	mnemonic, err := fileutils.ReadSecret(cfg.Device.MnemonicFile)
	if err != nil {
		return nil, err
	}
	device, err := emulator.New(mnemonic, confirmOnConsole)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg}
	var backend signer.Backend
	if withNode {
		if s.client, err = celoclient.Dial(cfg.Node.RPC); err != nil {
			return nil, err
		}
		backend = s.client
	}
	ledger, err := signer.New(signer.Config{
		ChainID:        new(big.Int).SetUint64(cfg.Signer.ChainID),
		DerivationPath: cfg.Signer.DerivationPath,
	}, device, backend, nil)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.signer = signer.NewSerialized(ledger)

	if cfg.Audit.CSV != "" {
		if s.audit, err = audit.Open(cfg.Audit.CSV); err != nil {
			s.Close()
			return nil, err
		}
	}
	return s, nil
}

// confirmOnConsole stands in for the confirmation screen of the device.
func confirmOnConsole(path string, tx *celotx.TxRequest) error {
	value := new(big.Int)
	if tx.Value != nil {
		value = tx.Value.ToInt()
	}
	log.Info("Confirm transaction on device", "path", path, "to", tx.To, "value", token.FromBigInt(value), "feecurrency", tx.FeeCurrency)
	return nil
}

// withExitSignals returns a context that will stop whenever
// the process receive a SIGINT / SIGTERM
func withExitSignals(parentCtx context.Context) (context.Context, context.CancelFunc) {
	ctx, stop := context.WithCancel(parentCtx)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-ctx.Done():
		case sig := <-sigs:
			log.Info("Got signal, aborting", "signal", sig)
		}
		stop()
	}()
	return ctx, stop
}

func writeJSON(ctx *cli.Context, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(ctx.App.Writer, string(out))
	return err
}

func showAddress(ctx *cli.Context) error {
	s, err := newSession(ctx, false)
	if err != nil {
		return err
	}
	defer s.Close()

	cctx, cancel := withExitSignals(context.Background())
	defer cancel()
	address, err := s.signer.Address(cctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(ctx.App.Writer, address.Hex())
	return err
}

func populate(ctx *cli.Context) error {
	req, err := txFromFlags(ctx)
	if err != nil {
		return err
	}
	s, err := newSession(ctx, true)
	if err != nil {
		return err
	}
	defer s.Close()

	cctx, cancel := withExitSignals(context.Background())
	defer cancel()
	tx, err := s.signer.PopulateTransaction(cctx, req)
	if err != nil {
		return err
	}
	return writeJSON(ctx, tx)
}

// signRequest signs the request from the flags and records it in the audit
// trail.
func signRequest(ctx context.Context, cliCtx *cli.Context, s *session, action string) (string, error) {
	req, err := txFromFlags(cliCtx)
	if err != nil {
		return "", err
	}
	encoded, err := s.signer.SignTransaction(ctx, req)
	if err != nil {
		return "", err
	}
	tx, sig, err := celotx.Codec{}.Parse(encoded)
	if err != nil {
		return "", err
	}
	from, err := celotx.Sender(tx, sig)
	if err != nil {
		return "", err
	}
	if err := s.audit.RecordTransaction(action, from, encoded); err != nil {
		return "", fmt.Errorf("audit trail: %w", err)
	}
	return encoded, nil
}

func sign(ctx *cli.Context) error {
	s, err := newSession(ctx, true)
	if err != nil {
		return err
	}
	defer s.Close()

	cctx, cancel := withExitSignals(context.Background())
	defer cancel()
	encoded, err := signRequest(cctx, ctx, s, "sign")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(ctx.App.Writer, encoded)
	return err
}

func send(ctx *cli.Context) error {
	s, err := newSession(ctx, true)
	if err != nil {
		return err
	}
	defer s.Close()

	cctx, cancel := withExitSignals(context.Background())
	defer cancel()

	chainID, err := s.client.ChainID(cctx)
	if err != nil {
		return err
	}
	if chainID.Uint64() != s.cfg.Signer.ChainID {
		return fmt.Errorf("node at %s serves chain %v, signer is configured for %d", s.cfg.Node.RPC, chainID, s.cfg.Signer.ChainID)
	}
	encoded, err := signRequest(cctx, ctx, s, "send")
	if err != nil {
		return err
	}
	hash, err := s.client.SendRawTransaction(cctx, encoded)
	if err != nil {
		return err
	}
	log.Info("Submitted transaction", "hash", hash)
	_, err = fmt.Fprintln(ctx.App.Writer, hash.Hex())
	return err
}

type decodedTx struct {
	*celotx.TxRequest
	From      common.Address `json:"from"`
	Hash      common.Hash    `json:"hash"`
	V         *hexutil.Big   `json:"v"`
	R         *hexutil.Big   `json:"r"`
	S         *hexutil.Big   `json:"s"`
	ValueCelo *token.Token   `json:"valueCelo,omitempty"`
}

func decode(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("decode requires the raw transaction as its only argument")
	}
	encoded := celotx.EnsureLeading0x(ctx.Args().First())
	tx, sig, err := celotx.Codec{}.Parse(encoded)
	if err != nil {
		return err
	}
	from, err := celotx.Sender(tx, sig)
	if err != nil {
		return err
	}
	hash, err := celotx.Hash(encoded)
	if err != nil {
		return err
	}
	out := decodedTx{
		TxRequest: tx,
		From:      from,
		Hash:      hash,
		V:         (*hexutil.Big)(sig.V),
		R:         (*hexutil.Big)(sig.R),
		S:         (*hexutil.Big)(sig.S),
	}
	if tx.Value != nil {
		out.ValueCelo = token.FromBigInt(tx.Value.ToInt())
	}
	return writeJSON(ctx, out)
}
