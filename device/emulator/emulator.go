// Copyright 2024 The Celo Authors
// This file is part of the celo library.
//
// The celo library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The celo library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the celo library. If not, see <http://www.gnu.org/licenses/>.

// Package emulator implements a software stand-in for a Ledger running the
// Celo app. Keys are derived from a mnemonic and signatures are reported the
// way the device reports them: bare hex and a single byte V.
package emulator

import (
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/celo-org/celo-blockchain/crypto"
	"github.com/celo-org/celo-blockchain/log"
	"github.com/celo-org/celo-ledger-signer/celotx"
	"github.com/celo-org/celo-ledger-signer/internal/hdwallet"
	"github.com/celo-org/celo-ledger-signer/signer"
)

// ErrRejected is returned when the approval callback declines a transaction.
var ErrRejected = errors.New("emulator: transaction rejected by user")

// ApproveFunc is shown every transaction before signing, like the confirmation
// screen of the device. A non-nil error aborts the signature.
type ApproveFunc func(path string, tx *celotx.TxRequest) error

// RejectAll declines every transaction.
func RejectAll(string, *celotx.TxRequest) error { return ErrRejected }

// Device is an emulated hardware wallet.
type Device struct {
	wallet  *hdwallet.Wallet
	approve ApproveFunc
	log     log.Logger
}

var _ signer.Device = (*Device)(nil)

// New creates a device holding the keys of mnemonic. A nil approve signs
// every request.
func New(mnemonic string, approve ApproveFunc) (*Device, error) {
	wallet, err := hdwallet.NewFromMnemonic(mnemonic)
	if err != nil {
		return nil, err
	}
	return &Device{wallet: wallet, approve: approve, log: log.New("device", "emulator")}, nil
}

func (d *Device) key(path string) (*ecdsa.PrivateKey, error) {
	parsed, err := hdwallet.ParseDerivationPath(path)
	if err != nil {
		return nil, err
	}
	return d.wallet.PrivateKey(parsed)
}

// Address implements signer.Device.
func (d *Device) Address(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key, err := d.key(path)
	if err != nil {
		return "", err
	}
	return crypto.PubkeyToAddress(key.PublicKey).Hex(), nil
}

// SignTransaction implements signer.Device. V is truncated to one byte as the
// Ledger Celo app does for large chain ids.
func (d *Device) SignTransaction(ctx context.Context, path string, unsignedTx string) (*signer.DeviceSignature, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	payload, err := hex.DecodeString(unsignedTx)
	if err != nil {
		return nil, fmt.Errorf("emulator: invalid payload: %w", err)
	}
	tx, err := celotx.DecodeUnsigned(payload)
	if err != nil {
		return nil, fmt.Errorf("emulator: %w", err)
	}
	if d.approve != nil {
		if err := d.approve(path, tx); err != nil {
			return nil, err
		}
	}
	key, err := d.key(path)
	if err != nil {
		return nil, err
	}
	sig, err := crypto.Sign(crypto.Keccak256(payload), key)
	if err != nil {
		return nil, err
	}
	v := 27 + sig[64]
	if tx.ChainID != nil {
		v = byte(tx.ChainID.ToInt().Uint64()*2 + 35 + uint64(sig[64]))
	}
	d.log.Trace("Signed transaction", "path", path, "to", tx.To, "v", v)
	return &signer.DeviceSignature{
		V: hex.EncodeToString([]byte{v}),
		R: hex.EncodeToString(sig[:32]),
		S: hex.EncodeToString(sig[32:64]),
	}, nil
}
