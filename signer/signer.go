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

// Package signer adapts a hardware wallet to the generic transaction signer
// capability for Celo legacy transactions.
package signer

import (
	"context"
	"math/big"

	"github.com/celo-org/celo-blockchain/common"
	"github.com/celo-org/celo-ledger-signer/celotx"
)

// Signer is the capability shared by hardware and software signers.
type Signer interface {
	// Address returns the account the signer signs for.
	Address(ctx context.Context) (common.Address, error)

	// PopulateTransaction fills in the missing fields of a copy of tx.
	PopulateTransaction(ctx context.Context, tx *celotx.TxRequest) (*celotx.TxRequest, error)

	// SignTransaction returns the 0x prefixed signed encoding of tx.
	SignTransaction(ctx context.Context, tx *celotx.TxRequest) (string, error)

	EstimateGas(ctx context.Context, tx *celotx.TxRequest) (uint64, error)
	GasPrice(ctx context.Context, feeCurrency *common.Address) (*big.Int, error)

	Connect(backend Backend) (Signer, error)
	SignMessage(ctx context.Context, msg []byte) ([]byte, error)
}

// DeviceSignature is the raw signature reported by a device, as hex strings
// with or without a 0x prefix. V is not replay protected.
type DeviceSignature struct {
	V string
	R string
	S string
}

// Device is the hardware wallet transport.
type Device interface {
	// Address returns the address of the key at the derivation path.
	Address(ctx context.Context, path string) (string, error)

	// SignTransaction asks the device to sign the unsigned payload, given as
	// hex without a 0x prefix. The call blocks until the user approves.
	SignTransaction(ctx context.Context, path string, unsignedTx string) (*DeviceSignature, error)
}

// Backend is the network client used to populate transactions.
type Backend interface {
	GasPrice(ctx context.Context, feeCurrency *common.Address) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	EstimateGas(ctx context.Context, tx *celotx.TxRequest) (uint64, error)
}

// Codec serializes and parses transactions. celotx.Codec is the default.
type Codec interface {
	Serialize(tx *celotx.TxRequest, sig *celotx.Signature) (string, error)
	Parse(encoded string) (*celotx.TxRequest, *celotx.Signature, error)
}
