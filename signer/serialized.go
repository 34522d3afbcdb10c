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

package signer

import (
	"context"
	"math/big"

	"github.com/celo-org/celo-blockchain/common"
	"github.com/celo-org/celo-ledger-signer/celotx"
)

// serialized funnels every device touching call of a Signer through a single
// comms lock.
type serialized struct {
	inner     Signer
	commsLock chan struct{} // Mutex (buf=1) for device communication
}

// NewSerialized wraps s so that at most one device interaction is in flight.
// Waiting for the lock honours ctx.
func NewSerialized(s Signer) Signer {
	w := &serialized{inner: s, commsLock: make(chan struct{}, 1)}
	w.commsLock <- struct{}{}
	return w
}

func (w *serialized) lock(ctx context.Context) error {
	select {
	case <-w.commsLock:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *serialized) unlock() { w.commsLock <- struct{}{} }

func (w *serialized) Address(ctx context.Context) (common.Address, error) {
	if err := w.lock(ctx); err != nil {
		return common.Address{}, err
	}
	defer w.unlock()
	return w.inner.Address(ctx)
}

func (w *serialized) PopulateTransaction(ctx context.Context, tx *celotx.TxRequest) (*celotx.TxRequest, error) {
	if err := w.lock(ctx); err != nil {
		return nil, err
	}
	defer w.unlock()
	return w.inner.PopulateTransaction(ctx, tx)
}

func (w *serialized) SignTransaction(ctx context.Context, tx *celotx.TxRequest) (string, error) {
	if err := w.lock(ctx); err != nil {
		return "", err
	}
	defer w.unlock()
	return w.inner.SignTransaction(ctx, tx)
}

// No device communication, no lock needed.

func (w *serialized) EstimateGas(ctx context.Context, tx *celotx.TxRequest) (uint64, error) {
	return w.inner.EstimateGas(ctx, tx)
}

func (w *serialized) GasPrice(ctx context.Context, feeCurrency *common.Address) (*big.Int, error) {
	return w.inner.GasPrice(ctx, feeCurrency)
}

func (w *serialized) Connect(backend Backend) (Signer, error) {
	return w.inner.Connect(backend)
}

func (w *serialized) SignMessage(ctx context.Context, msg []byte) ([]byte, error) {
	return w.inner.SignMessage(ctx, msg)
}
