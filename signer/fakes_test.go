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
	"strings"
	"sync"

	"github.com/celo-org/celo-blockchain/common"
	"github.com/celo-org/celo-ledger-signer/celotx"
)

var (
	deviceAddr  = common.HexToAddress("0x5409ed021d9299bf6814279a6a1411a7e866a631")
	otherAddr   = common.HexToAddress("0x6ecbe1db9ef729cbe972c83fb886247691fb6beb")
	recipient   = common.HexToAddress("0x471ece3750da237f93b8e339c536989b8978a438")
	feeCurrency = common.HexToAddress("0x765de816845861e75a25fca122bb6898b8b1282a")

	testR = "0x" + strings.Repeat("11", 32)
	testS = "0x" + strings.Repeat("22", 32)
)

// codedErr is a backend error carrying a code.
type codedErr struct {
	code Code
	msg  string
}

func (e *codedErr) Error() string   { return e.msg }
func (e *codedErr) ErrorCode() Code { return e.code }

type fakeDevice struct {
	mu sync.Mutex

	address string
	addrErr error
	sig     *DeviceSignature
	signErr error

	addressCalls int
	payloads     []string
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		address: deviceAddr.Hex(),
		sig:     &DeviceSignature{V: "1b", R: testR, S: testS},
	}
}

func (d *fakeDevice) Address(ctx context.Context, path string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.addressCalls++
	return d.address, d.addrErr
}

func (d *fakeDevice) SignTransaction(ctx context.Context, path string, unsignedTx string) (*DeviceSignature, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.payloads = append(d.payloads, unsignedTx)
	return d.sig, d.signErr
}

type fakeBackend struct {
	mu sync.Mutex

	gasPrice    *big.Int
	nonce       uint64
	gas         uint64
	estimateErr error

	calls       []string
	feeCurrency *common.Address
	nonceFor    common.Address
	estimated   *celotx.TxRequest
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{gasPrice: big.NewInt(5000000000), nonce: 3, gas: 21000}
}

func (b *fakeBackend) record(call string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, call)
}

func (b *fakeBackend) callCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.calls)
}

func (b *fakeBackend) GasPrice(ctx context.Context, fc *common.Address) (*big.Int, error) {
	b.record("gasPrice")
	b.mu.Lock()
	b.feeCurrency = fc
	b.mu.Unlock()
	return new(big.Int).Set(b.gasPrice), nil
}

func (b *fakeBackend) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	b.record("nonce")
	b.mu.Lock()
	b.nonceFor = account
	b.mu.Unlock()
	return b.nonce, nil
}

func (b *fakeBackend) EstimateGas(ctx context.Context, tx *celotx.TxRequest) (uint64, error) {
	b.record("estimateGas")
	b.mu.Lock()
	b.estimated = tx.Copy()
	b.mu.Unlock()
	if b.estimateErr != nil {
		return 0, b.estimateErr
	}
	return b.gas, nil
}

// recordingCodec remembers the requests it serializes.
type recordingCodec struct {
	celotx.Codec
	serialized []*celotx.TxRequest
}

func (c *recordingCodec) Serialize(tx *celotx.TxRequest, sig *celotx.Signature) (string, error) {
	c.serialized = append(c.serialized, tx.Copy())
	return c.Codec.Serialize(tx, sig)
}
