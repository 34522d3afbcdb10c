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

// Package celotx implements the Celo legacy transaction request together with
// its RLP encoding, the signing payload handed to hardware wallets and sender
// recovery from a replay protected signature.
package celotx

import (
	"math/big"
	"strings"

	"github.com/celo-org/celo-blockchain/common"
	"github.com/celo-org/celo-blockchain/common/hexutil"
)

// TxRequest is a possibly partially populated Celo legacy transaction. Nil
// fields are unset. The JSON form follows the eth_sendTransaction arguments
// plus the Celo fee fields.
type TxRequest struct {
	From     *common.Address `json:"from,omitempty"`
	To       *common.Address `json:"to,omitempty"`
	Nonce    *hexutil.Uint64 `json:"nonce,omitempty"`
	GasPrice *hexutil.Big    `json:"gasPrice,omitempty"`
	Gas      *hexutil.Uint64 `json:"gas,omitempty"`
	Value    *hexutil.Big    `json:"value,omitempty"`
	Data     *hexutil.Bytes  `json:"data,omitempty"`
	ChainID  *hexutil.Big    `json:"chainId,omitempty"`

	// Celo specific fields
	FeeCurrency         *common.Address `json:"feeCurrency,omitempty"`
	GatewayFeeRecipient *common.Address `json:"gatewayFeeRecipient,omitempty"`
	GatewayFee          *hexutil.Big    `json:"gatewayFee,omitempty"`
}

// Copy returns a deep copy of the request. Mutating the copy never touches the
// original.
func (tx *TxRequest) Copy() *TxRequest {
	if tx == nil {
		return nil
	}
	return &TxRequest{
		From:                copyAddress(tx.From),
		To:                  copyAddress(tx.To),
		Nonce:               copyUint64(tx.Nonce),
		GasPrice:            copyBig(tx.GasPrice),
		Gas:                 copyUint64(tx.Gas),
		Value:               copyBig(tx.Value),
		Data:                copyBytes(tx.Data),
		ChainID:             copyBig(tx.ChainID),
		FeeCurrency:         copyAddress(tx.FeeCurrency),
		GatewayFeeRecipient: copyAddress(tx.GatewayFeeRecipient),
		GatewayFee:          copyBig(tx.GatewayFee),
	}
}

// Signature is a replay protected secp256k1 signature over a transaction.
type Signature struct {
	V *big.Int
	R *big.Int
	S *big.Int
}

// NewSignature builds a signature from a V value and the 0x prefixed hex
// encodings of R and S as reported by a device.
func NewSignature(v *big.Int, r, s string) (*Signature, error) {
	if v == nil {
		return nil, ErrInvalidSig
	}
	rb, err := hexutil.Decode(r)
	if err != nil {
		return nil, err
	}
	sb, err := hexutil.Decode(s)
	if err != nil {
		return nil, err
	}
	if len(rb) > 32 || len(sb) > 32 {
		return nil, ErrInvalidSig
	}
	return &Signature{
		V: new(big.Int).Set(v),
		R: new(big.Int).SetBytes(rb),
		S: new(big.Int).SetBytes(sb),
	}, nil
}

// TrimLeading0x removes a single 0x prefix if present.
func TrimLeading0x(s string) string {
	return strings.TrimPrefix(s, "0x")
}

// EnsureLeading0x adds a 0x prefix unless the string already carries one.
func EnsureLeading0x(s string) string {
	if strings.HasPrefix(s, "0x") {
		return s
	}
	return "0x" + s
}

func copyAddress(a *common.Address) *common.Address {
	if a == nil {
		return nil
	}
	cpy := *a
	return &cpy
}

func copyUint64(n *hexutil.Uint64) *hexutil.Uint64 {
	if n == nil {
		return nil
	}
	cpy := *n
	return &cpy
}

func copyBig(b *hexutil.Big) *hexutil.Big {
	if b == nil {
		return nil
	}
	return (*hexutil.Big)(new(big.Int).Set(b.ToInt()))
}

func copyBytes(b *hexutil.Bytes) *hexutil.Bytes {
	if b == nil {
		return nil
	}
	cpy := hexutil.Bytes(common.CopyBytes(*b))
	return &cpy
}
