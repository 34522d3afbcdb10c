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

package celotx

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/celo-org/celo-blockchain/common"
	"github.com/celo-org/celo-blockchain/common/hexutil"
	"github.com/celo-org/celo-blockchain/rlp"
)

// celoTxNumFields is the element count of both the signed Celo legacy encoding
// and its EIP-155 signing payload.
const celoTxNumFields = 12

var (
	ErrMissingField   = errors.New("transaction field missing")
	ErrInvalidSig     = errors.New("invalid transaction v, r, s values")
	ErrInvalidPayload = errors.New("invalid celo transaction encoding")
)

// celoTxRlpList is the signed Celo legacy transaction.
type celoTxRlpList struct {
	Nonce               uint64          // nonce of sender account
	GasPrice            *big.Int        // wei per gas
	Gas                 uint64          // gas limit
	FeeCurrency         *common.Address `rlp:"nil"` // nil means native currency
	GatewayFeeRecipient *common.Address `rlp:"nil"` // nil means no gateway fee is paid
	GatewayFee          *big.Int        `rlp:"nil"`
	To                  *common.Address `rlp:"nil"` // nil means contract creation
	Value               *big.Int        // wei amount
	Data                []byte          // contract invocation input data
	V, R, S             *big.Int        // signature values
}

// celoSigningRlpList is the EIP-155 payload a device signs. The signature
// slots carry the chain id followed by two zeros.
type celoSigningRlpList struct {
	Nonce               uint64
	GasPrice            *big.Int
	Gas                 uint64
	FeeCurrency         *common.Address `rlp:"nil"`
	GatewayFeeRecipient *common.Address `rlp:"nil"`
	GatewayFee          *big.Int        `rlp:"nil"`
	To                  *common.Address `rlp:"nil"`
	Value               *big.Int
	Data                []byte
	ChainID             *big.Int
	Zero1, Zero2        uint
}

// celoUnprotectedRlpList is the pre EIP-155 payload used when no chain id is known.
type celoUnprotectedRlpList struct {
	Nonce               uint64
	GasPrice            *big.Int
	Gas                 uint64
	FeeCurrency         *common.Address `rlp:"nil"`
	GatewayFeeRecipient *common.Address `rlp:"nil"`
	GatewayFee          *big.Int        `rlp:"nil"`
	To                  *common.Address `rlp:"nil"`
	Value               *big.Int
	Data                []byte
}

// Codec converts between transaction requests and their 0x prefixed hex RLP
// encoding.
type Codec struct{}

// Serialize encodes the request. A nil signature yields the unsigned signing
// payload, otherwise the signed transaction.
func (Codec) Serialize(tx *TxRequest, sig *Signature) (string, error) {
	var (
		enc []byte
		err error
	)
	if sig == nil {
		enc, err = EncodeUnsigned(tx)
	} else {
		enc, err = EncodeSigned(tx, sig)
	}
	if err != nil {
		return "", err
	}
	return hexutil.Encode(enc), nil
}

// Parse decodes a 0x prefixed signed transaction.
func (Codec) Parse(encoded string) (*TxRequest, *Signature, error) {
	b, err := hexutil.Decode(encoded)
	if err != nil {
		return nil, nil, err
	}
	return DecodeSigned(b)
}

// EncodeUnsigned returns the RLP payload that is hashed and signed for tx.
func EncodeUnsigned(tx *TxRequest) ([]byte, error) {
	if err := checkFields(tx); err != nil {
		return nil, err
	}
	if tx.ChainID == nil {
		return rlp.EncodeToBytes(celoUnprotectedRlpList{
			Nonce:               uint64(*tx.Nonce),
			GasPrice:            tx.GasPrice.ToInt(),
			Gas:                 uint64(*tx.Gas),
			FeeCurrency:         tx.FeeCurrency,
			GatewayFeeRecipient: tx.GatewayFeeRecipient,
			GatewayFee:          bigOrNil(tx.GatewayFee),
			To:                  tx.To,
			Value:               bigOrZero(tx.Value),
			Data:                bytesOrEmpty(tx.Data),
		})
	}
	return rlp.EncodeToBytes(celoSigningRlpList{
		Nonce:               uint64(*tx.Nonce),
		GasPrice:            tx.GasPrice.ToInt(),
		Gas:                 uint64(*tx.Gas),
		FeeCurrency:         tx.FeeCurrency,
		GatewayFeeRecipient: tx.GatewayFeeRecipient,
		GatewayFee:          bigOrNil(tx.GatewayFee),
		To:                  tx.To,
		Value:               bigOrZero(tx.Value),
		Data:                bytesOrEmpty(tx.Data),
		ChainID:             tx.ChainID.ToInt(),
	})
}

// EncodeSigned returns the RLP encoding of tx carrying sig.
func EncodeSigned(tx *TxRequest, sig *Signature) ([]byte, error) {
	if err := checkFields(tx); err != nil {
		return nil, err
	}
	if sig == nil || sig.V == nil || sig.R == nil || sig.S == nil {
		return nil, ErrInvalidSig
	}
	return rlp.EncodeToBytes(celoTxRlpList{
		Nonce:               uint64(*tx.Nonce),
		GasPrice:            tx.GasPrice.ToInt(),
		Gas:                 uint64(*tx.Gas),
		FeeCurrency:         tx.FeeCurrency,
		GatewayFeeRecipient: tx.GatewayFeeRecipient,
		GatewayFee:          bigOrNil(tx.GatewayFee),
		To:                  tx.To,
		Value:               bigOrZero(tx.Value),
		Data:                bytesOrEmpty(tx.Data),
		V:                   sig.V,
		R:                   sig.R,
		S:                   sig.S,
	})
}

// DecodeSigned decodes a signed Celo legacy transaction. The chain id of the
// returned request is derived from V and left nil for unprotected signatures.
func DecodeSigned(b []byte) (*TxRequest, *Signature, error) {
	if err := checkListSize(b, celoTxNumFields); err != nil {
		return nil, nil, err
	}
	var dec celoTxRlpList
	if err := rlp.DecodeBytes(b, &dec); err != nil {
		return nil, nil, err
	}
	tx := requestFromFields(dec.Nonce, dec.GasPrice, dec.Gas, dec.FeeCurrency, dec.GatewayFeeRecipient, dec.GatewayFee, dec.To, dec.Value, dec.Data)
	if chainID := deriveChainID(dec.V); chainID != nil {
		tx.ChainID = (*hexutil.Big)(chainID)
	}
	return tx, &Signature{V: dec.V, R: dec.R, S: dec.S}, nil
}

// DecodeUnsigned decodes a signing payload as produced by EncodeUnsigned.
func DecodeUnsigned(b []byte) (*TxRequest, error) {
	n, err := listSize(b)
	if err != nil {
		return nil, err
	}
	switch n {
	case celoTxNumFields:
		var dec celoSigningRlpList
		if err := rlp.DecodeBytes(b, &dec); err != nil {
			return nil, err
		}
		if dec.Zero1 != 0 || dec.Zero2 != 0 {
			return nil, fmt.Errorf("%w: non-zero signature slots in signing payload", ErrInvalidPayload)
		}
		tx := requestFromFields(dec.Nonce, dec.GasPrice, dec.Gas, dec.FeeCurrency, dec.GatewayFeeRecipient, dec.GatewayFee, dec.To, dec.Value, dec.Data)
		tx.ChainID = (*hexutil.Big)(dec.ChainID)
		return tx, nil
	case celoTxNumFields - 3:
		var dec celoUnprotectedRlpList
		if err := rlp.DecodeBytes(b, &dec); err != nil {
			return nil, err
		}
		return requestFromFields(dec.Nonce, dec.GasPrice, dec.Gas, dec.FeeCurrency, dec.GatewayFeeRecipient, dec.GatewayFee, dec.To, dec.Value, dec.Data), nil
	default:
		return nil, fmt.Errorf("%w: unexpected field count %d", ErrInvalidPayload, n)
	}
}

func checkFields(tx *TxRequest) error {
	switch {
	case tx == nil:
		return fmt.Errorf("%w: nil transaction", ErrMissingField)
	case tx.Nonce == nil:
		return fmt.Errorf("%w: nonce", ErrMissingField)
	case tx.GasPrice == nil:
		return fmt.Errorf("%w: gasPrice", ErrMissingField)
	case tx.Gas == nil:
		return fmt.Errorf("%w: gas", ErrMissingField)
	}
	return nil
}

func listSize(b []byte) (int, error) {
	content, rest, err := rlp.SplitList(b)
	if err != nil {
		return 0, err
	}
	if len(rest) != 0 {
		return 0, fmt.Errorf("%w: trailing bytes after transaction", ErrInvalidPayload)
	}
	return rlp.CountValues(content)
}

func checkListSize(b []byte, want int) error {
	n, err := listSize(b)
	if err != nil {
		return err
	}
	if n != want {
		return fmt.Errorf("%w: unexpected field count %d", ErrInvalidPayload, n)
	}
	return nil
}

func requestFromFields(nonce uint64, gasPrice *big.Int, gas uint64, feeCurrency, gatewayFeeRecipient *common.Address, gatewayFee *big.Int, to *common.Address, value *big.Int, data []byte) *TxRequest {
	n, g := hexutil.Uint64(nonce), hexutil.Uint64(gas)
	tx := &TxRequest{
		Nonce:               &n,
		GasPrice:            (*hexutil.Big)(gasPrice),
		Gas:                 &g,
		FeeCurrency:         feeCurrency,
		GatewayFeeRecipient: gatewayFeeRecipient,
		To:                  to,
		Value:               (*hexutil.Big)(value),
	}
	// An absent gateway fee and a zero one share the same encoding.
	if gatewayFee != nil && gatewayFee.Sign() != 0 {
		tx.GatewayFee = (*hexutil.Big)(gatewayFee)
	}
	if len(data) > 0 {
		d := hexutil.Bytes(data)
		tx.Data = &d
	}
	return tx
}

func bigOrNil(b *hexutil.Big) *big.Int {
	if b == nil {
		return nil
	}
	return b.ToInt()
}

func bigOrZero(b *hexutil.Big) *big.Int {
	if b == nil {
		return new(big.Int)
	}
	return b.ToInt()
}

func bytesOrEmpty(b *hexutil.Bytes) []byte {
	if b == nil {
		return []byte{}
	}
	return *b
}
