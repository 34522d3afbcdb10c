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
	"math/big"

	"github.com/celo-org/celo-blockchain/common"
	"github.com/celo-org/celo-blockchain/common/hexutil"
	"github.com/celo-org/celo-blockchain/crypto"
)

var big35 = big.NewInt(35)

// SigningHash returns the keccak256 hash of the signing payload of tx.
func SigningHash(tx *TxRequest) (common.Hash, error) {
	payload, err := EncodeUnsigned(tx)
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(payload), nil
}

// Hash returns the transaction hash of a 0x prefixed signed transaction.
func Hash(encoded string) (common.Hash, error) {
	b, err := hexutil.Decode(encoded)
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(b), nil
}

// Sender recovers the address that produced sig over tx. The chain id of tx
// must match the one folded into V.
func Sender(tx *TxRequest, sig *Signature) (common.Address, error) {
	if sig == nil || sig.V == nil || sig.R == nil || sig.S == nil {
		return common.Address{}, ErrInvalidSig
	}
	unsigned := tx.Copy()
	if unsigned == nil {
		return common.Address{}, ErrMissingField
	}
	var recID *big.Int
	if chainID := deriveChainID(sig.V); chainID != nil {
		if unsigned.ChainID != nil && unsigned.ChainID.ToInt().Cmp(chainID) != 0 {
			return common.Address{}, ErrInvalidSig
		}
		unsigned.ChainID = (*hexutil.Big)(chainID)
		recID = new(big.Int).Sub(sig.V, new(big.Int).Add(new(big.Int).Mul(chainID, big.NewInt(2)), big35))
	} else {
		unsigned.ChainID = nil
		recID = new(big.Int).Sub(sig.V, big.NewInt(27))
	}
	if !recID.IsUint64() || recID.Uint64() > 1 {
		return common.Address{}, ErrInvalidSig
	}
	v := byte(recID.Uint64())
	if !crypto.ValidateSignatureValues(v, sig.R, sig.S, true) {
		return common.Address{}, ErrInvalidSig
	}
	hash, err := SigningHash(unsigned)
	if err != nil {
		return common.Address{}, err
	}
	raw := make([]byte, crypto.SignatureLength)
	sig.R.FillBytes(raw[:32])
	sig.S.FillBytes(raw[32:64])
	raw[64] = v
	pub, err := crypto.SigToPub(hash.Bytes(), raw)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// deriveChainID returns the chain id folded into an EIP-155 V, or nil when V
// is one of the unprotected values 27 and 28.
func deriveChainID(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	if v.BitLen() <= 64 {
		n := v.Uint64()
		if n == 27 || n == 28 || n < 35 {
			return nil
		}
		return new(big.Int).SetUint64((n - 35) / 2)
	}
	chainID := new(big.Int).Sub(v, big35)
	return chainID.Div(chainID, big.NewInt(2))
}
