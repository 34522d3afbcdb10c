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
	"fmt"
	"math/big"

	"github.com/celo-org/celo-ledger-signer/celotx"
)

var (
	big1  = big.NewInt(1)
	big2  = big.NewInt(2)
	big35 = big.NewInt(35)
)

// ReplayProtectedV maps the V reported by a device onto the EIP-155 value
// chainID*2+35+parity. Ledger devices only return the low byte of the
// protected value, so rawV is accepted when it is a bit subset of the even
// parity value.
func ReplayProtectedV(rawV string, chainID *big.Int) (*big.Int, error) {
	sigV, ok := new(big.Int).SetString(celotx.TrimLeading0x(rawV), 16)
	if !ok || sigV.Sign() < 0 {
		return nil, newError(KindDevice, CodeMalformedResponse, fmt.Errorf("invalid signature v %q", rawV))
	}
	if chainID == nil || chainID.Sign() <= 0 {
		return nil, newError(KindValidation, CodeInvalidConfig, fmt.Errorf("invalid chain id %v", chainID))
	}
	v := new(big.Int).Mul(chainID, big2)
	v.Add(v, big35)

	if sigV.Cmp(v) != 0 && new(big.Int).And(sigV, v).Cmp(sigV) != 0 {
		v.Add(v, big1)
	}
	return v, nil
}
