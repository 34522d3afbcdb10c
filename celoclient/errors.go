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

package celoclient

import (
	"strings"

	"github.com/celo-org/celo-ledger-signer/signer"
)

// Error is a node error annotated with a signer code.
type Error struct {
	Code signer.Code
	Err  error
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) ErrorCode() signer.Code { return e.Code }

// Node error messages, as returned by the transaction pool and the EVM.
var messageCodes = []struct {
	fragment string
	code     signer.Code
}{
	{"insufficient funds", signer.CodeInsufficientFunds},
	{"nonce too low", signer.CodeNonceExpired},
	{"replacement transaction underpriced", signer.CodeReplacementUnderpriced},
	{"execution reverted", signer.CodeCallException},
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	for _, mc := range messageCodes {
		if strings.Contains(msg, mc.fragment) {
			return &Error{Code: mc.code, Err: err}
		}
	}
	return &Error{Code: signer.CodeServerError, Err: err}
}
