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
	"errors"
)

// Kind classifies the errors returned by the signer.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindEstimation
	KindDevice
	KindUnsupported
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindEstimation:
		return "estimation"
	case KindDevice:
		return "device"
	case KindUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// Code is the machine readable discriminant carried by signer and backend
// errors.
type Code string

const (
	CodeMissingRecipient       Code = "MISSING_RECIPIENT"
	CodeSenderMismatch         Code = "SENDER_MISMATCH"
	CodeChainMismatch          Code = "CHAIN_MISMATCH"
	CodeInvalidConfig          Code = "INVALID_CONFIG"
	CodeUnpredictableGasLimit  Code = "UNPREDICTABLE_GAS_LIMIT"
	CodeInsufficientFunds      Code = "INSUFFICIENT_FUNDS"
	CodeNonceExpired           Code = "NONCE_EXPIRED"
	CodeReplacementUnderpriced Code = "REPLACEMENT_UNDERPRICED"
	CodeMalformedResponse      Code = "MALFORMED_RESPONSE"
	CodeNotImplemented         Code = "NOT_IMPLEMENTED"
	CodeMissingProvider        Code = "MISSING_PROVIDER"
	CodeServerError            Code = "SERVER_ERROR"
	CodeCallException          Code = "CALL_EXCEPTION"
)

var (
	ErrMissingRecipient  = errors.New("transaction to address missing")
	ErrSenderMismatch    = errors.New("transaction from address mismatch")
	ErrChainMismatch     = errors.New("transaction chain id mismatch")
	ErrCannotEstimateGas = errors.New("cannot estimate gas; transaction may fail or may require manual gas limit")
	ErrNotImplemented    = errors.New("operation not implemented")
	ErrNoBackend         = errors.New("missing network backend")
)

// Error is the error type returned by LedgerSigner.
type Error struct {
	Kind Kind
	Code Code
	Err  error
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// ErrorCode implements the coded error interface shared with backends.
func (e *Error) ErrorCode() Code { return e.Code }

// codedError is implemented by errors that carry a Code, including the
// errors of network backends.
type codedError interface {
	ErrorCode() Code
}

// ErrorCode returns the first code found in the chain of err, or "".
func ErrorCode(err error) Code {
	var coded codedError
	if errors.As(err, &coded) {
		return coded.ErrorCode()
	}
	return ""
}

// KindOf returns the kind of the first *Error found in the chain of err.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func newError(kind Kind, code Code, err error) *Error {
	return &Error{Kind: kind, Code: code, Err: err}
}

// isForwardedEstimationError reports whether a gas estimation failure is
// returned to the caller as is instead of being masked.
func isForwardedEstimationError(err error) bool {
	switch ErrorCode(err) {
	case CodeInsufficientFunds, CodeNonceExpired, CodeReplacementUnderpriced:
		return true
	}
	return false
}
