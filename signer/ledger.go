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
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/celo-org/celo-blockchain/common"
	"github.com/celo-org/celo-blockchain/common/hexutil"
	"github.com/celo-org/celo-blockchain/log"
	"github.com/celo-org/celo-ledger-signer/celotx"
	"golang.org/x/sync/errgroup"
)

// LedgerSigner signs Celo legacy transactions with a hardware wallet. The
// signer address is read from the device on every call and never cached.
//
// The device processes one request at a time and LedgerSigner does not queue
// them; wrap it with NewSerialized when an instance is shared.
type LedgerSigner struct {
	chainID *big.Int
	path    string

	device  Device
	backend Backend // nil when no network is configured
	codec   Codec

	log log.Logger
}

// New creates a signer for the account at cfg.DerivationPath. The backend may
// be nil, in which case every field that needs the network must be supplied by
// the caller. A nil codec selects celotx.Codec.
func New(cfg Config, device Device, backend Backend, codec Codec) (*LedgerSigner, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if device == nil {
		return nil, newError(KindValidation, CodeInvalidConfig, errors.New("no device"))
	}
	if codec == nil {
		codec = celotx.Codec{}
	}
	return &LedgerSigner{
		chainID: new(big.Int).Set(cfg.ChainID),
		path:    cfg.DerivationPath,
		device:  device,
		backend: backend,
		codec:   codec,
		log:     log.New("path", cfg.DerivationPath, "chainid", cfg.ChainID),
	}, nil
}

// ChainID returns the configured chain id.
func (s *LedgerSigner) ChainID() *big.Int { return new(big.Int).Set(s.chainID) }

// DerivationPath returns the configured derivation path.
func (s *LedgerSigner) DerivationPath() string { return s.path }

// Address implements Signer, asking the device for the address at the
// derivation path.
func (s *LedgerSigner) Address(ctx context.Context) (common.Address, error) {
	reported, err := s.device.Address(ctx, s.path)
	if err != nil {
		return common.Address{}, err
	}
	if !common.IsHexAddress(reported) {
		return common.Address{}, newError(KindDevice, CodeMalformedResponse, fmt.Errorf("device reported invalid address %q", reported))
	}
	return common.HexToAddress(reported), nil
}

// PopulateTransaction implements Signer. A request without recipient or with
// a foreign chain id fails before any device or network call.
func (s *LedgerSigner) PopulateTransaction(ctx context.Context, tx *celotx.TxRequest) (*celotx.TxRequest, error) {
	return s.populate(ctx, tx, &senderResolver{resolve: s.Address})
}

// SignTransaction implements Signer.
func (s *LedgerSigner) SignTransaction(ctx context.Context, tx *celotx.TxRequest) (string, error) {
	start := time.Now()
	encoded, err := s.signTransaction(ctx, tx)
	if err != nil {
		signFailureMeter.Mark(1)
		return "", err
	}
	signTimer.UpdateSince(start)
	return encoded, nil
}

func (s *LedgerSigner) signTransaction(ctx context.Context, req *celotx.TxRequest) (string, error) {
	address, err := s.Address(ctx)
	if err != nil {
		return "", err
	}
	tx, err := s.populate(ctx, req, resolvedSender(address))
	if err != nil {
		return "", err
	}
	if tx.From != nil {
		if *tx.From != address {
			return "", newError(KindValidation, CodeSenderMismatch, fmt.Errorf("%w: have %s, want %s", ErrSenderMismatch, tx.From.Hex(), address.Hex()))
		}
		tx.From = nil
	}

	unsigned, err := s.codec.Serialize(tx, nil)
	if err != nil {
		return "", err
	}
	s.log.Trace("Requesting device signature", "address", address, "payload", unsigned)

	deviceStart := time.Now()
	raw, err := s.device.SignTransaction(ctx, s.path, celotx.TrimLeading0x(unsigned))
	if err != nil {
		return "", err
	}
	deviceSignTimer.UpdateSince(deviceStart)
	if raw == nil {
		return "", newError(KindDevice, CodeMalformedResponse, errors.New("device returned no signature"))
	}

	v, err := ReplayProtectedV(raw.V, s.chainID)
	if err != nil {
		return "", err
	}
	sig, err := celotx.NewSignature(v, celotx.EnsureLeading0x(raw.R), celotx.EnsureLeading0x(raw.S))
	if err != nil {
		return "", newError(KindDevice, CodeMalformedResponse, fmt.Errorf("invalid signature values: %w", err))
	}
	encoded, err := s.codec.Serialize(tx, sig)
	if err != nil {
		return "", err
	}
	if _, _, err := s.codec.Parse(encoded); err != nil {
		return "", fmt.Errorf("signed transaction does not parse: %w", err)
	}
	s.log.Debug("Signed transaction", "address", address, "nonce", uint64(*tx.Nonce), "to", tx.To, "v", v)
	return encoded, nil
}

// EstimateGas implements Signer by delegating to the backend.
func (s *LedgerSigner) EstimateGas(ctx context.Context, tx *celotx.TxRequest) (uint64, error) {
	if s.backend == nil {
		return 0, newError(KindValidation, CodeMissingProvider, ErrNoBackend)
	}
	return s.backend.EstimateGas(ctx, tx)
}

// GasPrice implements Signer by delegating to the backend. A nil fee currency
// selects the native currency.
func (s *LedgerSigner) GasPrice(ctx context.Context, feeCurrency *common.Address) (*big.Int, error) {
	if s.backend == nil {
		return nil, newError(KindValidation, CodeMissingProvider, ErrNoBackend)
	}
	return s.backend.GasPrice(ctx, feeCurrency)
}

// Connect implements Signer. Re-binding a hardware signer to another backend
// is not supported.
func (s *LedgerSigner) Connect(Backend) (Signer, error) {
	return nil, newError(KindUnsupported, CodeNotImplemented, fmt.Errorf("%w: connect", ErrNotImplemented))
}

// SignMessage implements Signer. Message signing is not supported.
func (s *LedgerSigner) SignMessage(context.Context, []byte) ([]byte, error) {
	return nil, newError(KindUnsupported, CodeNotImplemented, fmt.Errorf("%w: sign message", ErrNotImplemented))
}

func (s *LedgerSigner) transactionCount(ctx context.Context, account common.Address) (uint64, error) {
	if s.backend == nil {
		return 0, newError(KindValidation, CodeMissingProvider, ErrNoBackend)
	}
	return s.backend.PendingNonceAt(ctx, account)
}

// populate works on a copy of req; the caller's request is never modified.
func (s *LedgerSigner) populate(ctx context.Context, req *celotx.TxRequest, sender *senderResolver) (*celotx.TxRequest, error) {
	if req == nil || req.To == nil {
		return nil, newError(KindValidation, CodeMissingRecipient, ErrMissingRecipient)
	}
	if req.ChainID != nil && req.ChainID.ToInt().Cmp(s.chainID) != 0 {
		return nil, newError(KindValidation, CodeChainMismatch, fmt.Errorf("%w: have %v, want %v", ErrChainMismatch, req.ChainID.ToInt(), s.chainID))
	}
	defer populateTimer.UpdateSince(time.Now())

	tx := req.Copy()

	// Gas price and nonce are independent reads. Each goroutine writes a
	// distinct field of tx.
	g, gctx := errgroup.WithContext(ctx)
	if tx.GasPrice == nil {
		g.Go(func() error {
			price, err := s.GasPrice(gctx, tx.FeeCurrency)
			if err != nil {
				return err
			}
			tx.GasPrice = (*hexutil.Big)(price)
			return nil
		})
	}
	if tx.Nonce == nil {
		g.Go(func() error {
			address, err := sender.get(gctx)
			if err != nil {
				return err
			}
			nonce, err := s.transactionCount(gctx, address)
			if err != nil {
				return err
			}
			tx.Nonce = (*hexutil.Uint64)(&nonce)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if tx.Gas == nil {
		estimate := tx.Copy()
		if estimate.From == nil {
			address, err := sender.get(ctx)
			if err != nil {
				return nil, err
			}
			estimate.From = &address
		}
		gas, err := s.EstimateGas(ctx, estimate)
		if err != nil {
			if isForwardedEstimationError(err) {
				return nil, err
			}
			maskedEstimations.Mark(1)
			s.log.Debug("Gas estimation failed", "err", err)
			return nil, newError(KindEstimation, CodeUnpredictableGasLimit, ErrCannotEstimateGas)
		}
		tx.Gas = (*hexutil.Uint64)(&gas)
	}

	if tx.ChainID == nil {
		tx.ChainID = (*hexutil.Big)(new(big.Int).Set(s.chainID))
	}
	s.log.Debug("Populated transaction", "nonce", uint64(*tx.Nonce), "gasprice", tx.GasPrice.ToInt(), "gas", uint64(*tx.Gas))
	return tx, nil
}

// senderResolver resolves the signer address at most once per operation.
type senderResolver struct {
	resolve func(context.Context) (common.Address, error)

	once    sync.Once
	address common.Address
	err     error
}

func resolvedSender(address common.Address) *senderResolver {
	return &senderResolver{resolve: func(context.Context) (common.Address, error) { return address, nil }}
}

func (r *senderResolver) get(ctx context.Context) (common.Address, error) {
	r.once.Do(func() {
		r.address, r.err = r.resolve(ctx)
	})
	return r.address, r.err
}
