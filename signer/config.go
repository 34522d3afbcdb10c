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

	"github.com/celo-org/celo-blockchain/accounts"
)

const (
	// DefaultDerivationPath is the first account of Celo's BIP-44 coin type.
	DefaultDerivationPath = "m/44'/52752'/0'/0/0"

	MainnetChainID   = 42220
	AlfajoresChainID = 44787
	BaklavaChainID   = 62320
)

// Config holds the immutable settings of a LedgerSigner.
type Config struct {
	ChainID        *big.Int
	DerivationPath string
}

// DefaultConfig targets Celo mainnet with the default derivation path.
var DefaultConfig = Config{
	ChainID:        big.NewInt(MainnetChainID),
	DerivationPath: DefaultDerivationPath,
}

func (c *Config) validate() error {
	if c.ChainID == nil || c.ChainID.Sign() <= 0 {
		return newError(KindValidation, CodeInvalidConfig, fmt.Errorf("invalid chain id %v", c.ChainID))
	}
	if _, err := accounts.ParseDerivationPath(c.DerivationPath); err != nil {
		return newError(KindValidation, CodeInvalidConfig, fmt.Errorf("invalid derivation path %q: %w", c.DerivationPath, err))
	}
	return nil
}
