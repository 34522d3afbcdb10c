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

package signer_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/celo-org/celo-blockchain/common"
	"github.com/celo-org/celo-blockchain/common/hexutil"
	"github.com/celo-org/celo-ledger-signer/celotx"
	"github.com/celo-org/celo-ledger-signer/device/emulator"
	"github.com/celo-org/celo-ledger-signer/signer"
	"github.com/stretchr/testify/require"
)

const testMnemonic = "test test test test test test test test test test test junk"

func TestEmulatedDeviceSignatures(t *testing.T) {
	device, err := emulator.New(testMnemonic, nil)
	require.NoError(t, err)

	for _, chainID := range []int64{1, signer.MainnetChainID, signer.AlfajoresChainID, signer.BaklavaChainID} {
		s, err := signer.New(signer.Config{ChainID: big.NewInt(chainID), DerivationPath: signer.DefaultDerivationPath}, device, nil, nil)
		require.NoError(t, err)
		from, err := s.Address(context.Background())
		require.NoError(t, err)

		// Several nonces so both signature parities are exercised.
		for nonce := uint64(0); nonce < 8; nonce++ {
			to := common.HexToAddress("0x471ece3750da237f93b8e339c536989b8978a438")
			n, gas := hexutil.Uint64(nonce), hexutil.Uint64(21000)
			req := &celotx.TxRequest{
				From:     &from,
				To:       &to,
				Nonce:    &n,
				Gas:      &gas,
				GasPrice: (*hexutil.Big)(big.NewInt(500000000)),
				Value:    (*hexutil.Big)(big.NewInt(1)),
			}
			encoded, err := s.SignTransaction(context.Background(), req)
			require.NoError(t, err)

			tx, sig, err := celotx.Codec{}.Parse(encoded)
			require.NoError(t, err)
			require.EqualValues(t, chainID, tx.ChainID.ToInt().Int64())
			sender, err := celotx.Sender(tx, sig)
			require.NoError(t, err)
			require.Equal(t, from, sender, "chain %d nonce %d", chainID, nonce)
		}
	}
}

func TestEmulatedDeviceRejection(t *testing.T) {
	device, err := emulator.New(testMnemonic, emulator.RejectAll)
	require.NoError(t, err)
	s, err := signer.New(signer.DefaultConfig, device, nil, nil)
	require.NoError(t, err)

	to := common.HexToAddress("0x471ece3750da237f93b8e339c536989b8978a438")
	n, gas := hexutil.Uint64(0), hexutil.Uint64(21000)
	_, err = s.SignTransaction(context.Background(), &celotx.TxRequest{
		To: &to, Nonce: &n, Gas: &gas, GasPrice: (*hexutil.Big)(big.NewInt(1)),
	})
	require.ErrorIs(t, err, emulator.ErrRejected)
	require.Equal(t, signer.KindUnknown, signer.KindOf(err))
}
