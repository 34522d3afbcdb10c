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
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/celo-org/celo-blockchain/common"
	"github.com/celo-org/celo-blockchain/common/hexutil"
	"github.com/celo-org/celo-blockchain/crypto"
	"github.com/celo-org/celo-blockchain/rpc"
	"github.com/celo-org/celo-ledger-signer/celotx"
	"github.com/celo-org/celo-ledger-signer/device/emulator"
	"github.com/celo-org/celo-ledger-signer/signer"
	"github.com/stretchr/testify/require"
)

var (
	cUSD      = common.HexToAddress("0x765de816845861e75a25fca122bb6898b8b1282a")
	recipient = common.HexToAddress("0x471ece3750da237f93b8e339c536989b8978a438")
)

type callArgs struct {
	From                *common.Address `json:"from"`
	To                  *common.Address `json:"to"`
	Gas                 *hexutil.Uint64 `json:"gas"`
	GasPrice            *hexutil.Big    `json:"gasPrice"`
	Value               *hexutil.Big    `json:"value"`
	Data                *hexutil.Bytes  `json:"data"`
	FeeCurrency         *common.Address `json:"feeCurrency"`
	GatewayFeeRecipient *common.Address `json:"gatewayFeeRecipient"`
	GatewayFee          *hexutil.Big    `json:"gatewayFee"`
}

// testEthAPI serves the eth namespace subset used by the signer.
type testEthAPI struct {
	mu sync.Mutex

	chainID     int64
	nonces      map[common.Address]uint64
	estimate    uint64
	estimateErr error
	sendErr     error

	lastEstimate callArgs
	lastBlock    string
	sent         []hexutil.Bytes
}

func (api *testEthAPI) ChainId() (*hexutil.Big, error) {
	return (*hexutil.Big)(big.NewInt(api.chainID)), nil
}

func (api *testEthAPI) GasPrice(ctx context.Context, feeCurrency *common.Address) (*hexutil.Big, error) {
	if feeCurrency != nil && *feeCurrency == cUSD {
		return (*hexutil.Big)(big.NewInt(2500000000)), nil
	}
	if feeCurrency != nil {
		return nil, errors.New("unregistered fee currency")
	}
	return (*hexutil.Big)(big.NewInt(5000000000)), nil
}

func (api *testEthAPI) GetTransactionCount(ctx context.Context, address common.Address, block string) (hexutil.Uint64, error) {
	api.mu.Lock()
	defer api.mu.Unlock()
	api.lastBlock = block
	return hexutil.Uint64(api.nonces[address]), nil
}

func (api *testEthAPI) EstimateGas(ctx context.Context, args callArgs) (hexutil.Uint64, error) {
	api.mu.Lock()
	defer api.mu.Unlock()
	api.lastEstimate = args
	if api.estimateErr != nil {
		return 0, api.estimateErr
	}
	return hexutil.Uint64(api.estimate), nil
}

func (api *testEthAPI) SendRawTransaction(ctx context.Context, input hexutil.Bytes) (common.Hash, error) {
	api.mu.Lock()
	defer api.mu.Unlock()
	if api.sendErr != nil {
		return common.Hash{}, api.sendErr
	}
	api.sent = append(api.sent, input)
	return crypto.Keccak256Hash(input), nil
}

func newTestClient(t *testing.T, api *testEthAPI) *Client {
	t.Helper()
	server := rpc.NewServer()
	require.NoError(t, server.RegisterName("eth", api))
	client := NewClient(rpc.DialInProc(server))
	t.Cleanup(func() {
		client.Close()
		server.Stop()
	})
	return client
}

func newTestAPI() *testEthAPI {
	return &testEthAPI{chainID: 42220, nonces: map[common.Address]uint64{}, estimate: 21000}
}

func TestClientReads(t *testing.T) {
	api := newTestAPI()
	from := common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	api.nonces[from] = 12
	client := newTestClient(t, api)
	ctx := context.Background()

	chainID, err := client.ChainID(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 42220, chainID.Int64())

	price, err := client.GasPrice(ctx, nil)
	require.NoError(t, err)
	require.EqualValues(t, 5000000000, price.Int64())

	price, err = client.GasPrice(ctx, &cUSD)
	require.NoError(t, err)
	require.EqualValues(t, 2500000000, price.Int64())

	nonce, err := client.PendingNonceAt(ctx, from)
	require.NoError(t, err)
	require.EqualValues(t, 12, nonce)
	require.Equal(t, "pending", api.lastBlock)
}

func TestClientEstimateGasSendsCeloFields(t *testing.T) {
	api := newTestAPI()
	client := newTestClient(t, api)

	from, to, gw := common.HexToAddress("0x01"), recipient, common.HexToAddress("0x02")
	data := hexutil.Bytes{1, 2, 3}
	gas, err := client.EstimateGas(context.Background(), &celotx.TxRequest{
		From:                &from,
		To:                  &to,
		Data:                &data,
		Value:               (*hexutil.Big)(big.NewInt(10)),
		FeeCurrency:         &cUSD,
		GatewayFeeRecipient: &gw,
		GatewayFee:          (*hexutil.Big)(big.NewInt(3)),
	})
	require.NoError(t, err)
	require.EqualValues(t, 21000, gas)

	got := api.lastEstimate
	require.Equal(t, from, *got.From)
	require.Equal(t, to, *got.To)
	require.Equal(t, data, *got.Data)
	require.Equal(t, cUSD, *got.FeeCurrency)
	require.Equal(t, gw, *got.GatewayFeeRecipient)
	require.EqualValues(t, 3, got.GatewayFee.ToInt().Int64())
	require.Nil(t, got.Gas)
	require.Nil(t, got.GasPrice)
}

func TestClientClassifiesErrors(t *testing.T) {
	tests := []struct {
		msg  string
		code signer.Code
	}{
		{"insufficient funds for gas * price + value", signer.CodeInsufficientFunds},
		{"nonce too low", signer.CodeNonceExpired},
		{"replacement transaction underpriced", signer.CodeReplacementUnderpriced},
		{"execution reverted: transfer value exceeded balance", signer.CodeCallException},
		{"gas required exceeds allowance (0)", signer.CodeServerError},
	}
	for _, test := range tests {
		api := newTestAPI()
		api.estimateErr = errors.New(test.msg)
		api.sendErr = errors.New(test.msg)
		client := newTestClient(t, api)

		_, err := client.EstimateGas(context.Background(), &celotx.TxRequest{To: &recipient})
		require.Equal(t, test.code, signer.ErrorCode(err), test.msg)
		require.Contains(t, err.Error(), test.msg)

		_, err = client.SendRawTransaction(context.Background(), "0x00")
		require.Equal(t, test.code, signer.ErrorCode(err), test.msg)
	}
	require.Nil(t, classify(nil))
}

func TestSignerOverClient(t *testing.T) {
	api := newTestAPI()
	client := newTestClient(t, api)
	device, err := emulator.New("test test test test test test test test test test test junk", nil)
	require.NoError(t, err)
	s, err := signer.New(signer.DefaultConfig, device, client, nil)
	require.NoError(t, err)

	from, err := s.Address(context.Background())
	require.NoError(t, err)
	api.nonces[from] = 4

	encoded, err := s.SignTransaction(context.Background(), &celotx.TxRequest{
		To:          &recipient,
		Value:       (*hexutil.Big)(big.NewInt(1)),
		FeeCurrency: &cUSD,
	})
	require.NoError(t, err)

	tx, sig, err := celotx.Codec{}.Parse(encoded)
	require.NoError(t, err)
	require.EqualValues(t, 4, *tx.Nonce)
	require.EqualValues(t, 2500000000, tx.GasPrice.ToInt().Int64())
	require.EqualValues(t, 21000, *tx.Gas)
	require.Equal(t, from, *api.lastEstimate.From)
	sender, err := celotx.Sender(tx, sig)
	require.NoError(t, err)
	require.Equal(t, from, sender)

	hash, err := client.SendRawTransaction(context.Background(), encoded)
	require.NoError(t, err)
	want, _ := celotx.Hash(encoded)
	require.Equal(t, want, hash)
	require.Len(t, api.sent, 1)

	// Insufficient funds survives the trip through the node and the signer.
	api.estimateErr = errors.New("insufficient funds for gas * price + value")
	_, err = s.SignTransaction(context.Background(), &celotx.TxRequest{To: &recipient})
	require.Equal(t, signer.CodeInsufficientFunds, signer.ErrorCode(err))

	api.estimateErr = errors.New("execution reverted")
	_, err = s.SignTransaction(context.Background(), &celotx.TxRequest{To: &recipient})
	require.ErrorIs(t, err, signer.ErrCannotEstimateGas)
}
