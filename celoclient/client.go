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

// Package celoclient is the JSON-RPC network backend of the signer.
package celoclient

import (
	"context"
	"math/big"

	"github.com/celo-org/celo-blockchain/common"
	"github.com/celo-org/celo-blockchain/common/hexutil"
	"github.com/celo-org/celo-blockchain/ethclient"
	"github.com/celo-org/celo-blockchain/rpc"
	"github.com/celo-org/celo-ledger-signer/celotx"
	"github.com/celo-org/celo-ledger-signer/signer"
)

// Client talks to a Celo node. Errors returned by the node are classified
// into signer codes.
type Client struct {
	c  *rpc.Client
	ec *ethclient.Client
}

var _ signer.Backend = (*Client)(nil)

// Dial connects a client to the given URL.
func Dial(rawurl string) (*Client, error) {
	return DialContext(context.Background(), rawurl)
}

func DialContext(ctx context.Context, rawurl string) (*Client, error) {
	c, err := rpc.DialContext(ctx, rawurl)
	if err != nil {
		return nil, err
	}
	return NewClient(c), nil
}

// NewClient creates a client that uses the given RPC client.
func NewClient(c *rpc.Client) *Client {
	return &Client{c: c, ec: ethclient.NewClient(c)}
}

func (c *Client) Close() {
	c.c.Close()
}

// ChainID retrieves the chain id of the node.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	id, err := c.ec.ChainID(ctx)
	if err != nil {
		return nil, classify(err)
	}
	return id, nil
}

// GasPrice returns the suggested gas price, denominated in feeCurrency when
// it is not nil.
func (c *Client) GasPrice(ctx context.Context, feeCurrency *common.Address) (*big.Int, error) {
	var args []interface{}
	if feeCurrency != nil {
		args = append(args, feeCurrency)
	}
	var hex hexutil.Big
	if err := c.c.CallContext(ctx, &hex, "eth_gasPrice", args...); err != nil {
		return nil, classify(err)
	}
	return (*big.Int)(&hex), nil
}

// PendingNonceAt returns the nonce of account in the pending state.
func (c *Client) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	nonce, err := c.ec.PendingNonceAt(ctx, account)
	if err != nil {
		return 0, classify(err)
	}
	return nonce, nil
}

// EstimateGas estimates the gas needed to execute tx, including the Celo fee
// fields.
func (c *Client) EstimateGas(ctx context.Context, tx *celotx.TxRequest) (uint64, error) {
	var hex hexutil.Uint64
	if err := c.c.CallContext(ctx, &hex, "eth_estimateGas", toCallArg(tx)); err != nil {
		return 0, classify(err)
	}
	return uint64(hex), nil
}

// SendRawTransaction submits a 0x prefixed signed transaction and returns its
// hash.
func (c *Client) SendRawTransaction(ctx context.Context, encoded string) (common.Hash, error) {
	var hash common.Hash
	if err := c.c.CallContext(ctx, &hash, "eth_sendRawTransaction", encoded); err != nil {
		return common.Hash{}, classify(err)
	}
	return hash, nil
}

func toCallArg(tx *celotx.TxRequest) interface{} {
	arg := map[string]interface{}{}
	if tx.From != nil {
		arg["from"] = tx.From
	}
	if tx.To != nil {
		arg["to"] = tx.To
	}
	if tx.Data != nil && len(*tx.Data) > 0 {
		arg["data"] = tx.Data
	}
	if tx.Value != nil {
		arg["value"] = tx.Value
	}
	if tx.Gas != nil {
		arg["gas"] = tx.Gas
	}
	if tx.GasPrice != nil {
		arg["gasPrice"] = tx.GasPrice
	}
	if tx.FeeCurrency != nil {
		arg["feeCurrency"] = tx.FeeCurrency
	}
	if tx.GatewayFeeRecipient != nil {
		arg["gatewayFeeRecipient"] = tx.GatewayFeeRecipient
	}
	if tx.GatewayFee != nil {
		arg["gatewayFee"] = tx.GatewayFee
	}
	return arg
}
