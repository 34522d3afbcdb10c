// Copyright 2021 The Celo Authors
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

// Package audit keeps a CSV trail of the transactions a signer produced.
package audit

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/celo-org/celo-blockchain/common"
	"github.com/celo-org/celo-ledger-signer/celotx"
	"github.com/celo-org/celo-ledger-signer/internal/fileutils"
)

// Fields is the header of the signing trail.
var Fields = []string{"time", "hash", "from", "to", "nonce", "chainid", "feecurrency", "action"}

// A CSVRecorder writes CSV rows to a writer. Every row is flushed as it is
// written. Writing is thread safe.
type CSVRecorder struct {
	writer    *csv.Writer
	backingWC io.WriteCloser
	writeMu   sync.Mutex
}

// NewCSVRecorder creates a CSV recorder that writes to the supplied writer.
// The writer is retained and can be closed by calling CSVRecorder.Close().
// The header is written immediately unless no fields are given.
func NewCSVRecorder(wc io.WriteCloser, fields ...string) (*CSVRecorder, error) {
	c := &CSVRecorder{
		writer:    csv.NewWriter(wc),
		backingWC: wc,
	}
	if len(fields) > 0 {
		if err := c.writeRow(fields); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Open appends to the trail at path, writing the header when the file is new
// or empty.
func Open(path string) (*CSVRecorder, error) {
	header := Fields
	if fileutils.FileExists(path) {
		empty, err := fileutils.IsEmpty(path)
		if err != nil {
			return nil, err
		}
		if !empty {
			header = nil
		}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}
	c, err := NewCSVRecorder(f, header...)
	if err != nil {
		f.Close()
		return nil, err
	}
	return c, nil
}

// Write writes out a csv row. Values are converted to strings using "%v".
// This is a no-op for a nil receiver.
func (c *CSVRecorder) Write(values ...interface{}) error {
	if c == nil {
		return nil
	}
	strs := make([]string, 0, len(values))
	for _, v := range values {
		strs = append(strs, fmt.Sprintf("%v", v))
	}
	return c.writeRow(strs)
}

func (c *CSVRecorder) writeRow(row []string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.writer.Write(row); err != nil {
		return err
	}
	c.writer.Flush()
	return c.writer.Error()
}

// RecordTransaction appends a row for a signed transaction.
func (c *CSVRecorder) RecordTransaction(action string, from common.Address, encoded string) error {
	if c == nil {
		return nil
	}
	tx, _, err := celotx.Codec{}.Parse(encoded)
	if err != nil {
		return err
	}
	hash, err := celotx.Hash(encoded)
	if err != nil {
		return err
	}
	var to, feeCurrency, chainID string
	if tx.To != nil {
		to = tx.To.Hex()
	}
	if tx.FeeCurrency != nil {
		feeCurrency = tx.FeeCurrency.Hex()
	}
	if tx.ChainID != nil {
		chainID = tx.ChainID.ToInt().String()
	}
	return c.Write(time.Now().UTC().Format(time.RFC3339), hash.Hex(), from.Hex(), to, uint64(*tx.Nonce), chainID, feeCurrency, action)
}

// Close closes the writer. This is a no-op for a nil receiver.
func (c *CSVRecorder) Close() error {
	if c == nil {
		return nil
	}
	c.writeMu.Lock()
	c.writer.Flush()
	c.writeMu.Unlock()
	return c.backingWC.Close()
}
