// Package decimal converts between integer base units and fixed point decimal
// strings, e.g. wei and CELO.
package decimal

import (
	"encoding/json"
	"fmt"
	"math/big"

	dec "github.com/shopspring/decimal"
)

// Precision creates precision constant required for decimal type
func Precision(digits int64) dec.Decimal {
	return dec.NewFromInt(10).Pow(dec.NewFromInt(digits))
}

// String returns big.Int string representation as a number with fixed decimals
func String(value *big.Int, precision dec.Decimal) string {
	// 10^n has n+1 digits, enough places for an exact quotient
	return dec.NewFromBigInt(value, 0).DivRound(precision, int32(len(precision.String()))).String()
}

// FromJSON unmarshals a JSON string into a big.Int with fixed precision
func FromJSON(b []byte, precision dec.Decimal) (*big.Int, error) {
	var data string
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, err
	}
	return New(data, precision)
}

// ToJSON returns json marshalling as decimal number
func ToJSON(value *big.Int, precision dec.Decimal) ([]byte, error) {
	return json.Marshal(String(value, precision))
}

// New parses a decimal string into base units. Amounts with more fractional
// digits than the precision allows are rejected rather than truncated.
func New(amount string, precision dec.Decimal) (*big.Int, error) {
	d, err := dec.NewFromString(amount)
	if err != nil {
		return nil, err
	}
	if d.Sign() < 0 {
		return nil, fmt.Errorf("negative amount %s", amount)
	}
	result := d.Mul(precision)
	if !result.Equal(result.Truncate(0)) {
		return nil, fmt.Errorf("amount %s exceeds precision", amount)
	}
	value, ok := new(big.Int).SetString(result.String(), 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %s", amount)
	}
	return value, nil
}

// MustNew New variant that panics on error
func MustNew(amount string, precision dec.Decimal) *big.Int {
	value, err := New(amount, precision)
	if err != nil {
		panic(err)
	}
	return value
}
