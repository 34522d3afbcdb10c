package token

import (
	"math/big"

	"github.com/celo-org/celo-ledger-signer/common/decimal"
)

var precision = decimal.Precision(18)

// Token is an amount of CELO (or any 18 decimal token) held in base units
type Token big.Int

// New parses a decimal token amount such as "1.5"
func New(str string) (*Token, error) {
	value, err := decimal.New(str, precision)
	if err != nil {
		return nil, err
	}
	return (*Token)(value), nil
}

// MustNew creates an instance of Token from a string
func MustNew(str string) *Token { return (*Token)(decimal.MustNew(str, precision)) }

// FromBigInt wraps an amount in base units
func FromBigInt(v *big.Int) *Token { return (*Token)(new(big.Int).Set(v)) }

// String implements fmt.Stringer
func (t *Token) String() string { return decimal.String(t.BigInt(), precision) }

// BigInt returns big.Int representation
func (t *Token) BigInt() *big.Int { return (*big.Int)(t) }

// MarshalJSON implements json.Marshaller
func (t Token) MarshalJSON() ([]byte, error) { return decimal.ToJSON(t.BigInt(), precision) }

// UnmarshalJSON implements json.Unmarshaller
func (t *Token) UnmarshalJSON(b []byte) error {
	value, err := decimal.FromJSON(b, precision)
	if err == nil {
		*t = (Token)(*value)
	}
	return err
}
