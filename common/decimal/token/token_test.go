package token

import (
	"encoding/json"
	"math/big"
	"testing"

	. "github.com/onsi/gomega"
)

func TestToken(t *testing.T) {
	RegisterTestingT(t)

	amount, err := New("0.01")
	Ω(err).ShouldNot(HaveOccurred())
	Ω(amount.BigInt().String()).To(Equal("10000000000000000"))
	Ω(amount.String()).To(Equal("0.01"))

	Ω(FromBigInt(big.NewInt(1e18)).String()).To(Equal("1"))

	_, err = New("1e-19")
	Ω(err).Should(HaveOccurred())
}

func TestTokenJSON(t *testing.T) {
	RegisterTestingT(t)

	var out struct {
		Value *Token `json:"value"`
	}
	Ω(json.Unmarshal([]byte(`{"value":"3.25"}`), &out)).Should(Succeed())
	Ω(out.Value.BigInt().String()).To(Equal("3250000000000000000"))

	b, err := json.Marshal(out)
	Ω(err).ShouldNot(HaveOccurred())
	Ω(string(b)).To(Equal(`{"value":"3.25"}`))
}
