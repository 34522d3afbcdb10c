package decimal

import (
	"math/big"
	"testing"

	. "github.com/onsi/gomega"
)

var precision = Precision(18)

func TestToString(t *testing.T) {
	RegisterTestingT(t)
	Ω(String(MustNew("1.135", precision), precision)).To(Equal("1.135"))
	Ω(String(big.NewInt(1), precision)).To(Equal("0.000000000000000001"))
	Ω(String(new(big.Int), precision)).To(Equal("0"))
}

func TestNew(t *testing.T) {
	RegisterTestingT(t)

	value, err := New("2.5", precision)
	Ω(err).ShouldNot(HaveOccurred())
	Ω(value.String()).To(Equal("2500000000000000000"))

	value, err = New("0.000000000000000001", precision)
	Ω(err).ShouldNot(HaveOccurred())
	Ω(value.Int64()).To(Equal(int64(1)))

	_, err = New("0.0000000000000000001", precision)
	Ω(err).Should(HaveOccurred())
	_, err = New("-1", precision)
	Ω(err).Should(HaveOccurred())
	_, err = New("one", precision)
	Ω(err).Should(HaveOccurred())
	Ω(func() { MustNew("x", precision) }).Should(Panic())
}

func TestJsonMarshalling(t *testing.T) {
	RegisterTestingT(t)

	value := MustNew("1.135", precision)

	bt, err := ToJSON(value, precision)
	Ω(err).ShouldNot(HaveOccurred())
	Ω(string(bt)).To(Equal(`"1.135"`))

	otherValue, err := FromJSON(bt, precision)
	Ω(err).Should(Succeed())
	Ω(String(otherValue, precision)).To(Equal(String(value, precision)))
}
