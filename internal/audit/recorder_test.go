package audit

import (
	"encoding/csv"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/celo-org/celo-blockchain/common"
	"github.com/celo-org/celo-blockchain/common/hexutil"
	"github.com/celo-org/celo-ledger-signer/celotx"
	"github.com/stretchr/testify/require"
)

type nopCloser struct{ strings.Builder }

func (*nopCloser) Close() error { return nil }

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVRecorder(t *testing.T) {
	var out nopCloser
	c, err := NewCSVRecorder(&out, "a", "b")
	require.NoError(t, err)
	require.NoError(t, c.Write(1, "x,y"))
	require.NoError(t, c.Close())
	require.Equal(t, "a,b\n1,\"x,y\"\n", out.String())

	var nilRecorder *CSVRecorder
	require.NoError(t, nilRecorder.Write(1))
	require.NoError(t, nilRecorder.Close())
}

func TestOpenAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.csv")

	for i := 0; i < 2; i++ {
		c, err := Open(path)
		require.NoError(t, err)
		require.NoError(t, c.Write("t", "h", "f", "to", i, "1", "", "sign"))
		require.NoError(t, c.Close())
	}
	rows := readRows(t, path)
	require.Len(t, rows, 3, "header is written once")
	require.Equal(t, Fields, rows[0])
	require.Equal(t, "1", rows[2][4])
}

func TestRecordTransaction(t *testing.T) {
	to := common.HexToAddress("0x471ece3750da237f93b8e339c536989b8978a438")
	nonce, gas := hexutil.Uint64(9), hexutil.Uint64(21000)
	tx := &celotx.TxRequest{To: &to, Nonce: &nonce, Gas: &gas, GasPrice: (*hexutil.Big)(big.NewInt(1))}
	encoded, err := celotx.Codec{}.Serialize(tx, &celotx.Signature{V: big.NewInt(84475), R: big.NewInt(1), S: big.NewInt(2)})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "audit.csv")
	c, err := Open(path)
	require.NoError(t, err)
	from := common.HexToAddress("0x01")
	require.NoError(t, c.RecordTransaction("send", from, encoded))
	require.Error(t, c.RecordTransaction("send", from, "0x00"))
	require.NoError(t, c.Close())

	rows := readRows(t, path)
	require.Len(t, rows, 2)
	hash, _ := celotx.Hash(encoded)
	require.Equal(t, hash.Hex(), rows[1][1])
	require.Equal(t, from.Hex(), rows[1][2])
	require.Equal(t, to.Hex(), rows[1][3])
	require.Equal(t, "9", rows[1][4])
	require.Equal(t, "42220", rows[1][5])
	require.Equal(t, "send", rows[1][7])
}
