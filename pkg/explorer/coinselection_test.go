package explorer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func makeUtxo(hash string, lovelace uint64, extraAssets ...Asset) Utxo {
	assets := append(
		[]Asset{{Unit: Lovelace, Quantity: lovelace}}, extraAssets...,
	)
	return NewUtxo(hash, 0, "addr_test1qq", assets, "", true)
}

func TestSelectUnspents(t *testing.T) {
	tests := []struct {
		name       string
		utxos      []Utxo
		target     uint64
		wantHashes []string
		wantChange uint64
	}{
		{
			name: "single utxo covers target",
			utxos: []Utxo{
				makeUtxo("aa", 10_000_000),
				makeUtxo("bb", 2_000_000),
			},
			target:     6_000_000,
			wantHashes: []string{"aa"},
			wantChange: 4_000_000,
		},
		{
			name: "multiple utxos accumulated",
			utxos: []Utxo{
				makeUtxo("aa", 3_000_000),
				makeUtxo("bb", 2_000_000),
				makeUtxo("cc", 1_000_000),
			},
			target:     4_500_000,
			wantHashes: []string{"aa", "bb"},
			wantChange: 500_000,
		},
		{
			name: "token-carrying utxos are skipped",
			utxos: []Utxo{
				makeUtxo("aa", 50_000_000, Asset{Unit: "deadbeef", Quantity: 1}),
				makeUtxo("bb", 7_000_000),
			},
			target:     5_000_000,
			wantHashes: []string{"bb"},
			wantChange: 2_000_000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coins, change, err := SelectUnspents(tt.utxos, tt.target)
			require.NoError(t, err)
			require.Equal(t, tt.wantChange, change)

			hashes := make([]string, 0, len(coins))
			for _, c := range coins {
				hashes = append(hashes, c.Hash())
			}
			require.Equal(t, tt.wantHashes, hashes)
		})
	}
}

func TestSelectUnspentsInsufficientFunds(t *testing.T) {
	utxos := []Utxo{makeUtxo("aa", 1_000_000)}

	_, _, err := SelectUnspents(utxos, 2_000_000)
	require.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestFindTokenUtxoPicksLastResult(t *testing.T) {
	svc := &stubService{
		unspentsForAsset: []Utxo{
			makeUtxo("old", 2_000_000),
			makeUtxo("current", 2_000_000),
		},
	}

	u, err := FindTokenUtxo(svc, "addr_test1qq", "deadbeef746f6b656e")
	require.NoError(t, err)
	require.Equal(t, "current", u.Hash())
}

func TestFindTokenUtxoAbsent(t *testing.T) {
	svc := &stubService{}

	u, err := FindTokenUtxo(svc, "addr_test1qq", "deadbeef746f6b656e")
	require.NoError(t, err)
	require.Nil(t, u)
}

type stubService struct {
	unspentsForAsset []Utxo
}

func (s *stubService) GetAddressUnspents(string) ([]Utxo, error) {
	return nil, nil
}

func (s *stubService) GetAddressUnspentsForAsset(string, string) ([]Utxo, error) {
	return s.unspentsForAsset, nil
}

func (s *stubService) GetTransactionStatus(string) (*TxStatus, error) {
	return &TxStatus{}, nil
}

func (s *stubService) GetTransactionUnspents(string) ([]Utxo, error) {
	return nil, nil
}

func (s *stubService) GetAssetTransactions(string) ([]AssetTx, error) {
	return nil, nil
}

func (s *stubService) BroadcastTransaction(string) (string, error) {
	return "", nil
}
