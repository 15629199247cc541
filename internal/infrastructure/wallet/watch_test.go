package wallet

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iotsync-network/iotsync-daemon/pkg/explorer"
)

const walletAddr = "addr_test1qqwallet"

type stubExplorer struct {
	utxos []explorer.Utxo
}

func (s *stubExplorer) GetAddressUnspents(string) ([]explorer.Utxo, error) {
	return s.utxos, nil
}

func (s *stubExplorer) GetAddressUnspentsForAsset(string, string) ([]explorer.Utxo, error) {
	return nil, nil
}

func (s *stubExplorer) GetTransactionStatus(string) (*explorer.TxStatus, error) {
	return &explorer.TxStatus{}, nil
}

func (s *stubExplorer) GetTransactionUnspents(string) ([]explorer.Utxo, error) {
	return nil, nil
}

func (s *stubExplorer) GetAssetTransactions(string) ([]explorer.AssetTx, error) {
	return nil, nil
}

func (s *stubExplorer) BroadcastTransaction(string) (string, error) {
	return "", nil
}

func pureUtxo(hash string, lovelace uint64) explorer.Utxo {
	return explorer.NewUtxo(hash, 0, walletAddr,
		[]explorer.Asset{{Unit: explorer.Lovelace, Quantity: lovelace}}, "", true)
}

func tokenUtxo(hash string, lovelace uint64) explorer.Utxo {
	return explorer.NewUtxo(hash, 0, walletAddr,
		[]explorer.Asset{
			{Unit: explorer.Lovelace, Quantity: lovelace},
			{Unit: "deadbeef746f6b656e", Quantity: 1},
		}, "", true)
}

func TestGetCollateralPredicate(t *testing.T) {
	svc := &stubExplorer{utxos: []explorer.Utxo{
		pureUtxo("below-minimum", 4_999_999),
		tokenUtxo("carries-token", 50_000_000),
		pureUtxo("qualifies", 5_000_000),
		pureUtxo("also-qualifies", 9_000_000),
	}}
	w := NewWatchWallet(svc, walletAddr, 0)

	collaterals, err := w.GetCollateral()
	require.NoError(t, err)
	require.Len(t, collaterals, 2)
	require.Equal(t, "qualifies", collaterals[0].Hash())
	require.Equal(t, "also-qualifies", collaterals[1].Hash())
}

func TestGetCollateralCustomMinimum(t *testing.T) {
	svc := &stubExplorer{utxos: []explorer.Utxo{
		pureUtxo("small", 5_000_000),
		pureUtxo("large", 8_000_000),
	}}
	w := NewWatchWallet(svc, walletAddr, 8_000_000)

	collaterals, err := w.GetCollateral()
	require.NoError(t, err)
	require.Len(t, collaterals, 1)
	require.Equal(t, "large", collaterals[0].Hash())
}

func TestWatchWalletIsSignless(t *testing.T) {
	w := NewWatchWallet(&stubExplorer{}, walletAddr, 0)

	addr, err := w.GetChangeAddress()
	require.NoError(t, err)
	require.Equal(t, walletAddr, addr)

	_, err = w.SignTx("84a100a1", true)
	require.ErrorIs(t, err, ErrWatchOnly)
}
