package wallet

import (
	"errors"

	"github.com/iotsync-network/iotsync-daemon/internal/core/ports"
	"github.com/iotsync-network/iotsync-daemon/pkg/explorer"
)

// MinCollateralLovelace is the default minimum value a pure-lovelace utxo
// must hold to qualify as collateral.
const MinCollateralLovelace = 5_000_000

// ErrWatchOnly is returned by SignTx: a watch wallet holds no keys and
// signing happens on the device or browser side.
var ErrWatchOnly = errors.New("watch-only wallet cannot sign")

type watchWallet struct {
	explorerSvc   explorer.Service
	address       string
	minCollateral uint64
}

// NewWatchWallet returns a watch-only ports.Wallet for the given address,
// backed by the explorer for utxo and collateral lookups. A non-positive
// minCollateral falls back to MinCollateralLovelace.
func NewWatchWallet(
	explorerSvc explorer.Service, address string, minCollateral uint64,
) ports.Wallet {
	if minCollateral == 0 {
		minCollateral = MinCollateralLovelace
	}
	return &watchWallet{
		explorerSvc:   explorerSvc,
		address:       address,
		minCollateral: minCollateral,
	}
}

func (w *watchWallet) GetUtxos() ([]explorer.Utxo, error) {
	return w.explorerSvc.GetAddressUnspents(w.address)
}

// GetCollateral scans the wallet utxos for ones holding native coin only at
// or above the minimum. The set is not reserved between calls; concurrent
// builders may pick the same collateral and lose the race at submission.
func (w *watchWallet) GetCollateral() ([]explorer.Utxo, error) {
	utxos, err := w.explorerSvc.GetAddressUnspents(w.address)
	if err != nil {
		return nil, err
	}

	collaterals := make([]explorer.Utxo, 0, len(utxos))
	for _, u := range utxos {
		if u.IsPureLovelace() && u.Lovelace() >= w.minCollateral {
			collaterals = append(collaterals, u)
		}
	}
	return collaterals, nil
}

func (w *watchWallet) GetChangeAddress() (string, error) {
	return w.address, nil
}

func (w *watchWallet) SignTx(string, bool) (string, error) {
	return "", ErrWatchOnly
}
