package explorer

import (
	"errors"
	"sort"
)

// ErrInsufficientFunds is returned when the utxo set cannot cover the
// requested target amount.
var ErrInsufficientFunds = errors.New(
	"total utxo amount does not cover target amount",
)

// SelectUnspents performs a coin selection over the given list of utxos and
// returns a subset of them covering targetAmount of native coin, plus the
// change left over. Outputs carrying non-native assets are skipped so that
// token state cells are never accidentally consumed as fee inputs.
func SelectUnspents(
	utxos []Utxo, targetAmount uint64,
) (coins []Utxo, change uint64, err error) {
	candidates := make([]Utxo, 0, len(utxos))
	for _, u := range utxos {
		if u.IsPureLovelace() {
			candidates = append(candidates, u)
		}
	}

	// largest first, so the selection stays small
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Lovelace() > candidates[j].Lovelace()
	})

	totalAmount := uint64(0)
	selected := make([]Utxo, 0, len(candidates))
	for _, u := range candidates {
		if totalAmount >= targetAmount {
			break
		}
		selected = append(selected, u)
		totalAmount += u.Lovelace()
	}

	if totalAmount < targetAmount {
		return nil, 0, ErrInsufficientFunds
	}

	return selected, totalAmount - targetAmount, nil
}
