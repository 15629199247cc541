package explorer

// FindTokenUtxo resolves the current on-chain state cell for a token unit at
// the given address. It returns nil without error when the token is absent.
//
// The last element of the indexer result set is taken as the current one.
// This relies on the indexer returning utxos in chronological order, a
// convention inherited from the upstream API and not independently
// guaranteed; validate it against the chosen indexer's documented contract
// before trusting reads under reorgs or concurrent writers.
func FindTokenUtxo(svc Service, addr, unit string) (Utxo, error) {
	utxos, err := svc.GetAddressUnspentsForAsset(addr, unit)
	if err != nil {
		return nil, err
	}
	if len(utxos) == 0 {
		return nil, nil
	}
	return utxos[len(utxos)-1], nil
}

// ListTokenUtxos returns every live utxo holding the token unit at the given
// address, used by audit views.
func ListTokenUtxos(svc Service, addr, unit string) ([]Utxo, error) {
	return svc.GetAddressUnspentsForAsset(addr, unit)
}
