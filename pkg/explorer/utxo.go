package explorer

type utxo struct {
	UHash        string
	UIndex       uint32
	UAddress     string
	UAssets      []Asset
	UInlineDatum string
	UConfirmed   bool
}

// NewUtxo returns a Utxo value from its indexer representation.
func NewUtxo(
	hash string, index uint32, address string,
	assets []Asset, inlineDatum string, confirmed bool,
) Utxo {
	return utxo{
		UHash:        hash,
		UIndex:       index,
		UAddress:     address,
		UAssets:      assets,
		UInlineDatum: inlineDatum,
		UConfirmed:   confirmed,
	}
}

func (u utxo) Hash() string {
	return u.UHash
}

func (u utxo) Index() uint32 {
	return u.UIndex
}

func (u utxo) Address() string {
	return u.UAddress
}

func (u utxo) Assets() []Asset {
	return u.UAssets
}

func (u utxo) Lovelace() uint64 {
	return u.QuantityOf(Lovelace)
}

func (u utxo) QuantityOf(unit string) uint64 {
	for _, a := range u.UAssets {
		if a.Unit == unit {
			return a.Quantity
		}
	}
	return 0
}

func (u utxo) InlineDatum() string {
	return u.UInlineDatum
}

func (u utxo) IsPureLovelace() bool {
	for _, a := range u.UAssets {
		if a.Unit != Lovelace {
			return false
		}
	}
	return len(u.UAssets) > 0
}

func (u utxo) IsConfirmed() bool {
	return u.UConfirmed
}
