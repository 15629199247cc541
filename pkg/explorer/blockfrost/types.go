package blockfrost

import (
	"fmt"
	"strconv"

	"github.com/iotsync-network/iotsync-daemon/pkg/explorer"
)

type addressUtxo struct {
	TxHash      string       `json:"tx_hash"`
	OutputIndex uint32       `json:"output_index"`
	Address     string       `json:"address"`
	Amount      []assetValue `json:"amount"`
	InlineDatum string       `json:"inline_datum"`
	Block       string       `json:"block"`
}

type assetValue struct {
	Unit     string `json:"unit"`
	Quantity string `json:"quantity"`
}

type txStatusResponse struct {
	Hash      string `json:"hash"`
	Block     string `json:"block"`
	BlockTime int64  `json:"block_time"`
}

type txUtxosResponse struct {
	Hash    string     `json:"hash"`
	Outputs []txOutput `json:"outputs"`
}

type txOutput struct {
	Address     string       `json:"address"`
	Amount      []assetValue `json:"amount"`
	OutputIndex uint32       `json:"output_index"`
	InlineDatum string       `json:"inline_datum"`
}

type assetTransaction struct {
	TxHash    string `json:"tx_hash"`
	BlockTime int64  `json:"block_time"`
}

func (a addressUtxo) toUtxo() (explorer.Utxo, error) {
	assets, err := parseAssets(a.Amount)
	if err != nil {
		return nil, err
	}
	confirmed := len(a.Block) > 0
	return explorer.NewUtxo(
		a.TxHash, a.OutputIndex, a.Address, assets, a.InlineDatum, confirmed,
	), nil
}

func (o txOutput) toUtxo(txHash string) (explorer.Utxo, error) {
	assets, err := parseAssets(o.Amount)
	if err != nil {
		return nil, err
	}
	return explorer.NewUtxo(
		txHash, o.OutputIndex, o.Address, assets, o.InlineDatum, true,
	), nil
}

func parseAssets(amount []assetValue) ([]explorer.Asset, error) {
	assets := make([]explorer.Asset, 0, len(amount))
	for _, a := range amount {
		quantity, err := strconv.ParseUint(a.Quantity, 10, 64)
		if err != nil {
			return nil, fmt.Errorf(
				"invalid quantity %s for unit %s: %w", a.Quantity, a.Unit, err,
			)
		}
		assets = append(assets, explorer.Asset{Unit: a.Unit, Quantity: quantity})
	}
	return assets, nil
}
