package blockfrost

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/iotsync-network/iotsync-daemon/pkg/explorer"
)

func (b *blockfrost) GetTransactionStatus(txid string) (*explorer.TxStatus, error) {
	url := fmt.Sprintf("%s/txs/%s", b.apiURL, txid)
	status, resp, err := b.getWithRetry(url)
	if err != nil {
		return nil, fmt.Errorf("error on retrieving tx status: %w", err)
	}
	// unknown to the indexer yet, ie. still in flight
	if status == http.StatusNotFound {
		return &explorer.TxStatus{Confirmed: false}, nil
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("error on retrieving tx status: %s", resp)
	}

	var payload txStatusResponse
	if err := json.Unmarshal([]byte(resp), &payload); err != nil {
		return nil, fmt.Errorf("error on retrieving tx status: %w", err)
	}
	return &explorer.TxStatus{
		Confirmed: len(payload.Block) > 0,
		BlockHash: payload.Block,
		BlockTime: payload.BlockTime,
	}, nil
}

func (b *blockfrost) GetTransactionUnspents(txid string) ([]explorer.Utxo, error) {
	url := fmt.Sprintf("%s/txs/%s/utxos", b.apiURL, txid)
	status, resp, err := b.getWithRetry(url)
	if err != nil {
		return nil, fmt.Errorf("error on retrieving tx outputs: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("error on retrieving tx outputs: %s", resp)
	}

	var payload txUtxosResponse
	if err := json.Unmarshal([]byte(resp), &payload); err != nil {
		return nil, fmt.Errorf("error on retrieving tx outputs: %w", err)
	}

	outs := make([]explorer.Utxo, 0, len(payload.Outputs))
	for _, o := range payload.Outputs {
		u, err := o.toUtxo(payload.Hash)
		if err != nil {
			return nil, err
		}
		outs = append(outs, u)
	}
	return outs, nil
}

func (b *blockfrost) GetAssetTransactions(unit string) ([]explorer.AssetTx, error) {
	url := fmt.Sprintf("%s/assets/%s/transactions", b.apiURL, unit)
	status, resp, err := b.getWithRetry(url)
	if err != nil {
		return nil, fmt.Errorf("error on retrieving asset txs: %w", err)
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("error on retrieving asset txs: %s", resp)
	}

	var payload []assetTransaction
	if err := json.Unmarshal([]byte(resp), &payload); err != nil {
		return nil, fmt.Errorf("error on retrieving asset txs: %w", err)
	}

	txs := make([]explorer.AssetTx, 0, len(payload))
	for _, p := range payload {
		txs = append(txs, explorer.AssetTx{
			TxHash:    p.TxHash,
			BlockTime: p.BlockTime,
		})
	}
	return txs, nil
}

func (b *blockfrost) BroadcastTransaction(txCbor string) (string, error) {
	raw, err := hex.DecodeString(txCbor)
	if err != nil {
		return "", fmt.Errorf("invalid tx hex: %w", err)
	}

	url := fmt.Sprintf("%s/tx/submit", b.apiURL)
	status, resp, err := b.httpRequest(
		"POST", url, "application/cbor", strings.NewReader(string(raw)),
	)
	if err != nil {
		return "", fmt.Errorf("error on broadcasting tx: %w", err)
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("error on broadcasting tx: %s", resp)
	}

	// the submit endpoint answers with the JSON-quoted tx hash
	txid := strings.Trim(strings.TrimSpace(resp), `"`)
	return txid, nil
}
