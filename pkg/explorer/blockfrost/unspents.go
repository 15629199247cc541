package blockfrost

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/iotsync-network/iotsync-daemon/pkg/explorer"
)

func (b *blockfrost) GetAddressUnspents(addr string) ([]explorer.Utxo, error) {
	url := fmt.Sprintf("%s/addresses/%s/utxos", b.apiURL, addr)
	return b.getUnspents(url)
}

func (b *blockfrost) GetAddressUnspentsForAsset(
	addr, unit string,
) ([]explorer.Utxo, error) {
	url := fmt.Sprintf("%s/addresses/%s/utxos/%s", b.apiURL, addr, unit)
	return b.getUnspents(url)
}

func (b *blockfrost) getUnspents(url string) ([]explorer.Utxo, error) {
	status, resp, err := b.getWithRetry(url)
	if err != nil {
		return nil, fmt.Errorf("error on retrieving utxos: %w", err)
	}
	// the indexer answers 404 for addresses it has never seen
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("error on retrieving utxos: %s", resp)
	}

	var payload []addressUtxo
	if err := json.Unmarshal([]byte(resp), &payload); err != nil {
		return nil, fmt.Errorf("error on retrieving utxos: %w", err)
	}

	unspents := make([]explorer.Utxo, 0, len(payload))
	for _, p := range payload {
		u, err := p.toUtxo()
		if err != nil {
			return nil, err
		}
		unspents = append(unspents, u)
	}
	return unspents, nil
}
