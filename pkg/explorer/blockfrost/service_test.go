package blockfrost

import (
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/require"

	"github.com/iotsync-network/iotsync-daemon/pkg/explorer"
)

const (
	apiURL   = "https://indexer.test/api/v0"
	testAddr = "addr_test1wzlockaddr"
	testUnit = "a48dfba612b9f49bded45de5fb348b3c22aa7c65383217d1d9574a5b53656e736f7231"
)

func newTestService(t *testing.T) explorer.Service {
	t.Helper()
	client := &http.Client{}
	httpmock.ActivateNonDefault(client)
	t.Cleanup(httpmock.DeactivateAndReset)
	return NewServiceWithClient(apiURL, "test-project-id", client)
}

func TestGetAddressUnspentsForAsset(t *testing.T) {
	svc := newTestService(t)

	httpmock.RegisterResponder(
		"GET", apiURL+"/addresses/"+testAddr+"/utxos/"+testUnit,
		httpmock.NewStringResponder(200, `[
			{
				"tx_hash": "aa11",
				"output_index": 0,
				"address": "`+testAddr+`",
				"amount": [
					{"unit": "lovelace", "quantity": "1400000"},
					{"unit": "`+testUnit+`", "quantity": "1"}
				],
				"inline_datum": "d8799f194e2019afc8ff",
				"block": "b1"
			},
			{
				"tx_hash": "bb22",
				"output_index": 1,
				"address": "`+testAddr+`",
				"amount": [
					{"unit": "lovelace", "quantity": "1400000"},
					{"unit": "`+testUnit+`", "quantity": "1"}
				],
				"inline_datum": "d8799f195208199fb0ff",
				"block": "b2"
			}
		]`),
	)

	unspents, err := svc.GetAddressUnspentsForAsset(testAddr, testUnit)
	require.NoError(t, err)
	require.Len(t, unspents, 2)

	current, err := explorer.FindTokenUtxo(svc, testAddr, testUnit)
	require.NoError(t, err)
	require.Equal(t, "bb22", current.Hash())
	require.Equal(t, uint32(1), current.Index())
	require.Equal(t, uint64(1), current.QuantityOf(testUnit))
	require.Equal(t, "d8799f195208199fb0ff", current.InlineDatum())
	require.False(t, current.IsPureLovelace())
	require.True(t, current.IsConfirmed())
}

func TestGetAddressUnspentsNotFound(t *testing.T) {
	svc := newTestService(t)

	httpmock.RegisterResponder(
		"GET", apiURL+"/addresses/"+testAddr+"/utxos",
		httpmock.NewStringResponder(404, `{"status_code":404}`),
	)

	unspents, err := svc.GetAddressUnspents(testAddr)
	require.NoError(t, err)
	require.Empty(t, unspents)
}

func TestGetAddressUnspentsBadQuantity(t *testing.T) {
	svc := newTestService(t)

	httpmock.RegisterResponder(
		"GET", apiURL+"/addresses/"+testAddr+"/utxos",
		httpmock.NewStringResponder(200, `[
			{
				"tx_hash": "aa11",
				"output_index": 0,
				"address": "`+testAddr+`",
				"amount": [{"unit": "lovelace", "quantity": "not-a-number"}]
			}
		]`),
	)

	_, err := svc.GetAddressUnspents(testAddr)
	require.Error(t, err)
}

func TestGetTransactionStatus(t *testing.T) {
	svc := newTestService(t)

	httpmock.RegisterResponder(
		"GET", apiURL+"/txs/aa11",
		httpmock.NewStringResponder(200, `{
			"hash": "aa11", "block": "blockhash1", "block_time": 1700000000
		}`),
	)
	httpmock.RegisterResponder(
		"GET", apiURL+"/txs/unknown",
		httpmock.NewStringResponder(404, `{"status_code":404}`),
	)

	status, err := svc.GetTransactionStatus("aa11")
	require.NoError(t, err)
	require.True(t, status.Confirmed)
	require.Equal(t, "blockhash1", status.BlockHash)
	require.Equal(t, int64(1700000000), status.BlockTime)

	status, err = svc.GetTransactionStatus("unknown")
	require.NoError(t, err)
	require.False(t, status.Confirmed)
}

func TestGetAssetTransactions(t *testing.T) {
	svc := newTestService(t)

	httpmock.RegisterResponder(
		"GET", apiURL+"/assets/"+testUnit+"/transactions",
		httpmock.NewStringResponder(200, `[
			{"tx_hash": "aa11", "block_time": 1700000000},
			{"tx_hash": "bb22", "block_time": 1700000100}
		]`),
	)

	txs, err := svc.GetAssetTransactions(testUnit)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	require.Equal(t, "aa11", txs[0].TxHash)
	require.Equal(t, int64(1700000100), txs[1].BlockTime)
}

func TestBroadcastTransaction(t *testing.T) {
	svc := newTestService(t)

	httpmock.RegisterResponder(
		"POST", apiURL+"/tx/submit",
		httpmock.NewStringResponder(200, `"cc33"`),
	)

	txid, err := svc.BroadcastTransaction("84a100a1")
	require.NoError(t, err)
	require.Equal(t, "cc33", txid)
}

func TestBroadcastTransactionRejected(t *testing.T) {
	svc := newTestService(t)

	httpmock.RegisterResponder(
		"POST", apiURL+"/tx/submit",
		httpmock.NewStringResponder(400, `{"message":"BadInputsUTxO"}`),
	)

	_, err := svc.BroadcastTransaction("84a100a1")
	require.Error(t, err)
	require.Contains(t, err.Error(), "BadInputsUTxO")
}
