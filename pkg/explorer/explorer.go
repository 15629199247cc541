package explorer

// Lovelace is the unit name of the chain's native coin in indexer responses.
const Lovelace = "lovelace"

// Utxo represents an unspent transaction output on the chain.
type Utxo interface {
	Hash() string
	Index() uint32
	Address() string
	Assets() []Asset
	Lovelace() uint64
	// QuantityOf returns the amount of the given asset unit held by the
	// output, zero when absent.
	QuantityOf(unit string) uint64
	// InlineDatum returns the hex-encoded inline datum, empty when the
	// output carries none.
	InlineDatum() string
	// IsPureLovelace reports whether the output holds native coin only,
	// the precondition for using it as collateral.
	IsPureLovelace() bool
	IsConfirmed() bool
}

// Asset is one (unit, quantity) entry of an output's value.
type Asset struct {
	Unit     string
	Quantity uint64
}

// TxStatus is the confirmation state of a transaction.
type TxStatus struct {
	Confirmed bool
	BlockHash string
	BlockTime int64
}

// AssetTx is one entry of an asset's transaction history.
type AssetTx struct {
	TxHash    string
	BlockTime int64
}

// Service is the representation of an indexer that allows to fetch chain
// state for addresses and assets and to broadcast signed transactions. It is
// treated as ground truth for on-chain state.
type Service interface {
	// GetAddressUnspents fetches all utxos at the given address.
	GetAddressUnspents(addr string) ([]Utxo, error)
	// GetAddressUnspentsForAsset fetches the utxos at the given address
	// holding the given asset unit.
	GetAddressUnspentsForAsset(addr, unit string) ([]Utxo, error)
	// GetTransactionStatus returns the confirmation state of the tx
	// identified by its hash.
	GetTransactionStatus(txid string) (*TxStatus, error)
	// GetTransactionUnspents returns the outputs created by the given tx,
	// spent or not, used for reading historic datums.
	GetTransactionUnspents(txid string) ([]Utxo, error)
	// GetAssetTransactions returns the list of all txs that moved the given
	// asset unit, oldest first.
	GetAssetTransactions(unit string) ([]AssetTx, error)
	// BroadcastTransaction attempts to add the given signed tx in CBOR hex
	// format to the mempool and returns its tx hash.
	BroadcastTransaction(txCbor string) (string, error)
}
