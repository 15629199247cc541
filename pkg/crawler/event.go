package crawler

// EventType distinguishes the events emitted by the watcher.
type EventType int

const (
	// TransactionConfirmed means the watched tx has been included in a block.
	TransactionConfirmed EventType = iota
	// TransactionUnconfirmed means the watched tx is still in flight.
	TransactionUnconfirmed
	// TokenStateChanged means the watched token's current utxo moved.
	TokenStateChanged
	// CloseSignal means the watcher has been stopped.
	CloseSignal
)

func (et EventType) String() string {
	switch et {
	case TransactionConfirmed:
		return "TransactionConfirmed"
	case TransactionUnconfirmed:
		return "TransactionUnconfirmed"
	case TokenStateChanged:
		return "TokenStateChanged"
	case CloseSignal:
		return "CloseSignal"
	default:
		return "Unknown"
	}
}

// TransactionEvent reports the confirmation state of a watched tx.
type TransactionEvent struct {
	TxID      string
	EventType EventType
	BlockHash string
	BlockTime int64
}

// Type implements the Event interface.
func (t TransactionEvent) Type() EventType {
	return t.EventType
}

// TokenEvent reports a movement of a watched token's state cell.
type TokenEvent struct {
	EventType EventType
	Address   string
	Unit      string
	TxHash    string
	DatumHex  string
}

// Type implements the Event interface.
func (t TokenEvent) Type() EventType {
	return t.EventType
}

// QuitEvent is sent on the event channel right before it goes quiet.
type QuitEvent struct{}

// Type implements the Event interface.
func (q QuitEvent) Type() EventType {
	return CloseSignal
}
