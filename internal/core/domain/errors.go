package domain

import "errors"

var (
	// ErrTokenNotFound is thrown when a transition other than init is
	// requested for a token that has no live utxo at the contract address.
	ErrTokenNotFound = errors.New("token utxo not found at contract address")
	// ErrAlreadyInitialized is thrown when init is requested for a token
	// that already exists.
	ErrAlreadyInitialized = errors.New("token is already initialized")
	// ErrNoUtxos is thrown when the wallet has no utxos to fund a transition.
	ErrNoUtxos = errors.New("no utxos found in wallet")
	// ErrNoCollateral is thrown when no wallet utxo qualifies as collateral.
	ErrNoCollateral = errors.New("no collateral utxo found in wallet")
	// ErrNoWalletAddress is thrown when the wallet cannot resolve a change
	// address before building a transaction.
	ErrNoWalletAddress = errors.New("no wallet address found")
	// ErrDatumDecode is thrown when an inline datum does not match the
	// expected constructor shape.
	ErrDatumDecode = errors.New("inline datum does not match expected shape")
	// ErrTxSubmission is thrown when the network rejects a signed
	// transaction, including undetected double-spend races.
	ErrTxSubmission = errors.New("transaction rejected by the network")
	// ErrConfirmationTimeout is thrown when a submitted transaction is not
	// confirmed within the configured window.
	ErrConfirmationTimeout = errors.New("transaction confirmation timed out")
)
