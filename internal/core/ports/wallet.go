package ports

import "github.com/iotsync-network/iotsync-daemon/pkg/explorer"

// Wallet is the signer-side capability needed to fund and witness state
// transitions. Implementations may be watch-only, in which case SignTx
// fails and signing happens out of process.
type Wallet interface {
	// GetUtxos returns the wallet's current utxo set, read fresh on every
	// call.
	GetUtxos() ([]explorer.Utxo, error)
	// GetCollateral returns the wallet utxos qualifying as collateral:
	// native coin only, at or above the configured minimum.
	GetCollateral() ([]explorer.Utxo, error)
	// GetChangeAddress returns the address change and fees are paid to,
	// also used as the required-signer identity.
	GetChangeAddress() (string, error)
	// SignTx witnesses an unsigned tx. With partial set, the signature is
	// added without requiring the witness set to become complete.
	SignTx(unsignedTx string, partial bool) (string, error)
}
