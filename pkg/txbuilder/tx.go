package txbuilder

import (
	"encoding/hex"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/iotsync-network/iotsync-daemon/pkg/explorer"
)

// Input references a utxo being spent.
type Input struct {
	TxHash string `cbor:"0,keyasint"`
	Index  uint32 `cbor:"1,keyasint"`
}

// Output is a transaction output, optionally carrying an inline datum.
type Output struct {
	Address string           `cbor:"0,keyasint"`
	Assets  []explorer.Asset `cbor:"1,keyasint"`
	Datum   []byte           `cbor:"2,keyasint,omitempty"`
}

// MintEntry is one minted (or, with negative quantity, burned) asset.
type MintEntry struct {
	PolicyID  string `cbor:"0,keyasint"`
	AssetName string `cbor:"1,keyasint"`
	Quantity  int64  `cbor:"2,keyasint"`
}

// RedeemerPurpose tells which part of the transaction a redeemer belongs to.
type RedeemerPurpose uint8

const (
	RedeemerSpend RedeemerPurpose = 0
	RedeemerMint  RedeemerPurpose = 1
)

// RedeemerEntry binds a redeemer value to a script input or mint.
type RedeemerEntry struct {
	Purpose RedeemerPurpose `cbor:"0,keyasint"`
	Index   uint32          `cbor:"1,keyasint"`
	Data    []byte          `cbor:"2,keyasint"`
}

// UnsignedTx is a fully assembled transaction awaiting an external witness.
type UnsignedTx struct {
	Inputs          []Input         `cbor:"0,keyasint"`
	Outputs         []Output        `cbor:"1,keyasint"`
	Fee             uint64          `cbor:"2,keyasint"`
	Mint            []MintEntry     `cbor:"9,keyasint,omitempty"`
	Collateral      []Input         `cbor:"13,keyasint,omitempty"`
	RequiredSigners [][]byte        `cbor:"14,keyasint,omitempty"`
	NetworkID       uint8           `cbor:"15,keyasint"`
	Scripts         [][]byte        `cbor:"20,keyasint,omitempty"`
	Redeemers       []RedeemerEntry `cbor:"21,keyasint,omitempty"`
}

// Serialize encodes the transaction to CBOR hex, the format handed to the
// external signer and, once witnessed, to the submitter.
func (tx *UnsignedTx) Serialize() (string, error) {
	buf, err := cbor.Marshal(tx)
	if err != nil {
		return "", fmt.Errorf("serializing tx: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Deserialize parses a CBOR hex transaction produced by Serialize.
func Deserialize(txHex string) (*UnsignedTx, error) {
	buf, err := hex.DecodeString(txHex)
	if err != nil {
		return nil, fmt.Errorf("invalid tx hex: %w", err)
	}
	tx := &UnsignedTx{}
	if err := cbor.Unmarshal(buf, tx); err != nil {
		return nil, fmt.Errorf("invalid tx cbor: %w", err)
	}
	return tx, nil
}

// OutputAt returns the first output paying to the given address, nil when
// there is none.
func (tx *UnsignedTx) OutputAt(addr string) *Output {
	for i := range tx.Outputs {
		if tx.Outputs[i].Address == addr {
			return &tx.Outputs[i]
		}
	}
	return nil
}

// QuantityOf returns the amount of the given unit held by the output.
func (o *Output) QuantityOf(unit string) uint64 {
	for _, a := range o.Assets {
		if a.Unit == unit {
			return a.Quantity
		}
	}
	return 0
}
