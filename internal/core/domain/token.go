package domain

import "encoding/hex"

// TokenID identifies a singleton state token: the minting policy hash plus
// an application-chosen label (device name, lock title, asset id). At most
// one live utxo at the contract address holds a given token id at a time.
type TokenID struct {
	PolicyID  string
	AssetName string
}

// NewTokenID returns the identity for the given policy and label.
func NewTokenID(policyID, assetName string) TokenID {
	return TokenID{PolicyID: policyID, AssetName: assetName}
}

// Unit is the indexer-facing unit string: policy id concatenated with the
// hex-encoded asset name.
func (t TokenID) Unit() string {
	return t.PolicyID + hex.EncodeToString([]byte(t.AssetName))
}

func (t TokenID) String() string {
	return t.PolicyID + "." + t.AssetName
}
