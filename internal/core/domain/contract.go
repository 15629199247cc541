package domain

import (
	"encoding/hex"
	"fmt"

	"github.com/iotsync-network/iotsync-daemon/pkg/address"
	"github.com/iotsync-network/iotsync-daemon/pkg/plutus"
)

// Contract bundles everything derived from a compiled blueprint and an owner
// address: the parameterized scripts, the policy id and the script address.
// It is built once at startup and passed to the services that need it.
type Contract struct {
	Network       address.Network
	OwnerAddress  string
	OwnerKeyHash  []byte
	PolicyID      string
	ScriptAddress string
	MintScript    []byte
	SpendScript   []byte
}

// NewContract derives a contract session from the blueprint validators named
// mintTitle and spendTitle, both parameterized with the owner's payment key
// hash. Two owners therefore get disjoint policy ids and script addresses
// from the same compiled code.
func NewContract(
	bp *plutus.Blueprint,
	mintTitle, spendTitle, ownerAddr string,
	network address.Network,
) (*Contract, error) {
	ownerKeyHash, err := address.PaymentKeyHash(ownerAddr)
	if err != nil {
		return nil, fmt.Errorf("resolving owner key hash: %w", err)
	}
	param := plutus.Bytes{Value: ownerKeyHash}

	mintCode, err := bp.Validator(mintTitle)
	if err != nil {
		return nil, err
	}
	mintScript, err := plutus.ApplyParams(mintCode, param)
	if err != nil {
		return nil, fmt.Errorf("parameterizing mint script: %w", err)
	}

	spendCode, err := bp.Validator(spendTitle)
	if err != nil {
		return nil, err
	}
	spendScript, err := plutus.ApplyParams(spendCode, param)
	if err != nil {
		return nil, fmt.Errorf("parameterizing spend script: %w", err)
	}

	scriptAddr, err := address.NewScriptAddress(
		network, address.ScriptHash(spendScript),
	)
	if err != nil {
		return nil, fmt.Errorf("deriving script address: %w", err)
	}

	return &Contract{
		Network:       network,
		OwnerAddress:  ownerAddr,
		OwnerKeyHash:  ownerKeyHash,
		PolicyID:      hex.EncodeToString(address.ScriptHash(mintScript)),
		ScriptAddress: scriptAddr,
		MintScript:    mintScript,
		SpendScript:   spendScript,
	}, nil
}

// TokenID returns the identity of the token labelled name under this
// contract's minting policy.
func (c *Contract) TokenID(name string) TokenID {
	return NewTokenID(c.PolicyID, name)
}
