package domain

import (
	"bytes"
	"fmt"

	"github.com/iotsync-network/iotsync-daemon/pkg/address"
	"github.com/iotsync-network/iotsync-daemon/pkg/plutus"
)

// StateDatum is the inline datum attached to a token's utxo. The first two
// fields are the authorization descriptor: the owner's payment key hash and
// the payment key hash of the party allowed to drive the next ordinary
// update. Every transition must re-emit all three parts; omitted fields are
// carried over from the prior datum, never defaulted.
type StateDatum struct {
	Owner     []byte
	Authority []byte
	Payload   []plutus.Data
}

// Data returns the wire encoding of the datum: a constr-0 with owner,
// authority and the payload fields appended in order.
func (d StateDatum) Data() plutus.Data {
	fields := make([]plutus.Data, 0, 2+len(d.Payload))
	fields = append(fields,
		plutus.Bytes{Value: d.Owner},
		plutus.Bytes{Value: d.Authority},
	)
	fields = append(fields, d.Payload...)
	return plutus.NewConstr(0, fields...)
}

// EncodeHex serializes the datum to the hex form carried by tx outputs.
func (d StateDatum) EncodeHex() (string, error) {
	return plutus.MarshalHex(d.Data())
}

// DecodeStateDatum parses a hex-encoded inline datum into a StateDatum.
func DecodeStateDatum(datumHex string) (*StateDatum, error) {
	if len(datumHex) == 0 {
		return nil, fmt.Errorf("%w: empty datum", ErrDatumDecode)
	}
	data, err := plutus.UnmarshalHex(datumHex)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDatumDecode, err)
	}

	constr, ok := data.(plutus.Constr)
	if !ok || constr.Tag != 0 {
		return nil, fmt.Errorf("%w: not a constr-0 value", ErrDatumDecode)
	}
	if len(constr.Fields) < 2 {
		return nil, fmt.Errorf(
			"%w: expected at least 2 fields, got %d",
			ErrDatumDecode, len(constr.Fields),
		)
	}

	owner, ok := constr.Fields[0].(plutus.Bytes)
	if !ok || len(owner.Value) != address.HashSize {
		return nil, fmt.Errorf("%w: malformed owner hash", ErrDatumDecode)
	}
	authority, ok := constr.Fields[1].(plutus.Bytes)
	if !ok || len(authority.Value) != address.HashSize {
		return nil, fmt.Errorf("%w: malformed authority hash", ErrDatumDecode)
	}

	return &StateDatum{
		Owner:     owner.Value,
		Authority: authority.Value,
		Payload:   constr.Fields[2:],
	}, nil
}

// AccessRole is the relationship of a key to a token's state cell, resolved
// from the on-chain datum alone.
type AccessRole int

const (
	RoleUnknown AccessRole = iota
	RoleOwner
	RoleAuthority
)

func (r AccessRole) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleAuthority:
		return "authority"
	default:
		return "unknown"
	}
}

// ResolveAccessRole classifies the given payment key hash against the datum.
func (d StateDatum) ResolveAccessRole(keyHash []byte) AccessRole {
	if bytes.Equal(keyHash, d.Owner) {
		return RoleOwner
	}
	if bytes.Equal(keyHash, d.Authority) {
		return RoleAuthority
	}
	return RoleUnknown
}
