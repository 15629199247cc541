package domain

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iotsync-network/iotsync-daemon/pkg/plutus"
)

var (
	ownerHash     = bytes.Repeat([]byte{0x01}, 28)
	authorityHash = bytes.Repeat([]byte{0x02}, 28)
	strangerHash  = bytes.Repeat([]byte{0x03}, 28)
)

func TestStateDatumRoundTrip(t *testing.T) {
	datum := StateDatum{
		Owner:     ownerHash,
		Authority: authorityHash,
		Payload:   SensorPayload{Temperature: 20000, Humidity: 45000}.Fields(),
	}

	encoded, err := datum.EncodeHex()
	require.NoError(t, err)

	decoded, err := DecodeStateDatum(encoded)
	require.NoError(t, err)
	require.Equal(t, datum.Owner, decoded.Owner)
	require.Equal(t, datum.Authority, decoded.Authority)
	require.Equal(t, datum.Payload, decoded.Payload)

	// re-encoding an unchanged datum must be byte-for-byte identical
	reencoded, err := decoded.EncodeHex()
	require.NoError(t, err)
	require.Equal(t, encoded, reencoded)

	payload, err := ParseSensorPayload(decoded.Payload)
	require.NoError(t, err)
	require.Equal(t, int64(20000), payload.Temperature)
	require.Equal(t, int64(45000), payload.Humidity)
}

func TestDecodeStateDatumRejectsWrongShape(t *testing.T) {
	tests := []struct {
		name string
		data plutus.Data
	}{
		{
			name: "wrong constructor tag",
			data: plutus.NewConstr(1,
				plutus.Bytes{Value: ownerHash},
				plutus.Bytes{Value: authorityHash},
			),
		},
		{
			name: "too few fields",
			data: plutus.NewConstr(0, plutus.Bytes{Value: ownerHash}),
		},
		{
			name: "owner is not a hash",
			data: plutus.NewConstr(0,
				plutus.Int{Value: 1},
				plutus.Bytes{Value: authorityHash},
			),
		},
		{
			name: "authority has wrong length",
			data: plutus.NewConstr(0,
				plutus.Bytes{Value: ownerHash},
				plutus.Bytes{Value: []byte{0x01, 0x02}},
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := plutus.MarshalHex(tt.data)
			require.NoError(t, err)

			_, err = DecodeStateDatum(encoded)
			require.ErrorIs(t, err, ErrDatumDecode)
		})
	}

	_, err := DecodeStateDatum("")
	require.ErrorIs(t, err, ErrDatumDecode)
}

func TestResolveAccessRole(t *testing.T) {
	datum := StateDatum{
		Owner:     ownerHash,
		Authority: authorityHash,
		Payload:   LockPayload{State: LockStateLocked}.Fields(),
	}

	require.Equal(t, RoleOwner, datum.ResolveAccessRole(ownerHash))
	require.Equal(t, RoleAuthority, datum.ResolveAccessRole(authorityHash))
	require.Equal(t, RoleUnknown, datum.ResolveAccessRole(strangerHash))
}

func TestLockPayloadRoundTrip(t *testing.T) {
	payload := LockPayload{State: LockStateRevoked}

	parsed, err := ParseLockPayload(payload.Fields())
	require.NoError(t, err)
	require.Equal(t, LockStateRevoked, parsed.State)
	require.Equal(t, "revoked", parsed.State.String())

	_, err = ParseLockPayload(nil)
	require.ErrorIs(t, err, ErrDatumDecode)
}

func TestParseSensorPayloadRejectsWrongFields(t *testing.T) {
	_, err := ParseSensorPayload([]plutus.Data{plutus.Int{Value: 1}})
	require.ErrorIs(t, err, ErrDatumDecode)

	_, err = ParseSensorPayload([]plutus.Data{
		plutus.Bytes{Value: []byte{0x01}},
		plutus.Int{Value: 2},
	})
	require.ErrorIs(t, err, ErrDatumDecode)
}

func TestTokenIDUnit(t *testing.T) {
	id := NewTokenID("a48dfba612b9f49bded45de5fb348b3c22aa7c65383217d1d9574a5b", "Sensor1")
	require.Equal(
		t,
		"a48dfba612b9f49bded45de5fb348b3c22aa7c65383217d1d9574a5b53656e736f7231",
		id.Unit(),
	)
}
