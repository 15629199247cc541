package domain

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iotsync-network/iotsync-daemon/pkg/address"
	"github.com/iotsync-network/iotsync-daemon/pkg/plutus"
)

func testBlueprint() *plutus.Blueprint {
	return &plutus.Blueprint{
		Validators: []plutus.Validator{
			{Title: "contract.status_management.mint", CompiledCode: "4d01000033222220051200120011"},
			{Title: "contract.status_management.spend", CompiledCode: "4e4d01000033222220051200120011"},
		},
	}
}

func testOwnerAddress(t *testing.T, seed byte) string {
	t.Helper()
	addr, err := address.NewKeyAddress(
		address.Testnet, bytes.Repeat([]byte{seed}, address.HashSize),
	)
	require.NoError(t, err)
	return addr
}

func TestNewContract(t *testing.T) {
	owner := testOwnerAddress(t, 0x01)

	contract, err := NewContract(
		testBlueprint(),
		"contract.status_management.mint",
		"contract.status_management.spend",
		owner, address.Testnet,
	)
	require.NoError(t, err)

	require.Equal(t, owner, contract.OwnerAddress)
	require.Len(t, contract.OwnerKeyHash, address.HashSize)
	require.Len(t, contract.PolicyID, 2*address.HashSize)
	require.Contains(t, contract.ScriptAddress, "addr_test1")

	decodedPolicy, err := hex.DecodeString(contract.PolicyID)
	require.NoError(t, err)
	require.Equal(t, address.ScriptHash(contract.MintScript), decodedPolicy)

	id := contract.TokenID("Locker1")
	require.Equal(t, contract.PolicyID, id.PolicyID)
	require.Equal(t, "Locker1", id.AssetName)
}

func TestNewContractDisjointPerOwner(t *testing.T) {
	a, err := NewContract(
		testBlueprint(),
		"contract.status_management.mint",
		"contract.status_management.spend",
		testOwnerAddress(t, 0x01), address.Testnet,
	)
	require.NoError(t, err)

	b, err := NewContract(
		testBlueprint(),
		"contract.status_management.mint",
		"contract.status_management.spend",
		testOwnerAddress(t, 0x02), address.Testnet,
	)
	require.NoError(t, err)

	require.NotEqual(t, a.PolicyID, b.PolicyID)
	require.NotEqual(t, a.ScriptAddress, b.ScriptAddress)
}

func TestNewContractUnknownValidator(t *testing.T) {
	_, err := NewContract(
		testBlueprint(),
		"contract.missing.mint",
		"contract.status_management.spend",
		testOwnerAddress(t, 0x01), address.Testnet,
	)
	require.Error(t, err)
}
