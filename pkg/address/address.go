package address

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"golang.org/x/crypto/blake2b"
)

// Network identifies the chain an address belongs to.
type Network uint8

const (
	Testnet Network = 0
	Mainnet Network = 1
)

func (n Network) hrp() string {
	if n == Mainnet {
		return "addr"
	}
	return "addr_test"
}

// HashSize is the size of a payment credential or script hash (blake2b-224).
const HashSize = 28

const (
	headerKeyEnterprise    = 0x60
	headerScriptEnterprise = 0x70
	headerCredentialMask   = 0xf0
	headerScriptBit        = 0x10
)

// Decoded is the parsed form of a bech32 address. Only the payment part is
// retained; stake credentials play no role in the protocol.
type Decoded struct {
	Network        Network
	PaymentKeyHash []byte
	IsScript       bool
}

// Decode parses a bech32 Cardano-style address and extracts its payment
// credential.
func Decode(addr string) (*Decoded, error) {
	hrp, data5, err := bech32.DecodeNoLimit(addr)
	if err != nil {
		return nil, fmt.Errorf("invalid address %s: %w", addr, err)
	}
	if hrp != "addr" && hrp != "addr_test" {
		return nil, fmt.Errorf("unexpected address prefix %s", hrp)
	}
	payload, err := bech32.ConvertBits(data5, 5, 8, false)
	if err != nil {
		return nil, fmt.Errorf("invalid address payload: %w", err)
	}
	if len(payload) < 1+HashSize {
		return nil, fmt.Errorf("address payload too short: %d bytes", len(payload))
	}
	header := payload[0]
	return &Decoded{
		Network:        Network(header & 0x0f),
		PaymentKeyHash: payload[1 : 1+HashSize],
		IsScript:       header&headerScriptBit != 0,
	}, nil
}

// PaymentKeyHash returns the payment credential of a key-based address,
// the value attached to transactions as required signer and written into
// datums as authority.
func PaymentKeyHash(addr string) ([]byte, error) {
	decoded, err := Decode(addr)
	if err != nil {
		return nil, err
	}
	if decoded.IsScript {
		return nil, fmt.Errorf("address %s has a script payment credential", addr)
	}
	return decoded.PaymentKeyHash, nil
}

// ScriptHash hashes final script bytes into the 28-byte credential used as
// policy id and as script address payment part.
func ScriptHash(script []byte) []byte {
	h, _ := blake2b.New(HashSize, nil)
	h.Write(script)
	return h.Sum(nil)
}

// NewScriptAddress builds the enterprise (no stake part) address of a script.
func NewScriptAddress(network Network, scriptHash []byte) (string, error) {
	return encodeEnterprise(network, headerScriptEnterprise, scriptHash)
}

// NewKeyAddress builds the enterprise address of a payment key hash.
func NewKeyAddress(network Network, keyHash []byte) (string, error) {
	return encodeEnterprise(network, headerKeyEnterprise, keyHash)
}

func encodeEnterprise(network Network, header byte, hash []byte) (string, error) {
	if len(hash) != HashSize {
		return "", fmt.Errorf("credential must be %d bytes, got %d", HashSize, len(hash))
	}
	payload := make([]byte, 0, 1+HashSize)
	payload = append(payload, header|byte(network))
	payload = append(payload, hash...)
	data5, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return "", err
	}
	return bech32.Encode(network.hrp(), data5)
}
