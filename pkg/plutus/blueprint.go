package plutus

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"
)

// Blueprint is the compiled contract bundle produced by the on-chain
// toolchain. Only the validator titles and compiled code are consumed here;
// the script logic itself is opaque to this daemon.
type Blueprint struct {
	Validators []Validator `json:"validators"`
}

// Validator is one named compiled script inside a blueprint.
type Validator struct {
	Title        string `json:"title"`
	CompiledCode string `json:"compiledCode"`
}

// LoadBlueprint reads a blueprint JSON file from disk.
func LoadBlueprint(path string) (*Blueprint, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading blueprint: %w", err)
	}
	b := &Blueprint{}
	if err := json.Unmarshal(buf, b); err != nil {
		return nil, fmt.Errorf("parsing blueprint: %w", err)
	}
	return b, nil
}

// Validator returns the compiled code of the validator with the given title.
func (b *Blueprint) Validator(title string) (string, error) {
	for _, v := range b.Validators {
		if v.Title == title {
			return v.CompiledCode, nil
		}
	}
	return "", fmt.Errorf("validator %s not found", title)
}

// ApplyParams specializes a compiled script with the given parameters,
// producing the final script bytes. The resulting bytes are what gets
// hashed into the policy id or the script address payment credential.
func ApplyParams(compiledCode string, params ...Data) ([]byte, error) {
	code, err := hex.DecodeString(compiledCode)
	if err != nil {
		return nil, fmt.Errorf("invalid compiled code hex: %w", err)
	}
	if len(params) == 0 {
		return code, nil
	}
	encodedParams := make([]interface{}, 0, len(params))
	for _, p := range params {
		encodedParams = append(encodedParams, toCborValue(p))
	}
	return cbor.Marshal([]interface{}{code, encodedParams})
}
