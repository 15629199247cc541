package plutus

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// Data is a plutus data value, the common representation for inline datums
// and redeemers. The concrete types are Constr, Int and Bytes.
type Data interface {
	isData()
	String() string
}

// Constr is a tagged-constructor value. The tag selects the alternative of
// the on-chain sum type, ie. which branch of the validator handles it.
type Constr struct {
	Tag    uint64
	Fields []Data
}

// Int is an integer field, eg. a scaled sensor reading or a lock state.
type Int struct {
	Value int64
}

// Bytes is a byte-string field, eg. a public key hash.
type Bytes struct {
	Value []byte
}

func (Constr) isData() {}
func (Int) isData()    {}
func (Bytes) isData()  {}

func (c Constr) String() string {
	fields := make([]string, 0, len(c.Fields))
	for _, f := range c.Fields {
		fields = append(fields, f.String())
	}
	return fmt.Sprintf("constr<%d>[%s]", c.Tag, strings.Join(fields, ", "))
}

func (i Int) String() string {
	return strconv.FormatInt(i.Value, 10)
}

func (b Bytes) String() string {
	return hex.EncodeToString(b.Value)
}

// NewConstr returns a constructor value with the given tag and fields.
func NewConstr(tag uint64, fields ...Data) Constr {
	return Constr{Tag: tag, Fields: fields}
}

// Constructor alternatives are encoded with CBOR tags 121..127 for the
// alternatives 0..6, matching the ledger's wire convention. Alternatives
// beyond 6 use tag 1280 onwards; the datums handled here never exceed a
// handful of alternatives.
const (
	constrTagBase     = 121
	constrTagBaseHigh = 1280
	constrMaxCompact  = 6
)

func constrToCborTag(tag uint64) uint64 {
	if tag <= constrMaxCompact {
		return constrTagBase + tag
	}
	return constrTagBaseHigh + tag - constrMaxCompact - 1
}

func constrFromCborTag(num uint64) (uint64, error) {
	if num >= constrTagBase && num <= constrTagBase+constrMaxCompact {
		return num - constrTagBase, nil
	}
	if num >= constrTagBaseHigh {
		return num - constrTagBaseHigh + constrMaxCompact + 1, nil
	}
	return 0, fmt.Errorf("cbor tag %d is not a constructor tag", num)
}

func toCborValue(d Data) interface{} {
	switch v := d.(type) {
	case Constr:
		fields := make([]interface{}, 0, len(v.Fields))
		for _, f := range v.Fields {
			fields = append(fields, toCborValue(f))
		}
		return cbor.Tag{Number: constrToCborTag(v.Tag), Content: fields}
	case Int:
		return v.Value
	case Bytes:
		return v.Value
	default:
		return nil
	}
}

func fromCborValue(raw interface{}) (Data, error) {
	switch v := raw.(type) {
	case cbor.Tag:
		tag, err := constrFromCborTag(v.Number)
		if err != nil {
			return nil, err
		}
		content, ok := v.Content.([]interface{})
		if !ok {
			return nil, fmt.Errorf("constructor content is not a list")
		}
		var fields []Data
		for _, c := range content {
			f, err := fromCborValue(c)
			if err != nil {
				return nil, err
			}
			fields = append(fields, f)
		}
		return Constr{Tag: tag, Fields: fields}, nil
	case int64:
		return Int{Value: v}, nil
	case uint64:
		return Int{Value: int64(v)}, nil
	case []byte:
		return Bytes{Value: v}, nil
	default:
		return nil, fmt.Errorf("unsupported plutus data element %T", raw)
	}
}

// Marshal serializes a plutus data value to its CBOR wire format.
func Marshal(d Data) ([]byte, error) {
	return cbor.Marshal(toCborValue(d))
}

// Unmarshal parses a CBOR-encoded plutus data value.
func Unmarshal(buf []byte) (Data, error) {
	var raw interface{}
	if err := cbor.Unmarshal(buf, &raw); err != nil {
		return nil, fmt.Errorf("invalid plutus data: %w", err)
	}
	return fromCborValue(raw)
}

// MarshalHex serializes a plutus data value to hex, the format inline
// datums travel in through the indexer API.
func MarshalHex(d Data) (string, error) {
	buf, err := Marshal(d)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// UnmarshalHex parses a hex-encoded plutus data value.
func UnmarshalHex(s string) (Data, error) {
	buf, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid plutus data hex: %w", err)
	}
	return Unmarshal(buf)
}
