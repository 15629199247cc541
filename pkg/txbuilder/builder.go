package txbuilder

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/iotsync-network/iotsync-daemon/pkg/explorer"
	"github.com/iotsync-network/iotsync-daemon/pkg/plutus"
)

const (
	// baseFee is the flat fee attached to every transaction. Fee estimation
	// by tx size is left to the signing side; over-payment flows back as
	// change on the next transition.
	baseFee = 200_000
	// minOutputLovelace tops up token outputs that declare no native coin,
	// covering the ledger's min-utxo requirement.
	minOutputLovelace = 1_400_000
)

var (
	ErrMissingChangeAddress = errors.New("change address is not set")
	ErrMissingCollateral    = errors.New("script spend requires a collateral input")
	ErrMissingRedeemer      = errors.New("script input without redeemer")
	ErrMissingMintingScript = errors.New("mint without minting script")
	ErrNothingToBuild       = errors.New("transaction has no inputs or mints")
)

type pendingInput struct {
	input         Input
	script        []byte
	redeemer      plutus.Data
	inlineDatum   bool
	redeemerIsSet bool
}

// Builder assembles an unsigned transaction through a fluent directive API.
// Directives accumulate; Complete validates the whole and serializes. Errors
// stick to the builder and surface at Complete.
type Builder struct {
	networkID       uint8
	ins             []*pendingInput
	mints           []MintEntry
	mintScript      []byte
	mintRedeemer    plutus.Data
	mintRedeemerSet bool
	outs            []Output
	collateral      *Input
	changeAddress   string
	requiredSigners [][]byte
	selectFrom      []explorer.Utxo
	err             error
}

// New returns an empty transaction builder.
func New() *Builder {
	return &Builder{}
}

// Mint adds a minting directive for quantity units of the asset.
func (b *Builder) Mint(quantity int64, policyID, assetName string) *Builder {
	b.mints = append(b.mints, MintEntry{
		PolicyID:  policyID,
		AssetName: assetName,
		Quantity:  quantity,
	})
	return b
}

// MintingScript attaches the minting policy script.
func (b *Builder) MintingScript(script []byte) *Builder {
	b.mintScript = script
	return b
}

// MintRedeemer attaches the redeemer for the minting policy.
func (b *Builder) MintRedeemer(redeemer plutus.Data) *Builder {
	b.mintRedeemer = redeemer
	b.mintRedeemerSet = true
	return b
}

// TxIn adds a script-guarded input. Subsequent TxIn* directives refer to it
// until the next TxIn.
func (b *Builder) TxIn(txHash string, index uint32) *Builder {
	b.ins = append(b.ins, &pendingInput{
		input: Input{TxHash: txHash, Index: index},
	})
	return b
}

// TxInInlineDatumPresent marks the current input's datum as carried inline.
func (b *Builder) TxInInlineDatumPresent() *Builder {
	if in := b.currentIn(); in != nil {
		in.inlineDatum = true
	}
	return b
}

// TxInRedeemer attaches the spending redeemer of the current input.
func (b *Builder) TxInRedeemer(redeemer plutus.Data) *Builder {
	if in := b.currentIn(); in != nil {
		in.redeemer = redeemer
		in.redeemerIsSet = true
	}
	return b
}

// TxInScript attaches the spending validator of the current input.
func (b *Builder) TxInScript(script []byte) *Builder {
	if in := b.currentIn(); in != nil {
		in.script = script
	}
	return b
}

func (b *Builder) currentIn() *pendingInput {
	if len(b.ins) == 0 {
		b.setErr(errors.New("input directive before any TxIn"))
		return nil
	}
	return b.ins[len(b.ins)-1]
}

// TxOut adds an output paying the given assets to addr. Subsequent
// TxOutInlineDatum refers to it.
func (b *Builder) TxOut(addr string, assets []explorer.Asset) *Builder {
	b.outs = append(b.outs, Output{Address: addr, Assets: assets})
	return b
}

// TxOutInlineDatum attaches an inline datum to the last added output.
func (b *Builder) TxOutInlineDatum(datum plutus.Data) *Builder {
	if len(b.outs) == 0 {
		b.setErr(errors.New("TxOutInlineDatum before any TxOut"))
		return b
	}
	buf, err := plutus.Marshal(datum)
	if err != nil {
		b.setErr(fmt.Errorf("encoding output datum: %w", err))
		return b
	}
	b.outs[len(b.outs)-1].Datum = buf
	return b
}

// TxInCollateral sets the collateral input.
func (b *Builder) TxInCollateral(txHash string, index uint32) *Builder {
	b.collateral = &Input{TxHash: txHash, Index: index}
	return b
}

// ChangeAddress sets the destination of the value left over after outputs
// and fee.
func (b *Builder) ChangeAddress(addr string) *Builder {
	b.changeAddress = addr
	return b
}

// RequiredSignerHash requires a witness by the given payment key hash.
func (b *Builder) RequiredSignerHash(hash []byte) *Builder {
	b.requiredSigners = append(b.requiredSigners, hash)
	return b
}

// SelectUtxosFrom provides the wallet utxo set fee inputs are chosen from.
func (b *Builder) SelectUtxosFrom(utxos []explorer.Utxo) *Builder {
	b.selectFrom = utxos
	return b
}

// SetNetwork sets the network id stamped on the transaction.
func (b *Builder) SetNetwork(networkID uint8) *Builder {
	b.networkID = networkID
	return b
}

func (b *Builder) setErr(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Build validates the accumulated directives, runs input selection and
// returns the assembled transaction.
func (b *Builder) Build() (*UnsignedTx, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.ins) == 0 && len(b.mints) == 0 {
		return nil, ErrNothingToBuild
	}
	if len(b.changeAddress) == 0 {
		return nil, ErrMissingChangeAddress
	}
	if len(b.mints) > 0 {
		if len(b.mintScript) == 0 {
			return nil, ErrMissingMintingScript
		}
		if !b.mintRedeemerSet {
			return nil, ErrMissingRedeemer
		}
	}

	hasScriptSpend := false
	for _, in := range b.ins {
		if len(in.script) > 0 {
			hasScriptSpend = true
			if !in.redeemerIsSet {
				return nil, ErrMissingRedeemer
			}
		}
	}
	if (hasScriptSpend || len(b.mints) > 0) && b.collateral == nil {
		return nil, ErrMissingCollateral
	}

	tx := &UnsignedTx{
		Fee:             baseFee,
		NetworkID:       b.networkID,
		RequiredSigners: b.requiredSigners,
		Mint:            b.mints,
	}
	if b.collateral != nil {
		tx.Collateral = []Input{*b.collateral}
	}

	// top up token outputs with the min-utxo native coin amount
	requiredLovelace := uint64(baseFee)
	for _, out := range b.outs {
		withLovelace := out
		if lovelace := out.QuantityOf(explorer.Lovelace); lovelace == 0 {
			withLovelace.Assets = append(
				[]explorer.Asset{{Unit: explorer.Lovelace, Quantity: minOutputLovelace}},
				out.Assets...,
			)
		}
		requiredLovelace += withLovelace.QuantityOf(explorer.Lovelace)
		tx.Outputs = append(tx.Outputs, withLovelace)
	}

	for _, in := range b.ins {
		tx.Inputs = append(tx.Inputs, in.input)
		if len(in.script) > 0 {
			tx.Scripts = append(tx.Scripts, in.script)
			redeemer, err := plutus.Marshal(in.redeemer)
			if err != nil {
				return nil, fmt.Errorf("encoding spend redeemer: %w", err)
			}
			tx.Redeemers = append(tx.Redeemers, RedeemerEntry{
				Purpose: RedeemerSpend,
				Index:   uint32(len(tx.Inputs) - 1),
				Data:    redeemer,
			})
		}
	}

	if len(b.mints) > 0 {
		tx.Scripts = append(tx.Scripts, b.mintScript)
		redeemer, err := plutus.Marshal(b.mintRedeemer)
		if err != nil {
			return nil, fmt.Errorf("encoding mint redeemer: %w", err)
		}
		tx.Redeemers = append(tx.Redeemers, RedeemerEntry{
			Purpose: RedeemerMint,
			Data:    redeemer,
		})
	}

	coins, change, err := explorer.SelectUnspents(b.selectFrom, requiredLovelace)
	if err != nil {
		return nil, fmt.Errorf("selecting fee inputs: %w", err)
	}
	for _, c := range coins {
		tx.Inputs = append(tx.Inputs, Input{TxHash: c.Hash(), Index: c.Index()})
	}
	if change > 0 {
		tx.Outputs = append(tx.Outputs, Output{
			Address: b.changeAddress,
			Assets:  []explorer.Asset{{Unit: explorer.Lovelace, Quantity: change}},
		})
	}

	return tx, nil
}

// Complete builds and serializes the transaction to CBOR hex, ready for
// external signing.
func (b *Builder) Complete() (string, error) {
	tx, err := b.Build()
	if err != nil {
		return "", err
	}
	return tx.Serialize()
}

// AssetUnit builds the unit string of an asset from its policy and name.
func AssetUnit(policyID, assetName string) string {
	return policyID + hex.EncodeToString([]byte(assetName))
}
