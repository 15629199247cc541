package application

import (
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/iotsync-network/iotsync-daemon/internal/core/domain"
	"github.com/iotsync-network/iotsync-daemon/internal/core/ports"
	"github.com/iotsync-network/iotsync-daemon/pkg/address"
	"github.com/iotsync-network/iotsync-daemon/pkg/explorer"
	"github.com/iotsync-network/iotsync-daemon/pkg/plutus"
	"github.com/iotsync-network/iotsync-daemon/pkg/txbuilder"
)

// TransitionService builds unsigned transactions moving a token's state
// cell through its lifecycle:
//
//	[absent] --Init--> [active] --Update/Reassign--> [active] --Withdraw--> [absent]
//
// Transitions against the same token identity are serialized through a
// per-identity mutex, so two local callers cannot both build a spend of the
// same utxo. Callers on other hosts still race; the ledger rejects the
// loser at submission.
type TransitionService struct {
	explorerSvc explorer.Service
	wallet      ports.Wallet
	contract    *domain.Contract
	tokenLocks  sync.Map
}

// NewTransitionService returns a transition builder for the given contract
// session.
func NewTransitionService(
	explorerSvc explorer.Service, wallet ports.Wallet, contract *domain.Contract,
) *TransitionService {
	return &TransitionService{
		explorerSvc: explorerSvc,
		wallet:      wallet,
		contract:    contract,
	}
}

// Contract exposes the contract session the service operates on.
func (s *TransitionService) Contract() *domain.Contract {
	return s.contract
}

func (s *TransitionService) lockToken(unit string) func() {
	v, _ := s.tokenLocks.LoadOrStore(unit, &sync.Mutex{})
	mutex := v.(*sync.Mutex)
	mutex.Lock()
	return mutex.Unlock
}

type walletContext struct {
	utxos      []explorer.Utxo
	collateral explorer.Utxo
	address    string
	keyHash    []byte
}

// walletForTx gathers everything a transition needs from the wallet: the
// spendable utxo set, one qualifying collateral and the change address.
func (s *TransitionService) walletForTx() (*walletContext, error) {
	walletAddr, err := s.wallet.GetChangeAddress()
	if err != nil || len(walletAddr) == 0 {
		return nil, domain.ErrNoWalletAddress
	}

	utxos, err := s.wallet.GetUtxos()
	if err != nil {
		return nil, err
	}
	if len(utxos) == 0 {
		return nil, domain.ErrNoUtxos
	}

	collaterals, err := s.wallet.GetCollateral()
	if err != nil {
		return nil, err
	}
	if len(collaterals) == 0 {
		return nil, domain.ErrNoCollateral
	}

	keyHash, err := address.PaymentKeyHash(walletAddr)
	if err != nil {
		return nil, err
	}

	return &walletContext{
		utxos:      utxos,
		collateral: collaterals[0],
		address:    walletAddr,
		keyHash:    keyHash,
	}, nil
}

func (s *TransitionService) findToken(id domain.TokenID) (explorer.Utxo, error) {
	return explorer.FindTokenUtxo(
		s.explorerSvc, s.contract.ScriptAddress, id.Unit(),
	)
}

// Init mints the singleton token for the given label and locks it at the
// contract address with the initial datum. The caller becomes both owner
// and authority. Fails with ErrAlreadyInitialized when the token exists.
func (s *TransitionService) Init(
	name string, payload []plutus.Data,
) (string, error) {
	id := s.contract.TokenID(name)
	unlock := s.lockToken(id.Unit())
	defer unlock()

	utxo, err := s.findToken(id)
	if err != nil {
		return "", err
	}
	if utxo != nil {
		return "", domain.ErrAlreadyInitialized
	}

	wctx, err := s.walletForTx()
	if err != nil {
		return "", err
	}

	datum := domain.StateDatum{
		Owner:     s.contract.OwnerKeyHash,
		Authority: s.contract.OwnerKeyHash,
		Payload:   payload,
	}

	log.WithField("token", id.String()).Debug("building init transition")

	return txbuilder.New().
		Mint(1, id.PolicyID, id.AssetName).
		MintingScript(s.contract.MintScript).
		MintRedeemer(plutus.MintIssue.Data()).
		TxOut(s.contract.ScriptAddress, []explorer.Asset{{Unit: id.Unit(), Quantity: 1}}).
		TxOutInlineDatum(datum.Data()).
		ChangeAddress(wctx.address).
		RequiredSignerHash(wctx.keyHash).
		SelectUtxosFrom(wctx.utxos).
		TxInCollateral(wctx.collateral.Hash(), wctx.collateral.Index()).
		SetNetwork(uint8(s.contract.Network)).
		Complete()
}

// Update spends the current state cell and recreates it with a new payload.
// The authority descriptor is re-derived from the on-chain datum, never
// from caller input. Fails with ErrTokenNotFound when the token is absent.
func (s *TransitionService) Update(
	name string, payload []plutus.Data,
) (string, error) {
	id := s.contract.TokenID(name)
	unlock := s.lockToken(id.Unit())
	defer unlock()

	utxo, err := s.findToken(id)
	if err != nil {
		return "", err
	}
	if utxo == nil {
		return "", domain.ErrTokenNotFound
	}

	prior, err := domain.DecodeStateDatum(utxo.InlineDatum())
	if err != nil {
		return "", err
	}

	next := domain.StateDatum{
		Owner:     prior.Owner,
		Authority: prior.Authority,
		Payload:   payload,
	}

	log.WithField("token", id.String()).Debug("building update transition")

	return s.buildSpend(id, utxo, next, plutus.SpendUpdate, s.contract.ScriptAddress)
}

// Reassign hands the authority over to a new key, leaving the payload
// untouched. The payload is re-derived from the on-chain datum.
func (s *TransitionService) Reassign(
	name, newAuthorityAddr string,
) (string, error) {
	id := s.contract.TokenID(name)
	unlock := s.lockToken(id.Unit())
	defer unlock()

	utxo, err := s.findToken(id)
	if err != nil {
		return "", err
	}
	if utxo == nil {
		return "", domain.ErrTokenNotFound
	}

	prior, err := domain.DecodeStateDatum(utxo.InlineDatum())
	if err != nil {
		return "", err
	}

	newAuthority, err := address.PaymentKeyHash(newAuthorityAddr)
	if err != nil {
		return "", fmt.Errorf("resolving new authority: %w", err)
	}

	next := domain.StateDatum{
		Owner:     prior.Owner,
		Authority: newAuthority,
		Payload:   prior.Payload,
	}

	log.WithField("token", id.String()).Debug("building reassign transition")

	return s.buildSpend(id, utxo, next, plutus.SpendPrivileged, s.contract.ScriptAddress)
}

// Withdraw is the terminal transition: the token leaves the contract
// address for the caller's wallet and no state cell is recreated.
func (s *TransitionService) Withdraw(name string) (string, error) {
	id := s.contract.TokenID(name)
	unlock := s.lockToken(id.Unit())
	defer unlock()

	utxo, err := s.findToken(id)
	if err != nil {
		return "", err
	}
	if utxo == nil {
		return "", domain.ErrTokenNotFound
	}

	prior, err := domain.DecodeStateDatum(utxo.InlineDatum())
	if err != nil {
		return "", err
	}

	wctx, err := s.walletForTx()
	if err != nil {
		return "", err
	}

	log.WithField("token", id.String()).Debug("building withdraw transition")

	// the datum travels along to the wallet output so the final state
	// stays readable off-chain
	return txbuilder.New().
		TxIn(utxo.Hash(), utxo.Index()).
		TxInInlineDatumPresent().
		TxInRedeemer(plutus.SpendPrivileged.Data()).
		TxInScript(s.contract.SpendScript).
		TxOut(wctx.address, []explorer.Asset{{Unit: id.Unit(), Quantity: 1}}).
		TxOutInlineDatum(prior.Data()).
		ChangeAddress(wctx.address).
		RequiredSignerHash(wctx.keyHash).
		SelectUtxosFrom(wctx.utxos).
		TxInCollateral(wctx.collateral.Hash(), wctx.collateral.Index()).
		SetNetwork(uint8(s.contract.Network)).
		Complete()
}

func (s *TransitionService) buildSpend(
	id domain.TokenID,
	utxo explorer.Utxo,
	next domain.StateDatum,
	action plutus.SpendAction,
	destination string,
) (string, error) {
	wctx, err := s.walletForTx()
	if err != nil {
		return "", err
	}

	return txbuilder.New().
		TxIn(utxo.Hash(), utxo.Index()).
		TxInInlineDatumPresent().
		TxInRedeemer(action.Data()).
		TxInScript(s.contract.SpendScript).
		TxOut(destination, []explorer.Asset{{Unit: id.Unit(), Quantity: 1}}).
		TxOutInlineDatum(next.Data()).
		ChangeAddress(wctx.address).
		RequiredSignerHash(wctx.keyHash).
		SelectUtxosFrom(wctx.utxos).
		TxInCollateral(wctx.collateral.Hash(), wctx.collateral.Index()).
		SetNetwork(uint8(s.contract.Network)).
		Complete()
}
