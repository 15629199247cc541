package application

import (
	"fmt"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/iotsync-network/iotsync-daemon/internal/core/domain"
	"github.com/iotsync-network/iotsync-daemon/pkg/address"
	"github.com/iotsync-network/iotsync-daemon/pkg/explorer"
)

// StateRecord is one decoded state of a token, current or historic.
type StateRecord struct {
	Time        time.Time
	TxHash      string
	Datum       *domain.StateDatum
	ExplorerURL string
}

// QueryService answers read-only questions about token state cells.
type QueryService struct {
	explorerSvc     explorer.Service
	contract        *domain.Contract
	explorerBaseURL string
}

// NewQueryService returns a read-only view over the given contract session.
func NewQueryService(
	explorerSvc explorer.Service,
	contract *domain.Contract,
	explorerBaseURL string,
) *QueryService {
	return &QueryService{
		explorerSvc:     explorerSvc,
		contract:        contract,
		explorerBaseURL: explorerBaseURL,
	}
}

// Status returns the token's current decoded state. Fails with
// ErrTokenNotFound when no live utxo holds the token.
func (s *QueryService) Status(name string) (*StateRecord, error) {
	id := s.contract.TokenID(name)
	utxo, err := explorer.FindTokenUtxo(
		s.explorerSvc, s.contract.ScriptAddress, id.Unit(),
	)
	if err != nil {
		return nil, err
	}
	if utxo == nil {
		return nil, domain.ErrTokenNotFound
	}

	datum, err := domain.DecodeStateDatum(utxo.InlineDatum())
	if err != nil {
		return nil, err
	}

	return &StateRecord{
		TxHash:      utxo.Hash(),
		Datum:       datum,
		ExplorerURL: fmt.Sprintf("%s/tx/%s", s.explorerBaseURL, utxo.Hash()),
	}, nil
}

// ResolveAccessRole classifies the given address against the token's
// current datum: owner, delegated authority, or unknown.
func (s *QueryService) ResolveAccessRole(
	name, userAddr string,
) (domain.AccessRole, error) {
	record, err := s.Status(name)
	if err != nil {
		return domain.RoleUnknown, err
	}

	keyHash, err := address.PaymentKeyHash(userAddr)
	if err != nil {
		return domain.RoleUnknown, err
	}

	return record.Datum.ResolveAccessRole(keyHash), nil
}

// History walks the token's transaction history and returns every decodable
// past state, newest first. Transactions without a readable datum are
// skipped rather than failing the whole view.
func (s *QueryService) History(name string) ([]StateRecord, error) {
	id := s.contract.TokenID(name)
	txs, err := s.explorerSvc.GetAssetTransactions(id.Unit())
	if err != nil {
		return nil, err
	}

	records := make([]StateRecord, 0, len(txs))
	for _, tx := range txs {
		outs, err := s.explorerSvc.GetTransactionUnspents(tx.TxHash)
		if err != nil {
			log.WithError(err).WithField("tx", tx.TxHash).
				Warn("skipping unreadable history entry")
			continue
		}

		record, ok := s.decodeHistoryEntry(tx, outs)
		if !ok {
			continue
		}
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Time.After(records[j].Time)
	})
	return records, nil
}

func (s *QueryService) decodeHistoryEntry(
	tx explorer.AssetTx, outs []explorer.Utxo,
) (StateRecord, bool) {
	for _, out := range outs {
		if len(out.InlineDatum()) == 0 {
			continue
		}
		datum, err := domain.DecodeStateDatum(out.InlineDatum())
		if err != nil {
			continue
		}
		return StateRecord{
			Time:        time.Unix(tx.BlockTime, 0),
			TxHash:      tx.TxHash,
			Datum:       datum,
			ExplorerURL: fmt.Sprintf("%s/tx/%s", s.explorerBaseURL, tx.TxHash),
		}, true
	}
	return StateRecord{}, false
}
