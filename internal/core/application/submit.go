package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/iotsync-network/iotsync-daemon/internal/core/domain"
	"github.com/iotsync-network/iotsync-daemon/pkg/crawler"
	"github.com/iotsync-network/iotsync-daemon/pkg/explorer"
)

// ConfirmationEvent is delivered once a submitted transaction is included
// in a block.
type ConfirmationEvent struct {
	TxHash      string
	BlockHash   string
	BlockTime   int64
	ExplorerURL string
}

// SubmitService broadcasts signed transactions and tracks them until
// confirmation through the chain watcher.
type SubmitService struct {
	explorerSvc     explorer.Service
	watcher         crawler.Service
	explorerBaseURL string
	confirmTimeout  time.Duration

	mutex   sync.Mutex
	waiters map[string]chan ConfirmationEvent
	onToken func(crawler.TokenEvent)
}

// NewSubmitService wires a submitter to the given watcher. Start must be
// called before awaiting confirmations.
func NewSubmitService(
	explorerSvc explorer.Service,
	watcher crawler.Service,
	explorerBaseURL string,
	confirmTimeout time.Duration,
) *SubmitService {
	return &SubmitService{
		explorerSvc:     explorerSvc,
		watcher:         watcher,
		explorerBaseURL: explorerBaseURL,
		confirmTimeout:  confirmTimeout,
		waiters:         map[string]chan ConfirmationEvent{},
	}
}

// OnTokenEvent registers a handler for token movement events picked up by
// the watcher. Must be called before Start.
func (s *SubmitService) OnTokenEvent(handler func(crawler.TokenEvent)) {
	s.onToken = handler
}

// Start runs the watcher and the event dispatch loop. It returns when the
// watcher is stopped.
func (s *SubmitService) Start() {
	go s.watcher.Start()
	for event := range s.watcher.GetEventChannel() {
		switch e := event.(type) {
		case crawler.TokenEvent:
			if s.onToken != nil {
				s.onToken(e)
			}
		case crawler.TransactionEvent:
			if e.EventType != crawler.TransactionConfirmed {
				continue
			}
			s.notify(ConfirmationEvent{
				TxHash:      e.TxID,
				BlockHash:   e.BlockHash,
				BlockTime:   e.BlockTime,
				ExplorerURL: s.TxRef(e.TxID),
			})
		case crawler.QuitEvent:
			return
		}
	}
}

// Stop shuts the underlying watcher down.
func (s *SubmitService) Stop() {
	s.watcher.Stop()
}

func (s *SubmitService) notify(event ConfirmationEvent) {
	s.watcher.RemoveObservable(&crawler.TransactionObservable{TxID: event.TxHash})

	s.mutex.Lock()
	waiter, ok := s.waiters[event.TxHash]
	if ok {
		delete(s.waiters, event.TxHash)
	}
	s.mutex.Unlock()

	if ok {
		waiter <- event
	}
}

// TxRef formats the human-readable explorer reference of a transaction.
func (s *SubmitService) TxRef(txHash string) string {
	return fmt.Sprintf("%s/tx/%s", s.explorerBaseURL, txHash)
}

// Submit broadcasts a signed transaction and returns its hash. Network
// rejections, including lost double-spend races, surface as
// ErrTxSubmission.
func (s *SubmitService) Submit(signedTx string) (string, error) {
	txHash, err := s.explorerSvc.BroadcastTransaction(signedTx)
	if err != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrTxSubmission, err)
	}
	return txHash, nil
}

// WaitForConfirmation blocks until the transaction is confirmed, the
// context is cancelled, or the confirmation timeout elapses.
func (s *SubmitService) WaitForConfirmation(
	ctx context.Context, txHash string,
) (*ConfirmationEvent, error) {
	waiter := make(chan ConfirmationEvent, 1)
	s.mutex.Lock()
	s.waiters[txHash] = waiter
	s.mutex.Unlock()

	observable := &crawler.TransactionObservable{TxID: txHash}
	s.watcher.AddObservable(observable)

	defer func() {
		s.mutex.Lock()
		delete(s.waiters, txHash)
		s.mutex.Unlock()
	}()

	select {
	case event := <-waiter:
		return &event, nil
	case <-ctx.Done():
		s.watcher.RemoveObservable(observable)
		return nil, ctx.Err()
	case <-time.After(s.confirmTimeout):
		s.watcher.RemoveObservable(observable)
		return nil, domain.ErrConfirmationTimeout
	}
}

// SubmitAndWait broadcasts a signed transaction and blocks until it is
// confirmed, returning the confirmation reference.
func (s *SubmitService) SubmitAndWait(
	ctx context.Context, signedTx string,
) (*ConfirmationEvent, error) {
	submissionID := uuid.NewString()

	txHash, err := s.Submit(signedTx)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"submission": submissionID,
		"tx":         txHash,
	}).Info("transaction broadcast, awaiting confirmation")

	event, err := s.WaitForConfirmation(ctx, txHash)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"submission": submissionID,
		"tx":         txHash,
		"ref":        event.ExplorerURL,
	}).Info("transaction confirmed")
	return event, nil
}
