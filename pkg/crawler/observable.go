package crawler

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/iotsync-network/iotsync-daemon/pkg/explorer"
)

const (
	New       Status = "NEW"
	Waiting   Status = "WAITING"
	Processed Status = "PROCESSED"
)

type Status string

type observableStatus struct {
	sync.RWMutex
	status Status
}

func newObservableStatus() *observableStatus {
	return &observableStatus{status: New}
}

func (o *observableStatus) Get() Status {
	o.RLock()
	defer o.RUnlock()
	return o.status
}

func (o *observableStatus) Set(status Status) {
	o.Lock()
	defer o.Unlock()
	o.status = status
}

// TransactionObservable watches a submitted tx until it is included in a
// block.
type TransactionObservable struct {
	TxID string
}

func (t *TransactionObservable) observe(
	explorerSvc explorer.Service,
	errChan chan error,
	eventChan chan Event,
	observableStatus *observableStatus,
	rateLimiter *rate.Limiter,
) {
	if t == nil {
		return
	}

	observableStatus.Set(Waiting)
	if err := rateLimiter.Wait(context.Background()); err != nil {
		errChan <- err
		return
	}

	txStatus, err := explorerSvc.GetTransactionStatus(t.TxID)
	if err != nil {
		errChan <- err
		return
	}

	observableStatus.Set(Processed)

	eventType := TransactionUnconfirmed
	if txStatus.Confirmed {
		eventType = TransactionConfirmed
	}

	eventChan <- TransactionEvent{
		TxID:      t.TxID,
		EventType: eventType,
		BlockHash: txStatus.BlockHash,
		BlockTime: txStatus.BlockTime,
	}
}

func (t *TransactionObservable) key() string {
	return t.TxID
}

// TokenObservable watches the current state cell of a token at the contract
// address and reports when it moves to a new utxo.
type TokenObservable struct {
	Address string
	Unit    string

	lastTxHash string
}

func (t *TokenObservable) observe(
	explorerSvc explorer.Service,
	errChan chan error,
	eventChan chan Event,
	observableStatus *observableStatus,
	rateLimiter *rate.Limiter,
) {
	if t == nil {
		return
	}

	observableStatus.Set(Waiting)
	if err := rateLimiter.Wait(context.Background()); err != nil {
		errChan <- err
		return
	}

	utxo, err := explorer.FindTokenUtxo(explorerSvc, t.Address, t.Unit)
	if err != nil {
		errChan <- err
		return
	}

	observableStatus.Set(Processed)

	if utxo == nil || utxo.Hash() == t.lastTxHash {
		return
	}
	t.lastTxHash = utxo.Hash()

	eventChan <- TokenEvent{
		EventType: TokenStateChanged,
		Address:   t.Address,
		Unit:      t.Unit,
		TxHash:    utxo.Hash(),
		DatumHex:  utxo.InlineDatum(),
	}
}

func (t *TokenObservable) key() string {
	return t.Address + t.Unit
}

type observableHandler struct {
	observable       Observable
	explorerSvc      explorer.Service
	wg               *sync.WaitGroup
	ticker           *time.Ticker
	eventChan        chan Event
	errChan          chan error
	stopChan         chan int
	observableStatus *observableStatus
	rateLimiter      *rate.Limiter
}

func newObservableHandler(
	observable Observable,
	explorerSvc explorer.Service,
	wg *sync.WaitGroup,
	interval int,
	eventChan chan Event,
	errChan chan error,
	rateLimiter *rate.Limiter,
) *observableHandler {
	ticker := time.NewTicker(time.Duration(interval) * time.Millisecond)
	stopChan := make(chan int, 1)

	return &observableHandler{
		observable,
		explorerSvc,
		wg,
		ticker,
		eventChan,
		errChan,
		stopChan,
		newObservableStatus(),
		rateLimiter,
	}
}

func (oh *observableHandler) start() {
	oh.logAction("start")
	oh.wg.Add(1)
	for {
		select {
		case <-oh.ticker.C:
			if oh.observableStatus.Get() != Waiting {
				oh.observable.observe(
					oh.explorerSvc,
					oh.errChan,
					oh.eventChan,
					oh.observableStatus,
					oh.rateLimiter,
				)
			}
		case <-oh.stopChan:
			oh.ticker.Stop()
			close(oh.stopChan)
			return
		}
	}
}

func (oh *observableHandler) stop() {
	oh.logAction("stop")
	oh.stopChan <- 1
	oh.wg.Done()
}

func (oh *observableHandler) logAction(action string) {
	obs := oh.observable
	switch obs.(type) {
	case *TransactionObservable:
		log.Debugf("%s observing tx: %v", action, obs.key())
	case *TokenObservable:
		log.Debugf("%s observing token: %v", action, obs.key())
	}
}
