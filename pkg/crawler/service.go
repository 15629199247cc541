package crawler

import (
	"sync"

	"golang.org/x/time/rate"

	"github.com/iotsync-network/iotsync-daemon/pkg/explorer"
)

const (
	eventQueueMaxSize = 100
	errorQueueMaxSize = 10
)

type chainWatcher struct {
	interval     int
	explorerSvc  explorer.Service
	errChan      chan error
	eventChan    chan Event
	observables  map[string]*observableHandler
	errorHandler func(err error)
	rateLimiter  *rate.Limiter
	mutex        *sync.RWMutex
	wg           *sync.WaitGroup
}

// Opts defines the parameters needed for creating a watcher service with
// the NewService method.
type Opts struct {
	ExplorerSvc            explorer.Service
	IntervalInMilliseconds int
	RequestsPerSecond      float64
	ErrorHandler           func(err error)
}

// NewService returns a chain watcher ready to poll for tx confirmations and
// token movements. Use Start and Stop methods to manage it.
func NewService(opts Opts) Service {
	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = 10
	}
	return &chainWatcher{
		interval:     opts.IntervalInMilliseconds,
		explorerSvc:  opts.ExplorerSvc,
		errChan:      make(chan error, errorQueueMaxSize),
		eventChan:    make(chan Event, eventQueueMaxSize),
		observables:  map[string]*observableHandler{},
		errorHandler: opts.ErrorHandler,
		rateLimiter:  rate.NewLimiter(rate.Limit(rps), 1),
		mutex:        &sync.RWMutex{},
		wg:           &sync.WaitGroup{},
	}
}

// Start runs the error-draining loop until Stop closes the error channel.
func (cw *chainWatcher) Start() {
	for err := range cw.errChan {
		go cw.errorHandler(err)
	}
}

// Stop stops every observable and shuts the watcher down.
func (cw *chainWatcher) Stop() {
	cw.mutex.Lock()
	defer cw.mutex.Unlock()
	for _, obsHandler := range cw.observables {
		go obsHandler.stop()
	}
	cw.wg.Wait()
	cw.eventChan <- QuitEvent{}
	close(cw.errChan)
}

// GetEventChannel returns the channel confirmation and token events are
// delivered on.
func (cw *chainWatcher) GetEventChannel() chan Event {
	cw.mutex.RLock()
	defer cw.mutex.RUnlock()
	return cw.eventChan
}

// AddObservable starts watching the given observable unless it is watched
// already.
func (cw *chainWatcher) AddObservable(observable Observable) {
	cw.mutex.Lock()
	defer cw.mutex.Unlock()

	if _, ok := cw.observables[observable.key()]; !ok {
		obsHandler := newObservableHandler(
			observable,
			cw.explorerSvc,
			cw.wg,
			cw.interval,
			cw.eventChan,
			cw.errChan,
			cw.rateLimiter,
		)

		cw.observables[observable.key()] = obsHandler
		go obsHandler.start()
	}
}

// RemoveObservable stops watching the given observable.
func (cw *chainWatcher) RemoveObservable(observable Observable) {
	cw.mutex.Lock()
	defer cw.mutex.Unlock()

	if obsHandler, ok := cw.observables[observable.key()]; ok {
		obsHandler.stop()
		delete(cw.observables, observable.key())
	}
}
