package aggregator

import (
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	log "github.com/sirupsen/logrus"
)

// FlushFunc receives the reduced sample of a batch, typically to submit one
// aggregated update transition.
type FlushFunc func(Sample) error

// Service collects device samples in an ephemeral cache and periodically
// reduces them to a single representative value.
type Service interface {
	Start()
	Stop()
	Push(sample Sample)
	// Flush reduces and clears the current batch immediately. It reports
	// whether anything was flushed.
	Flush() bool
}

// Opts defines the parameters needed for creating an aggregator service
// with the NewService method.
type Opts struct {
	FlushInterval time.Duration
	// AllowedTimeOffset is the window behind the newest sample within which
	// samples take part in the average.
	AllowedTimeOffset time.Duration
	// SampleTTL drops samples of devices that went quiet for too long.
	SampleTTL time.Duration
	OnFlush   FlushFunc
}

type service struct {
	opts     Opts
	cache    *ttlcache.Cache[string, Sample]
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewService returns an aggregator holding the newest sample per device.
func NewService(opts Opts) Service {
	cache := ttlcache.New(
		ttlcache.WithTTL[string, Sample](opts.SampleTTL),
	)
	return &service{
		opts:     opts,
		cache:    cache,
		stopChan: make(chan struct{}),
	}
}

// Start runs the periodic flush loop until Stop is called.
func (s *service) Start() {
	go s.cache.Start()
	ticker := time.NewTicker(s.opts.FlushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.Flush()
		case <-s.stopChan:
			return
		}
	}
}

// Stop terminates the flush loop and the cache janitor.
func (s *service) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
		s.cache.Stop()
	})
}

// Push records a sample, keeping only the newest one per device.
func (s *service) Push(sample Sample) {
	current := s.cache.Get(sample.Device)
	if current != nil && current.Value().Time.After(sample.Time) {
		return
	}
	s.cache.Set(sample.Device, sample, ttlcache.DefaultTTL)
}

// Flush reduces the current batch and hands the result to the flush
// callback. An empty batch is skipped silently.
func (s *service) Flush() bool {
	items := s.cache.Items()
	if len(items) == 0 {
		return false
	}

	samples := make([]Sample, 0, len(items))
	for _, item := range items {
		samples = append(samples, item.Value())
	}
	s.cache.DeleteAll()

	reduced, ok := Reduce(samples, s.opts.AllowedTimeOffset)
	if !ok {
		return false
	}

	if err := s.opts.OnFlush(reduced); err != nil {
		log.WithError(err).Warn("aggregator: flush callback failed")
		return false
	}
	return true
}
