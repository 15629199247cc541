package devicefeed

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/iotsync-network/iotsync-daemon/pkg/aggregator"
)

// Service streams device readings from a gateway websocket. Use Start and
// Stop methods to manage it; samples are delivered on SampleChan.
type Service interface {
	Start() error
	Stop()
	SampleChan() chan aggregator.Sample
}

// wireSample is the gateway's JSON frame. Time travels as unix seconds and
// the value as a string to keep decimal precision.
type wireSample struct {
	Device string `json:"device"`
	Time   int64  `json:"time"`
	Value  string `json:"value"`
}

type service struct {
	gatewayURL string
	conn       *websocket.Conn
	sampleChan chan aggregator.Sample
	quitChan   chan struct{}
}

// NewService connects to the gateway websocket at the given url.
func NewService(gatewayURL string) (Service, error) {
	conn, err := connect(gatewayURL)
	if err != nil {
		return nil, err
	}

	return &service{
		gatewayURL: gatewayURL,
		conn:       conn,
		sampleChan: make(chan aggregator.Sample),
		quitChan:   make(chan struct{}, 1),
	}, nil
}

// Start reads frames until Stop is called, re-establishing the connection
// when it drops unexpectedly.
func (s *service) Start() error {
	mustReconnect, err := s.start()
	for mustReconnect {
		log.WithError(err).Warn("gateway connection dropped unexpectedly. Trying to reconnect...")

		conn, err := connect(s.gatewayURL)
		if err != nil {
			return err
		}
		s.conn = conn

		log.Debug("gateway connection re-established. Restarting...")
		mustReconnect, err = s.start()
	}
	return err
}

func (s *service) Stop() {
	s.quitChan <- struct{}{}
}

func (s *service) SampleChan() chan aggregator.Sample {
	return s.sampleChan
}

func (s *service) start() (mustReconnect bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			mustReconnect = true
		}
	}()

	for {
		select {
		case <-s.quitChan:
			close(s.sampleChan)
			close(s.quitChan)
			err = s.conn.Close()
			return false, err
		default:
			// a dropped connection can surface as an UnexpectedCloseError or,
			// rarely, as a panic inside the read loop; both are turned into a
			// reconnect through the deferred recover
			_, message, err := s.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(
					err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
				) {
					panic(err)
				}
			}

			sample := parseSample(message)
			if sample == nil {
				continue
			}
			s.sampleChan <- *sample
		}
	}
}

func parseSample(msg []byte) *aggregator.Sample {
	var w wireSample
	if err := json.Unmarshal(msg, &w); err != nil {
		return nil
	}
	if w.Device == "" {
		return nil
	}
	value, err := decimal.NewFromString(w.Value)
	if err != nil {
		return nil
	}

	return &aggregator.Sample{
		Device: w.Device,
		Time:   time.Unix(w.Time, 0),
		Value:  value,
	}
}

func connect(url string) (*websocket.Conn, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
