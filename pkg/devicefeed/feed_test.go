package devicefeed

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var upgrader = websocket.Upgrader{}

func gatewayStub(t *testing.T, frames []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			conn, err := upgrader.Upgrade(w, r, nil)
			require.NoError(t, err)
			for _, frame := range frames {
				err := conn.WriteMessage(websocket.TextMessage, []byte(frame))
				require.NoError(t, err)
			}
			// keep the connection open until the client goes away
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		},
	))
}

func TestFeedDeliversSamples(t *testing.T) {
	server := gatewayStub(t, []string{
		`{"device":"dev1","time":100,"value":"20.5"}`,
		`not json`,
		`{"device":"","time":101,"value":"1"}`,
		`{"device":"dev2","time":103,"value":"24"}`,
	})
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	svc, err := NewService(url)
	require.NoError(t, err)
	defer svc.Stop()
	go func() {
		if err := svc.Start(); err != nil {
			t.Log(err)
		}
	}()

	first := <-svc.SampleChan()
	require.Equal(t, "dev1", first.Device)
	require.Equal(t, time.Unix(100, 0), first.Time)
	require.True(t, first.Value.Equal(decimal.RequireFromString("20.5")))

	// malformed and anonymous frames are dropped, not delivered
	second := <-svc.SampleChan()
	require.Equal(t, "dev2", second.Device)
}

func TestParseSample(t *testing.T) {
	require.Nil(t, parseSample([]byte(`{`)))
	require.Nil(t, parseSample([]byte(`{"device":"dev1","time":1,"value":"abc"}`)))

	sample := parseSample([]byte(`{"device":"dev1","time":100,"value":"99"}`))
	require.NotNil(t, sample)
	require.True(t, sample.Value.Equal(decimal.NewFromInt(99)))
}
