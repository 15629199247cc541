package blockfrost

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"gopkg.in/retry.v1"

	"github.com/iotsync-network/iotsync-daemon/pkg/explorer"
)

var (
	// MaxNumOfFailingRequests is the number of requests after which the
	// circuit breaker considers tripping.
	MaxNumOfFailingRequests = 10
	// FailingRatio is the failure ratio at which the breaker opens.
	FailingRatio = 0.6
)

const requestTimeout = 15 * time.Second

// retryStrategy bounds re-attempts of indexer reads: 3 tries with
// exponential backoff starting at 500ms.
var retryStrategy = retry.LimitCount(3, retry.Exponential{
	Initial: 500 * time.Millisecond,
	Factor:  2,
})

type blockfrost struct {
	apiURL    string
	projectID string
	client    *http.Client
	cb        *gobreaker.CircuitBreaker
}

// NewService returns a Blockfrost-backed explorer.Service. It performs a
// health check against the API before returning.
func NewService(apiURL, projectID string) (explorer.Service, error) {
	service := &blockfrost{
		apiURL:    strings.TrimSuffix(apiURL, "/"),
		projectID: projectID,
		client:    &http.Client{Timeout: requestTimeout},
		cb:        newCircuitBreaker(),
	}

	if err := service.healthCheck(); err != nil {
		return nil, fmt.Errorf("health check: %w", err)
	}

	return service, nil
}

// NewServiceWithClient is like NewService but uses the given http client and
// skips the health check. Meant for tests.
func NewServiceWithClient(
	apiURL, projectID string, client *http.Client,
) explorer.Service {
	return &blockfrost{
		apiURL:    strings.TrimSuffix(apiURL, "/"),
		projectID: projectID,
		client:    client,
		cb:        newCircuitBreaker(),
	}
}

func newCircuitBreaker() *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "blockfrost",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return int(counts.Requests) > MaxNumOfFailingRequests &&
				ratio >= FailingRatio
		},
	})
}

func (b *blockfrost) healthCheck() error {
	url := fmt.Sprintf("%s/health", b.apiURL)
	status, resp, err := b.httpRequest("GET", url, "", nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("%s", resp)
	}
	return nil
}

// getWithRetry issues a GET request, re-attempting transient failures with
// exponential backoff. 404 is returned to callers untouched since several
// endpoints use it for "nothing there yet".
func (b *blockfrost) getWithRetry(url string) (int, string, error) {
	var (
		status int
		resp   string
		err    error
	)
	for a := retry.Start(retryStrategy, nil); a.Next(); {
		status, resp, err = b.httpRequest("GET", url, "", nil)
		if err == nil && status < http.StatusInternalServerError {
			return status, resp, nil
		}
	}
	if err != nil {
		return 0, "", err
	}
	return status, resp, nil
}

func (b *blockfrost) httpRequest(
	method, url, contentType string, body io.Reader,
) (int, string, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		req, err := http.NewRequest(method, url, body)
		if err != nil {
			return nil, err
		}
		req.Header.Set("project_id", b.projectID)
		if len(contentType) > 0 {
			req.Header.Set("Content-Type", contentType)
		}

		res, err := b.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer res.Body.Close()

		buf, err := io.ReadAll(res.Body)
		if err != nil {
			return nil, err
		}
		return httpResponse{res.StatusCode, string(buf)}, nil
	})
	if err != nil {
		return 0, "", err
	}

	res := result.(httpResponse)
	return res.status, res.body, nil
}

type httpResponse struct {
	status int
	body   string
}
