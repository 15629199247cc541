package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iotsync-network/iotsync-daemon/internal/core/domain"
	"github.com/iotsync-network/iotsync-daemon/pkg/crawler"
	"github.com/iotsync-network/iotsync-daemon/pkg/explorer"
)

type broadcastMock struct {
	mutex      sync.Mutex
	confirmed  map[string]bool
	rejectWith error
}

func newBroadcastMock() *broadcastMock {
	return &broadcastMock{confirmed: map[string]bool{}}
}

func (b *broadcastMock) confirm(txHash string) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.confirmed[txHash] = true
}

func (b *broadcastMock) GetAddressUnspents(string) ([]explorer.Utxo, error) {
	return nil, nil
}

func (b *broadcastMock) GetAddressUnspentsForAsset(string, string) ([]explorer.Utxo, error) {
	return nil, nil
}

func (b *broadcastMock) GetTransactionStatus(txHash string) (*explorer.TxStatus, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if b.confirmed[txHash] {
		return &explorer.TxStatus{
			Confirmed: true,
			BlockHash: "block0",
			BlockTime: 1724800000,
		}, nil
	}
	return &explorer.TxStatus{}, nil
}

func (b *broadcastMock) GetTransactionUnspents(string) ([]explorer.Utxo, error) {
	return nil, nil
}

func (b *broadcastMock) GetAssetTransactions(string) ([]explorer.AssetTx, error) {
	return nil, nil
}

func (b *broadcastMock) BroadcastTransaction(txHex string) (string, error) {
	if b.rejectWith != nil {
		return "", b.rejectWith
	}
	return "deadbeef", nil
}

func newTestSubmitService(
	explorerSvc explorer.Service, timeout time.Duration,
) *SubmitService {
	watcher := crawler.NewService(crawler.Opts{
		ExplorerSvc:            explorerSvc,
		IntervalInMilliseconds: 20,
		RequestsPerSecond:      1000,
		ErrorHandler:           func(error) {},
	})
	return NewSubmitService(
		explorerSvc, watcher, "https://preprod.cardanoscan.io", timeout,
	)
}

func TestSubmitAndWait(t *testing.T) {
	explorerSvc := newBroadcastMock()
	svc := newTestSubmitService(explorerSvc, 5*time.Second)
	go svc.Start()
	defer svc.Stop()

	go func() {
		time.Sleep(100 * time.Millisecond)
		explorerSvc.confirm("deadbeef")
	}()

	event, err := svc.SubmitAndWait(context.Background(), "84a100a1")
	require.NoError(t, err)
	require.Equal(t, "deadbeef", event.TxHash)
	require.Equal(t, "block0", event.BlockHash)
	require.Equal(t, "https://preprod.cardanoscan.io/tx/deadbeef", event.ExplorerURL)
}

func TestSubmitRejection(t *testing.T) {
	explorerSvc := newBroadcastMock()
	explorerSvc.rejectWith = errors.New("BadInputsUTxO")
	svc := newTestSubmitService(explorerSvc, time.Second)

	_, err := svc.Submit("84a100a1")
	require.ErrorIs(t, err, domain.ErrTxSubmission)
	require.Contains(t, err.Error(), "BadInputsUTxO")
}

func TestWaitForConfirmationTimeout(t *testing.T) {
	explorerSvc := newBroadcastMock()
	svc := newTestSubmitService(explorerSvc, 150*time.Millisecond)
	go svc.Start()
	defer svc.Stop()

	_, err := svc.WaitForConfirmation(context.Background(), "deadbeef")
	require.ErrorIs(t, err, domain.ErrConfirmationTimeout)
}

func TestWaitForConfirmationContextCancel(t *testing.T) {
	explorerSvc := newBroadcastMock()
	svc := newTestSubmitService(explorerSvc, time.Minute)
	go svc.Start()
	defer svc.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := svc.WaitForConfirmation(ctx, "deadbeef")
	require.ErrorIs(t, err, context.Canceled)
}
