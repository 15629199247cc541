package aggregator

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func at(ms int64) time.Time {
	return time.UnixMilli(ms)
}

func TestReduceWindow(t *testing.T) {
	samples := []Sample{
		{Device: "dev1", Time: at(100), Value: decimal.NewFromInt(20)},
		{Device: "dev2", Time: at(103), Value: decimal.NewFromInt(24)},
		{Device: "dev3", Time: at(5000), Value: decimal.NewFromInt(99)},
	}

	reduced, ok := Reduce(samples, 3000*time.Millisecond)
	require.True(t, ok)
	// dev1/dev2 fall outside [2000, 5000] and are excluded even though they
	// are the newest their devices produced
	require.Equal(t, "dev3", reduced.Device)
	require.Equal(t, at(5000), reduced.Time)
	require.True(t, decimal.NewFromInt(99).Equal(reduced.Value))
}

func TestReduceAveragesWithinWindow(t *testing.T) {
	samples := []Sample{
		{Device: "dev1", Time: at(4200), Value: decimal.NewFromInt(21)},
		{Device: "dev2", Time: at(4800), Value: decimal.NewFromInt(24)},
		{Device: "dev3", Time: at(5000), Value: decimal.NewFromInt(27)},
	}

	reduced, ok := Reduce(samples, 3000*time.Millisecond)
	require.True(t, ok)
	require.Equal(t, "dev3", reduced.Device)
	require.True(t, decimal.NewFromInt(24).Equal(reduced.Value))
}

func TestReduceEmptyBatch(t *testing.T) {
	_, ok := Reduce(nil, time.Second)
	require.False(t, ok)
}

func TestServiceKeepsNewestSamplePerDevice(t *testing.T) {
	flushed := make([]Sample, 0, 1)
	svc := NewService(Opts{
		FlushInterval:     time.Hour,
		AllowedTimeOffset: 3000 * time.Millisecond,
		SampleTTL:         time.Hour,
		OnFlush: func(s Sample) error {
			flushed = append(flushed, s)
			return nil
		},
	})
	defer svc.Stop()

	svc.Push(Sample{Device: "dev1", Time: at(1000), Value: decimal.NewFromInt(10)})
	svc.Push(Sample{Device: "dev1", Time: at(2000), Value: decimal.NewFromInt(30)})
	// stale sample arriving late must not win
	svc.Push(Sample{Device: "dev1", Time: at(1500), Value: decimal.NewFromInt(50)})

	require.True(t, svc.Flush())
	require.Len(t, flushed, 1)
	require.True(t, decimal.NewFromInt(30).Equal(flushed[0].Value))

	// batch is cleared after a flush
	require.False(t, svc.Flush())
}

func TestServiceFlushCallbackFailure(t *testing.T) {
	svc := NewService(Opts{
		FlushInterval:     time.Hour,
		AllowedTimeOffset: time.Second,
		SampleTTL:         time.Hour,
		OnFlush: func(Sample) error {
			return errFlush
		},
	})
	defer svc.Stop()

	svc.Push(Sample{Device: "dev1", Time: at(1000), Value: decimal.NewFromInt(10)})
	require.False(t, svc.Flush())
}

var errFlush = errTest("flush failed")

type errTest string

func (e errTest) Error() string { return string(e) }
