package aggregator

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sample is one reading reported by a device.
type Sample struct {
	Device string
	Time   time.Time
	Value  decimal.Decimal
}

// Reduce computes the representative sample of a batch: among the retained
// samples, take the one with the maximum timestamp and average the values of
// all samples whose timestamps fall within allowedOffset of that maximum.
// Samples outside the window are excluded even if they are the newest their
// device produced. Returns false when the batch is empty.
func Reduce(samples []Sample, allowedOffset time.Duration) (Sample, bool) {
	if len(samples) == 0 {
		return Sample{}, false
	}

	newest := samples[0]
	for _, s := range samples[1:] {
		if s.Time.After(newest.Time) {
			newest = s
		}
	}

	sum := decimal.Zero
	count := int64(0)
	for _, s := range samples {
		if newest.Time.Sub(s.Time) <= allowedOffset {
			sum = sum.Add(s.Value)
			count++
		}
	}

	return Sample{
		Device: newest.Device,
		Time:   newest.Time,
		Value:  sum.Div(decimal.NewFromInt(count)),
	}, true
}
