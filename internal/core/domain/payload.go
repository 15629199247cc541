package domain

import (
	"fmt"

	"github.com/iotsync-network/iotsync-daemon/pkg/plutus"
)

// SensorPayload is the datum payload of a sensor state cell. Readings are
// scaled integers: value * 1000, so 20.5C travels as 20500.
type SensorPayload struct {
	Temperature int64
	Humidity    int64
}

// Fields returns the payload in datum field order.
func (p SensorPayload) Fields() []plutus.Data {
	return []plutus.Data{
		plutus.Int{Value: p.Temperature},
		plutus.Int{Value: p.Humidity},
	}
}

// ParseSensorPayload reads a sensor payload back out of datum fields.
func ParseSensorPayload(fields []plutus.Data) (*SensorPayload, error) {
	if len(fields) != 2 {
		return nil, fmt.Errorf(
			"%w: sensor payload needs 2 fields, got %d",
			ErrDatumDecode, len(fields),
		)
	}
	temperature, ok := fields[0].(plutus.Int)
	if !ok {
		return nil, fmt.Errorf("%w: temperature is not an int", ErrDatumDecode)
	}
	humidity, ok := fields[1].(plutus.Int)
	if !ok {
		return nil, fmt.Errorf("%w: humidity is not an int", ErrDatumDecode)
	}
	return &SensorPayload{
		Temperature: temperature.Value,
		Humidity:    humidity.Value,
	}, nil
}

// ReadingPayload is the datum payload of an aggregated reading: the scaled
// average value of a sample window and the unix time of its newest sample.
type ReadingPayload struct {
	Value int64
	Time  int64
}

// Fields returns the payload in datum field order.
func (p ReadingPayload) Fields() []plutus.Data {
	return []plutus.Data{
		plutus.Int{Value: p.Value},
		plutus.Int{Value: p.Time},
	}
}

// ParseReadingPayload reads an aggregated reading back out of datum fields.
func ParseReadingPayload(fields []plutus.Data) (*ReadingPayload, error) {
	if len(fields) != 2 {
		return nil, fmt.Errorf(
			"%w: reading payload needs 2 fields, got %d",
			ErrDatumDecode, len(fields),
		)
	}
	value, ok := fields[0].(plutus.Int)
	if !ok {
		return nil, fmt.Errorf("%w: reading value is not an int", ErrDatumDecode)
	}
	at, ok := fields[1].(plutus.Int)
	if !ok {
		return nil, fmt.Errorf("%w: reading time is not an int", ErrDatumDecode)
	}
	return &ReadingPayload{Value: value.Value, Time: at.Value}, nil
}

// LockState is the tri-state of an electronic locker.
type LockState int64

const (
	LockStateUnlocked LockState = 0
	LockStateLocked   LockState = 1
	LockStateRevoked  LockState = 2
)

func (s LockState) String() string {
	switch s {
	case LockStateUnlocked:
		return "unlocked"
	case LockStateLocked:
		return "locked"
	case LockStateRevoked:
		return "revoked"
	default:
		return "unknown"
	}
}

// LockPayload is the datum payload of a locker state cell.
type LockPayload struct {
	State LockState
}

// Fields returns the payload in datum field order.
func (p LockPayload) Fields() []plutus.Data {
	return []plutus.Data{plutus.Int{Value: int64(p.State)}}
}

// ParseLockPayload reads a lock payload back out of datum fields.
func ParseLockPayload(fields []plutus.Data) (*LockPayload, error) {
	if len(fields) != 1 {
		return nil, fmt.Errorf(
			"%w: lock payload needs 1 field, got %d",
			ErrDatumDecode, len(fields),
		)
	}
	state, ok := fields[0].(plutus.Int)
	if !ok {
		return nil, fmt.Errorf("%w: lock state is not an int", ErrDatumDecode)
	}
	return &LockPayload{State: LockState(state.Value)}, nil
}
