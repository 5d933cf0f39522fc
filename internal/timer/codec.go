package timer

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/pkg/errors"
)

// Timer state record layout, little-endian:
//
//	u8  version
//	u8  running
//	f64 elapsed          (seconds)
//	f64 start reference  (seconds)
//	f64 pause reference  (seconds)
//	f64 last lap elapsed (seconds)
const (
	stateVersion    = 1
	StateRecordSize = 2 + 4*8
)

var (
	ErrShortRecord        = errors.New("timer: short state record")
	ErrUnsupportedVersion = errors.New("timer: unsupported state record version")
)

// MarshalState encodes s into a fixed-size record.
func MarshalState(s State) []byte {
	buf := make([]byte, StateRecordSize)
	buf[0] = stateVersion
	if s.Running {
		buf[1] = 1
	}
	putSeconds(buf[2:], s.Elapsed)
	putSeconds(buf[10:], s.StartRef)
	putSeconds(buf[18:], s.PauseRef)
	putSeconds(buf[26:], s.LastLapElapsed)
	return buf
}

// UnmarshalState decodes a record written by MarshalState. Trailing bytes
// after the known fields are ignored.
func UnmarshalState(data []byte) (State, error) {
	if len(data) < 1 {
		return State{}, ErrShortRecord
	}
	if data[0] != stateVersion {
		return State{}, errors.Wrapf(ErrUnsupportedVersion, "version %d", data[0])
	}
	if len(data) < StateRecordSize {
		return State{}, errors.Wrapf(ErrShortRecord, "got %d bytes, want %d", len(data), StateRecordSize)
	}

	return State{
		Running:        data[1] != 0,
		Elapsed:        getSeconds(data[2:]),
		StartRef:       getSeconds(data[10:]),
		PauseRef:       getSeconds(data[18:]),
		LastLapElapsed: getSeconds(data[26:]),
	}, nil
}

// Serialize encodes the engine state with an up to date elapsed value.
func (e *Engine) Serialize() []byte {
	return MarshalState(e.Snapshot())
}

// Deserialize decodes data and restores it into the engine.
func (e *Engine) Deserialize(data []byte) error {
	s, err := UnmarshalState(data)
	if err != nil {
		return err
	}
	e.Restore(s)
	return nil
}

func putSeconds(b []byte, d time.Duration) {
	binary.LittleEndian.PutUint64(b, math.Float64bits(d.Seconds()))
}

func getSeconds(b []byte) time.Duration {
	f := math.Float64frombits(binary.LittleEndian.Uint64(b))
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return time.Duration(math.Round(f * float64(time.Second)))
}
