package laps

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Lap history record layout, little-endian:
//
//	u8  version
//	i32 displayed count
//	i32 total count
//	u16 capacity
//	f64 lap duration, capacity times, newest first (seconds, empty slots zero)
const (
	historyVersion    = 1
	historyHeaderSize = 1 + 4 + 4 + 2
)

var (
	ErrShortRecord        = errors.New("laps: short history record")
	ErrUnsupportedVersion = errors.New("laps: unsupported history record version")
	ErrCorruptRecord      = errors.New("laps: corrupt history record")
)

// History is a decoded lap history record.
type History struct {
	Displayed int
	Total     int
	Laps      []time.Duration
}

// RecordSize is the encoded size of a history with the given capacity.
func RecordSize(capacity int) int {
	return historyHeaderSize + 8*capacity
}

// Serialize encodes the store, including empty slots, into a fixed-size
// record.
func (s *Store) Serialize() []byte {
	return MarshalHistory(History{Displayed: s.displayed, Total: s.total, Laps: s.laps})
}

// MarshalHistory encodes h. The record capacity is len(h.Laps), limited to
// MaxCapacity; laps beyond it are dropped.
func MarshalHistory(h History) []byte {
	capacity := len(h.Laps)
	if capacity > MaxCapacity {
		capacity = MaxCapacity
		h.Laps = h.Laps[:capacity]
	}
	if h.Displayed > capacity {
		h.Displayed = capacity
	}
	buf := make([]byte, RecordSize(capacity))
	buf[0] = historyVersion
	binary.LittleEndian.PutUint32(buf[1:], uint32(int32(h.Displayed)))
	binary.LittleEndian.PutUint32(buf[5:], uint32(int32(h.Total)))
	binary.LittleEndian.PutUint16(buf[9:], uint16(capacity))
	for i, d := range h.Laps {
		binary.LittleEndian.PutUint64(buf[historyHeaderSize+8*i:], math.Float64bits(d.Seconds()))
	}
	return buf
}

// UnmarshalHistory decodes a record written by MarshalHistory.
func UnmarshalHistory(data []byte) (History, error) {
	if len(data) < 1 {
		return History{}, ErrShortRecord
	}
	if data[0] != historyVersion {
		return History{}, errors.Wrapf(ErrUnsupportedVersion, "version %d", data[0])
	}
	if len(data) < historyHeaderSize {
		return History{}, errors.Wrapf(ErrShortRecord, "got %d bytes", len(data))
	}

	displayed := int(int32(binary.LittleEndian.Uint32(data[1:])))
	total := int(int32(binary.LittleEndian.Uint32(data[5:])))
	capacity := int(binary.LittleEndian.Uint16(data[9:]))
	if len(data) < RecordSize(capacity) {
		return History{}, errors.Wrapf(ErrShortRecord, "got %d bytes, want %d", len(data), RecordSize(capacity))
	}
	if displayed < 0 || displayed > capacity || total < displayed {
		return History{}, errors.Wrapf(ErrCorruptRecord, "displayed %d, total %d, capacity %d", displayed, total, capacity)
	}

	h := History{Displayed: displayed, Total: total, Laps: make([]time.Duration, capacity)}
	for i := range h.Laps {
		f := math.Float64frombits(binary.LittleEndian.Uint64(data[historyHeaderSize+8*i:]))
		if math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		h.Laps[i] = time.Duration(math.Round(f * float64(time.Second)))
	}
	return h, nil
}

// Restore decodes a history record and hands each previously displayed lap to
// fn, oldest first, so the caller can push it back through Push. The total is
// rewound beforehand so the re-pushed laps land on their saved sequence
// numbers. Animations are suppressed while fn runs. If the record holds more
// laps than fit, only the newest are restored. Slides still in flight are
// abandoned; their completions are ignored afterwards.
func (s *Store) Restore(data []byte, fn func(lap time.Duration)) error {
	h, err := UnmarshalHistory(data)
	if err != nil {
		return err
	}

	n := h.Displayed
	if n > len(s.laps) {
		n = len(s.laps)
	}
	for i := range s.laps {
		s.laps[i] = 0
	}
	s.displayed = 0
	s.total = h.Total - n
	s.busy = 0
	s.inFlight = make(map[Token]struct{})
	s.clearing = false

	s.restoring = true
	defer func() {
		s.restoring = false
	}()
	for i := n - 1; i >= 0; i-- {
		fn(h.Laps[i])
	}
	s.Refresh()
	s.logger.WithFields(log.Fields{"restored": n, "total": s.total}).Debug("laps: history restored")
	return nil
}
