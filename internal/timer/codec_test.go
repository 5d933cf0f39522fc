package timer

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateRecordRoundTrip(t *testing.T) {
	s := State{
		Running:        true,
		StartRef:       123456789 * time.Microsecond,
		Elapsed:        99*time.Hour + 59*time.Minute + 59*time.Second + 987654321,
		PauseRef:       -3 * time.Second,
		LastLapElapsed: 65300 * time.Millisecond,
	}

	data := MarshalState(s)
	assert.Len(t, data, StateRecordSize)
	assert.Equal(t, byte(1), data[0])

	got, err := UnmarshalState(data)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestUnmarshalStateShortRecord(t *testing.T) {
	_, err := UnmarshalState(nil)
	assert.True(t, errors.Is(err, ErrShortRecord))

	data := MarshalState(State{Running: true})
	_, err = UnmarshalState(data[:10])
	assert.True(t, errors.Is(err, ErrShortRecord))
}

func TestUnmarshalStateUnknownVersion(t *testing.T) {
	data := MarshalState(State{})
	data[0] = 9

	_, err := UnmarshalState(data)
	assert.True(t, errors.Is(err, ErrUnsupportedVersion))
}

func TestUnmarshalStateIgnoresTrailingBytes(t *testing.T) {
	data := append(MarshalState(State{Elapsed: time.Second}), 0xff, 0xff)

	got, err := UnmarshalState(data)
	require.NoError(t, err)
	assert.Equal(t, time.Second, got.Elapsed)
}

func TestDeserializeLeavesEngineOnError(t *testing.T) {
	e, clock, _, _ := newTestEngine()
	e.Start()
	clock.Advance(time.Second)

	err := e.Deserialize([]byte{1, 0, 0})
	assert.Error(t, err)
	assert.True(t, e.Running())
	assert.Equal(t, time.Second, e.Elapsed())
}
