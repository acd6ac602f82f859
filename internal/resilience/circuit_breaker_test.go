// SPDX-License-Identifier: MIT

package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time       { return f.now }
func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func TestCircuitBreaker_TripsAfterThresholdFailures(t *testing.T) {
	clk := &fakeClock{now: time.Now()}
	cb := New("test", 2, 2, time.Minute, 100*time.Millisecond, WithClock(clk), WithHalfOpenSuccessThreshold(1))

	assert.Equal(t, StateClosed, cb.GetState())

	err := cb.Execute(func() error { return errors.New("fail") })
	assert.Error(t, err)
	assert.Equal(t, StateClosed, cb.GetState())

	err = cb.Execute(func() error { return errors.New("fail") })
	assert.Error(t, err)
	assert.Equal(t, StateOpen, cb.GetState())

	err = cb.Execute(func() error { return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestCircuitBreaker_HalfOpenSuccessCloses(t *testing.T) {
	clk := &fakeClock{now: time.Now()}
	cb := New("test", 1, 1, time.Minute, 100*time.Millisecond, WithClock(clk), WithHalfOpenSuccessThreshold(1))

	_ = cb.Execute(func() error { return errors.New("fail") })
	assert.Equal(t, StateOpen, cb.GetState())

	clk.Advance(150 * time.Millisecond)

	err := cb.Execute(func() error { return nil })
	assert.NoError(t, err)
	assert.Equal(t, StateClosed, cb.GetState())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	clk := &fakeClock{now: time.Now()}
	cb := New("test", 1, 1, time.Minute, 100*time.Millisecond, WithClock(clk))

	_ = cb.Execute(func() error { return errors.New("fail") })
	assert.Equal(t, StateOpen, cb.GetState())

	clk.Advance(150 * time.Millisecond)

	err := cb.Execute(func() error { return errors.New("still failing") })
	assert.Error(t, err)
	assert.Equal(t, StateOpen, cb.GetState())
}

func TestCircuitBreaker_BenignErrorsDoNotTrip(t *testing.T) {
	clk := &fakeClock{now: time.Now()}
	cb := New("test", 2, 2, time.Minute, 100*time.Millisecond, WithClock(clk))
	benign := func(error) bool { return false }

	for i := 0; i < 5; i++ {
		err := cb.ExecuteClassified(func() error { return errors.New("bad request") }, benign)
		assert.Error(t, err)
	}

	assert.Equal(t, StateClosed, cb.GetState())
}

func TestCircuitBreaker_EventsOutsideWindowDoNotCount(t *testing.T) {
	clk := &fakeClock{now: time.Now()}
	cb := New("test", 2, 2, 50*time.Millisecond, time.Minute, WithClock(clk))

	_ = cb.Execute(func() error { return errors.New("fail") })
	clk.Advance(100 * time.Millisecond) // slides the first failure out of the window
	_ = cb.Execute(func() error { return errors.New("fail") })

	assert.Equal(t, StateClosed, cb.GetState())
}
