package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRegisterCancelIsActive(t *testing.T) {
	s := NewTickScheduler(time.Millisecond)

	h1 := s.Register(func(time.Time) error { return nil })
	h2 := s.Register(func(time.Time) error { return nil })
	assert.True(t, s.IsActive(h1))
	assert.True(t, s.IsActive(h2))
	assert.NotEqual(t, h1, h2)

	s.Cancel(h1)
	assert.False(t, s.IsActive(h1))
	assert.True(t, s.IsActive(h2))

	// Cancelling twice is a no-op.
	s.Cancel(h1)
	assert.False(t, s.IsActive(h1))
}

func TestDispatchRunsInRegistrationOrder(t *testing.T) {
	s := NewTickScheduler(time.Millisecond)

	var got []int
	s.Register(func(time.Time) error { got = append(got, 1); return nil })
	s.Register(func(time.Time) error { got = append(got, 2); return nil })
	s.Register(func(time.Time) error { got = append(got, 3); return nil })

	s.dispatch(time.Now())
	s.dispatch(time.Now())

	assert.Equal(t, []int{1, 2, 3, 1, 2, 3}, got)
}

func TestErrorCancelsOnlyFailingCallback(t *testing.T) {
	s := NewTickScheduler(time.Millisecond)

	calls := 0
	hBad := s.Register(func(time.Time) error { return errors.New("boom") })
	hGood := s.Register(func(time.Time) error { calls++; return nil })

	s.dispatch(time.Now())
	assert.False(t, s.IsActive(hBad))
	assert.True(t, s.IsActive(hGood))
	assert.Equal(t, 1, calls)

	s.dispatch(time.Now())
	assert.Equal(t, 2, calls)
}

func TestCancelFromInsideCallback(t *testing.T) {
	s := NewTickScheduler(time.Millisecond)

	laterCalls := 0
	var hLater Handle
	s.Register(func(time.Time) error {
		s.Cancel(hLater)
		return nil
	})
	hLater = s.Register(func(time.Time) error { laterCalls++; return nil })

	// The first callback cancels the second within the same tick, so the
	// second must not run at all.
	s.dispatch(time.Now())
	assert.Equal(t, 0, laterCalls)
	assert.False(t, s.IsActive(hLater))
}

func TestStartStop(t *testing.T) {
	s := NewTickScheduler(5 * time.Millisecond)

	fired := make(chan struct{}, 1)
	s.Register(func(time.Time) error {
		select {
		case fired <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start()
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("scheduler never ticked")
	}
	s.Stop()
}

func TestStartAfterStopTicksAgain(t *testing.T) {
	s := NewTickScheduler(5 * time.Millisecond)

	fired := make(chan struct{}, 1)
	s.Register(func(time.Time) error {
		select {
		case fired <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start()
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("scheduler never ticked")
	}
	s.Stop()

	// Drain any tick that slipped in before Stop, then restart.
	select {
	case <-fired:
	default:
	}

	s.Start()
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("restarted scheduler never ticked")
	}
	s.Stop()
}
