package platform

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

const testLifecycleHookCount = 3

func TestLifecycle_StartAndStop(t *testing.T) {
	lc := NewLifecycle()

	var started, stopped bool
	lc.Append(Hook{
		Name: "component",
		Start: func(_ context.Context) error {
			started = true
			return nil
		},
		Stop: func(_ context.Context) error {
			stopped = true
			return nil
		},
	})

	if err := lc.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !started {
		t.Error("start callback not called")
	}
	if !lc.IsStarted() {
		t.Error("IsStarted() = false after Start()")
	}

	if err := lc.Stop(context.Background()); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if !stopped {
		t.Error("stop callback not called")
	}
	if lc.IsStarted() {
		t.Error("IsStarted() = true after Stop()")
	}
}

func TestLifecycle_StartAlreadyStarted(t *testing.T) {
	lc := NewLifecycle()
	_ = lc.Start(context.Background())

	if err := lc.Start(context.Background()); err == nil {
		t.Error("Start() expected error for already started")
	}
}

func TestLifecycle_StopNotStarted(t *testing.T) {
	lc := NewLifecycle()
	if err := lc.Stop(context.Background()); err != nil {
		t.Errorf("Stop() error = %v, expected nil for not started", err)
	}
}

func TestLifecycle_StopReverseOrder(t *testing.T) {
	lc := NewLifecycle()

	var order []string
	for _, name := range []string{"a", "b", "c"} {
		lc.Append(Hook{
			Name: name,
			Stop: func(_ context.Context) error {
				order = append(order, name)
				return nil
			},
		})
	}

	_ = lc.Start(context.Background())
	_ = lc.Stop(context.Background())

	if len(order) != testLifecycleHookCount {
		t.Fatalf("stopped %d hooks, want %d", len(order), testLifecycleHookCount)
	}
	if want := []string{"c", "b", "a"}; !reflect.DeepEqual(order, want) {
		t.Errorf("stop order = %v, want %v", order, want)
	}
}

func TestLifecycle_StartFailureRollsBack(t *testing.T) {
	lc := NewLifecycle()

	var stopped []string
	record := func(name string) func(context.Context) error {
		return func(_ context.Context) error {
			stopped = append(stopped, name)
			return nil
		}
	}
	noop := func(_ context.Context) error { return nil }
	boom := errors.New("boom")

	lc.Append(Hook{Name: "first", Start: noop, Stop: record("first")})
	lc.Append(Hook{Name: "stopless", Start: noop})
	lc.Append(Hook{Name: "second", Start: noop, Stop: record("second")})
	lc.Append(Hook{Name: "broken", Start: func(_ context.Context) error { return boom }, Stop: record("broken")})
	lc.Append(Hook{Name: "never", Start: noop, Stop: record("never")})

	err := lc.Start(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("Start() error = %v, want wrapped boom", err)
	}
	if want := []string{"second", "first"}; !reflect.DeepEqual(stopped, want) {
		t.Errorf("rolled back = %v, want %v", stopped, want)
	}
	if lc.IsStarted() {
		t.Error("IsStarted() = true after failed Start()")
	}

	stopped = nil
	if err := lc.Stop(context.Background()); err != nil {
		t.Errorf("Stop() after failed start error = %v", err)
	}
	if len(stopped) != 0 {
		t.Errorf("Stop() after failed start ran %v", stopped)
	}
}

func TestLifecycle_StopJoinsErrors(t *testing.T) {
	lc := NewLifecycle()

	errA := errors.New("a failed")
	errB := errors.New("b failed")
	lc.Append(Hook{Name: "a", Stop: func(_ context.Context) error { return errA }})
	lc.Append(Hook{Name: "b", Stop: func(_ context.Context) error { return errB }})

	_ = lc.Start(context.Background())
	err := lc.Stop(context.Background())
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("Stop() error = %v, want both hook errors", err)
	}
	if lc.IsStarted() {
		t.Error("IsStarted() = true after Stop() with errors")
	}
}

type mockCloser struct {
	closed bool
	err    error
}

func (m *mockCloser) Close() error {
	m.closed = true
	return m.err
}

func TestLifecycle_AppendCloser(t *testing.T) {
	lc := NewLifecycle()
	closer := &mockCloser{}
	lc.AppendCloser("closer", closer)

	if err := lc.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if closer.closed {
		t.Error("closer closed on Start()")
	}
	if err := lc.Stop(context.Background()); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if !closer.closed {
		t.Error("closer not closed on Stop()")
	}
}
