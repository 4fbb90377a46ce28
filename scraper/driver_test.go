package scraper

import (
	"context"
	"errors"
	"testing"
)

func TestDriverTeardownIdempotent(t *testing.T) {
	d := NewDriver(testConfig(), testLogger())

	// Simulate a launched session with recorded cancel funcs.
	canceled := 0
	d.ctx = context.Background()
	d.cancels = []context.CancelFunc{
		func() { canceled++ },
		func() { canceled++ },
	}

	d.Teardown()
	if canceled != 2 {
		t.Fatalf("expected both cancel funcs to run, ran %d", canceled)
	}
	if d.ctx != nil || d.cancels != nil {
		t.Fatal("session handles must be cleared after teardown")
	}

	d.Teardown()
	if canceled != 2 {
		t.Fatalf("repeated teardown must not re-run cancel funcs, ran %d", canceled)
	}
	if d.ctx != nil || d.cancels != nil {
		t.Fatal("session handles must stay cleared after repeated teardown")
	}
}

func TestDriverTeardownWithoutSession(t *testing.T) {
	d := NewDriver(testConfig(), testLogger())
	d.Teardown()
	d.Teardown()
	if d.ctx != nil || d.cancels != nil {
		t.Fatal("teardown of an unstarted driver must leave the handles nil")
	}
}

func TestDriverTeardownAfterFailedSetup(t *testing.T) {
	d := NewDriver(testConfig(), testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := d.Setup(ctx); err == nil {
		t.Fatal("expected setup to fail under a canceled context")
	}

	d.Teardown()
	if d.ctx != nil || d.cancels != nil {
		t.Fatal("session handles must be cleared after a failed setup")
	}
}

func TestDriverActionsAfterTeardown(t *testing.T) {
	d := NewDriver(testConfig(), testLogger())
	d.ctx = context.Background()
	d.cancels = []context.CancelFunc{func() {}}
	d.Teardown()

	if err := d.Navigate(context.Background(), profileURL); !errors.Is(err, errNoSession) {
		t.Fatalf("expected errNoSession after teardown, got %v", err)
	}
	if _, err := d.CurrentURL(context.Background()); !errors.Is(err, errNoSession) {
		t.Fatalf("expected errNoSession after teardown, got %v", err)
	}
}
