package game

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func startClock(t *testing.T, c *Clock) (cancel func(), done chan struct{}) {
	t.Helper()
	ctx, cancelCtx := context.WithCancel(context.Background())
	done = make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()
	return cancelCtx, done
}

func TestClockDrivesBattleTicks(t *testing.T) {
	fc := clockwork.NewFakeClock()
	e := NewEngine(Config{RoundSeconds: 3}, nil, WithClock(fc))
	rec := &recorder{}
	e.SetBroadcaster(rec)

	c := NewClock(e, time.Second, time.Hour)
	cancel, done := startClock(t, c)
	defer cancel()

	fc.BlockUntil(2) // both tickers are armed

	fc.Advance(time.Second)
	waitFor(t, func() bool { return rec.count(EventCountdown) == 1 })
	fc.Advance(time.Second)
	waitFor(t, func() bool { return rec.count(EventCountdown) == 2 })

	// third tick hits zero and resolves the round
	fc.Advance(time.Second)
	waitFor(t, func() bool { return rec.count(EventBattleResult) == 1 })
	waitFor(t, func() bool { return e.Countdown() == 3 })

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("clock did not stop")
	}
}

func TestClockDrivesQuizDispatch(t *testing.T) {
	fc := clockwork.NewFakeClock()
	e := NewEngine(Config{RoundSeconds: 30}, testBank(), WithClock(fc))
	rec := &recorder{}
	e.SetBroadcaster(rec)

	c := NewClock(e, time.Hour, 45*time.Second)
	cancel, done := startClock(t, c)
	defer cancel()

	fc.BlockUntil(2)

	fc.Advance(45 * time.Second)
	waitFor(t, func() bool { return rec.count(EventNewQuizQuestion) == 1 })
	if rec.count(EventCountdown) != 0 {
		t.Fatal("battle ticker must not fire on the quiz schedule")
	}

	fc.Advance(45 * time.Second)
	waitFor(t, func() bool { return rec.count(EventNewQuizQuestion) == 2 })

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("clock did not stop")
	}
}

func TestClockStopsOnCancel(t *testing.T) {
	fc := clockwork.NewFakeClock()
	e := NewEngine(Config{RoundSeconds: 30}, nil, WithClock(fc))
	rec := &recorder{}
	e.SetBroadcaster(rec)

	c := NewClock(e, time.Second, time.Hour)
	cancel, done := startClock(t, c)

	fc.BlockUntil(2)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("clock did not stop")
	}

	fc.Advance(10 * time.Second)
	time.Sleep(20 * time.Millisecond)
	if got := rec.count(EventCountdown); got != 0 {
		t.Fatalf("no ticks may be delivered after shutdown, got %d", got)
	}
}

func TestClockDefaults(t *testing.T) {
	e := NewEngine(Config{}, nil)
	c := NewClock(e, 0, 0)
	if c.tickEvery != time.Second {
		t.Fatalf("expected 1s default tick, got %s", c.tickEvery)
	}
	if c.quizEvery != 45*time.Second {
		t.Fatalf("expected 45s default quiz interval, got %s", c.quizEvery)
	}
}
