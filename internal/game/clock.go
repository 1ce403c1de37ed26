package game

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Clock drives the engine's two schedules: the per-second battle tick and
// the quiz dispatch interval. Both fire on the goroutine running Run, so
// timer work is serialized with itself; the engine's mutex serializes it
// against client events.
type Clock struct {
	engine    *Engine
	clock     clockwork.Clock
	tickEvery time.Duration
	quizEvery time.Duration
}

func NewClock(e *Engine, tickEvery, quizEvery time.Duration) *Clock {
	if tickEvery <= 0 {
		tickEvery = time.Second
	}
	if quizEvery <= 0 {
		quizEvery = 45 * time.Second
	}
	return &Clock{engine: e, clock: e.clock, tickEvery: tickEvery, quizEvery: quizEvery}
}

// Run blocks until ctx is cancelled. Once it returns, no further ticks or
// quiz dispatches are delivered.
func (c *Clock) Run(ctx context.Context) {
	battle := c.clock.NewTicker(c.tickEvery)
	defer battle.Stop()
	quiz := c.clock.NewTicker(c.quizEvery)
	defer quiz.Stop()
	log.Info().Dur("tick", c.tickEvery).Dur("quiz", c.quizEvery).Msg("clocks started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("clocks stopped")
			return
		case <-battle.Chan():
			c.engine.Tick()
		case <-quiz.Chan():
			c.engine.DispatchQuiz()
		}
	}
}
