package game

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/pavilionhq/pavilion/internal/quiz"
	"github.com/pavilionhq/pavilion/internal/store"
)

var (
	ErrNameTaken     = errors.New("name already taken")
	ErrEmptyName     = errors.New("empty name")
	ErrNotRegistered = errors.New("not registered")
	ErrEmptyMessage  = errors.New("empty message")
)

// Broadcaster fans an event out to every connected client. Implementations
// must not let one stalled recipient hold up delivery to the rest.
type Broadcaster interface {
	Broadcast(event string, payload any)
}

type Config struct {
	// RoundSeconds is the countdown length of one battle round.
	RoundSeconds int
	// PersistTimeout bounds each fire-and-forget store write.
	PersistTimeout time.Duration
}

// Engine owns all mutable session state: the participant registry, the
// pending predictions, both score tracks, and the round countdown. Every
// mutation goes through its mutex, so client events and timer firings never
// race each other.
type Engine struct {
	mu sync.Mutex

	registry     *registry
	predictions  map[string]string
	battleScores map[string]int
	quizScores   map[string]int
	countdown    int
	currentQuiz  *quiz.Question

	bank           []quiz.Question
	roundSeconds   int
	persistTimeout time.Duration

	broadcaster Broadcaster
	sink        store.Sink
	clock       clockwork.Clock
	rng         *rand.Rand
}

type Option func(*Engine)

// WithClock substitutes the wall clock, for tests.
func WithClock(c clockwork.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithRand substitutes the outcome draw source, for tests.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithSink sets the prediction persistence sink.
func WithSink(s store.Sink) Option {
	return func(e *Engine) { e.sink = s }
}

func NewEngine(cfg Config, bank []quiz.Question, opts ...Option) *Engine {
	if cfg.RoundSeconds <= 0 {
		cfg.RoundSeconds = 30
	}
	if cfg.PersistTimeout <= 0 {
		cfg.PersistTimeout = 5 * time.Second
	}
	e := &Engine{
		registry:       newRegistry(),
		predictions:    make(map[string]string),
		battleScores:   make(map[string]int),
		quizScores:     make(map[string]int),
		countdown:      cfg.RoundSeconds,
		bank:           bank,
		roundSeconds:   cfg.RoundSeconds,
		persistTimeout: cfg.PersistTimeout,
		sink:           store.Noop{},
		clock:          clockwork.NewRealClock(),
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetBroadcaster wires the outbound channel. Must be called before the
// clocks start and before any client event is dispatched.
func (e *Engine) SetBroadcaster(b Broadcaster) {
	e.broadcaster = b
}

func (e *Engine) broadcast(event string, payload any) {
	if e.broadcaster != nil {
		e.broadcaster.Broadcast(event, payload)
	}
}

// Login reserves a display name. Names are case-sensitive and must be
// non-empty after trimming; a taken name is rejected, never merged.
func (e *Engine) Login(name, avatar string) (Participant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Participant{}, ErrEmptyName
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.registry.register(name, avatar, e.clock.Now().UTC()); err != nil {
		return Participant{}, err
	}
	p, _ := e.registry.lookup(name)
	log.Info().Str("username", name).Str("avatar", avatar).Msg("logged in")
	return *p, nil
}

// Logout releases the name. Accumulated scores are kept so the participant
// stays on the leaderboards.
func (e *Engine) Logout(name string) {
	e.mu.Lock()
	_, known := e.registry.lookup(name)
	e.registry.unregister(name)
	e.mu.Unlock()
	if known {
		log.Info().Str("username", name).Msg("logged out")
	}
}

// Chat validates and broadcasts a chat message from a registered sender.
func (e *Engine) Chat(name, text string) (ChatMessage, error) {
	text = strings.TrimSpace(text)
	e.mu.Lock()
	p, ok := e.registry.lookup(name)
	if !ok {
		e.mu.Unlock()
		return ChatMessage{}, ErrNotRegistered
	}
	avatar := p.Avatar
	e.mu.Unlock()
	if text == "" {
		return ChatMessage{}, ErrEmptyMessage
	}
	msg := ChatMessage{
		ID:       uuid.NewString(),
		Username: name,
		Avatar:   avatar,
		Text:     text,
		Time:     e.clock.Now().UTC(),
	}
	e.broadcast(EventMessage, msg)
	return msg, nil
}

// SubmitPrediction records a pick for the current round, replacing any
// earlier pick by the same participant. Submissions from unregistered names
// or with unknown labels are dropped without error.
func (e *Engine) SubmitPrediction(name, label string) {
	if !validOutcome(label) {
		return
	}
	e.mu.Lock()
	if _, ok := e.registry.lookup(name); !ok {
		e.mu.Unlock()
		return
	}
	e.predictions[name] = label
	e.mu.Unlock()
	log.Info().Str("username", name).Str("prediction", label).Msg("prediction submitted")
	e.persist(func(ctx context.Context) error {
		return e.sink.RecordPrediction(ctx, name, label)
	})
}

// Tick advances the battle clock by one second and broadcasts the remaining
// time. When the countdown hits zero the round resolves and resets.
func (e *Engine) Tick() {
	e.mu.Lock()
	e.countdown--
	remaining := e.countdown
	e.mu.Unlock()
	e.broadcast(EventCountdown, CountdownUpdate{SecondsRemaining: remaining})
	if remaining > 0 {
		return
	}
	e.resolveRound(Outcomes[e.rng.Intn(len(Outcomes))])
}

// resolveRound scores every pending prediction against the drawn outcome,
// broadcasts the result, and starts the next round. The result event fires
// even when nobody played.
func (e *Engine) resolveRound(actual string) {
	e.mu.Lock()
	winners := make([]string, 0)
	outcomes := make(map[string]bool, len(e.predictions))
	for name, pick := range e.predictions {
		correct := pick == actual
		outcomes[name] = correct
		if correct {
			e.battleScores[name]++
			winners = append(winners, name)
		}
	}
	sort.Strings(winners)
	leaderboard := snapshot(e.battleScores)
	e.predictions = make(map[string]string)
	e.countdown = e.roundSeconds
	e.mu.Unlock()

	log.Info().Str("actual", actual).Strs("winners", winners).Msg("round resolved")
	for name, correct := range outcomes {
		e.persist(func(ctx context.Context) error {
			return e.sink.RecordOutcome(ctx, name, actual, correct)
		})
	}
	e.broadcast(EventBattleResult, BattleResult{
		Actual:      actual,
		Winners:     winners,
		Leaderboard: leaderboard,
	})
}

// DispatchQuiz broadcasts a random question from the bank and makes it the
// question answers are checked against. An empty bank is a no-op.
func (e *Engine) DispatchQuiz() {
	e.mu.Lock()
	if len(e.bank) == 0 {
		e.mu.Unlock()
		return
	}
	q := e.bank[e.rng.Intn(len(e.bank))]
	e.currentQuiz = &q
	e.mu.Unlock()
	log.Info().Str("question", q.Question).Msg("quiz question dispatched")
	e.broadcast(EventNewQuizQuestion, q)
}

// SubmitQuizAnswer scores an answer and broadcasts the updated quiz
// standings. Clients still send the correct answer alongside their own for
// wire compatibility; it is only trusted until the first question has been
// dispatched, after which answers are checked against the question the
// server actually sent. Nothing stops a participant answering the same
// question more than once; every match scores.
func (e *Engine) SubmitQuizAnswer(name, answer, claimedCorrect string) {
	e.mu.Lock()
	if _, ok := e.registry.lookup(name); !ok {
		e.mu.Unlock()
		return
	}
	correct := claimedCorrect
	if e.currentQuiz != nil {
		correct = e.currentQuiz.CorrectAnswer
	}
	isCorrect := answer == correct
	if isCorrect {
		e.quizScores[name]++
	}
	scores := snapshot(e.quizScores)
	e.mu.Unlock()
	e.broadcast(EventQuizResult, QuizResult{
		Username:   name,
		IsCorrect:  isCorrect,
		QuizScores: scores,
	})
}

// Participants returns a copy of the currently connected participants.
func (e *Engine) Participants() []Participant {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.list()
}

// BattleStandings returns the battle leaderboard, best first.
func (e *Engine) BattleStandings() []Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Standings(e.battleScores)
}

// QuizStandings returns the quiz leaderboard, best first.
func (e *Engine) QuizStandings() []Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Standings(e.quizScores)
}

// Countdown reports the seconds left in the current round.
func (e *Engine) Countdown() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.countdown
}

// persist runs a store write off the caller's goroutine with a bounded
// deadline, so a slow store can never stall the countdown or a resolution.
func (e *Engine) persist(fn func(context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), e.persistTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			log.Error().Err(err).Msg("prediction store write failed")
		}
	}()
}

func validOutcome(label string) bool {
	for _, o := range Outcomes {
		if o == label {
			return true
		}
	}
	return false
}

func snapshot(scores map[string]int) map[string]int {
	out := make(map[string]int, len(scores))
	for name, score := range scores {
		out[name] = score
	}
	return out
}
