package game

import (
	"math/rand"
	"time"
)

// Outcomes is the fixed set of ball outcomes a battle round can resolve to.
var Outcomes = []string{
	"Dot Ball", "Single", "Double", "Triple", "Four",
	"Six", "Wicket", "Wide", "No Ball",
}

// RandomOutcome draws uniformly from the outcome set.
func RandomOutcome() string {
	return Outcomes[rand.Intn(len(Outcomes))]
}

// Outbound event names. These are the only events the engine ever emits.
const (
	EventCountdown       = "countdown"
	EventBattleResult    = "battleResult"
	EventNewQuizQuestion = "newQuizQuestion"
	EventQuizResult      = "quizResult"
	EventMessage         = "message"
)

type Participant struct {
	Name     string    `json:"username"`
	Avatar   string    `json:"avatar"`
	JoinedAt time.Time `json:"joinedAt"`
}

// ChatMessage is built server-side from the sender's registered identity.
type ChatMessage struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	Avatar   string    `json:"avatar"`
	Text     string    `json:"text"`
	Time     time.Time `json:"time"`
}

type CountdownUpdate struct {
	SecondsRemaining int `json:"secondsRemaining"`
}

type BattleResult struct {
	Actual      string         `json:"actual"`
	Winners     []string       `json:"winners"`
	Leaderboard map[string]int `json:"leaderboard"`
}

type QuizResult struct {
	Username   string         `json:"username"`
	IsCorrect  bool           `json:"isCorrect"`
	QuizScores map[string]int `json:"quizScores"`
}
