package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port          string
	RoundSeconds  int
	TickInterval  time.Duration
	QuizInterval  time.Duration
	DatabaseURL   string
	QuestionsFile string
	AvatarsDir    string
}

func FromEnv() Config {
	c := Config{}
	c.Port = getenv("PORT", "8080")
	c.RoundSeconds = getenvInt("ROUND_SECONDS", 30)
	c.TickInterval = getenvDuration("TICK_INTERVAL", time.Second)
	c.QuizInterval = getenvDuration("QUIZ_INTERVAL", 45*time.Second)
	c.DatabaseURL = os.Getenv("DATABASE_URL")
	c.QuestionsFile = os.Getenv("QUESTIONS_FILE")
	c.AvatarsDir = getenv("AVATARS_DIR", "./sample_avatars")
	return c
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
