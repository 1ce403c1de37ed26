package quiz

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
)

// Question is one entry of the trivia bank. Field names match the wire
// format the web client expects.
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

//go:embed questions.json
var defaultBank []byte

// Load reads a question bank from path. An empty path loads the bank
// embedded in the binary, so the server runs with no files on disk.
func Load(path string) ([]Question, error) {
	data := defaultBank
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read question bank: %w", err)
		}
		data = b
	}
	var questions []Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}
	return questions, nil
}
