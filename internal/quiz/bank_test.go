package quiz

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEmbeddedDefault(t *testing.T) {
	bank, err := Load("")
	if err != nil {
		t.Fatalf("embedded bank should load: %v", err)
	}
	if len(bank) == 0 {
		t.Fatal("embedded bank should not be empty")
	}
	for _, q := range bank {
		if q.Question == "" {
			t.Fatal("question text should not be empty")
		}
		if len(q.Options) < 2 {
			t.Fatalf("question %q needs at least two options", q.Question)
		}
		found := false
		for _, opt := range q.Options {
			if opt == q.CorrectAnswer {
				found = true
			}
		}
		if !found {
			t.Fatalf("correct answer %q of %q is not among its options", q.CorrectAnswer, q.Question)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.json")
	content := `[{"question":"Who bowls the last over?","options":["Keeper","Captain's pick"],"correctAnswer":"Captain's pick"}]`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	bank, err := Load(path)
	if err != nil {
		t.Fatalf("bank should load from file: %v", err)
	}
	if len(bank) != 1 {
		t.Fatalf("expected 1 question, got %d", len(bank))
	}
	if bank[0].CorrectAnswer != "Captain's pick" {
		t.Fatalf("unexpected correct answer: %q", bank[0].CorrectAnswer)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("missing file should be an error")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("malformed bank should be an error")
	}
}
