package game

import "sort"

// Entry is one row of a leaderboard.
type Entry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Standings ranks a score map best first. Ties keep no particular order.
// The input map is never modified.
func Standings(scores map[string]int) []Entry {
	out := make([]Entry, 0, len(scores))
	for name, score := range scores {
		out = append(out, Entry{Name: name, Score: score})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
