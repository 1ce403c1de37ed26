package game

import "time"

// registry tracks connected participants by display name. It has no lock of
// its own; the owning Engine serializes all access.
type registry struct {
	participants map[string]*Participant
}

func newRegistry() *registry {
	return &registry{participants: make(map[string]*Participant)}
}

// register inserts a new participant. Names are case-sensitive and must be
// unique among currently connected participants.
func (r *registry) register(name, avatar string, now time.Time) error {
	if _, taken := r.participants[name]; taken {
		return ErrNameTaken
	}
	r.participants[name] = &Participant{Name: name, Avatar: avatar, JoinedAt: now}
	return nil
}

// unregister is idempotent; removing an absent name is a no-op.
func (r *registry) unregister(name string) {
	delete(r.participants, name)
}

func (r *registry) lookup(name string) (*Participant, bool) {
	p, ok := r.participants[name]
	return p, ok
}

func (r *registry) list() []Participant {
	out := make([]Participant, 0, len(r.participants))
	for _, p := range r.participants {
		out = append(out, *p)
	}
	return out
}
