package drafting

import (
	"context"
	"sync/atomic"
)

// Sequencer implements last-request-wins: every request takes a token and
// only the result carrying the newest token may be applied.
type Sequencer struct {
	latest atomic.Uint64
}

// Next issues a new token, superseding all earlier ones.
func (s *Sequencer) Next() uint64 {
	return s.latest.Add(1)
}

// IsLatest reports whether token is still the newest one issued.
func (s *Sequencer) IsLatest(token uint64) bool {
	return s.latest.Load() == token
}

// DraftLatest runs Draft under a fresh token. ok is false when a newer
// request was issued while this one was in flight; its result must be
// discarded.
func (s *Service) DraftLatest(ctx context.Context, seq *Sequencer, req Request) (res Result, ok bool) {
	token := seq.Next()
	res = s.Draft(ctx, req)
	return res, seq.IsLatest(token)
}
