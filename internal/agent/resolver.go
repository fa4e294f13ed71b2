package agent

import (
	"context"
	"errors"
	"strings"

	"github.com/D-z-V/llm-chess/internal/engine"
	"github.com/D-z-V/llm-chess/internal/provider"
	"github.com/D-z-V/llm-chess/internal/session"
)

// maxAttempts bounds provider calls per move. A model that cannot produce
// a legal move in ten tries is not going to on the eleventh.
const maxAttempts = 10

// ErrExhausted is returned when the attempt bound is reached without a
// legal move. The session is left untouched: no move applied, no turn
// consumed.
var ErrExhausted = errors.New("no legal move after maximum attempts")

// Resolver drives the retry loop for a single agent proposing a move, and
// optionally for correcting an illegal human move in the human's place.
type Resolver struct {
	sessions *session.Manager
}

// NewResolver returns a resolver committing accepted moves through mgr.
func NewResolver(mgr *session.Manager) *Resolver {
	return &Resolver{sessions: mgr}
}

// Resolve asks the agent for a move for the side to move, retrying with
// corrective feedback on malformed or illegal proposals. At most
// maxAttempts provider calls are made; on success the accepted move is
// committed to the session exactly once.
func (r *Resolver) Resolve(ctx context.Context, g *session.Game, cli provider.Client) (*engine.Move, error) {
	prompt := initialPrompt(g.Session.Position, g.Session.History)

	for attempt := 0; attempt < maxAttempts; attempt++ {
		text, err := cli.Complete(ctx, prompt)
		if err != nil {
			return nil, err
		}

		mv, rejected := r.tryProposal(g, text)
		if mv != nil {
			if err := r.sessions.ApplyAcceptedMove(g, mv); err != nil {
				return nil, err
			}
			return mv, nil
		}

		prompt = feedbackPrompt(g.Session.Position, g.Session.History, rejected)
	}
	return nil, ErrExhausted
}

// CorrectHumanMove handles an illegal human proposal by asking the agent
// for a replacement move played in the human's place. The original token is
// fed back as the rejected move; the usual attempt bound applies.
func (r *Resolver) CorrectHumanMove(ctx context.Context, g *session.Game, cli provider.Client, rejected string) (*engine.Move, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		prompt := feedbackPrompt(g.Session.Position, g.Session.History, rejected)

		text, err := cli.Complete(ctx, prompt)
		if err != nil {
			return nil, err
		}

		mv, next := r.tryProposal(g, text)
		if mv != nil {
			if err := r.sessions.ApplyAcceptedMove(g, mv); err != nil {
				return nil, err
			}
			return mv, nil
		}
		rejected = next
	}
	return nil, ErrExhausted
}

// tryProposal extracts a token from raw model output and attempts to apply
// it. On failure it returns the rejected token (or a trimmed echo of the
// reply when no token was found) for use in the next feedback prompt.
func (r *Resolver) tryProposal(g *session.Game, text string) (*engine.Move, string) {
	token, ok := ExtractAnswer(text)
	if !ok {
		token = trimForFeedback(text)
	}

	from, to, err := engine.DecodeToken(token)
	if err != nil {
		return nil, token
	}
	mv, err := g.Engine.ApplyMove(from, to)
	if err != nil {
		return nil, token
	}
	return mv, ""
}

// trimForFeedback condenses a formatless reply into something short enough
// to quote back as the rejected proposal.
func trimForFeedback(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	if len(text) > 40 {
		text = text[:40]
	}
	return text
}
