package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/D-z-V/llm-chess/internal/engine"
	"github.com/D-z-V/llm-chess/internal/provider"
	"github.com/D-z-V/llm-chess/internal/session"
)

// Speaker identifies who produced a conversation turn.
type Speaker string

const (
	SpeakerAgentOne Speaker = "agent-1"
	SpeakerAgentTwo Speaker = "agent-2"
	SpeakerSystem   Speaker = "system"
)

// ConversationTurn is one utterance in a negotiation round. The log of
// turns lives only for the round: it is cleared when a move is accepted and
// never persisted.
type ConversationTurn struct {
	Speaker Speaker
	Text    string
}

// Update is one event on the negotiation stream: an appended conversation
// turn, the accepted move that ends the round, or a terminal error.
type Update struct {
	Turn *ConversationTurn
	Move *engine.Move
	Err  error
}

// correctiveText is appended as a system turn when a round ends without
// consensus.
const correctiveText = "Neither proposal was a legal move. Respond with a legal move for the current position in the exact format ANSWER: <4-character move>."

// Negotiator runs the thinking-mode protocol: two agents alternate turns
// against a shared conversation log until one of them commits to a legal
// move. The log and the exchange counter are its only state, which keeps a
// round testable without any network.
type Negotiator struct {
	sessions *session.Manager
	agentOne provider.Client
	agentTwo provider.Client

	// delay between failed rounds before re-entering agent one's turn.
	delay time.Duration

	// maxRounds bounds the disagreement loop; 0 preserves the original
	// unbounded behavior.
	maxRounds int

	log       []ConversationTurn
	exchanges int
}

// NewNegotiator returns a negotiator for one game. maxRounds of 0 disables
// the round bound.
func NewNegotiator(mgr *session.Manager, agentOne, agentTwo provider.Client, delay time.Duration, maxRounds int) *Negotiator {
	return &Negotiator{
		sessions:  mgr,
		agentOne:  agentOne,
		agentTwo:  agentTwo,
		delay:     delay,
		maxRounds: maxRounds,
	}
}

// Log returns a copy of the conversation accumulated in the current round.
func (n *Negotiator) Log() []ConversationTurn {
	out := make([]ConversationTurn, len(n.log))
	copy(out, n.log)
	return out
}

// Run executes one negotiation round to completion. Updates stream on the
// returned channel as each turn lands; the channel closes after the final
// Update carrying either the accepted move or an error. Cancelling ctx
// abandons the round between provider calls.
func (n *Negotiator) Run(ctx context.Context, g *session.Game) <-chan Update {
	ch := make(chan Update, 8)
	go n.run(ctx, g, ch)
	return ch
}

func (n *Negotiator) run(ctx context.Context, g *session.Game, ch chan<- Update) {
	defer close(ch)

	for round := 0; ; round++ {
		if n.maxRounds > 0 && round >= n.maxRounds {
			ch <- Update{Err: ErrExhausted}
			return
		}

		// The strict answer format is requested only past the first
		// exchange; the opening turns are pure reasoning.
		includeFormat := n.exchanges > 0

		tokenOne, okOne, err := n.agentTurn(ctx, g, n.agentOne, SpeakerAgentOne, includeFormat, ch)
		if err != nil {
			ch <- Update{Err: err}
			return
		}

		// An agent that reasoned its way to a legal committed answer ends
		// the round on its own; the partner is not consulted.
		if okOne {
			if mv := n.tryApply(g, tokenOne); mv != nil {
				n.resolve(g, mv, ch)
				return
			}
		}

		tokenTwo, okTwo, err := n.agentTurn(ctx, g, n.agentTwo, SpeakerAgentTwo, includeFormat, ch)
		if err != nil {
			ch <- Update{Err: err}
			return
		}
		if okTwo {
			if mv := n.tryApply(g, tokenTwo); mv != nil {
				n.resolve(g, mv, ch)
				return
			}
		}

		// Safety net: both committed to the same token this round.
		if okOne && okTwo && round > 0 && tokenOne == tokenTwo {
			if mv := n.tryApply(g, tokenOne); mv != nil {
				n.resolve(g, mv, ch)
				return
			}
		}

		n.appendTurn(ConversationTurn{Speaker: SpeakerSystem, Text: correctiveText}, ch)

		select {
		case <-ctx.Done():
			ch <- Update{Err: ctx.Err()}
			return
		case <-time.After(n.delay):
		}
	}
}

// agentTurn prompts one agent with the conversation so far, records its raw
// reply in the log, and scans the reply for a committed token.
func (n *Negotiator) agentTurn(ctx context.Context, g *session.Game, cli provider.Client, speaker Speaker, includeFormat bool, ch chan<- Update) (string, bool, error) {
	select {
	case <-ctx.Done():
		return "", false, ctx.Err()
	default:
	}

	prompt := negotiationPrompt(g.Session.Position, g.Session.History, n.transcript(), includeFormat)
	text, err := cli.Complete(ctx, prompt)
	if err != nil {
		return "", false, err
	}

	n.appendTurn(ConversationTurn{Speaker: speaker, Text: text}, ch)
	n.exchanges++

	token, ok := ExtractAnswer(text)
	return token, ok, nil
}

// tryApply decodes and applies a token, returning nil when the token is
// malformed or the move illegal. The board is untouched on failure.
func (n *Negotiator) tryApply(g *session.Game, token string) *engine.Move {
	from, to, err := engine.DecodeToken(token)
	if err != nil {
		return nil
	}
	mv, err := g.Engine.ApplyMove(from, to)
	if err != nil {
		return nil
	}
	return mv
}

// resolve commits the accepted move through the session manager, clears
// the round's conversation log, and emits the final update.
func (n *Negotiator) resolve(g *session.Game, mv *engine.Move, ch chan<- Update) {
	if err := n.sessions.ApplyAcceptedMove(g, mv); err != nil {
		ch <- Update{Err: err}
		return
	}
	n.log = nil
	n.exchanges = 0
	ch <- Update{Move: mv}
}

func (n *Negotiator) appendTurn(turn ConversationTurn, ch chan<- Update) {
	n.log = append(n.log, turn)
	ch <- Update{Turn: &turn}
}

// transcript renders the conversation log for inclusion in a prompt.
func (n *Negotiator) transcript() string {
	if len(n.log) == 0 {
		return "(no messages yet)"
	}
	var sb strings.Builder
	for _, t := range n.log {
		fmt.Fprintf(&sb, "[%s]: %s\n", t.Speaker, strings.TrimSpace(t.Text))
	}
	return sb.String()
}
