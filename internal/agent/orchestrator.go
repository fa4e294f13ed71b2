package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/D-z-V/llm-chess/internal/engine"
	"github.com/D-z-V/llm-chess/internal/provider"
	"github.com/D-z-V/llm-chess/internal/session"
)

// ClientFactory builds a provider client for a provider/credential pair.
// Injected so orchestration is testable with scripted clients.
type ClientFactory func(name, credential string) (provider.Client, error)

// Options tunes orchestration behavior.
type Options struct {
	// Correction enables agent-assisted correction of illegal human moves
	// in human-vs-agent games. Off by default: an illegal human move is
	// simply rejected.
	Correction bool

	// Delay between failed negotiation rounds.
	Delay time.Duration

	// MaxRounds bounds the negotiation loop; 0 = unbounded.
	MaxRounds int

	// Clients overrides provider client construction (tests).
	Clients ClientFactory
}

// Orchestrator is the surface the presentation layer drives: it validates
// turn ownership, routes human proposals and agent turns, and streams
// thinking-mode conversations.
type Orchestrator struct {
	sessions *session.Manager
	resolver *Resolver
	clients  ClientFactory
	opts     Options
}

// New returns an orchestrator over the given session manager.
func New(mgr *session.Manager, opts Options) *Orchestrator {
	clients := opts.Clients
	if clients == nil {
		clients = func(name, credential string) (provider.Client, error) {
			return provider.New(name, credential, "")
		}
	}
	return &Orchestrator{
		sessions: mgr,
		resolver: NewResolver(mgr),
		clients:  clients,
		opts:     opts,
	}
}

// ResolveMove applies a human move proposal given as a coordinate token.
// An illegal proposal is rejected, unless correction is enabled in a
// human-vs-agent game, in which case the agent proposes a replacement move
// in the human's place.
func (o *Orchestrator) ResolveMove(ctx context.Context, g *session.Game, proposal string) (*engine.Move, error) {
	from, to, err := engine.DecodeToken(proposal)
	if err != nil {
		return nil, err
	}

	mv, err := g.Engine.ApplyMove(from, to)
	if err == nil {
		if err := o.sessions.ApplyAcceptedMove(g, mv); err != nil {
			return nil, err
		}
		return mv, nil
	}

	if !o.opts.Correction || g.Session.Mode != session.ModeAgent {
		return nil, err
	}
	cli, cErr := o.agentClient(g)
	if cErr != nil {
		return nil, cErr
	}
	return o.resolver.CorrectHumanMove(ctx, g, cli, proposal)
}

// AgentMove has the agent seat propose and play its own move through the
// bounded retry loop.
func (o *Orchestrator) AgentMove(ctx context.Context, g *session.Game) (*engine.Move, error) {
	cli, err := o.agentClient(g)
	if err != nil {
		return nil, err
	}
	return o.resolver.Resolve(ctx, g, cli)
}

// RunNegotiation starts a thinking-mode round for the agent seat and
// returns its update stream. Both negotiating clients are built up front so
// credential problems surface before any network call.
func (o *Orchestrator) RunNegotiation(ctx context.Context, g *session.Game) (<-chan Update, error) {
	cfg := g.Session.Agent
	if cfg == nil {
		return nil, fmt.Errorf("game %s has no agent seat", g.Session.ID)
	}

	one, err := o.clients(cfg.Provider, cfg.Credential)
	if err != nil {
		return nil, err
	}
	name2, cred2 := cfg.Second()
	two, err := o.clients(name2, cred2)
	if err != nil {
		return nil, err
	}

	n := NewNegotiator(o.sessions, one, two, o.opts.Delay, o.opts.MaxRounds)
	return n.Run(ctx, g), nil
}

func (o *Orchestrator) agentClient(g *session.Game) (provider.Client, error) {
	cfg := g.Session.Agent
	if cfg == nil {
		return nil, fmt.Errorf("game %s has no agent seat", g.Session.ID)
	}
	return o.clients(cfg.Provider, cfg.Credential)
}
