package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/D-z-V/llm-chess/internal/agent"
	"github.com/D-z-V/llm-chess/internal/config"
	"github.com/D-z-V/llm-chess/internal/provider"
	"github.com/D-z-V/llm-chess/internal/session"
)

var (
	modeFlag       string
	whiteFlag      string
	blackFlag      string
	resumeFlag     string
	thinkingFlag   bool
	provider2Flag  string
	correctionFlag bool
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	turnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	speakerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	thinkingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&modeFlag, "mode", "agent", "game mode: human (two humans) or agent (white human, black LLM)")
	cmd.Flags().StringVar(&whiteFlag, "white", "White", "name of the white player")
	cmd.Flags().StringVar(&blackFlag, "black", "", "name of the black player (default LLM in agent mode)")
	cmd.Flags().StringVar(&resumeFlag, "resume", "", "resume a saved game by id")
	cmd.Flags().BoolVar(&thinkingFlag, "thinking", false, "enable two-agent thinking mode for the agent seat")
	cmd.Flags().StringVar(&provider2Flag, "provider2", "", "second agent's provider in thinking mode (default: same as first)")
	cmd.Flags().BoolVar(&correctionFlag, "correction", false, "let the agent correct illegal human moves")
}

func newPlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Start or resume a game",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd)
		},
	}
	addPlayFlags(cmd)
	return cmd
}

func runPlay(cmd *cobra.Command) error {
	cfg := initConfig()

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	mgr := session.NewManager(store)

	opts, err := gameOptions(cfg)
	if err != nil {
		return err
	}

	g, err := mgr.CreateOrResume(resumeFlag, opts)
	if err != nil {
		return err
	}

	orc := agent.New(mgr, agent.Options{
		Correction: correctionFlag || cfg.Correction,
		Delay:      time.Duration(cfg.MoveDelayMs) * time.Millisecond,
		MaxRounds:  cfg.Thinking.MaxRounds,
		Clients: func(name, credential string) (provider.Client, error) {
			return provider.New(name, credential, modelFor(cfg, name))
		},
	})

	// Ctrl-C abandons any in-flight agent call; the snapshot on disk still
	// reflects the last applied move.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println(headerStyle.Render(fmt.Sprintf("llm-chess | game %s", g.Session.ID)))
	return gameLoop(ctx, g, mgr, orc)
}

// modelFor picks the configured model for a provider: a per-provider entry
// wins, then the top-level model for the active provider, then the
// provider's own default.
func modelFor(cfg *config.Config, name string) string {
	if m := cfg.GetProviderConfig(name).Model; m != "" {
		return m
	}
	if name == cfg.Provider {
		return cfg.Model
	}
	return ""
}

// gameOptions translates config and flags into the new-game options.
func gameOptions(cfg *config.Config) (session.GameOptions, error) {
	opts := session.GameOptions{
		PlayerWhite: whiteFlag,
		PlayerBlack: blackFlag,
		Mode:        session.ModeHuman,
	}

	if modeFlag == string(session.ModeAgent) {
		name := cfg.Provider
		if !provider.Known(name) {
			return opts, fmt.Errorf("unknown provider %q", name)
		}
		opts.Mode = session.ModeAgent
		if opts.PlayerBlack == "" {
			opts.PlayerBlack = "LLM"
		}
		ac := &session.AgentConfig{
			Provider:     name,
			Credential:   cfg.Credential(name),
			ThinkingMode: thinkingFlag || cfg.Thinking.Enabled,
		}
		p2 := provider2Flag
		if p2 == "" {
			p2 = cfg.Thinking.Provider2
		}
		if p2 != "" {
			if !provider.Known(p2) {
				return opts, fmt.Errorf("unknown provider %q", p2)
			}
			ac.Provider2 = p2
			ac.Credential2 = cfg.Credential(p2)
		}
		opts.Agent = ac
	}
	return opts, nil
}

func gameLoop(ctx context.Context, g *session.Game, mgr *session.Manager, orc *agent.Orchestrator) error {
	in := bufio.NewScanner(os.Stdin)

	for {
		printBoard(g)
		if g.Engine.IsTerminal() {
			fmt.Println(headerStyle.Render("Game over: " + g.Engine.Status()))
			return nil
		}

		if agentToMove(g) {
			if err := playAgentTurn(ctx, g, orc); err != nil {
				switch {
				case errors.Is(err, context.Canceled):
					fmt.Println("\nInterrupted; last applied move is saved.")
					return nil
				case errors.Is(err, agent.ErrExhausted):
					// The turn was not played and the game is unchanged;
					// leave it saved so the player can retry later.
					if pErr := mgr.Pause(g); pErr != nil {
						return pErr
					}
					fmt.Printf("Game saved. Resume with: llm-chess play --resume %s\n", g.Session.ID)
					return nil
				default:
					return err
				}
			}
			continue
		}

		fmt.Print(turnStyle.Render(promptFor(g)) + " ")
		if !in.Scan() {
			return mgr.Pause(g)
		}
		line := strings.ToLower(strings.TrimSpace(in.Text()))

		switch line {
		case "":
			continue
		case "save", "pause", "quit", "exit":
			if err := mgr.Pause(g); err != nil {
				return err
			}
			fmt.Printf("Saved. Resume with: llm-chess play --resume %s\n", g.Session.ID)
			return nil
		case "resign":
			g.Engine.Resign(g.Engine.Turn())
			if err := mgr.End(g); err != nil {
				return err
			}
			fmt.Println(headerStyle.Render("Game over: " + g.Engine.Status()))
			return nil
		default:
			if _, err := orc.ResolveMove(ctx, g, line); err != nil {
				fmt.Println(errStyle.Render("rejected: " + err.Error()))
			}
		}
	}
}

// playAgentTurn runs one agent move, streaming the thinking-mode
// conversation when it is enabled.
func playAgentTurn(ctx context.Context, g *session.Game, orc *agent.Orchestrator) error {
	if g.Session.Agent != nil && g.Session.Agent.ThinkingMode {
		updates, err := orc.RunNegotiation(ctx, g)
		if err != nil {
			return err
		}
		for u := range updates {
			switch {
			case u.Turn != nil:
				fmt.Println(speakerStyle.Render("["+string(u.Turn.Speaker)+"]") + " " +
					thinkingStyle.Render(strings.TrimSpace(u.Turn.Text)))
			case u.Move != nil:
				fmt.Printf("Agents agreed on %s (%s)\n", u.Move.Token(), u.Move.SAN)
			case u.Err != nil:
				return u.Err
			}
		}
		return nil
	}

	fmt.Println(thinkingStyle.Render("agent is thinking..."))
	mv, err := orc.AgentMove(ctx, g)
	if err != nil {
		if errors.Is(err, agent.ErrExhausted) {
			fmt.Println(errStyle.Render("agent failed to produce a legal move; the turn was not played"))
		}
		return err
	}
	fmt.Printf("Agent played %s (%s)\n", mv.Token(), mv.SAN)
	return nil
}

func agentToMove(g *session.Game) bool {
	return g.Session.Mode == session.ModeAgent && g.Engine.Turn() == "b"
}

func printBoard(g *session.Game) {
	fmt.Println()
	fmt.Println(g.Engine.Draw())
	if n := len(g.Session.History); n > 0 {
		fmt.Printf("Moves: %s\n", strings.Join(g.Session.History, " "))
	}
}

func promptFor(g *session.Game) string {
	name := g.Session.PlayerWhite
	if g.Engine.Turn() == "b" {
		name = g.Session.PlayerBlack
	}
	return fmt.Sprintf("%s to move (e.g. e2e4, or save/resign):", name)
}

// openStore opens the saved-games store at the configured path.
func openStore(cfg *config.Config) (session.Store, error) {
	path := cfg.DBPath
	if path == "" {
		var err error
		path, err = session.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("locate games db: %w", err)
		}
	}
	return session.NewSQLiteStore(path)
}
