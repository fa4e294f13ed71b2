package session

import (
	"testing"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(openTestStore(t))
}

func agentOpts() GameOptions {
	return GameOptions{
		PlayerWhite: "Dinesh",
		PlayerBlack: "LLM",
		Mode:        ModeAgent,
		Agent:       &AgentConfig{Provider: "gemini", Credential: "k"},
	}
}

func TestCreateFreshGame(t *testing.T) {
	m := newTestManager(t)
	g, err := m.CreateOrResume("", agentOpts())
	if err != nil {
		t.Fatal(err)
	}
	if g.Session.ID == "" {
		t.Error("fresh game has empty id")
	}
	if g.Session.Turn != "w" {
		t.Errorf("Turn = %q, want w", g.Session.Turn)
	}
	if len(g.Session.History) != 0 {
		t.Errorf("History = %v, want empty", g.Session.History)
	}
	if g.Session.Status != StatusInProgress {
		t.Errorf("Status = %q", g.Session.Status)
	}
}

func TestApplyAcceptedMoveFlipsTurnOnce(t *testing.T) {
	m := newTestManager(t)
	g, err := m.CreateOrResume("", agentOpts())
	if err != nil {
		t.Fatal(err)
	}

	mv, err := g.Engine.ApplyMove("e2", "e4")
	if err != nil {
		t.Fatal(err)
	}
	if err := m.ApplyAcceptedMove(g, mv); err != nil {
		t.Fatal(err)
	}

	if g.Session.Turn != "b" {
		t.Errorf("Turn = %q, want b", g.Session.Turn)
	}
	if len(g.Session.History) != 1 || g.Session.History[0] != "e4" {
		t.Errorf("History = %v, want [e4]", g.Session.History)
	}
	// History length parity matches the side to move.
	if got := []string{"w", "b"}[len(g.Session.History)%2]; got != g.Session.Turn {
		t.Errorf("parity %q disagrees with Turn %q", got, g.Session.Turn)
	}
}

func TestApplyAcceptedMovePersistsSnapshot(t *testing.T) {
	store := openTestStore(t)
	m := NewManager(store)
	g, err := m.CreateOrResume("", agentOpts())
	if err != nil {
		t.Fatal(err)
	}

	mv, err := g.Engine.ApplyMove("e2", "e4")
	if err != nil {
		t.Fatal(err)
	}
	if err := m.ApplyAcceptedMove(g, mv); err != nil {
		t.Fatal(err)
	}

	saved, err := store.Load(g.Session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if saved.Position != g.Session.Position {
		t.Errorf("persisted position %q, want %q", saved.Position, g.Session.Position)
	}
	if len(saved.History) != 1 {
		t.Errorf("persisted history %v", saved.History)
	}
}

func TestResumeReproducesSavedGame(t *testing.T) {
	store := openTestStore(t)
	m := NewManager(store)
	g, err := m.CreateOrResume("", agentOpts())
	if err != nil {
		t.Fatal(err)
	}
	id := g.Session.ID

	for _, mv := range [][2]string{{"e2", "e4"}, {"e7", "e5"}} {
		applied, err := g.Engine.ApplyMove(mv[0], mv[1])
		if err != nil {
			t.Fatal(err)
		}
		if err := m.ApplyAcceptedMove(g, applied); err != nil {
			t.Fatal(err)
		}
	}
	wantFEN := g.Session.Position

	// Resume through a fresh manager over the same store, as after a
	// process restart.
	m2 := NewManager(store)
	g2, err := m2.CreateOrResume(id, GameOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if g2.Session.Position != wantFEN {
		t.Errorf("resumed position %q, want %q", g2.Session.Position, wantFEN)
	}
	if g2.Engine.FEN() != wantFEN {
		t.Errorf("resumed engine at %q, want %q", g2.Engine.FEN(), wantFEN)
	}
	if len(g2.Session.History) != 2 {
		t.Errorf("resumed history %v", g2.Session.History)
	}
	if g2.Session.Agent == nil || g2.Session.Agent.Provider != "gemini" {
		t.Errorf("agent config not restored: %+v", g2.Session.Agent)
	}
}

func TestResumeMissingIDCreatesFresh(t *testing.T) {
	m := newTestManager(t)
	g, err := m.CreateOrResume("never-saved", agentOpts())
	if err != nil {
		t.Fatal(err)
	}
	if g.Session.ID != "never-saved" {
		t.Errorf("id = %q, want requested id kept", g.Session.ID)
	}
	if len(g.Session.History) != 0 {
		t.Errorf("fresh game has history %v", g.Session.History)
	}
}

func TestResumeReturnsSameLiveGame(t *testing.T) {
	m := newTestManager(t)
	g, err := m.CreateOrResume("", agentOpts())
	if err != nil {
		t.Fatal(err)
	}
	g2, err := m.CreateOrResume(g.Session.ID, GameOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if g != g2 {
		t.Error("two live Game values for one id")
	}
}

func TestTerminalGameIsDeletedNotRetained(t *testing.T) {
	store := openTestStore(t)
	m := NewManager(store)
	g, err := m.CreateOrResume("", agentOpts())
	if err != nil {
		t.Fatal(err)
	}
	id := g.Session.ID

	// Fool's mate: the final accepted move ends the game.
	for _, mv := range [][2]string{{"f2", "f3"}, {"e7", "e5"}, {"g2", "g4"}, {"d8", "h4"}} {
		applied, err := g.Engine.ApplyMove(mv[0], mv[1])
		if err != nil {
			t.Fatal(err)
		}
		if err := m.ApplyAcceptedMove(g, applied); err != nil {
			t.Fatal(err)
		}
	}

	if g.Session.Status != StatusTerminal {
		t.Errorf("Status = %q, want terminal", g.Session.Status)
	}
	if _, err := store.Load(id); err != ErrNotFound {
		t.Errorf("terminal game still persisted: %v", err)
	}

	// Resuming the finished id starts over instead of restoring stale state.
	g2, err := m.CreateOrResume(id, agentOpts())
	if err != nil {
		t.Fatal(err)
	}
	if len(g2.Session.History) != 0 || g2.Engine.IsTerminal() {
		t.Errorf("resume after terminal returned stale state: %v", g2.Session.History)
	}
}

func TestPauseKeepsRecord(t *testing.T) {
	store := openTestStore(t)
	m := NewManager(store)
	g, err := m.CreateOrResume("", agentOpts())
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Pause(g); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Load(g.Session.ID); err != nil {
		t.Errorf("paused game not persisted: %v", err)
	}
}

func TestEndRemovesRecord(t *testing.T) {
	store := openTestStore(t)
	m := NewManager(store)
	g, err := m.CreateOrResume("", agentOpts())
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Pause(g); err != nil {
		t.Fatal(err)
	}
	if err := m.End(g); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Load(g.Session.ID); err != ErrNotFound {
		t.Errorf("ended game still persisted: %v", err)
	}
}
