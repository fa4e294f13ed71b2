// Package engine wraps the chess rules library behind the small surface the
// rest of the program needs: position/history inspection, validated move
// application, and game-over detection. Each game owns its own Engine
// instance; there is no shared global board.
package engine

import (
	"fmt"

	"github.com/notnil/chess"
)

// Move is one applied move. From/To are coordinate squares ("e2", "e4"),
// SAN is the display notation appended to the game history.
type Move struct {
	From string
	To   string
	SAN  string
}

// Token returns the move as a 4-character coordinate token.
func (m *Move) Token() string { return m.From + m.To }

// IllegalMoveError reports a move rejected by the rules engine. The board is
// left untouched when this is returned.
type IllegalMoveError struct {
	From string
	To   string
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move %s%s", e.From, e.To)
}

// Engine holds the live board state for a single game.
type Engine struct {
	game *chess.Game
}

// New returns an engine at the standard starting position.
func New() *Engine {
	return &Engine{game: chess.NewGame()}
}

// Load returns an engine restored from a FEN position. Move history is not
// recoverable from FEN; the session record carries it separately.
func Load(fen string) (*Engine, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("load position: %w", err)
	}
	return &Engine{game: chess.NewGame(opt)}, nil
}

// FEN returns the current position in FEN notation.
func (e *Engine) FEN() string {
	return e.game.Position().String()
}

// Turn returns the side to move: "w" or "b".
func (e *Engine) Turn() string {
	return e.game.Position().Turn().String()
}

// ApplyMove validates and applies a coordinate move. Pawn promotion defaults
// to a queen. On rejection the position is unchanged and an
// *IllegalMoveError is returned.
func (e *Engine) ApplyMove(from, to string) (*Move, error) {
	pos := e.game.Position()
	for _, m := range e.game.ValidMoves() {
		if m.S1().String() != from || m.S2().String() != to {
			continue
		}
		if m.Promo() != chess.NoPieceType && m.Promo() != chess.Queen {
			continue
		}
		san := chess.AlgebraicNotation{}.Encode(pos, m)
		if err := e.game.Move(m); err != nil {
			return nil, fmt.Errorf("apply move %s%s: %w", from, to, err)
		}
		return &Move{From: from, To: to, SAN: san}, nil
	}
	return nil, &IllegalMoveError{From: from, To: to}
}

// History returns the SAN notation of every move played on this engine
// since it was created. An engine restored via Load starts with an empty
// history even mid-game.
func (e *Engine) History() []string {
	moves := e.game.Moves()
	positions := e.game.Positions()
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = chess.AlgebraicNotation{}.Encode(positions[i], m)
	}
	return out
}

// IsTerminal reports whether the game has ended.
func (e *Engine) IsTerminal() bool {
	return e.game.Outcome() != chess.NoOutcome
}

// Status describes the game result, e.g. "1-0 by checkmate", or
// "in progress" while the game is live.
func (e *Engine) Status() string {
	if e.game.Outcome() == chess.NoOutcome {
		return "in progress"
	}
	return fmt.Sprintf("%s by %s", e.game.Outcome(), e.game.Method())
}

// Resign ends the game in favor of the opponent of side ("w" or "b").
func (e *Engine) Resign(side string) {
	color := chess.White
	if side == "b" {
		color = chess.Black
	}
	e.game.Resign(color)
}

// Reset restores the standard starting position and clears the history.
func (e *Engine) Reset() {
	e.game = chess.NewGame()
}

// Draw renders the board as ASCII art for terminal display.
func (e *Engine) Draw() string {
	return e.game.Position().Board().Draw()
}
