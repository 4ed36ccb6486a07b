package model

import (
	"chesshub/internal/chess"
)

// GameState is the full client-facing snapshot broadcast after every
// change. The board grid is rank 8 first, files a through h.
type GameState struct {
	Board           [8][8]*PieceView `json:"board"`
	ToMove          string           `json:"toMove"`
	MoveHistory     []MovePair       `json:"moveHistory"`
	CapturedPieces  CapturedPieces   `json:"capturedPieces"`
	IsCheck         bool             `json:"isCheck"`
	EnPassantTarget *string          `json:"enPassantTarget"`
	Resolve         *string          `json:"resolve"`
	Winner          *string          `json:"winner"`
	Players         Players          `json:"players"`
	PromotionSquare *string          `json:"promotionSquare"`
	LastMove        *SimpleMove      `json:"lastMove"`
	FEN             string           `json:"fen"`
	HalfMoveIndex   int              `json:"halfMoveIndex"`
	FullMoveNumber  int              `json:"fullMoveNumber"`
}

type PieceView struct {
	Type   string `json:"type"`
	Color  string `json:"color"`
	Square string `json:"square"`
}

// MovePair is one numbered row of the move list.
type MovePair struct {
	Number int    `json:"number"`
	White  string `json:"white"`
	Black  string `json:"black"`
}

type CapturedPieces struct {
	White []string `json:"white"`
	Black []string `json:"black"`
}

type Players struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

type SimpleMove struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// MoveRequest is a client's proposed move in algebraic squares, with an
// optional up-front promotion choice ("q", "r", "b", "n").
type MoveRequest struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion"`
}

// buildState assembles the snapshot from the core's query surface. The
// caller holds the game lock.
func buildState(core *chess.Game, players Players) GameState {
	board := core.CurrentBoard()
	state := GameState{
		ToMove:         core.SideToMove().String(),
		MoveHistory:    movePairs(core),
		CapturedPieces: capturedPieces(core),
		IsCheck:        core.InCheck(),
		Players:        players,
		HalfMoveIndex:  core.LatestHalfMoveIndex(),
		FullMoveNumber: core.FullMoveNumber(),
	}

	for _, sq := range core.CurrentPieces() {
		p := board.PieceAt(sq)
		state.Board[8-sq.Rank][sq.File-1] = &PieceView{
			Type:   p.Type.String(),
			Color:  p.Side.String(),
			Square: sq.String(),
		}
	}

	if target := core.CurrentConditions().EnPassantTarget; target.IsValid() {
		s := target.String()
		state.EnPassantTarget = &s
	}
	if sq, pending := core.PendingPromotion(); pending {
		s := sq.String()
		state.PromotionSquare = &s
	}
	if history := core.HalfMoves(); len(history) > 0 {
		last := history[len(history)-1]
		state.LastMove = &SimpleMove{From: last.Move.From.String(), To: last.Move.To.String()}
	}
	if core.Ended() {
		reason, winner, drawn := core.Result()
		resolve := reason.String()
		state.Resolve = &resolve
		if !drawn {
			w := winner.String()
			state.Winner = &w
		}
	}
	if fen, err := (chess.FEN{}).Serialize(core); err == nil {
		state.FEN = fen
	}
	return state
}

func movePairs(core *chess.Game) []MovePair {
	pairs := make([]MovePair, 0)
	number := core.InitialConditions().FullMoveNumber
	side := core.StartingSide()
	for _, hm := range core.HalfMoves() {
		if side == chess.White {
			pairs = append(pairs, MovePair{Number: number, White: hm.Notation})
		} else {
			if len(pairs) == 0 {
				pairs = append(pairs, MovePair{Number: number})
			}
			pairs[len(pairs)-1].Black = hm.Notation
			number++
		}
		side = side.Opponent()
	}
	return pairs
}

func capturedPieces(core *chess.Game) CapturedPieces {
	captured := CapturedPieces{White: make([]string, 0), Black: make([]string, 0)}
	for _, hm := range core.HalfMoves() {
		if hm.Captured == nil {
			continue
		}
		// Grouped by the capturing side, as the client displays trophies.
		if hm.Moved.Side == chess.White {
			captured.White = append(captured.White, hm.Captured.Type.String())
		} else {
			captured.Black = append(captured.Black, hm.Captured.Type.String())
		}
	}
	return captured
}
