package chess

// CastlingRights tracks which castles each side may still play.
type CastlingRights struct {
	WhiteKingSide  bool
	WhiteQueenSide bool
	BlackKingSide  bool
	BlackQueenSide bool
}

// GameConditions is the FEN-equivalent state snapshot for one ply: side to
// move, castling rights, en-passant target, and the move counters. It is an
// immutable value; every executed ply produces a fresh one.
type GameConditions struct {
	SideToMove      Side
	Castling        CastlingRights
	EnPassantTarget Square // InvalidSquare when no double push just happened
	HalfMoveClock   int
	FullMoveNumber  int
}

// StartingConditions returns the conditions of a fresh game.
func StartingConditions() GameConditions {
	return GameConditions{
		SideToMove: White,
		Castling: CastlingRights{
			WhiteKingSide:  true,
			WhiteQueenSide: true,
			BlackKingSide:  true,
			BlackQueenSide: true,
		},
		EnPassantTarget: InvalidSquare,
		HalfMoveClock:   0,
		FullMoveNumber:  1,
	}
}

// advance derives the successor conditions after the side to move plays mv.
// moved is the piece before any promotion swap; captured is nil for quiet
// moves.
func (c GameConditions) advance(mv Move, moved Piece, captured *Piece) GameConditions {
	next := c
	next.SideToMove = c.SideToMove.Opponent()

	// Castling rights go away when the king or a rook leaves its home
	// square, or when a rook is captured on one.
	if moved.Type == King {
		next.Castling.revoke(c.SideToMove, true)
		next.Castling.revoke(c.SideToMove, false)
	}
	next.Castling.revokeForSquare(mv.From)
	next.Castling.revokeForSquare(mv.capturedSquare())

	// The en-passant target only survives the single ply after a double
	// pawn push.
	next.EnPassantTarget = InvalidSquare
	if moved.Type == Pawn && abs(mv.To.Rank-mv.From.Rank) == 2 {
		next.EnPassantTarget = Square{File: mv.From.File, Rank: (mv.From.Rank + mv.To.Rank) / 2}
	}

	if captured != nil || moved.Type == Pawn {
		next.HalfMoveClock = 0
	} else {
		next.HalfMoveClock = c.HalfMoveClock + 1
	}

	if c.SideToMove == Black {
		next.FullMoveNumber = c.FullMoveNumber + 1
	}
	return next
}

func (r *CastlingRights) revoke(s Side, kingSide bool) {
	switch {
	case s == White && kingSide:
		r.WhiteKingSide = false
	case s == White:
		r.WhiteQueenSide = false
	case kingSide:
		r.BlackKingSide = false
	default:
		r.BlackQueenSide = false
	}
}

// revokeForSquare clears the right tied to a rook home square, whether the
// rook moved off it or was captured on it.
func (r *CastlingRights) revokeForSquare(sq Square) {
	switch sq {
	case Square{File: 1, Rank: 1}:
		r.WhiteQueenSide = false
	case Square{File: 8, Rank: 1}:
		r.WhiteKingSide = false
	case Square{File: 1, Rank: 8}:
		r.BlackQueenSide = false
	case Square{File: 8, Rank: 8}:
		r.BlackKingSide = false
	}
}

func (r CastlingRights) has(s Side, kingSide bool) bool {
	switch {
	case s == White && kingSide:
		return r.WhiteKingSide
	case s == White:
		return r.WhiteQueenSide
	case kingSide:
		return r.BlackKingSide
	default:
		return r.BlackQueenSide
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
