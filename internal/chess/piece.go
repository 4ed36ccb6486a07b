package chess

// Piece is one piece on the board. A piece lives on exactly one board
// square at a time; captures discard the captured piece.
type Piece struct {
	Side Side
	Type PieceType
}

func (p *Piece) Clone() *Piece {
	c := *p
	return &c
}

// Movement geometry tables shared by attack detection and move generation.
var (
	orthogonalDirs = []Offset{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	diagonalDirs   = []Offset{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	knightOffsets  = []Offset{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}}
	kingOffsets    = []Offset{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

// slideDirections returns the ray directions a sliding piece moves along,
// or nil for non-sliders.
func slideDirections(t PieceType) []Offset {
	switch t {
	case Bishop:
		return diagonalDirs
	case Rook:
		return orthogonalDirs
	case Queen:
		return kingOffsets
	}
	return nil
}

// leapOffsets returns the fixed offsets a stepping piece reaches, or nil
// for sliders and pawns.
func leapOffsets(t PieceType) []Offset {
	switch t {
	case Knight:
		return knightOffsets
	case King:
		return kingOffsets
	}
	return nil
}

// pawnForward is the rank direction a side's pawns advance in.
func pawnForward(s Side) int {
	if s == White {
		return 1
	}
	return -1
}

func pawnStartRank(s Side) int {
	if s == White {
		return 2
	}
	return 7
}

func promotionRank(s Side) int {
	if s == White {
		return 8
	}
	return 1
}

func backRank(s Side) int {
	if s == White {
		return 1
	}
	return 8
}
