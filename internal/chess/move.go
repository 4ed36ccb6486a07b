package chess

// MoveKind discriminates the move variants. Every site that resolves or
// serializes a move switches exhaustively over it.
type MoveKind int

const (
	MoveNormal MoveKind = iota
	MoveCastle
	MoveEnPassant
	MovePromotion
)

func (k MoveKind) String() string {
	switch k {
	case MoveNormal:
		return "normal"
	case MoveCastle:
		return "castle"
	case MoveEnPassant:
		return "en passant"
	case MovePromotion:
		return "promotion"
	}
	return "unknown"
}

// Move is one proposed or executed displacement. The variant payloads are
// only meaningful for their kind: RookFrom for castles, CaptureSquare for
// en passant (the captured pawn does not sit on To), Promotion for
// promotions (NoPieceType until a replacement piece has been elected).
type Move struct {
	Kind          MoveKind
	From          Square
	To            Square
	RookFrom      Square
	CaptureSquare Square
	Promotion     PieceType
}

// IsResolved reports whether the move can be executed as-is. Only a
// promotion without an elected replacement piece is unresolved.
func (m Move) IsResolved() bool {
	return m.Kind != MovePromotion || m.Promotion != NoPieceType
}

// capturedSquare is where a capture by this move lands. For en passant the
// victim sits beside the destination, not on it.
func (m Move) capturedSquare() Square {
	if m.Kind == MoveEnPassant {
		return m.CaptureSquare
	}
	return m.To
}

// rookTo is the rook's post-castle square, derived from which side of the
// king the rook starts on.
func (m Move) rookTo() Square {
	if m.RookFrom.File > m.From.File {
		return Square{File: m.To.File - 1, Rank: m.To.Rank}
	}
	return Square{File: m.To.File + 1, Rank: m.To.Rank}
}
