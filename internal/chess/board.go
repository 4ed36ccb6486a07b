package chess

import "fmt"

// Board is an 8×8 grid of optional pieces. It is a pure data structure:
// it applies displacements unconditionally and never judges legality.
type Board struct {
	squares [8][8]*Piece
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{}
}

// StartingBoard returns a board in the standard starting position.
func StartingBoard() *Board {
	b := NewBoard()
	backPieces := []PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for file := 1; file <= 8; file++ {
		b.SetPiece(Square{File: file, Rank: 1}, &Piece{Side: White, Type: backPieces[file-1]})
		b.SetPiece(Square{File: file, Rank: 2}, &Piece{Side: White, Type: Pawn})
		b.SetPiece(Square{File: file, Rank: 7}, &Piece{Side: Black, Type: Pawn})
		b.SetPiece(Square{File: file, Rank: 8}, &Piece{Side: Black, Type: backPieces[file-1]})
	}
	return b
}

// PieceAt returns the piece on sq, or nil. Out-of-range access is a
// programming error and panics.
func (b *Board) PieceAt(sq Square) *Piece {
	if !sq.IsValid() {
		panic(fmt.Sprintf("chess: square out of range: %+v", sq))
	}
	return b.squares[sq.File-1][sq.Rank-1]
}

// SetPiece places p on sq, discarding whatever was there. A nil p clears
// the square. Out-of-range access panics.
func (b *Board) SetPiece(sq Square, p *Piece) {
	if !sq.IsValid() {
		panic(fmt.Sprintf("chess: square out of range: %+v", sq))
	}
	b.squares[sq.File-1][sq.Rank-1] = p
}

// IsOccupiedBySide reports whether a piece of the given side sits on an
// in-range square. Invalid squares are simply unoccupied.
func (b *Board) IsOccupiedBySide(sq Square, s Side) bool {
	if !sq.IsValid() {
		return false
	}
	p := b.squares[sq.File-1][sq.Rank-1]
	return p != nil && p.Side == s
}

// KingSquare scans for the side's king. It returns InvalidSquare if the
// king is missing, which callers must treat as a terminal inconsistency.
func (b *Board) KingSquare(s Side) Square {
	for file := 1; file <= 8; file++ {
		for rank := 1; rank <= 8; rank++ {
			p := b.squares[file-1][rank-1]
			if p != nil && p.Side == s && p.Type == King {
				return Square{File: file, Rank: rank}
			}
		}
	}
	return InvalidSquare
}

// OccupiedSquares returns every square holding a piece, files then ranks
// ascending.
func (b *Board) OccupiedSquares() []Square {
	var out []Square
	for file := 1; file <= 8; file++ {
		for rank := 1; rank <= 8; rank++ {
			if b.squares[file-1][rank-1] != nil {
				out = append(out, Square{File: file, Rank: rank})
			}
		}
	}
	return out
}

// SideSquares returns every square holding a piece of the given side.
func (b *Board) SideSquares(s Side) []Square {
	var out []Square
	for _, sq := range b.OccupiedSquares() {
		if b.PieceAt(sq).Side == s {
			out = append(out, sq)
		}
	}
	return out
}

// Clone deep-copies the board. Speculative boards used for legality
// simulation must never alias the original's pieces.
func (b *Board) Clone() *Board {
	c := NewBoard()
	for file := 0; file < 8; file++ {
		for rank := 0; rank < 8; rank++ {
			if p := b.squares[file][rank]; p != nil {
				c.squares[file][rank] = p.Clone()
			}
		}
	}
	return c
}

// Apply relocates pieces for mv unconditionally, including the secondary
// displacement of castles, the off-destination removal of en passant, and
// the piece swap of a resolved promotion. Legality is the rules layer's
// concern, not the board's.
func (b *Board) Apply(mv Move) {
	p := b.PieceAt(mv.From)
	b.SetPiece(mv.From, nil)
	switch mv.Kind {
	case MoveNormal:
		b.SetPiece(mv.To, p)
	case MoveCastle:
		b.SetPiece(mv.To, p)
		rook := b.PieceAt(mv.RookFrom)
		b.SetPiece(mv.RookFrom, nil)
		b.SetPiece(mv.rookTo(), rook)
	case MoveEnPassant:
		b.SetPiece(mv.To, p)
		b.SetPiece(mv.CaptureSquare, nil)
	case MovePromotion:
		if mv.Promotion != NoPieceType {
			b.SetPiece(mv.To, &Piece{Side: p.Side, Type: mv.Promotion})
		} else {
			// Unresolved promotion: the core displacement still
			// holds for legality simulation.
			b.SetPiece(mv.To, p)
		}
	}
}
