// Package chess implements the rules and game-state engine: board
// representation, legal move derivation, special moves, game history with
// rewind, and FEN/PGN serialization.
package chess

import "fmt"

// Side identifies one of the two players.
type Side int

const (
	White Side = iota
	Black
)

func (s Side) Opponent() Side {
	if s == White {
		return Black
	}
	return White
}

func (s Side) String() string {
	if s == White {
		return "white"
	}
	return "black"
}

// PieceType identifies one of the six piece kinds.
type PieceType int

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// Letter returns the SAN letter for the piece type. Pawns have none.
func (t PieceType) Letter() string {
	switch t {
	case Knight:
		return "N"
	case Bishop:
		return "B"
	case Rook:
		return "R"
	case Queen:
		return "Q"
	case King:
		return "K"
	}
	return ""
}

func (t PieceType) String() string {
	switch t {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	}
	return "none"
}

// Square is a board coordinate. File and Rank run 1..8; anything outside
// that range is invalid. The zero value is the invalid sentinel.
type Square struct {
	File int
	Rank int
}

// InvalidSquare is the out-of-range sentinel.
var InvalidSquare = Square{}

func (sq Square) IsValid() bool {
	return sq.File >= 1 && sq.File <= 8 && sq.Rank >= 1 && sq.Rank <= 8
}

// Offset is a file/rank displacement vector.
type Offset struct {
	File int
	Rank int
}

// Add returns the square displaced by off. The result may be invalid.
func (sq Square) Add(off Offset) Square {
	return Square{File: sq.File + off.File, Rank: sq.Rank + off.Rank}
}

// String returns algebraic notation ("e4"). Invalid squares render as "-".
func (sq Square) String() string {
	if !sq.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%c%d", 'a'+sq.File-1, sq.Rank)
}

func (sq Square) fileLetter() string {
	return fmt.Sprintf("%c", 'a'+sq.File-1)
}

// ParseSquare parses algebraic notation ("e4") into a Square.
func ParseSquare(s string) (Square, bool) {
	if len(s) != 2 {
		return InvalidSquare, false
	}
	sq := Square{File: int(s[0]-'a') + 1, Rank: int(s[1]-'0')}
	if !sq.IsValid() {
		return InvalidSquare, false
	}
	return sq, true
}
