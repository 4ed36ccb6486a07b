package chess

import (
	"fmt"
	"strconv"
	"strings"
)

// Serializer converts a game to and from a text notation. FEN encodes the
// single position at the game's head; PGN encodes the full move list.
type Serializer interface {
	Serialize(g *Game) (string, error)
	Deserialize(s string) (*Game, error)
}

// FEN serializes the head position in Forsyth-Edwards Notation:
// "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1".
type FEN struct{}

var fenPieceLetters = map[PieceType]string{
	Pawn:   "p",
	Knight: "n",
	Bishop: "b",
	Rook:   "r",
	Queen:  "q",
	King:   "k",
}

// Serialize encodes the six FEN fields for the position at the head. It
// refuses a position missing either king.
func (FEN) Serialize(g *Game) (string, error) {
	board := g.CurrentBoard()
	if !board.KingSquare(White).IsValid() || !board.KingSquare(Black).IsValid() {
		return "", ErrMissingKing
	}
	return encodePosition(board, g.CurrentConditions()), nil
}

// encodePosition renders any (board, conditions) pair as a FEN string.
func encodePosition(board *Board, cond GameConditions) string {
	var sb strings.Builder
	for rank := 8; rank >= 1; rank-- {
		empty := 0
		for file := 1; file <= 8; file++ {
			p := board.PieceAt(Square{File: file, Rank: rank})
			if p == nil {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			letter := fenPieceLetters[p.Type]
			if p.Side == White {
				letter = strings.ToUpper(letter)
			}
			sb.WriteString(letter)
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 1 {
			sb.WriteString("/")
		}
	}

	sb.WriteString(" ")
	if cond.SideToMove == White {
		sb.WriteString("w")
	} else {
		sb.WriteString("b")
	}

	sb.WriteString(" ")
	sb.WriteString(castlingField(cond.Castling))

	sb.WriteString(" ")
	sb.WriteString(cond.EnPassantTarget.String())

	fmt.Fprintf(&sb, " %d %d", cond.HalfMoveClock, cond.FullMoveNumber)
	return sb.String()
}

// Deserialize reconstructs a game whose initial position is the encoded
// one, with an empty move history.
func (FEN) Deserialize(s string) (*Game, error) {
	board, cond, err := parseFEN(s)
	if err != nil {
		return nil, err
	}
	return newGameFrom(board, cond), nil
}

func castlingField(r CastlingRights) string {
	var sb strings.Builder
	if r.WhiteKingSide {
		sb.WriteString("K")
	}
	if r.WhiteQueenSide {
		sb.WriteString("Q")
	}
	if r.BlackKingSide {
		sb.WriteString("k")
	}
	if r.BlackQueenSide {
		sb.WriteString("q")
	}
	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}

func parseFEN(s string) (*Board, GameConditions, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) != 6 {
		return nil, GameConditions{}, fmt.Errorf("%w: expected 6 fields, got %d", ErrInvalidFEN, len(fields))
	}

	board, err := parseFENBoard(fields[0])
	if err != nil {
		return nil, GameConditions{}, err
	}

	cond := GameConditions{EnPassantTarget: InvalidSquare}
	switch fields[1] {
	case "w":
		cond.SideToMove = White
	case "b":
		cond.SideToMove = Black
	default:
		return nil, GameConditions{}, fmt.Errorf("%w: bad side to move %q", ErrInvalidFEN, fields[1])
	}

	if fields[2] != "-" {
		for _, c := range fields[2] {
			switch c {
			case 'K':
				cond.Castling.WhiteKingSide = true
			case 'Q':
				cond.Castling.WhiteQueenSide = true
			case 'k':
				cond.Castling.BlackKingSide = true
			case 'q':
				cond.Castling.BlackQueenSide = true
			default:
				return nil, GameConditions{}, fmt.Errorf("%w: bad castling field %q", ErrInvalidFEN, fields[2])
			}
		}
	}

	if fields[3] != "-" {
		sq, ok := ParseSquare(fields[3])
		if !ok {
			return nil, GameConditions{}, fmt.Errorf("%w: bad en passant square %q", ErrInvalidFEN, fields[3])
		}
		cond.EnPassantTarget = sq
	}

	cond.HalfMoveClock, err = strconv.Atoi(fields[4])
	if err != nil || cond.HalfMoveClock < 0 {
		return nil, GameConditions{}, fmt.Errorf("%w: bad half-move clock %q", ErrInvalidFEN, fields[4])
	}
	cond.FullMoveNumber, err = strconv.Atoi(fields[5])
	if err != nil || cond.FullMoveNumber < 1 {
		return nil, GameConditions{}, fmt.Errorf("%w: bad full-move number %q", ErrInvalidFEN, fields[5])
	}

	if !board.KingSquare(White).IsValid() || !board.KingSquare(Black).IsValid() {
		return nil, GameConditions{}, fmt.Errorf("%w: %s", ErrInvalidFEN, ErrMissingKing)
	}
	return board, cond, nil
}

func parseFENBoard(field string) (*Board, error) {
	ranks := strings.Split(field, "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("%w: expected 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}
	board := NewBoard()
	for i, rankStr := range ranks {
		rank := 8 - i
		file := 1
		for _, c := range rankStr {
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			if file > 8 {
				return nil, fmt.Errorf("%w: rank %d overflows", ErrInvalidFEN, rank)
			}
			side := Black
			lower := c
			if c >= 'A' && c <= 'Z' {
				side = White
				lower = c + 'a' - 'A'
			}
			var t PieceType
			for pt, letter := range fenPieceLetters {
				if string(lower) == letter {
					t = pt
					break
				}
			}
			if t == NoPieceType {
				return nil, fmt.Errorf("%w: bad piece letter %q", ErrInvalidFEN, string(c))
			}
			board.SetPiece(Square{File: file, Rank: rank}, &Piece{Side: side, Type: t})
			file++
		}
		if file != 9 {
			return nil, fmt.Errorf("%w: rank %d has %d files", ErrInvalidFEN, rank, file-1)
		}
	}
	return board, nil
}
