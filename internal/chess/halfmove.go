package chess

import "strings"

// HalfMove records one executed ply. It is written once and never mutated.
type HalfMove struct {
	Move            Move
	Moved           Piece
	Captured        *Piece
	CausedCheck     bool
	CausedCheckmate bool
	CausedStalemate bool
	Notation        string
}

// sanForMove renders mv in standard algebraic notation against the position
// it is about to be played in. Check and mate suffixes are appended by the
// caller once the resulting position has been evaluated.
func sanForMove(b *Board, cond GameConditions, mv Move) string {
	if mv.Kind == MoveCastle {
		if mv.To.File < mv.From.File {
			return "O-O-O"
		}
		return "O-O"
	}

	p := b.PieceAt(mv.From)
	capture := mv.Kind == MoveEnPassant || b.PieceAt(mv.To) != nil
	var san strings.Builder

	if p.Type == Pawn {
		if capture {
			san.WriteString(mv.From.fileLetter())
			san.WriteString("x")
		}
		san.WriteString(mv.To.String())
		if mv.Kind == MovePromotion && mv.Promotion != NoPieceType {
			san.WriteString("=")
			san.WriteString(mv.Promotion.Letter())
		}
		return san.String()
	}

	san.WriteString(p.Type.Letter())
	san.WriteString(sanDisambiguation(b, cond, mv, p))
	if capture {
		san.WriteString("x")
	}
	san.WriteString(mv.To.String())
	return san.String()
}

// sanDisambiguation returns the minimal from-square qualifier needed when
// another piece of the same side and type can legally reach the same
// destination: file if files differ, else rank, else both.
func sanDisambiguation(b *Board, cond GameConditions, mv Move, p *Piece) string {
	sameFile, sameRank, ambiguous := false, false, false
	for _, sq := range b.SideSquares(p.Side) {
		if sq == mv.From {
			continue
		}
		other := b.PieceAt(sq)
		if other.Type != p.Type {
			continue
		}
		for _, cand := range legalMovesFrom(b, cond, sq) {
			if cand.To == mv.To {
				ambiguous = true
				if sq.File == mv.From.File {
					sameFile = true
				}
				if sq.Rank == mv.From.Rank {
					sameRank = true
				}
				break
			}
		}
	}
	switch {
	case !ambiguous:
		return ""
	case !sameFile:
		return mv.From.fileLetter()
	case !sameRank:
		return mv.From.String()[1:]
	default:
		return mv.From.String()
	}
}
