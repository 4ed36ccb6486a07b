package chess

// Move generation runs against any (board, conditions) pair, not just the
// live game head, so post-move check/mate evaluation can reuse it.

// legalMovesFrom enumerates the legal moves of the piece on from: its
// geometric candidates filtered through MoveObeysRules. Returns nil when
// the square is empty.
func legalMovesFrom(b *Board, cond GameConditions, from Square) []Move {
	p := b.PieceAt(from)
	if p == nil {
		return nil
	}
	var legal []Move
	for _, mv := range pseudoMovesFrom(b, cond, from) {
		if MoveObeysRules(b, mv, p.Side) {
			legal = append(legal, mv)
		}
	}
	return legal
}

// countLegalMoves totals the legal moves available to a side.
func countLegalMoves(b *Board, cond GameConditions, s Side) int {
	n := 0
	for _, sq := range b.SideSquares(s) {
		n += len(legalMovesFrom(b, cond, sq))
	}
	return n
}

// pseudoMovesFrom enumerates candidate moves before the own-king filter.
// Sliding pieces stop at the first blocker; pawns add the forward, double
// forward, diagonal capture and en passant cases; kings add castle
// candidates when rights, path clearance and non-check conditions hold.
func pseudoMovesFrom(b *Board, cond GameConditions, from Square) []Move {
	p := b.PieceAt(from)
	if p == nil {
		return nil
	}
	switch p.Type {
	case Pawn:
		return pawnMoves(b, cond, from, p.Side)
	case Knight, King:
		moves := leapMoves(b, from, p.Side, leapOffsets(p.Type))
		if p.Type == King {
			moves = append(moves, castleCandidates(b, cond, from, p.Side)...)
		}
		return moves
	case Bishop, Rook, Queen:
		return slideMoves(b, from, p.Side, slideDirections(p.Type))
	}
	return nil
}

func leapMoves(b *Board, from Square, s Side, offsets []Offset) []Move {
	var moves []Move
	for _, off := range offsets {
		to := from.Add(off)
		if to.IsValid() && !b.IsOccupiedBySide(to, s) {
			moves = append(moves, Move{Kind: MoveNormal, From: from, To: to})
		}
	}
	return moves
}

func slideMoves(b *Board, from Square, s Side, dirs []Offset) []Move {
	var moves []Move
	for _, dir := range dirs {
		for to := from.Add(dir); to.IsValid(); to = to.Add(dir) {
			target := b.PieceAt(to)
			if target == nil {
				moves = append(moves, Move{Kind: MoveNormal, From: from, To: to})
				continue
			}
			if target.Side != s {
				moves = append(moves, Move{Kind: MoveNormal, From: from, To: to})
			}
			break
		}
	}
	return moves
}

func pawnMoves(b *Board, cond GameConditions, from Square, s Side) []Move {
	var moves []Move
	fwd := pawnForward(s)

	one := from.Add(Offset{File: 0, Rank: fwd})
	if one.IsValid() && b.PieceAt(one) == nil {
		moves = append(moves, pawnAdvance(from, one, s))
		two := from.Add(Offset{File: 0, Rank: 2 * fwd})
		if from.Rank == pawnStartRank(s) && b.PieceAt(two) == nil {
			moves = append(moves, Move{Kind: MoveNormal, From: from, To: two})
		}
	}

	for _, df := range []int{-1, 1} {
		to := from.Add(Offset{File: df, Rank: fwd})
		if !to.IsValid() {
			continue
		}
		if b.IsOccupiedBySide(to, s.Opponent()) {
			moves = append(moves, pawnAdvance(from, to, s))
		} else if cond.EnPassantTarget.IsValid() && to == cond.EnPassantTarget {
			moves = append(moves, Move{
				Kind:          MoveEnPassant,
				From:          from,
				To:            to,
				CaptureSquare: Square{File: to.File, Rank: from.Rank},
			})
		}
	}
	return moves
}

// pawnAdvance wraps a pawn step or capture, upgrading it to an unresolved
// promotion when it reaches the last rank.
func pawnAdvance(from, to Square, s Side) Move {
	if to.Rank == promotionRank(s) {
		return Move{Kind: MovePromotion, From: from, To: to}
	}
	return Move{Kind: MoveNormal, From: from, To: to}
}

// castleCandidates yields castle moves whose preconditions hold: the right
// survives, the rook is home, the path is clear, and neither the king's
// square nor the squares it crosses are attacked.
func castleCandidates(b *Board, cond GameConditions, from Square, s Side) []Move {
	rank := backRank(s)
	if from != (Square{File: 5, Rank: rank}) {
		return nil
	}
	if IsSquareAttacked(b, from, s) {
		return nil
	}
	var moves []Move
	for _, kingSide := range []bool{true, false} {
		if !cond.Castling.has(s, kingSide) {
			continue
		}
		rookFrom := Square{File: 1, Rank: rank}
		between := []int{2, 3, 4}
		path := []int{4, 3}
		if kingSide {
			rookFrom = Square{File: 8, Rank: rank}
			between = []int{6, 7}
			path = []int{6, 7}
		}
		rook := b.PieceAt(rookFrom)
		if rook == nil || rook.Side != s || rook.Type != Rook {
			continue
		}
		clear := true
		for _, file := range between {
			if b.PieceAt(Square{File: file, Rank: rank}) != nil {
				clear = false
				break
			}
		}
		for _, file := range path {
			if IsSquareAttacked(b, Square{File: file, Rank: rank}, s) {
				clear = false
				break
			}
		}
		if !clear {
			continue
		}
		to := Square{File: 3, Rank: rank}
		if kingSide {
			to = Square{File: 7, Rank: rank}
		}
		moves = append(moves, Move{Kind: MoveCastle, From: from, To: to, RookFrom: rookFrom})
	}
	return moves
}
