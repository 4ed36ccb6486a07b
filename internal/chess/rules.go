package chess

// Rules are stateless analyses over a board snapshot. Nothing here mutates
// the board it is handed; hypothetical moves run on clones.

// IsSquareAttacked reports whether any piece of friendly's opponent attacks
// sq. Rays are scanned outward from sq; the first occupied square along a
// ray blocks everything behind it regardless of its type. Knight attacks
// are blocking-independent and checked separately.
func IsSquareAttacked(b *Board, sq Square, friendly Side) bool {
	enemy := friendly.Opponent()
	for _, dir := range kingOffsets {
		diagonal := dir.File != 0 && dir.Rank != 0
		for dist, cur := 1, sq.Add(dir); cur.IsValid(); dist, cur = dist+1, cur.Add(dir) {
			p := b.PieceAt(cur)
			if p == nil {
				continue
			}
			if p.Side != enemy {
				break
			}
			switch p.Type {
			case Queen:
				return true
			case Rook:
				if !diagonal {
					return true
				}
			case Bishop:
				if diagonal {
					return true
				}
			case King:
				if dist == 1 {
					return true
				}
			case Pawn:
				// A pawn attacks diagonally forward, so from sq
				// the attacker sits one step along a diagonal
				// pointing against its own advance.
				if dist == 1 && diagonal && dir.Rank == -pawnForward(enemy) {
					return true
				}
			}
			break
		}
	}
	for _, off := range knightOffsets {
		cur := sq.Add(off)
		if !cur.IsValid() {
			continue
		}
		if p := b.PieceAt(cur); p != nil && p.Side == enemy && p.Type == Knight {
			return true
		}
	}
	return false
}

// IsPlayerInCheck reports whether the side's king square is attacked.
func IsPlayerInCheck(b *Board, s Side) bool {
	king := b.KingSquare(s)
	if !king.IsValid() {
		return false
	}
	return IsSquareAttacked(b, king, s)
}

// MoveObeysRules is the single source of truth for move legality: it
// rejects malformed displacements, king captures and friendly captures,
// then simulates the move on a cloned board and rejects it if it leaves
// the mover's own king in check. All move variants pass through here.
func MoveObeysRules(b *Board, mv Move, mover Side) bool {
	if !mv.From.IsValid() || !mv.To.IsValid() {
		return false
	}
	if target := b.PieceAt(mv.To); target != nil {
		// Kings are never capturable; checkmate ends the game before
		// a king-capturing move could be offered.
		if target.Type == King || target.Side == mover {
			return false
		}
	}
	sim := b.Clone()
	sim.Apply(mv)
	return !IsPlayerInCheck(sim, mover)
}

// IsPlayerCheckmated reports whether the side is in check with no legal
// moves. numLegalMoves is the caller's precomputed legal move count.
func IsPlayerCheckmated(b *Board, s Side, numLegalMoves int) bool {
	return numLegalMoves == 0 && IsPlayerInCheck(b, s)
}

// IsPlayerStalemated reports a drawn, non-checkmate end: either the side
// has no legal moves while not in check, or neither side retains enough
// material to ever deliver mate. The two conditions share one flag.
func IsPlayerStalemated(b *Board, s Side, numLegalMoves int) bool {
	if numLegalMoves == 0 && !IsPlayerInCheck(b, s) {
		return true
	}
	return insufficientMaterial(b, White) && insufficientMaterial(b, Black)
}

// insufficientMaterial reports whether the side cannot mate. A side with
// more than two pieces is always assumed sufficient; with two or fewer it
// is insufficient only when every piece is a king.
func insufficientMaterial(b *Board, s Side) bool {
	squares := b.SideSquares(s)
	if len(squares) > 2 {
		return false
	}
	for _, sq := range squares {
		if b.PieceAt(sq).Type != King {
			return false
		}
	}
	return true
}
