package chess

// GameEndReason distinguishes how a finished game ended.
type GameEndReason int

const (
	EndCheckmate GameEndReason = iota
	EndStalemate
	EndResignation
)

func (r GameEndReason) String() string {
	switch r {
	case EndCheckmate:
		return "checkmate"
	case EndStalemate:
		return "stalemate"
	case EndResignation:
		return "resignation"
	}
	return "unknown"
}

// EventKind identifies the change notifications a game emits.
type EventKind int

const (
	EventNewGame EventKind = iota
	EventMoveExecuted
	EventReset
	EventGameEnded
)

// Event is a fire-and-forget change signal. Reason and Winner are only
// meaningful for EventGameEnded, and Winner only when the end is decisive.
type Event struct {
	Kind   EventKind
	Reason GameEndReason
	Winner Side
	Drawn  bool
}

// Game owns the three lockstep timelines and is the only mutation path into
// a match: ExecuteMove, ElectPiece, ResetToHalfMove and Resign. It is
// single-threaded; callers serialize mutating calls themselves.
type Game struct {
	boards     *Timeline[*Board]
	conditions *Timeline[GameConditions]
	halfMoves  *Timeline[HalfMove]

	startingSide     Side
	pendingPromotion *Move

	ended     bool
	endReason GameEndReason
	winner    Side
	drawn     bool

	listeners []func(Event)
}

// NewGame starts a game from the standard starting position.
func NewGame() *Game {
	return newGameFrom(StartingBoard(), StartingConditions())
}

// newGameFrom seeds the board and conditions timelines with an initial
// snapshot, so half-move index i always maps to snapshot index i+1.
func newGameFrom(b *Board, cond GameConditions) *Game {
	g := &Game{
		boards:       NewTimeline[*Board](),
		conditions:   NewTimeline[GameConditions](),
		halfMoves:    NewTimeline[HalfMove](),
		startingSide: cond.SideToMove,
	}
	g.boards.Append(b)
	g.conditions.Append(cond)
	return g
}

// Subscribe registers a listener for change notifications. Listeners run
// synchronously on the mutating call. The new listener is handed an
// EventNewGame right away, so an observer attaching to a fresh or imported
// game learns of it without waiting for the first change.
func (g *Game) Subscribe(fn func(Event)) {
	g.listeners = append(g.listeners, fn)
	fn(Event{Kind: EventNewGame})
}

func (g *Game) notify(ev Event) {
	for _, fn := range g.listeners {
		fn(ev)
	}
}

// CurrentBoard returns the board at the head. Callers must treat it as
// read-only; mutation goes through ExecuteMove.
func (g *Game) CurrentBoard() *Board {
	return g.boards.Current()
}

// CurrentConditions returns the conditions at the head.
func (g *Game) CurrentConditions() GameConditions {
	return g.conditions.Current()
}

// InitialConditions returns the conditions of the game's first position,
// regardless of the head.
func (g *Game) InitialConditions() GameConditions {
	return g.conditions.At(0)
}

func (g *Game) SideToMove() Side {
	return g.conditions.Current().SideToMove
}

// StartingSide is the side to move in the game's initial position.
func (g *Game) StartingSide() Side {
	return g.startingSide
}

func (g *Game) FullMoveNumber() int {
	return g.conditions.Current().FullMoveNumber
}

// HalfMoves returns the executed plies up to the head. A rewound game
// reports only the plies before the head.
func (g *Game) HalfMoves() []HalfMove {
	return g.halfMoves.UpToHead()
}

// LatestHalfMoveIndex is the head ply index, -1 before the first move.
func (g *Game) LatestHalfMoveIndex() int {
	return g.halfMoves.Head()
}

// RecordedHalfMoves is the total number of stored plies, including any
// rewound-past future that has not been truncated yet.
func (g *Game) RecordedHalfMoves() int {
	return g.halfMoves.Len()
}

// CurrentPieces enumerates all occupied squares at the head.
func (g *Game) CurrentPieces() []Square {
	return g.boards.Current().OccupiedSquares()
}

// InCheck reports whether the side to move is in check.
func (g *Game) InCheck() bool {
	return IsPlayerInCheck(g.boards.Current(), g.SideToMove())
}

// Ended reports whether the game is over at the current head.
func (g *Game) Ended() bool {
	return g.ended
}

// Result returns how the game ended and the winner of a decisive end.
// Drawn is true for the stalemate/dead-position end.
func (g *Game) Result() (reason GameEndReason, winner Side, drawn bool) {
	return g.endReason, g.winner, g.drawn
}

// PendingPromotion returns the destination square of a promotion awaiting
// its replacement piece.
func (g *Game) PendingPromotion() (Square, bool) {
	if g.pendingPromotion == nil {
		return InvalidSquare, false
	}
	return g.pendingPromotion.To, true
}

// LegalMovesForPiece enumerates the legal moves of the piece on from.
// It reports false when the square holds no piece or the piece has no
// legal moves.
func (g *Game) LegalMovesForPiece(from Square) ([]Move, bool) {
	if !from.IsValid() {
		return nil, false
	}
	moves := legalMovesFrom(g.boards.Current(), g.conditions.Current(), from)
	if len(moves) == 0 {
		return nil, false
	}
	return moves, true
}

// HasLegalMoves reports whether the piece on from has any legal move.
func (g *Game) HasLegalMoves(from Square) bool {
	_, ok := g.LegalMovesForPiece(from)
	return ok
}

// LegalMove looks up the legal move from→to, returning the correctly-typed
// variant (plain, castle, en passant or promotion).
func (g *Game) LegalMove(from, to Square) (Move, bool) {
	moves, ok := g.LegalMovesForPiece(from)
	if !ok {
		return Move{}, false
	}
	for _, mv := range moves {
		if mv.To == to {
			return mv, true
		}
	}
	return Move{}, false
}

// ExecuteMove validates mv against the side to move at the head and applies
// it. Illegal moves leave the game untouched and return ErrIllegalMove.
// A promotion without an elected replacement piece is held pending and
// reported via ErrPromotionPending; ElectPiece completes it. While a
// promotion is pending every other mutation is refused.
func (g *Game) ExecuteMove(mv Move) error {
	if g.ended {
		return ErrGameOver
	}
	if g.pendingPromotion != nil {
		return ErrPromotionPending
	}
	if !mv.From.IsValid() || !mv.To.IsValid() {
		return ErrIllegalMove
	}
	p := g.boards.Current().PieceAt(mv.From)
	if p == nil || p.Side != g.SideToMove() {
		return ErrIllegalMove
	}
	legal, ok := g.LegalMove(mv.From, mv.To)
	if !ok {
		return ErrIllegalMove
	}
	if legal.Kind == MovePromotion && mv.Promotion != NoPieceType {
		// The caller supplied the replacement piece up front.
		if !validPromotion(mv.Promotion) {
			return ErrInvalidPromotion
		}
		legal.Promotion = mv.Promotion
	}
	if !legal.IsResolved() {
		pending := legal
		g.pendingPromotion = &pending
		return ErrPromotionPending
	}
	g.finalize(legal)
	return nil
}

// ElectPiece resolves a pending promotion with the chosen replacement and
// completes the suspended move.
func (g *Game) ElectPiece(choice PieceType) error {
	if g.ended {
		return ErrGameOver
	}
	if g.pendingPromotion == nil {
		return ErrNoPendingPromotion
	}
	if !validPromotion(choice) {
		return ErrInvalidPromotion
	}
	mv := *g.pendingPromotion
	mv.Promotion = choice
	g.pendingPromotion = nil
	g.finalize(mv)
	return nil
}

func validPromotion(t PieceType) bool {
	switch t {
	case Queen, Rook, Bishop, Knight:
		return true
	}
	return false
}

// finalize applies a fully resolved legal move: new board snapshot, new
// conditions snapshot, new half-move record, end-of-game evaluation and
// notifications.
func (g *Game) finalize(mv Move) {
	board := g.boards.Current()
	cond := g.conditions.Current()
	moved := *board.PieceAt(mv.From)

	var captured *Piece
	if victim := board.PieceAt(mv.capturedSquare()); victim != nil && victim.Side != moved.Side {
		captured = victim.Clone()
	}

	san := sanForMove(board, cond, mv)

	next := board.Clone()
	next.Apply(mv)
	nextCond := cond.advance(mv, moved, captured)

	opponent := nextCond.SideToMove
	replies := countLegalMoves(next, nextCond, opponent)
	check := IsPlayerInCheck(next, opponent)
	mate := IsPlayerCheckmated(next, opponent, replies)
	stale := IsPlayerStalemated(next, opponent, replies)

	if mate {
		san += "#"
	} else if check {
		san += "+"
	}

	g.boards.Append(next)
	g.conditions.Append(nextCond)
	g.halfMoves.Append(HalfMove{
		Move:            mv,
		Moved:           moved,
		Captured:        captured,
		CausedCheck:     check,
		CausedCheckmate: mate,
		CausedStalemate: stale,
		Notation:        san,
	})

	g.notify(Event{Kind: EventMoveExecuted})

	switch {
	case mate:
		g.ended = true
		g.endReason = EndCheckmate
		g.winner = moved.Side
		g.notify(Event{Kind: EventGameEnded, Reason: EndCheckmate, Winner: moved.Side})
	case stale:
		g.ended = true
		g.endReason = EndStalemate
		g.drawn = true
		g.notify(Event{Kind: EventGameEnded, Reason: EndStalemate, Drawn: true})
	}
}

// ResetToHalfMove rewinds (or re-advances) all three timelines to the given
// ply index without discarding later entries; the next executed move
// truncates the abandoned future. Index -1 is the starting position.
func (g *Game) ResetToHalfMove(index int) error {
	if err := g.halfMoves.SetHead(index); err != nil {
		return err
	}
	// Snapshot timelines carry the initial position at index 0, so ply i
	// maps to snapshot i+1. The heads always move together.
	if err := g.boards.SetHead(index + 1); err != nil {
		return err
	}
	if err := g.conditions.SetHead(index + 1); err != nil {
		return err
	}
	g.pendingPromotion = nil
	g.recomputeEnd()
	g.notify(Event{Kind: EventReset})
	return nil
}

// recomputeEnd re-derives the terminal state from the half-move at the new
// head. A resignation is not attached to any ply, so rewinding past one
// reopens the game.
func (g *Game) recomputeEnd() {
	g.ended = false
	g.drawn = false
	if g.halfMoves.Head() < 0 {
		return
	}
	hm := g.halfMoves.Current()
	switch {
	case hm.CausedCheckmate:
		g.ended = true
		g.endReason = EndCheckmate
		g.winner = hm.Moved.Side
	case hm.CausedStalemate:
		g.ended = true
		g.endReason = EndStalemate
		g.drawn = true
	}
}

// Resign ends the game in the opponent's favor.
func (g *Game) Resign(s Side) error {
	if g.ended {
		return ErrGameOver
	}
	g.ended = true
	g.endReason = EndResignation
	g.winner = s.Opponent()
	g.notify(Event{Kind: EventGameEnded, Reason: EndResignation, Winner: g.winner})
	return nil
}

// findMoveBySAN matches a SAN token against the legal moves of the side to
// move. Check, mate and annotation suffixes on the token are ignored; a
// promotion suffix selects the replacement piece. Used by the PGN reader.
func (g *Game) findMoveBySAN(token string) (Move, bool) {
	bare := trimSANSuffixes(token)
	promotion := NoPieceType
	if i := indexOfPromotion(bare); i >= 0 {
		promotion = pieceTypeFromLetter(bare[i+1:])
		if promotion == NoPieceType {
			return Move{}, false
		}
		bare = bare[:i]
	}
	board := g.boards.Current()
	cond := g.conditions.Current()
	for _, from := range board.SideSquares(g.SideToMove()) {
		for _, mv := range legalMovesFrom(board, cond, from) {
			cand := mv
			cand.Promotion = promotion
			san := sanForMove(board, cond, cand)
			if i := indexOfPromotion(san); i >= 0 {
				san = san[:i]
			}
			if san == bare {
				if cand.Kind == MovePromotion && promotion == NoPieceType {
					return Move{}, false
				}
				return cand, true
			}
		}
	}
	return Move{}, false
}

func trimSANSuffixes(token string) string {
	for len(token) > 0 {
		switch token[len(token)-1] {
		case '+', '#', '!', '?':
			token = token[:len(token)-1]
		default:
			return token
		}
	}
	return token
}

func indexOfPromotion(san string) int {
	for i := 0; i < len(san); i++ {
		if san[i] == '=' {
			return i
		}
	}
	return -1
}

func pieceTypeFromLetter(s string) PieceType {
	switch s {
	case "Q":
		return Queen
	case "R":
		return Rook
	case "B":
		return Bishop
	case "N":
		return Knight
	}
	return NoPieceType
}
