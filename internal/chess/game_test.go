package chess

import (
	"errors"
	"testing"
)

// play executes a sequence of coordinate moves ("e2e4") and fails the test
// on any rejection.
func play(t *testing.T, g *Game, moves ...string) {
	t.Helper()
	for _, mv := range moves {
		if len(mv) != 4 {
			t.Fatalf("bad coordinate move %q", mv)
		}
		from := mustSquare(t, mv[:2])
		to := mustSquare(t, mv[2:])
		if err := g.ExecuteMove(Move{From: from, To: to}); err != nil {
			t.Fatalf("move %s: %v", mv, err)
		}
	}
}

func gameFromFEN(t *testing.T, fen string) *Game {
	t.Helper()
	g, err := FEN{}.Deserialize(fen)
	if err != nil {
		t.Fatalf("FEN deserialize %q: %v", fen, err)
	}
	return g
}

func TestScholarsMate(t *testing.T) {
	g := NewGame()
	play(t, g, "e2e4", "e7e5", "f1c4", "b8c6", "d1h5", "g8f6", "h5f7")

	history := g.HalfMoves()
	if len(history) != 7 {
		t.Fatalf("half-moves = %d, want 7", len(history))
	}
	last := history[6]
	if !last.CausedCheckmate {
		t.Fatal("final half-move did not cause checkmate")
	}
	if !last.CausedCheck {
		t.Fatal("checkmate should also flag check")
	}
	if last.Notation != "Qxf7#" {
		t.Fatalf("notation = %q, want Qxf7#", last.Notation)
	}
	if last.Captured == nil || last.Captured.Type != Pawn {
		t.Fatalf("captured = %+v, want black pawn", last.Captured)
	}

	if !g.Ended() {
		t.Fatal("game not ended")
	}
	reason, winner, drawn := g.Result()
	if reason != EndCheckmate || winner != White || drawn {
		t.Fatalf("result = %v/%v/%v, want checkmate/white/false", reason, winner, drawn)
	}

	for _, sq := range g.CurrentBoard().SideSquares(Black) {
		if g.HasLegalMoves(sq) {
			t.Fatalf("black still has legal moves from %v after mate", sq)
		}
	}

	if err := g.ExecuteMove(Move{From: mustSquare(t, "e8"), To: mustSquare(t, "f7")}); !errors.Is(err, ErrGameOver) {
		t.Fatalf("move after mate: err = %v, want ErrGameOver", err)
	}
}

func TestEnPassantOfferedAndExecuted(t *testing.T) {
	g := NewGame()
	play(t, g, "e2e4", "a7a6", "e4e5", "d7d5")

	mv, ok := g.LegalMove(mustSquare(t, "e5"), mustSquare(t, "d6"))
	if !ok {
		t.Fatal("exd6 en passant not offered")
	}
	if mv.Kind != MoveEnPassant {
		t.Fatalf("move kind = %v, want en passant", mv.Kind)
	}
	if mv.CaptureSquare != mustSquare(t, "d5") {
		t.Fatalf("capture square = %v, want d5", mv.CaptureSquare)
	}

	if err := g.ExecuteMove(mv); err != nil {
		t.Fatalf("execute en passant: %v", err)
	}

	board := g.CurrentBoard()
	if board.PieceAt(mustSquare(t, "d5")) != nil {
		t.Fatal("captured pawn still on d5")
	}
	if p := board.PieceAt(mustSquare(t, "d6")); p == nil || p.Side != White || p.Type != Pawn {
		t.Fatal("capturing pawn not on d6")
	}

	history := g.HalfMoves()
	last := history[len(history)-1]
	if last.Notation != "exd6" {
		t.Fatalf("notation = %q, want exd6", last.Notation)
	}
	if last.Captured == nil || last.Captured.Type != Pawn || last.Captured.Side != Black {
		t.Fatalf("captured = %+v, want black pawn", last.Captured)
	}
}

func TestEnPassantExpiresAfterOnePly(t *testing.T) {
	g := NewGame()
	play(t, g, "e2e4", "a7a6", "e4e5", "d7d5", "h2h3", "a6a5")

	if _, ok := g.LegalMove(mustSquare(t, "e5"), mustSquare(t, "d6")); ok {
		t.Fatal("en passant still offered a ply too late")
	}
}

func TestCastlingKingSide(t *testing.T) {
	g := gameFromFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")

	moves, ok := g.LegalMovesForPiece(mustSquare(t, "e1"))
	if !ok {
		t.Fatal("king has no moves")
	}
	var castle *Move
	for i := range moves {
		if moves[i].Kind == MoveCastle && moves[i].To == mustSquare(t, "g1") {
			castle = &moves[i]
		}
	}
	if castle == nil {
		t.Fatal("O-O not offered")
	}

	if err := g.ExecuteMove(*castle); err != nil {
		t.Fatalf("execute O-O: %v", err)
	}

	board := g.CurrentBoard()
	if p := board.PieceAt(mustSquare(t, "g1")); p == nil || p.Type != King {
		t.Fatal("king not on g1")
	}
	if p := board.PieceAt(mustSquare(t, "f1")); p == nil || p.Type != Rook {
		t.Fatal("rook not on f1")
	}

	cond := g.CurrentConditions()
	if cond.Castling.WhiteKingSide || cond.Castling.WhiteQueenSide {
		t.Fatal("white castling rights survived castling")
	}
	if !cond.Castling.BlackKingSide || !cond.Castling.BlackQueenSide {
		t.Fatal("black castling rights lost")
	}

	history := g.HalfMoves()
	if got := history[len(history)-1].Notation; got != "O-O" {
		t.Fatalf("notation = %q, want O-O", got)
	}
}

func TestCastlingBlockedThroughAttackedSquare(t *testing.T) {
	// Black rook on f8 covers f1, which the white king must cross.
	g := gameFromFEN(t, "4kr2/8/8/8/8/8/8/4K2R w K - 0 1")
	if _, ok := g.LegalMove(mustSquare(t, "e1"), mustSquare(t, "g1")); ok {
		t.Fatal("castling through an attacked square was offered")
	}
}

func TestCastlingRightRevokedByRookMove(t *testing.T) {
	g := gameFromFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	play(t, g, "h1h2", "a8a7", "h2h1", "a7a8")

	if _, ok := g.LegalMove(mustSquare(t, "e1"), mustSquare(t, "g1")); ok {
		t.Fatal("king-side castle offered after the rook moved")
	}
	if _, ok := g.LegalMove(mustSquare(t, "e1"), mustSquare(t, "c1")); !ok {
		t.Fatal("queen-side castle should still be offered")
	}
}

func TestPromotionAwaitsElection(t *testing.T) {
	g := gameFromFEN(t, "8/P6k/8/8/8/8/7K/8 w - - 0 1")

	err := g.ExecuteMove(Move{From: mustSquare(t, "a7"), To: mustSquare(t, "a8")})
	if !errors.Is(err, ErrPromotionPending) {
		t.Fatalf("err = %v, want ErrPromotionPending", err)
	}

	// Nothing is finalized while the choice is pending.
	if g.LatestHalfMoveIndex() != -1 {
		t.Fatal("half-move recorded before election")
	}
	if p := g.CurrentBoard().PieceAt(mustSquare(t, "a7")); p == nil || p.Type != Pawn {
		t.Fatal("pawn left a7 before election")
	}
	sq, pending := g.PendingPromotion()
	if !pending || sq != mustSquare(t, "a8") {
		t.Fatalf("pending promotion = %v/%v, want a8/true", sq, pending)
	}

	// Every other mutation is refused while pending.
	err = g.ExecuteMove(Move{From: mustSquare(t, "h2"), To: mustSquare(t, "h3")})
	if !errors.Is(err, ErrPromotionPending) {
		t.Fatalf("concurrent move err = %v, want ErrPromotionPending", err)
	}

	if err := g.ElectPiece(King); !errors.Is(err, ErrInvalidPromotion) {
		t.Fatalf("ElectPiece(King) err = %v, want ErrInvalidPromotion", err)
	}
	if err := g.ElectPiece(Queen); err != nil {
		t.Fatalf("ElectPiece(Queen): %v", err)
	}

	p := g.CurrentBoard().PieceAt(mustSquare(t, "a8"))
	if p == nil || p.Type != Queen || p.Side != White {
		t.Fatalf("a8 = %+v, want white queen", p)
	}
	if g.SideToMove() != Black {
		t.Fatal("turn did not pass after election")
	}
	history := g.HalfMoves()
	if got := history[len(history)-1].Notation; got != "a8=Q" {
		t.Fatalf("notation = %q, want a8=Q", got)
	}
}

func TestElectPieceRefusedAfterGameOver(t *testing.T) {
	g := gameFromFEN(t, "8/P6k/8/8/8/8/7K/8 w - - 0 1")

	err := g.ExecuteMove(Move{From: mustSquare(t, "a7"), To: mustSquare(t, "a8")})
	if !errors.Is(err, ErrPromotionPending) {
		t.Fatalf("err = %v, want ErrPromotionPending", err)
	}
	if err := g.Resign(White); err != nil {
		t.Fatalf("resign: %v", err)
	}

	if err := g.ElectPiece(Queen); !errors.Is(err, ErrGameOver) {
		t.Fatalf("ElectPiece on a resigned game: err = %v, want ErrGameOver", err)
	}
	if g.LatestHalfMoveIndex() != -1 {
		t.Fatal("half-move finalized in a finished game")
	}
	if p := g.CurrentBoard().PieceAt(mustSquare(t, "a7")); p == nil || p.Type != Pawn {
		t.Fatal("pawn left a7 in a finished game")
	}
}

func TestPromotionWithUpFrontChoice(t *testing.T) {
	g := gameFromFEN(t, "8/P6k/8/8/8/8/7K/8 w - - 0 1")

	err := g.ExecuteMove(Move{From: mustSquare(t, "a7"), To: mustSquare(t, "a8"), Promotion: Knight})
	if err != nil {
		t.Fatalf("one-shot promotion: %v", err)
	}
	if p := g.CurrentBoard().PieceAt(mustSquare(t, "a8")); p == nil || p.Type != Knight {
		t.Fatalf("a8 = %+v, want knight", p)
	}
	if err := g.ElectPiece(Queen); !errors.Is(err, ErrNoPendingPromotion) {
		t.Fatalf("ElectPiece after completion err = %v, want ErrNoPendingPromotion", err)
	}
}

func TestResetRewindsAndNewMoveTruncates(t *testing.T) {
	g := NewGame()
	play(t, g, "e2e4", "e7e5", "g1f3")

	if err := g.ResetToHalfMove(0); err != nil {
		t.Fatalf("reset: %v", err)
	}

	if g.LatestHalfMoveIndex() != 0 {
		t.Fatalf("head = %d, want 0", g.LatestHalfMoveIndex())
	}
	// Soft rewind: the discarded future survives until a new move.
	if g.RecordedHalfMoves() != 3 {
		t.Fatalf("recorded = %d, want 3", g.RecordedHalfMoves())
	}
	if g.SideToMove() != Black {
		t.Fatalf("side to move = %v, want black", g.SideToMove())
	}
	if p := g.CurrentBoard().PieceAt(mustSquare(t, "e7")); p == nil || p.Type != Pawn {
		t.Fatal("black pawn not back on e7 after rewind")
	}

	play(t, g, "b8c6")

	if g.RecordedHalfMoves() != 2 {
		t.Fatalf("recorded after branch = %d, want 2", g.RecordedHalfMoves())
	}
	if g.LatestHalfMoveIndex() != 1 {
		t.Fatalf("head after branch = %d, want 1", g.LatestHalfMoveIndex())
	}
	board := g.CurrentBoard()
	if p := board.PieceAt(mustSquare(t, "c6")); p == nil || p.Type != Knight {
		t.Fatal("knight not on c6")
	}
	if board.PieceAt(mustSquare(t, "f3")) != nil {
		t.Fatal("truncated future still on the board")
	}
}

func TestResetBounds(t *testing.T) {
	g := NewGame()
	play(t, g, "e2e4", "e7e5")

	if err := g.ResetToHalfMove(5); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("reset(5) err = %v, want ErrIndexOutOfRange", err)
	}
	if err := g.ResetToHalfMove(-2); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("reset(-2) err = %v, want ErrIndexOutOfRange", err)
	}
	if err := g.ResetToHalfMove(-1); err != nil {
		t.Fatalf("reset(-1): %v", err)
	}
	if g.SideToMove() != White {
		t.Fatal("rewind to start did not restore white to move")
	}
	if g.FullMoveNumber() != 1 {
		t.Fatalf("full move = %d, want 1", g.FullMoveNumber())
	}
}

func TestResetReopensFinishedGame(t *testing.T) {
	g := NewGame()
	play(t, g, "e2e4", "e7e5", "f1c4", "b8c6", "d1h5", "g8f6", "h5f7")

	if err := g.ResetToHalfMove(5); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if g.Ended() {
		t.Fatal("game still ended after rewinding past the mate")
	}
	play(t, g, "h5f7")
	if !g.Ended() {
		t.Fatal("replayed mate did not end the game")
	}
}

func TestLegalMovesIdempotent(t *testing.T) {
	g := NewGame()
	play(t, g, "e2e4", "e7e5")

	first, ok1 := g.LegalMovesForPiece(mustSquare(t, "g1"))
	second, ok2 := g.LegalMovesForPiece(mustSquare(t, "g1"))
	if !ok1 || !ok2 {
		t.Fatal("knight should have moves")
	}
	if len(first) != len(second) {
		t.Fatalf("move counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("move %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestIllegalMovesLeaveStateUntouched(t *testing.T) {
	g := NewGame()
	before, err := FEN{}.Serialize(g)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}

	attempts := []Move{
		{From: mustSquare(t, "e2"), To: mustSquare(t, "e5")}, // too far
		{From: mustSquare(t, "e7"), To: mustSquare(t, "e5")}, // not your piece
		{From: mustSquare(t, "e4"), To: mustSquare(t, "e5")}, // empty square
		{From: mustSquare(t, "a1"), To: mustSquare(t, "a2")}, // friendly capture
	}
	for _, mv := range attempts {
		if err := g.ExecuteMove(mv); !errors.Is(err, ErrIllegalMove) {
			t.Fatalf("ExecuteMove(%+v) err = %v, want ErrIllegalMove", mv, err)
		}
	}

	after, err := FEN{}.Serialize(g)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if before != after {
		t.Fatalf("state changed by rejected moves:\n%s\n%s", before, after)
	}
	if g.LatestHalfMoveIndex() != -1 {
		t.Fatal("half-move recorded for rejected move")
	}
}

func TestConditionsTracking(t *testing.T) {
	g := NewGame()

	play(t, g, "e2e4")
	cond := g.CurrentConditions()
	if cond.EnPassantTarget != mustSquare(t, "e3") {
		t.Fatalf("ep target = %v, want e3", cond.EnPassantTarget)
	}
	if cond.HalfMoveClock != 0 {
		t.Fatalf("half-move clock = %d, want 0 after pawn move", cond.HalfMoveClock)
	}
	if cond.FullMoveNumber != 1 {
		t.Fatalf("full move = %d, want 1", cond.FullMoveNumber)
	}

	play(t, g, "g8f6")
	cond = g.CurrentConditions()
	if cond.EnPassantTarget.IsValid() {
		t.Fatalf("ep target = %v, want none", cond.EnPassantTarget)
	}
	if cond.HalfMoveClock != 1 {
		t.Fatalf("half-move clock = %d, want 1 after knight move", cond.HalfMoveClock)
	}
	if cond.FullMoveNumber != 2 {
		t.Fatalf("full move = %d, want 2 after black's move", cond.FullMoveNumber)
	}

	play(t, g, "e1e2")
	cond = g.CurrentConditions()
	if cond.Castling.WhiteKingSide || cond.Castling.WhiteQueenSide {
		t.Fatal("white rights survived a king move")
	}
	if !cond.Castling.BlackKingSide || !cond.Castling.BlackQueenSide {
		t.Fatal("black rights lost on white's king move")
	}
}

func TestSANDisambiguation(t *testing.T) {
	t.Run("by file", func(t *testing.T) {
		g := gameFromFEN(t, "k7/8/8/8/8/2N1N3/8/K7 w - - 0 1")
		play(t, g, "c3d5")
		history := g.HalfMoves()
		if got := history[0].Notation; got != "Ncd5" {
			t.Fatalf("notation = %q, want Ncd5", got)
		}
	})
	t.Run("by rank", func(t *testing.T) {
		g := gameFromFEN(t, "k7/8/8/8/R7/8/R7/K7 w - - 0 1")
		play(t, g, "a4a3")
		history := g.HalfMoves()
		if got := history[0].Notation; got != "R4a3" {
			t.Fatalf("notation = %q, want R4a3", got)
		}
	})
}

func TestResign(t *testing.T) {
	g := NewGame()
	play(t, g, "e2e4")

	if err := g.Resign(Black); err != nil {
		t.Fatalf("resign: %v", err)
	}
	if !g.Ended() {
		t.Fatal("game not ended by resignation")
	}
	reason, winner, drawn := g.Result()
	if reason != EndResignation || winner != White || drawn {
		t.Fatalf("result = %v/%v/%v, want resignation/white/false", reason, winner, drawn)
	}
	if err := g.Resign(White); !errors.Is(err, ErrGameOver) {
		t.Fatalf("second resign err = %v, want ErrGameOver", err)
	}
}

func TestEvents(t *testing.T) {
	g := NewGame()
	var events []Event
	g.Subscribe(func(ev Event) { events = append(events, ev) })

	if len(events) != 1 || events[0].Kind != EventNewGame {
		t.Fatalf("events after subscribe = %+v, want one new-game", events)
	}

	play(t, g, "e2e4")
	if len(events) != 2 || events[1].Kind != EventMoveExecuted {
		t.Fatalf("events after move = %+v, want move-executed appended", events)
	}

	if err := g.ResetToHalfMove(-1); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if len(events) != 3 || events[2].Kind != EventReset {
		t.Fatalf("events after reset = %+v, want reset appended", events)
	}

	play(t, g, "e2e4", "e7e5", "f1c4", "b8c6", "d1h5", "g8f6", "h5f7")
	last := events[len(events)-1]
	if last.Kind != EventGameEnded || last.Reason != EndCheckmate || last.Winner != White {
		t.Fatalf("last event = %+v, want game-ended checkmate by white", last)
	}
	// The mating move notifies twice: executed, then ended.
	if prev := events[len(events)-2]; prev.Kind != EventMoveExecuted {
		t.Fatalf("event before game end = %+v, want move-executed", prev)
	}
}

func TestStartingSideSurvivesHistory(t *testing.T) {
	g := gameFromFEN(t, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1")
	if g.StartingSide() != Black {
		t.Fatalf("starting side = %v, want black", g.StartingSide())
	}
	play(t, g, "e7e5", "g1f3")
	if g.StartingSide() != Black {
		t.Fatal("starting side changed after moves")
	}
	if g.SideToMove() != Black {
		t.Fatalf("side to move = %v, want black", g.SideToMove())
	}
}
