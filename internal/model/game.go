package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"chesshub/internal/chess"
	"chesshub/internal/ws"

	"github.com/gofiber/websocket/v2"
)

// The connections for a specific game
type GameConnections struct {
	connections map[string]*websocket.Conn // playerID -> connection
	mu          sync.RWMutex
}

// Game hosts a single match: the rules core plus players, clocks and
// observers. All rules questions are delegated to the core; this layer
// owns turn enforcement per player identity, time and broadcasting.
type Game struct {
	ID          string
	mu          sync.Mutex
	core        *chess.Game
	connections *GameConnections
	players     Players
	whiteClock  *Clock
	blackClock  *Clock
}

func NewGame(id string) *Game {
	return NewGameWithCore(id, chess.NewGame())
}

// NewGameWithCore hosts an already-built core, e.g. one reconstructed from
// FEN or PGN.
func NewGameWithCore(id string, core *chess.Game) *Game {
	g := &Game{
		ID:          id,
		core:        core,
		connections: NewGameConnections(),
		whiteClock:  NewClock(time.Duration(600) * time.Second),
		blackClock:  NewClock(time.Duration(600) * time.Second),
	}
	core.Subscribe(g.onCoreEvent)
	return g
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]*websocket.Conn),
	}
}

// onCoreEvent relays the core's change notifications to all observers.
// The core runs listeners synchronously inside the mutating call, so the
// game lock is already held here; broadcasting is deferred to a goroutine.
func (g *Game) onCoreEvent(ev chess.Event) {
	switch ev.Kind {
	case chess.EventNewGame, chess.EventMoveExecuted, chess.EventReset:
		go g.broadcastState()
	case chess.EventGameEnded:
		payload := map[string]string{"reason": ev.Reason.String()}
		if !ev.Drawn {
			payload["winner"] = ev.Winner.String()
		}
		go func() {
			g.broadcastState()
			g.broadcastMessage(ws.MessageTypeGameEnded, payload)
		}()
	}
}

// AddPlayer seats the player at the first open color.
func (g *Game) AddPlayer(playerID string) (PlayerColor, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.players.White.ID == "" {
		p := Player{ID: playerID, Color: PlayerColorWhite}
		g.players.White = p.client(6000)
		return p.Color, nil
	}
	if g.players.Black.ID == "" {
		p := Player{ID: playerID, Color: PlayerColorBlack}
		g.players.Black = p.client(6000)
		return p.Color, nil
	}
	return "", errors.New("game is full")
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return buildState(g.core, g.players)
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.isPlayerInGame(playerID)
}

func (g *Game) isPlayerInGame(playerID string) bool {
	if g.players.White.ID != "" && g.players.White.ID == playerID {
		return true
	}
	if g.players.Black.ID != "" && g.players.Black.ID == playerID {
		return true
	}
	return false
}

func (g *Game) CanSpectate() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.canSpectate()
}

func (g *Game) canSpectate() bool {
	return g.players.White.ID == "" || g.players.Black.ID == ""
}

// playerSide resolves which side the player is seated at.
func (g *Game) playerSide(playerID string) (chess.Side, error) {
	switch playerID {
	case g.players.White.ID:
		return chess.White, nil
	case g.players.Black.ID:
		return chess.Black, nil
	}
	return chess.White, errors.New("player not in game")
}

// MakeMove validates that it is the player's turn and hands the move to
// the core. A promotion needing a piece election is not an error: the
// move is held pending and the broadcast state carries the promotion
// square until ElectPromotion resolves it.
func (g *Game) MakeMove(playerID string, req MoveRequest) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	side, err := g.playerSide(playerID)
	if err != nil {
		return err
	}
	if side != g.core.SideToMove() {
		return errors.New("not your turn")
	}

	from, ok := chess.ParseSquare(req.From)
	if !ok {
		return fmt.Errorf("invalid from square %q", req.From)
	}
	to, ok := chess.ParseSquare(req.To)
	if !ok {
		return fmt.Errorf("invalid to square %q", req.To)
	}

	mv := chess.Move{From: from, To: to, Promotion: promotionPiece(req.Promotion)}
	if err := g.core.ExecuteMove(mv); err != nil {
		if errors.Is(err, chess.ErrPromotionPending) {
			go g.broadcastState()
			return nil
		}
		return err
	}

	g.switchClocks(side)
	return nil
}

// ElectPromotion resolves the pending promotion with the player's choice.
func (g *Game) ElectPromotion(playerID string, piece string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	side, err := g.playerSide(playerID)
	if err != nil {
		return err
	}
	if side != g.core.SideToMove() {
		return errors.New("not your turn")
	}

	choice := promotionPiece(piece)
	if choice == chess.NoPieceType {
		return fmt.Errorf("invalid promotion piece %q", piece)
	}
	if err := g.core.ElectPiece(choice); err != nil {
		return err
	}

	g.switchClocks(side)
	return nil
}

// ResetToHalfMove rewinds the match to an earlier ply for both players.
func (g *Game) ResetToHalfMove(index int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.core.ResetToHalfMove(index)
}

func (g *Game) Resign(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	side, err := g.playerSide(playerID)
	if err != nil {
		return err
	}
	return g.core.Resign(side)
}

// LegalMoves lists the destination squares of the piece on the given
// square.
func (g *Game) LegalMoves(square string) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	sq, ok := chess.ParseSquare(square)
	if !ok {
		return nil, fmt.Errorf("invalid square %q", square)
	}
	moves, _ := g.core.LegalMovesForPiece(sq)
	targets := make([]string, 0, len(moves))
	for _, mv := range moves {
		targets = append(targets, mv.To.String())
	}
	return targets, nil
}

// Export serializes the hosted game as "fen" or "pgn".
func (g *Game) Export(format string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch format {
	case "fen":
		return chess.FEN{}.Serialize(g.core)
	case "pgn":
		return chess.PGN{}.Serialize(g.core)
	}
	return "", fmt.Errorf("unknown format %q", format)
}

// switchClocks stops the mover's clock and starts the opponent's, then
// refreshes the client clock fields. Caller holds the lock.
func (g *Game) switchClocks(moved chess.Side) {
	if moved == chess.White {
		g.whiteClock.Stop()
		g.blackClock.Start()
	} else {
		g.blackClock.Stop()
		g.whiteClock.Start()
	}
	g.players.White.TimeLeft = int(g.whiteClock.GetTimeLeft().Milliseconds() / 100)
	g.players.Black.TimeLeft = int(g.blackClock.GetTimeLeft().Milliseconds() / 100)
}

func promotionPiece(s string) chess.PieceType {
	switch s {
	case "q", "queen":
		return chess.Queen
	case "r", "rook":
		return chess.Rook
	case "b", "bishop":
		return chess.Bishop
	case "n", "knight":
		return chess.Knight
	}
	return chess.NoPieceType
}

func (g *Game) RegisterConnection(playerID string, conn *websocket.Conn) error {
	g.mu.Lock()
	isAuthorized := g.isPlayerInGame(playerID) || g.canSpectate()
	g.mu.Unlock()

	if !isAuthorized {
		return errors.New("not authorized to join this game")
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		// If we already have a healthy connection, keep it and reject the new one
		g.connections.mu.Unlock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(
				websocket.CloseNormalClosure,
				"Connection already exists",
			),
		)
		conn.Close()
		return nil // Not really an error, just rejecting duplicate connection
	}

	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()

	// Send initial state to the new observer.
	go g.broadcastState()
	return nil
}

func (g *Game) UnregisterConnection(playerID string) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	delete(g.connections.connections, playerID)
}

func (g *Game) broadcastState() {
	g.broadcastMessage(ws.MessageTypeGameState, g.GetState())
}

func (g *Game) broadcastMessage(msgType ws.MessageType, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	msg := ws.Message{Type: msgType, Payload: json.RawMessage(raw)}

	// Snapshot the connections, then write without holding the lock.
	g.connections.mu.RLock()
	activeConnections := make(map[string]*websocket.Conn)
	for playerID, conn := range g.connections.connections {
		activeConnections[playerID] = conn
	}
	g.connections.mu.RUnlock()

	for playerID, conn := range activeConnections {
		if err := conn.WriteJSON(msg); err != nil {
			g.connections.mu.Lock()
			delete(g.connections.connections, playerID)
			g.connections.mu.Unlock()
		}
	}
}
