package service

import (
	"fmt"

	"chesshub/internal/chess"
	"chesshub/internal/model"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

func (gs *GameService) CreateGame() (string, error) {
	gameID := uuid.New().String()

	if err := gs.gameManager.CreateGame(gameID); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}

	return gameID, nil
}

// ImportGame creates a new hosted game from a serialized one. Format is
// "fen" for a single position or "pgn" for a full game record.
func (gs *GameService) ImportGame(format string, data string) (string, error) {
	var serializer chess.Serializer
	switch format {
	case "fen":
		serializer = chess.FEN{}
	case "pgn":
		serializer = chess.PGN{}
	default:
		return "", fmt.Errorf("unknown format %q", format)
	}

	core, err := serializer.Deserialize(data)
	if err != nil {
		return "", fmt.Errorf("failed to import game: %w", err)
	}

	gameID := uuid.New().String()
	if err := gs.gameManager.AddGame(model.NewGameWithCore(gameID, core)); err != nil {
		return "", fmt.Errorf("failed to import game: %w", err)
	}
	return gameID, nil
}

func (gs *GameService) JoinGame(gameID string, playerID string) (model.PlayerColor, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	return gs.gameManager.GetGameState(gameID)
}

func (gs *GameService) HandleMove(gameID string, playerID string, move model.MoveRequest) error {
	return gs.gameManager.MakeMove(gameID, playerID, move)
}

func (gs *GameService) HandlePromotion(gameID string, playerID string, piece string) error {
	return gs.gameManager.ElectPromotion(gameID, playerID, piece)
}

func (gs *GameService) HandleReset(gameID string, index int) error {
	return gs.gameManager.ResetToHalfMove(gameID, index)
}

func (gs *GameService) HandleResign(gameID string, playerID string) error {
	return gs.gameManager.Resign(gameID, playerID)
}

func (gs *GameService) LegalMoves(gameID string, square string) ([]string, error) {
	return gs.gameManager.LegalMoves(gameID, square)
}

func (gs *GameService) Export(gameID string, format string) (string, error) {
	return gs.gameManager.Export(gameID, format)
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn *websocket.Conn) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string) {
	gs.gameManager.UnregisterConnection(gameID, playerID)
}
