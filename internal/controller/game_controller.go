package controller

import (
	"errors"

	"chesshub/internal/model"
	"chesshub/internal/service"

	"github.com/gofiber/fiber/v2"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	gameID, err := gc.gameService.CreateGame()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

// ImportGame creates a game from a serialized FEN position or PGN record.
func (gc *GameController) ImportGame(c *fiber.Ctx) error {
	var body struct {
		Format string `json:"format"`
		Data   string `json:"data"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	gameID, err := gc.gameService.ImportGame(body.Format, body.Data)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Game imported",
		"game_id": gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	color, err := gc.gameService.JoinGame(gameID, playerID)
	if err != nil {
		return gameError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameID := c.Params("gameId")

	gameState, err := gc.gameService.GetGameState(gameID)
	if err != nil {
		return gameError(c, err)
	}

	return c.JSON(gameState)
}

func (gc *GameController) GetLegalMoves(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	square := c.Query("square")

	moves, err := gc.gameService.LegalMoves(gameID, square)
	if err != nil {
		return gameError(c, err)
	}

	return c.JSON(fiber.Map{
		"square": square,
		"moves":  moves,
	})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	var move model.MoveRequest
	if err := c.BodyParser(&move); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := gc.gameService.HandleMove(gameID, playerID, move); err != nil {
		return gameError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Move executed",
	})
}

func (gc *GameController) ElectPromotion(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	var body struct {
		Piece string `json:"piece"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := gc.gameService.HandlePromotion(gameID, playerID, body.Piece); err != nil {
		return gameError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Promotion elected",
	})
}

func (gc *GameController) ResetToHalfMove(c *fiber.Ctx) error {
	gameID := c.Params("gameId")

	var body struct {
		Index int `json:"index"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := gc.gameService.HandleReset(gameID, body.Index); err != nil {
		return gameError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game reset",
	})
}

func (gc *GameController) Resign(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	if err := gc.gameService.HandleResign(gameID, playerID); err != nil {
		return gameError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game resigned",
	})
}

func (gc *GameController) ExportGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	format := c.Query("format", "fen")

	data, err := gc.gameService.Export(gameID, format)
	if err != nil {
		return gameError(c, err)
	}
	return c.JSON(fiber.Map{
		"format": format,
		"data":   data,
	})
}

// gameError maps service errors onto HTTP statuses: unknown games are 404,
// everything else is a rejected request.
func gameError(c *fiber.Ctx, err error) error {
	status := fiber.StatusBadRequest
	if errors.Is(err, service.ErrGameNotFound) {
		status = fiber.StatusNotFound
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
