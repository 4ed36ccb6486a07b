package controller

import (
	"encoding/json"
	"fmt"
	"log"

	"chesshub/internal/model"
	"chesshub/internal/service"
	"chesshub/internal/ws"

	"github.com/gofiber/websocket/v2"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		log.Printf("Failed to register connection: %v", err)
		c.Close()
		return
	}

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Printf("read error: %v", err)
			break
		}

		if messageType == websocket.TextMessage {
			var msg ws.Message
			if err := json.Unmarshal(message, &msg); err != nil {
				log.Printf("parse error: %v", err)
				continue
			}

			reply, err := wsc.handleMessage(gameID, playerID, msg)
			if err != nil {
				log.Printf("handle error: %v", err)
				wsc.sendError(c, err.Error())
				continue
			}
			if reply != nil {
				if err := c.WriteJSON(*reply); err != nil {
					log.Printf("write error: %v", err)
					break
				}
			}
		}
	}

	// Clean up when connection closes
	wsc.gameService.UnregisterConnection(gameID, playerID)
}

// Handle different types of incoming messages. Commands mutate the game and
// state reaches clients through the broadcast; queries return a direct reply
// for the asking connection.
func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) (*ws.Message, error) {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move model.MoveRequest
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return nil, err
		}
		return nil, wsc.gameService.HandleMove(gameID, playerID, move)

	case ws.MessageTypePromotion:
		var body struct {
			Piece string `json:"piece"`
		}
		if err := json.Unmarshal(msg.Payload, &body); err != nil {
			return nil, err
		}
		return nil, wsc.gameService.HandlePromotion(gameID, playerID, body.Piece)

	case ws.MessageTypeReset:
		var body struct {
			Index int `json:"index"`
		}
		if err := json.Unmarshal(msg.Payload, &body); err != nil {
			return nil, err
		}
		return nil, wsc.gameService.HandleReset(gameID, body.Index)

	case ws.MessageTypeResign:
		return nil, wsc.gameService.HandleResign(gameID, playerID)

	case ws.MessageTypeLegalMoves:
		var body struct {
			Square string `json:"square"`
		}
		if err := json.Unmarshal(msg.Payload, &body); err != nil {
			return nil, err
		}
		moves, err := wsc.gameService.LegalMoves(gameID, body.Square)
		if err != nil {
			return nil, err
		}
		payload, err := json.Marshal(map[string]any{
			"square": body.Square,
			"moves":  moves,
		})
		if err != nil {
			return nil, err
		}
		return &ws.Message{Type: ws.MessageTypeLegalMoves, Payload: json.RawMessage(payload)}, nil

	default:
		return nil, fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

// Helper method to send error messages
func (wsc *WebSocketController) sendError(c *websocket.Conn, errorMsg string) {
	payload, err := json.Marshal(fiberMapError(errorMsg))
	if err != nil {
		return
	}
	c.WriteJSON(ws.Message{
		Type:    ws.MessageTypeError,
		Payload: json.RawMessage(payload),
	})
}

func fiberMapError(msg string) map[string]string {
	return map[string]string{"error": msg}
}
