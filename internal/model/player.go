package model

// PlayerColor is the seat a participant occupies.
type PlayerColor string

const (
	PlayerColorWhite PlayerColor = "white"
	PlayerColorBlack PlayerColor = "black"
)

// Player is a seated participant in a hosted game.
type Player struct {
	ID    string
	Color PlayerColor
}

// client renders the seat as the view broadcast to clients.
func (p Player) client(timeLeft int) ClientPlayer {
	return ClientPlayer{ID: p.ID, Color: p.Color, TimeLeft: timeLeft}
}

// ClientPlayer is the player view sent to clients.
type ClientPlayer struct {
	ID       string      `json:"name"`
	Color    PlayerColor `json:"color"`
	TimeLeft int         `json:"timeLeft"`
}
