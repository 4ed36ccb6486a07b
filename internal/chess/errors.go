package chess

import "errors"

var (
	ErrIllegalMove        = errors.New("illegal move")
	ErrGameOver           = errors.New("game over")
	ErrPromotionPending   = errors.New("promotion pending")
	ErrNoPendingPromotion = errors.New("no pending promotion")
	ErrInvalidPromotion   = errors.New("invalid promotion piece")
	ErrIndexOutOfRange    = errors.New("half-move index out of range")
	ErrMissingKing        = errors.New("missing king")
	ErrInvalidFEN         = errors.New("invalid fen")
	ErrInvalidPGN         = errors.New("invalid pgn")
)
