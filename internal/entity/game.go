package entity

import "time"

type GameStatus string

const (
	StatusPending GameStatus = "PENDING"
	StatusXNext   GameStatus = "X_NEXT"
	StatusONext   GameStatus = "O_NEXT"
	StatusXWins   GameStatus = "X_WINS"
	StatusOWins   GameStatus = "O_WINS"
	StatusDraw    GameStatus = "DRAW"
)

func (that GameStatus) IsTerminal() bool {
	return that == StatusXWins || that == StatusOWins || that == StatusDraw
}

// NextSymbol returns the symbol expected to move for an active status,
// or CellEmpty when no move is expected.
func (that GameStatus) NextSymbol() Cell {
	switch that {
	case StatusXNext:
		return CellX
	case StatusONext:
		return CellO
	default:
		return CellEmpty
	}
}

// Game is the stored record of a single match. Status is deliberately
// absent: it is recomputed from the board and join state on every read.
type Game struct {
	Code      string    `json:"code"`
	Board     Board     `json:"board"`
	PlayerXID string    `json:"player_x_id"`
	PlayerOID string    `json:"player_o_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewGame(code, creatorID string, board Board, now time.Time) *Game {
	return &Game{
		Code:      code,
		Board:     board,
		PlayerXID: creatorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (that *Game) HasSecondPlayer() bool {
	return that.PlayerOID != ""
}

func (that *Game) IsParticipant(userID string) bool {
	return that.PlayerXID == userID || (that.HasSecondPlayer() && that.PlayerOID == userID)
}

// SymbolOf returns the symbol assigned to the given user, or CellEmpty
// if the user is not a participant.
func (that *Game) SymbolOf(userID string) Cell {
	switch {
	case that.PlayerXID == userID:
		return CellX
	case that.HasSecondPlayer() && that.PlayerOID == userID:
		return CellO
	default:
		return CellEmpty
	}
}

// GameView is the per-viewer projection of a game. Exactly one of the
// player fields is populated: a viewer sees their own assignment but
// never the opponent's identity.
type GameView struct {
	Code      string     `json:"code"`
	Board     Board      `json:"board"`
	Status    GameStatus `json:"status"`
	PlayerXID string     `json:"player_x_id,omitempty"`
	PlayerOID string     `json:"player_o_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
