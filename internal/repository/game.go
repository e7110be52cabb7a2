package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/gridgames-backend/internal/entity"
)

var (
	ErrGameNotFound = errors.New("game not found")

	// ErrCodeTaken is the uniqueness violation for short codes: another
	// game already claimed the key. Callers retry with a fresh code.
	ErrCodeTaken = errors.New("game code already taken")

	// ErrCellOccupied means the conditional cell write was refused
	// because the field already holds a symbol.
	ErrCellOccupied = errors.New("cell is already occupied")

	// ErrSecondPlayerTaken means the conditional O-assignment was
	// refused because another player claimed the seat first.
	ErrSecondPlayerTaken = errors.New("second player is already assigned")
)

const (
	fieldCode      = "code"
	fieldSize      = "size"
	fieldPlayerX   = "player_x"
	fieldPlayerO   = "player_o"
	fieldCreatedAt = "created_at"
	fieldUpdatedAt = "updated_at"

	cellFieldPrefix = "cell:"
)

type GameRepository interface {
	Insert(ctx context.Context, game *entity.Game) error
	GetByCode(ctx context.Context, code string) (*entity.Game, error)
	SetCell(ctx context.Context, code string, row, col int, symbol entity.Cell) error
	AssignSecondPlayer(ctx context.Context, code, userID string) error
}

// dbGame stores every game as a single Redis hash keyed by short code.
// Board cells live as one field per placed symbol, so a move is one
// conditional field write and two players can never overwrite each
// other's moves with a whole-board replace.
type dbGame struct {
	client *redis.Client
}

func NewGameRepository(client *redis.Client) GameRepository {
	return &dbGame{
		client: client,
	}
}

func gameKey(code string) string {
	return "game:" + code
}

func cellField(row, col int) string {
	return fmt.Sprintf("%s%d:%d", cellFieldPrefix, row, col)
}

func (that *dbGame) Insert(ctx context.Context, game *entity.Game) error {
	key := gameKey(game.Code)

	// The first writer claims the key via the code field; a refused
	// claim is a short-code collision.
	claimed, err := that.client.HSetNX(ctx, key, fieldCode, game.Code).Result()
	if err != nil {
		return fmt.Errorf("failed to claim game key: %w", err)
	}

	if !claimed {
		return ErrCodeTaken
	}

	fields := map[string]interface{}{
		fieldSize:      game.Board.Size(),
		fieldPlayerX:   game.PlayerXID,
		fieldCreatedAt: game.CreatedAt.UTC().Format(time.RFC3339Nano),
		fieldUpdatedAt: game.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}

	if err = that.client.HSet(ctx, key, fields).Err(); err != nil {
		return fmt.Errorf("failed to set game fields: %w", err)
	}

	return nil
}

func (that *dbGame) GetByCode(ctx context.Context, code string) (*entity.Game, error) {
	fields, err := that.client.HGetAll(ctx, gameKey(code)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get game by code: %w", err)
	}

	if len(fields) == 0 {
		return nil, ErrGameNotFound
	}

	return gameFromFields(fields)
}

func (that *dbGame) SetCell(ctx context.Context, code string, row, col int, symbol entity.Cell) error {
	key := gameKey(code)

	placed, err := that.client.HSetNX(ctx, key, cellField(row, col), string(symbol)).Result()
	if err != nil {
		return fmt.Errorf("failed to set cell: %w", err)
	}

	if !placed {
		return ErrCellOccupied
	}

	return that.touch(ctx, key)
}

func (that *dbGame) AssignSecondPlayer(ctx context.Context, code, userID string) error {
	key := gameKey(code)

	assigned, err := that.client.HSetNX(ctx, key, fieldPlayerO, userID).Result()
	if err != nil {
		return fmt.Errorf("failed to assign second player: %w", err)
	}

	if !assigned {
		return ErrSecondPlayerTaken
	}

	return that.touch(ctx, key)
}

func (that *dbGame) touch(ctx context.Context, key string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	if err := that.client.HSet(ctx, key, fieldUpdatedAt, now).Err(); err != nil {
		return fmt.Errorf("failed to bump updated_at: %w", err)
	}

	return nil
}

func gameFromFields(fields map[string]string) (*entity.Game, error) {
	size, err := strconv.Atoi(fields[fieldSize])
	if err != nil {
		return nil, fmt.Errorf("failed to parse board size: %w", err)
	}

	board := make(entity.Board, size)
	for row := range board {
		board[row] = make([]entity.Cell, size)
		for col := range board[row] {
			board[row][col] = entity.CellEmpty
		}
	}

	for field, value := range fields {
		if !strings.HasPrefix(field, cellFieldPrefix) {
			continue
		}

		var row, col int
		if _, err = fmt.Sscanf(field, cellFieldPrefix+"%d:%d", &row, &col); err != nil {
			return nil, fmt.Errorf("failed to parse cell field %q: %w", field, err)
		}

		if !board.InBounds(row, col) {
			return nil, fmt.Errorf("cell field %q is outside the %dx%d board", field, size, size)
		}

		board[row][col] = entity.Cell(value)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, fields[fieldCreatedAt])
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}

	updatedAt, err := time.Parse(time.RFC3339Nano, fields[fieldUpdatedAt])
	if err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return &entity.Game{
		Code:      fields[fieldCode],
		Board:     board,
		PlayerXID: fields[fieldPlayerX],
		PlayerOID: fields[fieldPlayerO],
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}
