package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/gridgames-backend/internal/entity"
	"github.com/rocketscienceinc/gridgames-backend/internal/pkg"
	"github.com/rocketscienceinc/gridgames-backend/internal/repository"
	"github.com/rocketscienceinc/gridgames-backend/internal/tictactoe"
)

// maxCodeAttempts bounds the short-code collision retry loop; the store
// is the only authority on uniqueness, so generation never tracks codes
// in-process.
const maxCodeAttempts = 3

// ErrCodeAttemptsExhausted means every generated short code collided
// with an existing game. Callers should retry the whole operation.
var ErrCodeAttemptsExhausted = errors.New("game code generation attempts exhausted")

type GameService interface {
	CreateGame(ctx context.Context, creatorID string, boardSize int) (*entity.Game, error)
	GetGameByCode(ctx context.Context, code string) (*entity.Game, error)
	ApplyMove(ctx context.Context, code string, row, col int, symbol entity.Cell) error
	AssignSecondPlayer(ctx context.Context, code, userID string) error
}

type gameRepo interface {
	Insert(ctx context.Context, game *entity.Game) error
	GetByCode(ctx context.Context, code string) (*entity.Game, error)
	SetCell(ctx context.Context, code string, row, col int, symbol entity.Cell) error
	AssignSecondPlayer(ctx context.Context, code, userID string) error
}

type gameService struct {
	logger   *slog.Logger
	gameRepo gameRepo
}

func NewGameService(logger *slog.Logger, gameRepo gameRepo) GameService {
	return &gameService{
		logger:   logger.With("component", "game_service"),
		gameRepo: gameRepo,
	}
}

// CreateGame initializes a fresh board, generates a short code and
// inserts the game, retrying with a new code on collision.
func (that *gameService) CreateGame(ctx context.Context, creatorID string, boardSize int) (*entity.Game, error) {
	board := tictactoe.NewBoard(boardSize)

	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		code, err := pkg.GenerateGameCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate game code: %w", err)
		}

		game := entity.NewGame(code, creatorID, board, time.Now().UTC())

		err = that.gameRepo.Insert(ctx, game)
		if err == nil {
			return game, nil
		}

		if !errors.Is(err, repository.ErrCodeTaken) {
			return nil, fmt.Errorf("failed to insert game: %w", err)
		}

		that.logger.Warn("game code collision, retrying", "code", code, "attempt", attempt)
	}

	return nil, ErrCodeAttemptsExhausted
}

func (that *gameService) GetGameByCode(ctx context.Context, code string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve game from storage: %w", err)
	}

	return game, nil
}

// ApplyMove writes exactly one cell, never the whole board, so two
// independent legal writes cannot be lost to a last-writer-wins replace.
func (that *gameService) ApplyMove(ctx context.Context, code string, row, col int, symbol entity.Cell) error {
	if err := that.gameRepo.SetCell(ctx, code, row, col, symbol); err != nil {
		return fmt.Errorf("failed to apply move: %w", err)
	}

	return nil
}

func (that *gameService) AssignSecondPlayer(ctx context.Context, code, userID string) error {
	if err := that.gameRepo.AssignSecondPlayer(ctx, code, userID); err != nil {
		return fmt.Errorf("failed to assign second player: %w", err)
	}

	return nil
}
