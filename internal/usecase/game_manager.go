package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rocketscienceinc/gridgames-backend/internal/apperror"
	"github.com/rocketscienceinc/gridgames-backend/internal/entity"
	"github.com/rocketscienceinc/gridgames-backend/internal/repository"
	"github.com/rocketscienceinc/gridgames-backend/internal/service"
	"github.com/rocketscienceinc/gridgames-backend/internal/tictactoe"
)

type userService interface {
	GetUserByID(ctx context.Context, id string) (*entity.User, error)
}

type gameService interface {
	CreateGame(ctx context.Context, creatorID string, boardSize int) (*entity.Game, error)
	GetGameByCode(ctx context.Context, code string) (*entity.Game, error)
	ApplyMove(ctx context.Context, code string, row, col int, symbol entity.Cell) error
	AssignSecondPlayer(ctx context.Context, code, userID string) error
}

// GameManager mediates every game-state transition: it checks identity
// and turn legality, delegates rule questions to the tictactoe package,
// and shapes what each viewer is allowed to see.
type GameManager struct {
	logger      *slog.Logger
	userService userService
	gameService gameService
}

func NewGameManager(logger *slog.Logger, userService userService, gameService gameService) *GameManager {
	return &GameManager{
		logger:      logger.With("component", "game_manager"),
		userService: userService,
		gameService: gameService,
	}
}

// CreateGame starts a new game with the creator as X and no second
// player yet.
func (that *GameManager) CreateGame(ctx context.Context, creatorID string, boardSize int) (*entity.GameView, error) {
	if boardSize == 0 {
		boardSize = tictactoe.DefaultBoardSize
	}

	if boardSize < 1 {
		return nil, apperror.ErrInvalidBoardSize
	}

	if _, err := that.lookupUser(ctx, creatorID); err != nil {
		return nil, err
	}

	game, err := that.gameService.CreateGame(ctx, creatorID, boardSize)
	if errors.Is(err, service.ErrCodeAttemptsExhausted) {
		// Surfaced as a generic transient failure; the collision detail
		// stays internal.
		that.logger.Error("unique game code generation failed", "error", err)

		return nil, apperror.ErrCodeGeneration
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	return formatForViewer(game, creatorID), nil
}

// GetGame returns the viewer's projection of a game. A non-participant
// gets an error indistinguishable from a missing game, so game codes
// cannot be probed for existence.
func (that *GameManager) GetGame(ctx context.Context, code, viewerID string) (*entity.GameView, error) {
	game, err := that.lookupGame(ctx, code)
	if err != nil {
		return nil, err
	}

	if !game.IsParticipant(viewerID) {
		return nil, apperror.ErrGameAccessDenied
	}

	return formatForViewer(game, viewerID), nil
}

// JoinGame assigns the joiner as O. Rejoining a game you are already in
// is idempotent; a third party is rejected.
func (that *GameManager) JoinGame(ctx context.Context, joinerID, code string) (*entity.GameView, error) {
	game, err := that.lookupGame(ctx, code)
	if err != nil {
		return nil, err
	}

	if _, err = that.lookupUser(ctx, joinerID); err != nil {
		return nil, err
	}

	if game.PlayerXID == joinerID {
		return formatForViewer(game, joinerID), nil
	}

	if game.HasSecondPlayer() {
		if game.PlayerOID == joinerID {
			return formatForViewer(game, joinerID), nil
		}

		return nil, apperror.ErrGameFull
	}

	err = that.gameService.AssignSecondPlayer(ctx, code, joinerID)
	if err != nil && !errors.Is(err, repository.ErrSecondPlayerTaken) {
		return nil, fmt.Errorf("failed to join game: %w", err)
	}

	// Re-read the authoritative record. Losing the conditional assign to
	// a concurrent joiner only succeeds if that joiner was us.
	game, err = that.lookupGame(ctx, code)
	if err != nil {
		return nil, err
	}

	if game.PlayerOID != joinerID {
		return nil, apperror.ErrGameFull
	}

	return formatForViewer(game, joinerID), nil
}

// MakeMove validates identity, turn order and move legality, then
// applies exactly one cell write and returns the refreshed view.
func (that *GameManager) MakeMove(ctx context.Context, userID, code string, row, col int) (*entity.GameView, error) {
	game, err := that.lookupGame(ctx, code)
	if err != nil {
		return nil, err
	}

	if _, err = that.lookupUser(ctx, userID); err != nil {
		return nil, err
	}

	symbol := game.SymbolOf(userID)
	if symbol == entity.CellEmpty {
		return nil, apperror.ErrNotParticipating
	}

	status := tictactoe.Status(game.Board)
	if status.IsTerminal() {
		return nil, apperror.ErrGameFinished
	}

	if expected := status.NextSymbol(); expected != symbol {
		return nil, fmt.Errorf("%w; expected %s", apperror.ErrOutOfTurn, strings.ToUpper(string(expected)))
	}

	if !tictactoe.IsMoveValid(game.Board, row, col) {
		return nil, apperror.ErrInvalidMove
	}

	err = that.gameService.ApplyMove(ctx, code, row, col, symbol)
	if errors.Is(err, repository.ErrCellOccupied) {
		// A concurrent move claimed the cell between our read and write.
		return nil, apperror.ErrInvalidMove
	}

	if err != nil {
		return nil, fmt.Errorf("failed to make move: %w", err)
	}

	game, err = that.lookupGame(ctx, code)
	if err != nil {
		return nil, err
	}

	return formatForViewer(game, userID), nil
}

func (that *GameManager) lookupGame(ctx context.Context, code string) (*entity.Game, error) {
	game, err := that.gameService.GetGameByCode(ctx, code)
	if errors.Is(err, repository.ErrGameNotFound) {
		return nil, apperror.ErrGameNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game by code: %w", err)
	}

	return game, nil
}

func (that *GameManager) lookupUser(ctx context.Context, id string) (*entity.User, error) {
	user, err := that.userService.GetUserByID(ctx, id)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, apperror.ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// formatForViewer is the redaction boundary: it derives the status and
// strips the opponent's identity. The stored record must never leave the
// session layer un-redacted.
func formatForViewer(game *entity.Game, viewerID string) *entity.GameView {
	status := tictactoe.Status(game.Board)
	if !game.HasSecondPlayer() {
		status = entity.StatusPending
	}

	view := &entity.GameView{
		Code:      game.Code,
		Board:     game.Board,
		Status:    status,
		CreatedAt: game.CreatedAt,
		UpdatedAt: game.UpdatedAt,
	}

	if game.HasSecondPlayer() && game.PlayerOID == viewerID {
		view.PlayerOID = game.PlayerOID
	} else {
		view.PlayerXID = game.PlayerXID
	}

	return view
}
