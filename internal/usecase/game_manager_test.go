package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/gridgames-backend/internal/apperror"
	"github.com/rocketscienceinc/gridgames-backend/internal/entity"
	"github.com/rocketscienceinc/gridgames-backend/internal/repository"
	"github.com/rocketscienceinc/gridgames-backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubUsers is a user directory with a fixed set of known identities.
type stubUsers struct {
	known map[string]bool
}

func (that *stubUsers) GetUserByID(_ context.Context, id string) (*entity.User, error) {
	if !that.known[id] {
		return nil, repository.ErrUserNotFound
	}

	return &entity.User{ID: id}, nil
}

func newTestManager(t *testing.T) (context.Context, *GameManager) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gameService := service.NewGameService(logger, repository.NewGameRepository(client))
	users := &stubUsers{known: map[string]bool{"alice": true, "bob": true, "carol": true}}

	return context.Background(), NewGameManager(logger, users, gameService)
}

// startGame creates a game as alice and joins bob as O.
func startGame(ctx context.Context, t *testing.T, manager *GameManager) string {
	t.Helper()

	created, err := manager.CreateGame(ctx, "alice", 3)
	require.NoError(t, err)

	_, err = manager.JoinGame(ctx, "bob", created.Code)
	require.NoError(t, err)

	return created.Code
}

func TestGameManager_CreateGame(t *testing.T) {
	t.Run("Creates a pending game with the creator as X", func(t *testing.T) {
		ctx, manager := newTestManager(t)

		// When: alice creates a game
		view, err := manager.CreateGame(ctx, "alice", 3)

		// Then: the view is pending, shows alice as X, and has an empty 3x3 board
		require.NoError(t, err)
		assert.Equal(t, entity.StatusPending, view.Status)
		assert.Equal(t, "alice", view.PlayerXID)
		assert.Empty(t, view.PlayerOID)
		require.Equal(t, 3, view.Board.Size())
		for _, rowCells := range view.Board {
			for _, cell := range rowCells {
				assert.Equal(t, entity.CellEmpty, cell)
			}
		}
	})

	t.Run("Defaults the board size when none is given", func(t *testing.T) {
		ctx, manager := newTestManager(t)

		// When: creating a game with size zero
		view, err := manager.CreateGame(ctx, "alice", 0)

		// Then: the board is the default 3x3
		require.NoError(t, err)
		assert.Equal(t, 3, view.Board.Size())
	})

	t.Run("Rejects a negative board size", func(t *testing.T) {
		ctx, manager := newTestManager(t)

		// When: creating a game with a negative size
		_, err := manager.CreateGame(ctx, "alice", -2)

		// Then: it should be an invalid-argument error
		assert.ErrorIs(t, err, apperror.ErrInvalidBoardSize)
	})

	t.Run("Fails with NotFound for an unknown creator", func(t *testing.T) {
		ctx, manager := newTestManager(t)

		// When: an unknown identity creates a game
		_, err := manager.CreateGame(ctx, "mallory", 3)

		// Then: the user lookup failure should be surfaced
		assert.ErrorIs(t, err, apperror.ErrUserNotFound)
	})
}

func TestGameManager_GetGame(t *testing.T) {
	t.Run("Fails with NotFound for a missing game", func(t *testing.T) {
		ctx, manager := newTestManager(t)

		// When: fetching a code nobody created
		_, err := manager.GetGame(ctx, "NOPE0000", "alice")

		// Then: the game is not found
		assert.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("Hides game existence from non-participants", func(t *testing.T) {
		ctx, manager := newTestManager(t)
		code := startGame(ctx, t, manager)

		// When: carol, who is in neither seat, fetches the game
		_, err := manager.GetGame(ctx, code, "carol")

		// Then: the error kind is indistinguishable from a missing game
		require.Error(t, err)
		assert.ErrorIs(t, err, apperror.ErrGameAccessDenied)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})

	t.Run("Redacts the opponent identity per viewer", func(t *testing.T) {
		ctx, manager := newTestManager(t)
		code := startGame(ctx, t, manager)

		// When: each participant fetches the game
		forX, err := manager.GetGame(ctx, code, "alice")
		require.NoError(t, err)

		forO, err := manager.GetGame(ctx, code, "bob")
		require.NoError(t, err)

		// Then: each sees their own assignment and never the opponent's
		assert.Equal(t, "alice", forX.PlayerXID)
		assert.Empty(t, forX.PlayerOID)
		assert.Equal(t, "bob", forO.PlayerOID)
		assert.Empty(t, forO.PlayerXID)
	})
}

func TestGameManager_JoinGame(t *testing.T) {
	t.Run("Assigns the joiner as O and activates the game", func(t *testing.T) {
		ctx, manager := newTestManager(t)

		created, err := manager.CreateGame(ctx, "alice", 3)
		require.NoError(t, err)

		// When: bob joins
		view, err := manager.JoinGame(ctx, "bob", created.Code)

		// Then: the game is active and awaiting X
		require.NoError(t, err)
		assert.Equal(t, entity.StatusXNext, view.Status)
		assert.Equal(t, "bob", view.PlayerOID)
		assert.Empty(t, view.PlayerXID)
	})

	t.Run("Is idempotent for both existing participants", func(t *testing.T) {
		ctx, manager := newTestManager(t)
		code := startGame(ctx, t, manager)

		// When: either participant joins again
		forX, err := manager.JoinGame(ctx, "alice", code)
		require.NoError(t, err)

		forO, err := manager.JoinGame(ctx, "bob", code)
		require.NoError(t, err)

		// Then: the game is returned unchanged, no error
		assert.Equal(t, "alice", forX.PlayerXID)
		assert.Equal(t, "bob", forO.PlayerOID)
	})

	t.Run("Fails with Conflict when the game is already full", func(t *testing.T) {
		ctx, manager := newTestManager(t)
		code := startGame(ctx, t, manager)

		// When: a third user tries to join
		_, err := manager.JoinGame(ctx, "carol", code)

		// Then: the game is already full
		require.ErrorIs(t, err, apperror.ErrGameFull)
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	})

	t.Run("Fails with NotFound for a missing game or unknown user", func(t *testing.T) {
		ctx, manager := newTestManager(t)

		created, err := manager.CreateGame(ctx, "alice", 3)
		require.NoError(t, err)

		// When/Then: joining a missing game
		_, err = manager.JoinGame(ctx, "bob", "NOPE0000")
		assert.ErrorIs(t, err, apperror.ErrGameNotFound)

		// When/Then: joining with an unknown identity
		_, err = manager.JoinGame(ctx, "mallory", created.Code)
		assert.ErrorIs(t, err, apperror.ErrUserNotFound)
	})
}

func TestGameManager_MakeMove(t *testing.T) {
	t.Run("Applies X's first move and hands the turn to O", func(t *testing.T) {
		ctx, manager := newTestManager(t)
		code := startGame(ctx, t, manager)

		// When: alice places at (0,0)
		view, err := manager.MakeMove(ctx, "alice", code, 0, 0)

		// Then: the cell holds "x" and O is next
		require.NoError(t, err)
		assert.Equal(t, entity.CellX, view.Board[0][0])
		assert.Equal(t, entity.StatusONext, view.Status)
	})

	t.Run("Fails with Conflict when O moves first on a freshly joined game", func(t *testing.T) {
		ctx, manager := newTestManager(t)
		code := startGame(ctx, t, manager)

		// When: bob, holding O, moves before alice
		_, err := manager.MakeMove(ctx, "bob", code, 0, 0)

		// Then: the move is out of turn and names the expected symbol
		require.ErrorIs(t, err, apperror.ErrOutOfTurn)
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
		assert.Contains(t, err.Error(), "expected X")
	})

	t.Run("Fails with Forbidden for a non-participant", func(t *testing.T) {
		ctx, manager := newTestManager(t)
		code := startGame(ctx, t, manager)

		// When: carol tries to move on a game she is not part of
		_, err := manager.MakeMove(ctx, "carol", code, 0, 0)

		// Then: the move is forbidden
		require.ErrorIs(t, err, apperror.ErrNotParticipating)
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	})

	t.Run("Rejects occupied and off-board targets", func(t *testing.T) {
		ctx, manager := newTestManager(t)
		code := startGame(ctx, t, manager)

		_, err := manager.MakeMove(ctx, "alice", code, 0, 0)
		require.NoError(t, err)

		// When/Then: O aims at the occupied cell
		_, err = manager.MakeMove(ctx, "bob", code, 0, 0)
		assert.ErrorIs(t, err, apperror.ErrInvalidMove)

		// When/Then: O aims off the board
		_, err = manager.MakeMove(ctx, "bob", code, 3, 0)
		assert.ErrorIs(t, err, apperror.ErrInvalidMove)
		_, err = manager.MakeMove(ctx, "bob", code, 0, -1)
		assert.ErrorIs(t, err, apperror.ErrInvalidMove)
	})

	t.Run("Declares the win on the completing move and freezes the game", func(t *testing.T) {
		ctx, manager := newTestManager(t)
		code := startGame(ctx, t, manager)

		// Given: X (0,0), O (0,1), X (2,2), O (1,0)
		moves := []struct {
			user     string
			row, col int
		}{
			{"alice", 0, 0},
			{"bob", 0, 1},
			{"alice", 2, 2},
			{"bob", 1, 0},
		}
		for _, move := range moves {
			_, err := manager.MakeMove(ctx, move.user, code, move.row, move.col)
			require.NoError(t, err)
		}

		// When: X completes the main diagonal at (1,1)
		view, err := manager.MakeMove(ctx, "alice", code, 1, 1)

		// Then: X wins immediately
		require.NoError(t, err)
		assert.Equal(t, entity.StatusXWins, view.Status)

		// And: the terminal game accepts no further moves
		_, err = manager.MakeMove(ctx, "bob", code, 2, 0)
		require.ErrorIs(t, err, apperror.ErrGameFinished)
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	})

	t.Run("Declares a draw when the board fills with no line", func(t *testing.T) {
		ctx, manager := newTestManager(t)
		code := startGame(ctx, t, manager)

		// Given: nine alternating moves with no completed line
		moves := []struct {
			user     string
			row, col int
		}{
			{"alice", 0, 0},
			{"bob", 0, 1},
			{"alice", 0, 2},
			{"bob", 1, 1},
			{"alice", 1, 0},
			{"bob", 1, 2},
			{"alice", 2, 1},
			{"bob", 2, 0},
		}
		for _, move := range moves {
			_, err := manager.MakeMove(ctx, move.user, code, move.row, move.col)
			require.NoError(t, err)
		}

		// When: the last cell is filled
		view, err := manager.MakeMove(ctx, "alice", code, 2, 2)

		// Then: the game is a draw
		require.NoError(t, err)
		assert.Equal(t, entity.StatusDraw, view.Status)
	})

	t.Run("Fails with NotFound for a missing game or unknown user", func(t *testing.T) {
		ctx, manager := newTestManager(t)
		code := startGame(ctx, t, manager)

		// When/Then: moving on a missing game
		_, err := manager.MakeMove(ctx, "alice", "NOPE0000", 0, 0)
		assert.ErrorIs(t, err, apperror.ErrGameNotFound)

		// When/Then: moving with an unknown identity
		_, err = manager.MakeMove(ctx, "mallory", code, 0, 0)
		assert.ErrorIs(t, err, apperror.ErrUserNotFound)
	})
}
