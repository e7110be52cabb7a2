package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rocketscienceinc/gridgames-backend/internal/apperror"
	"github.com/rocketscienceinc/gridgames-backend/internal/entity"
)

type gameManager interface {
	CreateGame(ctx context.Context, creatorID string, boardSize int) (*entity.GameView, error)
	GetGame(ctx context.Context, code, viewerID string) (*entity.GameView, error)
	JoinGame(ctx context.Context, joinerID, code string) (*entity.GameView, error)
	MakeMove(ctx context.Context, userID, code string, row, col int) (*entity.GameView, error)
}

type userService interface {
	CreateUser(ctx context.Context) (*entity.User, error)
}

type Handlers struct {
	logger      *slog.Logger
	gameManager gameManager
	userService userService
}

func NewHandlers(logger *slog.Logger, gameManager gameManager, userService userService) *Handlers {
	return &Handlers{
		logger:      logger.With("component", "rest"),
		gameManager: gameManager,
		userService: userService,
	}
}

func (that *Handlers) Ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (that *Handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	user, err := that.userService.CreateUser(r.Context())
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, user)
}

func (that *Handlers) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID    string `json:"user_id"`
		BoardSize int    `json:"board_size"`
	}

	if !that.decode(w, r, &req) {
		return
	}

	view, err := that.gameManager.CreateGame(r.Context(), req.UserID, req.BoardSize)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, view)
}

func (that *Handlers) GetGame(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	viewerID := r.URL.Query().Get("user_id")

	view, err := that.gameManager.GetGame(r.Context(), code, viewerID)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, view)
}

func (that *Handlers) JoinGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
	}

	if !that.decode(w, r, &req) {
		return
	}

	view, err := that.gameManager.JoinGame(r.Context(), req.UserID, mux.Vars(r)["code"])
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, view)
}

func (that *Handlers) MakeMove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
		Row    int    `json:"row"`
		Col    int    `json:"col"`
	}

	if !that.decode(w, r, &req) {
		return
	}

	view, err := that.gameManager.MakeMove(r.Context(), req.UserID, mux.Vars(r)["code"], req.Row, req.Col)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, view)
}

func (that *Handlers) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return false
	}

	return true
}

type errorBody struct {
	Error string `json:"error"`
}

// writeError maps application error kinds to stable HTTP statuses. Only
// errors without an application kind are hidden behind a generic 500.
func (that *Handlers) writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		that.logger.Error("unexpected error", "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})

		return
	}

	var status int
	switch appErr.Kind() {
	case apperror.KindNotFound:
		status = http.StatusNotFound
	case apperror.KindForbidden:
		status = http.StatusForbidden
	case apperror.KindConflict:
		status = http.StatusConflict
	case apperror.KindInvalidArgument:
		status = http.StatusBadRequest
	default:
		status = http.StatusInternalServerError
	}

	that.writeJSON(w, status, errorBody{Error: err.Error()})
}

func (that *Handlers) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}
