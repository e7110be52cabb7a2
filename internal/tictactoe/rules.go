// Package tictactoe is the rules engine: pure, deterministic functions
// over a board value. Whether a second player has joined is a session
// concern and never shows up here.
package tictactoe

import "github.com/rocketscienceinc/gridgames-backend/internal/entity"

const DefaultBoardSize = 3

// NewBoard returns an all-empty square board of the given size. Sizes
// below 1 fall back to the default.
func NewBoard(size int) entity.Board {
	if size < 1 {
		size = DefaultBoardSize
	}

	board := make(entity.Board, size)
	for row := range board {
		board[row] = make([]entity.Cell, size)
		for col := range board[row] {
			board[row][col] = entity.CellEmpty
		}
	}

	return board
}

// IsMoveValid reports whether the target cell is on the board and still
// empty. Out-of-range coordinates are a normal false, not an error.
func IsMoveValid(board entity.Board, row, col int) bool {
	if !board.InBounds(row, col) {
		return false
	}

	return board[row][col] == entity.CellEmpty
}

// Status derives the game status from board content alone in a single
// pass. Each non-empty cell adds +1 (X) or -1 (O) to a running total for
// its row, its column and, when it sits on a diagonal, that diagonal;
// the first total to reach the board size in magnitude decides the
// winner immediately. A full board with no complete line is a draw;
// otherwise the move counts decide whose turn it is.
func Status(board entity.Board) entity.GameStatus {
	size := board.Size()

	rows := make([]int, size)
	cols := make([]int, size)

	var diagMain, diagAnti int
	var countX, countO int

	for row, rowCells := range board {
		for col, cell := range rowCells {
			if cell == entity.CellEmpty {
				continue
			}

			delta := 1
			if cell == entity.CellO {
				delta = -1
			}

			if cell == entity.CellX {
				countX++
			} else {
				countO++
			}

			rows[row] += delta
			if winner, ok := lineWinner(rows[row], size); ok {
				return winner
			}

			cols[col] += delta
			if winner, ok := lineWinner(cols[col], size); ok {
				return winner
			}

			if row == col {
				diagMain += delta
				if winner, ok := lineWinner(diagMain, size); ok {
					return winner
				}
			}

			if row+col == size-1 {
				diagAnti += delta
				if winner, ok := lineWinner(diagAnti, size); ok {
					return winner
				}
			}
		}
	}

	if countX+countO == size*size {
		return entity.StatusDraw
	}

	if countX > countO {
		return entity.StatusONext
	}

	return entity.StatusXNext
}

func lineWinner(total, size int) (entity.GameStatus, bool) {
	switch total {
	case size:
		return entity.StatusXWins, true
	case -size:
		return entity.StatusOWins, true
	default:
		return "", false
	}
}
