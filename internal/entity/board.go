package entity

type Cell string

const (
	CellX     Cell = "x"
	CellO     Cell = "o"
	CellEmpty Cell = "_"
)

// Board is a square grid of cells. A cell only ever transitions from
// empty to a player symbol, never back.
type Board [][]Cell

func (that Board) Size() int {
	return len(that)
}

func (that Board) InBounds(row, col int) bool {
	size := that.Size()
	return row >= 0 && row < size && col >= 0 && col < size
}

func (that Board) IsFull() bool {
	for _, rowCells := range that {
		for _, cell := range rowCells {
			if cell == CellEmpty {
				return false
			}
		}
	}

	return true
}
