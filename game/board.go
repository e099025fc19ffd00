package game

import "github.com/they4kman/duelsweep/protocol"

// Board is a square grid of cells, indexed [x][y] with zero-based
// coordinates. It performs no bounds checking; callers validate moves
// before mutating it.
type Board struct {
	size  int
	cells [][]Cell
}

func NewBoard(size int) *Board {
	board := Board{
		size:  size,
		cells: make([][]Cell, size),
	}

	for x := 0; x < size; x++ {
		row := make([]Cell, size)
		board.cells[x] = row

		for y := 0; y < size; y++ {
			cell := &row[y]
			cell.x, cell.y = x, y
			cell.isOpen = true
		}
	}

	return &board
}

func (board *Board) Size() int {
	return board.size
}

func (board *Board) NumCells() int {
	return board.size * board.size
}

func (board *Board) CellAt(x, y int) *Cell {
	return &board.cells[x][y]
}

// Open opens the cell and reports whether it holds a mine
func (board *Board) Open(x, y int) bool {
	cell := board.CellAt(x, y)
	cell.open()
	return cell.isMine
}

func (board *Board) Close(x, y int) {
	board.CellAt(x, y).close()
}

func (board *Board) PlaceMine(x, y int) {
	board.CellAt(x, y).placeMine()
}

func (board *Board) CloseAll() {
	for x := range board.cells {
		for y := range board.cells[x] {
			board.cells[x][y].close()
		}
	}
}

func (board *Board) NumMines() int {
	count := 0
	for cell := range board.Cells() {
		if cell.isMine {
			count++
		}
	}
	return count
}

func (board *Board) NumOpen() int {
	count := 0
	for cell := range board.Cells() {
		if cell.isOpen {
			count++
		}
	}
	return count
}

// Cells yields every cell, row by row
func (board *Board) Cells() <-chan *Cell {
	out := make(chan *Cell)
	go func() {
		for x := range board.cells {
			for y := range board.cells[x] {
				out <- &board.cells[x][y]
			}
		}
		close(out)
	}()
	return out
}

// Snapshot copies the board into its wire representation
func (board *Board) Snapshot() protocol.Grid {
	grid := make(protocol.Grid, board.size)
	for x, row := range board.cells {
		grid[x] = make([]protocol.CellInfo, len(row))
		for y := range row {
			grid[x][y] = row[y].Info()
		}
	}
	return grid
}
