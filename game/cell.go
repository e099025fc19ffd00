package game

import (
	"fmt"

	"github.com/they4kman/duelsweep/protocol"
)

// Cell starts open and unmined. Once mined it stays mined.
type Cell struct {
	x, y int

	isOpen, isMine bool
}

func (cell *Cell) String() string {
	return fmt.Sprintf("Cell(%v, %v)", cell.x, cell.y)
}

func (cell *Cell) X() int {
	return cell.x
}

func (cell *Cell) Y() int {
	return cell.y
}

func (cell *Cell) IsOpen() bool {
	return cell.isOpen
}

func (cell *Cell) IsMine() bool {
	return cell.isMine
}

func (cell *Cell) open() {
	cell.isOpen = true
}

func (cell *Cell) close() {
	cell.isOpen = false
}

func (cell *Cell) placeMine() {
	cell.isMine = true
}

func (cell *Cell) Info() protocol.CellInfo {
	return protocol.CellInfo{
		IsOpen: cell.isOpen,
		IsMine: cell.isMine,
	}
}

func (cell *Cell) serialize() string {
	switch {
	case cell.isMine && cell.isOpen:
		return "*"
	case cell.isMine:
		return "O"
	case cell.isOpen:
		return "."
	default:
		return "#"
	}
}

func (cell *Cell) deserialize(c rune) bool {
	switch c {
	case '*':
		cell.isMine, cell.isOpen = true, true
	case 'O':
		cell.isMine, cell.isOpen = true, false
	case '.':
		cell.isMine, cell.isOpen = false, true
	case '#':
		cell.isMine, cell.isOpen = false, false
	default:
		return false
	}
	return true
}
