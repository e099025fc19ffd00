package game

import (
	"fmt"

	"github.com/they4kman/duelsweep/protocol"
)

type InvalidMoveError struct {
	Stage  protocol.Stage
	Move   protocol.Coord
	Reason string
}

func (err *InvalidMoveError) Error() string {
	return fmt.Sprintf("invalid %v move %v: %s", err.Stage, err.Move, err.Reason)
}

// ValidateMove checks a one-based move against the board it targets:
// the opponent-target board while placing mines, the participant's own
// board while probing. It never mutates the board.
func ValidateMove(board *Board, stage protocol.Stage, move protocol.Coord) error {
	invalid := func(reason string) error {
		return &InvalidMoveError{Stage: stage, Move: move, Reason: reason}
	}

	if move.X < 1 || move.X > board.Size() || move.Y < 1 || move.Y > board.Size() {
		return invalid(fmt.Sprintf("coordinates must be within 1..%d", board.Size()))
	}

	cell := board.CellAt(move.X-1, move.Y-1)
	switch stage {
	case protocol.StagePlaceMines:
		if cell.IsMine() {
			return invalid("cell already holds a mine")
		}
	case protocol.StageProbe:
		if cell.IsOpen() {
			return invalid("cell is already open")
		}
	default:
		return invalid("unknown stage")
	}

	return nil
}

// validateReply checks that reply answers a directive for stage before
// validating the move it carries
func validateReply(board *Board, stage protocol.Stage, reply protocol.Message) error {
	if reply.Kind != protocol.KindMoveReply {
		return &InvalidMoveError{Stage: stage, Reason: fmt.Sprintf("expected a move, got %v", reply.Kind)}
	}
	if reply.Stage != stage {
		return &InvalidMoveError{Stage: stage, Move: reply.Move, Reason: fmt.Sprintf("reply is for %v", reply.Stage)}
	}
	return ValidateMove(board, stage, reply.Move)
}
