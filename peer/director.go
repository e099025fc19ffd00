package peer

import (
	"context"

	"github.com/they4kman/duelsweep/protocol"
)

// Director chooses the moves a peer sends when the server asks for one
type Director interface {
	// Flush discards input buffered before the current directive, so
	// keystrokes typed ahead of a prompt are never acted on
	Flush()

	// NextMove returns a one-based coordinate for stage
	NextMove(ctx context.Context, stage protocol.Stage, view *View) (protocol.Coord, error)
}
