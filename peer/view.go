package peer

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/they4kman/duelsweep/protocol"
)

// View is a peer's local picture of the board it is shown
type View struct {
	Grid    protocol.Grid
	Message string
}

func (view *View) Size() int {
	return len(view.Grid)
}

// CellAt looks up a zero-based cell, reporting false when it is outside
// the grid
func (view *View) CellAt(x, y int) (protocol.CellInfo, bool) {
	if x < 0 || x >= len(view.Grid) || y < 0 || y >= len(view.Grid[x]) {
		return protocol.CellInfo{}, false
	}
	return view.Grid[x][y], true
}

func (view *View) patch(patch *protocol.CellPatch) error {
	if _, ok := view.CellAt(patch.X, patch.Y); !ok {
		return errors.Errorf("cell patch (%d, %d) outside a %d-wide grid", patch.X, patch.Y, view.Size())
	}
	view.Grid[patch.X][patch.Y] = patch.Info
	return nil
}

const (
	glyphClosed = "##"
	glyphMine   = "💣"
	glyphEmpty  = "  "
)

// Render draws the grid as a box of cells followed by the current prompt
func Render(out io.Writer, view *View) error {
	var builder strings.Builder

	if view.Size() > 0 {
		border := strings.Repeat("+----", len(view.Grid[0])) + "+\n"
		builder.WriteString(border)
		for _, row := range view.Grid {
			builder.WriteString("| ")
			for _, cell := range row {
				switch {
				case !cell.IsOpen:
					builder.WriteString(glyphClosed)
				case cell.IsMine:
					builder.WriteString(glyphMine)
				default:
					builder.WriteString(glyphEmpty)
				}
				builder.WriteString(" | ")
			}
			builder.WriteString("\n")
			builder.WriteString(border)
		}
	}

	builder.WriteString(view.Message)
	builder.WriteString("\n")

	_, err := fmt.Fprint(out, builder.String())
	return err
}
