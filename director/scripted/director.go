// Package scripted replays a fixed list of moves, in order, whatever the
// server asks for.
package scripted

import (
	"context"
	"strconv"
	"strings"

	"github.com/gammazero/deque"
	"github.com/pkg/errors"
	"github.com/they4kman/duelsweep/peer"
	"github.com/they4kman/duelsweep/protocol"
)

var ErrScriptExhausted = errors.New("script has no moves left")

type Director struct {
	moves deque.Deque
}

func New(moves ...protocol.Coord) *Director {
	director := &Director{}
	director.Push(moves...)
	return director
}

// Push appends moves to the end of the script
func (director *Director) Push(moves ...protocol.Coord) {
	for _, move := range moves {
		director.moves.PushBack(move)
	}
}

func (director *Director) Remaining() int {
	return director.moves.Len()
}

func (director *Director) Flush() {}

func (director *Director) NextMove(ctx context.Context, stage protocol.Stage, view *peer.View) (protocol.Coord, error) {
	if err := ctx.Err(); err != nil {
		return protocol.Coord{}, err
	}
	if director.moves.Len() == 0 {
		return protocol.Coord{}, errors.Wrapf(ErrScriptExhausted, "%v", stage)
	}
	return director.moves.PopFront().(protocol.Coord), nil
}

// Parse reads a script of comma-separated "x y" pairs, such as
// "1 1, 2 3, 5 5"
func Parse(script string) ([]protocol.Coord, error) {
	var moves []protocol.Coord

	for i, pair := range strings.Split(script, ",") {
		if strings.TrimSpace(pair) == "" {
			continue
		}

		fields := strings.Fields(pair)
		if len(fields) != 2 {
			return nil, errors.Errorf("move %d: want \"x y\", got %q", i+1, pair)
		}
		x, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, errors.Wrapf(err, "move %d", i+1)
		}
		y, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, errors.Wrapf(err, "move %d", i+1)
		}
		moves = append(moves, protocol.Coord{X: x, Y: y})
	}

	return moves, nil
}
