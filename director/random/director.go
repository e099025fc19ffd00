package random

import (
	"context"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"github.com/they4kman/duelsweep/peer"
	"github.com/they4kman/duelsweep/protocol"
	"github.com/they4kman/duelsweep/util/collections"
	"golang.org/x/time/rate"
)

var ErrNoMovesLeft = errors.New("no legal cell left to choose")

// Director picks uniformly among the cells of the local view that are
// legal for the requested stage, never choosing the same cell twice in
// a stage.
type Director struct {
	rand    *rand.Rand
	limiter *rate.Limiter
	tried   map[protocol.Stage]collections.Set[protocol.Coord]
}

// New creates a Director seeded with seed. A positive interval paces
// moves at most one per interval.
func New(seed int64, interval time.Duration) *Director {
	director := &Director{
		rand:  rand.New(rand.NewSource(seed)),
		tried: make(map[protocol.Stage]collections.Set[protocol.Coord]),
	}
	if interval > 0 {
		director.limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
	return director
}

func (director *Director) Flush() {}

func (director *Director) NextMove(ctx context.Context, stage protocol.Stage, view *peer.View) (protocol.Coord, error) {
	if director.limiter != nil {
		if err := director.limiter.Wait(ctx); err != nil {
			return protocol.Coord{}, err
		}
	}

	tried, ok := director.tried[stage]
	if !ok {
		tried = make(collections.Set[protocol.Coord])
		director.tried[stage] = tried
	}

	var candidates []protocol.Coord
	for x, row := range view.Grid {
		for y, cell := range row {
			coord := protocol.Coord{X: x + 1, Y: y + 1}
			if tried.Contains(coord) || !isLegal(stage, cell) {
				continue
			}
			candidates = append(candidates, coord)
		}
	}

	if len(candidates) == 0 {
		return protocol.Coord{}, errors.Wrapf(ErrNoMovesLeft, "%v", stage)
	}

	move := candidates[director.rand.Intn(len(candidates))]
	tried.Add(move)
	return move, nil
}

func isLegal(stage protocol.Stage, cell protocol.CellInfo) bool {
	switch stage {
	case protocol.StagePlaceMines:
		return !cell.IsMine
	case protocol.StageProbe:
		return !cell.IsOpen
	default:
		return false
	}
}
