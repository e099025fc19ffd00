package random

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/they4kman/duelsweep/peer"
	"github.com/they4kman/duelsweep/protocol"
)

func newView(size int, open bool) *peer.View {
	grid := make(protocol.Grid, size)
	for x := range grid {
		grid[x] = make([]protocol.CellInfo, size)
		for y := range grid[x] {
			grid[x][y].IsOpen = open
		}
	}
	return &peer.View{Grid: grid}
}

func TestNextMovePlacesMinesOnFreeCells(t *testing.T) {
	view := newView(3, true)
	view.Grid[0][0].IsMine = true
	view.Grid[2][1].IsMine = true

	director := New(1, 0)
	seen := make(map[protocol.Coord]bool)

	for i := 0; i < 7; i++ {
		move, err := director.NextMove(context.Background(), protocol.StagePlaceMines, view)
		if err != nil {
			t.Fatalf("move %d: %v", i, err)
		}
		if move.X < 1 || move.X > 3 || move.Y < 1 || move.Y > 3 {
			t.Fatalf("move %v is out of range", move)
		}
		if view.Grid[move.X-1][move.Y-1].IsMine {
			t.Errorf("move %v lands on a mine", move)
		}
		if seen[move] {
			t.Errorf("move %v chosen twice", move)
		}
		seen[move] = true
	}

	_, err := director.NextMove(context.Background(), protocol.StagePlaceMines, view)
	if errors.Cause(err) != ErrNoMovesLeft {
		t.Errorf("got %v once every free cell was tried, want %v", err, ErrNoMovesLeft)
	}
}

func TestNextMoveProbesClosedCells(t *testing.T) {
	view := newView(2, false)
	view.Grid[1][0].IsOpen = true

	director := New(42, 0)
	for i := 0; i < 3; i++ {
		move, err := director.NextMove(context.Background(), protocol.StageProbe, view)
		if err != nil {
			t.Fatal(err)
		}
		if move == (protocol.Coord{X: 2, Y: 1}) {
			t.Error("chose a cell that is already open")
		}
	}
}

func TestNextMoveTracksStagesSeparately(t *testing.T) {
	view := newView(1, false)
	director := New(7, 0)

	if _, err := director.NextMove(context.Background(), protocol.StagePlaceMines, view); err != nil {
		t.Fatal(err)
	}
	if _, err := director.NextMove(context.Background(), protocol.StageProbe, view); err != nil {
		t.Errorf("probing should not be limited by mines already placed: %v", err)
	}
}

func TestNextMoveUnknownStage(t *testing.T) {
	_, err := New(1, 0).NextMove(context.Background(), protocol.StageNone, newView(2, false))
	if errors.Cause(err) != ErrNoMovesLeft {
		t.Errorf("got %v, want %v", err, ErrNoMovesLeft)
	}
}

func TestNextMoveIsPaced(t *testing.T) {
	view := newView(2, false)
	director := New(1, 30*time.Millisecond)

	start := time.Now()
	for i := 0; i < 3; i++ {
		if _, err := director.NextMove(context.Background(), protocol.StageProbe, view); err != nil {
			t.Fatal(err)
		}
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("three paced moves took only %v", elapsed)
	}
}

func TestNextMoveHonorsCancel(t *testing.T) {
	director := New(1, time.Hour)
	view := newView(2, false)

	if _, err := director.NextMove(context.Background(), protocol.StageProbe, view); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := director.NextMove(ctx, protocol.StageProbe, view); err == nil {
		t.Error("a cancelled wait should fail")
	}
}
