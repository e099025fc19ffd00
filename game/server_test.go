package game_test

import (
	"context"
	"io/ioutil"
	"net"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/they4kman/duelsweep/director/scripted"
	"github.com/they4kman/duelsweep/game"
	"github.com/they4kman/duelsweep/peer"
	"github.com/they4kman/duelsweep/protocol"
)

type serverRun struct {
	result *game.Result
	err    error
}

func startServer(t *testing.T, config game.GameConfig, log logrus.FieldLogger) (*game.Server, string, <-chan serverRun) {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	server := game.NewServer(config, log)
	done := make(chan serverRun, 1)
	go func() {
		result, err := server.Run(listener)
		done <- serverRun{result, err}
	}()

	return server, listener.Addr().String(), done
}

type player struct {
	client *peer.Client
	done   chan error
}

// connect dials the server and plays moves in order. Players are
// numbered in the order they connect.
func connect(t *testing.T, addr string, moves []protocol.Coord) *player {
	t.Helper()

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatal(err)
	}

	log, _ := test.NewNullLogger()
	p := &player{
		client: peer.NewClient(conn, scripted.New(moves...), ioutil.Discard, log),
		done:   make(chan error, 1),
	}
	go func() {
		p.done <- p.client.Run(context.Background())
	}()

	// Give the server time to accept, so ids follow connection order
	time.Sleep(20 * time.Millisecond)
	return p
}

func wait(t *testing.T, done <-chan serverRun) serverRun {
	t.Helper()
	select {
	case run := <-done:
		return run
	case <-time.After(10 * time.Second):
		t.Fatal("server did not finish")
		return serverRun{}
	}
}

func waitPlayer(t *testing.T, p *player) error {
	t.Helper()
	select {
	case err := <-p.done:
		return err
	case <-time.After(10 * time.Second):
		t.Fatal("player did not finish")
		return nil
	}
}

func row(x int) []protocol.Coord {
	coords := make([]protocol.Coord, 0, 5)
	for y := 1; y <= 5; y++ {
		coords = append(coords, protocol.Coord{X: x, Y: y})
	}
	return coords
}

func moves(groups ...[]protocol.Coord) []protocol.Coord {
	var all []protocol.Coord
	for _, group := range groups {
		all = append(all, group...)
	}
	return all
}

func TestGameOneSurvivorWins(t *testing.T) {
	log, _ := test.NewNullLogger()
	server, addr, done := startServer(t, game.NewGameConfig(), log)

	// Player 0 mines row 1 of player 1's board, after two rejected moves:
	// one out of range, one on a cell already mined.
	first := connect(t, addr, moves(
		[]protocol.Coord{{X: 0, Y: 3}, {X: 1, Y: 1}, {X: 1, Y: 1}},
		row(1)[1:],
		// 16 safe probes, then row 5 where player 1 hid every mine
		row(1), row(2), row(3), row(4)[:1],
		row(5),
	))
	// Player 1 mines row 5 of player 0's board, then probes its own board
	// leaving the mined row 1 for last, with one rejected repeat probe.
	second := connect(t, addr, moves(
		row(5),
		[]protocol.Coord{{X: 2, Y: 1}, {X: 2, Y: 1}},
		row(2)[1:], row(3), row(4), row(5),
		row(1),
	))

	run := wait(t, done)
	if run.err != nil {
		t.Fatalf("Run: %v", run.err)
	}
	if err := waitPlayer(t, first); err != nil {
		t.Errorf("player 0: %v", err)
	}
	if err := waitPlayer(t, second); err != nil {
		t.Errorf("player 1: %v", err)
	}

	p0, p1 := run.result.Players[0], run.result.Players[1]
	if p0.CountPlaceMine != 5 || p1.CountPlaceMine != 5 {
		t.Errorf("placed %d and %d mines, want 5 each", p0.CountPlaceMine, p1.CountPlaceMine)
	}
	if !p0.IsLose || p0.CountDetonatedMine != 5 || p0.CountMove != 20 {
		t.Errorf("player 0 should lose after surviving 20 probes: %+v", p0)
	}
	if !p1.IsLose || p1.CountMove != 24 {
		t.Errorf("player 1 should hit the 5th mine on the last probe: %+v", p1)
	}
	if p0.Outcome != game.Loss || p1.Outcome != game.Win {
		t.Errorf("outcomes are %v / %v", p0.Outcome, p1.Outcome)
	}

	if got := first.client.Outcome(); got != protocol.OutcomeLoss {
		t.Errorf("player 0 was told %q, want %q", got, protocol.OutcomeLoss)
	}
	if got := second.client.Outcome(); got != protocol.OutcomeWin {
		t.Errorf("player 1 was told %q, want %q", got, protocol.OutcomeWin)
	}

	for id := 0; id < game.NumParticipants; id++ {
		if mines := server.Board(id).NumMines(); mines != 5 {
			t.Errorf("board %d holds %d mines", id, mines)
		}
	}
	if !server.Board(1).CellAt(0, 0).IsMine() || !server.Board(0).CellAt(4, 4).IsMine() {
		t.Error("mines landed on the wrong boards")
	}
	if server.Board(0).NumOpen() != 21 || server.Board(1).NumOpen() != 25 {
		t.Errorf("opened %d and %d cells", server.Board(0).NumOpen(), server.Board(1).NumOpen())
	}
	if server.Phase() != game.Finished {
		t.Errorf("server ended in phase %v", server.Phase())
	}
	if run.result.GameID != server.GameID() {
		t.Errorf("result is for game %s, server ran %s", run.result.GameID, server.GameID())
	}
}

func TestGameDrawWhenBothSurvive(t *testing.T) {
	log, _ := test.NewNullLogger()
	config := game.NewGameConfig()
	config.MineCount = 4
	_, addr, done := startServer(t, config, log)

	probes := moves(row(1), row(2), row(3), row(4), row(5))
	first := connect(t, addr, moves(row(3)[:4], probes))
	second := connect(t, addr, moves(row(5)[1:], probes))

	run := wait(t, done)
	if run.err != nil {
		t.Fatalf("Run: %v", run.err)
	}
	waitPlayer(t, first)
	waitPlayer(t, second)

	for _, player := range run.result.Players {
		if player.IsLose || player.CountMove != 25 || player.CountDetonatedMine != 4 {
			t.Errorf("player %d should survive all 25 probes: %+v", player.ID, player)
		}
		if player.Outcome != game.Draw {
			t.Errorf("player %d outcome is %v", player.ID, player.Outcome)
		}
	}
	if first.client.Outcome() != protocol.OutcomeDraw || second.client.Outcome() != protocol.OutcomeDraw {
		t.Errorf("players were told %q and %q", first.client.Outcome(), second.client.Outcome())
	}
}

func TestGameAbortsWhenAPlayerDisconnects(t *testing.T) {
	log, hook := test.NewNullLogger()
	server, addr, done := startServer(t, game.NewGameConfig(), log)

	// Player 0 runs out of moves after two mines, and hangs up
	first := connect(t, addr, row(1)[:2])
	second := connect(t, addr, moves(row(1), row(2)))

	run := wait(t, done)
	if run.err == nil {
		t.Fatal("Run should fail when a player disconnects mid-phase")
	}
	if run.result != nil {
		t.Errorf("aborted game produced a result: %+v", run.result)
	}
	if err := waitPlayer(t, first); errors.Cause(err) != scripted.ErrScriptExhausted {
		t.Errorf("player 0 ended with %v", err)
	}
	waitPlayer(t, second)

	if server.Phase() != game.MinePlacement {
		t.Errorf("server stopped in phase %v, want %v", server.Phase(), game.MinePlacement)
	}
	if second.client.Outcome() != "" {
		t.Errorf("player 1 was told %q after an aborted game", second.client.Outcome())
	}

	aborted := false
	for _, entry := range hook.AllEntries() {
		if entry.Message == "Aborting game" {
			aborted = true
		}
	}
	if !aborted {
		t.Error("abort was not logged")
	}
}

func TestCloseStopsAServerWaitingForPlayers(t *testing.T) {
	log, _ := test.NewNullLogger()
	server, addr, done := startServer(t, game.NewGameConfig(), log)

	connect(t, addr, nil)
	server.Close()

	run := wait(t, done)
	if run.err == nil {
		t.Error("Run should fail once the server is closed")
	}
	if server.Phase() != game.Accepting {
		t.Errorf("server left phase %v", server.Phase())
	}
}
