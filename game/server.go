package game

import (
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/they4kman/duelsweep/protocol"
)

var (
	ErrPhaseOrder     = errors.New("phases must advance one step at a time")
	ErrNotEnoughMines = errors.New("board does not hold every mine")
	ErrServerClosed   = errors.New("server closed")
)

// Result summarizes a finished game
type Result struct {
	GameID     string                             `json:"game_id"`
	StartedAt  time.Time                          `json:"started_at"`
	FinishedAt time.Time                          `json:"finished_at"`
	Players    [NumParticipants]ParticipantResult `json:"players"`

	// Paths of the board snapshots saved for this game, if any
	Snapshots []string `json:"snapshots,omitempty"`
}

// ResultRecorder persists finished games
type ResultRecorder interface {
	Record(result *Result) error
}

type ServerOption func(*Server)

func WithRecorder(recorder ResultRecorder) ServerOption {
	return func(server *Server) {
		server.recorder = recorder
	}
}

// Server runs a single game between the first two peers to connect.
// boards[i] holds the mines placed by participant i's opponent and is
// the board participant i probes.
type Server struct {
	config GameConfig
	gameID string
	log    logrus.FieldLogger

	recorder ResultRecorder

	boards []*Board

	mu           sync.Mutex
	phase        Phase
	closed       bool
	listener     net.Listener
	participants []*Participant

	abortOnce sync.Once
}

func NewServer(config GameConfig, log logrus.FieldLogger, opts ...ServerOption) *Server {
	gameID := uuid.New().String()

	server := &Server{
		config: config,
		gameID: gameID,
		log:    log.WithField("game", gameID),
		phase:  Accepting,
		boards: make([]*Board, NumParticipants),
	}
	for i := range server.boards {
		server.boards[i] = NewBoard(config.FieldSize)
	}
	for _, opt := range opts {
		opt(server)
	}

	return server
}

func (server *Server) GameID() string {
	return server.gameID
}

func (server *Server) Phase() Phase {
	server.mu.Lock()
	defer server.mu.Unlock()
	return server.phase
}

// Board returns the board participant id probes
func (server *Server) Board(id int) *Board {
	return server.boards[id]
}

// Run plays one game on peers accepted from listener. The listener and
// both connections are closed by the time Run returns.
func (server *Server) Run(listener net.Listener) (*Result, error) {
	defer server.Close()

	server.mu.Lock()
	if server.closed {
		server.mu.Unlock()
		listener.Close()
		return nil, ErrServerClosed
	}
	server.listener = listener
	server.mu.Unlock()

	startedAt := time.Now()
	server.log.WithField("addr", listener.Addr()).Info("Server started")

	if err := server.acceptParticipants(listener); err != nil {
		return nil, err
	}

	if err := server.advance(StartDistribution); err != nil {
		return nil, err
	}
	for _, participant := range server.participants {
		if err := server.sendStartGameData(participant); err != nil {
			return nil, err
		}
	}

	if err := server.advance(MinePlacement); err != nil {
		return nil, err
	}
	if err := server.inParallel(server.placeMines); err != nil {
		return nil, err
	}

	if err := server.advance(BoardReset); err != nil {
		return nil, err
	}
	if err := server.checkMines(); err != nil {
		return nil, err
	}
	for _, participant := range server.participants {
		if err := server.resetBoard(participant); err != nil {
			return nil, err
		}
	}

	if err := server.advance(ProbePhase); err != nil {
		return nil, err
	}
	if err := server.inParallel(server.probe); err != nil {
		return nil, err
	}

	if err := server.advance(Resolution); err != nil {
		return nil, err
	}
	outcomes := server.resolve()
	if err := server.sendEndGameData(outcomes); err != nil {
		return nil, err
	}

	if err := server.advance(Finished); err != nil {
		return nil, err
	}

	result := server.result(startedAt, outcomes)
	return result, server.archive(result)
}

// Close releases the listener and every connection. It unblocks a Run
// in progress, which then fails with a transport error.
func (server *Server) Close() error {
	server.mu.Lock()
	defer server.mu.Unlock()

	if !server.closed {
		server.log.Info("Server stopped")
	}
	server.closed = true

	var firstErr error
	if server.listener != nil {
		if err := server.listener.Close(); err != nil && firstErr == nil && !isClosedErr(err) {
			firstErr = err
		}
		server.listener = nil
	}
	for _, participant := range server.participants {
		if err := participant.Close(); err != nil && firstErr == nil && !isClosedErr(err) {
			firstErr = err
		}
	}

	return firstErr
}

func (server *Server) advance(next Phase) error {
	server.mu.Lock()
	defer server.mu.Unlock()

	if next != server.phase+1 {
		return errors.Wrapf(ErrPhaseOrder, "%v to %v", server.phase, next)
	}
	server.phase = next
	server.log.WithField("phase", next).Info("Entering phase")
	return nil
}

func (server *Server) acceptParticipants(listener net.Listener) error {
	server.log.Info("Waiting for players to connect")

	for len(server.participants) < NumParticipants {
		conn, err := listener.Accept()
		if err != nil {
			return errors.Wrap(err, "accepting players")
		}

		server.mu.Lock()
		participant := newParticipant(len(server.participants), conn, server.log)
		server.participants = append(server.participants, participant)
		server.mu.Unlock()

		participant.log.Info("Player connected")
	}

	server.log.Info("Both players connected, starting the game")
	return nil
}

// inParallel runs phase once per participant, each in its own goroutine,
// and waits for both. The first failure closes every connection so the
// other worker cannot block forever on a peer.
func (server *Server) inParallel(phase func(*Participant) error) error {
	workers := make([]func() error, len(server.participants))
	for i, participant := range server.participants {
		participant := participant
		workers[i] = func() error {
			if err := phase(participant); err != nil {
				server.abort(err)
				return err
			}
			return nil
		}
	}
	return RunAll(workers...)
}

func (server *Server) abort(cause error) {
	server.abortOnce.Do(func() {
		server.log.WithError(cause).Error("Aborting game")

		server.mu.Lock()
		defer server.mu.Unlock()
		for _, participant := range server.participants {
			participant.Close()
		}
	})
}

func (server *Server) sendStartGameData(participant *Participant) error {
	grid := server.boards[participant.Opponent()].Snapshot()
	return participant.acknowledged(protocol.NewGrid(grid))
}

// requestMove re-issues the directive until the participant answers it
// with a legal move for board
func (server *Server) requestMove(participant *Participant, board *Board, stage protocol.Stage) (protocol.Coord, error) {
	log := participant.log.WithField("stage", stage)

	for {
		reply, err := participant.exchange(protocol.NewMoveRequest(stage, protocol.PromptCoords))
		if err != nil {
			return protocol.Coord{}, err
		}

		if err := validateReply(board, stage, reply); err != nil {
			log.WithError(err).Warn("Rejected move")
			continue
		}

		log.Debugf("Accepted move %v", reply.Move)
		return reply.Move, nil
	}
}

func (server *Server) placeMines(participant *Participant) error {
	participant.log.Info("Player is placing mines")
	board := server.boards[participant.Opponent()]

	for i := 0; i < server.config.MineCount; i++ {
		move, err := server.requestMove(participant, board, protocol.StagePlaceMines)
		if err != nil {
			return err
		}

		x, y := move.X-1, move.Y-1
		board.PlaceMine(x, y)
		participant.CountPlaceMine++

		patch := protocol.CellPatch{
			X:    x,
			Y:    y,
			Info: protocol.CellInfo{IsOpen: true, IsMine: true},
		}
		if err := participant.acknowledged(protocol.NewCellPatch(protocol.StagePlaceMines, patch, protocol.PromptCoords)); err != nil {
			return err
		}
	}

	return nil
}

func (server *Server) checkMines() error {
	for id, board := range server.boards {
		if mines := board.NumMines(); mines != server.config.MineCount {
			return errors.Wrapf(ErrNotEnoughMines, "board %d holds %d of %d", id, mines, server.config.MineCount)
		}
	}
	return nil
}

func (server *Server) resetBoard(participant *Participant) error {
	board := server.boards[participant.ID]
	board.CloseAll()
	return participant.acknowledged(protocol.NewGrid(board.Snapshot()))
}

func (server *Server) probe(participant *Participant) error {
	participant.log.Info("Player is opening cells")
	board := server.boards[participant.ID]
	maxMoves := server.config.MaxMoves()

	for move := 0; move < maxMoves; move++ {
		coord, err := server.requestMove(participant, board, protocol.StageProbe)
		if err != nil {
			return err
		}

		x, y := coord.X-1, coord.Y-1
		text := protocol.TextMissed
		if board.Open(x, y) {
			participant.CountDetonatedMine++
			text = protocol.TextHit
		}

		patch := protocol.CellPatch{X: x, Y: y, Info: board.CellAt(x, y).Info()}
		if err := participant.acknowledged(protocol.NewCellPatch(protocol.StageProbe, patch, text)); err != nil {
			return err
		}

		if participant.CountDetonatedMine >= DetonationsToLose {
			participant.IsLose = true
			participant.CountMove = move
			participant.log.WithField("moves", move).Info("Player stepped on too many mines")
			return nil
		}
	}

	participant.CountMove = maxMoves
	return nil
}

// resolve compares how long each participant survived
func (server *Server) resolve() [NumParticipants]Outcome {
	first, second := server.participants[0], server.participants[1]

	switch {
	case first.CountMove > second.CountMove:
		return [NumParticipants]Outcome{Win, Loss}
	case first.CountMove < second.CountMove:
		return [NumParticipants]Outcome{Loss, Win}
	default:
		return [NumParticipants]Outcome{Draw, Draw}
	}
}

var outcomeTexts = map[Outcome]string{
	Win:  protocol.OutcomeWin,
	Loss: protocol.OutcomeLoss,
	Draw: protocol.OutcomeDraw,
}

func (server *Server) sendEndGameData(outcomes [NumParticipants]Outcome) error {
	for i, participant := range server.participants {
		participant.log.WithField("outcome", outcomes[i]).Info("Sending game outcome")
		if err := participant.acknowledged(protocol.NewStatus(outcomeTexts[outcomes[i]])); err != nil {
			return err
		}
	}
	return nil
}

func (server *Server) result(startedAt time.Time, outcomes [NumParticipants]Outcome) *Result {
	result := &Result{
		GameID:     server.gameID,
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
	}
	for i, participant := range server.participants {
		result.Players[i] = participant.result(outcomes[i])
	}
	return result
}

// archive saves board snapshots and records the result, as configured
func (server *Server) archive(result *Result) error {
	paths, err := server.config.saveSnapshots(result, server.boards)
	result.Snapshots = paths
	if err != nil {
		server.log.WithError(err).Error("Failed to save board snapshots")
		return errors.Wrap(err, "saving snapshots")
	}

	if server.recorder != nil {
		if err := server.recorder.Record(result); err != nil {
			server.log.WithError(err).Error("Failed to record game result")
			return errors.Wrap(err, "recording result")
		}
	}

	return nil
}

func isClosedErr(err error) bool {
	return errors.Is(err, net.ErrClosed)
}
