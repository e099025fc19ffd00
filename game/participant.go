package game

import (
	"fmt"
	"net"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/they4kman/duelsweep/protocol"
)

// Participant is one connected peer and the counters the server keeps
// for it. Only the server's worker for this participant mutates it.
type Participant struct {
	ID   int
	Addr string

	CountMove          int
	CountPlaceMine     int
	CountDetonatedMine int
	IsLose             bool

	conn *protocol.Conn
	log  logrus.FieldLogger
}

func newParticipant(id int, conn net.Conn, log logrus.FieldLogger) *Participant {
	log = log.WithFields(logrus.Fields{
		"player": id,
		"remote": conn.RemoteAddr().String(),
	})

	return &Participant{
		ID:   id,
		Addr: conn.RemoteAddr().String(),
		conn: protocol.NewConn(conn, log),
		log:  log,
	}
}

func (participant *Participant) String() string {
	return fmt.Sprintf("player %d", participant.ID)
}

// Opponent is the id of the other participant, whose board this one
// mines and whose mines this one probes.
func (participant *Participant) Opponent() int {
	return NumParticipants - 1 - participant.ID
}

func (participant *Participant) Send(message protocol.Message) error {
	if err := participant.conn.Send(message); err != nil {
		return errors.Wrapf(err, "sending %v to %v", message.Kind, participant)
	}
	return nil
}

func (participant *Participant) Receive() (protocol.Message, error) {
	message, err := participant.conn.Receive()
	if err != nil {
		return message, errors.Wrapf(err, "receiving from %v", participant)
	}
	return message, nil
}

// exchange sends message and waits for the single reply it calls for
func (participant *Participant) exchange(message protocol.Message) (protocol.Message, error) {
	if err := participant.Send(message); err != nil {
		return protocol.Message{}, err
	}
	return participant.Receive()
}

// acknowledged sends message and discards the acknowledgment. Any
// well-formed reply counts, even one that is not a recognized message.
func (participant *Participant) acknowledged(message protocol.Message) error {
	_, err := participant.exchange(message)
	if errors.Cause(err) == protocol.ErrUnknownMessage {
		participant.log.WithError(err).Warn("Unrecognized acknowledgment")
		return nil
	}
	return err
}

func (participant *Participant) Close() error {
	return participant.conn.Close()
}

type ParticipantResult struct {
	ID                 int     `json:"id"`
	Addr               string  `json:"addr"`
	CountMove          int     `json:"count_move"`
	CountPlaceMine     int     `json:"count_place_mine"`
	CountDetonatedMine int     `json:"count_detonated_mine"`
	IsLose             bool    `json:"is_lose"`
	Outcome            Outcome `json:"outcome"`
}

func (participant *Participant) result(outcome Outcome) ParticipantResult {
	return ParticipantResult{
		ID:                 participant.ID,
		Addr:               participant.Addr,
		CountMove:          participant.CountMove,
		CountPlaceMine:     participant.CountPlaceMine,
		CountDetonatedMine: participant.CountDetonatedMine,
		IsLose:             participant.IsLose,
		Outcome:            outcome,
	}
}
