package game

import (
	"net"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/they4kman/duelsweep/protocol"
)

// replyWith answers the next frame read from conn with reply
func replyWith(conn net.Conn, reply map[string]interface{}) <-chan error {
	done := make(chan error, 1)
	go func() {
		if _, err := protocol.ReadFrame(conn); err != nil {
			done <- err
			return
		}
		done <- protocol.WriteFrame(conn, reply)
	}()
	return done
}

func newPipeParticipant(t *testing.T) (*Participant, net.Conn) {
	t.Helper()
	serverSide, peerSide := net.Pipe()
	log, _ := test.NewNullLogger()
	participant := newParticipant(0, serverSide, log)
	t.Cleanup(func() {
		participant.Close()
		peerSide.Close()
	})
	return participant, peerSide
}

func TestAcknowledgedAcceptsAnyObject(t *testing.T) {
	for _, reply := range []map[string]interface{}{
		{"message": protocol.TextAck},
		{},
		{"unexpected": 1},
	} {
		participant, peer := newPipeParticipant(t)
		done := replyWith(peer, reply)

		if err := participant.acknowledged(protocol.NewStatus("hello")); err != nil {
			t.Errorf("acknowledgment %v rejected: %v", reply, err)
		}
		if err := <-done; err != nil {
			t.Fatal(err)
		}
	}
}

func TestAcknowledgedFailsOnMalformedReply(t *testing.T) {
	participant, peer := newPipeParticipant(t)
	done := replyWith(peer, map[string]interface{}{"grid": 5})

	err := participant.acknowledged(protocol.NewStatus("hello"))
	if errors.Cause(err) != protocol.ErrMalformed {
		t.Errorf("acknowledged() = %v, want %v", err, protocol.ErrMalformed)
	}
	<-done
}

func TestAcknowledgedFailsWhenPeerHangsUp(t *testing.T) {
	participant, peer := newPipeParticipant(t)
	go func() {
		protocol.ReadFrame(peer)
		peer.Close()
	}()

	err := participant.acknowledged(protocol.NewStatus("hello"))
	if errors.Cause(err) != protocol.ErrConnectionClosed {
		t.Errorf("acknowledged() = %v, want %v", err, protocol.ErrConnectionClosed)
	}
}
