package protocol

import (
	"bufio"
	"io"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Conn exchanges Messages over a byte stream. Send and Receive may be
// called from different goroutines, but neither is safe to call
// concurrently with itself.
type Conn struct {
	rwc    io.ReadWriteCloser
	reader *bufio.Reader
	log    logrus.FieldLogger

	closeOnce sync.Once
	closeErr  error
}

func NewConn(rwc io.ReadWriteCloser, log logrus.FieldLogger) *Conn {
	return &Conn{
		rwc:    rwc,
		reader: bufio.NewReader(rwc),
		log:    log,
	}
}

func (conn *Conn) Send(message Message) error {
	wire := message.Wire()
	if err := WriteFrame(conn.rwc, wire); err != nil {
		conn.log.WithError(err).Error("Failed to send message")
		return err
	}
	conn.log.WithField("kind", message.Kind).Debugf("Sent %v", wire)
	return nil
}

func (conn *Conn) Receive() (Message, error) {
	wire, err := ReadFrame(conn.reader)
	if err != nil {
		if err == ErrConnectionClosed {
			conn.log.Debug("Peer closed the connection")
		} else {
			conn.log.WithError(err).Error("Failed to receive message")
		}
		return Message{}, err
	}

	message, err := Decode(wire)
	if err != nil {
		conn.log.WithError(err).Errorf("Failed to decode %v", wire)
		return Message{}, errors.Wrap(err, "decoding message")
	}

	conn.log.WithField("kind", message.Kind).Debugf("Received %v", wire)
	return message, nil
}

// Close is idempotent
func (conn *Conn) Close() error {
	conn.closeOnce.Do(func() {
		conn.closeErr = conn.rwc.Close()
	})
	return conn.closeErr
}
