// Package peer implements the player's side of a duelsweep connection:
// it follows the server's directives, keeps a local view of the board,
// and asks a Director for moves.
package peer

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/they4kman/duelsweep/protocol"
)

type Client struct {
	conn     *protocol.Conn
	director Director
	out      io.Writer
	log      logrus.FieldLogger

	view    View
	outcome string
}

func NewClient(rwc io.ReadWriteCloser, director Director, out io.Writer, log logrus.FieldLogger) *Client {
	return &Client{
		conn:     protocol.NewConn(rwc, log),
		director: director,
		out:      out,
		log:      log,
		view:     View{Message: protocol.PromptCoords},
	}
}

func (client *Client) View() *View {
	return &client.view
}

// Outcome is the game result announced by the server, or "" if the game
// has not finished
func (client *Client) Outcome() string {
	return client.outcome
}

// Run answers server messages until the server hangs up or ctx is done.
// A server closing the connection between messages ends Run cleanly.
func (client *Client) Run(ctx context.Context) error {
	defer client.conn.Close()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			client.conn.Close()
		case <-stop:
		}
	}()

	for {
		message, err := client.conn.Receive()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err == protocol.ErrConnectionClosed {
				client.log.Info("Server closed the connection")
				return nil
			}
			return err
		}

		reply, err := client.Handle(ctx, message)
		if err != nil {
			return err
		}

		if err := client.conn.Send(reply); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
	}
}

// Handle applies message to the local view and builds the reply the
// server expects: a move when one is requested, an acknowledgment
// otherwise.
func (client *Client) Handle(ctx context.Context, message protocol.Message) (protocol.Message, error) {
	if message.Grid != nil {
		client.view.Grid = message.Grid
	}

	if message.Cell != nil {
		if err := client.view.patch(message.Cell); err != nil {
			return protocol.Message{}, err
		}
	}

	if message.Text != "" {
		client.view.Message = message.Text
	}

	if message.Kind == protocol.KindStatus && isOutcome(message.Text) {
		client.outcome = message.Text
		client.log.WithField("outcome", message.Text).Info("Game finished")
	}

	if message.Kind == protocol.KindMoveRequest {
		client.director.Flush()

		move, err := client.director.NextMove(ctx, message.Stage, &client.view)
		if err != nil {
			return protocol.Message{}, errors.Wrap(err, "choosing move")
		}
		client.log.WithField("stage", message.Stage).Debugf("Chose move %v", move)
		return protocol.NewMoveReply(message.Stage, move), nil
	}

	if err := Render(client.out, &client.view); err != nil {
		return protocol.Message{}, errors.Wrap(err, "rendering board")
	}
	return protocol.NewAck(), nil
}

func isOutcome(text string) bool {
	switch text {
	case protocol.OutcomeWin, protocol.OutcomeLoss, protocol.OutcomeDraw:
		return true
	}
	return false
}
