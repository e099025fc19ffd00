// Package human reads moves typed by a player, one "x y" pair per line
package human

import (
	"bufio"
	"context"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/they4kman/duelsweep/peer"
	"github.com/they4kman/duelsweep/protocol"
)

type lineResult struct {
	line string
	err  error
}

type Director struct {
	in   *bufio.Reader
	file *os.File
	log  logrus.FieldLogger

	// Line read still in flight, nil when the reader is idle
	pending chan lineResult
}

func New(in io.Reader, log logrus.FieldLogger) *Director {
	file, _ := in.(*os.File)
	return &Director{
		in:   bufio.NewReader(in),
		file: file,
		log:  log,
	}
}

// Flush drops whatever was typed before the prompt appeared, both in our
// own buffer and, for terminals and pipes, in the OS input queue
func (director *Director) Flush() {
	if director.pending != nil {
		select {
		case <-director.pending:
			director.pending = nil
		default:
			// A read abandoned by a cancelled NextMove still owns the reader
			return
		}
	}

	if buffered := director.in.Buffered(); buffered > 0 {
		director.in.Discard(buffered)
	}
	if director.file != nil {
		flushInput(director.file, director.log)
	}
}

func (director *Director) NextMove(ctx context.Context, stage protocol.Stage, view *peer.View) (protocol.Coord, error) {
	for {
		line, err := director.readLine(ctx)
		if ctx.Err() != nil {
			return protocol.Coord{}, ctx.Err()
		}
		if line == "" && err != nil {
			return protocol.Coord{}, errors.Wrap(err, "reading move")
		}

		move, parseErr := parseMove(line)
		if parseErr != nil {
			director.log.WithError(parseErr).Error("Invalid input")
			if err != nil {
				return protocol.Coord{}, errors.Wrap(err, "reading move")
			}
			continue
		}
		return move, nil
	}
}

// readLine waits for the next line or for ctx to be done. A read that
// outlives ctx is picked up again by the next call.
func (director *Director) readLine(ctx context.Context) (string, error) {
	if director.pending == nil {
		pending := make(chan lineResult, 1)
		director.pending = pending
		go func() {
			line, err := director.in.ReadString('\n')
			pending <- lineResult{line, err}
		}()
	}

	select {
	case result := <-director.pending:
		director.pending = nil
		return result.line, result.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func parseMove(line string) (protocol.Coord, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return protocol.Coord{}, errors.Errorf("want \"x y\", got %q", strings.TrimSpace(line))
	}

	x, err := strconv.Atoi(fields[0])
	if err != nil {
		return protocol.Coord{}, errors.Wrap(err, "x")
	}
	y, err := strconv.Atoi(fields[1])
	if err != nil {
		return protocol.Coord{}, errors.Wrap(err, "y")
	}
	return protocol.Coord{X: x, Y: y}, nil
}
