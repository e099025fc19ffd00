// Package protocol implements the length-prefixed JSON framing spoken
// between the duelsweep server and its peers, and the message shapes
// carried inside those frames.
package protocol

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// Size of the big-endian length prefix, in bytes
const headerSize = 4

// MaxFrameSize bounds the payload a peer may announce
const MaxFrameSize = 1 << 20

var (
	ErrConnectionClosed = errors.New("connection closed")
	ErrShortRead        = errors.New("connection closed mid-frame")
	ErrNotObject        = errors.New("payload is not a JSON object")
	ErrMalformed        = errors.New("malformed payload")
	ErrFrameTooLarge    = errors.New("frame exceeds maximum size")
)

// WriteFrame encodes payload as JSON and writes it behind its length.
// Payloads that do not encode to a JSON object are rejected before
// anything reaches w.
func WriteFrame(w io.Writer, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "encoding frame")
	}
	if !isObject(data) {
		return errors.Wrapf(ErrNotObject, "encoding %T", payload)
	}
	if len(data) > MaxFrameSize {
		return errors.Wrapf(ErrFrameTooLarge, "encoding %d bytes", len(data))
	}

	frame := make([]byte, headerSize+len(data))
	binary.BigEndian.PutUint32(frame, uint32(len(data)))
	copy(frame[headerSize:], data)

	if _, err := w.Write(frame); err != nil {
		return errors.Wrap(err, "writing frame")
	}
	return nil
}

// ReadFrame reads exactly one frame from r and decodes its JSON object.
func ReadFrame(r io.Reader) (map[string]interface{}, error) {
	var header [headerSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		switch err {
		case io.EOF:
			return nil, ErrConnectionClosed
		case io.ErrUnexpectedEOF:
			return nil, errors.Wrap(ErrShortRead, "reading length")
		default:
			return nil, errors.Wrap(err, "reading length")
		}
	}

	size := binary.BigEndian.Uint32(header[:])
	if size > MaxFrameSize {
		return nil, errors.Wrapf(ErrFrameTooLarge, "peer announced %d bytes", size)
	}

	data := make([]byte, size)
	if n, err := io.ReadFull(r, data); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, errors.Wrapf(ErrShortRead, "got %d of %d bytes", n, size)
		}
		return nil, errors.Wrap(err, "reading payload")
	}

	var value interface{}
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, errors.Wrapf(ErrMalformed, "decoding payload: %v", err)
	}

	payload, ok := value.(map[string]interface{})
	if !ok {
		return nil, errors.Wrapf(ErrNotObject, "decoded %T", value)
	}
	return payload, nil
}

func isObject(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '{'
}
