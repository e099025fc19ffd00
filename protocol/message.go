package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

var ErrUnknownMessage = errors.New("unknown message shape")

// Stage identifies the phase a directive or reply belongs to
type Stage int

const (
	StageNone Stage = iota
	StagePlaceMines
	StageProbe
)

func (stage Stage) String() string {
	switch stage {
	case StagePlaceMines:
		return "place-mines"
	case StageProbe:
		return "probe"
	default:
		return fmt.Sprintf("stage(%d)", int(stage))
	}
}

// Wire texts shared by both ends of a connection
const (
	PromptCoords = "Введите координаты (x y): "
	TextHit      = "Вы попали на мину."
	TextMissed   = "Вы увернулись."
	TextAck      = "OK"

	OutcomeWin  = "победа"
	OutcomeLoss = "проигрыш"
	OutcomeDraw = "ничья"
)

// Coord is a one-based move coordinate as typed by a player
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (coord Coord) String() string {
	return fmt.Sprintf("(%d, %d)", coord.X, coord.Y)
}

type CellInfo struct {
	IsOpen bool `json:"is_open"`
	IsMine bool `json:"is_mine"`
}

// Grid is a board snapshot, indexed [x][y]
type Grid [][]CellInfo

// CellPatch replaces a single cell of a peer's grid. X and Y are
// zero-based grid indexes.
type CellPatch struct {
	X    int      `json:"x"`
	Y    int      `json:"y"`
	Info CellInfo `json:"info"`
}

type Kind int

const (
	KindGrid Kind = iota
	KindCellPatch
	KindStatus
	KindMoveRequest
	KindMoveReply
	KindAck
)

func (kind Kind) String() string {
	switch kind {
	case KindGrid:
		return "grid"
	case KindCellPatch:
		return "cell-patch"
	case KindStatus:
		return "status"
	case KindMoveRequest:
		return "move-request"
	case KindMoveReply:
		return "move-reply"
	case KindAck:
		return "ack"
	default:
		return fmt.Sprintf("kind(%d)", int(kind))
	}
}

// Message is one decoded frame. Only the fields relevant to Kind are
// meaningful.
type Message struct {
	Kind  Kind
	Stage Stage
	Text  string
	Grid  Grid
	Cell  *CellPatch
	Move  Coord
}

func NewGrid(grid Grid) Message {
	return Message{Kind: KindGrid, Grid: grid}
}

func NewCellPatch(stage Stage, patch CellPatch, text string) Message {
	return Message{Kind: KindCellPatch, Stage: stage, Cell: &patch, Text: text}
}

func NewStatus(text string) Message {
	return Message{Kind: KindStatus, Text: text}
}

func NewMoveRequest(stage Stage, text string) Message {
	return Message{Kind: KindMoveRequest, Stage: stage, Text: text}
}

func NewMoveReply(stage Stage, move Coord) Message {
	return Message{Kind: KindMoveReply, Stage: stage, Move: move}
}

func NewAck() Message {
	return Message{Kind: KindAck, Text: TextAck}
}

// Wire returns the key/value mapping sent inside a frame
func (message Message) Wire() map[string]interface{} {
	wire := make(map[string]interface{})

	switch message.Kind {
	case KindGrid:
		wire["grid"] = message.Grid
		if message.Text != "" {
			wire["message"] = message.Text
		}
	case KindCellPatch:
		wire["stage"] = int(message.Stage)
		if message.Cell != nil {
			wire["cell"] = *message.Cell
		}
		if message.Text != "" {
			wire["message"] = message.Text
		}
	case KindStatus:
		wire["message"] = message.Text
	case KindMoveRequest:
		wire["action"] = true
		wire["stage"] = int(message.Stage)
		wire["message"] = message.Text
	case KindMoveReply:
		wire["move"] = message.Move
		wire["stage"] = int(message.Stage)
	case KindAck:
		wire["message"] = TextAck
	}

	return wire
}

// Decode classifies a received mapping by the keys it carries
func Decode(wire map[string]interface{}) (Message, error) {
	var message Message

	if raw, ok := wire["stage"]; ok {
		if err := decodeField(raw, &message.Stage); err != nil {
			return message, errors.Wrap(err, "stage")
		}
	}
	if raw, ok := wire["message"]; ok {
		if err := decodeField(raw, &message.Text); err != nil {
			return message, errors.Wrap(err, "message")
		}
	}

	if raw, ok := wire["action"]; ok {
		var action bool
		if err := decodeField(raw, &action); err != nil {
			return message, errors.Wrap(err, "action")
		}
		if action {
			message.Kind = KindMoveRequest
			return message, nil
		}
	}

	if raw, ok := wire["move"]; ok {
		message.Kind = KindMoveReply
		if err := decodeField(raw, &message.Move); err != nil {
			return message, errors.Wrap(err, "move")
		}
		return message, nil
	}

	if raw, ok := wire["grid"]; ok {
		message.Kind = KindGrid
		if err := decodeField(raw, &message.Grid); err != nil {
			return message, errors.Wrap(err, "grid")
		}
		return message, nil
	}

	if raw, ok := wire["cell"]; ok {
		message.Kind = KindCellPatch
		message.Cell = &CellPatch{}
		if err := decodeField(raw, message.Cell); err != nil {
			return message, errors.Wrap(err, "cell")
		}
		return message, nil
	}

	if _, ok := wire["message"]; ok {
		if message.Text == TextAck && len(wire) == 1 {
			message.Kind = KindAck
		} else {
			message.Kind = KindStatus
		}
		return message, nil
	}

	return message, ErrUnknownMessage
}

// decodeField converts a generically-decoded JSON value into dst
func decodeField(raw interface{}, dst interface{}) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return errors.Wrapf(ErrMalformed, "%v", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return errors.Wrapf(ErrMalformed, "%v", err)
	}
	return nil
}
