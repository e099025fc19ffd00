package game

import (
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// BoardSnapshot is the saved form of a finished board. Each row of
// SerializedBoard holds one character per cell:
//
//	#  closed
//	.  open
//	O  closed mine
//	*  opened mine
type BoardSnapshot struct {
	GameID          string `yaml:"game"`
	Player          int    `yaml:"player"`
	SerializedBoard string `yaml:"board"`
}

func (board *Board) snapshot(gameID string, player int) *BoardSnapshot {
	rows := make([]string, board.size)
	for x, row := range board.cells {
		var builder strings.Builder
		for y := range row {
			builder.WriteString(row[y].serialize())
		}
		rows[x] = builder.String()
	}

	return &BoardSnapshot{
		GameID:          gameID,
		Player:          player,
		SerializedBoard: strings.Join(rows, "\n"),
	}
}

func (snapshot *BoardSnapshot) Serialize() string {
	out, err := yaml.Marshal(snapshot)
	if err != nil {
		panic(err)
	}

	return string(out)
}

func (snapshot *BoardSnapshot) CreateBoard() (*Board, error) {
	rows := strings.Split(strings.TrimSpace(snapshot.SerializedBoard), "\n")
	if len(rows) == 0 || rows[0] == "" {
		return nil, errors.New("snapshot has no cells")
	}

	board := NewBoard(len(rows))
	for x, row := range rows {
		cells := []rune(row)
		if len(cells) != board.size {
			return nil, errors.Errorf("row %d has %d cells, want %d", x, len(cells), board.size)
		}

		for y, c := range cells {
			if !board.CellAt(x, y).deserialize(c) {
				return nil, errors.Errorf("unknown cell %q at (%d, %d)", c, x, y)
			}
		}
	}

	return board, nil
}

func LoadSnapshot(in string) (*BoardSnapshot, error) {
	var snapshot BoardSnapshot
	if err := yaml.Unmarshal([]byte(in), &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}
