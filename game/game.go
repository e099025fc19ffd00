package game

import (
	"fmt"
	"io/ioutil"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

type GameConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// Side length of each board, in cells
	FieldSize int `yaml:"field_size"`
	// Mines each participant places on their opponent's board
	MineCount int `yaml:"mine_count"`

	// Path to directory where final snapshots of boards should be saved
	SavedSnapshotsDir string `yaml:"saved_snapshots_dir"`
	// Path to the SQLite database finished games are recorded in
	ResultsDB string `yaml:"results_db"`

	// Minimum delay between moves chosen by the random director
	MoveInterval time.Duration `yaml:"move_interval"`
}

func NewGameConfig() GameConfig {
	return GameConfig{
		Host:      "127.0.0.1",
		Port:      65432,
		FieldSize: 5,
		MineCount: 5,
	}
}

// LoadConfigFile overlays the values present in a yaml file onto config
func LoadConfigFile(path string, config *GameConfig) error {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading config")
	}
	if err := yaml.UnmarshalStrict(data, config); err != nil {
		return errors.Wrapf(err, "parsing %s", path)
	}
	return nil
}

func (config GameConfig) Validate() error {
	switch {
	case config.FieldSize < 1:
		return errors.Errorf("field size must be positive, got %d", config.FieldSize)
	case config.FieldSize > MaxFieldSize:
		return errors.Errorf("field size must be at most %d, got %d", MaxFieldSize, config.FieldSize)
	case config.MineCount < 1:
		return errors.Errorf("mine count must be positive, got %d", config.MineCount)
	case config.MineCount > config.FieldSize*config.FieldSize:
		return errors.Errorf("%d mines do not fit on a %dx%d board", config.MineCount, config.FieldSize, config.FieldSize)
	case config.Port < 1 || config.Port > 65535:
		return errors.Errorf("port %d out of range", config.Port)
	}
	return nil
}

func (config GameConfig) Addr() string {
	return net.JoinHostPort(config.Host, strconv.Itoa(config.Port))
}

// MaxMoves is the number of probes a participant gets if they never lose
func (config GameConfig) MaxMoves() int {
	return config.FieldSize * config.FieldSize
}

// saveSnapshots writes each participant's probed board to
// SavedSnapshotsDir, returning the paths written.
func (config GameConfig) saveSnapshots(result *Result, boards []*Board) ([]string, error) {
	if config.SavedSnapshotsDir == "" {
		return nil, nil
	}

	stat, err := os.Stat(config.SavedSnapshotsDir)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		if err := os.MkdirAll(config.SavedSnapshotsDir, 0777); err != nil {
			return nil, err
		}
	} else if !stat.Mode().IsDir() {
		return nil, errors.Errorf("%s is not a directory; cannot save snapshots to it", config.SavedSnapshotsDir)
	}

	var paths []string
	for id, board := range boards {
		filename := config.generateSnapshotFilename(result, id)
		path := filepath.Join(config.SavedSnapshotsDir, filename)

		snapshot := board.snapshot(result.GameID, id)
		if err := ioutil.WriteFile(path, []byte(snapshot.Serialize()), 0666); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	return paths, nil
}

func (config GameConfig) generateSnapshotFilename(result *Result, player int) string {
	filenameBuilder := strings.Builder{}

	filenameBuilder.WriteString(result.FinishedAt.Format("20060102_150405_"))
	filenameBuilder.WriteString(result.GameID[:8])
	filenameBuilder.WriteString(fmt.Sprintf("_p%d_%s", player, result.Players[player].Outcome))
	filenameBuilder.WriteString(".yaml")

	return filenameBuilder.String()
}
