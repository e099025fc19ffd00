package cmd

import (
	"bufio"
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/they4kman/duelsweep/game"
)

var gameConfig = game.NewGameConfig()

var (
	configPath string
	logLevel   string
	logFile    string
)

var rootCmd = &cobra.Command{
	Use:   "duelsweep",
	Short: "Two-player minesweeper duel over TCP",
	Long: `duelsweep is a two-player game played over the network: each player
secretly mines the other's board, then both probe their own board at the
same time. Whoever survives more probes before five detonations wins.

Run with no arguments to be asked which role to start
	duelsweep

Or pick the role directly
	duelsweep server
	duelsweep client --director random
`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		in := bufio.NewReader(cmd.InOrStdin())

		fmt.Fprint(cmd.OutOrStdout(), "Что хотите запустить? (server/client): ")
		role, err := in.ReadString('\n')
		if err != nil && role == "" {
			return errors.Wrap(err, "reading role")
		}

		switch strings.TrimSpace(role) {
		case "server", "s":
			return runServer(cmd)
		case "client", "c":
			return runClient(cmd, in)
		default:
			fmt.Fprintln(cmd.OutOrStdout(), "Некорректные данные.")
			return nil
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// loadConfig overlays the config file, if any, under the flags the user
// set explicitly
func loadConfig(cmd *cobra.Command, args []string) error {
	if configPath != "" {
		flagged := gameConfig
		if err := game.LoadConfigFile(configPath, &gameConfig); err != nil {
			return err
		}

		flags := cmd.Flags()
		overrides := map[string]func(){
			"host":          func() { gameConfig.Host = flagged.Host },
			"port":          func() { gameConfig.Port = flagged.Port },
			"field-size":    func() { gameConfig.FieldSize = flagged.FieldSize },
			"mines":         func() { gameConfig.MineCount = flagged.MineCount },
			"snapshots-dir": func() { gameConfig.SavedSnapshotsDir = flagged.SavedSnapshotsDir },
			"results-db":    func() { gameConfig.ResultsDB = flagged.ResultsDB },
			"move-interval": func() { gameConfig.MoveInterval = flagged.MoveInterval },
		}
		for name, override := range overrides {
			if flag := flags.Lookup(name); flag != nil && flag.Changed {
				override()
			}
		}
	}

	return gameConfig.Validate()
}

// newLogger builds the logger handed to every component. The returned
// func releases the log file.
func newLogger() (*logrus.Logger, func(), error) {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return nil, nil, err
	}

	logger := logrus.New()
	logger.SetLevel(level)
	logger.Formatter = &logrus.TextFormatter{
		FullTimestamp: true,
	}

	if logFile == "" {
		logger.Out = ioutil.Discard
		return logger, func() {}, nil
	}

	file, err := os.Create(logFile)
	if err != nil {
		return nil, nil, errors.Wrap(err, "opening log file")
	}
	logger.Out = file
	return logger, func() { file.Close() }, nil
}

func init() {
	flags := rootCmd.PersistentFlags()

	flags.StringVar(&configPath, "config", "", "Path to a yaml config file")
	flags.StringVar(&gameConfig.Host, "host", gameConfig.Host, "Host to listen on or connect to")
	flags.IntVarP(&gameConfig.Port, "port", "p", gameConfig.Port, "TCP port to listen on or connect to")
	flags.IntVarP(&gameConfig.FieldSize, "field-size", "s", gameConfig.FieldSize, "Side length of each board, in cells")
	flags.IntVarP(&gameConfig.MineCount, "mines", "m", gameConfig.MineCount, "Number of mines each player places")
	flags.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warning, error)")
	flags.StringVar(&logFile, "log-file", "log.log", "File to write logs to; empty disables logging")

	// Server, client and history settings live here too, so they also
	// apply when the role is picked at the prompt
	flags.StringVar(&gameConfig.SavedSnapshotsDir, "snapshots-dir", "", "Directory to save final boards to")
	flags.StringVar(&gameConfig.ResultsDB, "results-db", "", "SQLite database finished games are recorded in")
	flags.VarP(newDirectorValue(humanDirector, &useDirector), "director", "d", `Who chooses the moves:
human: read "x y" lines from standard input
random: the computer picks random legal cells
script: replay the moves given by --script`)
	flags.StringVar(&script, "script", "", `Moves for the script director, e.g. "1 1, 2 2"`)
	flags.Int64Var(&seed, "seed", 0, "Seed for the random director (0 picks one from the clock)")
	flags.DurationVar(&gameConfig.MoveInterval, "move-interval", 0, "Minimum delay between random director moves")

	rootCmd.AddCommand(serverCmd, clientCmd, historyCmd)
}
