package cmd

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/they4kman/duelsweep/director/human"
	"github.com/they4kman/duelsweep/director/random"
	"github.com/they4kman/duelsweep/director/scripted"
	"github.com/they4kman/duelsweep/peer"
)

type directorKind int

const (
	humanDirector directorKind = iota
	randomDirector
	scriptedDirector
)

var (
	useDirector = humanDirector
	script      string
	seed        int64
)

var clientCmd = &cobra.Command{
	Use:     "client",
	Aliases: []string{"c"},
	Short:   "Join a game as a player",
	Long: `Join a game as a player.

Moves are typed as "x y", both counted from 1. The computer can play
instead:
	duelsweep client --director random --move-interval 500ms
	duelsweep client --director script --script "1 1, 2 2, 3 3"
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runClient(cmd, cmd.InOrStdin())
	},
}

func runClient(cmd *cobra.Command, in io.Reader) error {
	log, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	director, err := newDirector(in, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	conn, err := net.Dial("tcp", gameConfig.Addr())
	if err != nil {
		return errors.Wrap(err, "connecting")
	}
	log.WithField("addr", gameConfig.Addr()).Info("Client started")

	client := peer.NewClient(conn, director, cmd.OutOrStdout(), log)
	err = client.Run(ctx)
	log.Info("Client stopped")
	if ctx.Err() != nil {
		return nil
	}
	if outcome := client.Outcome(); outcome != "" {
		fmt.Fprintln(cmd.OutOrStdout(), outcome)
	}
	return err
}

func newDirector(in io.Reader, log logrus.FieldLogger) (peer.Director, error) {
	switch useDirector {
	case randomDirector:
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		return random.New(seed, gameConfig.MoveInterval), nil
	case scriptedDirector:
		moves, err := scripted.Parse(script)
		if err != nil {
			return nil, errors.Wrap(err, "parsing script")
		}
		return scripted.New(moves...), nil
	default:
		return human.New(in, log), nil
	}
}

type directorValue directorKind

var _ pflag.Value = (*directorValue)(nil)

func newDirectorValue(val directorKind, p *directorKind) *directorValue {
	*p = val
	return (*directorValue)(p)
}

var directorKinds = map[string]directorKind{
	"human":  humanDirector,
	"random": randomDirector,
	"script": scriptedDirector,
}

func (kindVal *directorValue) String() string {
	for name, kind := range directorKinds {
		if kind == directorKind(*kindVal) {
			return name
		}
	}
	return fmt.Sprint(*kindVal)
}

func (kindVal *directorValue) Set(value string) error {
	if kind, isValid := directorKinds[value]; isValid {
		*kindVal = directorValue(kind)
		return nil
	} else {
		return fmt.Errorf("invalid director")
	}
}

func (kindVal *directorValue) Type() string {
	return "director"
}
