package cmd

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/they4kman/duelsweep/game"
	"github.com/they4kman/duelsweep/store"
)

var serverCmd = &cobra.Command{
	Use:     "server",
	Aliases: []string{"s"},
	Short:   "Host a game for the first two players to connect",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd)
	},
}

func runServer(cmd *cobra.Command) error {
	log, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var opts []game.ServerOption
	if gameConfig.ResultsDB != "" {
		results, err := store.Open(gameConfig.ResultsDB)
		if err != nil {
			return err
		}
		defer results.Close()
		opts = append(opts, game.WithRecorder(results))
	}

	listener, err := net.Listen("tcp", gameConfig.Addr())
	if err != nil {
		return errors.Wrap(err, "listening")
	}

	server := game.NewServer(gameConfig, log, opts...)
	fmt.Fprintf(cmd.OutOrStdout(), "Waiting for players on %s\n", listener.Addr())

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			server.Close()
		case <-done:
		}
	}()

	result, err := server.Run(listener)
	if ctx.Err() != nil {
		// Interrupted: a clean shutdown
		return nil
	}
	if result != nil {
		for _, player := range result.Players {
			fmt.Fprintf(cmd.OutOrStdout(), "Player %d (%s): %s after %d moves, %d mines hit\n",
				player.ID, player.Addr, player.Outcome, player.CountMove, player.CountDetonatedMine)
		}
	}
	return err
}
