package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// app carries what every command shares.
type app struct {
	log   *slog.Logger
	level levelFlag
}

// levelFlag is a pflag.Value holding a slog level.
type levelFlag struct {
	slog.Level
}

var _ pflag.Value = (*levelFlag)(nil)

func (l *levelFlag) Set(s string) error {
	return l.UnmarshalText([]byte(strings.ToUpper(s)))
}

func (l *levelFlag) Type() string { return "level" }

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func newRootCmd() *cobra.Command {
	a := &app{level: levelFlag{slog.LevelInfo}}
	root := &cobra.Command{
		Use:           "ledtiming",
		Short:         "Clockless LED timing reports, simulation and playback",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.log = newLogger(cmd.ErrOrStderr(), a.level.Level)
		},
	}
	root.PersistentFlags().Var(&a.level, "log-level", "log level (debug, info, warn, error)")
	root.AddCommand(
		newChipsetsCmd(a),
		newCheckCmd(a),
		newSimulateCmd(a),
		newPlayCmd(a),
	)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%s: %w", cmd.Name(), err)
	})
	return root
}
