package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"shiftlog/internal/modkit"
	"shiftlog/internal/platform/config"
	"shiftlog/internal/platform/logger"

	tsmod "shiftlog/internal/services/timesheet/module"
	"shiftlog/internal/services/timesheet/shell"
)

func main() {
	// logs go to stderr so they never interleave with command output
	opt := logger.FromEnv()
	opt.Writer = os.Stderr
	if opt.Service == "" {
		opt.Service = "shiftlog-shell"
	}
	logger.Init(opt)
	l := logger.Get()

	// CORE_TIMESHEET_* and SERVICE_SMTP_* are read by the module
	ts := tsmod.New(modkit.Deps{Cfg: config.New(), Log: l})
	sh := shell.New(ts.Service(), os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Ctrl+C interrupts a blocked read, so end the session from here
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			fmt.Fprintln(os.Stdout, "\n"+shell.Farewell)
			os.Exit(0)
		case <-done:
		}
	}()

	err := sh.Run(ctx, os.Stdin)
	close(done)
	if err != nil {
		l.Error().Err(err).Msg("reading commands")
		os.Exit(1)
	}
}
