package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"todoblocks/internal/config"

	"github.com/rs/zerolog/log"
)

// One-shot commands return a nil stop func. Long-running ones return the func
// that shuts them down once a signal arrives.
type command func(ctx context.Context) (stop func(), err error)

type commandRegistry map[string]command

var commands = commandRegistry{
	"default": defaultCmd,
	"today":   todayCmd,
	"custom":  customCmd,
	"query":   queryCmd,
	"watch":   watchCmd,
	"noop":    noopCmd,
}

func Run() {
	cmd := config.Gist().String(config.CMD)
	cmdFn, ok := commands[cmd]
	if !ok {
		help()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stop, err := cmdFn(ctx)
	if err != nil {
		log.Err(err).Str("cmd", cmd).Msg("command failed")
		cancel()
		os.Exit(1)
	}
	if stop == nil {
		return
	}

	doneCh := make(chan os.Signal, 1)
	signal.Notify(doneCh, os.Interrupt, syscall.SIGTERM)
	<-doneCh
	cancel()
	stop()
}

func help() {
	fmt.Println("Usage: todoblocks --cmd [command] [flags]")
	fmt.Println("Commands: default, today, custom, query, watch, noop")
	fmt.Println("Example: todoblocks --cmd query --query 'filter: today' --sink notes --notes.db notes.db")
	fmt.Println("Config params (name|required|default):\v")
	fmt.Println(config.Sprint())
}
