package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lverne/gobang/config"
	"github.com/lverne/gobang/shell"
)

var (
	GitVersion string
)

const banner = `
  __ _  ___ | |__   __ _ _ __   __ _
 / _' |/ _ \| '_ \ / _' | '_ \ / _' |
| (_| | (_) | |_) | (_| | | | | (_| |
 \__, |\___/|_.__/ \__,_|_| |_|\__, |
 |___/     five in a row       |___/
`

func main() {
	fmt.Print(banner, "\n")
	fmt.Println(GitVersion)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("could not load config")
	}

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}

	var logger zerolog.Logger
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger = zerolog.New(output).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		logger = zerolog.New(output).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	logger.Debug().Msg("Debug logging is on")

	idleConnsClosed := make(chan struct{})
	sig := make(chan os.Signal, 1)
	go func() {
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		// We received an interrupt signal, shut down.
		log.Info().Msg("got quit signal...")
		close(idleConnsClosed)
	}()

	args := strings.TrimSpace(strings.Join(os.Args[1:], " "))

	sc := shell.NewShellController(cfg)
	if args == "" {
		go sc.Loop(sig)
	} else {
		sc.Execute(sig, args)
		sig <- syscall.SIGINT
	}

	<-idleConnsClosed
	log.Info().Msg("shutting down")
}
