// autoplay plays the engine against itself and writes CSV logs of the games.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/corvidchess/corvid/automatic"
	"github.com/corvidchess/corvid/bot"
	"github.com/corvidchess/corvid/config"
)

func openLog(path string) (io.WriteCloser, error) {
	if path == "" {
		return nil, nil
	}
	return os.Create(path)
}

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(2)
	}

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	level := zerolog.InfoLevel
	if cfg.GetBool(config.ConfigDebug) {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(output).Level(level).With().Timestamp().Logger()
	log.Info().Interface("settings", cfg.SanitizedSettings()).Msg("loaded-config")

	threads := cfg.GetInt(config.ConfigAutoplayThreads)
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	// Two tables per worker share the memory one player would get.
	if cfg.GetInt(config.ConfigTTSizePowerOf2) == 0 {
		cfg.Set(config.ConfigTTMemoryFraction,
			cfg.GetFloat64(config.ConfigTTMemoryFraction)/float64(2*threads))
	}

	gameLog, err := openLog(cfg.GetString(config.ConfigAutoplayGameLog))
	if err != nil {
		log.Fatal().Err(err).Msg("opening-game-log")
	}
	moveLog, err := openLog(cfg.GetString(config.ConfigAutoplayMoveLog))
	if err != nil {
		log.Fatal().Err(err).Msg("opening-move-log")
	}

	r := &automatic.Runner{
		NewPlayers: func() ([2]*bot.Player, error) {
			var players [2]*bot.Player
			for i := range players {
				p, err := bot.NewPlayerFromConfig(cfg)
				if err != nil {
					return players, err
				}
				players[i] = p
			}
			return players, nil
		},
		Threads:  threads,
		Depth:    cfg.GetInt(config.ConfigSearchDepth),
		MaxPlies: cfg.GetInt(config.ConfigAutoplayMaxPlies),
	}
	if gameLog != nil {
		defer gameLog.Close()
		r.GameLog = gameLog
	}
	if moveLog != nil {
		defer moveLog.Close()
		r.MoveLog = moveLog
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	summary, err := r.Play(ctx, cfg.GetInt(config.ConfigAutoplayGames))
	if err != nil {
		log.Error().Err(err).Msg("autoplay-failed")
	}
	log.Info().Dur("elapsed", time.Since(start)).
		Str("game-log", cfg.GetString(config.ConfigAutoplayGameLog)).
		Msg("autoplay-done")
	fmt.Println(summary)
}
