// Package config holds the settings shared by the binaries. Values come from
// command-line flags, then CORVID_ environment variables, then an optional
// config file, then the defaults below.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug              = "debug"
	ConfigConfigFile         = "config"
	ConfigSearchDepth        = "search-depth"
	ConfigMaxDepth           = "max-depth"
	ConfigTTSizePowerOf2     = "tt-size-power-of-2"
	ConfigTTMemoryFraction   = "tt-memory-fraction"
	ConfigTTReplacement      = "tt-replacement"
	ConfigTTEnabled          = "tt-enabled"
	ConfigMaxPly             = "max-ply"
	ConfigBookPath           = "book-path"
	ConfigUseBook            = "use-book"
	ConfigTimeBudgetFraction = "time-budget-fraction"
	ConfigMinTimeBudget      = "min-time-budget"
	ConfigCPUProfile         = "cpu-profile"
	ConfigMemProfile         = "mem-profile"

	ConfigAutoplayGames    = "autoplay-games"
	ConfigAutoplayThreads  = "autoplay-threads"
	ConfigAutoplayMaxPlies = "autoplay-max-plies"
	ConfigAutoplayGameLog  = "autoplay-game-log"
	ConfigAutoplayMoveLog  = "autoplay-move-log"
)

const envPrefix = "CORVID"

type Config struct {
	*viper.Viper
}

// DefaultConfig returns a config holding only the defaults.
func DefaultConfig() *Config {
	c := &Config{Viper: viper.New()}
	setDefaults(c.Viper)
	return c
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(ConfigDebug, false)
	v.SetDefault(ConfigSearchDepth, 3)
	v.SetDefault(ConfigMaxDepth, 4)
	v.SetDefault(ConfigTTSizePowerOf2, 0)
	v.SetDefault(ConfigTTMemoryFraction, 0.05)
	v.SetDefault(ConfigTTReplacement, "always")
	v.SetDefault(ConfigTTEnabled, true)
	v.SetDefault(ConfigMaxPly, 64)
	v.SetDefault(ConfigBookPath, "")
	v.SetDefault(ConfigUseBook, true)
	v.SetDefault(ConfigTimeBudgetFraction, 0.9)
	v.SetDefault(ConfigMinTimeBudget, 50*time.Millisecond)
	v.SetDefault(ConfigCPUProfile, "")
	v.SetDefault(ConfigMemProfile, "")
	v.SetDefault(ConfigAutoplayGames, 100)
	v.SetDefault(ConfigAutoplayThreads, 0)
	v.SetDefault(ConfigAutoplayMaxPlies, 300)
	v.SetDefault(ConfigAutoplayGameLog, "/tmp/corvid-games.csv")
	v.SetDefault(ConfigAutoplayMoveLog, "")
}

func flagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.String(ConfigConfigFile, "", "path to a config file (yaml, json or toml)")
	fs.Int(ConfigSearchDepth, 3, "full-width search depth in plies")
	fs.Int(ConfigMaxDepth, 4, "deepest iteration when thinking on a clock")
	fs.Int(ConfigTTSizePowerOf2, 0, "transposition table size as a power of 2; 0 sizes it from system memory")
	fs.Float64(ConfigTTMemoryFraction, 0.05, "fraction of system memory for the transposition table")
	fs.String(ConfigTTReplacement, "always", "transposition table replacement: always, depth or generation")
	fs.Bool(ConfigTTEnabled, true, "use the transposition table")
	fs.Int(ConfigMaxPly, 64, "hard cap on the distance from the root in quiescence")
	fs.String(ConfigBookPath, "", "opening book CSV; empty uses the built-in book")
	fs.Bool(ConfigUseBook, true, "play from the opening book when it has a move")
	fs.Float64(ConfigTimeBudgetFraction, 0.9, "fraction of the move budget after which no new iteration starts")
	fs.Duration(ConfigMinTimeBudget, 50*time.Millisecond, "smallest time budget for a move")
	fs.String(ConfigCPUProfile, "", "write a cpu profile to this file")
	fs.String(ConfigMemProfile, "", "write a memory profile to this file")
	fs.Int(ConfigAutoplayGames, 100, "games to play in autoplay")
	fs.Int(ConfigAutoplayThreads, 0, "games played at once in autoplay; 0 means one per CPU")
	fs.Int(ConfigAutoplayMaxPlies, 300, "plies after which an autoplay game is abandoned")
	fs.String(ConfigAutoplayGameLog, "/tmp/corvid-games.csv", "CSV file for one line per autoplay game")
	fs.String(ConfigAutoplayMoveLog, "", "CSV file for one line per autoplay move; empty to skip")
	return fs
}

// Load reads flags from args, then the environment and the config file.
// Arguments that are not flags are left for the caller in Args.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	setDefaults(c.Viper)

	fs := flagSet("corvid")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.BindPFlags(fs); err != nil {
		return err
	}
	c.Set("args", fs.Args())

	c.SetEnvPrefix(envPrefix)
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	if path := c.GetString(ConfigConfigFile); path != "" {
		c.SetConfigFile(path)
		if err := c.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	}
	return c.Validate()
}

// Args returns the positional arguments left over after flag parsing.
func (c *Config) Args() []string {
	return c.GetStringSlice("args")
}

// Validate checks values that would otherwise fail deep inside a search.
func (c *Config) Validate() error {
	if d := c.GetInt(ConfigSearchDepth); d < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", ConfigSearchDepth, d)
	}
	if d := c.GetInt(ConfigMaxDepth); d < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", ConfigMaxDepth, d)
	}
	switch r := c.GetString(ConfigTTReplacement); r {
	case "always", "depth", "generation":
	default:
		return fmt.Errorf("%s must be always, depth or generation, got %q", ConfigTTReplacement, r)
	}
	if g := c.GetInt(ConfigAutoplayGames); g < 0 {
		return fmt.Errorf("%s must not be negative, got %d", ConfigAutoplayGames, g)
	}
	if f := c.GetFloat64(ConfigTimeBudgetFraction); f <= 0 || f > 1 {
		return fmt.Errorf("%s must be in (0, 1], got %v", ConfigTimeBudgetFraction, f)
	}
	return nil
}

// SanitizedSettings is every setting, for logging.
func (c *Config) SanitizedSettings() map[string]any {
	settings := c.AllSettings()
	delete(settings, "args")
	return settings
}
