// bench searches a fixed suite of positions and reports node counts and
// timings.
package main

import (
	_ "embed"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/corvidchess/corvid/game"
	"github.com/corvidchess/corvid/search"
	"github.com/corvidchess/corvid/stats"
)

//go:embed suite.yaml
var defaultSuite []byte

type suitePosition struct {
	Name  string `yaml:"name"`
	FEN   string `yaml:"fen"`
	Depth int    `yaml:"depth"`
}

type suite struct {
	Positions []suitePosition `yaml:"positions"`
}

type benchResult struct {
	name    string
	depth   int
	move    string
	score   int
	stats   search.Stats
	elapsed time.Duration
}

func loadSuite(path string) (*suite, error) {
	data := defaultSuite
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, err
		}
	}
	s := &suite{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, err
	}
	if len(s.Positions) == 0 {
		return nil, fmt.Errorf("suite %q has no positions", path)
	}
	return s, nil
}

func runPosition(p suitePosition, depth, ttPower int, useTT bool) (benchResult, error) {
	g, err := game.FromFEN(p.FEN)
	if err != nil {
		return benchResult{}, fmt.Errorf("%s: %w", p.Name, err)
	}
	if p.Depth > 0 {
		depth = p.Depth
	}
	s := search.NewSearcher(nil, search.NewTranspositionTable(ttPower, search.AlwaysReplace{}))
	s.SetTranspositionTableOptim(useTT)
	res, err := s.BestMove(g, depth)
	if err != nil {
		return benchResult{}, fmt.Errorf("%s: %w", p.Name, err)
	}
	return benchResult{
		name:    p.Name,
		depth:   res.Depth,
		move:    g.SAN(res.Move),
		score:   res.Score,
		stats:   res.Stats,
		elapsed: res.Elapsed,
	}, nil
}

func main() {
	fs := pflag.NewFlagSet("bench", pflag.ExitOnError)
	suitePath := fs.String("suite", "", "YAML file of positions; the built-in suite if empty")
	depth := fs.Int("depth", 4, "search depth for positions that do not set one")
	threads := fs.Int("threads", runtime.NumCPU(), "positions searched at once")
	ttPower := fs.Int("tt-size-power-of-2", search.DefaultTTSizePowerOf2, "transposition table slots, as a power of two")
	noTT := fs.Bool("no-tt", false, "search without the transposition table")
	debug := fs.Bool("debug", false, "debug logging")
	fs.Parse(os.Args[1:])

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(output).Level(level).With().Timestamp().Logger()

	st, err := loadSuite(*suitePath)
	if err != nil {
		log.Fatal().Err(err).Msg("loading-suite")
	}

	results := make([]benchResult, len(st.Positions))
	var g errgroup.Group
	g.SetLimit(max(*threads, 1))
	for i, p := range st.Positions {
		g.Go(func() error {
			r, err := runPosition(p, *depth, *ttPower, !*noTT)
			if err != nil {
				return err
			}
			log.Debug().Str("position", r.name).Object("stats", r.stats).Msg("position-done")
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("bench-failed")
	}

	var nodes, millis stats.Sample
	var total search.Stats
	var ss strings.Builder
	fmt.Fprintf(&ss, "%-16s%-7s%-9s%-10s%-12s%-12s%-10s\n",
		"Position", "Depth", "Move", "Score", "Nodes", "Q-nodes", "Time")
	for _, r := range results {
		fmt.Fprintf(&ss, "%-16s%-7d%-9s%-10d%-12d%-12d%-10v\n",
			r.name, r.depth, r.move, r.score, r.stats.Nodes, r.stats.QNodes,
			r.elapsed.Round(time.Millisecond))
		nodes.Push(float64(r.stats.Nodes + r.stats.QNodes))
		millis.Push(float64(r.elapsed.Milliseconds()))
		total.Add(r.stats)
	}
	fmt.Fprintf(&ss, "\nnodes: median %.0f, p90 %.0f, max %.0f\n",
		nodes.Median(), nodes.Quantile(0.9), nodes.Max())
	fmt.Fprintf(&ss, "time (ms): mean %.1f ± %.1f, median %.0f, p90 %.0f\n",
		millis.Mean(), millis.ConfidenceInterval(0.95), millis.Median(), millis.Quantile(0.9))
	fmt.Fprintf(&ss, "tt: %d lookups, %d hits, %d cutoffs\n",
		total.Table.Lookups, total.Table.Hits, total.TTCutoffs)
	fmt.Print(ss.String())

	fmt.Println("\nnodes per position:")
	if err := histogram.Fprint(os.Stdout, histogram.Hist(10, nodes.Values()), histogram.Linear(40)); err != nil {
		log.Error().Err(err).Msg("histogram")
	}
}
