package automatic

// Computer vs computer games, several at a time.

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"io"
	"runtime"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/corvidchess/corvid/bot"
)

var (
	CVCCounter *expvar.Int
	IsPlaying  *expvar.Int
)

func init() {
	CVCCounter = expvar.NewInt("cvcCounter")
	IsPlaying = expvar.NewInt("isPlaying")
}

var ErrAlreadyPlaying = errors.New("games are already being played, please wait till complete")

// PlayerFactory makes a fresh pair of players. Every worker calls it once, so
// no searcher or transposition table is ever shared between goroutines.
type PlayerFactory func() ([2]*bot.Player, error)

// Summary totals the outcomes of a batch of games. Wins are counted per
// player index, not per colour.
type Summary struct {
	Games      int
	Wins       [2]int
	Draws      int
	Unfinished int
}

func (s *Summary) add(g GameResult) {
	s.Games++
	switch g.Outcome {
	case WhiteWins:
		s.Wins[g.White]++
	case BlackWins:
		s.Wins[1-g.White]++
	case Draw:
		s.Draws++
	default:
		s.Unfinished++
	}
}

func (s Summary) String() string {
	return fmt.Sprintf("games: %d, player 1 wins: %d, player 2 wins: %d, draws: %d, unfinished: %d",
		s.Games, s.Wins[0], s.Wins[1], s.Draws, s.Unfinished)
}

// Runner plays batches of games between two kinds of player.
type Runner struct {
	NewPlayers PlayerFactory
	// Threads is the number of games played at once; 0 means one per CPU.
	Threads  int
	Depth    int
	MaxPlies int
	// GameLog and MoveLog, if set, receive one CSV line per game and per move.
	GameLog io.Writer
	MoveLog io.Writer
}

const (
	gameLogHeader = "gameID,outcome,status,whitePlayer,plies,moves\n"
	moveLogHeader = "gameID,ply,player,side,move,source,score,depth,nodes\n"
)

// Play plays n games. Players swap colours every game. It returns when all
// games are done, ctx is cancelled or a game fails. Games already started
// when ctx is cancelled are finished.
func (r *Runner) Play(ctx context.Context, n int) (Summary, error) {
	if IsPlaying.Value() > 0 {
		return Summary{}, ErrAlreadyPlaying
	}
	threads := r.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	threads = min(threads, max(n, 1))
	log.Debug().Int("games", n).Int("threads", threads).Msg("starting-games")
	CVCCounter.Set(0)

	jobs := make(chan int)
	results := make(chan GameResult)
	var logChan chan string
	logDone := make(chan struct{})
	if r.MoveLog != nil {
		logChan = make(chan string, 100)
		go func() {
			defer close(logDone)
			io.WriteString(r.MoveLog, moveLogHeader)
			for msg := range logChan {
				io.WriteString(r.MoveLog, msg)
			}
		}()
	} else {
		close(logDone)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < n; i++ {
			select {
			case jobs <- i:
			case <-gctx.Done():
				log.Info().Msg("got-stop-signal")
				return nil
			}
		}
		return nil
	})
	for t := 0; t < threads; t++ {
		g.Go(func() error {
			players, err := r.NewPlayers()
			if err != nil {
				return err
			}
			gr := NewGameRunner(logChan, players, r.Depth)
			if r.MaxPlies > 0 {
				gr.SetMaxPlies(r.MaxPlies)
			}
			IsPlaying.Add(1)
			defer IsPlaying.Add(-1)
			for id := range jobs {
				res, err := gr.PlayGame(id, id%2)
				if err != nil {
					return err
				}
				CVCCounter.Add(1)
				results <- res
			}
			return nil
		})
	}

	var summary Summary
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		if r.GameLog != nil {
			io.WriteString(r.GameLog, gameLogHeader)
		}
		for res := range results {
			summary.add(res)
			if r.GameLog != nil {
				io.WriteString(r.GameLog, res.String()+"\n")
			}
		}
	}()

	err := g.Wait()
	close(results)
	<-collected
	if logChan != nil {
		close(logChan)
	}
	<-logDone
	log.Info().Str("summary", summary.String()).Msg("all-games-finished")
	return summary, err
}
