// Package automatic plays computer against computer games, for testing
// changes to the search and for collecting statistics.
package automatic

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/corvidchess/corvid/board"
	"github.com/corvidchess/corvid/bot"
	"github.com/corvidchess/corvid/game"
)

const DefaultMaxPlies = 300

// Outcome of a finished game, from White's point of view.
const (
	WhiteWins  = "1-0"
	BlackWins  = "0-1"
	Draw       = "1/2-1/2"
	Unfinished = "*"
)

// GameResult is one finished game. White is the index of the player who had
// White.
type GameResult struct {
	ID      int
	Outcome string
	Status  board.Status
	White   int
	Moves   []board.Move
	// BookMoves counts the moves that came from the opening book.
	BookMoves int
}

func (g GameResult) String() string {
	return fmt.Sprintf("%d,%s,%s,%d,%d,%s", g.ID, g.Outcome, g.Status, g.White,
		len(g.Moves), strings.Join(lo.Map(g.Moves, func(m board.Move, _ int) string {
			return m.String()
		}), " "))
}

// GameRunner plays games between two players. It owns its players and
// games, so one runner must stay on one goroutine.
type GameRunner struct {
	game     *game.Game
	players  [2]*bot.Player
	depth    int
	maxPlies int
	logchan  chan string
}

// NewGameRunner returns a runner for the two players. Each move is searched
// depth plies deep; a depth below 1 uses the players' own setting.
func NewGameRunner(logchan chan string, players [2]*bot.Player, depth int) *GameRunner {
	return &GameRunner{
		players:  players,
		depth:    depth,
		maxPlies: DefaultMaxPlies,
		logchan:  logchan,
	}
}

func (r *GameRunner) SetMaxPlies(n int) {
	r.maxPlies = n
}

// Game returns the game being played or last played.
func (r *GameRunner) Game() *game.Game {
	return r.game
}

// PlayGame plays a game from the starting position. The player with index
// white has White. The game ends when it is over or after the ply limit.
func (r *GameRunner) PlayGame(id, white int) (GameResult, error) {
	r.game = game.NewGame()
	res := GameResult{ID: id, White: white}
	for ply := 0; ply < r.maxPlies; ply++ {
		if r.game.Status().GameOver() {
			break
		}
		idx := white
		if r.game.SideToMove() == board.Black {
			idx = 1 - white
		}
		mr, err := r.players[idx].GetMove(r.game, r.depth)
		if err != nil {
			return res, fmt.Errorf("game %d ply %d: %w", id, ply, err)
		}
		if mr.Source == bot.FromBook {
			res.BookMoves++
		}
		r.logMove(id, ply, idx, mr)
		r.game.PlayMove(mr.Move)
	}
	res.Moves = r.game.MoveHistory()
	res.Status = r.game.Status()
	res.Outcome = outcome(r.game)
	log.Debug().Int("game-id", id).Str("outcome", res.Outcome).
		Str("status", res.Status.String()).Int("plies", len(res.Moves)).
		Msg("game-over")
	return res, nil
}

func (r *GameRunner) logMove(id, ply, playerIdx int, mr bot.MoveResult) {
	if r.logchan == nil {
		return
	}
	r.logchan <- fmt.Sprintf("%d,%d,%d,%s,%s,%s,%d,%d,%d\n",
		id, ply, playerIdx, r.game.SideToMove(), mr.Move, mr.Source,
		mr.Result.Score, mr.Result.Depth, mr.Result.Stats.Nodes)
}

func outcome(g *game.Game) string {
	switch st := g.Status(); {
	case st == board.Checkmate:
		if g.SideToMove() == board.White {
			return BlackWins
		}
		return WhiteWins
	case st.Draw():
		return Draw
	}
	return Unfinished
}
