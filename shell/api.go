package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/corvidchess/corvid/automatic"
	"github.com/corvidchess/corvid/bot"
	"github.com/corvidchess/corvid/eval"
	"github.com/corvidchess/corvid/game"
	"github.com/corvidchess/corvid/search"
)

const helpText = `Commands:
  new                               start a new game from the standard position
  position startpos [moves ...]     set up the standard position, then play moves
  position fen <fen> [moves ...]    set up a position from FEN, then play moves
  move <san|uci>                    play a move
  undo                              take back the last move
  go [depth]                        find a move (book, then search) and play it
  think [movetime-ms]               deepen the search until the time is used, then play
  eval                              show the static evaluation by term
  book                              list the book moves for this position
  show                              show the board
  set [key] [value]                 show or change depth, maxdepth, book, tt, ttpolicy or maxply
  autoplay -games n [-depth d] [-threads t] [-maxplies p]
                                    play the engine against itself
  exit                              quit`

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	return msg(helpText), nil
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	sc.game = game.NewGame()
	return sc.show(cmd)
}

func (sc *ShellController) position(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("usage: position startpos|fen <fen> [moves ...]")
	}
	var g *game.Game
	var rest []string
	switch cmd.args[0] {
	case "startpos":
		g = game.NewGame()
		rest = cmd.args[1:]
	case "fen":
		fields := cmd.args[1:]
		n := lenFENFields(fields)
		if n == 0 {
			return nil, errors.New("need a fen after position fen")
		}
		var err error
		g, err = game.FromFEN(strings.Join(fields[:n], " "))
		if err != nil {
			return nil, err
		}
		rest = fields[n:]
	default:
		return nil, fmt.Errorf("unknown position type %q", cmd.args[0])
	}
	if len(rest) > 0 && rest[0] == "moves" {
		rest = rest[1:]
	}
	for _, m := range rest {
		if err := g.PlaySAN(m); err != nil {
			return nil, err
		}
	}
	sc.game = g
	return msg(sc.game.String()), nil
}

// lenFENFields returns how many of fields make up a FEN: the fen may be one
// quoted argument or four to six plain ones.
func lenFENFields(fields []string) int {
	if len(fields) == 0 {
		return 0
	}
	if strings.Contains(fields[0], " ") {
		return 1
	}
	n := min(len(fields), 6)
	for i := 4; i < n; i++ {
		if _, err := strconv.Atoi(fields[i]); err != nil {
			return i
		}
	}
	return n
}

func (sc *ShellController) move(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: move <san|uci>")
	}
	if err := sc.game.PlaySAN(cmd.args[0]); err != nil {
		return nil, err
	}
	return msg(sc.game.String()), nil
}

func (sc *ShellController) undo(cmd *shellcmd) (*Response, error) {
	if sc.game.Height() == 0 {
		return nil, errors.New("no move to take back")
	}
	sc.game.UnplayLastMove()
	return msg(sc.game.String()), nil
}

func formatScore(score int) string {
	if eval.IsMate(score) {
		plies := eval.MatePly(score)
		if score > 0 {
			return fmt.Sprintf("white mates in %d plies", plies)
		}
		return fmt.Sprintf("black mates in %d plies", plies)
	}
	return fmt.Sprintf("%+.2f", float64(score)/100)
}

func (sc *ShellController) describe(mr bot.MoveResult, san string) string {
	if mr.Source == bot.FromBook {
		return "book move: " + san
	}
	r := mr.Result
	return fmt.Sprintf("best move: %s (%s) depth %d, %d nodes, %d q-nodes, %v",
		san, formatScore(r.Score), r.Depth, r.Stats.Nodes, r.Stats.QNodes,
		r.Elapsed.Round(time.Millisecond))
}

func (sc *ShellController) commit(mr bot.MoveResult) (*Response, error) {
	san := sc.game.SAN(mr.Move)
	desc := sc.describe(mr, san)
	sc.game.PlayMove(mr.Move)
	return msg(desc + "\n" + sc.game.String()), nil
}

func (sc *ShellController) goSearch(cmd *shellcmd) (*Response, error) {
	depth := sc.player.Config().Depth
	if len(cmd.args) > 0 {
		d, err := strconv.Atoi(cmd.args[0])
		if err != nil {
			return nil, err
		}
		depth = d
	}
	mr, err := sc.player.GetMove(sc.game, depth)
	if err != nil {
		return nil, err
	}
	return sc.commit(mr)
}

func (sc *ShellController) think(cmd *shellcmd) (*Response, error) {
	limit := bot.Limit{MoveTime: time.Second}
	if len(cmd.args) > 0 {
		ms, err := strconv.Atoi(cmd.args[0])
		if err != nil {
			return nil, err
		}
		limit.MoveTime = time.Duration(ms) * time.Millisecond
	}
	mr, err := sc.player.Think(context.Background(), sc.game, limit)
	if err != nil {
		return nil, err
	}
	return sc.commit(mr)
}

func (sc *ShellController) eval(cmd *shellcmd) (*Response, error) {
	ev := sc.player.Searcher().Evaluator()
	if st := sc.game.Status(); st.GameOver() {
		return msg(fmt.Sprintf("%s: %s", st, formatScore(ev.Evaluate(sc.game, 0)))), nil
	}
	b := ev.Terms(sc.game)
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-16s%6d\n", "material", b.Material)
	fmt.Fprintf(&sb, "%-16s%6d\n", "piece-square", b.PieceSquare)
	fmt.Fprintf(&sb, "%-16s%6d\n", "mobility", b.Mobility)
	fmt.Fprintf(&sb, "%-16s%6d\n", "bishop pair", b.BishopPair)
	fmt.Fprintf(&sb, "%-16s%6d\n", "pawn structure", b.PawnStructure)
	fmt.Fprintf(&sb, "%-16s%6d\n", "king safety", b.KingSafety)
	fmt.Fprintf(&sb, "%-16s%6d", "total", b.Total())
	return msg(sb.String()), nil
}

func (sc *ShellController) bookMoves(cmd *shellcmd) (*Response, error) {
	bk := sc.player.Book()
	if bk == nil {
		return msg("no opening book loaded"), nil
	}
	cands := bk.Candidates(sc.game)
	if len(cands) == 0 {
		return msg("no book moves"), nil
	}
	var sb strings.Builder
	for _, c := range cands {
		fmt.Fprintf(&sb, "%-8s%4d\n", c.SAN, c.Weight)
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	return msg(fmt.Sprintf("%s\nfen: %s\nstatus: %s",
		sc.game.String(), sc.game.FEN(), sc.game.Status())), nil
}

func (sc *ShellController) settings() string {
	c := sc.player.Config()
	s := sc.player.Searcher()
	return fmt.Sprintf("Settings:\n  depth: %d\n  maxdepth: %d\n  book: %v\n  tt: %v\n  ttpolicy: %s",
		c.Depth, c.MaxDepth, c.UseBook, s.TranspositionTableOptim(),
		s.TranspositionTable().Policy().Name())
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(sc.settings()), nil
	}
	if len(cmd.args) != 2 {
		return nil, errors.New("usage: set <key> <value>")
	}
	key, val := cmd.args[0], cmd.args[1]
	c := sc.player.Config()
	s := sc.player.Searcher()
	switch key {
	case "depth", "maxdepth", "maxply":
		n, err := strconv.Atoi(val)
		if err != nil {
			return nil, err
		}
		if n < 1 {
			return nil, fmt.Errorf("%s must be at least 1", key)
		}
		switch key {
		case "depth":
			c.Depth = n
		case "maxdepth":
			c.MaxDepth = n
		case "maxply":
			s.SetMaxPly(n)
		}
	case "book", "tt":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return nil, err
		}
		if key == "book" {
			c.UseBook = b
		} else {
			s.SetTranspositionTableOptim(b)
		}
	case "ttpolicy":
		p, err := search.PolicyFromName(val)
		if err != nil {
			return nil, err
		}
		s.TranspositionTable().SetPolicy(p)
	default:
		return nil, fmt.Errorf("no such option: %s", key)
	}
	sc.player.SetConfig(c)
	return msg("set " + key + " to " + val), nil
}

func (sc *ShellController) autoplay(cmd *shellcmd) (*Response, error) {
	games, err := cmd.options.IntDefault("games", 2)
	if err != nil {
		return nil, err
	}
	depth, err := cmd.options.IntDefault("depth", 2)
	if err != nil {
		return nil, err
	}
	threads, err := cmd.options.IntDefault("threads", 0)
	if err != nil {
		return nil, err
	}
	maxPlies, err := cmd.options.IntDefault("maxplies", automatic.DefaultMaxPlies)
	if err != nil {
		return nil, err
	}
	r := &automatic.Runner{
		NewPlayers: func() ([2]*bot.Player, error) {
			var players [2]*bot.Player
			for i := range players {
				policy := sc.player.Searcher().TranspositionTable().Policy()
				s := search.NewSearcher(nil, search.NewTranspositionTable(search.DefaultTTSizePowerOf2, policy))
				s.SetTranspositionTableOptim(sc.player.Searcher().TranspositionTableOptim())
				players[i] = bot.NewPlayer(sc.player.Config(), s, sc.player.Book())
			}
			return players, nil
		},
		Threads:  threads,
		Depth:    depth,
		MaxPlies: maxPlies,
		GameLog:  io.Discard,
	}
	summary, err := r.Play(context.Background(), games)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("games", summary.Games).Msg("autoplay-done")
	return msg(summary.String()), nil
}
