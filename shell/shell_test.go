package shell

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/corvidchess/corvid/board"
	"github.com/corvidchess/corvid/config"
	"github.com/corvidchess/corvid/eval"
	"github.com/corvidchess/corvid/testhelpers"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"autoplay -games 10",
			&shellcmd{"autoplay", nil, map[string]string{"games": "10"}},
			nil},
		{"go 3",
			&shellcmd{"go", []string{"3"}, map[string]string{}},
			nil},
		{"autoplay -games 4 -depth 2 ",
			&shellcmd{"autoplay", nil, map[string]string{"games": "4", "depth": "2"}},
			nil,
		},
		{`position fen "8/8/8/8/8/8/8/K1k5 w - - 0 1" moves Kb1`,
			&shellcmd{"position",
				[]string{"fen", "8/8/8/8/8/8/8/K1k5 w - - 0 1", "moves", "Kb1"},
				map[string]string{}},
			nil,
		},
		{"position fen 8/8/8/8/8/8/8/K1k5 w - - 0 1",
			&shellcmd{"position",
				[]string{"fen", "8/8/8/8/8/8/8/K1k5", "w", "-", "-", "0", "1"},
				map[string]string{}},
			nil,
		},
		{"autoplay -games 4 -depth",
			nil, errWrongOptionSyntax},
	}
	for _, t := range cases {
		cmd, err := extractFields(t.line)
		is.Equal(cmd, t.expCmd)
		is.Equal(err, t.expErr)
	}
}

func TestLenFENFields(t *testing.T) {
	is := is.New(t)
	is.Equal(lenFENFields(nil), 0)
	is.Equal(lenFENFields([]string{"8/8/8/8/8/8/8/K1k5 w - - 0 1", "moves"}), 1)
	is.Equal(lenFENFields(strings.Fields("8/8/8/8/8/8/8/K1k5 w - - 0 1 moves Kb1")), 6)
	is.Equal(lenFENFields(strings.Fields("8/8/8/8/8/8/8/K1k5 w - - moves Kb1")), 4)
	is.Equal(lenFENFields(strings.Fields("8/8/8/8/8/8/8/K1k5 w - -")), 4)
}

func TestFormatScore(t *testing.T) {
	is := is.New(t)
	is.Equal(formatScore(0), "+0.00")
	is.Equal(formatScore(-125), "-1.25")
	is.Equal(formatScore(eval.MateScore-3), "white mates in 3 plies")
	is.Equal(formatScore(-eval.MateScore+1), "black mates in 1 plies")
}

func testController(t *testing.T) *ShellController {
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigTTSizePowerOf2, 12)
	cfg.Set(config.ConfigSearchDepth, 2)
	sc, err := newController(cfg, "")
	if err != nil {
		t.Fatal(err)
	}
	return sc
}

func run(t *testing.T, sc *ShellController, line string) (string, error) {
	t.Helper()
	sig := make(chan os.Signal, 1)
	resp, err := sc.standardModeSwitch(line, sig)
	if err != nil {
		return "", err
	}
	return resp.message, nil
}

func TestPositionCommands(t *testing.T) {
	is := is.New(t)
	sc := testController(t)

	_, err := run(t, sc, "position startpos moves e4 e5 Nf3")
	is.NoErr(err)
	is.Equal(sc.game.Height(), 3)

	_, err = run(t, sc, "position fen "+testhelpers.PawnTakesQueenFEN+" moves exd5")
	is.NoErr(err)
	is.Equal(sc.game.Height(), 1)
	is.Equal(sc.game.SideToMove(), board.Black)

	_, err = run(t, sc, `position fen "`+testhelpers.BackRankMateFEN+`"`)
	is.NoErr(err)
	is.Equal(sc.game.FEN(), testhelpers.BackRankMateFEN)

	_, err = run(t, sc, "position fen 4k3/8/8/3q4/4P3/8/8/4K3 w - - moves exd5")
	is.NoErr(err)
	is.Equal(sc.game.Height(), 1)

	_, err = run(t, sc, "position fen")
	is.True(err != nil)
	_, err = run(t, sc, "position somewhere")
	is.True(err != nil)
	_, err = run(t, sc, "position startpos moves e5")
	is.True(err != nil)
	// A failed command leaves the game alone.
	is.Equal(sc.game.Height(), 1)

	msg, err := run(t, sc, "new")
	is.NoErr(err)
	is.True(strings.Contains(msg, "fen: "+testhelpers.StartFEN))
	is.True(strings.Contains(msg, "status: ongoing"))
}

func TestMoveAndUndo(t *testing.T) {
	is := is.New(t)
	sc := testController(t)

	_, err := run(t, sc, "undo")
	is.True(err != nil)
	_, err = run(t, sc, "move e4")
	is.NoErr(err)
	_, err = run(t, sc, "m e7e5")
	is.NoErr(err)
	_, err = run(t, sc, "move Ke3")
	is.True(err != nil)
	is.Equal(sc.game.Height(), 2)
	_, err = run(t, sc, "u")
	is.NoErr(err)
	is.Equal(sc.game.Height(), 1)
}

func TestGoAndThink(t *testing.T) {
	is := is.New(t)
	sc := testController(t)

	msg, err := run(t, sc, "go")
	is.NoErr(err)
	is.True(strings.HasPrefix(msg, "book move: "))

	_, err = run(t, sc, "position fen "+testhelpers.PawnTakesQueenFEN)
	is.NoErr(err)
	msg, err = run(t, sc, "go 1")
	is.NoErr(err)
	is.True(strings.HasPrefix(msg, "best move: exd5"))
	is.True(strings.Contains(msg, "depth 1"))

	_, err = run(t, sc, "position fen "+testhelpers.BackRankMateFEN)
	is.NoErr(err)
	msg, err = run(t, sc, "think 20")
	is.NoErr(err)
	is.True(strings.HasPrefix(msg, "best move: Ra8"))
	is.True(strings.Contains(msg, "white mates in 1 plies"))

	_, err = run(t, sc, "go")
	is.True(err != nil)
	_, err = run(t, sc, "go deep")
	is.True(err != nil)
}

func TestEvalAndBook(t *testing.T) {
	is := is.New(t)
	sc := testController(t)

	msg, err := run(t, sc, "eval")
	is.NoErr(err)
	is.True(strings.Contains(msg, "material"))
	is.True(strings.HasSuffix(msg, fmt.Sprintf("%-16s%6d", "total", 0)))

	msg, err = run(t, sc, "book")
	is.NoErr(err)
	is.True(strings.Contains(msg, "e4"))

	_, err = run(t, sc, "position fen "+testhelpers.BackRankMateFEN+" moves Ra8")
	is.NoErr(err)
	msg, err = run(t, sc, "eval")
	is.NoErr(err)
	is.True(strings.HasPrefix(msg, "checkmate: white mates"))
	msg, err = run(t, sc, "book")
	is.NoErr(err)
	is.Equal(msg, "no book moves")
}

func TestSet(t *testing.T) {
	is := is.New(t)
	sc := testController(t)

	msg, err := run(t, sc, "set")
	is.NoErr(err)
	is.True(strings.Contains(msg, "depth: 2"))

	for _, line := range []string{
		"set depth 3", "set maxdepth 5", "set maxply 20", "set book false",
		"set tt false", "set ttpolicy generation",
	} {
		_, err := run(t, sc, line)
		is.NoErr(err)
	}
	c := sc.player.Config()
	is.Equal(c.Depth, 3)
	is.Equal(c.MaxDepth, 5)
	is.True(!c.UseBook)
	is.True(!sc.player.Searcher().TranspositionTableOptim())
	is.Equal(sc.player.Searcher().TranspositionTable().Policy().Name(), "generation")

	for _, line := range []string{
		"set depth 0", "set depth x", "set tt maybe", "set ttpolicy lru",
		"set colour blue", "set depth",
	} {
		_, err := run(t, sc, line)
		is.True(err != nil)
	}
	is.Equal(sc.player.Config().Depth, 3)

	// No book: the start position is searched.
	msg, err = run(t, sc, "go 1")
	is.NoErr(err)
	is.True(strings.HasPrefix(msg, "best move: "))
}

func TestAutoplay(t *testing.T) {
	is := is.New(t)
	sc := testController(t)

	msg, err := run(t, sc, "autoplay -games 2 -depth 1 -threads 2 -maxplies 3")
	is.NoErr(err)
	is.Equal(msg, "games: 2, player 1 wins: 0, player 2 wins: 0, draws: 0, unfinished: 2")

	_, err = run(t, sc, "autoplay -games many")
	is.True(err != nil)
}

func TestUnknownAndExit(t *testing.T) {
	is := is.New(t)
	sc := testController(t)

	_, err := run(t, sc, "castle")
	is.True(err != nil)

	sig := make(chan os.Signal, 1)
	_, err = sc.standardModeSwitch("exit", sig)
	is.True(err != nil)
	is.Equal(len(sig), 1)

	msg, err := run(t, sc, "help")
	is.NoErr(err)
	is.Equal(msg, helpText)
}
