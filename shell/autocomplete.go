package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"
)

// ShellCompleter completes command names, their options and, for move,
// the legal moves of the current position.
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string
	Args    []string
}

var commandMetadata = map[string]CommandMetadata{
	"position": {Args: []string{"startpos", "fen", "moves"}},
	"set":      {Args: []string{"depth", "maxdepth", "book", "tt", "ttpolicy", "maxply"}},
	"autoplay": {Options: []string{"-games", "-depth", "-threads", "-maxplies"}},
}

var commandNames = []string{
	"help", "new", "position", "move", "undo", "go", "think", "eval", "book",
	"show", "set", "autoplay", "exit",
}

var boolValues = []string{"true", "false"}

// Do implements the readline.AutoCompleter interface.
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}
		var lastCompleteField string
		if endsWithSpace {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}

		switch {
		case cmdName == "move" || cmdName == "m":
			completions = c.legalMoves()
		case cmdName == "set" && (lastCompleteField == "book" || lastCompleteField == "tt"):
			completions = boolValues
		case cmdName == "set" && lastCompleteField == "ttpolicy":
			completions = []string{"always", "depth", "generation"}
		default:
			if metadata, exists := commandMetadata[cmdName]; exists {
				if strings.HasPrefix(prefix, "-") || len(metadata.Args) == 0 {
					completions = metadata.Options
				} else {
					completions = metadata.Args
				}
			}
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			matches = append(matches, []rune(completion[len(prefix):]))
		}
	}
	return matches, len(prefix)
}

func (c *ShellCompleter) legalMoves() []string {
	if c.sc == nil || c.sc.game == nil {
		return nil
	}
	moves := c.sc.game.LegalMoves()
	sans := make([]string, len(moves))
	for i, m := range moves {
		sans[i] = c.sc.game.SAN(m)
	}
	return sans
}
