package commands

import "strings"

// command is one entry of the dispatch table.
type command struct {
	names []string // accepted spellings; may be several words
	usage string
	exit  bool // ends the session
	run   func(h *Handler, args []string) (Result, error)
}

// commandTable is the dispatch table. Names are matched case-insensitively
// against the leading words of the input; the longest match wins.
var commandTable = []*command{
	{names: []string{"hello"}, usage: "hello", run: (*Handler).hello},
	{names: []string{"add"}, usage: "add <name> [phone] [email] [birthday DD-MM-YYYY]", run: (*Handler).add},
	{names: []string{"change"}, usage: "change <name> <old phone|email> <new phone|email>", run: (*Handler).change},
	{names: []string{"delete"}, usage: "delete <name> <phone|email>", run: (*Handler).deleteValue},
	{names: []string{"remove"}, usage: "remove <name>", run: (*Handler).remove},
	{names: []string{"phone"}, usage: "phone <name>", run: (*Handler).phone},
	{names: []string{"birthday"}, usage: "birthday <name>", run: (*Handler).birthday},
	{names: []string{"show all"}, usage: "show all [name|phone <substring>]", run: (*Handler).showAll},
	{names: []string{"search"}, usage: "search <substring>", run: (*Handler).find},
	{names: []string{"good bye", "close", "exit"}, usage: "good bye | close | exit", exit: true, run: (*Handler).exit},
}

// parse splits line into words and finds the command whose name matches the
// most leading words. It returns the canonical name and the remaining words.
func parse(line string) (*command, string, []string) {
	words := strings.Fields(line)
	if len(words) == 0 {
		return nil, "", nil
	}

	var (
		best     *command
		bestName string
		bestLen  int
	)
	for _, c := range commandTable {
		for _, name := range c.names {
			nameWords := strings.Fields(name)
			if len(nameWords) <= bestLen || len(nameWords) > len(words) {
				continue
			}
			if matchWords(words[:len(nameWords)], nameWords) {
				best, bestName, bestLen = c, name, len(nameWords)
			}
		}
	}
	if best == nil {
		return nil, "", nil
	}
	return best, bestName, words[bestLen:]
}

func matchWords(input, name []string) bool {
	for i := range name {
		if !strings.EqualFold(input[i], name[i]) {
			return false
		}
	}
	return true
}

// lookup returns the command with the given name.
func lookup(name string) *command {
	for _, c := range commandTable {
		for _, n := range c.names {
			if strings.EqualFold(n, name) {
				return c
			}
		}
	}
	return nil
}
