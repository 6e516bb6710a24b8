package shell

import "strings"

// completer offers verb names for the first word and child-node names
// for later words. It reads the live context so completion follows cd.
type completer struct {
	shell *Shell
	ctx   *Context
}

func (c *completer) Do(line []rune, pos int) ([][]rune, int) {
	head := string(line[:pos])
	start := strings.LastIndexAny(head, " \t") + 1
	word := head[start:]

	var candidates []string
	if start == 0 {
		candidates = c.verbs(word)
	} else {
		candidates = c.paths(word)
	}

	var out [][]rune
	for _, candidate := range candidates {
		out = append(out, []rune(candidate[len(word):]))
	}
	return out, len(word)
}

func (c *completer) verbs(prefix string) []string {
	var out []string
	for _, name := range c.shell.order {
		if strings.HasPrefix(name, prefix) {
			out = append(out, name+" ")
		}
	}
	return out
}

// paths completes the last path segment of the word against the child
// names of the directory part. Lookup failures just mean no candidates.
func (c *completer) paths(word string) []string {
	if strings.HasPrefix(word, "-") {
		return nil
	}

	dir, base := "", word
	if cut := strings.LastIndexByte(word, '/'); cut >= 0 {
		dir, base = word[:cut+1], word[cut+1:]
	}

	target := c.ctx.Resolve(dir)
	names, _, err := c.shell.client.Children(target.String())
	if err != nil {
		return nil
	}

	var out []string
	for _, name := range names {
		if strings.HasPrefix(name, base) {
			out = append(out, dir+name)
		}
	}
	return out
}
