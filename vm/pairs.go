package vm

// Pair is a matched rule with the pairs of the rules it matched inside.
// Start and End are byte offsets in the input.
type Pair struct {
	Rule  string
	Tag   string
	Start int
	End   int
	Text  string
	Inner Pairs
}

// Pairs are sibling matches in input order.
type Pairs []*Pair

type queueToken struct {
	start bool
	rule  string
	tag   string
	pos   int
	pair  int // index of the matching start or end token
}

// buildPairs nests the flat token queue into pairs.
func buildPairs(input string, queue []queueToken) Pairs {
	var (
		roots Pairs
		stack []*Pair
	)

	for _, token := range queue {
		if token.start {
			pair := &Pair{Start: token.pos}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Inner = append(parent.Inner, pair)
			} else {
				roots = append(roots, pair)
			}
			stack = append(stack, pair)
			continue
		}

		pair := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		pair.Rule = token.rule
		pair.Tag = token.tag
		pair.End = token.pos
		pair.Text = input[pair.Start:pair.End]
	}

	return roots
}
