package vm

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

type lookahead int

const (
	lookaheadNone lookahead = iota
	lookaheadPositive
	lookaheadNegative
)

type atomicity int

const (
	nonAtomic atomicity = iota
	atomic
	compoundAtomic
)

// stackNode is an immutable linked stack, so a checkpoint is one pointer.
type stackNode struct {
	value string
	next  *stackNode
	size  int
}

func (n *stackNode) len() int {
	if n == nil {
		return 0
	}
	return n.size
}

func (n *stackNode) push(value string) *stackNode {
	return &stackNode{value: value, next: n, size: n.len() + 1}
}

// bottomToTop returns the stack contents, bottom first.
func (n *stackNode) bottomToTop() []string {
	values := make([]string, n.len())
	for i, node := len(values)-1, n; node != nil; i, node = i-1, node.next {
		values[i] = node.value
	}
	return values
}

type checkpoint struct {
	pos   int
	queue int
	stack *stackNode
}

type state struct {
	input string
	pos   int
	queue []queueToken
	stack *stackNode

	lookahead lookahead
	atomicity atomicity

	attemptPos int
	positives  []string
	negatives  []string

	depth        int
	maxDepth     int
	limitReached bool

	fold cases.Caser
}

func newState(input string, maxDepth int) *state {
	return &state{
		input:    input,
		maxDepth: maxDepth,
		fold:     cases.Fold(),
	}
}

func (s *state) save() checkpoint {
	return checkpoint{pos: s.pos, queue: len(s.queue), stack: s.stack}
}

func (s *state) restore(c checkpoint) {
	s.pos = c.pos
	s.queue = s.queue[:c.queue]
	s.stack = c.stack
}

// attempt runs f and rolls the state back when it fails.
func (s *state) attempt(f func() bool) bool {
	c := s.save()
	if f() {
		return true
	}
	s.restore(c)
	return false
}

func (s *state) attemptsAt(pos int) int {
	if pos == s.attemptPos {
		return len(s.positives) + len(s.negatives)
	}
	return 0
}

func (s *state) track(rule string, pos, positivesIndex, negativesIndex, prevAttempts int) {
	if s.atomicity == atomic {
		return
	}

	// A failing rule whose only nested attempt is one child reports the
	// child instead.
	current := s.attemptsAt(pos)
	if current > prevAttempts && current-prevAttempts == 1 {
		return
	}

	if pos == s.attemptPos {
		s.positives = s.positives[:positivesIndex]
		s.negatives = s.negatives[:negativesIndex]
	}

	if pos > s.attemptPos {
		s.positives = s.positives[:0]
		s.negatives = s.negatives[:0]
		s.attemptPos = pos
	}

	if pos == s.attemptPos {
		if s.lookahead == lookaheadNegative {
			s.negatives = append(s.negatives, rule)
		} else {
			s.positives = append(s.positives, rule)
		}
	}
}

// rule matches f as the named rule, producing a pair unless the state is
// atomic or inside a lookahead.
func (s *state) rule(name string, f func() bool) bool {
	actualPos := s.pos
	index := len(s.queue)

	positivesIndex, negativesIndex := 0, 0
	if actualPos == s.attemptPos {
		positivesIndex, negativesIndex = len(s.positives), len(s.negatives)
	}
	prevAttempts := s.attemptsAt(actualPos)

	emit := s.lookahead == lookaheadNone && s.atomicity != atomic
	if emit {
		s.queue = append(s.queue, queueToken{start: true, pos: actualPos})
	}

	if !f() {
		if s.lookahead != lookaheadNegative {
			s.track(name, actualPos, positivesIndex, negativesIndex, prevAttempts)
		}
		if emit {
			s.queue = s.queue[:index]
		}
		return false
	}

	if s.lookahead == lookaheadNegative {
		s.track(name, actualPos, positivesIndex, negativesIndex, prevAttempts)
	}

	if emit {
		end := len(s.queue)
		s.queue[index].pair = end
		s.queue = append(s.queue, queueToken{rule: name, pos: s.pos, pair: index})
	}

	return true
}

func (s *state) withAtomicity(a atomicity, f func() bool) bool {
	initial := s.atomicity
	s.atomicity = a
	result := f()
	s.atomicity = initial
	return result
}

// lookaheadMatch runs f without consuming input or producing pairs.
func (s *state) lookaheadMatch(positive bool, f func() bool) bool {
	initial := s.lookahead
	switch {
	case positive && initial == lookaheadNegative, !positive && initial != lookaheadNegative:
		s.lookahead = lookaheadNegative
	default:
		s.lookahead = lookaheadPositive
	}

	c := s.save()
	result := f()
	s.restore(c)
	s.lookahead = initial

	if positive {
		return result
	}
	return !result
}

func (s *state) matchString(str string) bool {
	if strings.HasPrefix(s.input[s.pos:], str) {
		s.pos += len(str)
		return true
	}
	return false
}

func (s *state) matchInsensitive(str string) bool {
	end := s.pos + len(str)
	if end > len(s.input) {
		return false
	}
	slice := s.input[s.pos:end]
	if !utf8.ValidString(slice) {
		return false
	}
	if s.fold.String(slice) == s.fold.String(str) {
		s.pos = end
		return true
	}
	return false
}

func (s *state) matchCharBy(pred func(rune) bool) bool {
	if s.pos >= len(s.input) {
		return false
	}
	r, width := utf8.DecodeRuneInString(s.input[s.pos:])
	if pred(r) {
		s.pos += width
		return true
	}
	return false
}

func (s *state) matchRange(from, to rune) bool {
	return s.matchCharBy(func(r rune) bool { return from <= r && r <= to })
}

func (s *state) skipAny() bool {
	return s.matchCharBy(func(rune) bool { return true })
}

// skipUntil moves to the first occurrence of any of strs, or to the end of
// the input. It always succeeds.
func (s *state) skipUntil(strs []string) bool {
	rest := s.input[s.pos:]
	next := len(rest)
	for _, str := range strs {
		if i := strings.Index(rest, str); i >= 0 && i < next {
			next = i
		}
	}
	s.pos += next
	return true
}

func (s *state) stackPush(f func() bool) bool {
	start := s.pos
	if !f() {
		return false
	}
	s.stack = s.stack.push(s.input[start:s.pos])
	return true
}

func (s *state) stackPeek() bool {
	if s.stack == nil {
		return false
	}
	return s.matchString(s.stack.value)
}

func (s *state) stackPop() bool {
	if s.stack == nil {
		return false
	}
	top := s.stack
	if !s.matchString(top.value) {
		return false
	}
	s.stack = top.next
	return true
}

func (s *state) stackDrop() bool {
	if s.stack == nil {
		return false
	}
	s.stack = s.stack.next
	return true
}

// stackMatchAll matches the whole stack from the top down, popping it when
// pop is set.
func (s *state) stackMatchAll(pop bool) bool {
	start := s.pos
	for node := s.stack; node != nil; node = node.next {
		if !s.matchString(node.value) {
			s.pos = start
			return false
		}
	}
	if pop {
		s.stack = nil
	}
	return true
}

// stackMatchSlice matches PEEK[start..end] from the bottom up. Negative
// indexes count from the top.
func (s *state) stackMatchSlice(start int, end *int) bool {
	values := s.stack.bottomToTop()

	from, ok := normalizeIndex(start, len(values))
	if !ok {
		return false
	}
	to := len(values)
	if end != nil {
		if to, ok = normalizeIndex(*end, len(values)); !ok {
			return false
		}
	}
	if from > to {
		return false
	}

	pos := s.pos
	for _, value := range values[from:to] {
		if !s.matchString(value) {
			s.pos = pos
			return false
		}
	}
	return true
}

func normalizeIndex(i, length int) (int, bool) {
	switch {
	case i > length:
		return 0, false
	case i >= 0:
		return i, true
	case length+i >= 0:
		return length + i, true
	}
	return 0, false
}

// tagLast attaches a tag to the pair that ended last.
func (s *state) tagLast(tag string) {
	if n := len(s.queue); n > 0 && !s.queue[n-1].start {
		s.queue[n-1].tag = tag
	}
}
