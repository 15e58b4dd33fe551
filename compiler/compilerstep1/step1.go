package compilerstep1

import (
	"errors"
	"slices"

	pc "github.com/shibukawa/parsercombinator"
	cmn "github.com/shibukawa/pestplay/compiler/compilercommon"
	"github.com/shibukawa/pestplay/location"
	tok "github.com/shibukawa/pestplay/tokenizer"
)

func isNotMatch(err error) bool {
	return errors.Is(err, pc.ErrNotMatch)
}

// grammarParser holds the state of one syntactic parse. Attempts are
// tracked per token index so the furthest failure can be reported with
// the meta rules that were expected there.
type grammarParser struct {
	source string
	tokens []pc.Token[Entity]

	attemptPos int
	positives  []cmn.MetaRule
	negatives  []cmn.MetaRule
}

func (p *grammarParser) index(tokens []pc.Token[Entity]) int {
	return len(p.tokens) - len(tokens)
}

func (p *grammarParser) attemptsAt(pos int) int {
	if pos == p.attemptPos {
		return len(p.positives) + len(p.negatives)
	}
	return 0
}

func (p *grammarParser) track(rule cmn.MetaRule, pos, positivesIndex, negativesIndex, prevAttempts int) {
	// A failing rule whose only nested attempt is one child reports the
	// child instead.
	current := p.attemptsAt(pos)
	if current > prevAttempts && current-prevAttempts == 1 {
		return
	}

	if pos == p.attemptPos {
		p.positives = p.positives[:positivesIndex]
		p.negatives = p.negatives[:negativesIndex]
	}

	if pos > p.attemptPos {
		p.positives = p.positives[:0]
		p.negatives = p.negatives[:0]
		p.attemptPos = pos
	}

	if pos == p.attemptPos {
		p.positives = append(p.positives, rule)
	}
}

// rule wraps body so that a match produces one syntax node and a failure
// is tracked as an expected meta rule.
func (p *grammarParser) rule(meta cmn.MetaRule, body pc.Parser[Entity]) pc.Parser[Entity] {
	return pc.Trace(meta.String(), func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
		pos := p.index(tokens)

		positivesIndex, negativesIndex := 0, 0
		if pos == p.attemptPos {
			positivesIndex, negativesIndex = len(p.positives), len(p.negatives)
		}
		prevAttempts := p.attemptsAt(pos)

		consumed, children, err := body(pctx, tokens)
		if err != nil {
			if isNotMatch(err) {
				p.track(meta, pos, positivesIndex, negativesIndex, prevAttempts)
			}
			return 0, nil, err
		}

		node := p.newNode(meta, tokens[:consumed], children)

		return consumed, []pc.Token[Entity]{
			{
				Type: meta.String(),
				Pos:  tokens[0].Pos,
				Val:  Entity{Original: tokens[0].Val.Original, Node: node},
			},
		}, nil
	})
}

func (p *grammarParser) newNode(meta cmn.MetaRule, consumed []pc.Token[Entity], children []pc.Token[Entity]) *cmn.SyntaxNode {
	start := consumed[0].Val.Original.Position
	end := consumed[len(consumed)-1].Val.Original.End

	node := &cmn.SyntaxNode{
		Rule:  meta,
		Text:  p.source[start.Offset:end.Offset],
		Start: start,
		End:   end,
	}

	for _, child := range children {
		if child.Val.Node != nil {
			node.Children = append(node.Children, child.Val.Node)
		}
	}

	return node
}

func (p *grammarParser) leaf(meta cmn.MetaRule, types ...tok.TokenType) pc.Parser[Entity] {
	return p.rule(meta, primitiveType(types...))
}

// grammar builds the meta grammar:
//
//	grammar_rules = _{ SOI ~ grammar_doc* ~ grammar_rule+ ~ EOI }
//	grammar_rule  =  { identifier ~ "=" ~ modifier? ~ "{" ~ expression ~ "}" | line_doc }
//	expression    =  { "|"? ~ term ~ (("~" | "|") ~ term)* }
//	term          =  { (tag_id ~ "=")? ~ ("&" | "!")* ~ node ~ postfix* }
//	node          = _{ "(" ~ expression ~ ")" | terminal }
//	terminal      = _{ _push | peek_slice | identifier | string | insensitive_string | range }
func (p *grammarParser) grammar() pc.Parser[Entity] {
	var expression pc.Parser[Entity]
	lazyExpression := pc.Lazy(func() pc.Parser[Entity] { return expression })

	identifier := p.rule(cmn.Identifier, identifierToken)
	assignment := p.leaf(cmn.AssignmentOperator, tok.EQUALS)
	openingBrace := p.leaf(cmn.OpeningBrace, tok.OPENED_BRACE)
	closingBrace := p.leaf(cmn.ClosingBrace, tok.CLOSED_BRACE)
	openingParen := p.leaf(cmn.OpeningParen, tok.OPENED_PARENS)
	closingParen := p.leaf(cmn.ClosingParen, tok.CLOSED_PARENS)
	openingBracket := p.leaf(cmn.OpeningBracket, tok.OPENED_BRACKET)
	closingBracket := p.leaf(cmn.ClosingBracket, tok.CLOSED_BRACKET)
	comma := p.leaf(cmn.Comma, tok.COMMA)
	rangeOperator := p.leaf(cmn.RangeOperator, tok.DOT_DOT)
	number := p.leaf(cmn.Number, tok.NUMBER)
	integer := p.rule(cmn.Integer, integerToken)
	str := p.leaf(cmn.String, tok.STRING)
	character := p.leaf(cmn.Character, tok.CHARACTER)
	tag := p.leaf(cmn.Tag, tok.TAG)
	choiceOperator := p.leaf(cmn.ChoiceOperator, tok.PIPE)
	sequenceOperator := p.leaf(cmn.SequenceOperator, tok.TILDE)

	modifier := choice(
		p.rule(cmn.SilentModifier, word("_")),
		p.leaf(cmn.AtomicModifier, tok.AT),
		p.leaf(cmn.CompoundAtomicModifier, tok.DOLLAR),
		p.leaf(cmn.NonAtomicModifier, tok.BANG),
	)

	push := p.rule(cmn.Push, pc.Seq(word("PUSH"), openingParen, lazyExpression, closingParen))
	peekSlice := p.rule(cmn.PeekSlice, pc.Seq(
		word("PEEK"),
		openingBracket,
		pc.Optional(integer),
		rangeOperator,
		pc.Optional(integer),
		closingBracket,
	))
	insensitiveString := p.rule(cmn.InsensitiveString, pc.Seq(primitiveType(tok.CARET), str))
	characterRange := p.rule(cmn.Range, pc.Seq(character, rangeOperator, character))

	terminal := choice(push, peekSlice, identifier, str, insensitiveString, characterRange)
	node := choice(pc.Seq(openingParen, lazyExpression, closingParen), terminal)

	prefix := choice(
		p.leaf(cmn.PositivePredicateOperator, tok.AMPERSAND),
		p.leaf(cmn.NegativePredicateOperator, tok.BANG),
	)
	postfix := choice(
		p.leaf(cmn.OptionalOperator, tok.QUESTION),
		p.leaf(cmn.RepeatOperator, tok.STAR),
		p.leaf(cmn.RepeatOnceOperator, tok.PLUS),
		p.rule(cmn.RepeatExact, pc.Seq(openingBrace, number, closingBrace)),
		p.rule(cmn.RepeatMin, pc.Seq(openingBrace, number, comma, closingBrace)),
		p.rule(cmn.RepeatMax, pc.Seq(openingBrace, comma, number, closingBrace)),
		p.rule(cmn.RepeatMinMax, pc.Seq(openingBrace, number, comma, number, closingBrace)),
	)

	term := p.rule(cmn.Term, pc.Seq(
		pc.Optional(pc.Seq(tag, assignment)),
		pc.ZeroOrMore("prefix operators", prefix),
		node,
		pc.ZeroOrMore("postfix operators", postfix),
	))

	expression = p.rule(cmn.Expression, pc.Seq(
		pc.Optional(choiceOperator),
		term,
		pc.ZeroOrMore("infix terms", pc.Seq(choice(sequenceOperator, choiceOperator), term)),
	))

	lineDoc := p.leaf(cmn.LineDoc, tok.LINE_DOC)
	grammarDoc := p.leaf(cmn.GrammarDoc, tok.GRAMMAR_DOC)

	grammarRule := p.rule(cmn.GrammarRule, choice(
		pc.Seq(identifier, assignment, pc.Optional(modifier), openingBrace, expression, closingBrace),
		lineDoc,
	))

	return pc.Seq(
		pc.ZeroOrMore("grammar docs", grammarDoc),
		grammarRule,
		pc.ZeroOrMore("grammar rules", grammarRule),
		p.leaf(cmn.EOI, tok.EOF),
	)
}

// Execute tokenizes and parses grammar source into a syntax tree. A failure
// is reported as a single syntactic CompileError.
func Execute(source string) (*cmn.SyntaxNode, error) {
	rawTokens, err := tok.NewGrammarTokenizer(source).AllTokens()
	if err != nil {
		return nil, lexicalError(err)
	}

	p := &grammarParser{
		source: source,
		tokens: toParserTokens(rawTokens),
	}

	pctx := pc.NewParseContext[Entity]()

	_, parsed, err := p.grammar()(pctx, p.tokens)
	if err != nil {
		return nil, cmn.CompileErrors{p.syntaxError()}
	}

	root := &cmn.SyntaxNode{
		Rule:  cmn.Grammar,
		Text:  source,
		Start: tok.Position{Line: 1, Column: 1},
		End:   rawTokens[len(rawTokens)-1].End,
	}
	for _, token := range parsed {
		if token.Val.Node != nil && token.Val.Node.Rule != cmn.EOI {
			root.Children = append(root.Children, token.Val.Node)
		}
	}

	return root, nil
}

func lexicalError(err error) error {
	var lexErr *tok.Error
	if !errors.As(err, &lexErr) {
		return cmn.CompileErrors{{Stage: cmn.StageSyntactic, Message: err.Error(), Location: location.Pos{Line: 1, Col: 1}}}
	}

	message := lexErr.Err.Error()
	if lexErr.Detail != "" {
		message += ": " + lexErr.Detail
	}

	return cmn.CompileErrors{{
		Stage:    cmn.StageSyntactic,
		Message:  message,
		Location: location.Pos{Line: lexErr.Position.Line, Col: lexErr.Position.Column},
	}}
}

var closers = []cmn.MetaRule{cmn.ClosingBrace, cmn.ClosingParen, cmn.ClosingBracket}

func (p *grammarParser) syntaxError() *cmn.CompileError {
	pos := p.attemptPos
	if pos >= len(p.tokens) {
		pos = len(p.tokens) - 1
	}

	at := p.tokens[pos].Val.Original.Position

	// A missing closer or an unexpected end of input is reported right after
	// the last token when that token sits on an earlier line.
	if pos > 0 {
		prev := p.tokens[pos-1].Val.Original.End
		missingCloser := slices.ContainsFunc(p.positives, func(r cmn.MetaRule) bool { return slices.Contains(closers, r) })
		atEnd := p.tokens[pos].Val.Original.Type == tok.EOF
		if (missingCloser || atEnd) && prev.Line < at.Line {
			at = prev
		}
	}

	positives := slices.Compact(slices.Sorted(slices.Values(p.positives)))
	negatives := slices.Compact(slices.Sorted(slices.Values(p.negatives)))
	perr := &cmn.ParsingError{Positives: positives, Negatives: negatives, Offset: at.Offset}

	return &cmn.CompileError{
		Stage:    cmn.StageSyntactic,
		Message:  perr.Message(cmn.RenameMetaRule),
		Location: location.Pos{Line: at.Line, Col: at.Column},
	}
}
