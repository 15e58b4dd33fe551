package compilerstep1

import (
	"slices"

	pc "github.com/shibukawa/parsercombinator"
	cmn "github.com/shibukawa/pestplay/compiler/compilercommon"
	tok "github.com/shibukawa/pestplay/tokenizer"
)

// Entity is the stream element: a source token on input, a syntax node on
// output of a meta rule.
type Entity struct {
	Original tok.Token
	Node     *cmn.SyntaxNode
}

func toParserTokens(tokens []tok.Token) []pc.Token[Entity] {
	results := make([]pc.Token[Entity], 0, len(tokens))

	for _, token := range tokens {
		if token.Type.IsTrivia() {
			continue
		}
		results = append(results, pc.Token[Entity]{
			Type: "raw",
			Pos: &pc.Pos{
				Line:  token.Position.Line,
				Col:   token.Position.Column,
				Index: token.Position.Offset,
			},
			Val: Entity{Original: token},
			Raw: token.Value,
		})
	}

	return results
}

func primitiveType(types ...tok.TokenType) pc.Parser[Entity] {
	return func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
		if len(tokens) > 0 && slices.Contains(types, tokens[0].Val.Original.Type) {
			return 1, tokens[:1], nil
		}

		return 0, nil, pc.ErrNotMatch
	}
}

func word(w string) pc.Parser[Entity] {
	return func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
		if len(tokens) > 0 && tokens[0].Val.Original.Type == tok.IDENTIFIER && tokens[0].Val.Original.Value == w {
			return 1, tokens[:1], nil
		}

		return 0, nil, pc.ErrNotMatch
	}
}

func identifierToken(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
	if len(tokens) > 0 && tokens[0].Val.Original.Type == tok.IDENTIFIER && tokens[0].Val.Original.Value != "PUSH" {
		return 1, tokens[:1], nil
	}

	return 0, nil, pc.ErrNotMatch
}

// integerToken matches `123` or `-123`. The minus sign must touch the digits
// and negative zero is rejected.
func integerToken(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
	if len(tokens) == 0 {
		return 0, nil, pc.ErrNotMatch
	}

	first := tokens[0].Val.Original
	if first.Type == tok.NUMBER {
		return 1, tokens[:1], nil
	}

	if first.Type != tok.MINUS || len(tokens) < 2 {
		return 0, nil, pc.ErrNotMatch
	}

	digits := tokens[1].Val.Original
	if digits.Type != tok.NUMBER || digits.Position.Offset != first.End.Offset {
		return 0, nil, pc.ErrNotMatch
	}
	if isAllZero(digits.Value) {
		return 0, nil, pc.ErrNotMatch
	}

	return 2, tokens[:2], nil
}

func isAllZero(digits string) bool {
	for _, c := range digits {
		if c != '0' {
			return false
		}
	}
	return true
}

// choice is an ordered choice: the first alternative that matches wins.
func choice(parsers ...pc.Parser[Entity]) pc.Parser[Entity] {
	return func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
		for _, p := range parsers {
			consumed, result, err := p(pctx, tokens)
			if err == nil {
				return consumed, result, nil
			}
			if !isNotMatch(err) {
				return 0, nil, err
			}
		}

		return 0, nil, pc.ErrNotMatch
	}
}
