package tokenizer

import "slices"

// Keywords are the built-in rule names offered for completion and highlighted
// as keywords.
var Keywords = []string{
	"PUSH",
	"POP",
	"PEEK",
	"POP_ALL",
	"PEEK_ALL",
	"WHITESPACE",
	"COMMENT",
	"SOI",
	"EOI",
	"NEWLINE",
	"ASCII_DIGIT",
	"ASCII_NONZERO_DIGIT",
	"ASCII_BIN_DIGIT",
	"ASCII_OCT_DIGIT",
	"ASCII_HEX_DIGIT",
	"ASCII_ALPHA_LOWER",
	"ASCII_ALPHA_UPPER",
	"ASCII_ALPHA",
	"ASCII_ALPHANUMERIC",
	"ANY",
	"LETTER",
	"CASED_LETTER",
	"UPPERCASE_LETTER",
	"LOWERCASE_LETTER",
	"TITLECASE_LETTER",
	"MODIFIER_LETTER",
	"OTHER_LETTER",
	"MARK",
	"COMBINING_SPACING_MARK",
	"ENCLOSING_MARK",
	"NONSPACING_MARK",
	"NUMBER",
	"DECIMAL_NUMBER",
	"LETTER_NUMBER",
	"OTHER_NUMBER",
	"PUNCTUATION",
	"CONNECTOR_PUNCTUATION",
	"DASH_PUNCTUATION",
	"OPEN_PUNCTUATION",
	"CLOSE_PUNCTUATION",
	"INITIAL_PUNCTUATION",
	"FINAL_PUNCTUATION",
	"OTHER_PUNCTUATION",
	"SYMBOL",
	"MATH_SYMBOL",
	"CURRENCY_SYMBOL",
	"MODIFIER_SYMBOL",
	"OTHER_SYMBOL",
	"SEPARATOR",
	"SPACE_SEPARATOR",
	"LINE_SEPARATOR",
	"PARAGRAPH_SEPARATOR",
	"CONTROL",
	"FORMAT",
	"SURROGATE",
	"PRIVATE_USE",
	"UNASSIGNED",
	"ALPHABETIC",
	"BIDI_CONTROL",
	"CASE_IGNORABLE",
	"CASED",
	"CHANGES_WHEN_CASEFOLDED",
	"CHANGES_WHEN_CASEMAPPED",
	"CHANGES_WHEN_LOWERCASED",
	"CHANGES_WHEN_TITLECASED",
	"CHANGES_WHEN_UPPERCASED",
	"DASH",
	"DEFAULT_IGNORABLE_CODE_POINT",
	"DEPRECATED",
	"DIACRITIC",
	"EXTENDER",
	"GRAPHEME_BASE",
	"GRAPHEME_EXTEND",
	"GRAPHEME_LINK",
	"HEX_DIGIT",
	"HYPHEN",
	"IDS_BINARY_OPERATOR",
	"IDS_TRINARY_OPERATOR",
	"ID_CONTINUE",
	"ID_START",
	"IDEOGRAPHIC",
	"JOIN_CONTROL",
	"LOGICAL_ORDER_EXCEPTION",
	"LOWERCASE",
	"MATH",
	"NONCHARACTER_CODE_POINT",
	"OTHER_ALPHABETIC",
	"OTHER_DEFAULT_IGNORABLE_CODE_POINT",
	"OTHER_GRAPHEME_EXTEND",
	"OTHER_ID_CONTINUE",
	"OTHER_ID_START",
	"OTHER_LOWERCASE",
	"OTHER_MATH",
	"OTHER_UPPERCASE",
	"PATTERN_SYNTAX",
	"PATTERN_WHITE_SPACE",
	"PREPENDED_CONCATENATION_MARK",
	"QUOTATION_MARK",
	"RADICAL",
	"REGIONAL_INDICATOR",
	"SENTENCE_TERMINAL",
	"SOFT_DOTTED",
	"TERMINAL_PUNCTUATION",
	"UNIFIED_IDEOGRAPH",
	"UPPERCASE",
	"VARIATION_SELECTOR",
	"WHITE_SPACE",
	"XID_CONTINUE",
	"XID_START",
}

var keywordSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(Keywords))
	for _, k := range Keywords {
		set[k] = struct{}{}
	}
	return set
}()

// IsKeyword reports whether name is a built-in rule name.
func IsKeyword(name string) bool {
	_, ok := keywordSet[name]
	return ok
}

// SortedKeywords returns a sorted copy of Keywords.
func SortedKeywords() []string {
	result := slices.Clone(Keywords)
	slices.Sort(result)
	return result
}

// Highlight classes
const (
	ClassComment     = "comment"
	ClassDoc         = "doc"
	ClassString      = "string"
	ClassTag         = "tag"
	ClassKeyword     = "keyword"
	ClassIdentifier  = "identifier"
	ClassNumber      = "number"
	ClassOperator    = "operator"
	ClassPunctuation = "punctuation"
	ClassWhitespace  = "whitespace"
)

// Class returns the highlight class of a token.
func Class(token Token) string {
	switch token.Type {
	case LINE_COMMENT, BLOCK_COMMENT:
		return ClassComment
	case LINE_DOC, GRAMMAR_DOC:
		return ClassDoc
	case STRING, CHARACTER:
		return ClassString
	case TAG:
		return ClassTag
	case IDENTIFIER:
		if token.Value == "_" {
			return ClassOperator
		}
		if IsKeyword(token.Value) {
			return ClassKeyword
		}
		return ClassIdentifier
	case NUMBER:
		return ClassNumber
	case MINUS, DOT_DOT, BANG, TILDE, AT, DOLLAR, PLUS, STAR, QUESTION, EQUALS,
		OPENED_BRACE, CLOSED_BRACE, PIPE, AMPERSAND, CARET:
		return ClassOperator
	case WHITESPACE, EOF:
		return ClassWhitespace
	default:
		return ClassPunctuation
	}
}
