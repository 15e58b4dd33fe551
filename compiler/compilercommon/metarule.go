package compilercommon

// MetaRule identifies a rule of the grammar-definition grammar.
type MetaRule int

const (
	Grammar MetaRule = iota
	GrammarRule
	GrammarDoc
	LineDoc
	Identifier
	AssignmentOperator
	SilentModifier
	AtomicModifier
	CompoundAtomicModifier
	NonAtomicModifier
	OpeningBrace
	ClosingBrace
	OpeningParen
	ClosingParen
	OpeningBracket
	ClosingBracket
	Expression
	Term
	Node
	PositivePredicateOperator
	NegativePredicateOperator
	SequenceOperator
	ChoiceOperator
	OptionalOperator
	RepeatOperator
	RepeatOnceOperator
	RepeatExact
	RepeatMin
	RepeatMax
	RepeatMinMax
	Comma
	Push
	PeekSlice
	RangeOperator
	Range
	Character
	String
	InsensitiveString
	Number
	Integer
	Tag
	EOI
)

var metaRuleNames = [...]string{
	Grammar:                   "grammar_rules",
	GrammarRule:               "grammar_rule",
	GrammarDoc:                "grammar_doc",
	LineDoc:                   "line_doc",
	Identifier:                "identifier",
	AssignmentOperator:        "assignment_operator",
	SilentModifier:            "silent_modifier",
	AtomicModifier:            "atomic_modifier",
	CompoundAtomicModifier:    "compound_atomic_modifier",
	NonAtomicModifier:         "non_atomic_modifier",
	OpeningBrace:              "opening_brace",
	ClosingBrace:              "closing_brace",
	OpeningParen:              "opening_paren",
	ClosingParen:              "closing_paren",
	OpeningBracket:            "opening_brack",
	ClosingBracket:            "closing_brack",
	Expression:                "expression",
	Term:                      "term",
	Node:                      "node",
	PositivePredicateOperator: "positive_predicate_operator",
	NegativePredicateOperator: "negative_predicate_operator",
	SequenceOperator:          "sequence_operator",
	ChoiceOperator:            "choice_operator",
	OptionalOperator:          "optional_operator",
	RepeatOperator:            "repeat_operator",
	RepeatOnceOperator:        "repeat_once_operator",
	RepeatExact:               "repeat_exact",
	RepeatMin:                 "repeat_min",
	RepeatMax:                 "repeat_max",
	RepeatMinMax:              "repeat_min_max",
	Comma:                     "comma",
	Push:                      "_push",
	PeekSlice:                 "peek_slice",
	RangeOperator:             "range_operator",
	Range:                     "range",
	Character:                 "character",
	String:                    "string",
	InsensitiveString:         "insensitive_string",
	Number:                    "number",
	Integer:                   "integer",
	Tag:                       "tag_id",
	EOI:                       "EOI",
}

func (r MetaRule) String() string {
	if r >= 0 && int(r) < len(metaRuleNames) {
		return metaRuleNames[r]
	}
	return "unknown"
}

var renamedMetaRules = map[MetaRule]string{
	GrammarRule:               "rule",
	Push:                      "PUSH",
	AssignmentOperator:        "`=`",
	SilentModifier:            "`_`",
	AtomicModifier:            "`@`",
	CompoundAtomicModifier:    "`$`",
	NonAtomicModifier:         "`!`",
	OpeningBrace:              "`{`",
	ClosingBrace:              "`}`",
	OpeningBracket:            "`[`",
	ClosingBracket:            "`]`",
	OpeningParen:              "`(`",
	ClosingParen:              "`)`",
	PositivePredicateOperator: "`&`",
	NegativePredicateOperator: "`!`",
	SequenceOperator:          "`~`",
	ChoiceOperator:            "`|`",
	OptionalOperator:          "`?`",
	RepeatOperator:            "`*`",
	RepeatOnceOperator:        "`+`",
	Comma:                     "`,`",
	RangeOperator:             "`..`",
	InsensitiveString:         "`^`",
	GrammarDoc:                "//!",
	LineDoc:                   "///",
}

// RenameMetaRule returns the user-facing name of a meta rule as it appears
// in syntax error messages.
func RenameMetaRule(r MetaRule) string {
	if name, ok := renamedMetaRules[r]; ok {
		return name
	}
	return r.String()
}
