package vm

import "unicode"

var asciiRanges = map[string]func(s *state) bool{
	"ASCII_DIGIT":         func(s *state) bool { return s.matchRange('0', '9') },
	"ASCII_NONZERO_DIGIT": func(s *state) bool { return s.matchRange('1', '9') },
	"ASCII_BIN_DIGIT":     func(s *state) bool { return s.matchRange('0', '1') },
	"ASCII_OCT_DIGIT":     func(s *state) bool { return s.matchRange('0', '7') },
	"ASCII_HEX_DIGIT": func(s *state) bool {
		return s.matchRange('0', '9') || s.matchRange('a', 'f') || s.matchRange('A', 'F')
	},
	"ASCII_ALPHA_LOWER": func(s *state) bool { return s.matchRange('a', 'z') },
	"ASCII_ALPHA_UPPER": func(s *state) bool { return s.matchRange('A', 'Z') },
	"ASCII_ALPHA": func(s *state) bool {
		return s.matchRange('a', 'z') || s.matchRange('A', 'Z')
	},
	"ASCII_ALPHANUMERIC": func(s *state) bool {
		return s.matchRange('a', 'z') || s.matchRange('A', 'Z') || s.matchRange('0', '9')
	},
	"ASCII": func(s *state) bool { return s.matchRange('\x00', '\x7f') },
}

var stackBuiltins = map[string]struct{}{
	"ANY": {}, "EOI": {}, "SOI": {}, "PEEK": {}, "PEEK_ALL": {}, "POP": {}, "POP_ALL": {}, "DROP": {}, "NEWLINE": {},
}

func isBuiltin(name string) bool {
	if _, ok := stackBuiltins[name]; ok {
		return true
	}
	if _, ok := asciiRanges[name]; ok {
		return true
	}
	_, ok := unicodeProperties[name]
	return ok
}

func in(tables ...*unicode.RangeTable) func(rune) bool {
	return func(r rune) bool { return unicode.In(r, tables...) }
}

func not(pred func(rune) bool) func(rune) bool {
	return func(r rune) bool { return !pred(r) }
}

func all(preds ...func(rune) bool) func(rune) bool {
	return func(r rune) bool {
		for _, p := range preds {
			if !p(r) {
				return false
			}
		}
		return true
	}
}

func anyOf(preds ...func(rune) bool) func(rune) bool {
	return func(r rune) bool {
		for _, p := range preds {
			if p(r) {
				return true
			}
		}
		return false
	}
}

var (
	assigned = in(unicode.L, unicode.M, unicode.N, unicode.P, unicode.S, unicode.Z, unicode.C)

	patternChars = in(unicode.Pattern_Syntax, unicode.Pattern_White_Space)
	idStart      = all(in(unicode.L, unicode.Nl, unicode.Other_ID_Start), not(patternChars))
	idContinue   = all(anyOf(idStart, in(unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc, unicode.Other_ID_Continue)), not(patternChars))

	graphemeExtend = in(unicode.Me, unicode.Mn, unicode.Other_Grapheme_Extend)

	// Viramas of the major Indic scripts.
	viramas = &unicode.RangeTable{R16: []unicode.Range16{
		{Lo: 0x094d, Hi: 0x0acd, Stride: 0x80},
		{Lo: 0x0b4d, Hi: 0x0d4d, Stride: 0x80},
		{Lo: 0x0dca, Hi: 0x0dca, Stride: 1},
		{Lo: 0x0e3a, Hi: 0x0e3a, Stride: 1},
		{Lo: 0x1039, Hi: 0x1039, Stride: 1},
		{Lo: 0x17d2, Hi: 0x17d2, Stride: 1},
		{Lo: 0x1b44, Hi: 0x1b44, Stride: 1},
		{Lo: 0xa8c4, Hi: 0xa8c4, Stride: 1},
	}}

	caseIgnorablePunctuation = &unicode.RangeTable{R16: []unicode.Range16{
		{Lo: '\'', Hi: '\'', Stride: 1},
		{Lo: '.', Hi: '.', Stride: 1},
		{Lo: ':', Hi: ':', Stride: 1},
		{Lo: 0x00b7, Hi: 0x00b7, Stride: 1},
		{Lo: 0x2018, Hi: 0x2019, Stride: 1},
		{Lo: 0x2024, Hi: 0x2024, Stride: 1},
		{Lo: 0x2027, Hi: 0x2027, Stride: 1},
	}}

	changesWhenLowercased = func(r rune) bool { return unicode.ToLower(r) != r }
	changesWhenUppercased = func(r rune) bool { return unicode.ToUpper(r) != r }
	changesWhenTitlecased = func(r rune) bool { return unicode.ToTitle(r) != r }
)

// unicodeProperties maps built-in rule names to general categories and
// binary properties. Derived properties missing from the unicode package
// are composed from their defining categories.
var unicodeProperties = map[string]func(rune) bool{
	"LETTER":                 in(unicode.L),
	"CASED_LETTER":           in(unicode.Lu, unicode.Ll, unicode.Lt),
	"UPPERCASE_LETTER":       in(unicode.Lu),
	"LOWERCASE_LETTER":       in(unicode.Ll),
	"TITLECASE_LETTER":       in(unicode.Lt),
	"MODIFIER_LETTER":        in(unicode.Lm),
	"OTHER_LETTER":           in(unicode.Lo),
	"MARK":                   in(unicode.M),
	"COMBINING_SPACING_MARK": in(unicode.Mc),
	"ENCLOSING_MARK":         in(unicode.Me),
	"NONSPACING_MARK":        in(unicode.Mn),
	"NUMBER":                 in(unicode.N),
	"DECIMAL_NUMBER":         in(unicode.Nd),
	"LETTER_NUMBER":          in(unicode.Nl),
	"OTHER_NUMBER":           in(unicode.No),
	"PUNCTUATION":            in(unicode.P),
	"CONNECTOR_PUNCTUATION":  in(unicode.Pc),
	"DASH_PUNCTUATION":       in(unicode.Pd),
	"OPEN_PUNCTUATION":       in(unicode.Ps),
	"CLOSE_PUNCTUATION":      in(unicode.Pe),
	"INITIAL_PUNCTUATION":    in(unicode.Pi),
	"FINAL_PUNCTUATION":      in(unicode.Pf),
	"OTHER_PUNCTUATION":      in(unicode.Po),
	"SYMBOL":                 in(unicode.S),
	"MATH_SYMBOL":            in(unicode.Sm),
	"CURRENCY_SYMBOL":        in(unicode.Sc),
	"MODIFIER_SYMBOL":        in(unicode.Sk),
	"OTHER_SYMBOL":           in(unicode.So),
	"SEPARATOR":              in(unicode.Z),
	"SPACE_SEPARATOR":        in(unicode.Zs),
	"LINE_SEPARATOR":         in(unicode.Zl),
	"PARAGRAPH_SEPARATOR":    in(unicode.Zp),
	"CONTROL":                in(unicode.Cc),
	"FORMAT":                 in(unicode.Cf),
	"SURROGATE":              in(unicode.Cs),
	"PRIVATE_USE":            in(unicode.Co),
	"UNASSIGNED":             not(assigned),

	"ALPHABETIC":                         in(unicode.Lu, unicode.Ll, unicode.Lt, unicode.Lm, unicode.Lo, unicode.Nl, unicode.Other_Alphabetic),
	"BIDI_CONTROL":                       in(unicode.Bidi_Control),
	"CASE_IGNORABLE":                     in(unicode.Mn, unicode.Me, unicode.Cf, unicode.Lm, unicode.Sk, caseIgnorablePunctuation),
	"CASED":                              in(unicode.Lu, unicode.Ll, unicode.Lt, unicode.Other_Lowercase, unicode.Other_Uppercase),
	"CHANGES_WHEN_CASEFOLDED":            changesWhenLowercased,
	"CHANGES_WHEN_CASEMAPPED":            anyOf(changesWhenLowercased, changesWhenUppercased, changesWhenTitlecased),
	"CHANGES_WHEN_LOWERCASED":            changesWhenLowercased,
	"CHANGES_WHEN_TITLECASED":            changesWhenTitlecased,
	"CHANGES_WHEN_UPPERCASED":            changesWhenUppercased,
	"DASH":                               in(unicode.Dash),
	"DEFAULT_IGNORABLE_CODE_POINT":       in(unicode.Other_Default_Ignorable_Code_Point, unicode.Variation_Selector, unicode.Cf),
	"DEPRECATED":                         in(unicode.Deprecated),
	"DIACRITIC":                          in(unicode.Diacritic),
	"EXTENDER":                           in(unicode.Extender),
	"GRAPHEME_BASE":                      all(assigned, not(in(unicode.Cc, unicode.Cf, unicode.Cs, unicode.Co, unicode.Zl, unicode.Zp)), not(graphemeExtend)),
	"GRAPHEME_EXTEND":                    graphemeExtend,
	"GRAPHEME_LINK":                      in(viramas),
	"HEX_DIGIT":                          in(unicode.Hex_Digit),
	"HYPHEN":                             in(unicode.Hyphen),
	"IDS_BINARY_OPERATOR":                in(unicode.IDS_Binary_Operator),
	"IDS_TRINARY_OPERATOR":               in(unicode.IDS_Trinary_Operator),
	"ID_CONTINUE":                        idContinue,
	"ID_START":                           idStart,
	"IDEOGRAPHIC":                        in(unicode.Ideographic),
	"JOIN_CONTROL":                       in(unicode.Join_Control),
	"LOGICAL_ORDER_EXCEPTION":            in(unicode.Logical_Order_Exception),
	"LOWERCASE":                          in(unicode.Ll, unicode.Other_Lowercase),
	"MATH":                               in(unicode.Sm, unicode.Other_Math),
	"NONCHARACTER_CODE_POINT":            in(unicode.Noncharacter_Code_Point),
	"OTHER_ALPHABETIC":                   in(unicode.Other_Alphabetic),
	"OTHER_DEFAULT_IGNORABLE_CODE_POINT": in(unicode.Other_Default_Ignorable_Code_Point),
	"OTHER_GRAPHEME_EXTEND":              in(unicode.Other_Grapheme_Extend),
	"OTHER_ID_CONTINUE":                  in(unicode.Other_ID_Continue),
	"OTHER_ID_START":                     in(unicode.Other_ID_Start),
	"OTHER_LOWERCASE":                    in(unicode.Other_Lowercase),
	"OTHER_MATH":                         in(unicode.Other_Math),
	"OTHER_UPPERCASE":                    in(unicode.Other_Uppercase),
	"PATTERN_SYNTAX":                     in(unicode.Pattern_Syntax),
	"PATTERN_WHITE_SPACE":                in(unicode.Pattern_White_Space),
	"PREPENDED_CONCATENATION_MARK":       in(unicode.Prepended_Concatenation_Mark),
	"QUOTATION_MARK":                     in(unicode.Quotation_Mark),
	"RADICAL":                            in(unicode.Radical),
	"REGIONAL_INDICATOR":                 in(unicode.Regional_Indicator),
	"SENTENCE_TERMINAL":                  in(unicode.Sentence_Terminal),
	"SOFT_DOTTED":                        in(unicode.Soft_Dotted),
	"TERMINAL_PUNCTUATION":               in(unicode.Terminal_Punctuation),
	"UNIFIED_IDEOGRAPH":                  in(unicode.Unified_Ideograph),
	"UPPERCASE":                          in(unicode.Lu, unicode.Other_Uppercase),
	"VARIATION_SELECTOR":                 in(unicode.Variation_Selector),
	"WHITE_SPACE":                        in(unicode.White_Space),
	"XID_CONTINUE":                       idContinue,
	"XID_START":                          idStart,
}
