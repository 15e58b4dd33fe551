package compilercommon

import tok "github.com/shibukawa/pestplay/tokenizer"

// IsBuiltin reports whether name is a built-in rule that needs no
// definition.
func IsBuiltin(name string) bool {
	switch name {
	case "ASCII", "DROP":
		return true
	case "PUSH", "WHITESPACE", "COMMENT":
		return false
	}
	return tok.IsKeyword(name)
}
