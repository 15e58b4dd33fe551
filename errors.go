package pestplay

import "errors"

// Common errors used throughout the pestplay command and its collaborators
var (
	// ErrNoGrammar indicates an operation needs a compiled grammar but none is loaded.
	ErrNoGrammar = errors.New("no grammar has been compiled")
	// ErrEmptyContent indicates the Markdown or grammar content was empty.
	ErrEmptyContent = errors.New("empty content")
	// ErrUnsupportedFormat indicates an unknown output format was requested.
	ErrUnsupportedFormat = errors.New("unsupported output format")
	// ErrNoGrammarBlock indicates a playground document has no pest code block.
	ErrNoGrammarBlock = errors.New("no pest grammar block found")
	// ErrFileNotOpened indicates a save was requested before a grammar file was opened.
	ErrFileNotOpened = errors.New("no grammar file is open")
)
