package main

import "errors"

// Sentinel errors for command operations
var (
	ErrInputFileNotExist = errors.New("input file does not exist")
	ErrInputConflict     = errors.New("--text and an input file are mutually exclusive")
	ErrMissingInput      = errors.New("no input given")
	ErrCompileFailed     = errors.New("grammar has errors")
	ErrParseFailed       = errors.New("input does not match")
	ErrCasesFailed       = errors.New("some inputs failed")
	ErrRuleNotFound      = errors.New("rule not found")
	ErrNotMarkdown       = errors.New("not a markdown document")
)
