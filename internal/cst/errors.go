package cst

import "errors"

// ErrGrammarUnavailable is returned when a Parser is built from a nil
// grammar (the requested binding could not be obtained).
var ErrGrammarUnavailable = errors.New("grammar unavailable")

// ErrParseFailure is returned when the grammar's parser returns no tree for
// otherwise well-formed input (tree-sitter signals this rather than
// panicking, but callers still need to treat it as a failure per spec).
var ErrParseFailure = errors.New("parse failure")
