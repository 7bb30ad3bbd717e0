package buffer

import (
	"unicode"

	"github.com/dshills/typeset/internal/obs"
)

// Option configures a Buffer at construction.
type Option func(*Buffer)

// WithLogger sets the logger the buffer reports shaping and input diagnostics
// to. The default is a no-op logger.
func WithLogger(log *obs.Logger) Option {
	return func(b *Buffer) {
		b.log = log
	}
}

// WithInsertPolicy overrides the predicate deciding which runes Insert
// accepts. The default rejects control characters except tab.
func WithInsertPolicy(allow func(rune) bool) Option {
	return func(b *Buffer) {
		b.insertAllow = allow
	}
}

// defaultInsertPolicy rejects control characters. Tab and the private-use
// control U+0092 pass through; structural edits like newline arrive as
// actions instead.
func defaultInsertPolicy(r rune) bool {
	if !unicode.IsControl(r) {
		return true
	}
	return r == '\t' || r == '\u0092'
}
