// Package trace tokenizes symbolic simulator traces and synthesizes new ones.
// This package has no dependencies on sim/ or its other sub-packages; it stores pure data types.
package trace

import "fmt"

// Event is a single non-whitespace token of a trace.
type Event struct {
	Pos    int  // byte offset in the raw trace
	Seq    int  // ordinal among non-whitespace events, starting at 0
	Symbol byte // page identifier or branch token
}

func (e Event) String() string {
	return fmt.Sprintf("%c@%d", e.Symbol, e.Seq)
}

// InvalidTokenError reports a token outside the alphabet a simulator accepts.
type InvalidTokenError struct {
	Pos      int
	Token    rune
	Alphabet Alphabet
}

func (e *InvalidTokenError) Error() string {
	return fmt.Sprintf("invalid %s token %q at offset %d", e.Alphabet, e.Token, e.Pos)
}
