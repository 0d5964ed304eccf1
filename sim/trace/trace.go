package trace

import (
	"iter"
	"unicode"
	"unicode/utf8"
)

// Alphabet names the set of symbols a simulator accepts.
type Alphabet string

const (
	// PageAlphabet accepts uppercase page identifiers A through Z.
	PageAlphabet Alphabet = "page"
	// BranchAlphabet accepts site markers A and B and outcomes T and N.
	BranchAlphabet Alphabet = "branch"
)

// validAlphabets maps accepted alphabet names.
var validAlphabets = map[Alphabet]bool{
	PageAlphabet:   true,
	BranchAlphabet: true,
}

// IsValidAlphabet returns true if the given name is a recognized alphabet.
func IsValidAlphabet(name string) bool {
	return validAlphabets[Alphabet(name)]
}

// Accepts reports whether r is a symbol of the alphabet.
func (a Alphabet) Accepts(r rune) bool {
	switch a {
	case PageAlphabet:
		return r >= 'A' && r <= 'Z'
	case BranchAlphabet:
		return r == 'A' || r == 'B' || r == 'T' || r == 'N'
	default:
		return false
	}
}

// Scan lazily yields the events of s. Whitespace separates events and is
// never yielded. The first symbol outside the alphabet yields an
// *InvalidTokenError and ends the sequence.
func Scan(s string, a Alphabet) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		seq := 0
		for pos := 0; pos < len(s); {
			r, width := utf8.DecodeRuneInString(s[pos:])
			if unicode.IsSpace(r) {
				pos += width
				continue
			}
			if !a.Accepts(r) {
				yield(Event{}, &InvalidTokenError{Pos: pos, Token: r, Alphabet: a})
				return
			}
			if !yield(Event{Pos: pos, Seq: seq, Symbol: byte(r)}, nil) {
				return
			}
			seq++
			pos += width
		}
	}
}

// Collect scans all of s. It returns the events preceding the first invalid
// token together with that token's error, or every event and nil.
func Collect(s string, a Alphabet) ([]Event, error) {
	events := make([]Event, 0, len(s))
	for ev, err := range Scan(s, a) {
		if err != nil {
			return events, err
		}
		events = append(events, ev)
	}
	return events, nil
}
