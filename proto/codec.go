package proto

import (
	"strconv"
)

// fields holds the three capture groups of a command line. Noun and value
// are nil when the corresponding group did not participate in the match.
type fields struct {
	verb  []byte
	noun  []byte
	value []byte
}

// Decode parses a single command line into a Request.
//
// The accepted grammar is
//
//	VERB (SP NOUN (SP VALUE)?)? CR? LF
//
// where VERB and NOUN are runs of bytes other than space, CR and LF, and VALUE
// extends greedily up to the line terminator. Errors are classified in the
// order syntax, verb, noun, value and are always of type ProtocolError.
func Decode(line []byte) (Request, error) {
	f, ok := tokenize(line)
	if !ok {
		return Request{}, BadSyntax
	}

	verb, ok := verbNames[string(f.verb)]
	if !ok {
		return Request{}, BadVerb
	}

	if verb == VerbID {
		if f.noun != nil {
			return Request{}, BadNoun
		}
		return IDRequest(), nil
	}

	if f.noun == nil {
		return Request{}, BadNoun
	}
	noun, ok := ParseNoun(f.noun)
	if !ok {
		return Request{}, BadNoun
	}

	if verb == VerbGet {
		if !noun.Gettable() {
			return Request{}, BadNoun
		}
		if f.value != nil {
			return Request{}, BadValue
		}
		return GetRequest(noun), nil
	}

	if !noun.Settable() {
		return Request{}, BadNoun
	}
	if f.value == nil {
		return Request{}, BadValue
	}
	value, err := strconv.ParseInt(string(f.value), 10, 64)
	if err != nil {
		return Request{}, BadValue
	}
	return SetRequest(noun, value), nil
}

// tokenize finds the leftmost position in line where the command grammar
// matches and returns its capture groups.
func tokenize(line []byte) (fields, bool) {
	for i := range line {
		if f, ok := matchAt(line, i); ok {
			return f, true
		}
	}
	return fields{}, false
}

func isTokenByte(c byte) bool {
	return c != ' ' && c != '\r' && c != '\n'
}

// matchAt tries the grammar anchored at i. Alternatives are tried in the
// order a greedy backtracking matcher would: with noun and value, with noun
// only, with value only, with neither.
func matchAt(line []byte, i int) (fields, bool) {
	if i >= len(line) || !isTokenByte(line[i]) {
		return fields{}, false
	}
	j := tokenEnd(line, i)
	verb := line[i:j]

	if j+1 < len(line) && line[j] == ' ' && isTokenByte(line[j+1]) {
		k := tokenEnd(line, j+1)
		noun := line[j+1 : k]
		if value, ok := matchValue(line, k); ok {
			return fields{verb: verb, noun: noun, value: value}, true
		}
		if terminatedAt(line, k) {
			return fields{verb: verb, noun: noun}, true
		}
	}

	if value, ok := matchValue(line, j); ok {
		return fields{verb: verb, value: value}, true
	}
	if terminatedAt(line, j) {
		return fields{verb: verb}, true
	}
	return fields{}, false
}

func tokenEnd(line []byte, i int) int {
	for i < len(line) && isTokenByte(line[i]) {
		i++
	}
	return i
}

// matchValue matches SP followed by everything up to CR or LF, which must
// then form a valid terminator.
func matchValue(line []byte, i int) ([]byte, bool) {
	if i+1 >= len(line) || line[i] != ' ' || line[i+1] == '\r' || line[i+1] == '\n' {
		return nil, false
	}
	m := i + 1
	for m < len(line) && line[m] != '\r' && line[m] != '\n' {
		m++
	}
	if !terminatedAt(line, m) {
		return nil, false
	}
	return line[i+1 : m], true
}

// terminatedAt reports whether an optional CR followed by LF starts at i.
func terminatedAt(line []byte, i int) bool {
	if i < len(line) && line[i] == '\r' {
		i++
	}
	return i < len(line) && line[i] == '\n'
}
