package proto

import "fmt"

// ProtocolError classifies a line that could not be turned into a Request.
// Each value maps to a stable wire code sent back to the client.
type ProtocolError int

const (
	BadSyntax ProtocolError = iota + 1 // line does not match the grammar
	BadVerb                            // unknown verb token
	BadNoun                            // missing, unknown or non-applicable noun
	BadValue                           // missing, unparseable or invalid value
)

// Code returns the wire code of the error.
func (e ProtocolError) Code() string {
	switch e {
	case BadSyntax:
		return "BAD_SYNTAX"
	case BadVerb:
		return "BAD_VERB"
	case BadNoun:
		return "BAD_NOUN"
	case BadValue:
		return "BAD_VALUE"
	}
	return fmt.Sprintf("ProtocolError(%d)", int(e))
}

func (e ProtocolError) Error() string {
	return "proto: " + e.Code()
}
