package proto

import "fmt"

const (
	// Line control
	CRLF = "\r\n"

	// Response prefixes
	OK  = "OK"
	ERR = "ERR"

	// DefaultFrameSize is the capacity of the line accumulation buffer.
	DefaultFrameSize = 256
)

// Verb identifies the kind of a Request.
type Verb int

const (
	VerbID  Verb = iota // ID
	VerbGet             // GET <noun>
	VerbSet             // SET <noun> <value>
)

var verbNames = map[string]Verb{
	"ID":  VerbID,
	"GET": VerbGet,
	"SET": VerbSet,
}

func (v Verb) String() string {
	switch v {
	case VerbID:
		return "ID"
	case VerbGet:
		return "GET"
	case VerbSet:
		return "SET"
	}
	return fmt.Sprintf("Verb(%d)", int(v))
}

// Noun is an addressable attribute of the test box.
type Noun int

const (
	RedLed Noun = iota
	YellowLed
	GreenLed
	Servo
	TempAndHum
	SelfTest
)

var nounNames = [...]string{
	RedLed:     "RED_LED",
	YellowLed:  "YELLOW_LED",
	GreenLed:   "GREEN_LED",
	Servo:      "SERVO",
	TempAndHum: "TEMP_AND_HUM",
	SelfTest:   "SELF_TEST",
}

var (
	nounsByName = make(map[string]Noun, len(nounNames))

	gettable = map[Noun]struct{}{
		RedLed: {}, YellowLed: {}, GreenLed: {}, Servo: {}, TempAndHum: {}, SelfTest: {},
	}
	settable = map[Noun]struct{}{
		RedLed: {}, YellowLed: {}, GreenLed: {}, Servo: {}, SelfTest: {},
	}
)

func init() {
	for n, name := range nounNames {
		nounsByName[name] = Noun(n)
	}
}

// String returns the wire name of the noun.
func (n Noun) String() string {
	if n >= 0 && int(n) < len(nounNames) {
		return nounNames[n]
	}
	return fmt.Sprintf("Noun(%d)", int(n))
}

// ParseNoun maps a wire token to a Noun. The match is case sensitive.
func ParseNoun(token []byte) (Noun, bool) {
	n, ok := nounsByName[string(token)]
	return n, ok
}

// Gettable reports whether the noun may be used with GET.
func (n Noun) Gettable() bool {
	_, ok := gettable[n]
	return ok
}

// Settable reports whether the noun may be used with SET.
func (n Noun) Settable() bool {
	_, ok := settable[n]
	return ok
}

// Request is a validated client command. Noun is meaningful for GET and SET,
// Value only for SET.
type Request struct {
	Verb  Verb
	Noun  Noun
	Value int64
}

func (r Request) String() string {
	switch r.Verb {
	case VerbGet:
		return fmt.Sprintf("GET %s", r.Noun)
	case VerbSet:
		return fmt.Sprintf("SET %s %d", r.Noun, r.Value)
	default:
		return r.Verb.String()
	}
}

// Convenience constructors
func IDRequest() Request                     { return Request{Verb: VerbID} }
func GetRequest(n Noun) Request              { return Request{Verb: VerbGet, Noun: n} }
func SetRequest(n Noun, value int64) Request { return Request{Verb: VerbSet, Noun: n, Value: value} }
