package proto

import (
	"strconv"
)

// Response is the answer to a single Request. The concrete types are
// IDResponse, ValueResponse, TempAndHumResponse, SelfTestResponse and
// ErrorResponse.
type Response interface {
	appendWire(b []byte) []byte
}

// IDResponse carries the device identity.
type IDResponse struct {
	ID string
}

// ValueResponse carries a positioner value.
type ValueResponse struct {
	Value int64
}

// TempAndHumResponse carries a sensor reading.
type TempAndHumResponse struct {
	Status      string
	Temperature float64
	Humidity    float64
}

// SelfTestResponse carries the self-test state.
type SelfTestResponse struct {
	Active   bool
	Progress int64
}

// ErrorResponse reports a rejected request.
type ErrorResponse struct {
	Err ProtocolError
}

func (r IDResponse) appendWire(b []byte) []byte {
	b = append(b, OK+" "...)
	return append(b, r.ID...)
}

func (r ValueResponse) appendWire(b []byte) []byte {
	b = append(b, OK+" "...)
	return strconv.AppendInt(b, r.Value, 10)
}

func (r TempAndHumResponse) appendWire(b []byte) []byte {
	b = append(b, OK+" "...)
	b = append(b, r.Status...)
	b = append(b, ' ')
	b = strconv.AppendFloat(b, r.Temperature, 'f', 2, 64)
	b = append(b, ' ')
	return strconv.AppendFloat(b, r.Humidity, 'f', 2, 64)
}

func (r SelfTestResponse) appendWire(b []byte) []byte {
	b = append(b, OK+" "...)
	if r.Active {
		b = append(b, '1')
	} else {
		b = append(b, '0')
	}
	b = append(b, ' ')
	return strconv.AppendInt(b, r.Progress, 10)
}

func (r ErrorResponse) appendWire(b []byte) []byte {
	b = append(b, ERR+" "...)
	return append(b, r.Err.Code()...)
}

// Encode renders a Response as a CRLF terminated wire line.
func Encode(r Response) []byte {
	b := make([]byte, 0, 32)
	b = r.appendWire(b)
	return append(b, CRLF...)
}
