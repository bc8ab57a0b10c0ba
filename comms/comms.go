// Package comms is the message framing used between gateways and clients:
// a colon separated head and a JSON body.
package comms

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// Head says what a message is, e.g. "state" or "response:12".
type Head string

// Fields splits the head on colons.
func (h Head) Fields() []string {
	return strings.Split(string(h), ":")
}

// Type is the first field of the head.
func (h Head) Type() string {
	return h.Fields()[0]
}

type Message struct {
	Head Head            `json:"head"`
	Data json.RawMessage `json:"data"`
}

func (m Message) Type() string {
	return m.Head.Type()
}

// Encode makes a message with data marshalled to JSON.
func Encode(head string, data interface{}) (Message, error) {
	bs, err := json.Marshal(data)
	if err != nil {
		return Message{}, err
	}
	return Message{Head: Head(head), Data: bs}, nil
}

// Decode unmarshals the body of msg into v.
func Decode(msg Message, v interface{}) error {
	if len(msg.Data) == 0 {
		return errors.New("empty message body")
	}
	return json.Unmarshal(msg.Data, v)
}

// CommsError is an error that can go over the wire.
type CommsError struct {
	Code string `json:"code"`
	Msg  string `json:"message"`
}

func (e *CommsError) Error() string { return e.Msg }

type codedError interface {
	ErrorCode() string
}

// WrapError turns any error into something that can be sent, keeping the
// code of the first coded error in its chain.
func WrapError(err error) *CommsError {
	if err == nil {
		return nil
	}
	var ce codedError
	if errors.As(err, &ce) {
		return &CommsError{Code: ce.ErrorCode(), Msg: err.Error()}
	}
	return &CommsError{Code: "UNKNOWN", Msg: err.Error()}
}

// Encoder writes one JSON message per line.
type Encoder struct {
	enc *json.Encoder
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{enc: json.NewEncoder(w)}
}

// Encode makes and sends a message in one go.
func (e *Encoder) Encode(head string, data interface{}) error {
	msg, err := Encode(head, data)
	if err != nil {
		return err
	}
	return e.Send(msg)
}

func (e *Encoder) Send(msg Message) error {
	return e.enc.Encode(msg)
}

// Decoder reads messages written by an Encoder.
type Decoder struct {
	dec *json.Decoder
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{dec: json.NewDecoder(r)}
}

func (d *Decoder) Decode() (Message, error) {
	msg := Message{}
	err := d.dec.Decode(&msg)
	return msg, err
}
