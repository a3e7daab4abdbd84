package message

import (
	"github.com/NeonGeckoCom/neon-data-models/errors"
	"github.com/NeonGeckoCom/neon-data-models/schema"
)

// Envelope is implemented by every message shape: the generic BaseMessage
// and each concrete typed variant.
type Envelope interface {
	// MessageType returns the discriminator value identifying the shape.
	MessageType() string
	// Dump serializes the message to a plain mapping.
	Dump() map[string]any
}

// BaseMessage is the generic envelope: a free-form type discriminator, a
// payload whose shape depends on the type, and the context bag. All three
// are required; an envelope without a context is a validation error.
type BaseMessage struct {
	MsgType string
	Data    map[string]any
	Context MessageContext
}

// ParseBaseMessage validates and coerces a raw envelope mapping. The
// discriminator is read from `msg_type` or the legacy `type` key.
func ParseBaseMessage(raw map[string]any) (*BaseMessage, error) {
	d := schema.NewDecoder(raw)
	m := DecodeBaseMessage(d)
	if err := d.Err(); err != nil {
		return nil, err
	}
	return &m, nil
}

// DecodeBaseMessage reads the envelope from an existing decoder.
func DecodeBaseMessage(d *schema.Decoder) BaseMessage {
	m := BaseMessage{
		MsgType: d.String("msg_type", "type"),
		Data:    d.Map("data"),
	}
	ctxD, ok := d.Child("context")
	if !ok {
		d.Fail("context", errors.NewMissingField(""))
		return m
	}
	m.Context = DecodeMessageContext(ctxD)
	return m
}

// MessageType returns the envelope's discriminator value.
func (m BaseMessage) MessageType() string { return m.MsgType }

// Dump serializes the envelope using canonical field names.
func (m BaseMessage) Dump() map[string]any {
	data := m.Data
	if data == nil {
		data = map[string]any{}
	}
	return map[string]any{
		"msg_type": m.MsgType,
		"data":     data,
		"context":  m.Context.Dump(),
	}
}
