package message

import (
	"time"

	"github.com/NeonGeckoCom/neon-data-models/schema"
)

// SessionContext carries per-conversation preferences attached to a
// message. It is the one sparse schema type: unset fields are omitted from
// Dump output rather than emitted as nulls.
type SessionContext struct {
	SessionID  *string
	Lang       *string
	SystemUnit *string
	DateFormat *string
	// Time is the clock format, 12 or 24. String values are rejected.
	Time *int64
}

// ParseSessionContext validates and coerces a raw mapping.
func ParseSessionContext(raw map[string]any) (*SessionContext, error) {
	d := schema.NewDecoder(raw)
	s := DecodeSessionContext(d)
	if err := d.Err(); err != nil {
		return nil, err
	}
	return &s, nil
}

// DecodeSessionContext reads session preferences from an existing decoder.
func DecodeSessionContext(d *schema.Decoder) SessionContext {
	return SessionContext{
		SessionID:  d.StringPtr("session_id"),
		Lang:       d.StringPtr("lang"),
		SystemUnit: d.StringPtr("system_unit"),
		DateFormat: d.StringPtr("date_format"),
		Time:       d.IntChoicePtr("time", []int64{12, 24}),
	}
}

// Dump serializes the section sparsely: unset fields are omitted.
func (s SessionContext) Dump() map[string]any {
	out := map[string]any{}
	if s.SessionID != nil {
		out["session_id"] = *s.SessionID
	}
	if s.Lang != nil {
		out["lang"] = *s.Lang
	}
	if s.SystemUnit != nil {
		out["system_unit"] = *s.SystemUnit
	}
	if s.DateFormat != nil {
		out["date_format"] = *s.DateFormat
	}
	if s.Time != nil {
		out["time"] = *s.Time
	}
	return out
}

// TimingContext tracks message-handling latencies. Points in time accept
// epoch-seconds floats or ISO strings on input and dump as RFC 3339
// strings; durations accept raw seconds and dump as float seconds.
type TimingContext struct {
	// HandleUtterance is when handling began (legacy alias: transcribed).
	HandleUtterance *time.Time
	// TransformUtterance is time spent in text parsers (legacy alias:
	// text_parsers).
	TransformUtterance *time.Duration
	ResponseSent       *time.Time
}

// ParseTimingContext validates and coerces a raw mapping.
func ParseTimingContext(raw map[string]any) (*TimingContext, error) {
	d := schema.NewDecoder(raw)
	t := DecodeTimingContext(d)
	if err := d.Err(); err != nil {
		return nil, err
	}
	return &t, nil
}

// DecodeTimingContext reads timing data from an existing decoder.
func DecodeTimingContext(d *schema.Decoder) TimingContext {
	return TimingContext{
		HandleUtterance:    d.TimePtr("handle_utterance", "transcribed"),
		TransformUtterance: d.DurationPtr("transform_utterance", "text_parsers"),
		ResponseSent:       d.TimePtr("response_sent"),
	}
}

// Dump serializes the section using canonical field names; every field is
// emitted, unset ones as null.
func (t TimingContext) Dump() map[string]any {
	out := map[string]any{
		"handle_utterance":    nil,
		"transform_utterance": nil,
		"response_sent":       nil,
	}
	if t.HandleUtterance != nil {
		out["handle_utterance"] = schema.FormatTime(*t.HandleUtterance)
	}
	if t.TransformUtterance != nil {
		out["transform_utterance"] = schema.DurationSeconds(*t.TransformUtterance)
	}
	if t.ResponseSent != nil {
		out["response_sent"] = schema.FormatTime(*t.ResponseSent)
	}
	return out
}

// KlatContext identifies the chat conversation a message belongs to.
type KlatContext struct {
	// CID is the conversation id.
	CID string
	// SID is the shout (message) id.
	SID   string
	Title *string
}

// ParseKlatContext validates and coerces a raw mapping.
func ParseKlatContext(raw map[string]any) (*KlatContext, error) {
	d := schema.NewDecoder(raw)
	k := DecodeKlatContext(d)
	if err := d.Err(); err != nil {
		return nil, err
	}
	return &k, nil
}

// DecodeKlatContext reads chat identifiers from an existing decoder.
func DecodeKlatContext(d *schema.Decoder) KlatContext {
	return KlatContext{
		CID:   d.String("cid"),
		SID:   d.String("sid"),
		Title: d.StringPtr("title"),
	}
}

// Dump serializes the section using canonical field names.
func (k KlatContext) Dump() map[string]any {
	var title any
	if k.Title != nil {
		title = *k.Title
	}
	return map[string]any{
		"cid":   k.CID,
		"sid":   k.SID,
		"title": title,
	}
}

// MQContext carries message-queue transport metadata.
type MQContext struct {
	MessageID  string
	RoutingKey *string
}

// ParseMQContext validates and coerces a raw mapping.
func ParseMQContext(raw map[string]any) (*MQContext, error) {
	d := schema.NewDecoder(raw)
	m := DecodeMQContext(d)
	if err := d.Err(); err != nil {
		return nil, err
	}
	return &m, nil
}

// DecodeMQContext reads transport metadata from an existing decoder.
func DecodeMQContext(d *schema.Decoder) MQContext {
	return MQContext{
		MessageID:  d.String("message_id"),
		RoutingKey: d.StringPtr("routing_key"),
	}
}

// Dump serializes the section using canonical field names.
func (m MQContext) Dump() map[string]any {
	var routingKey any
	if m.RoutingKey != nil {
		routingKey = *m.RoutingKey
	}
	return map[string]any{
		"message_id":  m.MessageID,
		"routing_key": routingKey,
	}
}
