// Package message defines the generic envelope and extensible context bag
// shared by all inter-service messages, plus the dispatch registry that
// resolves raw envelopes into concrete typed variants.
package message

import (
	"github.com/NeonGeckoCom/neon-data-models/client"
	"github.com/NeonGeckoCom/neon-data-models/schema"
	"github.com/NeonGeckoCom/neon-data-models/user"
)

// MessageContext is the heterogeneous context bag attached to every
// envelope. Recognized sub-sections are constructed into their typed forms
// when present; every other key is retained verbatim through serialization
// regardless of the extra-field policy, for forward compatibility with the
// running platform.
type MessageContext struct {
	Session  *SessionContext
	Timing   *TimingContext
	NodeData *client.NodeData
	// UserProfiles is nil when the context carries no profile list.
	UserProfiles []user.NeonUserConfig
	KlatData     *KlatContext
	MQ           *MQContext
	// NeonShouldRespond defaults to true unless the context explicitly
	// disables it.
	NeonShouldRespond bool
	// Extra holds all unrecognized keys, untouched and untyped.
	Extra map[string]any
}

// ParseMessageContext validates and coerces a raw context mapping.
func ParseMessageContext(raw map[string]any) (*MessageContext, error) {
	d := schema.NewDecoder(raw)
	c := DecodeMessageContext(d)
	if err := d.Err(); err != nil {
		return nil, err
	}
	return &c, nil
}

// DecodeMessageContext reads the context bag from an existing decoder.
// Sub-section validation failures propagate with their field path prefixed.
func DecodeMessageContext(d *schema.Decoder) MessageContext {
	c := MessageContext{
		NeonShouldRespond: d.BoolDefault("neon_should_respond", true),
	}
	if sessD, ok := d.Child("session"); ok {
		sess := DecodeSessionContext(sessD)
		c.Session = &sess
	}
	if timingD, ok := d.Child("timing"); ok {
		timing := DecodeTimingContext(timingD)
		c.Timing = &timing
	}
	if nodeD, ok := d.Child("node_data"); ok {
		node := client.DecodeNodeData(nodeD)
		c.NodeData = &node
	}
	if profiles, ok := d.ChildList("user_profiles"); ok {
		c.UserProfiles = make([]user.NeonUserConfig, 0, len(profiles))
		for _, profD := range profiles {
			c.UserProfiles = append(c.UserProfiles, user.DecodeNeonUserConfig(profD))
		}
	}
	if klatD, ok := d.Child("klat_data"); ok {
		klat := DecodeKlatContext(klatD)
		c.KlatData = &klat
	}
	if mqD, ok := d.Child("mq"); ok {
		mq := DecodeMQContext(mqD)
		c.MQ = &mq
	}
	c.Extra = d.Extras()
	return c
}

// Dump serializes the context. Typed sub-sections present on the record
// dump through their own serializers; absent ones are omitted. Retained
// extra keys are re-emitted verbatim.
func (c MessageContext) Dump() map[string]any {
	out := map[string]any{
		"neon_should_respond": c.NeonShouldRespond,
	}
	if c.Session != nil {
		out["session"] = c.Session.Dump()
	}
	if c.Timing != nil {
		out["timing"] = c.Timing.Dump()
	}
	if c.NodeData != nil {
		out["node_data"] = c.NodeData.Dump()
	}
	if c.UserProfiles != nil {
		profiles := make([]any, 0, len(c.UserProfiles))
		for _, p := range c.UserProfiles {
			profiles = append(profiles, p.Dump())
		}
		out["user_profiles"] = profiles
	}
	if c.KlatData != nil {
		out["klat_data"] = c.KlatData.Dump()
	}
	if c.MQ != nil {
		out["mq"] = c.MQ.Dump()
	}
	for k, v := range c.Extra {
		out[k] = v
	}
	return out
}
