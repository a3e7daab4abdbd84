// Package client defines records describing end-user devices (nodes)
// connected to the platform.
package client

import (
	"github.com/google/uuid"

	"github.com/NeonGeckoCom/neon-data-models/schema"
)

// NodeNetworking describes a node's network addresses.
type NodeNetworking struct {
	LocalIP  *string
	PublicIP *string
	MAC      *string
}

func decodeNodeNetworking(d *schema.Decoder) NodeNetworking {
	return NodeNetworking{
		LocalIP:  d.StringPtr("local_ip"),
		PublicIP: d.StringPtr("public_ip"),
		MAC:      d.StringPtr("mac"),
	}
}

// Dump serializes the section using canonical field names.
func (n NodeNetworking) Dump() map[string]any {
	return map[string]any{
		"local_ip":  ptrValue(n.LocalIP),
		"public_ip": ptrValue(n.PublicIP),
		"mac":       ptrValue(n.MAC),
	}
}

// NodeSoftware describes the software stack running on a node.
type NodeSoftware struct {
	OperatingSystem *string
	OSVersion       *string
	CoreVersion     *string
}

func decodeNodeSoftware(d *schema.Decoder) NodeSoftware {
	return NodeSoftware{
		OperatingSystem: d.StringPtr("operating_system", "os"),
		OSVersion:       d.StringPtr("os_version"),
		CoreVersion:     d.StringPtr("core_version"),
	}
}

// Dump serializes the section using canonical field names.
func (s NodeSoftware) Dump() map[string]any {
	return map[string]any{
		"operating_system": ptrValue(s.OperatingSystem),
		"os_version":       ptrValue(s.OSVersion),
		"core_version":     ptrValue(s.CoreVersion),
	}
}

// NodeLocation is a node's physical location. It accepts the legacy flat
// {lat, lon} input shape in addition to the structured form; output always
// uses the structured names, which the decoder also accepts, so a record
// can load its own prior serialization.
type NodeLocation struct {
	Latitude  *float64
	Longitude *float64
	Site      *string
	Timezone  *string
}

func decodeNodeLocation(d *schema.Decoder) NodeLocation {
	return NodeLocation{
		Latitude:  d.Float64Ptr("latitude", "lat"),
		Longitude: d.Float64Ptr("longitude", "lon", "lng"),
		Site:      d.StringPtr("site"),
		Timezone:  d.StringPtr("timezone"),
	}
}

// Dump serializes the section using canonical field names only; the legacy
// flat names are never emitted.
func (l NodeLocation) Dump() map[string]any {
	return map[string]any{
		"latitude":  ptrValue(l.Latitude),
		"longitude": ptrValue(l.Longitude),
		"site":      ptrValue(l.Site),
		"timezone":  ptrValue(l.Timezone),
	}
}

// NodeData identifies a device and describes its networking, software, and
// location.
type NodeData struct {
	// DeviceID is generated when absent from the input.
	DeviceID          string
	DeviceName        string
	DeviceDescription string
	Networking        NodeNetworking
	Software          NodeSoftware
	Location          NodeLocation
}

// NewNodeData returns a record with defaults and a fresh device id.
func NewNodeData() *NodeData {
	n, _ := ParseNodeData(nil)
	return n
}

// ParseNodeData validates and coerces a raw mapping.
func ParseNodeData(raw map[string]any) (*NodeData, error) {
	d := schema.NewDecoder(raw)
	n := DecodeNodeData(d)
	if err := d.Err(); err != nil {
		return nil, err
	}
	return &n, nil
}

// DecodeNodeData reads a node record from an existing decoder.
func DecodeNodeData(d *schema.Decoder) NodeData {
	netD, _ := d.ChildOrEmpty("networking")
	swD, _ := d.ChildOrEmpty("software")
	locD, _ := d.ChildOrEmpty("location")
	n := NodeData{
		DeviceID:          d.StringDefault("device_id", ""),
		DeviceName:        d.StringDefault("device_name", ""),
		DeviceDescription: d.StringDefault("device_description", ""),
		Networking:        decodeNodeNetworking(netD),
		Software:          decodeNodeSoftware(swD),
		Location:          decodeNodeLocation(locD),
	}
	if n.DeviceID == "" {
		n.DeviceID = uuid.NewString()
	}
	return n
}

// Dump serializes the record using canonical field names.
func (n NodeData) Dump() map[string]any {
	return map[string]any{
		"device_id":          n.DeviceID,
		"device_name":        n.DeviceName,
		"device_description": n.DeviceDescription,
		"networking":         n.Networking.Dump(),
		"software":           n.Software.Dump(),
		"location":           n.Location.Dump(),
	}
}

func ptrValue[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
