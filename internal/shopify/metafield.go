package shopify

import (
	"encoding/json"
	"strings"
)

// Metafield is a product metafield, possibly referencing one or more
// metaobjects that hold the human-readable value.
type Metafield struct {
	Value      string      `json:"value"`
	Type       string      `json:"type"`
	Reference  *Metaobject `json:"reference,omitempty"`
	References *struct {
		Nodes []Metaobject `json:"nodes"`
	} `json:"references,omitempty"`
}

// Metaobject is a referenced structured record.
type Metaobject struct {
	Fields []MetaobjectField `json:"fields"`
}

// MetaobjectField is one key/value pair of a metaobject.
type MetaobjectField struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// resolvers is the ordered chain that turns a metafield into display text.
// The first resolver producing a non-empty value wins.
var resolvers = []func(*Metafield) (string, bool){
	fromReference,
	fromReferences,
	fromJSONList,
	fromRawValue,
}

// Display resolves the human-readable value of the metafield. It reports
// false when the field is nil or holds nothing displayable, including when
// the raw value is an opaque platform reference id that would be meaningless
// to a shopper.
func (m *Metafield) Display() (string, bool) {
	if m == nil {
		return "", false
	}
	for _, resolve := range resolvers {
		if v, ok := resolve(m); ok {
			return v, true
		}
	}
	return "", false
}

// label extracts the display field of a metaobject: the "label" or "name"
// field when present, else the first field.
func (o *Metaobject) label() string {
	if o == nil || len(o.Fields) == 0 {
		return ""
	}
	for _, f := range o.Fields {
		if f.Key == "label" || f.Key == "name" {
			return f.Value
		}
	}
	return o.Fields[0].Value
}

func fromReference(m *Metafield) (string, bool) {
	if v := m.Reference.label(); v != "" {
		return v, true
	}
	return "", false
}

func fromReferences(m *Metafield) (string, bool) {
	if m.References == nil {
		return "", false
	}
	var labels []string
	for i := range m.References.Nodes {
		if v := m.References.Nodes[i].label(); v != "" {
			labels = append(labels, v)
		}
	}
	if len(labels) == 0 {
		return "", false
	}
	return strings.Join(labels, ", "), true
}

// fromJSONList handles raw values that are JSON arrays, often how reference
// id lists arrive when the linked metaobjects were not expanded.
func fromJSONList(m *Metafield) (string, bool) {
	v := m.Value
	if !strings.HasPrefix(v, "[") && !strings.HasPrefix(v, "{") {
		return "", false
	}
	var items []string
	if err := json.Unmarshal([]byte(v), &items); err != nil || len(items) == 0 {
		return "", false
	}
	return strings.Join(items, ", "), true
}

func fromRawValue(m *Metafield) (string, bool) {
	// Never show an opaque platform id to the user.
	if m.Value == "" || strings.HasPrefix(m.Value, "gid://") {
		return "", false
	}
	return m.Value, true
}
