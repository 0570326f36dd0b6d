package shopify

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayNilMetafield(t *testing.T) {
	var m *Metafield
	v, ok := m.Display()
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestDisplayPlainValue(t *testing.T) {
	m := &Metafield{Value: "Oro 10k", Type: "single_line_text_field"}
	v, ok := m.Display()
	require.True(t, ok)
	assert.Equal(t, "Oro 10k", v)
}

func TestDisplaySuppressesOpaqueIDs(t *testing.T) {
	m := &Metafield{Value: "gid://shopify/Metaobject/12345"}
	_, ok := m.Display()
	assert.False(t, ok, "a raw platform id is not a displayable value")
}

func TestDisplayPrefersReferenceLabel(t *testing.T) {
	m := &Metafield{
		Value: "gid://shopify/Metaobject/7",
		Reference: &Metaobject{Fields: []MetaobjectField{
			{Key: "handle", Value: "oro-amarillo"},
			{Key: "label", Value: "Oro Amarillo"},
		}},
	}
	v, ok := m.Display()
	require.True(t, ok)
	assert.Equal(t, "Oro Amarillo", v)
}

func TestDisplayReferenceNameField(t *testing.T) {
	m := &Metafield{
		Reference: &Metaobject{Fields: []MetaobjectField{
			{Key: "name", Value: "Cadena Cubana"},
		}},
	}
	v, ok := m.Display()
	require.True(t, ok)
	assert.Equal(t, "Cadena Cubana", v)
}

func TestDisplayReferenceFallsBackToFirstField(t *testing.T) {
	m := &Metafield{
		Reference: &Metaobject{Fields: []MetaobjectField{
			{Key: "color", Value: "Amarillo"},
			{Key: "code", Value: "Y"},
		}},
	}
	v, ok := m.Display()
	require.True(t, ok)
	assert.Equal(t, "Amarillo", v)
}

func TestDisplayJoinsReferences(t *testing.T) {
	m := &Metafield{
		Value: `["gid://shopify/Metaobject/1","gid://shopify/Metaobject/2"]`,
		References: &struct {
			Nodes []Metaobject `json:"nodes"`
		}{Nodes: []Metaobject{
			{Fields: []MetaobjectField{{Key: "label", Value: "Oro"}}},
			{Fields: []MetaobjectField{{Key: "label", Value: "Plata"}}},
		}},
	}
	v, ok := m.Display()
	require.True(t, ok)
	assert.Equal(t, "Oro, Plata", v)
}

func TestDisplayJSONArrayValue(t *testing.T) {
	m := &Metafield{Value: `["Mujer","Hombre"]`, Type: "list.single_line_text_field"}
	v, ok := m.Display()
	require.True(t, ok)
	assert.Equal(t, "Mujer, Hombre", v)
}

func TestDisplayNothingDisplayable(t *testing.T) {
	cases := map[string]*Metafield{
		"empty value": {Value: ""},
		"reference no fields": {
			Value:     "gid://shopify/Metaobject/9",
			Reference: &Metaobject{},
		},
	}
	for name, m := range cases {
		t.Run(name, func(t *testing.T) {
			_, ok := m.Display()
			assert.False(t, ok)
		})
	}
}

func TestMetafieldDecodesFromGraphQL(t *testing.T) {
	raw := []byte(`{
		"value": "gid://shopify/Metaobject/7",
		"type": "metaobject_reference",
		"reference": {"fields": [{"key": "label", "value": "Tricolor"}]}
	}`)
	var m Metafield
	require.NoError(t, json.Unmarshal(raw, &m))
	v, ok := m.Display()
	require.True(t, ok)
	assert.Equal(t, "Tricolor", v)
}

func TestLiveProductMetafieldLookup(t *testing.T) {
	p := &LiveProduct{Metafields: map[string]*Metafield{
		KeyWeight: {Value: "12.5"},
	}}

	v, ok := p.Metafield(KeyWeight).Display()
	require.True(t, ok)
	assert.Equal(t, "12.5", v)

	_, ok = p.Metafield(KeyWidth).Display()
	assert.False(t, ok, "absent key resolves to nothing, not a panic")

	var nilProduct *LiveProduct
	assert.Nil(t, nilProduct.Metafield(KeyMaterial))
}
