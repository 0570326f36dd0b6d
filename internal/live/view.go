package live

import (
	"sync"

	"github.com/Cardenas2911/dtalles-jewelry/internal/catalog"
	"github.com/Cardenas2911/dtalles-jewelry/internal/shopify"
)

// State is the three-state outcome of a live refresh.
type State int

const (
	// StatePending means no refresh outcome has settled yet; static data is
	// being served in the meantime.
	StatePending State = iota

	// StateLive means the live record arrived and supersedes the static one.
	StateLive

	// StateStatic means the refresh failed and the view serves static data
	// as its terminal state.
	StateStatic
)

// View is one product detail page's data: the static snapshot record, the
// optional live record, and the currently selected variant. Every display
// field falls back to the static record independently when the live record
// is absent or that field is empty.
type View struct {
	mu       sync.Mutex
	static   catalog.Product
	live     *shopify.LiveProduct
	state    State
	selected catalog.Variant
	hasSel   bool
	seq      uint64
	applied  uint64
}

// NewView creates a View over the static record, with the first static
// variant as the default selection.
func NewView(static catalog.Product) *View {
	v := &View{static: static}
	if first, ok := static.FirstVariant(); ok {
		v.selected = first
		v.hasSel = true
	}
	return v
}

// ProductID returns the product's identifier.
func (v *View) ProductID() string { return v.static.ID }

// Begin issues a refresh token. Outcomes are applied in token order; an
// outcome for an older token than the last applied one is discarded, so a
// slow superseded response can never overwrite a newer one.
func (v *View) Begin() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.seq++
	return v.seq
}

// ApplyLive installs the live record for the given token and re-resolves the
// variant selection against the live variant list. It reports whether the
// record was applied.
func (v *View) ApplyLive(token uint64, record *shopify.LiveProduct) bool {
	if record == nil {
		return v.Fail(token)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if token <= v.applied {
		return false
	}
	v.applied = token
	v.live = record
	v.state = StateLive
	if v.hasSel {
		v.selected = Reconcile(v.selected, record.Variants)
	} else if len(record.Variants) > 0 {
		v.selected = record.Variants[0]
		v.hasSel = true
	}
	return true
}

// Fail records a refresh failure for the given token. The view settles on
// static data unless a newer outcome already applied.
func (v *View) Fail(token uint64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if token <= v.applied {
		return false
	}
	v.applied = token
	if v.state == StatePending {
		v.state = StateStatic
	}
	return true
}

// State returns the current refresh state.
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Reconcile re-resolves a variant selection against a refreshed variant
// list: first match on title, then on sku. When nothing matches, the
// previous selection is kept as-is; silently switching the user's chosen
// option would be worse than showing slightly stale data.
func Reconcile(current catalog.Variant, variants []catalog.Variant) catalog.Variant {
	for _, lv := range variants {
		if lv.Title != "" && lv.Title == current.Title {
			return lv
		}
	}
	for _, lv := range variants {
		if lv.SKU != "" && lv.SKU == current.SKU {
			return lv
		}
	}
	return current
}

// Variants returns the live variant list when available, else the static
// one.
func (v *View) Variants() []catalog.Variant {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.live != nil {
		return v.live.Variants
	}
	return v.static.Variants
}

// Selected returns the currently selected variant.
func (v *View) Selected() (catalog.Variant, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.selected, v.hasSel
}

// SelectVariant picks the variant with the given id from the current list.
func (v *View) SelectVariant(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	variants := v.static.Variants
	if v.live != nil {
		variants = v.live.Variants
	}
	for _, cand := range variants {
		if cand.ID == id {
			v.selected = cand
			v.hasSel = true
			return true
		}
	}
	return false
}

// Title returns the live title when present, else the static one.
func (v *View) Title() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.live != nil && v.live.Title != "" {
		return v.live.Title
	}
	return v.static.Title
}

// Description returns the live description HTML when present, else the
// static plain-text description.
func (v *View) Description() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.live != nil && v.live.DescriptionHTML != "" {
		return v.live.DescriptionHTML
	}
	return v.static.Description
}

// Vendor returns the live vendor, when present.
func (v *View) Vendor() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.live != nil {
		return v.live.Vendor
	}
	return ""
}

// Tags returns the live tag list when present, else the static one.
func (v *View) Tags() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.live != nil && v.live.Tags != nil {
		return v.live.Tags
	}
	return v.static.Tags
}

// ProductType resolves through the jewelry-type metafield, the live product
// type, then the static product type.
func (v *View) ProductType() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if t, ok := v.live.Metafield(shopify.KeyJewelryType).Display(); ok {
		return t
	}
	if v.live != nil && v.live.ProductType != "" {
		return v.live.ProductType
	}
	return v.static.ProductType
}

// Material prefers the taxonomy jewelry-material metafield over the custom
// material metafield.
func (v *View) Material() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if m, ok := v.live.Metafield(shopify.KeyJewelryMat).Display(); ok {
		return m
	}
	m, _ := v.live.Metafield(shopify.KeyMaterial).Display()
	return m
}

// Detail resolves a named metafield to display text, or "" when it is
// absent or undisplayable.
func (v *View) Detail(key string) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	d, _ := v.live.Metafield(key).Display()
	return d
}

// Details collects the product detail panel fields that have displayable
// values.
func (v *View) Details() map[string]string {
	out := make(map[string]string)
	if m := v.Material(); m != "" {
		out["material"] = m
	}
	for _, key := range []string{
		shopify.KeyWeight,
		shopify.KeyWidth,
		shopify.KeyColor,
		shopify.KeyAgeGroup,
		shopify.KeyGender,
		shopify.KeyNecklaceDesign,
	} {
		if d := v.Detail(key); d != "" {
			out[key] = d
		}
	}
	return out
}
