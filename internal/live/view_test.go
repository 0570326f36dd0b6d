package live

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Cardenas2911/dtalles-jewelry/internal/catalog"
	"github.com/Cardenas2911/dtalles-jewelry/internal/shopify"
)

func variant(id, title, sku string, amount float64) catalog.Variant {
	return catalog.Variant{
		ID:               id,
		Title:            title,
		SKU:              sku,
		AvailableForSale: true,
		Price: catalog.Money{
			Amount:       decimal.NewFromFloat(amount),
			CurrencyCode: "USD",
		},
	}
}

func staticProduct() catalog.Product {
	return catalog.Product{
		ID:          "gid://shopify/Product/1",
		Title:       "Cadena Cubana",
		Handle:      "cadena-cubana",
		Description: "Cadena de oro",
		ProductType: "Cadena",
		Tags:        []string{"hombre"},
		Variants: []catalog.Variant{
			variant("static-50", "50cm", "CAD-50", 1250),
			variant("static-60", "60cm", "CAD-60", 1400),
		},
	}
}

func TestNewViewStartsPendingOnStaticData(t *testing.T) {
	v := NewView(staticProduct())

	assert.Equal(t, StatePending, v.State())
	assert.Equal(t, "Cadena Cubana", v.Title())
	assert.Len(t, v.Variants(), 2)

	sel, ok := v.Selected()
	require.True(t, ok)
	assert.Equal(t, "static-50", sel.ID)
}

func TestApplyLiveSupersedesStatic(t *testing.T) {
	v := NewView(staticProduct())
	token := v.Begin()

	applied := v.ApplyLive(token, &shopify.LiveProduct{
		ID:              "gid://shopify/Product/1",
		Title:           "Cadena Cubana 10k",
		DescriptionHTML: "<p>Cadena de oro 10k</p>",
		Vendor:          "DTalles",
		Variants: []catalog.Variant{
			variant("live-50", "50cm", "CAD-50", 1300),
		},
	})
	require.True(t, applied)

	assert.Equal(t, StateLive, v.State())
	assert.Equal(t, "Cadena Cubana 10k", v.Title())
	assert.Equal(t, "<p>Cadena de oro 10k</p>", v.Description())
	assert.Equal(t, "DTalles", v.Vendor())
	assert.Len(t, v.Variants(), 1)
}

func TestFailSettlesOnStatic(t *testing.T) {
	v := NewView(staticProduct())
	token := v.Begin()

	require.True(t, v.Fail(token))
	assert.Equal(t, StateStatic, v.State())
	assert.Equal(t, "Cadena Cubana", v.Title())

	sel, ok := v.Selected()
	require.True(t, ok)
	assert.Equal(t, "static-50", sel.ID)
}

func TestStaleTokenIsDiscarded(t *testing.T) {
	v := NewView(staticProduct())

	older := v.Begin()
	newer := v.Begin()

	require.True(t, v.ApplyLive(newer, &shopify.LiveProduct{
		Title:    "Fresh",
		Variants: []catalog.Variant{variant("live-50", "50cm", "CAD-50", 1300)},
	}))

	assert.False(t, v.ApplyLive(older, &shopify.LiveProduct{
		Title:    "Stale",
		Variants: []catalog.Variant{variant("old-50", "50cm", "CAD-50", 1200)},
	}), "an older fetch must never overwrite a newer one")
	assert.Equal(t, "Fresh", v.Title())

	assert.False(t, v.Fail(older))
	assert.Equal(t, StateLive, v.State())
}

func TestFailAfterLiveKeepsLive(t *testing.T) {
	v := NewView(staticProduct())

	first := v.Begin()
	require.True(t, v.ApplyLive(first, &shopify.LiveProduct{
		Title:    "Live",
		Variants: []catalog.Variant{variant("live-50", "50cm", "CAD-50", 1300)},
	}))

	second := v.Begin()
	require.True(t, v.Fail(second))
	assert.Equal(t, StateLive, v.State(), "a later failure does not demote an applied live record")
}

func TestReconcileByTitle(t *testing.T) {
	current := variant("static-60", "60cm", "CAD-60", 1400)
	live := []catalog.Variant{
		variant("live-50", "50cm", "CAD-50", 1300),
		variant("live-60", "60cm", "CAD-60-NEW", 1450),
	}

	got := Reconcile(current, live)
	assert.Equal(t, "live-60", got.ID)
}

func TestReconcileBySKUWhenTitleChanged(t *testing.T) {
	current := variant("static-60", "60 centimetros", "CAD-60", 1400)
	live := []catalog.Variant{
		variant("live-50", "50cm", "CAD-50", 1300),
		variant("live-60", "60cm", "CAD-60", 1450),
	}

	got := Reconcile(current, live)
	assert.Equal(t, "live-60", got.ID)
}

func TestReconcileKeepsSelectionWhenNothingMatches(t *testing.T) {
	current := variant("static-70", "70cm", "CAD-70", 1600)
	live := []catalog.Variant{
		variant("live-50", "50cm", "CAD-50", 1300),
	}

	got := Reconcile(current, live)
	assert.Equal(t, current, got, "silently switching the selection is worse than stale data")
}

func TestReconcileIgnoresEmptyKeys(t *testing.T) {
	current := variant("static-x", "", "", 100)
	live := []catalog.Variant{
		variant("live-1", "", "", 120),
		variant("live-2", "Unico", "U-1", 130),
	}

	got := Reconcile(current, live)
	assert.Equal(t, "static-x", got.ID, "empty titles and skus never match each other")
}

func TestApplyLiveReconcilesSelection(t *testing.T) {
	v := NewView(staticProduct())
	require.True(t, v.SelectVariant("static-60"))

	token := v.Begin()
	require.True(t, v.ApplyLive(token, &shopify.LiveProduct{
		Title: "Cadena Cubana",
		Variants: []catalog.Variant{
			variant("live-50", "50cm", "CAD-50", 1300),
			variant("live-60", "60cm", "CAD-60", 1450),
		},
	}))

	sel, ok := v.Selected()
	require.True(t, ok)
	assert.Equal(t, "live-60", sel.ID)
	assert.True(t, sel.Price.Amount.Equal(decimal.NewFromInt(1450)))
}

func TestSelectVariantFromCurrentList(t *testing.T) {
	v := NewView(staticProduct())

	require.True(t, v.SelectVariant("static-60"))
	sel, _ := v.Selected()
	assert.Equal(t, "static-60", sel.ID)

	assert.False(t, v.SelectVariant("no-such-variant"))
	sel, _ = v.Selected()
	assert.Equal(t, "static-60", sel.ID, "a failed selection leaves the current one intact")
}

func TestViewWithNoVariants(t *testing.T) {
	v := NewView(catalog.Product{ID: "p", Title: "Sin variantes"})

	_, ok := v.Selected()
	assert.False(t, ok)

	token := v.Begin()
	require.True(t, v.ApplyLive(token, &shopify.LiveProduct{
		Variants: []catalog.Variant{variant("live-1", "Unico", "U-1", 90)},
	}))

	sel, ok := v.Selected()
	require.True(t, ok, "live variants seed the selection when static had none")
	assert.Equal(t, "live-1", sel.ID)
}

func TestFieldFallbacks(t *testing.T) {
	v := NewView(staticProduct())

	assert.Equal(t, "Cadena", v.ProductType())
	assert.Empty(t, v.Material())
	assert.Empty(t, v.Vendor())
	assert.Equal(t, []string{"hombre"}, v.Tags())

	token := v.Begin()
	require.True(t, v.ApplyLive(token, &shopify.LiveProduct{
		Tags: []string{"hombre", "10k"},
		Metafields: map[string]*shopify.Metafield{
			shopify.KeyJewelryType: {Value: "Necklaces"},
			shopify.KeyMaterial:    {Value: "Oro 10k"},
			shopify.KeyWeight:      {Value: "12.5"},
		},
		Variants: []catalog.Variant{variant("live-50", "50cm", "CAD-50", 1300)},
	}))

	assert.Equal(t, "Necklaces", v.ProductType(), "taxonomy metafield outranks the product type field")
	assert.Equal(t, "Oro 10k", v.Material())
	assert.Equal(t, []string{"hombre", "10k"}, v.Tags())
	assert.Equal(t, "12.5", v.Detail(shopify.KeyWeight))
	assert.Empty(t, v.Detail(shopify.KeyWidth))
}

func TestMaterialPrefersTaxonomyMetafield(t *testing.T) {
	v := NewView(staticProduct())
	token := v.Begin()
	require.True(t, v.ApplyLive(token, &shopify.LiveProduct{
		Metafields: map[string]*shopify.Metafield{
			shopify.KeyJewelryMat: {Reference: &shopify.Metaobject{
				Fields: []shopify.MetaobjectField{{Key: "label", Value: "Yellow gold"}},
			}},
			shopify.KeyMaterial: {Value: "Oro 10k"},
		},
		Variants: []catalog.Variant{variant("live-50", "50cm", "CAD-50", 1300)},
	}))

	assert.Equal(t, "Yellow gold", v.Material())
}

func TestDetailsCollectsDisplayableFields(t *testing.T) {
	v := NewView(staticProduct())
	token := v.Begin()
	require.True(t, v.ApplyLive(token, &shopify.LiveProduct{
		Metafields: map[string]*shopify.Metafield{
			shopify.KeyMaterial: {Value: "Oro 14k"},
			shopify.KeyWeight:   {Value: "8.2"},
			shopify.KeyGender:   {Value: "gid://shopify/Metaobject/5"},
		},
		Variants: []catalog.Variant{variant("live-50", "50cm", "CAD-50", 1300)},
	}))

	details := v.Details()
	assert.Equal(t, map[string]string{
		"material":        "Oro 14k",
		shopify.KeyWeight: "8.2",
	}, details, "opaque ids and absent fields stay out of the detail panel")
}

type fetcherFunc func(ctx context.Context, id string) (*shopify.LiveProduct, error)

func (f fetcherFunc) LiveProduct(ctx context.Context, id string) (*shopify.LiveProduct, error) {
	return f(ctx, id)
}

func TestRefresherRefreshApplies(t *testing.T) {
	fetcher := fetcherFunc(func(_ context.Context, id string) (*shopify.LiveProduct, error) {
		return &shopify.LiveProduct{
			ID:       id,
			Title:    "Live Title",
			Variants: []catalog.Variant{variant("live-50", "50cm", "CAD-50", 1300)},
		}, nil
	})
	r := NewRefresher(fetcher, zap.NewNop())
	v := NewView(staticProduct())

	r.Refresh(context.Background(), v)

	assert.Equal(t, StateLive, v.State())
	assert.Equal(t, "Live Title", v.Title())
}

func TestRefresherRefreshFailureSettlesStatic(t *testing.T) {
	fetcher := fetcherFunc(func(_ context.Context, _ string) (*shopify.LiveProduct, error) {
		return nil, errors.New("boom")
	})
	r := NewRefresher(fetcher, zap.NewNop())
	v := NewView(staticProduct())

	r.Refresh(context.Background(), v)

	assert.Equal(t, StateStatic, v.State())
	assert.Equal(t, "Cadena Cubana", v.Title())
}

func TestRefresherCollapsesConcurrentFetches(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	release := make(chan struct{})

	fetcher := fetcherFunc(func(_ context.Context, id string) (*shopify.LiveProduct, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		<-release
		return &shopify.LiveProduct{
			ID:       id,
			Variants: []catalog.Variant{variant("live-1", "Unico", "U-1", 90)},
		}, nil
	})
	r := NewRefresher(fetcher, zap.NewNop())

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := r.Fetch(context.Background(), "gid://shopify/Product/1")
			assert.NoError(t, err)
		}()
	}
	close(start)

	// Let the goroutines pile onto the in-flight call, then release it.
	for {
		mu.Lock()
		n := calls
		mu.Unlock()
		if n >= 1 {
			break
		}
		runtime.Gosched()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Less(t, calls, 4, "concurrent fetches for one product share a flight")
}
