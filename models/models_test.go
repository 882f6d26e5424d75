package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart(t *testing.T) {
	var c Cart
	c.AddItem(CartItem{ID: "a", Title: "A", Price: 2.5, Quantity: 2})
	c.AddItem(CartItem{ID: "b", Title: "B", Price: 10})
	c.AddItem(CartItem{ID: "a", Title: "A", Price: 2.5, Quantity: 1})

	require.Len(t, c.Items, 2)
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.Equal(t, 1, c.Items[1].Quantity)
	assert.Equal(t, 4, c.TotalItems())
	assert.InDelta(t, 17.5, c.TotalPrice(), 1e-9)

	c.UpdateQuantity("b", 5)
	assert.Equal(t, 8, c.TotalItems())

	c.UpdateQuantity("a", 0)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "b", c.Items[0].ID)

	c.UpdateQuantity("missing", 3)
	assert.Len(t, c.Items, 1)

	c.RemoveItem("b")
	assert.Empty(t, c.Items)

	c.AddItem(CartItem{ID: "z", Quantity: 1})
	c.Clear()
	assert.Zero(t, c.TotalItems())
	assert.Zero(t, c.TotalPrice())
}

func TestSearchProducts(t *testing.T) {
	assert.Len(t, SearchProducts("", ""), len(Catalog))
	assert.Len(t, SearchProducts("", "all"), len(Catalog))
	assert.Len(t, SearchProducts("", "AIR"), 3)
	assert.Len(t, SearchProducts("bottle", ""), 1)
	assert.Len(t, SearchProducts("pm2.5", "air"), 2)
	assert.Empty(t, SearchProducts("bottle", "energy"))

	p, ok := FindProduct("compost-bin")
	require.True(t, ok)
	assert.Equal(t, 27.0, p.Price)
	_, ok = FindProduct("nope")
	assert.False(t, ok)
}

func TestReportFilterMatches(t *testing.T) {
	r := Report{Category: CategoryWaste, Severity: SeverityHigh, Status: StatusPending}

	assert.True(t, ReportFilter{}.Matches(r))
	assert.True(t, ReportFilter{Category: CategoryWaste, Status: StatusPending}.Matches(r))
	assert.False(t, ReportFilter{Severity: SeverityLow}.Matches(r))
	assert.False(t, ReportFilter{Status: StatusResolved}.Matches(r))
}

func TestReportStats(t *testing.T) {
	s := NewReportStats()
	assert.Len(t, s.ByCategory, 5)
	assert.Len(t, s.BySeverity, 4)
	assert.Len(t, s.ByStatus, 3)

	s.Add(Report{Category: CategoryOther, Severity: SeverityCritical, Status: StatusVerified})
	s.Add(Report{Category: CategoryOther, Severity: SeverityLow, Status: StatusPending})

	assert.Equal(t, int64(2), s.Total)
	assert.Equal(t, int64(2), s.ByCategory[CategoryOther])
	assert.Equal(t, int64(0), s.ByCategory[CategoryWaste])
	assert.Equal(t, int64(1), s.BySeverity[SeverityCritical])
}

func TestValidators(t *testing.T) {
	assert.True(t, IsValidCategory("deforestation"))
	assert.False(t, IsValidCategory("Deforestation"))
	assert.True(t, IsValidSeverity("medium"))
	assert.False(t, IsValidSeverity(""))
	assert.True(t, IsValidStatus("resolved"))
	assert.False(t, IsValidStatus("closed"))
}

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadCatalog(t *testing.T) {
	path := writeCatalog(t, `
- id: bamboo-brush
  title: Bamboo Toothbrush
  description: Compostable handle
  price: 3.5
  imageUrl: https://example.com/brush.jpg
  category: waste
- id: rain-barrel
  title: Rain Barrel
  price: 59
  category: water
`)

	products, err := LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Bamboo Toothbrush", products[0].Title)
	assert.Equal(t, "https://example.com/brush.jpg", products[0].ImageURL)
	assert.Equal(t, 59.0, products[1].Price)
}

func TestLoadCatalog_Rejects(t *testing.T) {
	cases := map[string]string{
		"empty":     "[]",
		"no id":     "- title: x\n  price: 1\n",
		"duplicate": "- id: a\n  price: 1\n- id: a\n  price: 2\n",
		"no price":  "- id: a\n",
		"not yaml":  "{{{",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadCatalog(writeCatalog(t, body))
			assert.Error(t, err)
		})
	}

	_, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
