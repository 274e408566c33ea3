package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoundsFor(t *testing.T) {
	assert.Equal(t, Bounds{-51.655, -29.235, -51.450, -29.010}, BoundsFor("Vale dos Vinhedos"))
	assert.Equal(t, Bounds{-56.2, -31.3, -53.8, -29.1}, BoundsFor("Campanha Gaúcha"))
	assert.Equal(t, SouthAmerica, BoundsFor("Atacama"))
	assert.Equal(t, SouthAmerica, BoundsFor(""))
}

func TestFilterByRegion(t *testing.T) {
	products := []MapProduct{
		{ID: "1", Region: "Serra Gaúcha"},
		{ID: "2", Region: "serra gaúcha "},
		{ID: "3", Region: "Vale dos Vinhedos"},
		{ID: "4"},
	}

	got := FilterByRegion(products, "Serra Gaúcha")
	assert.Len(t, got, 2)
	assert.Equal(t, products, FilterByRegion(products, " "))
	assert.Empty(t, FilterByRegion(products, "Atacama"))
}

func TestRegionsOf(t *testing.T) {
	products := []MapProduct{
		{Region: "B"}, {Region: ""}, {Region: "A"}, {Region: "B"},
	}
	assert.Equal(t, []string{"B", "A"}, RegionsOf(products))
}
