package catalog

import (
	"strings"

	"github.com/samber/lo"
)

// SouthAmerica is the fallback box for regions without known bounds.
var SouthAmerica = Bounds{-82, -56, -34, 12}

var regionBounds = map[string]Bounds{
	"Vale dos Vinhedos": {-51.655, -29.235, -51.450, -29.010},
	"Serra Gaúcha":      {-52, -29.5, -50.9, -28.5},
	"Campanha Gaúcha":   {-56.2, -31.3, -53.8, -29.1},
	"Serra Catarinense": {-50.7, -28.5, -49.8, -27.3},
}

// BoundsFor returns the map box for a region.
func BoundsFor(region string) Bounds {
	if b, ok := regionBounds[region]; ok {
		return b
	}
	return SouthAmerica
}

// FilterByRegion keeps products whose region matches, ignoring case and
// surrounding spaces. An empty region keeps everything.
func FilterByRegion(products []MapProduct, region string) []MapProduct {
	region = strings.TrimSpace(region)
	if region == "" {
		return products
	}
	return lo.Filter(products, func(p MapProduct, _ int) bool {
		return strings.EqualFold(strings.TrimSpace(p.Region), region)
	})
}

// RegionsOf lists the distinct non-empty regions of a product list, in order
// of first appearance.
func RegionsOf(products []MapProduct) []string {
	return lo.Uniq(lo.Compact(lo.Map(products, func(p MapProduct, _ int) string {
		return p.Region
	})))
}
