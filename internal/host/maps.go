package host

import (
	"context"
	"net/http"
	"strings"

	"github.com/gauthierbraillon/winelocals/internal/catalog"
	"github.com/gauthierbraillon/winelocals/internal/display"
	"github.com/gauthierbraillon/winelocals/internal/log"
	"github.com/gauthierbraillon/winelocals/internal/shell"
)

type mapResponse struct {
	Status   shell.Status         `json:"status"`
	Region   string               `json:"region,omitempty"`
	Bounds   catalog.Bounds       `json:"bounds"`
	Products []catalog.MapProduct `json:"products"`
}

// loadRegions prefers the search index facets and falls back to the regions
// found on the products themselves.
func (s *Server) loadRegions(ctx context.Context, _ string) ([]string, error) {
	regions, err := s.catalog.Regions(ctx)
	if err == nil && len(regions) > 0 {
		return regions, nil
	}
	if err != nil {
		log.FromContext(ctx).Warn().Err(err).Msg("region facets unavailable, using product regions")
	}
	products, perr := s.catalog.MapProducts(ctx)
	if perr != nil {
		if err != nil {
			return nil, err
		}
		return nil, perr
	}
	return catalog.RegionsOf(products), nil
}

func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	st := s.regions.Mount(r.Context(), "regions")
	writeJSON(w, http.StatusOK, listed(st, "Regiões", display.MsgNoRegions))
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	region := strings.TrimSpace(r.URL.Query().Get("region"))
	st := s.products.Mount(r.Context(), "products")

	products := catalog.FilterByRegion(st.Items, region)
	if products == nil {
		products = []catalog.MapProduct{}
	}
	writeJSON(w, http.StatusOK, mapResponse{
		Status:   st.Status,
		Region:   region,
		Bounds:   catalog.BoundsFor(region),
		Products: products,
	})
}
