// Package catalog fetches wine-tourism products from the content API and
// normalizes them into feed items and map entries.
package catalog

import (
	"errors"

	"github.com/gauthierbraillon/winelocals/internal/media"
)

var (
	// ErrMissingID is returned for products without an id.
	ErrMissingID = errors.New("product has no id")
	// ErrNoMedia is returned for products without a usable video gallery entry.
	ErrNoMedia = errors.New("product has no usable media")
)

// FeedItem is one product shown in the short-video feed.
type FeedItem struct {
	ID            string             `json:"id"`
	Slug          string             `json:"slug,omitempty"`
	DisplayName   string             `json:"name"`
	LocationLabel string             `json:"location"`
	PartnerName   string             `json:"partnerName"`
	Price         float64            `json:"price"`
	Media         []media.Descriptor `json:"videoGallery"`
}

// Source returns the first playable source of the item's gallery.
func (f FeedItem) Source() media.Source {
	src, _ := media.First(f.Media)
	return src
}

// Poster returns the thumbnail of the media entry the item plays.
func (f FeedItem) Poster() string {
	_, d := media.First(f.Media)
	return media.ThumbnailURL(d)
}

// MapProduct is a product listed on the map tab.
type MapProduct struct {
	ID          string   `json:"id"`
	Slug        string   `json:"slug,omitempty"`
	Name        string   `json:"name"`
	Location    string   `json:"location,omitempty"`
	PartnerName string   `json:"partnerName,omitempty"`
	Price       float64  `json:"price"`
	Region      string   `json:"region,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

// HasCoordinates reports whether the product can be pinned on a map.
func (p MapProduct) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// Bounds is a geographic box as [west, south, east, north].
type Bounds [4]float64

type listResponse struct {
	Data []rawObject `json:"data"`
}

type rawObject = map[string]any

type facetResponse struct {
	Facets struct {
		Region struct {
			Buckets []bucket `json:"buckets"`
		} `json:"region"`
	} `json:"facets"`
}

type bucket struct {
	Value string `json:"value"`
}
