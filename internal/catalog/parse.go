package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/gauthierbraillon/winelocals/internal/media"
)

var upper = cases.Upper(language.BrazilianPortuguese)

// ParseProduct normalizes one product record. Both the flat shape and the
// shape that nests fields under "attributes" are accepted.
func ParseProduct(raw json.RawMessage) (FeedItem, error) {
	var obj rawObject
	if err := json.Unmarshal(raw, &obj); err != nil {
		return FeedItem{}, fmt.Errorf("failed to parse product: %w", err)
	}
	return parseProduct(obj)
}

func parseProduct(obj rawObject) (FeedItem, error) {
	id := idString(obj["id"])
	if id == "" {
		return FeedItem{}, ErrMissingID
	}
	fields := flatten(obj)

	gallery := parseGallery(fields["videoGallery"])
	if len(gallery) == 0 {
		gallery = parseGallery(fields["video_gallery"])
	}
	if len(gallery) == 0 {
		return FeedItem{ID: id}, fmt.Errorf("product %s: %w", id, ErrNoMedia)
	}

	return FeedItem{
		ID:            id,
		Slug:          str(fields["slug"]),
		DisplayName:   lo.CoalesceOrEmpty(str(fields["title"]), str(fields["name"])),
		LocationLabel: locationLabel(fields),
		PartnerName:   partnerName(fields),
		Price:         price(fields),
		Media:         gallery,
	}, nil
}

// ParseFeed decodes a product list response. Products that fail to parse are
// dropped and reported through drop.
func ParseFeed(body []byte, drop func(id string, err error)) ([]FeedItem, error) {
	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse products response: %w", err)
	}

	items := make([]FeedItem, 0, len(resp.Data))
	for _, obj := range resp.Data {
		item, err := parseProduct(obj)
		if err != nil {
			if drop != nil {
				drop(item.ID, err)
			}
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func parseMapProduct(obj rawObject) (MapProduct, bool) {
	id := idString(obj["id"])
	if id == "" {
		return MapProduct{}, false
	}
	fields := flatten(obj)
	p := MapProduct{
		ID:          id,
		Slug:        str(fields["slug"]),
		Name:        lo.CoalesceOrEmpty(str(fields["name"]), str(fields["title"])),
		Location:    str(fields["location"]),
		PartnerName: lo.CoalesceOrEmpty(str(fields["partner_name"]), partnerName(fields)),
		Price:       price(fields),
		Region:      lo.CoalesceOrEmpty(str(fields["region"]), str(fields["regiao"]), str(fields["location"])),
		Latitude:    firstNumber(fields, "latitude", "lat"),
		Longitude:   firstNumber(fields, "longitude", "lng", "lon"),
	}
	return p, true
}

// flatten lifts "attributes" fields to the top level, keeping the outer id.
func flatten(obj rawObject) rawObject {
	attrs, ok := obj["attributes"].(map[string]any)
	if !ok {
		return obj
	}
	return lo.Assign(attrs, rawObject{"id": obj["id"]})
}

func parseGallery(v any) []media.Descriptor {
	entries, ok := v.([]any)
	if !ok {
		return nil
	}
	return lo.FilterMap(entries, func(e any, _ int) (media.Descriptor, bool) {
		m, ok := e.(map[string]any)
		if !ok {
			return media.Descriptor{}, false
		}
		d := media.Descriptor{
			StreamingAssetID: str(m["playback_id"]),
			SharedPlatformID: str(m["youtubeId"]),
			RawURL:           str(m["videoUrl"]),
			ThumbURL:         str(m["thumbUrl"]),
		}
		return d, !d.Empty()
	})
}

func locationLabel(fields rawObject) string {
	label := str(fields["city"])
	if state := lo.CoalesceOrEmpty(str(fields["state_code"]), str(fields["state"])); state != "" {
		label += " - " + state
	}
	return upper.String(strings.TrimSpace(label))
}

func partnerName(fields rawObject) string {
	partner, ok := fields["partner"].(map[string]any)
	if !ok {
		return ""
	}
	if name := str(partner["name"]); name != "" {
		return name
	}
	// {partner: {data: {attributes: {name}}}}
	if data, ok := partner["data"].(map[string]any); ok {
		if attrs, ok := data["attributes"].(map[string]any); ok {
			return str(attrs["name"])
		}
	}
	return ""
}

func price(fields rawObject) float64 {
	for _, key := range []string{"price", "price_from", "price_min"} {
		if n := number(fields[key]); n != nil && *n != 0 {
			return *n
		}
	}
	return 0
}

func firstNumber(fields rawObject, keys ...string) *float64 {
	for _, key := range keys {
		if n := number(fields[key]); n != nil && *n != 0 {
			return n
		}
	}
	return nil
}

func number(v any) *float64 {
	switch t := v.(type) {
	case float64:
		return &t
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func idString(v any) string {
	switch t := v.(type) {
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case string:
		return t
	default:
		return ""
	}
}
