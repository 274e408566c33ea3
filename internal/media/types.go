// Package media resolves heterogeneous video descriptors returned by the
// content API into playable sources.
//
// This package enables winelocals to:
// - Tell streaming-service assets from video-sharing embeds
// - Build progressive, adaptive, thumbnail and embed URLs
// - Flag descriptors that cannot be played
package media

// Descriptor is one entry of a product's video gallery.
// Only string presence is considered; nothing is validated against a schema.
type Descriptor struct {
	StreamingAssetID string `json:"playback_id,omitempty"`
	SharedPlatformID string `json:"youtubeId,omitempty"`
	RawURL           string `json:"videoUrl,omitempty"`
	ThumbURL         string `json:"thumbUrl,omitempty"`
}

// Empty reports whether none of the source fields are set.
func (d Descriptor) Empty() bool {
	return d.StreamingAssetID == "" && d.SharedPlatformID == "" && d.RawURL == ""
}

// Kind identifies the playback backend of a resolved source.
type Kind string

const (
	KindStreaming      Kind = "streaming"
	KindSharedPlatform Kind = "shared-platform"
	KindUnsupported    Kind = "unsupported"
)

// Source is the result of resolving a Descriptor.
type Source struct {
	Kind Kind   `json:"kind"`
	ID   string `json:"id,omitempty"`
	URL  string `json:"url,omitempty"` // raw URL the id was extracted from, if any
}

// Playable reports whether the source can be handed to a player.
// Shared-platform sources whose id could not be extracted are not playable.
func (s Source) Playable() bool {
	return s.Kind != KindUnsupported && s.ID != ""
}
