package media

import (
	"regexp"
	"strings"
)

// sharedPlatformMarker is matched textually against raw URLs.
const sharedPlatformMarker = "youtube"

var videoIDParam = regexp.MustCompile(`[?&]v=([^&]+)`)

// Resolve classifies a descriptor. The first matching rule wins:
//  1. an explicit shared-platform id
//  2. a raw URL containing the shared-platform marker, id taken from its v= parameter
//  3. a streaming-service asset id
//  4. unsupported
func Resolve(d Descriptor) Source {
	if d.SharedPlatformID != "" {
		return Source{Kind: KindSharedPlatform, ID: d.SharedPlatformID}
	}
	if d.RawURL != "" && strings.Contains(d.RawURL, sharedPlatformMarker) {
		src := Source{Kind: KindSharedPlatform, URL: d.RawURL}
		if m := videoIDParam.FindStringSubmatch(d.RawURL); m != nil {
			src.ID = m[1]
		}
		return src
	}
	if d.StreamingAssetID != "" {
		return Source{Kind: KindStreaming, ID: d.StreamingAssetID}
	}
	return Source{Kind: KindUnsupported}
}

// First returns the first playable source of a gallery, falling back to the
// resolution of the first entry so callers can render its placeholder.
func First(gallery []Descriptor) (Source, Descriptor) {
	for _, d := range gallery {
		if src := Resolve(d); src.Playable() {
			return src, d
		}
	}
	if len(gallery) == 0 {
		return Source{Kind: KindUnsupported}, Descriptor{}
	}
	return Resolve(gallery[0]), gallery[0]
}
