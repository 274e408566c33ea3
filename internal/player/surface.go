// Package player turns a resolved media source plus playback flags into a
// playback surface and the imperative commands needed to keep it in sync.
//
// Streaming assets get a native video element driven by explicit play/pause
// calls. Shared-platform assets live in a cross-origin iframe, so the only
// lever is rebuilding the iframe src with new autoplay/mute parameters.
package player

import "github.com/gauthierbraillon/winelocals/internal/media"

// UnavailableMessage is shown for sources that cannot be played.
const UnavailableMessage = "Vídeo indisponível"

// Flags are the inputs the feed hands to every player.
type Flags struct {
	AutoPlay bool `json:"autoPlay"`
	Muted    bool `json:"muted"`
	Active   bool `json:"active"`
	Paused   bool `json:"paused"`
}

// ShouldPlay reports whether these flags call for running playback.
func (f Flags) ShouldPlay() bool {
	return f.Active && !f.Paused
}

// SurfaceKind is the element a surface renders to.
type SurfaceKind string

const (
	SurfaceVideo       SurfaceKind = "video"
	SurfaceEmbed       SurfaceKind = "iframe"
	SurfacePlaceholder SurfaceKind = "placeholder"
)

// Surface describes what to render for one feed item.
type Surface struct {
	Kind     SurfaceKind `json:"kind"`
	Src      string      `json:"src,omitempty"`
	Poster   string      `json:"poster,omitempty"`
	Loop     bool        `json:"loop,omitempty"`
	Muted    bool        `json:"muted"`
	AutoPlay bool        `json:"autoPlay"`
	Inline   bool        `json:"inline,omitempty"`
	Allow    string      `json:"allow,omitempty"`
	Message  string      `json:"message,omitempty"`
}

// Render maps a source and flags to a surface. It is a pure function.
func Render(src media.Source, flags Flags) Surface {
	if !src.Playable() {
		return Surface{Kind: SurfacePlaceholder, Message: UnavailableMessage}
	}
	switch src.Kind {
	case media.KindStreaming:
		return Surface{
			Kind:     SurfaceVideo,
			Src:      media.ProgressiveURL(src.ID),
			Poster:   media.ThumbnailURL(media.Descriptor{StreamingAssetID: src.ID}),
			Loop:     true,
			Muted:    flags.Muted || !flags.Active,
			AutoPlay: flags.AutoPlay && flags.ShouldPlay(),
			Inline:   true,
		}
	case media.KindSharedPlatform:
		autoplay := flags.AutoPlay && flags.ShouldPlay()
		muted := flags.Muted || !flags.Active
		return Surface{
			Kind:     SurfaceEmbed,
			Src:      media.EmbedURL(src.ID, autoplay, muted),
			Muted:    muted,
			AutoPlay: autoplay,
			Allow:    "autoplay; encrypted-media",
		}
	default:
		return Surface{Kind: SurfacePlaceholder, Message: UnavailableMessage}
	}
}
