package media

import (
	"fmt"
	"net/url"
)

const (
	streamHost    = "https://stream.mux.com"
	imageHost     = "https://image.mux.com"
	embedEndpoint = "https://www.youtube.com/embed/"
)

// ProgressiveURL returns the progressive-download rendition of a streaming asset.
func ProgressiveURL(assetID string) string {
	return fmt.Sprintf("%s/%s/medium.mp4", streamHost, url.PathEscape(assetID))
}

// AdaptiveURL returns the adaptive (HLS) playlist of a streaming asset.
func AdaptiveURL(assetID string) string {
	return fmt.Sprintf("%s/%s.m3u8", streamHost, url.PathEscape(assetID))
}

// ThumbnailURL returns the poster image for a descriptor. An explicit thumbUrl wins.
func ThumbnailURL(d Descriptor) string {
	if d.ThumbURL != "" {
		return d.ThumbURL
	}
	if d.StreamingAssetID == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s/thumbnail.jpg?width=600&fit_mode=pad", imageHost, url.PathEscape(d.StreamingAssetID))
}

// EmbedURL builds the shared-platform iframe src for the given playback flags.
// The playlist parameter repeats the id so loop=1 applies to a single video.
func EmbedURL(videoID string, autoplay, mute bool) string {
	q := fmt.Sprintf("autoplay=%d&mute=%d&controls=0&loop=1&playlist=%s&modestbranding=1&showinfo=0&playsinline=1",
		boolParam(autoplay), boolParam(mute), url.QueryEscape(videoID))
	return embedEndpoint + url.PathEscape(videoID) + "?" + q
}

func boolParam(b bool) int {
	if b {
		return 1
	}
	return 0
}
