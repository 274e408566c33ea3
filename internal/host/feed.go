package host

import (
	"net/http"

	"github.com/gauthierbraillon/winelocals/internal/catalog"
	"github.com/gauthierbraillon/winelocals/internal/display"
	"github.com/gauthierbraillon/winelocals/internal/feed"
	"github.com/gauthierbraillon/winelocals/internal/log"
	"github.com/gauthierbraillon/winelocals/internal/media"
	"github.com/gauthierbraillon/winelocals/internal/shell"
)

type feedEntry struct {
	Item    catalog.FeedItem `json:"item"`
	PageURL string           `json:"pageUrl,omitempty"`
	Poster  string           `json:"poster,omitempty"`
	Frame   feed.Frame       `json:"frame"`
}

type feedResponse struct {
	Status  shell.Status `json:"status"`
	Message string       `json:"message,omitempty"`
	State   feed.State   `json:"state"`
	Entries []feedEntry  `json:"entries"`
}

type gestureRequest struct {
	Kind     string  `json:"kind"`
	Delta    float64 `json:"delta,omitempty"`
	StartY   float64 `json:"startY,omitempty"`
	EndY     float64 `json:"endY,omitempty"`
	Offset   float64 `json:"offset,omitempty"`
	Viewport float64 `json:"viewport,omitempty"`
}

type gestureResponse struct {
	Changed bool         `json:"changed"`
	SnapTo  *int         `json:"snapTo,omitempty"`
	State   feed.State   `json:"state"`
	Frames  []feed.Frame `json:"frames"`
}

// handleFeed remounts the feed: items are fetched again and playback
// restarts on the first item.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	if _, err := s.shell.Select(string(shell.TabFeed)); err != nil {
		writeError(w, r, http.StatusInternalServerError, "shell", err.Error())
		return
	}
	s.remountMu.Lock()
	defer s.remountMu.Unlock()

	s.feedScreen.Unmount()
	st := s.feedScreen.Mount(r.Context(), "feed")
	if st.Status == shell.StatusIdle || st.Status == shell.StatusLoading {
		// The feed tab was left while items were loading.
		writeJSON(w, http.StatusOK, feedResponse{Status: st.Status, Entries: []feedEntry{}})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = st.Items
	sources := make([]media.Source, len(s.items))
	for i, item := range s.items {
		sources[i] = item.Source()
	}
	opts := s.cfg.Feed
	opts.Snapper = feed.SnapFunc(func(i int) { s.snap = i })
	s.deck = feed.NewDeck(sources, opts)
	s.snap = -1

	frames := s.deck.Sync()
	entries := make([]feedEntry, len(s.items))
	for i, item := range s.items {
		entries[i] = feedEntry{
			Item:    item,
			PageURL: shell.ExperienceURL(item.Slug),
			Poster:  item.Poster(),
			Frame:   frames[i],
		}
	}

	resp := feedResponse{Status: st.Status, State: s.deck.Controller().State(), Entries: entries}
	if st.Status == shell.StatusEmpty {
		resp.Message = display.MsgNoVideos
	}
	log.FromContext(r.Context()).Debug().Int(log.FieldCount, len(entries)).Msg("feed mounted")
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGesture(w http.ResponseWriter, r *http.Request) {
	var req gestureRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.deck == nil {
		writeError(w, r, http.StatusConflict, "feed_not_mounted", "load /api/feed first")
		return
	}

	ctrl := s.deck.Controller()
	var changed bool
	switch req.Kind {
	case "wheel":
		changed = ctrl.Wheel(req.Delta)
	case "swipe":
		changed = ctrl.Swipe(req.Delta)
	case "touch":
		changed = ctrl.Touch(req.StartY, req.EndY)
	case "scroll":
		changed = ctrl.Scroll(req.Offset, req.Viewport)
	case "next":
		changed = ctrl.Next()
	case "prev":
		changed = ctrl.Prev()
	case "toggle":
		ctrl.TogglePause()
		changed = ctrl.Count() > 0
	default:
		writeError(w, r, http.StatusBadRequest, "invalid_gesture", "unknown gesture kind "+req.Kind)
		return
	}

	resp := gestureResponse{Changed: changed, State: ctrl.State(), Frames: s.deck.Sync()}
	if s.snap >= 0 {
		snap := s.snap
		resp.SnapTo = &snap
		s.snap = -1
	}
	writeJSON(w, http.StatusOK, resp)
}
