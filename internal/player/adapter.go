package player

import (
	"github.com/rs/zerolog"

	"github.com/gauthierbraillon/winelocals/internal/log"
	"github.com/gauthierbraillon/winelocals/internal/media"
	"github.com/gauthierbraillon/winelocals/internal/metrics"
)

// Element is a native media element the adapter can drive.
type Element interface {
	Play() error
	Pause()
	SeekStart()
	SetMuted(muted bool)
}

// Update is the outcome of one Sync call.
type Update struct {
	Surface Surface `json:"surface"`
	Action  Action  `json:"action"`
	// Reload is set for embeds whose src changed and must be reassigned.
	Reload bool `json:"reload,omitempty"`
}

// Adapter keeps one feed item's playback surface in step with its flags.
// It reads flags only and never reports state back to the feed.
type Adapter struct {
	source  media.Source
	element Element
	flags   Flags
	surface Surface
	started bool
	logger  zerolog.Logger
}

// NewAdapter creates an adapter for src. element may be nil for sources that
// are not streaming assets.
func NewAdapter(src media.Source, element Element) *Adapter {
	metrics.RecordResolve(string(src.Kind), src.Playable())
	return &Adapter{
		source:  src,
		element: element,
		logger:  log.WithComponent("player"),
	}
}

// Source returns the resolved source the adapter renders.
func (a *Adapter) Source() media.Source {
	return a.source
}

// Flags returns the last flags applied.
func (a *Adapter) Flags() Flags {
	return a.flags
}

// Sync applies next and returns the surface plus the effect performed.
func (a *Adapter) Sync(next Flags) Update {
	prev := a.flags
	first := !a.started
	a.flags = next
	a.started = true

	surface := Render(a.source, next)
	defer func() { a.surface = surface }()

	switch surface.Kind {
	case SurfaceVideo:
		if first {
			// A fresh element starts inactive at position zero.
			prev = Flags{}
		}
		action := Plan(prev, next)
		a.drive(action, surface.Muted)
		return Update{Surface: surface, Action: action}
	case SurfaceEmbed:
		return Update{Surface: surface, Action: ActionNone, Reload: first || surface.Src != a.surface.Src}
	default:
		return Update{Surface: surface, Action: ActionNone}
	}
}

func (a *Adapter) drive(action Action, muted bool) {
	if a.element == nil {
		return
	}
	a.element.SetMuted(muted)
	switch action {
	case ActionRestart:
		a.element.SeekStart()
		a.play()
	case ActionResume:
		a.play()
	case ActionPause:
		a.element.Pause()
	}
}

// play swallows element errors: autoplay without a user gesture is expected
// to fail intermittently and playback simply waits for the next gesture.
func (a *Adapter) play() {
	if err := a.element.Play(); err != nil {
		metrics.RecordPlayRejected()
		a.logger.Debug().Err(err).Str(log.FieldKind, string(a.source.Kind)).Str("id", a.source.ID).Msg("play rejected")
	}
}
