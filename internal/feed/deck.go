package feed

import (
	"github.com/gauthierbraillon/winelocals/internal/media"
	"github.com/gauthierbraillon/winelocals/internal/player"
)

// Frame is the render instruction for one item after a sync.
type Frame struct {
	Index    int              `json:"index"`
	Source   media.Source     `json:"source"`
	Update   player.Update    `json:"update"`
	Commands []player.Command `json:"commands,omitempty"`
}

// Deck binds a Controller to one player adapter per item. Streaming items get
// a recording element whose commands are replayed by the renderer.
type Deck struct {
	ctrl      *Controller
	adapters  []*player.Adapter
	recorders []*player.Recorder
}

// NewDeck builds a deck over the resolved sources, one per feed item.
func NewDeck(sources []media.Source, opts Options) *Deck {
	d := &Deck{
		ctrl:      New(len(sources), opts),
		adapters:  make([]*player.Adapter, len(sources)),
		recorders: make([]*player.Recorder, len(sources)),
	}
	for i, src := range sources {
		var el player.Element
		if src.Kind == media.KindStreaming && src.Playable() {
			rec := &player.Recorder{}
			d.recorders[i] = rec
			el = rec
		}
		d.adapters[i] = player.NewAdapter(src, el)
	}
	return d
}

// Controller returns the deck's controller. Gestures go through it; call Sync
// afterwards to propagate the new flags to the players.
func (d *Deck) Controller() *Controller { return d.ctrl }

// Sync pushes the controller's flags to every adapter and returns one frame
// per item with the commands its element must run.
func (d *Deck) Sync() []Frame {
	frames := make([]Frame, len(d.adapters))
	for i, a := range d.adapters {
		frames[i] = Frame{
			Index:  i,
			Source: a.Source(),
			Update: a.Sync(d.ctrl.FlagsFor(i)),
		}
		if rec := d.recorders[i]; rec != nil {
			frames[i].Commands = rec.Drain()
		}
	}
	return frames
}

// Playing reports whether item i's element is currently playing.
func (d *Deck) Playing(i int) bool {
	if i < 0 || i >= len(d.recorders) || d.recorders[i] == nil {
		return false
	}
	return d.recorders[i].Playing()
}
