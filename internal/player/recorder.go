package player

// Command is one imperative call recorded for a remote element.
type Command string

const (
	CommandPlay      Command = "play"
	CommandPause     Command = "pause"
	CommandSeekStart Command = "seekStart"
	CommandMute      Command = "mute"
	CommandUnmute    Command = "unmute"
)

// Recorder is an Element that records calls so they can be replayed by a
// remote renderer (the shell page or the terminal feed).
type Recorder struct {
	commands []Command
	playing  bool
	muted    bool
	mutedSet bool
	// PlayErr, when set, is returned by Play to emulate a blocked autoplay.
	PlayErr error
}

// Play records a play call.
func (r *Recorder) Play() error {
	r.commands = append(r.commands, CommandPlay)
	if r.PlayErr != nil {
		return r.PlayErr
	}
	r.playing = true
	return nil
}

// Pause records a pause call.
func (r *Recorder) Pause() {
	r.commands = append(r.commands, CommandPause)
	r.playing = false
}

// SeekStart records a seek to position zero.
func (r *Recorder) SeekStart() {
	r.commands = append(r.commands, CommandSeekStart)
}

// SetMuted records mute changes only.
func (r *Recorder) SetMuted(muted bool) {
	if r.mutedSet && muted == r.muted {
		return
	}
	r.mutedSet = true
	r.muted = muted
	if muted {
		r.commands = append(r.commands, CommandMute)
		return
	}
	r.commands = append(r.commands, CommandUnmute)
}

// Playing reports whether the last play succeeded and was not paused since.
func (r *Recorder) Playing() bool { return r.playing }

// Muted reports the last mute state.
func (r *Recorder) Muted() bool { return r.muted }

// Drain returns and clears the recorded commands.
func (r *Recorder) Drain() []Command {
	out := r.commands
	r.commands = nil
	return out
}
