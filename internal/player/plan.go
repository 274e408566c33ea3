package player

// Action is the imperative effect a flag transition requires on a native element.
type Action string

const (
	ActionNone    Action = "none"
	ActionRestart Action = "restart" // seek to start, then play
	ActionResume  Action = "resume"  // play from the current position
	ActionPause   Action = "pause"
)

// Plan derives the action for a streaming element from the previous and next
// flags. Playback that starts after the item was inactive restarts from zero;
// playback that starts after a pause on the active item resumes.
func Plan(prev, next Flags) Action {
	was, now := prev.ShouldPlay(), next.ShouldPlay()
	switch {
	case now && !was && !prev.Active:
		return ActionRestart
	case now && !was:
		return ActionResume
	case !now && was:
		return ActionPause
	default:
		return ActionNone
	}
}
