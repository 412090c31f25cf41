package engine

// EntityState is the discrete state of an entity; it selects the animation
type EntityState string

const (
	StateIdle         EntityState = "idle"
	StateWalkingLeft  EntityState = "walking_left"
	StateWalkingRight EntityState = "walking_right"
	StateWalkingUp    EntityState = "walking_up"
	StateWalkingDown  EntityState = "walking_down"
	StateAttacking    EntityState = "attacking"
	StateDying        EntityState = "dying"
)

// Animation is a sequence of glyph frames shown for FrameDuration seconds each
type Animation struct {
	Frames        []rune
	FrameDuration float64
}

// NewAnimation builds an animation from a string of glyphs
func NewAnimation(frameDuration float64, frames string) Animation {
	return Animation{Frames: []rune(frames), FrameDuration: frameDuration}
}

// KeyFrameIndex returns the frame index for a state time. A non-looping
// animation holds its last frame.
func (a Animation) KeyFrameIndex(stateTime float64, looping bool) int {
	n := len(a.Frames)
	if n <= 1 || a.FrameDuration <= 0 || stateTime < 0 {
		return 0
	}
	idx := int(stateTime / a.FrameDuration)
	if looping {
		return idx % n
	}
	if idx >= n {
		return n - 1
	}
	return idx
}

// KeyFrame returns the glyph for a state time, or a space for an empty animation
func (a Animation) KeyFrame(stateTime float64, looping bool) rune {
	if len(a.Frames) == 0 {
		return ' '
	}
	return a.Frames[a.KeyFrameIndex(stateTime, looping)]
}

// AnimationSet maps states to animations
type AnimationSet map[EntityState]Animation

// For returns the animation for a state, falling back to idle
func (s AnimationSet) For(state EntityState) Animation {
	if a, ok := s[state]; ok {
		return a
	}
	return s[StateIdle]
}

func playerAnimations(frameDuration float64) AnimationSet {
	return AnimationSet{
		StateIdle:         NewAnimation(frameDuration*4, "@@"),
		StateWalkingLeft:  NewAnimation(frameDuration, "<@"),
		StateWalkingRight: NewAnimation(frameDuration, ">@"),
		StateWalkingUp:    NewAnimation(frameDuration, "^@"),
		StateWalkingDown:  NewAnimation(frameDuration, "v@"),
		StateDying:        NewAnimation(frameDuration*2, "@%x"),
	}
}

func slimeAnimations(frameDuration float64) AnimationSet {
	return AnimationSet{
		StateIdle:      NewAnimation(frameDuration*3, "oO"),
		StateAttacking: NewAnimation(frameDuration, "*O"),
	}
}
