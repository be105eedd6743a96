package common

import "errors"

var ErrProtocolPaused = errors.New("protocol paused")

// PauseView exposes the protocol-wide pause switch. The switch is owned by the
// state layer and flipped only through administrative action.
type PauseView interface {
	IsPaused() bool
}

// Guard fails fast when the protocol is paused. Engines call it before any
// state mutation so a pause never leaves a partial write behind.
func Guard(p PauseView) error {
	if p == nil {
		return nil
	}
	if p.IsPaused() {
		return ErrProtocolPaused
	}
	return nil
}
