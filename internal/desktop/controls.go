package desktop

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type action int

const (
	actDrop action = iota + 1
	actCancel
	actWagerUp
	actWagerDown
	actCountUp
	actCountDown
	actCountMax
)

var keyBindings = []struct {
	key ebiten.Key
	act action
}{
	{ebiten.KeySpace, actDrop},
	{ebiten.KeyC, actCancel},
	{ebiten.KeyArrowUp, actWagerUp},
	{ebiten.KeyArrowDown, actWagerDown},
	{ebiten.KeyArrowRight, actCountUp},
	{ebiten.KeyArrowLeft, actCountDown},
	{ebiten.KeyM, actCountMax},
}

// pressedActions returns the actions whose key went down this tick.
func pressedActions() []action {
	var acts []action
	for _, b := range keyBindings {
		if inpututil.IsKeyJustPressed(b.key) {
			acts = append(acts, b.act)
		}
	}
	return acts
}

const helpText = "SPACE drop  C cancel  UP/DOWN wager  LEFT/RIGHT balls  M max"
