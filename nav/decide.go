package nav

import (
	"gobuggy/color"
	"gobuggy/motor"
	"gobuggy/pathmem"
)

// Action is the maneuver chosen for a marker
type Action struct {
	Code pathmem.TurnCode
	Turn motor.Turn

	// DeadEnd backs away for DeadEndReverse before turning and takes
	// DeadEndCorrection ticks off the leg afterwards.
	DeadEnd bool

	// Terminal ends exploration and starts a retrace
	Terminal bool
}

var decisions = map[color.Category]Action{
	color.LightBlue: {Code: pathmem.LightBlue, Turn: motor.Turn{Rotation: motor.Left, Hold: motor.Left135Hold}},
	color.Pink:      {Code: pathmem.Pink, Turn: motor.Turn{Rotation: motor.Left, Hold: motor.Left90Hold}, DeadEnd: true},
	color.Red:       {Code: pathmem.Red, Turn: motor.Turn{Rotation: motor.Right, Hold: motor.Right90Hold}},
	color.Orange:    {Code: pathmem.Orange, Turn: motor.Turn{Rotation: motor.Right, Hold: motor.Right135Hold}},
	color.Green:     {Code: pathmem.Green, Turn: motor.Turn{Rotation: motor.Left, Hold: motor.Left90Hold}},
	color.Blue:      {Code: pathmem.Blue, Turn: motor.Turn{Rotation: motor.Left, Hold: motor.Turn180Hold}},
	color.Yellow:    {Code: pathmem.Yellow, Turn: motor.Turn{Rotation: motor.Right, Hold: motor.Right90Hold}, DeadEnd: true},
}

// Decide looks up the maneuver for a category. White, Unknown and anything
// not in the table are terminal.
func Decide(c color.Category) Action {
	if a, ok := decisions[c]; ok {
		return a
	}
	return Action{Terminal: true}
}
