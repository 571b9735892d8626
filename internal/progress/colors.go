package progress

import "betyaClient/internal/types/challenge"

// SelfColor marks the signed-in user's own line on every chart.
const SelfColor = "#ff0000"

// palette for the other participants; reused modulo when there are more
// participants than colors.
var palette = []string{
	"#0000FF",
	"#008000",
	"#FF00FF",
	"#FFA500",
	"#00FFFF",
	"#4B0082",
	"#FFFF00",
	"#8B4513",
	"#808080",
}

// AssignColors gives every active participant a stable chart color keyed by
// participant id. The signed-in user is always SelfColor; everyone else gets
// a palette color in participant order.
func AssignColors(active []challenge.Participant, selfID int) map[int]string {
	colors := make(map[int]string, len(active))
	next := 0
	for _, p := range active {
		if p.ID == selfID {
			colors[p.ID] = SelfColor
			continue
		}
		colors[p.ID] = palette[next%len(palette)]
		next++
	}
	return colors
}
