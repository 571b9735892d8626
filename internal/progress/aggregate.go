package progress

import (
	"math"

	"betyaClient/internal/types/challenge"
)

// TaskCompletionPercent computes how complete a daily task is for the signed
// in user, as an integer 0..100.
//
// A task without subtasks is a single unit: 100 when its own done flag is
// set, otherwise 0. A task with subtasks derives its percent from the weight
// of the finished subtasks over the total weight, rounded half up. A total
// weight of zero yields 0 rather than dividing.
func TaskCompletionPercent(task challenge.DailyTask, subtaskDone, taskDone map[int]bool) int {
	if len(task.Subtasks) == 0 {
		if taskDone[task.ID] {
			return 100
		}
		return 0
	}

	var total, done float64
	for _, st := range task.Subtasks {
		total += st.Weight
		if subtaskDone[st.ID] {
			done += st.Weight
		}
	}
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * done / total))
}
