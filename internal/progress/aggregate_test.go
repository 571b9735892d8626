package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"betyaClient/internal/types/challenge"
)

func TestTaskCompletionPercent_NoSubtasks(t *testing.T) {
	task := challenge.DailyTask{ID: 1, Name: "run"}

	assert.Equal(t, 0, TaskCompletionPercent(task, nil, map[int]bool{}))
	assert.Equal(t, 100, TaskCompletionPercent(task, nil, map[int]bool{1: true}))
}

func TestTaskCompletionPercent_WeightedSubtasks(t *testing.T) {
	task := challenge.DailyTask{
		ID: 1,
		Subtasks: []challenge.Subtask{
			{ID: 10, Weight: 1},
			{ID: 11, Weight: 3},
		},
	}

	// Only the weight-3 subtask done: round(100*3/4) = 75.
	done := map[int]bool{11: true}
	assert.Equal(t, 75, TaskCompletionPercent(task, done, nil))

	done[10] = true
	assert.Equal(t, 100, TaskCompletionPercent(task, done, nil))
}

func TestTaskCompletionPercent_ZeroTotalWeight(t *testing.T) {
	task := challenge.DailyTask{
		ID: 1,
		Subtasks: []challenge.Subtask{
			{ID: 10, Weight: 0},
			{ID: 11, Weight: 0},
		},
	}

	assert.Equal(t, 0, TaskCompletionPercent(task, map[int]bool{10: true, 11: true}, nil))
}

func TestTaskCompletionPercent_TaskFlagIgnoredWithSubtasks(t *testing.T) {
	task := challenge.DailyTask{
		ID:       1,
		Subtasks: []challenge.Subtask{{ID: 10, Weight: 2}},
	}

	// The direct done flag never applies to a task with subtasks.
	assert.Equal(t, 0, TaskCompletionPercent(task, nil, map[int]bool{1: true}))
}

func TestTaskCompletionPercent_MonotonicAndBounded(t *testing.T) {
	task := challenge.DailyTask{
		ID: 1,
		Subtasks: []challenge.Subtask{
			{ID: 10, Weight: 0.5},
			{ID: 11, Weight: 1.5},
			{ID: 12, Weight: 2},
			{ID: 13, Weight: 1},
		},
	}

	done := map[int]bool{}
	previous := 0
	for _, st := range task.Subtasks {
		done[st.ID] = true
		percent := TaskCompletionPercent(task, done, nil)
		assert.GreaterOrEqual(t, percent, previous)
		assert.GreaterOrEqual(t, percent, 0)
		assert.LessOrEqual(t, percent, 100)
		previous = percent
	}
	assert.Equal(t, 100, previous)
}
