package model_test

import (
	"testing"

	"taskhive/internal/model"

	"github.com/stretchr/testify/assert"
)

func subtasks(completed, total int) []model.SubTask {
	out := make([]model.SubTask, total)
	for i := 0; i < completed; i++ {
		out[i].IsCompleted = true
	}
	return out
}

func TestDeriveTaskStatus(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		total     int
		want      string
	}{
		{"no subtasks", 0, 0, model.TaskStatusTodo},
		{"none completed", 0, 3, model.TaskStatusTodo},
		{"some completed", 1, 3, model.TaskStatusInProgress},
		{"almost all completed", 2, 3, model.TaskStatusInProgress},
		{"all completed", 3, 3, model.TaskStatusDone},
		{"single completed subtask", 1, 1, model.TaskStatusDone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, model.DeriveTaskStatus(subtasks(tt.completed, tt.total)))
		})
	}
}
