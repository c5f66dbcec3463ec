package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTaskPatch_Empty(t *testing.T) {
	assert.True(t, TaskPatch{}.Empty())

	done := false
	assert.False(t, TaskPatch{Completed: &done}.Empty(), "explicit false is still a field")

	due := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.False(t, TaskPatch{DueAt: &due}.Empty())
}

func TestItemPatch_Empty(t *testing.T) {
	assert.True(t, ItemPatch{}.Empty())

	empty := ""
	assert.False(t, ItemPatch{Description: &empty}.Empty(), "empty string clears the field")
}

func TestUserPatch_Empty(t *testing.T) {
	assert.True(t, UserPatch{}.Empty())

	name := "Alice"
	assert.False(t, UserPatch{DisplayName: &name}.Empty())
}
