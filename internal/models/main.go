// Package models defines the core data structures for users, tasks and items.
package models

import "time"

// User represents an application user with credentials.
type User struct {
	// ID is the unique identifier for the user.
	ID int64 `json:"id"`
	// Email is the login name chosen by the user. Unique, compared as stored.
	Email string `json:"email"`
	// DisplayName is the name shown in the user directory.
	DisplayName string `json:"displayName"`
	// PasswordHash is the bcrypt digest of the user's password.
	PasswordHash string `json:"-"`
}

// Task is a to-do entry owned by exactly one user.
type Task struct {
	// ID is the unique identifier for the task.
	ID int64 `json:"id"`
	// Title is the short name of the task.
	Title string `json:"title"`
	// Description holds free-form notes about the task.
	Description string `json:"description"`
	// DueAt is the task's due date.
	DueAt time.Time `json:"dueAt"`
	// Completed reports whether the task is done.
	Completed bool `json:"completed"`
	// OwnerID is the id of the user who created the task. Never changes.
	OwnerID int64 `json:"ownerId"`
	// Items are the task's sub-entries, filled only by listing operations.
	Items []Item `json:"items"`
}

// Item is a sub-entry of a task. It is owned through its parent task.
type Item struct {
	// ID is the unique identifier for the item.
	ID int64 `json:"id"`
	// Title is the short name of the item.
	Title string `json:"title"`
	// Description holds free-form notes about the item.
	Description string `json:"description"`
	// TaskID is the id of the parent task.
	TaskID int64 `json:"taskId"`
}

// TaskPatch describes a partial task update. Nil fields are left unchanged.
type TaskPatch struct {
	Title       *string
	Description *string
	DueAt       *time.Time
	Completed   *bool
}

// Empty reports whether the patch carries no field to update.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.DueAt == nil && p.Completed == nil
}

// ItemPatch describes a partial item update. Nil fields are left unchanged.
type ItemPatch struct {
	Title       *string
	Description *string
}

// Empty reports whether the patch carries no field to update.
func (p ItemPatch) Empty() bool {
	return p.Title == nil && p.Description == nil
}

// UserPatch describes a partial user update. Password is plaintext here and
// is hashed by the service before it reaches the store.
type UserPatch struct {
	Email        *string
	DisplayName  *string
	Password     *string
	PasswordHash *string
}

// Empty reports whether the patch carries no field to update.
func (p UserPatch) Empty() bool {
	return p.Email == nil && p.DisplayName == nil && p.Password == nil && p.PasswordHash == nil
}
