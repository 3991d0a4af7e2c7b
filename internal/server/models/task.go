package models

// Task is a single todo record.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// TaskBody carries the client-editable fields of a Task.
type TaskBody struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
