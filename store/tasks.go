package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type (
	// TaskField names the single mutable columns of a task.
	TaskField string
)

const (
	FieldStatus   = TaskField("status")
	FieldPriority = TaskField("priority")
)

// CreateTask inserts a task owned by ownerID. Empty status or priority
// take their default values.
func (s *Store) CreateTask(ctx context.Context, ownerID int64, text string, status string, priority string) (Task, error) {
	if status == "" {
		status = DefaultStatus
	}
	if priority == "" {
		priority = DefaultPriority
	}
	t := Task{Text: text, Status: status, Priority: priority, OwnerID: ownerID}
	err := s.db.QueryRowContext(ctx, `insert into tasks (owner_id, text, status, priority) values (?, ?, ?, ?) returning task_id`,
		ownerID, text, status, priority).Scan(&t.ID)
	if err != nil {
		return Task{}, fmt.Errorf("unable to create task, cause %w", err)
	}
	return t, nil
}

// ListTasks returns every task owned by ownerID, in natural store order.
func (s *Store) ListTasks(ctx context.Context, ownerID int64) ([]Task, error) {
	rows, err := s.db.QueryContext(ctx, `select task_id, text, status, priority, owner_id from tasks where owner_id = ?`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("unable to list tasks, cause %w", err)
	}
	defer rows.Close()
	out := []Task{}
	for rows.Next() {
		var t Task
		err = rows.Scan(&t.ID, &t.Text, &t.Status, &t.Priority, &t.OwnerID)
		if err != nil {
			return nil, fmt.Errorf("unable to scan task to output, cause %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// DeleteTask removes the task in a single statement scoped by both the
// task id and its owner, returning the removed task. Tasks owned by
// somebody else fail with TaskNotFound, callers cannot distinguish
// them from tasks that never existed.
func (s *Store) DeleteTask(ctx context.Context, taskID int64, ownerID int64) (Task, error) {
	var t Task
	err := s.db.QueryRowContext(ctx, `delete from tasks where task_id = ? and owner_id = ? returning task_id, text, status, priority, owner_id`,
		taskID, ownerID).Scan(&t.ID, &t.Text, &t.Status, &t.Priority, &t.OwnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, TaskNotFound{ID: taskID}
	} else if err != nil {
		return Task{}, fmt.Errorf("unable to delete task %v, cause %w", taskID, err)
	}
	return t, nil
}

// UpdateTaskField sets exactly one of the mutable task fields, scoped by
// both the task id and its owner, returning the updated task.
func (s *Store) UpdateTaskField(ctx context.Context, taskID int64, ownerID int64, field TaskField, value string) (Task, error) {
	switch field {
	case FieldStatus, FieldPriority:
	default:
		return Task{}, fmt.Errorf("field %v is not updatable", field)
	}
	var t Task
	// field is restricted to the constants above, never caller data
	query := fmt.Sprintf(`update tasks set %v = ? where task_id = ? and owner_id = ? returning task_id, text, status, priority, owner_id`, field)
	err := s.db.QueryRowContext(ctx, query, value, taskID, ownerID).Scan(&t.ID, &t.Text, &t.Status, &t.Priority, &t.OwnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, TaskNotFound{ID: taskID}
	} else if err != nil {
		return Task{}, fmt.Errorf("unable to update task %v, cause %w", taskID, err)
	}
	return t, nil
}
