package store

import "fmt"

type (
	UserAlreadyExists struct {
		Username string
	}

	UserNotFound struct {
		Username string
	}

	TaskNotFound struct {
		ID int64
	}
)

func (u UserAlreadyExists) Error() string {
	return fmt.Sprintf("user %v already exists", u.Username)
}

func (u UserNotFound) Error() string {
	return fmt.Sprintf("user %v not found", u.Username)
}

func (t TaskNotFound) Error() string {
	return fmt.Sprintf("task %v not found", t.ID)
}
