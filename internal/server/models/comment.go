package models

import "time"

type Comment struct {
	ID        int64
	TaskID    int64
	Author    string
	Content   string
	CreatedAt time.Time
}
