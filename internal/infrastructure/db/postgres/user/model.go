package user

import (
	"time"
)

type User struct {
	ID        int64
	Username  string
	Email     string
	Avatar    string
	IsAdmin   bool
	CreatedAt time.Time
}
