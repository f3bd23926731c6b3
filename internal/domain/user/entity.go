package user

import (
	"time"
)

// Anonymous is the identity of callers without a verified credential.
// No persisted user carries it.
const Anonymous ID = -1

type (
	ID   int64
	User struct {
		ID       ID
		Username string
		Email    string
		Avatar   string
		IsAdmin  bool

		CreatedAt time.Time
	}
)

func (id ID) IsAnonymous() bool { return id == Anonymous }
