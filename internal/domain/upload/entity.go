package upload

import (
	"time"

	"pingo-api/internal/domain/user"
)

// ReasonExpired is stored as the deletion reason by the expiration sweep.
const ReasonExpired = "Expired"

type Kind uint8

const (
	Active Kind = iota
	Unavailable
	Deleted
)

func (k Kind) String() string {
	switch k {
	case Active:
		return "active"
	case Unavailable:
		return "unavailable"
	case Deleted:
		return "deleted"
	}
	return "unknown"
}

type (
	// State is the lifecycle of an upload. Reason and At are set only for Deleted.
	State struct {
		Kind   Kind
		Reason string
		At     *time.Time
	}

	Upload struct {
		ID        string
		Owner     user.ID
		Files     []string
		TotalSize int64
		Email     string
		State     State

		CreatedAt time.Time
		ExpiresAt *time.Time
	}

	// Gate is the slice of an upload the access check needs.
	Gate struct {
		Owner user.ID
		State State
	}

	// Expired is an upload picked up by the sweep together with its manifest.
	Expired struct {
		ID    string
		Files []string
	}

	Uploader struct {
		Username  string
		Avatar    string
		Email     string
		ExpiresAt *time.Time
	}
)

// StateFromFlags folds the persisted is_available / is_deleted pair into a State.
// Deleted takes precedence over availability.
func StateFromFlags(isAvailable, isDeleted bool, reason string, at *time.Time) State {
	switch {
	case isDeleted:
		return State{Kind: Deleted, Reason: reason, At: at}
	case !isAvailable:
		return State{Kind: Unavailable}
	default:
		return State{Kind: Active}
	}
}

func (s State) IsDeleted() bool     { return s.Kind == Deleted }
func (s State) IsServable() bool    { return s.Kind == Active }
func (s State) IsUnavailable() bool { return s.Kind == Unavailable }
