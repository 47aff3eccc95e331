package model

import (
	"time"

	"github.com/google/uuid"
)

type StudyEventKind string

const (
	StudyEventSession StudyEventKind = "STUDY_SESSION"
)

type StudyEvent struct {
	EventID   uuid.UUID
	UserID    uuid.UUID
	Kind      StudyEventKind
	CreatedAt time.Time
}

// EventData accompanies a CheckAndGrant call. OccurredAt anchors the
// evaluation window; a zero value means "now".
type EventData struct {
	OccurredAt time.Time
}
