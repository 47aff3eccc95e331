package model

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// Requirement is a closed set of variants: StudyStreak, CourseCompletion,
// QuizMaster and Social.
type Requirement interface {
	Type() AchievementType
	requirement()
}

type StudyStreak struct {
	Days int
}

type CourseCompletion struct {
	Count int
}

type QuizMaster struct {
	Score float64
}

type SocialAction string

const (
	SocialFollowers SocialAction = "FOLLOWERS"
	SocialFollowing SocialAction = "FOLLOWING"
	SocialComments  SocialAction = "COMMENTS"
	SocialLikes     SocialAction = "LIKES"
)

func (a SocialAction) Valid() bool {
	switch a {
	case SocialFollowers, SocialFollowing, SocialComments, SocialLikes:
		return true
	}
	return false
}

type Social struct {
	Action SocialAction
	Count  int
}

func (StudyStreak) Type() AchievementType      { return AchievementStudyStreak }
func (CourseCompletion) Type() AchievementType { return AchievementCourseCompletion }
func (QuizMaster) Type() AchievementType       { return AchievementQuizMaster }
func (Social) Type() AchievementType           { return AchievementSocial }

func (StudyStreak) requirement()      {}
func (CourseCompletion) requirement() {}
func (QuizMaster) requirement()       {}
func (Social) requirement()           {}

// RequirementError reports a stored requirement payload that does not
// match the schema of its achievement type.
type RequirementError struct {
	Type   AchievementType
	Field  string
	Reason string
}

func (e *RequirementError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("requirement %s: %s", e.Type, e.Reason)
	}
	return fmt.Sprintf("requirement %s: %s: %s", e.Type, e.Field, e.Reason)
}

type streakPayload struct {
	Days *int `json:"days"`
}

type countPayload struct {
	Count *int `json:"count"`
}

type scorePayload struct {
	Score *float64 `json:"score"`
}

type socialPayload struct {
	Action *SocialAction `json:"action"`
	Count  *int          `json:"count"`
}

// ParseRequirement strictly decodes a stored payload. Missing fields,
// unknown fields and out-of-range values are errors; nothing defaults.
func ParseRequirement(t AchievementType, data []byte) (Requirement, error) {
	switch t {
	case AchievementStudyStreak:
		var p streakPayload
		if err := decodeStrict(t, data, &p); err != nil {
			return nil, err
		}
		if p.Days == nil {
			return nil, &RequirementError{Type: t, Field: "days", Reason: "is required"}
		}
		if *p.Days < 1 {
			return nil, &RequirementError{Type: t, Field: "days", Reason: "must be at least 1"}
		}
		return StudyStreak{Days: *p.Days}, nil

	case AchievementCourseCompletion:
		var p countPayload
		if err := decodeStrict(t, data, &p); err != nil {
			return nil, err
		}
		if p.Count == nil {
			return nil, &RequirementError{Type: t, Field: "count", Reason: "is required"}
		}
		if *p.Count < 0 {
			return nil, &RequirementError{Type: t, Field: "count", Reason: "must not be negative"}
		}
		return CourseCompletion{Count: *p.Count}, nil

	case AchievementQuizMaster:
		var p scorePayload
		if err := decodeStrict(t, data, &p); err != nil {
			return nil, err
		}
		if p.Score == nil {
			return nil, &RequirementError{Type: t, Field: "score", Reason: "is required"}
		}
		if *p.Score < 0 {
			return nil, &RequirementError{Type: t, Field: "score", Reason: "must not be negative"}
		}
		return QuizMaster{Score: *p.Score}, nil

	case AchievementSocial:
		var p socialPayload
		if err := decodeStrict(t, data, &p); err != nil {
			return nil, err
		}
		if p.Action == nil {
			return nil, &RequirementError{Type: t, Field: "action", Reason: "is required"}
		}
		if !p.Action.Valid() {
			return nil, &RequirementError{Type: t, Field: "action", Reason: fmt.Sprintf("unknown action %q", *p.Action)}
		}
		if p.Count == nil {
			return nil, &RequirementError{Type: t, Field: "count", Reason: "is required"}
		}
		if *p.Count < 0 {
			return nil, &RequirementError{Type: t, Field: "count", Reason: "must not be negative"}
		}
		return Social{Action: *p.Action, Count: *p.Count}, nil
	}

	return nil, &RequirementError{Type: t, Reason: "unknown achievement type"}
}

// MarshalRequirement encodes r into the stored payload shape.
func MarshalRequirement(r Requirement) ([]byte, error) {
	switch r := r.(type) {
	case StudyStreak:
		return json.Marshal(map[string]any{"days": r.Days})
	case CourseCompletion:
		return json.Marshal(map[string]any{"count": r.Count})
	case QuizMaster:
		return json.Marshal(map[string]any{"score": r.Score})
	case Social:
		return json.Marshal(map[string]any{"action": r.Action, "count": r.Count})
	}
	return nil, fmt.Errorf("unsupported requirement %T", r)
}

func decodeStrict(t AchievementType, data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return &RequirementError{Type: t, Reason: "payload is empty"}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &RequirementError{Type: t, Reason: fmt.Sprintf("malformed payload: %v", err)}
	}
	return nil
}
