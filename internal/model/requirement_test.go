package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequirement(t *testing.T) {
	tests := []struct {
		name     string
		typ      AchievementType
		data     string
		expected Requirement
		field    string
	}{
		{
			name:     "Study streak",
			typ:      AchievementStudyStreak,
			data:     `{"days": 7}`,
			expected: StudyStreak{Days: 7},
		},
		{
			name:     "Course completion",
			typ:      AchievementCourseCompletion,
			data:     `{"count": 3}`,
			expected: CourseCompletion{Count: 3},
		},
		{
			name:     "Quiz master",
			typ:      AchievementQuizMaster,
			data:     `{"score": 92.5}`,
			expected: QuizMaster{Score: 92.5},
		},
		{
			name:     "Social",
			typ:      AchievementSocial,
			data:     `{"action": "LIKES", "count": 50}`,
			expected: Social{Action: SocialLikes, Count: 50},
		},
		{
			name:     "Zero count is allowed",
			typ:      AchievementCourseCompletion,
			data:     `{"count": 0}`,
			expected: CourseCompletion{Count: 0},
		},
		{
			name:  "Empty payload",
			typ:   AchievementStudyStreak,
			data:  ``,
			field: "",
		},
		{
			name:  "Missing days does not default to zero",
			typ:   AchievementStudyStreak,
			data:  `{}`,
			field: "days",
		},
		{
			name:  "Zero days",
			typ:   AchievementStudyStreak,
			data:  `{"days": 0}`,
			field: "days",
		},
		{
			name:  "Malformed JSON",
			typ:   AchievementStudyStreak,
			data:  `{"days": `,
			field: "",
		},
		{
			name:  "Wrong field type",
			typ:   AchievementCourseCompletion,
			data:  `{"count": "three"}`,
			field: "",
		},
		{
			name:  "Unknown field",
			typ:   AchievementQuizMaster,
			data:  `{"score": 80, "bonus": 1}`,
			field: "",
		},
		{
			name:  "Negative score",
			typ:   AchievementQuizMaster,
			data:  `{"score": -1}`,
			field: "score",
		},
		{
			name:  "Unknown social action",
			typ:   AchievementSocial,
			data:  `{"action": "SHARES", "count": 1}`,
			field: "action",
		},
		{
			name:  "Social without count",
			typ:   AchievementSocial,
			data:  `{"action": "FOLLOWERS"}`,
			field: "count",
		},
		{
			name:  "Unknown type",
			typ:   AchievementType("DAILY_LOGIN"),
			data:  `{"days": 1}`,
			field: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseRequirement(tt.typ, []byte(tt.data))

			if tt.expected != nil {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, req)
				assert.Equal(t, tt.typ, req.Type())
				return
			}

			require.Error(t, err)
			assert.Nil(t, req)

			var reqErr *RequirementError
			require.True(t, errors.As(err, &reqErr))
			assert.Equal(t, tt.field, reqErr.Field)
		})
	}
}

func TestMarshalRequirement_ParsesBack(t *testing.T) {
	reqs := []Requirement{
		StudyStreak{Days: 30},
		CourseCompletion{Count: 5},
		QuizMaster{Score: 75},
		Social{Action: SocialFollowers, Count: 100},
	}

	for _, r := range reqs {
		data, err := MarshalRequirement(r)
		require.NoError(t, err)

		parsed, err := ParseRequirement(r.Type(), data)
		require.NoError(t, err)
		assert.Equal(t, r, parsed)
	}
}

func TestAchievement_Requirement(t *testing.T) {
	a := &Achievement{Type: AchievementStudyStreak, RequirementData: []byte(`{"days":3}`)}

	req, err := a.Requirement()
	require.NoError(t, err)
	assert.Equal(t, StudyStreak{Days: 3}, req)
}
