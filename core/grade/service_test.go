package grade

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type repoStub struct {
	grades []Grade
}

func (r repoStub) CreateGrade(ctx context.Context, grd Grade) (Grade, error) {
	return grd, nil
}

func (r repoStub) QueryGradesByUser(ctx context.Context, userID string) ([]Grade, error) {
	return r.grades, nil
}

func strPtr(s string) *string { return &s }

func Test_service_QueryForUser(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name      string
		grades    []Grade
		wantStats Stats
	}{
		{
			name:      "no grades",
			wantStats: Stats{},
		},
		{
			name: "mixed assignment and quiz grades",
			grades: []Grade{
				{AssignmentID: strPtr("a1"), Score: 40, MaxScore: 50, GradedAt: now},
				{QuizID: strPtr("q1"), Score: 45, MaxScore: 50, GradedAt: now},
			},
			wantStats: Stats{TotalGrades: 2, AveragePercentage: 85, AssignmentGrades: 1, QuizGrades: 1},
		},
		{
			name: "average rounds to two decimals",
			grades: []Grade{
				{AssignmentID: strPtr("a1"), Score: 1, MaxScore: 3, GradedAt: now},
			},
			wantStats: Stats{TotalGrades: 1, AveragePercentage: 33.33, AssignmentGrades: 1},
		},
		{
			name: "zero max score does not divide",
			grades: []Grade{
				{AssignmentID: strPtr("a1"), Score: 10, MaxScore: 0, GradedAt: now},
				{AssignmentID: strPtr("a2"), Score: 80, MaxScore: 100, GradedAt: now},
			},
			wantStats: Stats{TotalGrades: 2, AveragePercentage: 40, AssignmentGrades: 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(repoStub{grades: tt.grades})

			grades, stats, err := svc.QueryForUser(context.Background(), "lol")
			require.NoError(t, err)
			assert.Len(t, grades, len(tt.grades))
			assert.Equal(t, tt.wantStats, stats)
		})
	}
}
