package grade

import (
	"context"
	"math"
)

type (
	Repository interface {
		CreateGrade(ctx context.Context, grd Grade) (Grade, error)
		// QueryGradesByUser returns the student's grades with assignment, quiz
		// and course titles resolved, newest first.
		QueryGradesByUser(ctx context.Context, userID string) ([]Grade, error)
	}

	Service interface {
		// QueryForUser returns the student's grades along with summary stats.
		QueryForUser(ctx context.Context, userID string) ([]Grade, Stats, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) *service {
	return &service{repo: repo}
}

func (svc *service) QueryForUser(ctx context.Context, userID string) ([]Grade, Stats, error) {
	grades, err := svc.repo.QueryGradesByUser(ctx, userID)
	if err != nil {
		return nil, Stats{}, err
	}

	stats := Stats{TotalGrades: len(grades)}
	var pctSum float64
	for _, grd := range grades {
		if grd.MaxScore > 0 {
			pctSum += grd.Score / grd.MaxScore * 100
		}
		if grd.AssignmentID != nil {
			stats.AssignmentGrades++
		}
		if grd.QuizID != nil {
			stats.QuizGrades++
		}
	}
	if stats.TotalGrades > 0 {
		stats.AveragePercentage = math.Round(pctSum/float64(stats.TotalGrades)*100) / 100
	}
	return grades, stats, nil
}
