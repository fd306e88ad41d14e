package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/darasahq/darasa/core/grade"
)

type gradeRepository struct {
	db *DB
}

var _ grade.Repository = (*gradeRepository)(nil)

func NewGradeRepository(db *DB) *gradeRepository {
	return &gradeRepository{db: db}
}

func (repo *gradeRepository) CreateGrade(ctx context.Context, grd grade.Grade) (grade.Grade, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	grd.ID = uuid.New().String()
	repo.db.grades[grd.ID] = &grd
	return grd, nil
}

func (repo *gradeRepository) QueryGradesByUser(ctx context.Context, userID string) ([]grade.Grade, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	grades := make([]grade.Grade, 0)
	for _, grd := range repo.db.grades {
		if grd.UserID != userID {
			continue
		}
		resolved := *grd
		// resolve titles when the grade points at a stored assignment
		if grd.AssignmentID != nil {
			if asg, ok := repo.db.assignments[*grd.AssignmentID]; ok {
				resolved.AssignmentTitle = asg.Title
				if crs, ok := repo.db.courses[asg.CourseID]; ok {
					resolved.CourseTitle = crs.Title
				}
			}
		}
		grades = append(grades, resolved)
	}
	sort.Slice(grades, func(i, j int) bool { return grades[i].GradedAt.After(grades[j].GradedAt) })
	return grades, nil
}
