package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/grade"
)

type gradeRow struct {
	ID           string         `db:"id"`
	UserID       string         `db:"user_id"`
	AssignmentID sql.NullString `db:"assignment_id"`
	QuizID       sql.NullString `db:"quiz_id"`
	Score        float64        `db:"score"`
	MaxScore     float64        `db:"max_score"`
	Feedback     string         `db:"feedback"`
	GradedAt     time.Time      `db:"graded_at"`

	AssignmentTitle sql.NullString `db:"assignment_title"`
	QuizTitle       sql.NullString `db:"quiz_title"`
	CourseTitle     sql.NullString `db:"course_title"`
}

func (r gradeRow) toGrade() grade.Grade {
	grd := grade.Grade{
		ID:              r.ID,
		UserID:          r.UserID,
		Score:           r.Score,
		MaxScore:        r.MaxScore,
		Feedback:        r.Feedback,
		GradedAt:        r.GradedAt,
		AssignmentTitle: r.AssignmentTitle.String,
		QuizTitle:       r.QuizTitle.String,
		CourseTitle:     r.CourseTitle.String,
	}
	if r.AssignmentID.Valid {
		id := r.AssignmentID.String
		grd.AssignmentID = &id
	}
	if r.QuizID.Valid {
		id := r.QuizID.String
		grd.QuizID = &id
	}
	return grd
}

type gradeRepository struct {
	db *sqlx.DB
}

var _ grade.Repository = (*gradeRepository)(nil)

func NewGradeRepository(db *sqlx.DB) *gradeRepository {
	return &gradeRepository{db: db}
}

func (repo *gradeRepository) CreateGrade(ctx context.Context, grd grade.Grade) (grade.Grade, error) {
	grd.ID = uuid.New().String()

	query := `
		INSERT INTO grade (id, user_id, assignment_id, quiz_id, score, max_score, feedback, graded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := repo.db.ExecContext(ctx, query,
		grd.ID, grd.UserID, grd.AssignmentID, grd.QuizID, grd.Score, grd.MaxScore, grd.Feedback, grd.GradedAt)
	if err != nil {
		return grade.Grade{}, errors.Wrap(err, "creating grade")
	}
	return grd, nil
}

func (repo *gradeRepository) QueryGradesByUser(ctx context.Context, userID string) ([]grade.Grade, error) {
	query := `
		SELECT g.id, g.user_id, g.assignment_id, g.quiz_id, g.score, g.max_score, g.feedback, g.graded_at,
			a.title AS assignment_title, q.title AS quiz_title,
			COALESCE(ca.title, cq.title) AS course_title
		FROM grade g
		LEFT JOIN assignment a ON a.id = g.assignment_id
		LEFT JOIN quiz q ON q.id = g.quiz_id
		LEFT JOIN course ca ON ca.id = a.course_id
		LEFT JOIN course cq ON cq.id = q.course_id
		WHERE g.user_id = $1
		ORDER BY g.graded_at DESC`

	var rows []gradeRow
	if err := repo.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, errors.Wrap(err, "querying grades")
	}

	grades := make([]grade.Grade, 0, len(rows))
	for _, row := range rows {
		grades = append(grades, row.toGrade())
	}
	return grades, nil
}
