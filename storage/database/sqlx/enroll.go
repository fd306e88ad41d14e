package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/course"
	"github.com/darasahq/darasa/core/enroll"
)

const pqUniqueViolation = "23505"

type enrollmentRow struct {
	ID         string    `db:"id"`
	UserID     string    `db:"user_id"`
	CourseID   string    `db:"course_id"`
	Status     string    `db:"status"`
	EnrolledAt time.Time `db:"enrolled_at"`

	CourseTitle       string `db:"course_title"`
	CourseDescription string `db:"course_description"`
	CourseStatus      string `db:"course_status"`
	TeacherID         string `db:"teacher_id"`
	TeacherName       string `db:"teacher_name"`
	TeacherEmail      string `db:"teacher_email"`
}

func (r enrollmentRow) toEnrollment() enroll.Enrollment {
	return enroll.Enrollment{
		ID:         r.ID,
		UserID:     r.UserID,
		CourseID:   r.CourseID,
		Status:     r.Status,
		EnrolledAt: r.EnrolledAt,
		Course: &course.Course{
			ID:          r.CourseID,
			Title:       r.CourseTitle,
			Description: r.CourseDescription,
			TeacherID:   r.TeacherID,
			Status:      r.CourseStatus,
			Teacher: &course.TeacherInfo{
				ID:    r.TeacherID,
				Name:  r.TeacherName,
				Email: r.TeacherEmail,
			},
		},
	}
}

type enrollmentRepository struct {
	db *sqlx.DB
}

var _ enroll.Repository = (*enrollmentRepository)(nil)

func NewEnrollmentRepository(db *sqlx.DB) *enrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (repo *enrollmentRepository) CreateEnrollment(ctx context.Context, enr enroll.Enrollment) (enroll.Enrollment, error) {
	enr.ID = uuid.New().String()

	query := `
		INSERT INTO enrollment (id, user_id, course_id, status, enrolled_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := repo.db.ExecContext(ctx, query, enr.ID, enr.UserID, enr.CourseID, enr.Status, enr.EnrolledAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == pqUniqueViolation {
			return enroll.Enrollment{}, enroll.ErrAlreadyEnrolled
		}
		return enroll.Enrollment{}, errors.Wrap(err, "creating enrollment")
	}
	return enr, nil
}

func (repo *enrollmentRepository) GetEnrollment(ctx context.Context, userID, courseID string) (enroll.Enrollment, error) {
	query := `
		SELECT id, user_id, course_id, status, enrolled_at
		FROM enrollment WHERE user_id = $1 AND course_id = $2`

	var row enrollmentRow
	if err := repo.db.GetContext(ctx, &row, query, userID, courseID); err != nil {
		if err == sql.ErrNoRows {
			return enroll.Enrollment{}, enroll.ErrNotFound
		}
		return enroll.Enrollment{}, errors.Wrap(err, "getting enrollment")
	}
	return enroll.Enrollment{
		ID:         row.ID,
		UserID:     row.UserID,
		CourseID:   row.CourseID,
		Status:     row.Status,
		EnrolledAt: row.EnrolledAt,
	}, nil
}

func (repo *enrollmentRepository) QueryEnrollmentsByUser(ctx context.Context, userID string) ([]enroll.Enrollment, error) {
	query := `
		SELECT e.id, e.user_id, e.course_id, e.status, e.enrolled_at,
			c.title AS course_title, c.description AS course_description, c.status AS course_status,
			c.teacher_id, t.name AS teacher_name, t.email AS teacher_email
		FROM enrollment e
		JOIN course c ON c.id = e.course_id
		JOIN "user" t ON t.id = c.teacher_id
		WHERE e.user_id = $1
		ORDER BY e.enrolled_at DESC`

	var rows []enrollmentRow
	if err := repo.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, errors.Wrap(err, "querying enrollments")
	}

	enrollments := make([]enroll.Enrollment, 0, len(rows))
	for _, row := range rows {
		enrollments = append(enrollments, row.toEnrollment())
	}
	return enrollments, nil
}

func (repo *enrollmentRepository) CountEnrollments(ctx context.Context, status string) (int, error) {
	query := `SELECT COUNT(*) FROM enrollment`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}

	var count int
	if err := repo.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, errors.Wrap(err, "counting enrollments")
	}
	return count, nil
}

func (repo *enrollmentRepository) CountEnrollmentsSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM enrollment WHERE enrolled_at >= $1`
	if err := repo.db.GetContext(ctx, &count, query, since); err != nil {
		return 0, errors.Wrap(err, "counting enrollments")
	}
	return count, nil
}

func (repo *enrollmentRepository) EnrollmentTrend(ctx context.Context, since time.Time) ([]core.TrendPoint, error) {
	query := `
		SELECT to_char(enrolled_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS date, COUNT(*) AS count
		FROM enrollment
		WHERE enrolled_at >= $1
		GROUP BY 1
		ORDER BY 1`

	var points []core.TrendPoint
	if err := repo.db.SelectContext(ctx, &points, query, since); err != nil {
		return nil, errors.Wrap(err, "querying enrollment trend")
	}
	return points, nil
}

func (repo *enrollmentRepository) RecentEnrollments(ctx context.Context, limit int) ([]enroll.RecentEnrollment, error) {
	query := `
		SELECT e.id, u.name AS student, c.title AS course, e.enrolled_at
		FROM enrollment e
		JOIN "user" u ON u.id = e.user_id
		JOIN course c ON c.id = e.course_id
		ORDER BY e.enrolled_at DESC
		LIMIT $1`

	var rows []struct {
		ID         string    `db:"id"`
		Student    string    `db:"student"`
		Course     string    `db:"course"`
		EnrolledAt time.Time `db:"enrolled_at"`
	}
	if err := repo.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, errors.Wrap(err, "querying recent enrollments")
	}

	recent := make([]enroll.RecentEnrollment, 0, len(rows))
	for _, row := range rows {
		recent = append(recent, enroll.RecentEnrollment(row))
	}
	return recent, nil
}

// Notifications

type notificationRepository struct {
	db *sqlx.DB
}

var _ enroll.NotificationRepository = (*notificationRepository)(nil)

func NewNotificationRepository(db *sqlx.DB) *notificationRepository {
	return &notificationRepository{db: db}
}

func (repo *notificationRepository) CreateNotification(ctx context.Context, ntf enroll.Notification) (enroll.Notification, error) {
	ntf.ID = uuid.New().String()

	query := `
		INSERT INTO notification (id, user_id, title, message, type, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := repo.db.ExecContext(ctx, query,
		ntf.ID, ntf.UserID, ntf.Title, ntf.Message, ntf.Type, ntf.Read, ntf.CreatedAt)
	if err != nil {
		return enroll.Notification{}, errors.Wrap(err, "creating notification")
	}
	return ntf, nil
}

func (repo *notificationRepository) QueryNotificationsByUser(ctx context.Context, userID string) ([]enroll.Notification, error) {
	query := `
		SELECT id, user_id, title, message, type, read, created_at
		FROM notification WHERE user_id = $1
		ORDER BY created_at DESC`

	var rows []struct {
		ID        string    `db:"id"`
		UserID    string    `db:"user_id"`
		Title     string    `db:"title"`
		Message   string    `db:"message"`
		Type      string    `db:"type"`
		Read      bool      `db:"read"`
		CreatedAt time.Time `db:"created_at"`
	}
	if err := repo.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, errors.Wrap(err, "querying notifications")
	}

	notifications := make([]enroll.Notification, 0, len(rows))
	for _, row := range rows {
		notifications = append(notifications, enroll.Notification(row))
	}
	return notifications, nil
}
