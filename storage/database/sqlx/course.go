package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/course"
)

const courseColumns = `
	c.id, c.title, c.description, c.teacher_id, c.status, c.created_at, c.updated_at,
	t.name AS teacher_name, t.email AS teacher_email,
	(SELECT COUNT(*) FROM lesson l WHERE l.course_id = c.id) AS lesson_count,
	(SELECT COUNT(*) FROM assignment a WHERE a.course_id = c.id) AS assignment_count,
	(SELECT COUNT(*) FROM enrollment e WHERE e.course_id = c.id) AS enrollment_count`

type courseRow struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	TeacherID   string    `db:"teacher_id"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`

	TeacherName     string `db:"teacher_name"`
	TeacherEmail    string `db:"teacher_email"`
	LessonCount     int    `db:"lesson_count"`
	AssignmentCount int    `db:"assignment_count"`
	EnrollmentCount int    `db:"enrollment_count"`
}

func (r courseRow) toCourse() course.Course {
	return course.Course{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		TeacherID:   r.TeacherID,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Teacher: &course.TeacherInfo{
			ID:    r.TeacherID,
			Name:  r.TeacherName,
			Email: r.TeacherEmail,
		},
		LessonCount:     r.LessonCount,
		AssignmentCount: r.AssignmentCount,
		EnrollmentCount: r.EnrollmentCount,
	}
}

type courseRepository struct {
	db *sqlx.DB
}

var _ course.CourseRepository = (*courseRepository)(nil)

func NewCourseRepository(db *sqlx.DB) *courseRepository {
	return &courseRepository{db: db}
}

func (repo *courseRepository) CreateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	crs.ID = uuid.New().String()

	query := `
		INSERT INTO course (id, title, description, teacher_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := repo.db.ExecContext(ctx, query,
		crs.ID, crs.Title, crs.Description, crs.TeacherID, crs.Status, crs.CreatedAt, crs.UpdatedAt)
	if err != nil {
		return course.Course{}, errors.Wrap(err, "creating course")
	}
	return repo.GetCourseByID(ctx, crs.ID)
}

func (repo *courseRepository) GetCourseByID(ctx context.Context, id string) (course.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM course c JOIN "user" t ON t.id = c.teacher_id WHERE c.id = $1`

	var row courseRow
	if err := repo.db.GetContext(ctx, &row, query, id); err != nil {
		return course.Course{}, trapLookupErr(err, course.ErrNotFound, "getting course")
	}
	return row.toCourse(), nil
}

func (repo *courseRepository) FilterCourses(ctx context.Context, filter course.QueryFilter, limit, offset int) ([]course.Course, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		where += ` AND (c.title ILIKE ? OR c.description ILIKE ?)`
		args = append(args, pattern, pattern)
	}
	if filter.Status != "" {
		where += ` AND c.status = ?`
		args = append(args, filter.Status)
	}
	if filter.TeacherID != "" {
		where += ` AND c.teacher_id = ?`
		args = append(args, filter.TeacherID)
	}

	var total int
	countQuery := repo.db.Rebind(`SELECT COUNT(*) FROM course c` + where)
	if err := repo.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting courses")
	}

	query := repo.db.Rebind(`SELECT ` + courseColumns +
		` FROM course c JOIN "user" t ON t.id = c.teacher_id` + where +
		` ORDER BY c.created_at DESC LIMIT ? OFFSET ?`)
	args = append(args, limit, offset)

	var rows []courseRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, errors.Wrap(err, "filtering courses")
	}

	courses := make([]course.Course, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, row.toCourse())
	}
	return courses, total, nil
}

func (repo *courseRepository) UpdateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	query := `
		UPDATE course SET title = $2, description = $3, teacher_id = $4, status = $5, updated_at = $6
		WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query,
		crs.ID, crs.Title, crs.Description, crs.TeacherID, crs.Status, crs.UpdatedAt)
	if err != nil {
		return course.Course{}, errors.Wrap(err, "updating course")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return course.Course{}, course.ErrNotFound
	}
	return repo.GetCourseByID(ctx, crs.ID)
}

func (repo *courseRepository) DeleteCourse(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM course WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting course")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return course.ErrNotFound
	}
	return nil
}

func (repo *courseRepository) CountCourses(ctx context.Context, status string) (int, error) {
	query := `SELECT COUNT(*) FROM course`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}

	var count int
	if err := repo.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, errors.Wrap(err, "counting courses")
	}
	return count, nil
}

func (repo *courseRepository) TopCoursesByEnrollment(ctx context.Context, limit int) ([]course.TopCourse, error) {
	query := `
		SELECT c.id, c.title, t.name AS teacher, COUNT(e.id) AS enrollments, c.status
		FROM course c
		JOIN "user" t ON t.id = c.teacher_id
		LEFT JOIN enrollment e ON e.course_id = c.id
		GROUP BY c.id, c.title, t.name, c.status
		ORDER BY enrollments DESC, c.title
		LIMIT $1`

	var top []course.TopCourse
	if err := repo.db.SelectContext(ctx, &top, query, limit); err != nil {
		return nil, errors.Wrap(err, "querying top courses")
	}
	return top, nil
}

// Lessons

type lessonRepository struct {
	db *sqlx.DB
}

var _ course.LessonRepository = (*lessonRepository)(nil)

func NewLessonRepository(db *sqlx.DB) *lessonRepository {
	return &lessonRepository{db: db}
}

type lessonRow struct {
	ID        string    `db:"id"`
	Title     string    `db:"title"`
	Content   string    `db:"content"`
	Order     int       `db:"order"`
	CourseID  string    `db:"course_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r lessonRow) toLesson() course.Lesson {
	return course.Lesson(r)
}

const lessonColumns = `id, title, content, "order", course_id, created_at, updated_at`

func (repo *lessonRepository) CreateLesson(ctx context.Context, lsn course.Lesson) (course.Lesson, error) {
	lsn.ID = uuid.New().String()

	query := `
		INSERT INTO lesson (` + lessonColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := repo.db.ExecContext(ctx, query,
		lsn.ID, lsn.Title, lsn.Content, lsn.Order, lsn.CourseID, lsn.CreatedAt, lsn.UpdatedAt)
	if err != nil {
		return course.Lesson{}, errors.Wrap(err, "creating lesson")
	}
	return lsn, nil
}

func (repo *lessonRepository) GetLessonByID(ctx context.Context, id string) (course.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lesson WHERE id = $1`

	var row lessonRow
	if err := repo.db.GetContext(ctx, &row, query, id); err != nil {
		return course.Lesson{}, trapLookupErr(err, course.ErrLessonNotFound, "getting lesson")
	}
	return row.toLesson(), nil
}

func (repo *lessonRepository) QueryLessonsByCourse(ctx context.Context, courseID string) ([]course.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lesson WHERE course_id = $1 ORDER BY "order"`

	var rows []lessonRow
	if err := repo.db.SelectContext(ctx, &rows, query, courseID); err != nil {
		return nil, errors.Wrap(err, "querying lessons")
	}

	lessons := make([]course.Lesson, 0, len(rows))
	for _, row := range rows {
		lessons = append(lessons, row.toLesson())
	}
	return lessons, nil
}

func (repo *lessonRepository) UpdateLesson(ctx context.Context, lsn course.Lesson) (course.Lesson, error) {
	query := `
		UPDATE lesson SET title = $2, content = $3, "order" = $4, updated_at = $5
		WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, lsn.ID, lsn.Title, lsn.Content, lsn.Order, lsn.UpdatedAt)
	if err != nil {
		return course.Lesson{}, errors.Wrap(err, "updating lesson")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return course.Lesson{}, course.ErrLessonNotFound
	}
	return lsn, nil
}

func (repo *lessonRepository) DeleteLesson(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM lesson WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting lesson")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return course.ErrLessonNotFound
	}
	return nil
}

// Assignments

type assignmentRepository struct {
	db *sqlx.DB
}

var _ course.AssignmentRepository = (*assignmentRepository)(nil)

func NewAssignmentRepository(db *sqlx.DB) *assignmentRepository {
	return &assignmentRepository{db: db}
}

type assignmentRow struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	DueDate     time.Time `db:"due_date"`
	MaxScore    int       `db:"max_score"`
	CourseID    string    `db:"course_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r assignmentRow) toAssignment() course.Assignment {
	return course.Assignment(r)
}

const assignmentColumns = `id, title, description, due_date, max_score, course_id, created_at, updated_at`

func (repo *assignmentRepository) CreateAssignment(ctx context.Context, asg course.Assignment) (course.Assignment, error) {
	asg.ID = uuid.New().String()

	query := `
		INSERT INTO assignment (` + assignmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := repo.db.ExecContext(ctx, query,
		asg.ID, asg.Title, asg.Description, asg.DueDate, asg.MaxScore, asg.CourseID, asg.CreatedAt, asg.UpdatedAt)
	if err != nil {
		return course.Assignment{}, errors.Wrap(err, "creating assignment")
	}
	return asg, nil
}

func (repo *assignmentRepository) GetAssignmentByID(ctx context.Context, id string) (course.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignment WHERE id = $1`

	var row assignmentRow
	if err := repo.db.GetContext(ctx, &row, query, id); err != nil {
		return course.Assignment{}, trapLookupErr(err, course.ErrAssignmentNotFound, "getting assignment")
	}
	return row.toAssignment(), nil
}

func (repo *assignmentRepository) QueryAssignmentsByCourse(ctx context.Context, courseID string) ([]course.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignment WHERE course_id = $1 ORDER BY due_date`

	var rows []assignmentRow
	if err := repo.db.SelectContext(ctx, &rows, query, courseID); err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}

	assignments := make([]course.Assignment, 0, len(rows))
	for _, row := range rows {
		assignments = append(assignments, row.toAssignment())
	}
	return assignments, nil
}

func (repo *assignmentRepository) UpdateAssignment(ctx context.Context, asg course.Assignment) (course.Assignment, error) {
	query := `
		UPDATE assignment SET title = $2, description = $3, due_date = $4, max_score = $5, updated_at = $6
		WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query,
		asg.ID, asg.Title, asg.Description, asg.DueDate, asg.MaxScore, asg.UpdatedAt)
	if err != nil {
		return course.Assignment{}, errors.Wrap(err, "updating assignment")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return course.Assignment{}, course.ErrAssignmentNotFound
	}
	return asg, nil
}

func (repo *assignmentRepository) DeleteAssignment(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM assignment WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return course.ErrAssignmentNotFound
	}
	return nil
}

func (repo *assignmentRepository) CountAssignments(ctx context.Context) (int, error) {
	var count int
	if err := repo.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM assignment`); err != nil {
		return 0, errors.Wrap(err, "counting assignments")
	}
	return count, nil
}
