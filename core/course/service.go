package course

import (
	"context"
	"time"

	"github.com/darasahq/darasa/core"
)

var (
	// errors
	ErrNotFound           = core.NewNotFoundError("Course not found")
	ErrLessonNotFound     = core.NewNotFoundError("Lesson not found")
	ErrAssignmentNotFound = core.NewNotFoundError("Assignment not found")
)

type (
	CourseRepository interface {
		CreateCourse(ctx context.Context, crs Course) (Course, error)
		// GetCourseByID embeds the teacher summary and lesson/assignment/enrollment counts.
		GetCourseByID(ctx context.Context, id string) (Course, error)
		FilterCourses(ctx context.Context, filter QueryFilter, limit, offset int) ([]Course, int, error)
		UpdateCourse(ctx context.Context, crs Course) (Course, error)
		DeleteCourse(ctx context.Context, id string) error
		CountCourses(ctx context.Context, status string) (int, error)
		TopCoursesByEnrollment(ctx context.Context, limit int) ([]TopCourse, error)
	}

	LessonRepository interface {
		CreateLesson(ctx context.Context, lsn Lesson) (Lesson, error)
		GetLessonByID(ctx context.Context, id string) (Lesson, error)
		// QueryLessonsByCourse returns the course's lessons ordered by Lesson.Order.
		QueryLessonsByCourse(ctx context.Context, courseID string) ([]Lesson, error)
		UpdateLesson(ctx context.Context, lsn Lesson) (Lesson, error)
		DeleteLesson(ctx context.Context, id string) error
	}

	AssignmentRepository interface {
		CreateAssignment(ctx context.Context, asg Assignment) (Assignment, error)
		GetAssignmentByID(ctx context.Context, id string) (Assignment, error)
		// QueryAssignmentsByCourse returns the course's assignments ordered by DueDate.
		QueryAssignmentsByCourse(ctx context.Context, courseID string) ([]Assignment, error)
		UpdateAssignment(ctx context.Context, asg Assignment) (Assignment, error)
		DeleteAssignment(ctx context.Context, id string) error
		CountAssignments(ctx context.Context) (int, error)
	}

	Service interface {
		Create(ctx context.Context, nc NewCourse) (Course, error)
		GetByID(ctx context.Context, id string) (Course, error)
		Filter(ctx context.Context, filter QueryFilter, limit, offset int) ([]Course, int, error)
		Update(ctx context.Context, id string, uc UpdateCourse) (Course, error)
		Delete(ctx context.Context, id string) error
		Count(ctx context.Context, status string) (int, error)
		TopByEnrollment(ctx context.Context, limit int) ([]TopCourse, error)

		CreateLesson(ctx context.Context, nl NewLesson) (Lesson, error)
		GetLesson(ctx context.Context, id string) (Lesson, error)
		QueryLessons(ctx context.Context, courseID string) ([]Lesson, error)
		UpdateLesson(ctx context.Context, id string, ul UpdateLesson) (Lesson, error)
		DeleteLesson(ctx context.Context, id string) error

		CreateAssignment(ctx context.Context, na NewAssignment) (Assignment, error)
		GetAssignment(ctx context.Context, id string) (Assignment, error)
		QueryAssignments(ctx context.Context, courseID string) ([]Assignment, error)
		UpdateAssignment(ctx context.Context, id string, ua UpdateAssignment) (Assignment, error)
		DeleteAssignment(ctx context.Context, id string) error
		CountAssignments(ctx context.Context) (int, error)
	}

	service struct {
		courses     CourseRepository
		lessons     LessonRepository
		assignments AssignmentRepository
	}
)

var _ Service = (*service)(nil)

func NewService(courses CourseRepository, lessons LessonRepository, assignments AssignmentRepository) *service {
	return &service{courses: courses, lessons: lessons, assignments: assignments}
}

func (svc *service) Create(ctx context.Context, nc NewCourse) (Course, error) {
	now := time.Now().UTC()
	crs := Course{
		Title:       nc.Title,
		Description: nc.Description,
		TeacherID:   nc.TeacherID,
		Status:      nc.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.courses.CreateCourse(ctx, crs)
}

func (svc *service) GetByID(ctx context.Context, id string) (Course, error) {
	return svc.courses.GetCourseByID(ctx, id)
}

func (svc *service) Filter(ctx context.Context, filter QueryFilter, limit, offset int) ([]Course, int, error) {
	return svc.courses.FilterCourses(ctx, filter, limit, offset)
}

func (svc *service) Update(ctx context.Context, id string, uc UpdateCourse) (Course, error) {
	crs, err := svc.courses.GetCourseByID(ctx, id)
	if err != nil {
		return Course{}, err
	}

	if uc.Title != "" {
		crs.Title = uc.Title
	}
	if uc.Description != "" {
		crs.Description = uc.Description
	}
	if uc.TeacherID != "" {
		crs.TeacherID = uc.TeacherID
	}
	if uc.Status != "" {
		crs.Status = uc.Status
	}
	crs.UpdatedAt = time.Now().UTC()

	return svc.courses.UpdateCourse(ctx, crs)
}

func (svc *service) Delete(ctx context.Context, id string) error {
	return svc.courses.DeleteCourse(ctx, id)
}

func (svc *service) Count(ctx context.Context, status string) (int, error) {
	return svc.courses.CountCourses(ctx, status)
}

func (svc *service) TopByEnrollment(ctx context.Context, limit int) ([]TopCourse, error) {
	return svc.courses.TopCoursesByEnrollment(ctx, limit)
}

// Lessons

func (svc *service) CreateLesson(ctx context.Context, nl NewLesson) (Lesson, error) {
	now := time.Now().UTC()
	lsn := Lesson{
		Title:     nl.Title,
		Content:   nl.Content,
		Order:     nl.Order,
		CourseID:  nl.CourseID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.lessons.CreateLesson(ctx, lsn)
}

func (svc *service) GetLesson(ctx context.Context, id string) (Lesson, error) {
	return svc.lessons.GetLessonByID(ctx, id)
}

func (svc *service) QueryLessons(ctx context.Context, courseID string) ([]Lesson, error) {
	return svc.lessons.QueryLessonsByCourse(ctx, courseID)
}

func (svc *service) UpdateLesson(ctx context.Context, id string, ul UpdateLesson) (Lesson, error) {
	lsn, err := svc.lessons.GetLessonByID(ctx, id)
	if err != nil {
		return Lesson{}, err
	}

	if ul.Title != "" {
		lsn.Title = ul.Title
	}
	if ul.Content != "" {
		lsn.Content = ul.Content
	}
	if ul.Order != nil {
		lsn.Order = *ul.Order
	}
	lsn.UpdatedAt = time.Now().UTC()

	return svc.lessons.UpdateLesson(ctx, lsn)
}

func (svc *service) DeleteLesson(ctx context.Context, id string) error {
	return svc.lessons.DeleteLesson(ctx, id)
}

// Assignments

func (svc *service) CreateAssignment(ctx context.Context, na NewAssignment) (Assignment, error) {
	now := time.Now().UTC()
	asg := Assignment{
		Title:       na.Title,
		Description: na.Description,
		DueDate:     na.DueDate.UTC(),
		MaxScore:    na.MaxScore,
		CourseID:    na.CourseID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.assignments.CreateAssignment(ctx, asg)
}

func (svc *service) GetAssignment(ctx context.Context, id string) (Assignment, error) {
	return svc.assignments.GetAssignmentByID(ctx, id)
}

func (svc *service) QueryAssignments(ctx context.Context, courseID string) ([]Assignment, error) {
	return svc.assignments.QueryAssignmentsByCourse(ctx, courseID)
}

func (svc *service) UpdateAssignment(ctx context.Context, id string, ua UpdateAssignment) (Assignment, error) {
	asg, err := svc.assignments.GetAssignmentByID(ctx, id)
	if err != nil {
		return Assignment{}, err
	}

	if ua.Title != "" {
		asg.Title = ua.Title
	}
	if ua.Description != "" {
		asg.Description = ua.Description
	}
	if ua.DueDate != nil {
		asg.DueDate = ua.DueDate.UTC()
	}
	if ua.MaxScore != nil {
		asg.MaxScore = *ua.MaxScore
	}
	asg.UpdatedAt = time.Now().UTC()

	return svc.assignments.UpdateAssignment(ctx, asg)
}

func (svc *service) DeleteAssignment(ctx context.Context, id string) error {
	return svc.assignments.DeleteAssignment(ctx, id)
}

func (svc *service) CountAssignments(ctx context.Context) (int, error) {
	return svc.assignments.CountAssignments(ctx)
}
