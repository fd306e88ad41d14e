package course

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/darasahq/darasa/core"
)

// Course statuses
const (
	StatusDraft     = "DRAFT"
	StatusPublished = "PUBLISHED"
	StatusArchived  = "ARCHIVED"
)

var AllStatuses = []string{StatusDraft, StatusPublished, StatusArchived}

type (
	// TeacherInfo is the owner summary embedded in course responses.
	TeacherInfo struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	Course struct {
		ID          string    `json:"id"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		TeacherID   string    `json:"teacherId"`
		Status      string    `json:"status"`
		CreatedAt   time.Time `json:"createdAt"` // UTC
		UpdatedAt   time.Time `json:"updatedAt"` // UTC

		Teacher         *TeacherInfo `json:"teacher,omitempty"`
		LessonCount     int          `json:"lessonCount"`
		AssignmentCount int          `json:"assignmentCount"`
		EnrollmentCount int          `json:"enrollmentCount"`
	}

	Lesson struct {
		ID        string    `json:"id"`
		Title     string    `json:"title"`
		Content   string    `json:"content"`
		Order     int       `json:"order"`
		CourseID  string    `json:"courseId"`
		CreatedAt time.Time `json:"createdAt"`
		UpdatedAt time.Time `json:"updatedAt"`
	}

	Assignment struct {
		ID          string    `json:"id"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		DueDate     time.Time `json:"dueDate"`
		MaxScore    int       `json:"maxScore"`
		CourseID    string    `json:"courseId"`
		CreatedAt   time.Time `json:"createdAt"`
		UpdatedAt   time.Time `json:"updatedAt"`
	}

	// TopCourse is a dashboard aggregate: a course ranked by enrollment count.
	TopCourse struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Teacher     string `json:"teacher"`
		Enrollments int    `json:"enrollments"`
		Status      string `json:"status"`
	}
)

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description" validate:"required,min=10"`
	TeacherID   string `json:"teacherId" validate:"required,uuid4"`
	Status      string `json:"status" validate:"omitempty,coursestatus"`
}

func (nc *NewCourse) Validate(validate *validator.Validate) error {
	nc.Title = core.CleanString(nc.Title)
	nc.Description = core.CleanString(nc.Description)
	if nc.Status == "" {
		nc.Status = StatusDraft
	}
	return validate.Struct(nc)
}

// UpdateCourse defines a partial course update; empty fields are left untouched.
type UpdateCourse struct {
	Title       string `json:"title" validate:"omitempty,min=3,max=200"`
	Description string `json:"description" validate:"omitempty,min=10"`
	TeacherID   string `json:"teacherId" validate:"omitempty,uuid4"`
	Status      string `json:"status" validate:"omitempty,coursestatus"`
}

func (uc *UpdateCourse) Validate(validate *validator.Validate) error {
	uc.Title = core.CleanString(uc.Title)
	uc.Description = core.CleanString(uc.Description)
	return validate.Struct(uc)
}

type NewLesson struct {
	Title    string `json:"title" validate:"required,min=3,max=200"`
	Content  string `json:"content" validate:"required,min=10"`
	Order    int    `json:"order" validate:"required,gt=0"`
	CourseID string `json:"courseId" validate:"required,uuid4"`
}

func (nl *NewLesson) Validate(validate *validator.Validate) error {
	nl.Title = core.CleanString(nl.Title)
	nl.Content = core.CleanString(nl.Content)
	return validate.Struct(nl)
}

type UpdateLesson struct {
	Title   string `json:"title" validate:"omitempty,min=3,max=200"`
	Content string `json:"content" validate:"omitempty,min=10"`
	Order   *int   `json:"order" validate:"omitempty,gt=0"`
}

func (ul *UpdateLesson) Validate(validate *validator.Validate) error {
	ul.Title = core.CleanString(ul.Title)
	ul.Content = core.CleanString(ul.Content)
	return validate.Struct(ul)
}

type NewAssignment struct {
	Title       string    `json:"title" validate:"required,min=3,max=200"`
	Description string    `json:"description" validate:"required,min=10"`
	DueDate     time.Time `json:"dueDate" validate:"required"`
	MaxScore    int       `json:"maxScore" validate:"omitempty,gte=1,lte=1000"`
	CourseID    string    `json:"courseId" validate:"required,uuid4"`
}

func (na *NewAssignment) Validate(validate *validator.Validate) error {
	na.Title = core.CleanString(na.Title)
	na.Description = core.CleanString(na.Description)
	if na.MaxScore == 0 {
		na.MaxScore = 100
	}
	return validate.Struct(na)
}

type UpdateAssignment struct {
	Title       string     `json:"title" validate:"omitempty,min=3,max=200"`
	Description string     `json:"description" validate:"omitempty,min=10"`
	DueDate     *time.Time `json:"dueDate"`
	MaxScore    *int       `json:"maxScore" validate:"omitempty,gte=1,lte=1000"`
}

func (ua *UpdateAssignment) Validate(validate *validator.Validate) error {
	ua.Title = core.CleanString(ua.Title)
	ua.Description = core.CleanString(ua.Description)
	return validate.Struct(ua)
}

// QueryFilter filters course listings.
// Visibility scoping (student: published only; teacher: own only) is applied
// by the API layer before the filter reaches the repository.
type QueryFilter struct {
	Search    string `query:"search"`
	Status    string `query:"status"`
	TeacherID string `query:"teacherId"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Status = strings.ToUpper(core.CleanString(qf.Status))
	qf.TeacherID = core.CleanString(qf.TeacherID)
}
