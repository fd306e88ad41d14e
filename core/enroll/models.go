package enroll

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/course"
)

// Enrollment statuses
const (
	StatusActive    = "ACTIVE"
	StatusCompleted = "COMPLETED"
	StatusDropped   = "DROPPED"
)

var AllStatuses = []string{StatusActive, StatusCompleted, StatusDropped}

// Notification types
const NotificationEnrollment = "ENROLLMENT"

type (
	Enrollment struct {
		ID         string    `json:"id"`
		UserID     string    `json:"studentId"`
		CourseID   string    `json:"courseId"`
		Status     string    `json:"status"`
		EnrolledAt time.Time `json:"enrolledAt"` // UTC

		Course *course.Course `json:"course,omitempty"`
	}

	Notification struct {
		ID        string    `json:"id"`
		UserID    string    `json:"userId"`
		Title     string    `json:"title"`
		Message   string    `json:"message"`
		Type      string    `json:"type"`
		Read      bool      `json:"read"`
		CreatedAt time.Time `json:"createdAt"`
	}

	// RecentEnrollment is a dashboard aggregate: a recent enrollment with the
	// student and course names resolved.
	RecentEnrollment struct {
		ID         string    `json:"id"`
		Student    string    `json:"student"`
		Course     string    `json:"course"`
		EnrolledAt time.Time `json:"enrolledAt"`
	}
)

type NewEnrollment struct {
	CourseID string `json:"courseId" validate:"required,uuid4"`
}

func (ne *NewEnrollment) Validate(validate *validator.Validate) error {
	ne.CourseID = core.CleanString(ne.CourseID)
	return validate.Struct(ne)
}
