package enroll

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/course"
	"github.com/darasahq/darasa/core/user"
)

var (
	// errors
	ErrNotFound        = core.NewNotFoundError("Enrollment not found")
	ErrAlreadyEnrolled = core.NewConflictError("Already enrolled in this course")
	ErrNotAvailable    = core.NewValidationError(errors.New("Course is not available for enrollment"))
)

type (
	Repository interface {
		CreateEnrollment(ctx context.Context, enr Enrollment) (Enrollment, error)
		// GetEnrollment returns ErrNotFound when the user is not enrolled in the course.
		GetEnrollment(ctx context.Context, userID, courseID string) (Enrollment, error)
		// QueryEnrollmentsByUser returns the user's enrollments with the course
		// summary embedded, newest first.
		QueryEnrollmentsByUser(ctx context.Context, userID string) ([]Enrollment, error)
		CountEnrollments(ctx context.Context, status string) (int, error)
		CountEnrollmentsSince(ctx context.Context, since time.Time) (int, error)
		EnrollmentTrend(ctx context.Context, since time.Time) ([]core.TrendPoint, error)
		RecentEnrollments(ctx context.Context, limit int) ([]RecentEnrollment, error)
	}

	NotificationRepository interface {
		CreateNotification(ctx context.Context, ntf Notification) (Notification, error)
		QueryNotificationsByUser(ctx context.Context, userID string) ([]Notification, error)
	}

	Service interface {
		// Enroll enrolls the user in a published course and returns the new
		// enrollment together with the confirmation notification.
		Enroll(ctx context.Context, usr user.User, ne NewEnrollment) (Enrollment, Notification, error)
		QueryForUser(ctx context.Context, userID string) ([]Enrollment, error)
		// Notifications returns the user's notifications, newest first.
		Notifications(ctx context.Context, userID string) ([]Notification, error)
		Count(ctx context.Context, status string) (int, error)
		CountSince(ctx context.Context, since time.Time) (int, error)
		Trend(ctx context.Context, since time.Time) ([]core.TrendPoint, error)
		Recent(ctx context.Context, limit int) ([]RecentEnrollment, error)
	}

	service struct {
		repo      Repository
		ntfRepo   NotificationRepository
		courseSvc course.Service
		mailSvc   core.EmailService
		conf      *core.Config
	}
)

var _ Service = (*service)(nil)

func NewService(
	repo Repository,
	ntfRepo NotificationRepository,
	courseSvc course.Service,
	mailSvc core.EmailService,
	conf *core.Config,
) *service {
	return &service{
		repo:      repo,
		ntfRepo:   ntfRepo,
		courseSvc: courseSvc,
		mailSvc:   mailSvc,
		conf:      conf,
	}
}

func (svc *service) Enroll(ctx context.Context, usr user.User, ne NewEnrollment) (Enrollment, Notification, error) {
	crs, err := svc.courseSvc.GetByID(ctx, ne.CourseID)
	if err != nil {
		return Enrollment{}, Notification{}, err
	}
	if crs.Status != course.StatusPublished {
		return Enrollment{}, Notification{}, ErrNotAvailable
	}

	if _, err = svc.repo.GetEnrollment(ctx, usr.ID, crs.ID); err == nil {
		return Enrollment{}, Notification{}, ErrAlreadyEnrolled
	} else if errors.Cause(err) != ErrNotFound {
		return Enrollment{}, Notification{}, err
	}

	enr := Enrollment{
		UserID:     usr.ID,
		CourseID:   crs.ID,
		Status:     StatusActive,
		EnrolledAt: time.Now().UTC(),
	}
	enr, err = svc.repo.CreateEnrollment(ctx, enr)
	if err != nil {
		return Enrollment{}, Notification{}, err
	}
	enr.Course = &crs

	ntf := Notification{
		UserID:    usr.ID,
		Title:     "Enrollment Confirmation",
		Message:   fmt.Sprintf("You have successfully enrolled in %q", crs.Title),
		Type:      NotificationEnrollment,
		CreatedAt: time.Now().UTC(),
	}
	ntf, err = svc.ntfRepo.CreateNotification(ctx, ntf)
	if err != nil {
		return Enrollment{}, Notification{}, err
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      fmt.Sprintf("You are enrolled in %s", crs.Title),
		TemplateName: "enrollment",
		TemplateData: struct {
			Name   string
			Course string
		}{usr.Name, crs.Title},
	})
	return enr, ntf, nil
}

func (svc *service) QueryForUser(ctx context.Context, userID string) ([]Enrollment, error) {
	return svc.repo.QueryEnrollmentsByUser(ctx, userID)
}

func (svc *service) Notifications(ctx context.Context, userID string) ([]Notification, error) {
	return svc.ntfRepo.QueryNotificationsByUser(ctx, userID)
}

func (svc *service) Count(ctx context.Context, status string) (int, error) {
	return svc.repo.CountEnrollments(ctx, status)
}

func (svc *service) CountSince(ctx context.Context, since time.Time) (int, error) {
	return svc.repo.CountEnrollmentsSince(ctx, since)
}

func (svc *service) Trend(ctx context.Context, since time.Time) ([]core.TrendPoint, error) {
	return svc.repo.EnrollmentTrend(ctx, since)
}

func (svc *service) Recent(ctx context.Context, limit int) ([]RecentEnrollment, error) {
	return svc.repo.RecentEnrollments(ctx, limit)
}
