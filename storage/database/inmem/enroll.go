package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/course"
	"github.com/darasahq/darasa/core/enroll"
)

type enrollmentRepository struct {
	db *DB
}

var _ enroll.Repository = (*enrollmentRepository)(nil)

func NewEnrollmentRepository(db *DB) *enrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (repo *enrollmentRepository) CreateEnrollment(ctx context.Context, enr enroll.Enrollment) (enroll.Enrollment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, existing := range repo.db.enrollments {
		if existing.UserID == enr.UserID && existing.CourseID == enr.CourseID {
			return enroll.Enrollment{}, enroll.ErrAlreadyEnrolled
		}
	}

	enr.ID = uuid.New().String()
	stored := enr
	stored.Course = nil
	repo.db.enrollments[enr.ID] = &stored
	return enr, nil
}

func (repo *enrollmentRepository) GetEnrollment(ctx context.Context, userID, courseID string) (enroll.Enrollment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, enr := range repo.db.enrollments {
		if enr.UserID == userID && enr.CourseID == courseID {
			return *enr, nil
		}
	}
	return enroll.Enrollment{}, enroll.ErrNotFound
}

func (repo *enrollmentRepository) QueryEnrollmentsByUser(ctx context.Context, userID string) ([]enroll.Enrollment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	enrollments := make([]enroll.Enrollment, 0)
	for _, enr := range repo.db.enrollments {
		if enr.UserID != userID {
			continue
		}
		withCourse := *enr
		if crs, ok := repo.db.courses[enr.CourseID]; ok {
			embedded := *crs
			if t, ok := repo.db.users[crs.TeacherID]; ok {
				embedded.Teacher = &course.TeacherInfo{ID: t.ID, Name: t.Name, Email: t.Email}
			}
			withCourse.Course = &embedded
		}
		enrollments = append(enrollments, withCourse)
	}
	sort.Slice(enrollments, func(i, j int) bool {
		return enrollments[i].EnrolledAt.After(enrollments[j].EnrolledAt)
	})
	return enrollments, nil
}

func (repo *enrollmentRepository) CountEnrollments(ctx context.Context, status string) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if status == "" {
		return len(repo.db.enrollments), nil
	}
	var count int
	for _, enr := range repo.db.enrollments {
		if enr.Status == status {
			count++
		}
	}
	return count, nil
}

func (repo *enrollmentRepository) CountEnrollmentsSince(ctx context.Context, since time.Time) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var count int
	for _, enr := range repo.db.enrollments {
		if !enr.EnrolledAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (repo *enrollmentRepository) EnrollmentTrend(ctx context.Context, since time.Time) ([]core.TrendPoint, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	times := make([]time.Time, 0, len(repo.db.enrollments))
	for _, enr := range repo.db.enrollments {
		times = append(times, enr.EnrolledAt)
	}
	return trend(times, since), nil
}

func (repo *enrollmentRepository) RecentEnrollments(ctx context.Context, limit int) ([]enroll.RecentEnrollment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	recent := make([]enroll.RecentEnrollment, 0, len(repo.db.enrollments))
	for _, enr := range repo.db.enrollments {
		re := enroll.RecentEnrollment{ID: enr.ID, EnrolledAt: enr.EnrolledAt}
		if usr, ok := repo.db.users[enr.UserID]; ok {
			re.Student = usr.Name
		}
		if crs, ok := repo.db.courses[enr.CourseID]; ok {
			re.Course = crs.Title
		}
		recent = append(recent, re)
	}
	sort.Slice(recent, func(i, j int) bool { return recent[i].EnrolledAt.After(recent[j].EnrolledAt) })

	if len(recent) > limit {
		recent = recent[:limit]
	}
	return recent, nil
}

// Notifications

type notificationRepository struct {
	db *DB
}

var _ enroll.NotificationRepository = (*notificationRepository)(nil)

func NewNotificationRepository(db *DB) *notificationRepository {
	return &notificationRepository{db: db}
}

func (repo *notificationRepository) CreateNotification(ctx context.Context, ntf enroll.Notification) (enroll.Notification, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	ntf.ID = uuid.New().String()
	repo.db.notifications[ntf.ID] = &ntf
	return ntf, nil
}

func (repo *notificationRepository) QueryNotificationsByUser(ctx context.Context, userID string) ([]enroll.Notification, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	notifications := make([]enroll.Notification, 0)
	for _, ntf := range repo.db.notifications {
		if ntf.UserID == userID {
			notifications = append(notifications, *ntf)
		}
	}
	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})
	return notifications, nil
}
