package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/darasahq/darasa/core/course"
	"github.com/darasahq/darasa/core/enroll"
	"github.com/darasahq/darasa/core/grade"
	"github.com/darasahq/darasa/core/user"
	inmemdb "github.com/darasahq/darasa/storage/database/inmem"
)

// PrepareDB returns a fresh in-memory database for the test.
func PrepareDB(t *testing.T) *inmemdb.DB {
	t.Helper()
	return inmemdb.Open()
}

// ResetDB drops all data between tests sharing a database.
func ResetDB(t *testing.T, db *inmemdb.DB) {
	t.Helper()
	db.Reset()
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, pwd, role string,
	createdAt ...time.Time,
) user.User {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateCourse(
	t *testing.T,
	repo course.CourseRepository,
	title, teacherID, status string,
) course.Course {
	t.Helper()
	now := time.Now().UTC()
	crs := course.Course{
		Title:       title,
		Description: "A course about " + title,
		TeacherID:   teacherID,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	crs, err := repo.CreateCourse(context.Background(), crs)
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return crs
}

func CreateLesson(
	t *testing.T,
	repo course.LessonRepository,
	courseID, title string,
	order int,
) course.Lesson {
	t.Helper()
	now := time.Now().UTC()
	lsn := course.Lesson{
		Title:     title,
		Content:   "Contents of " + title,
		Order:     order,
		CourseID:  courseID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	lsn, err := repo.CreateLesson(context.Background(), lsn)
	if err != nil {
		t.Fatalf("CreateLesson() failed: %v", err)
	}
	return lsn
}

func CreateAssignment(
	t *testing.T,
	repo course.AssignmentRepository,
	courseID, title string,
	dueDate time.Time,
	maxScore int,
) course.Assignment {
	t.Helper()
	now := time.Now().UTC()
	asg := course.Assignment{
		Title:       title,
		Description: "Instructions for " + title,
		DueDate:     dueDate.UTC(),
		MaxScore:    maxScore,
		CourseID:    courseID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	asg, err := repo.CreateAssignment(context.Background(), asg)
	if err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}
	return asg
}

func CreateEnrollment(
	t *testing.T,
	repo enroll.Repository,
	userID, courseID, status string,
	enrolledAt ...time.Time,
) enroll.Enrollment {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(enrolledAt) > 0 {
		tstamp = enrolledAt[0].UTC()
	}
	enr := enroll.Enrollment{
		UserID:     userID,
		CourseID:   courseID,
		Status:     status,
		EnrolledAt: tstamp,
	}
	enr, err := repo.CreateEnrollment(context.Background(), enr)
	if err != nil {
		t.Fatalf("CreateEnrollment() failed: %v", err)
	}
	return enr
}

func CreateGrade(
	t *testing.T,
	repo grade.Repository,
	userID, assignmentID string,
	score, maxScore float64,
) grade.Grade {
	t.Helper()
	grd := grade.Grade{
		UserID:       userID,
		AssignmentID: &assignmentID,
		Score:        score,
		MaxScore:     maxScore,
		GradedAt:     time.Now().UTC(),
	}
	grd, err := repo.CreateGrade(context.Background(), grd)
	if err != nil {
		t.Fatalf("CreateGrade() failed: %v", err)
	}
	return grd
}
