package tests

import (
	"net/http"
	"testing"
	"time"

	"github.com/darasahq/darasa/core/course"
	"github.com/darasahq/darasa/core/grade"
	"github.com/darasahq/darasa/core/user"
	testutil "github.com/darasahq/darasa/tests"
)

func Test_gradeApi_query(t *testing.T) {
	testutil.ResetDB(t, db)

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", "", user.RoleAdmin)
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher@test.cd", "", user.RoleTeacher)
	student := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", "", user.RoleStudent)
	other := testutil.CreateUser(t, usrRepo, "King", "king@test.cd", "", user.RoleStudent)

	crs := testutil.CreateCourse(t, courseRepo, "Advanced Go", teacher.ID, course.StatusPublished)
	due := time.Now().UTC().Add(7 * 24 * time.Hour)
	quizPrep := testutil.CreateAssignment(t, asgRepo, crs.ID, "Quiz Prep", due, 50)
	finalProject := testutil.CreateAssignment(t, asgRepo, crs.ID, "Final Project", due, 100)

	testutil.CreateGrade(t, grdRepo, student.ID, quizPrep.ID, 40, 50)       // 80%
	testutil.CreateGrade(t, grdRepo, student.ID, finalProject.ID, 90, 100)  // 90%
	testutil.CreateGrade(t, grdRepo, other.ID, finalProject.ID, 100, 100)

	type respData struct {
		Grades []grade.Grade `json:"grades"`
		Stats  grade.Stats   `json:"stats"`
	}

	t.Run("Auth required", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}
		req, rec := newRequest(http.MethodGet, "/api/grades")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("students see their own", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/grades", getToken(t, student))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}
		var data respData
		decodeData(t, rec, &data)
		if len(data.Grades) != 2 {
			t.Fatalf("failed! len(grades) = %d; want 2", len(data.Grades))
		}
		if data.Grades[0].CourseTitle != crs.Title {
			t.Errorf("failed! courseTitle = %s; want %s", data.Grades[0].CourseTitle, crs.Title)
		}
		if data.Stats.TotalGrades != 2 || data.Stats.AssignmentGrades != 2 || data.Stats.QuizGrades != 0 {
			t.Errorf("failed! stats = %+v", data.Stats)
		}
		if data.Stats.AveragePercentage != 85 {
			t.Errorf("failed! averagePercentage = %v; want 85", data.Stats.AveragePercentage)
		}
	})

	t.Run("students cannot see others'", func(t *testing.T) {
		tt := httpTest{
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "You can only view your own grades"}),
		}
		req, rec := newAuthRequest(http.MethodGet, "/api/grades?studentId="+other.ID, getToken(t, student))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("admins see any student's", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/grades?studentId="+other.ID, getToken(t, admin))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}
		var data respData
		decodeData(t, rec, &data)
		if len(data.Grades) != 1 {
			t.Fatalf("failed! len(grades) = %d; want 1", len(data.Grades))
		}
		if data.Stats.AveragePercentage != 100 {
			t.Errorf("failed! averagePercentage = %v; want 100", data.Stats.AveragePercentage)
		}
	})

	t.Run("teachers see any student's", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/grades?studentId="+student.ID, getToken(t, teacher))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}
		var data respData
		decodeData(t, rec, &data)
		if len(data.Grades) != 2 {
			t.Fatalf("failed! len(grades) = %d; want 2", len(data.Grades))
		}
	})

	t.Run("empty stats for ungraded users", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/grades?studentId="+teacher.ID, getToken(t, admin))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}
		var data respData
		decodeData(t, rec, &data)
		if len(data.Grades) != 0 {
			t.Errorf("failed! len(grades) = %d; want 0", len(data.Grades))
		}
		if data.Stats.TotalGrades != 0 || data.Stats.AveragePercentage != 0 {
			t.Errorf("failed! stats = %+v", data.Stats)
		}
	})
}
