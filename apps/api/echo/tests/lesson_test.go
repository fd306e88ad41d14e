package tests

import (
	"net/http"
	"testing"

	"github.com/darasahq/darasa/core/course"
	"github.com/darasahq/darasa/core/user"
	testutil "github.com/darasahq/darasa/tests"
)

func Test_lessonApi_query(t *testing.T) {
	testutil.ResetDB(t, db)

	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher@test.cd", "", user.RoleTeacher)
	student := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", "", user.RoleStudent)

	draft := testutil.CreateCourse(t, courseRepo, "Go Basics", teacher.ID, course.StatusDraft)
	published := testutil.CreateCourse(t, courseRepo, "Advanced Go", teacher.ID, course.StatusPublished)

	// created out of order on purpose
	second := testutil.CreateLesson(t, lessonRepo, published.ID, "Interfaces", 2)
	first := testutil.CreateLesson(t, lessonRepo, published.ID, "Goroutines", 1)
	testutil.CreateLesson(t, lessonRepo, draft.ID, "Hello World", 1)

	tests := []httpTest{
		{name: "Auth required", path: "/api/lessons?courseId=" + published.ID, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "courseId required", path: "/api/lessons", token: getToken(t, student),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "courseId is required"}),
		},
		{
			name: "unknown course", path: "/api/lessons?courseId=lol", token: getToken(t, student),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "Course not found"}),
		},
		{
			name: "student cannot list draft lessons", path: "/api/lessons?courseId=" + draft.ID, token: getToken(t, student),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "Course not available"}),
		},
		{
			name: "ordered by lesson order", path: "/api/lessons?courseId=" + published.ID, token: getToken(t, student),
			wantCode: http.StatusOK,
			wantData: wrapData(t, map[string]interface{}{"lessons": []course.Lesson{first, second}}),
		},
		{
			name: "owner lists draft lessons", path: "/api/lessons?courseId=" + draft.ID, token: getToken(t, teacher),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			if tt.wantData == nil {
				if rec.Code != tt.wantCode {
					t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_lessonApi_createUpdateDestroy(t *testing.T) {
	testutil.ResetDB(t, db)

	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher@test.cd", "", user.RoleTeacher)
	other := testutil.CreateUser(t, usrRepo, "Other Teacher", "other@test.cd", "", user.RoleTeacher)
	student := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", "", user.RoleStudent)

	mine := testutil.CreateCourse(t, courseRepo, "Go Basics", teacher.ID, course.StatusPublished)
	lesson := testutil.CreateLesson(t, lessonRepo, mine.ID, "Goroutines", 1)

	newLesson := marchallObj(t, course.NewLesson{
		Title:    "Channels",
		Content:  "Channels carry values between goroutines.",
		Order:    2,
		CourseID: mine.ID,
	})

	intPtr := func(i int) *int { return &i }

	type extraTest struct {
		wantOrder int
	}
	tests := []httpTest{
		{
			name: "students cannot create", method: http.MethodPost, path: "/api/lessons", token: getToken(t, student),
			body: newLesson, wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "teachers create for own courses only", method: http.MethodPost, path: "/api/lessons", token: getToken(t, other),
			body: newLesson, wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "You can only create lessons for your own courses"}),
		},
		{
			name: "owner creates", method: http.MethodPost, path: "/api/lessons", token: getToken(t, teacher),
			body: newLesson, wantCode: http.StatusCreated, extra: extraTest{wantOrder: 2},
		},
		{
			name: "teachers update own only", method: http.MethodPatch, path: "/api/lessons/" + lesson.ID, token: getToken(t, other),
			body: marchallObj(t, course.UpdateLesson{Order: intPtr(3)}), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "You can only update lessons for your own courses"}),
		},
		{
			name: "owner reorders", method: http.MethodPatch, path: "/api/lessons/" + lesson.ID, token: getToken(t, teacher),
			body: marchallObj(t, course.UpdateLesson{Order: intPtr(3)}), wantCode: http.StatusOK, extra: extraTest{wantOrder: 3},
		},
		{
			name: "teachers delete own only", method: http.MethodDelete, path: "/api/lessons/" + lesson.ID, token: getToken(t, other),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "You can only delete lessons for your own courses"}),
		},
		{
			name: "owner deletes", method: http.MethodDelete, path: "/api/lessons/" + lesson.ID, token: getToken(t, teacher),
			wantCode: http.StatusOK, wantData: wrapData(t, map[string]string{"message": "Lesson deleted successfully"}),
		},
		{
			name: "retrieve deleted", method: http.MethodGet, path: "/api/lessons/" + lesson.ID, token: getToken(t, teacher),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "Lesson not found"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if extra, ok := tt.extra.(extraTest); ok {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				var lsn course.Lesson
				decodeData(t, rec, &lsn)
				if lsn.Order != extra.wantOrder {
					t.Errorf("failed! order = %d; want %d", lsn.Order, extra.wantOrder)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}
