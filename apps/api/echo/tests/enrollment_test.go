package tests

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/darasahq/darasa/core/course"
	"github.com/darasahq/darasa/core/enroll"
	"github.com/darasahq/darasa/core/user"
	emailsvc "github.com/darasahq/darasa/services/email"
	testutil "github.com/darasahq/darasa/tests"
)

func Test_enrollmentApi_create(t *testing.T) {
	testutil.ResetDB(t, db)
	emailsvc.ClearSentMessages()

	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher@test.cd", "", user.RoleTeacher)
	student := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", "", user.RoleStudent)

	draft := testutil.CreateCourse(t, courseRepo, "Go Basics", teacher.ID, course.StatusDraft)
	published := testutil.CreateCourse(t, courseRepo, "Advanced Go", teacher.ID, course.StatusPublished)

	studentToken := getToken(t, student)

	type extraTest struct {
		enrolled   bool
		wantUserID string
	}
	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "courseId required", token: studentToken, body: marchallObj(t, enroll.NewEnrollment{}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "courseId is required"}),
		},
		{
			name: "courseId must be a uuid", token: studentToken, body: marchallObj(t, enroll.NewEnrollment{CourseID: "lol"}),
			wantCode: http.StatusUnprocessableEntity,
			wantData: marchallObj(t, httpErr{Error: "Validation failed", Errors: map[string]string{"courseId": "must be a valid identifier"}}),
		},
		{
			name: "unknown course", token: studentToken, body: marchallObj(t, enroll.NewEnrollment{CourseID: uuid.New().String()}),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "Course not found"}),
		},
		{
			name: "draft course not enrollable", token: studentToken, body: marchallObj(t, enroll.NewEnrollment{CourseID: draft.ID}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "Course is not available for enrollment"}),
		},
		{
			name: "enrolled", token: studentToken, body: marchallObj(t, enroll.NewEnrollment{CourseID: published.ID}),
			wantCode: http.StatusCreated, extra: extraTest{enrolled: true, wantUserID: student.ID},
		},
		{
			name: "enrolling twice conflicts", token: studentToken, body: marchallObj(t, enroll.NewEnrollment{CourseID: published.ID}),
			wantCode: http.StatusConflict, wantData: marchallObj(t, httpErr{Error: "Already enrolled in this course"}),
		},
		{
			name: "teachers enroll themselves too", token: getToken(t, teacher), body: marchallObj(t, enroll.NewEnrollment{CourseID: published.ID}),
			wantCode: http.StatusCreated, extra: extraTest{enrolled: true, wantUserID: teacher.ID},
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/api/enrollments"

		t.Run(tt.name, func(t *testing.T) {
			emailsvc.ClearSentMessages()

			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if extra, ok := tt.extra.(extraTest); ok && extra.enrolled {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				var respData struct {
					Enrollment   enroll.Enrollment   `json:"enrollment"`
					Notification enroll.Notification `json:"notification"`
				}
				decodeData(t, rec, &respData)
				if respData.Enrollment.UserID != extra.wantUserID {
					t.Errorf("failed! studentId = %s; want %s", respData.Enrollment.UserID, extra.wantUserID)
				}
				if respData.Enrollment.Status != enroll.StatusActive {
					t.Errorf("failed! status = %s; want %s", respData.Enrollment.Status, enroll.StatusActive)
				}
				if respData.Notification.Type != enroll.NotificationEnrollment {
					t.Errorf("failed! notification type = %s; want %s", respData.Notification.Type, enroll.NotificationEnrollment)
				}
				if !strings.Contains(respData.Notification.Message, published.Title) {
					t.Errorf("failed! notification message %q does not mention the course", respData.Notification.Message)
				}
				if len(emailsvc.SentMessages) != 1 {
					t.Fatalf("failed! len(SentMessages) = %d; want 1", len(emailsvc.SentMessages))
				}
				sent := emailsvc.SentMessages[0]
				if !strings.Contains(sent.Subject, published.Title) {
					t.Errorf("failed! email subject %q does not mention the course", sent.Subject)
				}
				if !strings.Contains(sent.TextContent, published.Title) {
					t.Errorf("failed! email text %q does not mention the course", sent.TextContent)
				}
				if !strings.Contains(sent.HTMLContent, published.Title) {
					t.Error("failed! email html does not mention the course")
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_enrollmentApi_query(t *testing.T) {
	testutil.ResetDB(t, db)

	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher@test.cd", "", user.RoleTeacher)
	student := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", "", user.RoleStudent)
	other := testutil.CreateUser(t, usrRepo, "King", "king@test.cd", "", user.RoleStudent)

	published := testutil.CreateCourse(t, courseRepo, "Advanced Go", teacher.ID, course.StatusPublished)

	testutil.CreateEnrollment(t, enrRepo, student.ID, published.ID, enroll.StatusActive)
	testutil.CreateEnrollment(t, enrRepo, other.ID, published.ID, enroll.StatusActive)

	t.Run("Auth required", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}
		req, rec := newRequest(http.MethodGet, "/api/enrollments")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("self-scoped", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/enrollments", getToken(t, student))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}
		var respData struct {
			Enrollments []enroll.Enrollment `json:"enrollments"`
		}
		decodeData(t, rec, &respData)
		if len(respData.Enrollments) != 1 {
			t.Fatalf("failed! len(enrollments) = %d; want 1", len(respData.Enrollments))
		}
		enr := respData.Enrollments[0]
		if enr.UserID != student.ID {
			t.Errorf("failed! studentId = %s; want %s", enr.UserID, student.ID)
		}
		if enr.Course == nil || enr.Course.ID != published.ID {
			t.Error("failed! course not embedded")
		}
	})

	t.Run("empty for unenrolled users", func(t *testing.T) {
		tt := httpTest{
			wantCode: http.StatusOK,
			wantData: wrapData(t, map[string]interface{}{"enrollments": []enroll.Enrollment{}}),
		}
		req, rec := newAuthRequest(http.MethodGet, "/api/enrollments", getToken(t, teacher))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}

func Test_notificationApi_query(t *testing.T) {
	testutil.ResetDB(t, db)

	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher@test.cd", "", user.RoleTeacher)
	student := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", "", user.RoleStudent)

	now := time.Now().UTC()
	createNotification := func(userID, message string, createdAt time.Time) enroll.Notification {
		t.Helper()
		ntf, err := ntfRepo.CreateNotification(context.Background(), enroll.Notification{
			UserID:    userID,
			Title:     "Enrollment Confirmation",
			Message:   message,
			Type:      enroll.NotificationEnrollment,
			CreatedAt: createdAt,
		})
		if err != nil {
			t.Fatalf("CreateNotification() failed: %v", err)
		}
		return ntf
	}
	createNotification(student.ID, "You have successfully enrolled in \"Go Basics\"", now.Add(-time.Hour))
	latest := createNotification(student.ID, "You have successfully enrolled in \"Advanced Go\"", now)

	t.Run("Auth required", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}
		req, rec := newRequest(http.MethodGet, "/api/notifications")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("self-scoped, newest first", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/notifications", getToken(t, student))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}
		var respData struct {
			Notifications []enroll.Notification `json:"notifications"`
		}
		decodeData(t, rec, &respData)
		if len(respData.Notifications) != 2 {
			t.Fatalf("failed! len(notifications) = %d; want 2", len(respData.Notifications))
		}
		if respData.Notifications[0].ID != latest.ID {
			t.Errorf("failed! notifications[0].ID = %s; want %s", respData.Notifications[0].ID, latest.ID)
		}
	})

	t.Run("empty for users without notifications", func(t *testing.T) {
		tt := httpTest{
			wantCode: http.StatusOK,
			wantData: wrapData(t, map[string]interface{}{"notifications": []enroll.Notification{}}),
		}
		req, rec := newAuthRequest(http.MethodGet, "/api/notifications", getToken(t, teacher))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}
