package tests

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	. "github.com/darasahq/darasa/apps/api/echo"
	"github.com/darasahq/darasa/core/user"
	emailsvc "github.com/darasahq/darasa/services/email"
	testutil "github.com/darasahq/darasa/tests"
)

func Test_userApi_query(t *testing.T) {
	testutil.ResetDB(t, db)

	path := func(search, role string, page, limit int) string {
		v := make(url.Values)
		if search != "" {
			v.Add("search", search)
		}
		if role != "" {
			v.Add("role", role)
		}
		if page > 0 {
			v.Add("page", fmt.Sprintf("%d", page))
		}
		if limit > 0 {
			v.Add("limit", fmt.Sprintf("%d", limit))
		}
		return "/api/users?" + v.Encode()
	}

	now := time.Now().UTC()
	t1 := now.Add(1 * time.Hour)
	t2 := now.Add(2 * time.Hour)
	t3 := now.Add(3 * time.Hour)

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", "", user.RoleStudent, now)
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher@test.cd", "", user.RoleTeacher, t1)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", "", user.RoleAdmin, t2)
	king := testutil.CreateUser(t, usrRepo, "King", "king@test.cd", "", user.RoleStudent, t3)

	adminToken := getToken(t, admin)

	page := func(users []user.User, meta PageMeta) []byte {
		return wrapData(t, map[string]interface{}{"users": users, "pagination": meta})
	}

	tests := []httpTest{
		{name: "Auth required", path: "/api/users", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Admin required", path: "/api/users", token: getToken(t, student),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "Get all", path: "/api/users", token: adminToken,
			wantData: page([]user.User{king, admin, teacher, student}, PageMeta{Page: 1, Limit: 10, Total: 4, TotalPages: 1}),
		},
		{
			name: "search (unknown)", path: path("lol", "", 0, 0), token: adminToken,
			wantData: page([]user.User{}, PageMeta{Page: 1, Limit: 10, Total: 0, TotalPages: 0}),
		},
		{
			name: "search=her", path: path("her", "", 0, 0), token: adminToken,
			wantData: page([]user.User{teacher, student}, PageMeta{Page: 1, Limit: 10, Total: 2, TotalPages: 1}),
		},
		{
			name: "role=STUDENT", path: path("", user.RoleStudent, 0, 0), token: adminToken,
			wantData: page([]user.User{king, student}, PageMeta{Page: 1, Limit: 10, Total: 2, TotalPages: 1}),
		},
		{
			name: "role is case-insensitive", path: path("", "teacher", 0, 0), token: adminToken,
			wantData: page([]user.User{teacher}, PageMeta{Page: 1, Limit: 10, Total: 1, TotalPages: 1}),
		},
		{
			name: "paging", path: path("", "", 2, 1), token: adminToken,
			wantData: page([]user.User{admin}, PageMeta{Page: 2, Limit: 1, Total: 4, TotalPages: 4}),
		},
		{
			name: "search & role combo", path: path("king", user.RoleStudent, 0, 0), token: adminToken,
			wantData: page([]user.User{king}, PageMeta{Page: 1, Limit: 10, Total: 1, TotalPages: 1}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_create(t *testing.T) {
	testutil.ResetDB(t, db)
	emailsvc.ClearSentMessages()

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", "", user.RoleAdmin)
	taken := testutil.CreateUser(t, usrRepo, "Taken", "taken@test.cd", "", user.RoleStudent)
	adminToken := getToken(t, admin)

	reqMsg := "this field is required"
	type extraTest struct {
		wantRole  string
		emailSent bool
	}
	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Admin required", token: getToken(t, taken),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "required fields", token: adminToken, wantCode: http.StatusUnprocessableEntity,
			body:     marchallObj(t, user.NewUser{}),
			wantData: marchallObj(t, httpErr{Error: "Validation failed", Errors: map[string]string{"name": reqMsg, "email": reqMsg, "password": reqMsg}}),
		},
		{
			name: "invalid role", token: adminToken, wantCode: http.StatusUnprocessableEntity,
			body:     marchallObj(t, user.NewUser{Name: "New Guy", Email: "new@test.cd", Password: "s3cret", Role: "LOL"}),
			wantData: marchallObj(t, httpErr{Error: "Validation failed", Errors: map[string]string{"role": "role must be one of ADMIN, TEACHER or STUDENT"}}),
		},
		{
			name: "email taken", token: adminToken, wantCode: http.StatusConflict,
			body:     marchallObj(t, user.NewUser{Name: "New Guy", Email: taken.Email, Password: "s3cret"}),
			wantData: marchallObj(t, httpErr{Error: "Email already exists"}),
		},
		{
			name: "role defaults to STUDENT", token: adminToken, wantCode: http.StatusCreated,
			body:  marchallObj(t, user.NewUser{Name: "New Guy", Email: "new@test.cd", Password: "s3cret"}),
			extra: extraTest{wantRole: user.RoleStudent, emailSent: true},
		},
		{
			name: "create teacher", token: adminToken, wantCode: http.StatusCreated,
			body:  marchallObj(t, user.NewUser{Name: "New Teacher", Email: "newteacher@test.cd", Password: "s3cret", Role: user.RoleTeacher}),
			extra: extraTest{wantRole: user.RoleTeacher, emailSent: true},
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/api/users"

		t.Run(tt.name, func(t *testing.T) {
			emailsvc.ClearSentMessages()

			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if extra, ok := tt.extra.(extraTest); ok {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				var usr user.User
				decodeData(t, rec, &usr)
				if usr.ID == "" {
					t.Error("failed! empty ID")
				}
				if usr.Role != extra.wantRole {
					t.Errorf("failed! role = %s; want %s", usr.Role, extra.wantRole)
				}
				if extra.emailSent && len(emailsvc.SentMessages) != 1 {
					t.Errorf("failed! len(SentMessages) = %d; want 1", len(emailsvc.SentMessages))
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_retrieveUpdateDestroy(t *testing.T) {
	testutil.ResetDB(t, db)

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", "", user.RoleAdmin)
	student := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", "", user.RoleStudent)
	adminToken := getToken(t, admin)

	type extraTest struct {
		wantName string
	}
	tests := []httpTest{
		{
			name: "retrieve", method: http.MethodGet, path: "/api/users/" + student.ID, token: adminToken,
			wantCode: http.StatusOK, wantData: wrapData(t, student),
		},
		{
			name: "retrieve unknown", method: http.MethodGet, path: "/api/users/lol", token: adminToken,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "User not found"}),
		},
		{
			name: "update", method: http.MethodPatch, path: "/api/users/" + student.ID, token: adminToken,
			body: marchallObj(t, user.UpdateUser{Name: "Renamed Hero"}), wantCode: http.StatusOK,
			extra: extraTest{wantName: "Renamed Hero"},
		},
		{
			name: "update unknown", method: http.MethodPatch, path: "/api/users/lol", token: adminToken,
			body: marchallObj(t, user.UpdateUser{Name: "Renamed Hero"}), wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "User not found"}),
		},
		{
			name: "destroy self", method: http.MethodDelete, path: "/api/users/" + admin.ID, token: adminToken,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "Cannot delete your own account"}),
		},
		{
			name: "destroy unknown", method: http.MethodDelete, path: "/api/users/lol", token: adminToken,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "User not found"}),
		},
		{
			name: "destroy", method: http.MethodDelete, path: "/api/users/" + student.ID, token: adminToken,
			wantCode: http.StatusOK, wantData: wrapData(t, map[string]string{"message": "User deleted successfully"}),
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
				var usr user.User
				decodeData(t, rec, &usr)
				if usr.Name != extra.wantName {
					t.Errorf("failed! name = %s; want %s", usr.Name, extra.wantName)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_profileApi(t *testing.T) {
	testutil.ResetDB(t, db)

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", "", user.RoleStudent)
	token := getToken(t, student)

	t.Run("Auth required", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}
		req, rec := newRequest(http.MethodGet, "/api/profile")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("retrieve", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusOK, wantData: wrapData(t, student)}
		req, rec := newAuthRequest(http.MethodGet, "/api/profile", token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("update", func(t *testing.T) {
		body := marchallObj(t, user.UpdateProfile{Bio: "Lifelong learner", StudentNumber: "STU-001"})
		req, rec := newAuthRequest(http.MethodPut, "/api/profile", token, body)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}
		var usr user.User
		decodeData(t, rec, &usr)
		if usr.Bio != "Lifelong learner" {
			t.Errorf("failed! bio = %s", usr.Bio)
		}
		if usr.StudentNumber != "STU-001" {
			t.Errorf("failed! studentNumber = %s", usr.StudentNumber)
		}
	})

	t.Run("teacher fields ignored for students", func(t *testing.T) {
		body := marchallObj(t, user.UpdateProfile{Department: "Physics"})
		req, rec := newAuthRequest(http.MethodPut, "/api/profile", token, body)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}
		var usr user.User
		decodeData(t, rec, &usr)
		if usr.Department != "" {
			t.Errorf("failed! department = %s; want empty", usr.Department)
		}
	})
}
