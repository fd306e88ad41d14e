package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/course"
	"github.com/darasahq/darasa/core/enroll"
	"github.com/darasahq/darasa/core/user"
)

const (
	trendWindow       = 30 * 24 * time.Hour
	recentWindow      = 7 * 24 * time.Hour
	topCoursesLimit   = 5
	recentActionLimit = 10
)

type dashboardApi struct {
	usrSvc    user.Service
	courseSvc course.Service
	enrollSvc enroll.Service
}

func registerDashboardAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := dashboardApi{usrSvc: deps.UserSvc, courseSvc: deps.CourseSvc, enrollSvc: deps.EnrollSvc}

	dg := g.Group("/dashboard", jwt, roleMiddleware(user.RoleAdmin))
	dg.GET("/stats", api.stats)
}

func (api *dashboardApi) stats(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	now := time.Now().UTC()

	totalUsers, err := api.usrSvc.Count(reqCtx, "")
	if err != nil {
		return errors.Wrap(err, "counting users")
	}
	totalStudents, err := api.usrSvc.Count(reqCtx, user.RoleStudent)
	if err != nil {
		return errors.Wrap(err, "counting students")
	}
	totalTeachers, err := api.usrSvc.Count(reqCtx, user.RoleTeacher)
	if err != nil {
		return errors.Wrap(err, "counting teachers")
	}

	totalCourses, err := api.courseSvc.Count(reqCtx, "")
	if err != nil {
		return errors.Wrap(err, "counting courses")
	}
	publishedCourses, err := api.courseSvc.Count(reqCtx, course.StatusPublished)
	if err != nil {
		return errors.Wrap(err, "counting published courses")
	}
	totalAssignments, err := api.courseSvc.CountAssignments(reqCtx)
	if err != nil {
		return errors.Wrap(err, "counting assignments")
	}

	totalEnrollments, err := api.enrollSvc.Count(reqCtx, "")
	if err != nil {
		return errors.Wrap(err, "counting enrollments")
	}
	activeEnrollments, err := api.enrollSvc.Count(reqCtx, enroll.StatusActive)
	if err != nil {
		return errors.Wrap(err, "counting active enrollments")
	}
	recentEnrollments, err := api.enrollSvc.CountSince(reqCtx, now.Add(-recentWindow))
	if err != nil {
		return errors.Wrap(err, "counting recent enrollments")
	}

	enrollmentTrend, err := api.enrollSvc.Trend(reqCtx, now.Add(-trendWindow))
	if err != nil {
		return errors.Wrap(err, "querying enrollment trend")
	}
	userGrowth, err := api.usrSvc.Growth(reqCtx, now.Add(-trendWindow))
	if err != nil {
		return errors.Wrap(err, "querying user growth")
	}

	topCourses, err := api.courseSvc.TopByEnrollment(reqCtx, topCoursesLimit)
	if err != nil {
		return errors.Wrap(err, "querying top courses")
	}
	recentActivity, err := api.enrollSvc.Recent(reqCtx, recentActionLimit)
	if err != nil {
		return errors.Wrap(err, "querying recent activity")
	}

	return respond(ctx, http.StatusOK, echo.Map{
		"overview": echo.Map{
			"totalUsers":        totalUsers,
			"totalStudents":     totalStudents,
			"totalTeachers":     totalTeachers,
			"totalCourses":      totalCourses,
			"publishedCourses":  publishedCourses,
			"totalAssignments":  totalAssignments,
			"totalEnrollments":  totalEnrollments,
			"activeEnrollments": activeEnrollments,
			"recentEnrollments": recentEnrollments,
		},
		"trends": echo.Map{
			"enrollmentTrend": enrollmentTrend,
			"userGrowth":      userGrowth,
		},
		"topCourses":     topCourses,
		"recentActivity": recentActivity,
	})
}
