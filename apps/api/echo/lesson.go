package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/course"
	"github.com/darasahq/darasa/core/policy"
	"github.com/darasahq/darasa/core/user"
)

type lessonApi struct {
	svc      course.Service
	usrSvc   user.Service
	validate *validator.Validate
}

func registerLessonAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := lessonApi{svc: deps.CourseSvc, usrSvc: deps.UserSvc, validate: deps.Validate}

	lg := g.Group("/lessons", jwt)
	lg.GET("", api.query)
	lg.POST("", api.create, roleMiddleware(user.RoleAdmin, user.RoleTeacher))
	lg.GET("/:id", api.retrieve)
	lg.PATCH("/:id", api.update, roleMiddleware(user.RoleAdmin, user.RoleTeacher))
	lg.DELETE("/:id", api.destroy, roleMiddleware(user.RoleAdmin, user.RoleTeacher))
}

// parentCourse loads the lesson's parent course and checks the given action
// against the policy table, returning deniedMsg as a 403 on refusal.
func (api *lessonApi) parentCourse(ctx echo.Context, courseID string, act policy.Action, deniedMsg string) (course.Course, error) {
	crs, err := api.svc.GetByID(ctx.Request().Context(), courseID)
	if err != nil {
		return course.Course{}, err
	}

	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return course.Course{}, errors.Wrap(err, "getting context user")
	}
	if !policy.Allows(ctxUsr, policy.ResourceLesson, act, crs) {
		return course.Course{}, core.NewPermissionError(deniedMsg)
	}
	return crs, nil
}

// Handlers

func (api *lessonApi) query(ctx echo.Context) error {
	courseID := core.CleanString(ctx.QueryParam("courseId"))
	if courseID == "" {
		return core.NewValidationError(errors.New("courseId is required"))
	}

	if _, err := api.parentCourse(ctx, courseID, policy.ActionList, "Course not available"); err != nil {
		return err
	}

	lessons, err := api.svc.QueryLessons(ctx.Request().Context(), courseID)
	if err != nil {
		return errors.Wrap(err, "querying lessons")
	}
	if lessons == nil {
		lessons = []course.Lesson{}
	}
	return respond(ctx, http.StatusOK, echo.Map{"lessons": lessons})
}

func (api *lessonApi) create(ctx echo.Context) error {
	var data course.NewLesson
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLesson")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if _, err := api.parentCourse(ctx, data.CourseID, policy.ActionCreate,
		"You can only create lessons for your own courses"); err != nil {
		return err
	}

	lsn, err := api.svc.CreateLesson(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusCreated, lsn)
}

func (api *lessonApi) retrieve(ctx echo.Context) error {
	lsn, err := api.svc.GetLesson(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}

	if _, err = api.parentCourse(ctx, lsn.CourseID, policy.ActionList, "Course not available"); err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, lsn)
}

func (api *lessonApi) update(ctx echo.Context) error {
	lsn, err := api.svc.GetLesson(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}

	if _, err = api.parentCourse(ctx, lsn.CourseID, policy.ActionUpdate,
		"You can only update lessons for your own courses"); err != nil {
		return err
	}

	var data course.UpdateLesson
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateLesson")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	lsn, err = api.svc.UpdateLesson(ctx.Request().Context(), lsn.ID, data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, lsn)
}

func (api *lessonApi) destroy(ctx echo.Context) error {
	lsn, err := api.svc.GetLesson(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}

	if _, err = api.parentCourse(ctx, lsn.CourseID, policy.ActionDelete,
		"You can only delete lessons for your own courses"); err != nil {
		return err
	}

	if err = api.svc.DeleteLesson(ctx.Request().Context(), lsn.ID); err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, echo.Map{"message": "Lesson deleted successfully"})
}
