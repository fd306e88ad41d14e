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

type assignmentApi struct {
	svc      course.Service
	usrSvc   user.Service
	validate *validator.Validate
}

func registerAssignmentAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := assignmentApi{svc: deps.CourseSvc, usrSvc: deps.UserSvc, validate: deps.Validate}

	ag := g.Group("/assignments", jwt)
	ag.GET("", api.query)
	ag.POST("", api.create, roleMiddleware(user.RoleAdmin, user.RoleTeacher))
	ag.GET("/:id", api.retrieve)
	ag.PATCH("/:id", api.update, roleMiddleware(user.RoleAdmin, user.RoleTeacher))
	ag.DELETE("/:id", api.destroy, roleMiddleware(user.RoleAdmin, user.RoleTeacher))
}

func (api *assignmentApi) parentCourse(ctx echo.Context, courseID string, act policy.Action, deniedMsg string) (course.Course, error) {
	crs, err := api.svc.GetByID(ctx.Request().Context(), courseID)
	if err != nil {
		return course.Course{}, err
	}

	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return course.Course{}, errors.Wrap(err, "getting context user")
	}
	if !policy.Allows(ctxUsr, policy.ResourceAssignment, act, crs) {
		return course.Course{}, core.NewPermissionError(deniedMsg)
	}
	return crs, nil
}

// Handlers

func (api *assignmentApi) query(ctx echo.Context) error {
	courseID := core.CleanString(ctx.QueryParam("courseId"))
	if courseID == "" {
		return core.NewValidationError(errors.New("courseId is required"))
	}

	if _, err := api.parentCourse(ctx, courseID, policy.ActionList, "Course not available"); err != nil {
		return err
	}

	assignments, err := api.svc.QueryAssignments(ctx.Request().Context(), courseID)
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	if assignments == nil {
		assignments = []course.Assignment{}
	}
	return respond(ctx, http.StatusOK, echo.Map{"assignments": assignments})
}

func (api *assignmentApi) create(ctx echo.Context) error {
	var data course.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if _, err := api.parentCourse(ctx, data.CourseID, policy.ActionCreate,
		"You can only create assignments for your own courses"); err != nil {
		return err
	}

	asg, err := api.svc.CreateAssignment(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusCreated, asg)
}

func (api *assignmentApi) retrieve(ctx echo.Context) error {
	asg, err := api.svc.GetAssignment(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}

	if _, err = api.parentCourse(ctx, asg.CourseID, policy.ActionList, "Course not available"); err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, asg)
}

func (api *assignmentApi) update(ctx echo.Context) error {
	asg, err := api.svc.GetAssignment(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}

	if _, err = api.parentCourse(ctx, asg.CourseID, policy.ActionUpdate,
		"You can only update assignments for your own courses"); err != nil {
		return err
	}

	var data course.UpdateAssignment
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAssignment")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	asg, err = api.svc.UpdateAssignment(ctx.Request().Context(), asg.ID, data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, asg)
}

func (api *assignmentApi) destroy(ctx echo.Context) error {
	asg, err := api.svc.GetAssignment(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}

	if _, err = api.parentCourse(ctx, asg.CourseID, policy.ActionDelete,
		"You can only delete assignments for your own courses"); err != nil {
		return err
	}

	if err = api.svc.DeleteAssignment(ctx.Request().Context(), asg.ID); err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, echo.Map{"message": "Assignment deleted successfully"})
}
