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

type courseApi struct {
	svc      course.Service
	usrSvc   user.Service
	validate *validator.Validate
}

func registerCourseAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := courseApi{svc: deps.CourseSvc, usrSvc: deps.UserSvc, validate: deps.Validate}

	cg := g.Group("/courses", jwt)
	cg.GET("", api.query)
	cg.POST("", api.create, roleMiddleware(user.RoleAdmin, user.RoleTeacher))
	cg.GET("/:id", api.retrieve)
	cg.PATCH("/:id", api.update, roleMiddleware(user.RoleAdmin, user.RoleTeacher))
	cg.DELETE("/:id", api.destroy, roleMiddleware(user.RoleAdmin, user.RoleTeacher))
}

// Handlers

func (api *courseApi) query(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	filter := new(course.QueryFilter)
	_ = ctx.Bind(filter)
	filter.Clean()

	// visibility scoping, query overrides notwithstanding
	switch {
	case ctxUsr.IsStudent():
		filter.Status = course.StatusPublished
	case ctxUsr.IsTeacher():
		filter.TeacherID = ctxUsr.ID
	}

	pag := new(Pagination)
	pag.Bind(ctx)

	courses, total, err := api.svc.Filter(ctx.Request().Context(), *filter, pag.Limit, pag.Offset())
	if err != nil {
		return errors.Wrap(err, "filtering courses")
	}
	if courses == nil {
		courses = []course.Course{}
	}
	return respond(ctx, http.StatusOK, echo.Map{
		"courses":    courses,
		"pagination": pag.Meta(total),
	})
}

func (api *courseApi) create(ctx echo.Context) error {
	var data course.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if !policy.Allows(ctxUsr, policy.ResourceCourse, policy.ActionCreate, data) {
		return core.NewPermissionError("You can only create courses for yourself")
	}

	teacher, err := api.usrSvc.GetByID(ctx.Request().Context(), data.TeacherID)
	if err != nil || !teacher.IsTeacher() {
		if err != nil && errors.Cause(err) != user.ErrNotFound {
			return errors.Wrap(err, "finding teacher by ID")
		}
		return core.NewNotFoundError("Teacher not found")
	}

	crs, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusCreated, crs)
}

func (api *courseApi) retrieve(ctx echo.Context) error {
	crs, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if !policy.Allows(ctxUsr, policy.ResourceCourse, policy.ActionRead, crs) {
		return core.NewPermissionError("Course not available")
	}
	return respond(ctx, http.StatusOK, crs)
}

func (api *courseApi) update(ctx echo.Context) error {
	crs, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if !policy.Allows(ctxUsr, policy.ResourceCourse, policy.ActionUpdate, crs) {
		return core.NewPermissionError("You can only update your own courses")
	}

	var data course.UpdateCourse
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCourse")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	// only admins may reassign a course
	if data.TeacherID != "" && data.TeacherID != crs.TeacherID {
		if !ctxUsr.IsAdmin() {
			return core.NewPermissionError("You can only update your own courses")
		}
		teacher, err := api.usrSvc.GetByID(ctx.Request().Context(), data.TeacherID)
		if err != nil || !teacher.IsTeacher() {
			if err != nil && errors.Cause(err) != user.ErrNotFound {
				return errors.Wrap(err, "finding teacher by ID")
			}
			return core.NewNotFoundError("Teacher not found")
		}
	}

	crs, err = api.svc.Update(ctx.Request().Context(), crs.ID, data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, crs)
}

func (api *courseApi) destroy(ctx echo.Context) error {
	crs, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if !policy.Allows(ctxUsr, policy.ResourceCourse, policy.ActionDelete, crs) {
		return core.NewPermissionError("You can only delete your own courses")
	}

	if err = api.svc.Delete(ctx.Request().Context(), crs.ID); err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, echo.Map{"message": "Course deleted successfully"})
}
