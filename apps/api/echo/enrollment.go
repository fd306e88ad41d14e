package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/enroll"
	"github.com/darasahq/darasa/core/user"
)

type enrollmentApi struct {
	svc      enroll.Service
	usrSvc   user.Service
	validate *validator.Validate
}

func registerEnrollmentAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := enrollmentApi{svc: deps.EnrollSvc, usrSvc: deps.UserSvc, validate: deps.Validate}

	eg := g.Group("/enrollments", jwt)
	eg.GET("", api.query)
	// any authenticated user enrolls themself
	eg.POST("", api.create)

	ng := g.Group("/notifications", jwt)
	ng.GET("", api.notifications)
}

// Handlers

func (api *enrollmentApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	// always self-scoped
	enrollments, err := api.svc.QueryForUser(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying enrollments")
	}
	if enrollments == nil {
		enrollments = []enroll.Enrollment{}
	}
	return respond(ctx, http.StatusOK, echo.Map{"enrollments": enrollments})
}

func (api *enrollmentApi) create(ctx echo.Context) error {
	var data enroll.NewEnrollment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEnrollment")
	}
	if data.CourseID == "" {
		return core.NewValidationError(errors.New("courseId is required"))
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	enr, ntf, err := api.svc.Enroll(ctx.Request().Context(), ctxUsr, data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusCreated, echo.Map{
		"enrollment":   enr,
		"notification": ntf,
	})
}

func (api *enrollmentApi) notifications(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	notifications, err := api.svc.Notifications(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying notifications")
	}
	if notifications == nil {
		notifications = []enroll.Notification{}
	}
	return respond(ctx, http.StatusOK, echo.Map{"notifications": notifications})
}
