package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/grade"
	"github.com/darasahq/darasa/core/policy"
	"github.com/darasahq/darasa/core/user"
)

type gradeApi struct {
	svc    grade.Service
	usrSvc user.Service
}

func registerGradeAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := gradeApi{svc: deps.GradeSvc, usrSvc: deps.UserSvc}

	gg := g.Group("/grades", jwt)
	gg.GET("", api.query)
}

// query returns a student's grades with summary stats. Students may only query
// their own; admins and teachers may pass any studentId.
func (api *gradeApi) query(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	studentID := core.CleanString(ctx.QueryParam("studentId"))
	if studentID == "" {
		studentID = ctxUsr.ID
	}
	if !policy.Allows(ctxUsr, policy.ResourceGrade, policy.ActionList, studentID) {
		return core.NewPermissionError("You can only view your own grades")
	}

	grades, stats, err := api.svc.QueryForUser(ctx.Request().Context(), studentID)
	if err != nil {
		return errors.Wrap(err, "querying grades")
	}
	if grades == nil {
		grades = []grade.Grade{}
	}
	return respond(ctx, http.StatusOK, echo.Map{
		"grades": grades,
		"stats":  stats,
	})
}
