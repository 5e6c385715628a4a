package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/report"
	"github.com/trezcool/darasa/core/user"
)

type reportApi struct {
	usrSvc user.Service
	svc    *report.Service
}

func registerReportAPI(g *echo.Group, jwt echo.MiddlewareFunc, usrSvc user.Service, svc *report.Service) {
	api := reportApi{usrSvc: usrSvc, svc: svc}

	g.GET("/dashboard", api.dashboard, jwt)
	g.GET("/courses/:id/analytics", api.courseAnalytics, jwt)
}

func (api *reportApi) dashboard(ctx echo.Context) error {
	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	entries, err := api.svc.StudentDashboard(ctx.Request().Context(), actor)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *reportApi) courseAnalytics(ctx echo.Context) error {
	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	analytics, err := api.svc.CourseAnalytics(ctx.Request().Context(), actor, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, analytics)
}
