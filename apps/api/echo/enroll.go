package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/enroll"
	"github.com/trezcool/darasa/core/user"
)

type enrollApi struct {
	usrSvc user.Service
	svc    *enroll.Service
}

func registerEnrollmentAPI(g *echo.Group, jwt echo.MiddlewareFunc, usrSvc user.Service, svc *enroll.Service) {
	api := enrollApi{usrSvc: usrSvc, svc: svc}

	cg := g.Group("/courses", jwt)
	cg.POST("/:id/enroll", api.enroll)
	cg.GET("/:id/progress", api.progress)
	cg.GET("/:id/enrollments", api.queryByCourse)

	lg := g.Group("/lessons", jwt)
	lg.POST("/:id/complete", api.completeLesson)

	eg := g.Group("/enrollments", jwt)
	eg.GET("", api.queryMine)
}

// enroll is idempotent: a fresh enrollment yields 201, re-enrolling yields 200
// with the existing enrollment.
func (api *enrollApi) enroll(ctx echo.Context) error {
	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	enr, created, err := api.svc.Enroll(ctx.Request().Context(), actor, ctx.Param("id"))
	if err != nil {
		return err
	}
	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	return ctx.JSON(code, enr)
}

func (api *enrollApi) completeLesson(ctx echo.Context) error {
	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	prog, created, err := api.svc.MarkLessonCompleted(ctx.Request().Context(), actor, ctx.Param("id"))
	if err != nil {
		return err
	}
	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	return ctx.JSON(code, prog)
}

func (api *enrollApi) progress(ctx echo.Context) error {
	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	prog, err := api.svc.Progress(ctx.Request().Context(), actor, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, prog)
}

func (api *enrollApi) queryMine(ctx echo.Context) error {
	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	enrollments, err := api.svc.QueryByStudent(ctx.Request().Context(), actor.ID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, enrollments)
}

func (api *enrollApi) queryByCourse(ctx echo.Context) error {
	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	enrollments, err := api.svc.QueryByCourse(ctx.Request().Context(), actor, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, enrollments)
}
