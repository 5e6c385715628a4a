package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/quiz"
	"github.com/trezcool/darasa/core/user"
)

type quizApi struct {
	usrSvc user.Service
	svc    *quiz.Service
}

func registerQuizAPI(g *echo.Group, jwt echo.MiddlewareFunc, usrSvc user.Service, svc *quiz.Service) {
	api := quizApi{usrSvc: usrSvc, svc: svc}

	qg := g.Group("/quizzes", jwt)
	qg.POST("/:id/attempts", api.submit)
	qg.GET("/:id/attempts", api.queryByQuiz)
	qg.GET("/:id/stats", api.stats)

	ag := g.Group("/attempts", jwt)
	ag.GET("", api.queryMine)
	ag.GET("/:id", api.retrieve)
}

func (api *quizApi) submit(ctx echo.Context) error {
	var data quiz.NewSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubmission")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	att, err := api.svc.Submit(ctx.Request().Context(), actor, ctx.Param("id"), data.Answers)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, att)
}

func (api *quizApi) retrieve(ctx echo.Context) error {
	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	att, err := api.svc.GetAttempt(ctx.Request().Context(), actor, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, att)
}

func (api *quizApi) queryMine(ctx echo.Context) error {
	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	attempts, err := api.svc.QueryMine(ctx.Request().Context(), actor)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, attempts)
}

func (api *quizApi) queryByQuiz(ctx echo.Context) error {
	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	attempts, err := api.svc.QueryByQuiz(ctx.Request().Context(), actor, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, attempts)
}

func (api *quizApi) stats(ctx echo.Context) error {
	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	stats, err := api.svc.StatsByQuiz(ctx.Request().Context(), actor, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, stats)
}
