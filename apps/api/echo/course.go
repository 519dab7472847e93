package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/anvesha/backend/core/course"
)

type courseApi struct {
	svc course.ServiceInterface
}

func registerCourseAPI(g *echo.Group, jwt echo.MiddlewareFunc, auth *jwtAuth, deps ServerDeps) {
	api := courseApi{svc: deps.CourseSvc}

	g.GET("/courses", api.query)
	g.GET("/students/:id/recommendations", api.recommend, jwt, ownStudentMiddleware(auth))
}

func (api *courseApi) query(ctx echo.Context) error {
	filter := course.Filter{
		Discipline: ctx.QueryParam("discipline"),
		Origin:     ctx.QueryParam("origin"),
		Level:      ctx.QueryParam("level"),
	}
	courses, err := api.svc.Filter(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "filtering courses")
	}
	if courses == nil {
		courses = []course.Course{}
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *courseApi) recommend(ctx echo.Context) error {
	id, err := contextStudentID(ctx)
	if err != nil {
		return err
	}
	recs, err := api.svc.Recommend(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "building recommendations")
	}
	if recs == nil {
		recs = []course.Recommendation{}
	}
	return ctx.JSON(http.StatusOK, recs)
}
