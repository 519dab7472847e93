package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/anvesha/backend/core/performance"
)

type performanceApi struct {
	svc      performance.ServiceInterface
	validate *validator.Validate
}

// registerPerformanceAPI mounts the analytics and activity endpoints on an
// already-authed /students/:id group.
func registerPerformanceAPI(g *echo.Group, deps ServerDeps) {
	api := performanceApi{
		svc:      deps.PerfSvc,
		validate: deps.Validate,
	}

	g.GET("/performance", api.retrieve)
	g.PUT("/performance/time-spent", api.updateTimeSpent)
	g.PUT("/performance/daily-progress", api.updateDailyProgress)

	g.GET("/activities", api.listActivities)
	g.POST("/activities", api.addActivity)
	g.PUT("/activities/:courseID", api.logActivity)
}

// retrieve rebuilds the analytics from the activity logs, persists them and
// returns the fresh record.
func (api *performanceApi) retrieve(ctx echo.Context) error {
	id, err := contextStudentID(ctx)
	if err != nil {
		return err
	}
	perf, _, err := api.svc.Rebuild(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "rebuilding performance")
	}
	return ctx.JSON(http.StatusOK, perf)
}

func (api *performanceApi) updateTimeSpent(ctx echo.Context) error {
	id, err := contextStudentID(ctx)
	if err != nil {
		return err
	}
	ts, err := api.svc.UpdateTimeSpentFromActivity(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "updating time spent")
	}
	return ctx.JSON(http.StatusOK, ts)
}

func (api *performanceApi) updateDailyProgress(ctx echo.Context) error {
	id, err := contextStudentID(ctx)
	if err != nil {
		return err
	}
	dp, err := api.svc.UpdateDailyProgressFromActivity(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "updating daily progress")
	}
	return ctx.JSON(http.StatusOK, dp)
}

func (api *performanceApi) listActivities(ctx echo.Context) error {
	id, err := contextStudentID(ctx)
	if err != nil {
		return err
	}
	activities, err := api.svc.ListActivities(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "listing activities")
	}
	if activities == nil {
		activities = []performance.Activity{}
	}
	return ctx.JSON(http.StatusOK, activities)
}

func (api *performanceApi) addActivity(ctx echo.Context) error {
	id, err := contextStudentID(ctx)
	if err != nil {
		return err
	}

	var data performance.NewActivityInput
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewActivityInput")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	act, err := api.svc.AddActivity(ctx.Request().Context(), id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, act)
}

func (api *performanceApi) logActivity(ctx echo.Context) error {
	id, err := contextStudentID(ctx)
	if err != nil {
		return err
	}

	var data performance.LogActivityInput
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LogActivityInput")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.svc.LogActivity(ctx.Request().Context(), id, ctx.Param("courseID"), data.DurationMinutes); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "activity logged"})
}
