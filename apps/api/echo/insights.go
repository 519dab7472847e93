package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anvesha/backend/core/insights"
)

type insightsApi struct {
	svc insights.ServiceInterface
}

func registerInsightsAPI(g *echo.Group, deps ServerDeps) {
	api := insightsApi{svc: deps.InsightsSvc}

	ig := g.Group("/insights")
	ig.GET("/dashboard/:dataset", api.dashboard)
	ig.GET("/reports/:dataset/latest", api.latestReport)

	g.GET("/reports/:id", api.reportHTML)
}

func (api *insightsApi) dashboard(ctx echo.Context) error {
	stats, err := api.svc.Dashboard(ctx.Request().Context(), ctx.Param("dataset"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *insightsApi) latestReport(ctx echo.Context) error {
	summary, err := api.svc.LatestReport(ctx.Request().Context(), ctx.Param("dataset"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, summary)
}

// reportHTML serves the archived report body as a standalone page.
func (api *insightsApi) reportHTML(ctx echo.Context) error {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	html, err := api.svc.ReportHTML(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "loading report")
	}
	return ctx.HTML(http.StatusOK, html)
}
