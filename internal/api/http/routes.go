package httpapi

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/export"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

const (
	headerDataSource = "X-Data-Source"
	headerBuildID    = "X-Build-ID"
)

var validate = validator.New()

// Builder produces one aggregate per request.
type Builder interface {
	BuildResult(ctx context.Context, req weather.Request) weather.Result
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, builder Builder, board *dashboard.Board, now func() time.Time) {
	v1 := app.Group("/api/v1")

	v1.Get("/dashboard", func(c *fiber.Ctx) error {
		req, err := parseDashboardQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		res := builder.BuildResult(c.UserContext(), req)
		board.Apply(req, res)

		setSourceHeaders(c, res.Aggregate, res.BuildID)
		return c.JSON(res.Aggregate)
	})

	v1.Get("/dashboard/latest", func(c *fiber.Ctx) error {
		req, err := parseDashboardQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		view, err := board.Latest(req)
		if err != nil {
			if errors.Is(err, dashboard.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no dashboard data for requested view")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read dashboard")
		}

		setSourceHeaders(c, view.Aggregate, view.BuildID)
		return c.JSON(view)
	})

	v1.Get("/dashboard/export", func(c *fiber.Ctx) error {
		req, err := parseDashboardQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		// Export what is displayed; build only when nothing is.
		view, err := board.Latest(req)
		if err != nil {
			res := builder.BuildResult(c.UserContext(), req)
			board.Apply(req, res)
			view = dashboard.View{Aggregate: res.Aggregate, BuildID: res.BuildID}
		}

		ts := now()
		var buf bytes.Buffer
		if err := export.Write(&buf, req.Location, view.Aggregate, ts); err != nil {
			log.Printf("ERROR: export for %q failed: %v", req.Location, err)
			return fiber.NewError(fiber.StatusInternalServerError, "failed to export dashboard")
		}

		setSourceHeaders(c, view.Aggregate, view.BuildID)
		c.Attachment(export.FileName(req.Location, ts))
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		return c.Send(buf.Bytes())
	})
}

// dashboardQuery holds query parameters identifying one dashboard view.
type dashboardQuery struct {
	Location string `validate:"required,max=200"`
	// Unknown codes are served as 7d rather than rejected.
	Range string `validate:"omitempty,max=16"`
}

func parseDashboardQuery(c *fiber.Ctx) (weather.Request, error) {
	q := dashboardQuery{
		Location: strings.TrimSpace(c.Query("location")),
		Range:    strings.TrimSpace(c.Query("range")),
	}

	if err := validate.Struct(q); err != nil {
		return weather.Request{}, err
	}

	return weather.Request{
		Location: q.Location,
		Range:    weather.RangeCode(q.Range).Normalize(),
	}, nil
}

func setSourceHeaders(c *fiber.Ctx, agg weather.Aggregate, buildID string) {
	c.Set(headerDataSource, string(agg.Source))
	if buildID != "" {
		c.Set(headerBuildID, buildID)
	}
}
