package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/andresuchdata/stockcast/internal/app"
	"github.com/andresuchdata/stockcast/internal/cache"
	"github.com/andresuchdata/stockcast/internal/config"
	"github.com/andresuchdata/stockcast/internal/replenishment"
	"github.com/andresuchdata/stockcast/internal/service"
	"github.com/urfave/cli/v2"
)

// withApp builds the application for a single command and closes it afterwards.
func withApp(cfg *config.Config, fn func(c *cli.Context, a *app.App) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		a, err := app.New(c.Context, cfg, nil)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(c, a)
	}
}

func runStatus(cfg *config.Config) cli.ActionFunc {
	return withApp(cfg, func(c *cli.Context, a *app.App) error {
		var horizon replenishment.Horizon
		if c.IsSet("days") {
			horizon = replenishment.ParseHorizon(c.String("days"))
		}
		payload, err := a.Service.Status(c.Context, c.String("product"), horizon)
		if err != nil {
			return err
		}
		return printJSON(c.App.Writer, payload)
	})
}

func runOverview(cfg *config.Config) cli.ActionFunc {
	return withApp(cfg, func(c *cli.Context, a *app.App) error {
		summaries, err := a.Service.Overview(c.Context)
		if err != nil {
			return err
		}
		return printJSON(c.App.Writer, summaries)
	})
}

func runProducts(cfg *config.Config) cli.ActionFunc {
	return withApp(cfg, func(c *cli.Context, a *app.App) error {
		products, err := a.Service.Products(c.Context)
		if err != nil {
			return err
		}
		for _, p := range products {
			fmt.Fprintln(c.App.Writer, p)
		}
		return nil
	})
}

func runReorder(cfg *config.Config) cli.ActionFunc {
	return withApp(cfg, func(c *cli.Context, a *app.App) error {
		if c.Int("quantity") <= 0 {
			return fmt.Errorf("quantity must be positive")
		}
		result, err := a.Service.SendReorder(c.Context, service.ReorderInput{
			Product:      c.String("product"),
			Quantity:     c.Int("quantity"),
			DeliveryDate: c.String("delivery-date"),
		})
		if printErr := printJSON(c.App.Writer, result); printErr != nil {
			return printErr
		}
		return err
	})
}

func runSyncArtifacts(cfg *config.Config) cli.ActionFunc {
	return func(c *cli.Context) error {
		return app.SyncArtifacts(c.Context, cfg.Artifacts)
	}
}

func runFetchWorkbook(cfg *config.Config) cli.ActionFunc {
	return func(c *cli.Context) error {
		return app.FetchWorkbook(c.Context, cfg)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runClearCache(cfg *config.Config) cli.ActionFunc {
	return func(c *cli.Context) error {
		if !cfg.Cache.Enabled {
			return fmt.Errorf("forecast cache is disabled (CACHE_ENABLED=false)")
		}
		forecastCache, err := cache.NewForecastCache(cfg.Cache)
		if err != nil {
			return err
		}
		return forecastCache.InvalidateAll(c.Context)
	}
}
