package main

import (
	"os"

	"github.com/andresuchdata/stockcast/internal/config"
	"github.com/andresuchdata/stockcast/pkg/logger"
	"github.com/urfave/cli/v2"
)

func main() {
	cfg := config.Load()
	// stdout carries command output; logs go to stderr
	logger.ConfigureOutput(os.Stderr, "console", "warn")

	app := &cli.App{
		Name:      "stockcast",
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		Usage:     "Inspect replenishment decisions and manage forecast inputs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "warn",
				EnvVars: []string{"STOCKCAST_LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.SetLevel(c.String("log-level"))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "status",
				Usage: "Print the replenishment decision for one product",
				Flags: []cli.Flag{
					newProductFlag(),
					&cli.StringFlag{
						Name:  "days",
						Usage: "Also compute the quantity needed for the next N days",
					},
				},
				Action: runStatus(cfg),
			},
			{
				Name:   "overview",
				Usage:  "Print the stock overview of every catalog product",
				Action: runOverview(cfg),
			},
			{
				Name:   "products",
				Usage:  "List the product catalog",
				Action: runProducts(cfg),
			},
			{
				Name:  "reorder",
				Usage: "Send a reorder request to the product's vendor",
				Flags: []cli.Flag{
					newProductFlag(),
					&cli.IntFlag{
						Name:     "quantity",
						Usage:    "Units to order",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "delivery-date",
						Usage: "Expected delivery date (YYYY-MM-DD); defaults to today plus the lead time",
					},
				},
				Action: runReorder(cfg),
			},
			{
				Name:   "sync-artifacts",
				Usage:  "Download model and scaler artifacts from object storage",
				Action: runSyncArtifacts(cfg),
			},
			{
				Name:   "clear-cache",
				Usage:  "Drop every cached forecast",
				Action: runClearCache(cfg),
			},
			{
				Name:   "fetch-workbook",
				Usage:  "Download the sales/inventory workbook from Google Drive",
				Action: runFetchWorkbook(cfg),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("stockcast failed")
	}
}

func newProductFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "product",
		Aliases:  []string{"p"},
		Usage:    "Product identifier, e.g. Product_1",
		Required: true,
	}
}
