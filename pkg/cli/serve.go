/*
Copyright © 2026 Cudalis Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"

	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"

	"github.com/cudalis/cudalis/pkg/server"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:                  "serve",
		EnableShellCompletion: true,
		Usage:                 "Serve version resolution over HTTP",
		Description: `Start the resolver API server. Exposes /v1/resolve, /v1/plan, and
/v1/catalog plus health and Prometheus metrics endpoints. Builds are not
exposed over the API; they need a local container engine.

Examples:
  cudalis serve
  cudalis serve --port 9090 --catalog ./catalog.yaml`,
		Flags: []cli.Flag{
			catalogFlag(),
			&cli.StringFlag{
				Name:  "address",
				Usage: "Address to bind",
			},
			&cli.IntFlag{
				Name:    "port",
				Usage:   "Port to listen on",
				Sources: cli.EnvVars("PORT"),
				Value:   8080,
			},
			&cli.FloatFlag{
				Name:  "rate-limit",
				Usage: "Maximum requests per second",
				Value: 100,
			},
			&cli.IntFlag{
				Name:  "rate-limit-burst",
				Usage: "Maximum request burst",
				Value: 200,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := server.DefaultConfig()
			cfg.Address = cmd.String("address")
			cfg.Port = int(cmd.Int("port"))
			cfg.CatalogPath = cmd.String("catalog")
			cfg.RateLimit = rate.Limit(cmd.Float("rate-limit"))
			cfg.RateLimitBurst = int(cmd.Int("rate-limit-burst"))

			return server.Run(cfg)
		},
	}
}
