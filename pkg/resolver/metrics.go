/*
Copyright © 2026 Cudalis Authors
SPDX-License-Identifier: Apache-2.0
*/

package resolver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

var (
	resolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cudalis_resolutions_total",
			Help: "Total number of version resolutions by outcome",
		},
		[]string{"outcome"},
	)

	resolveDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cudalis_resolve_duration_seconds",
			Help:    "Duration of version resolution in seconds",
			Buckets: []float64{.0001, .001, .01, .1, 1},
		},
	)
)
