/*
Copyright © 2026 Cudalis Authors
SPDX-License-Identifier: Apache-2.0
*/

package orchestrator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess   = "success"
	outcomeFailure   = "failure"
	outcomeCancelled = "cancelled"
)

var (
	buildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cudalis_builds_total",
			Help: "Total number of build executions by outcome",
		},
		[]string{"outcome"},
	)

	buildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cudalis_build_duration_seconds",
			Help:    "Duration of successful builds in seconds",
			Buckets: []float64{10, 30, 60, 120, 300, 600, 1800, 3600},
		},
	)

	stepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cudalis_build_step_duration_seconds",
			Help:    "Duration of individual build steps in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"kind"},
	)

	stepsCachedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cudalis_build_steps_cached_total",
			Help: "Total number of build steps satisfied from layer cache",
		},
	)
)
