/*
Copyright © 2026 Cudalis Authors
SPDX-License-Identifier: Apache-2.0
*/

package server

import (
	"context"
	"net/http"
	"time"

	"github.com/cudalis/cudalis/pkg/catalog"
	"github.com/cudalis/cudalis/pkg/defaults"
	cuderrors "github.com/cudalis/cudalis/pkg/errors"
	"github.com/cudalis/cudalis/pkg/plan"
	"github.com/cudalis/cudalis/pkg/resolver"
	"github.com/cudalis/cudalis/pkg/serializer"
)

// ResolveResponse is the body for GET /v1/resolve.
type ResolveResponse struct {
	Triple    resolver.Triple `json:"triple"`
	Image     string          `json:"image"`
	Timestamp time.Time       `json:"timestamp"`
}

// constraintsFromQuery parses the python, torch, and cuda query parameters.
// Missing parameters mean unconstrained.
func constraintsFromQuery(r *http.Request) (catalog.Constraints, error) {
	q := r.URL.Query()

	python, err := catalog.ParseConstraint(q.Get("python"))
	if err != nil {
		return catalog.Constraints{}, cuderrors.Wrap(cuderrors.ErrCodeInvalidRequest,
			"invalid python constraint", err)
	}
	torch, err := catalog.ParseConstraint(q.Get("torch"))
	if err != nil {
		return catalog.Constraints{}, cuderrors.Wrap(cuderrors.ErrCodeInvalidRequest,
			"invalid torch constraint", err)
	}
	cuda, err := catalog.ParseCudaConstraint(q.Get("cuda"))
	if err != nil {
		return catalog.Constraints{}, cuderrors.Wrap(cuderrors.ErrCodeInvalidRequest,
			"invalid cuda constraint", err)
	}

	return catalog.Constraints{Python: python, Torch: torch, Cuda: cuda}, nil
}

// handleResolve handles GET /v1/resolve.
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, cuderrors.ErrCodeMethodNotAllowed,
			"Method not allowed", false, nil)
		return
	}

	cons, err := constraintsFromQuery(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, cuderrors.CodeOf(err), err.Error(), false, nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaults.ResolveHandlerTimeout)
	defer cancel()

	triple, err := s.resolver.Resolve(ctx, s.catalog, cons)
	if err != nil {
		writeError(w, r, statusFor(err), cuderrors.CodeOf(err), err.Error(), false,
			map[string]any{"constraints": cons.String()})
		return
	}

	serializer.RespondJSON(w, http.StatusOK, ResolveResponse{
		Triple:    triple,
		Image:     plan.ImageName(triple),
		Timestamp: time.Now().UTC(),
	})
}

// handlePlan handles GET /v1/plan: resolve plus plan generation.
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, cuderrors.ErrCodeMethodNotAllowed,
			"Method not allowed", false, nil)
		return
	}

	cons, err := constraintsFromQuery(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, cuderrors.CodeOf(err), err.Error(), false, nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaults.PlanHandlerTimeout)
	defer cancel()

	triple, err := s.resolver.Resolve(ctx, s.catalog, cons)
	if err != nil {
		writeError(w, r, statusFor(err), cuderrors.CodeOf(err), err.Error(), false,
			map[string]any{"constraints": cons.String()})
		return
	}

	p, err := s.planner.Generate(triple)
	if err != nil {
		writeError(w, r, statusFor(err), cuderrors.CodeOf(err), err.Error(), false, nil)
		return
	}

	serializer.RespondJSON(w, http.StatusOK, p)
}

// handleCatalog handles GET /v1/catalog: the full compatibility table.
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, cuderrors.ErrCodeMethodNotAllowed,
			"Method not allowed", false, nil)
		return
	}

	serializer.RespondJSON(w, http.StatusOK, struct {
		Entries []catalog.Entry `json:"entries"`
		Count   int             `json:"count"`
	}{
		Entries: s.catalog.Entries(),
		Count:   s.catalog.Len(),
	})
}
