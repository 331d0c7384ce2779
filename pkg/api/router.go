package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/klothoplatform/stackquery/pkg/tiers"
	"github.com/klothoplatform/stackquery/pkg/workspace"
	"go.uber.org/zap"
)

const (
	PathListDemoTiers   = "/list_demo_tiers"
	PathGetTierConfig   = "/get_tier_config"
	PathListStacks      = "/list_stacks"
	PathGetStackDetails = "/get_stack_details"

	// StackNameParam is the query parameter naming the stack for PathGetStackDetails.
	StackNameParam = "stack_name"
)

type (
	// StackQuerier is implemented by *tiers.Service.
	StackQuerier interface {
		ListQualifyingStacks(ctx context.Context) ([]workspace.StackSummary, error)
		ListStacks(ctx context.Context) ([]workspace.StackSummary, error)
		StackDetails(ctx context.Context, name string) tiers.StackDetails
	}

	Route struct {
		Method  string
		Path    string
		Handler http.Handler
	}

	API struct {
		Stacks StackQuerier
	}
)

// Routes is the dispatch table. Anything not listed here, including a listed path with
// another method, is answered by NotFound.
func (a *API) Routes() []Route {
	return []Route{
		{Method: http.MethodGet, Path: PathListDemoTiers, Handler: listHandler{list: a.Stacks.ListQualifyingStacks}},
		{Method: http.MethodGet, Path: PathGetTierConfig, Handler: http.HandlerFunc(tierConfig)},
		{Method: http.MethodGet, Path: PathListStacks, Handler: listHandler{list: a.Stacks.ListStacks}},
		{Method: http.MethodGet, Path: PathGetStackDetails, Handler: detailsHandler{stacks: a.Stacks}},
	}
}

// Handler builds the HTTP handler serving Routes, logging through log.
func (a *API) Handler(log *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(log.Named("api")))
	r.NotFound(NotFound)
	r.MethodNotAllowed(NotFound)
	for _, route := range a.Routes() {
		r.Method(route.Method, route.Path, route.Handler)
	}
	return r
}
