package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Response time for this component"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(_ context.Context, _ *struct{}) (*HealthOutput, error) {
	components := map[string]ComponentHealth{
		"catalog": s.checkCatalog(),
	}
	if s.services.Search != nil {
		components["search"] = s.checkSearchIndex()
	}

	overall := "healthy"
	for _, c := range components {
		switch c.Status {
		case "unhealthy":
			overall = "unhealthy"
		case "degraded":
			if overall == "healthy" {
				overall = "degraded"
			}
		}
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:     overall,
			Components: components,
		},
	}, nil
}

// checkCatalog reports the loaded collection sizes.
func (s *Server) checkCatalog() ComponentHealth {
	if s.services.Catalog == nil {
		return ComponentHealth{
			Status:  "unhealthy",
			Message: "catalog not loaded",
		}
	}

	return ComponentHealth{
		Status: "healthy",
		Message: fmt.Sprintf("%d books, %d tags",
			len(s.services.Catalog.RawBooks()), len(s.services.Catalog.Tags())),
	}
}

// checkSearchIndex verifies the Bleve index is accessible and in step
// with the catalog.
func (s *Server) checkSearchIndex() ComponentHealth {
	start := time.Now()

	docCount, err := s.services.Search.DocumentCount()
	latency := time.Since(start)

	if err != nil {
		return ComponentHealth{
			Status:  "unhealthy",
			Latency: latency.String(),
			Message: "search index unreachable",
		}
	}

	if s.services.Catalog != nil {
		if books := len(s.services.Catalog.RawBooks()); uint64(books) != docCount {
			return ComponentHealth{
				Status:  "degraded",
				Latency: latency.String(),
				Message: fmt.Sprintf("index holds %d of %d books", docCount, books),
			}
		}
	}

	return ComponentHealth{
		Status:  "healthy",
		Latency: latency.String(),
	}
}
