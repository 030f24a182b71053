package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"github.com/vsinha/replenish/pkg/application/dto"
	"github.com/vsinha/replenish/pkg/application/services/orchestration"
	"github.com/vsinha/replenish/pkg/application/services/recommendation"
	"github.com/vsinha/replenish/pkg/domain/entities"
	"github.com/vsinha/replenish/pkg/domain/repositories"
	"github.com/vsinha/replenish/pkg/domain/services"
	"github.com/vsinha/replenish/pkg/infrastructure/logging"
	"github.com/vsinha/replenish/pkg/interfaces/cli/output"
)

const maxBodyBytes = 10 << 20

// Handler exposes recommendation HTTP endpoints.
type Handler struct {
	orchestrator *orchestration.RecommendationOrchestrator
	capacity     services.CapacityChecker
	logger       logrus.FieldLogger
	now          func() time.Time
}

func NewHandler(
	orchestrator *orchestration.RecommendationOrchestrator,
	capacity services.CapacityChecker,
	logger logrus.FieldLogger,
) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		capacity:     capacity,
		logger:       logger,
		now:          time.Now,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.health) // GET    /healthz

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/recommendations", h.recommend) // POST   /api/v1/recommendations

		r.Route("/organizations/{orgID}", func(r chi.Router) {
			r.Put("/inventory", h.updateInventory)                  // PUT    /api/v1/organizations/{orgID}/inventory
			r.Post("/recompute", h.recompute)                       // POST   /api/v1/organizations/{orgID}/recompute
			r.Get("/recommendations", h.getRecommendations)         // GET    /api/v1/organizations/{orgID}/recommendations
			r.Get("/recommendations.xlsx", h.exportRecommendations) // GET    /api/v1/organizations/{orgID}/recommendations.xlsx
			r.Get("/products/{productID}/forecast", h.forecast)     // GET    /api/v1/organizations/{orgID}/products/{productID}/forecast
		})
	})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) recommend(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	result, err := h.orchestrator.Evaluate(r.Context(), input)
	if err != nil {
		h.respondError(w, "recommend", err)
		return
	}
	respond(w, http.StatusOK, dto.NewContainersResponse(result.Containers))
}

func (h *Handler) updateInventory(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")
	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	snapshot, err := h.orchestrator.UpdateInventory(r.Context(), orgID, input.Products, input.Orders, input.Today)
	if err != nil {
		h.respondError(w, "updateInventory", err)
		return
	}
	respond(w, http.StatusOK, dto.NewSnapshotResponse(snapshot))
}

// RecomputeRequest optionally pins the reference date of a recompute
type RecomputeRequest struct {
	Today string `json:"today"`
}

func (h *Handler) recompute(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")

	var req RecomputeRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
	}

	today := h.now()
	if req.Today != "" {
		parsed, err := time.Parse(dto.DateLayout, req.Today)
		if err != nil {
			respond(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("invalid today %q (expected YYYY-MM-DD)", req.Today)})
			return
		}
		today = parsed
	}

	snapshot, err := h.orchestrator.Recompute(r.Context(), orgID, today)
	if err != nil {
		h.respondError(w, "recompute", err)
		return
	}
	respond(w, http.StatusOK, dto.NewSnapshotResponse(snapshot))
}

func (h *Handler) getRecommendations(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")
	snapshot, err := h.orchestrator.Snapshot(orgID)
	if err != nil {
		h.respondError(w, "getRecommendations", err)
		return
	}
	respond(w, http.StatusOK, dto.NewSnapshotResponse(snapshot))
}

func (h *Handler) forecast(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")
	productID := entities.ProductID(chi.URLParam(r, "productID"))

	today := h.now()
	if v := r.URL.Query().Get("today"); v != "" {
		parsed, err := time.Parse(dto.DateLayout, v)
		if err != nil {
			respond(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("invalid today %q (expected YYYY-MM-DD)", v)})
			return
		}
		today = parsed
	}

	forecast, err := h.orchestrator.Forecast(orgID, productID, today)
	if err != nil {
		h.respondError(w, "forecast", err)
		return
	}
	respond(w, http.StatusOK, dto.NewProductForecastResponse(*forecast))
}

func (h *Handler) exportRecommendations(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")
	snapshot, err := h.orchestrator.Snapshot(orgID)
	if err != nil {
		h.respondError(w, "exportRecommendations", err)
		return
	}

	f, err := output.BuildWorkbook(snapshot.Containers, snapshot.Exclusions, h.capacity)
	if err != nil {
		h.respondError(w, "exportRecommendations", err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=recommendations-%s.xlsx", snapshot.Today.Format(dto.DateLayout)))
	if err := f.Write(w); err != nil {
		logging.LogError(h.logger, "api", "exportRecommendations", orgID, nil, err)
	}
}

func (h *Handler) decodeInput(w http.ResponseWriter, r *http.Request) (dto.RecommendationInput, bool) {
	var req dto.RecommendationRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return dto.RecommendationInput{}, false
	}

	input, err := req.ToInput(h.now())
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return dto.RecommendationInput{}, false
	}
	return input, true
}

func (h *Handler) respondError(w http.ResponseWriter, funcName string, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, repositories.ErrSnapshotNotFound),
		errors.Is(err, repositories.ErrProductNotFound):
		code = http.StatusNotFound
	case errors.Is(err, recommendation.ErrInvalidInput),
		errors.Is(err, recommendation.ErrDuplicateProduct),
		errors.Is(err, recommendation.ErrCartonExceedsCapacity):
		code = http.StatusUnprocessableEntity
	}
	if code == http.StatusInternalServerError {
		logging.LogError(h.logger, "api", funcName, "", nil, err)
	}
	respond(w, code, map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
