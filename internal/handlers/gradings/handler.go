package gradings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"gitlab.com/fcv-2025.net/grader/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/grader/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/grader/internal/core/services/grading"
	"gitlab.com/fcv-2025.net/grader/internal/core/services/language"
	"gitlab.com/fcv-2025.net/grader/internal/domain"
	"gitlab.com/fcv-2025.net/grader/internal/handlers/response"
	"gitlab.com/fcv-2025.net/grader/internal/static/errs"
)

const budgetHeader = "X-Grading-Budget"

// writeSlack covers storing the verdict and writing it after the budget is spent
const writeSlack = 30 * time.Second

// Dependencies are the collaborators of GradingHandler. Problems, Verdicts and
// Cache may be nil when the deployment runs without storage.
type Dependencies struct {
	Grading   grading.IGradingService
	Languages language.IRegistry
	Problems  secondary.ProblemRepository
	Verdicts  secondary.VerdictRepository
	Cache     secondary.VerdictCache
}

// GradingHandler handles grading API requests
type GradingHandler struct {
	deps   Dependencies
	logger primary.Logger
}

func NewGradingHandler(deps Dependencies, logger primary.Logger) *GradingHandler {
	return &GradingHandler{
		deps:   deps,
		logger: logger,
	}
}

// RegisterRoutes registers the API routes for GradingHandler
func (h *GradingHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/gradings", h.CreateGrading).Methods("POST")
	router.HandleFunc("/api/gradings/{gradingId}", h.GetGrading).Methods("GET")
	router.HandleFunc("/api/languages", h.GetLanguages).Methods("GET")
}

// CreateGrading grades a submission synchronously and returns its verdict
func (h *GradingHandler) CreateGrading(w http.ResponseWriter, r *http.Request) {
	var req CreateGradingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		response.WriteError(w, response.ErrorMessage{Message: "Invalid request", StatusCode: http.StatusBadRequest})
		return
	}
	if req.SubmissionID == uuid.Nil {
		req.SubmissionID = uuid.New()
	}

	if len(req.TestCases) == 0 && req.ProblemID != "" {
		testCases, ok := h.loadTestCases(r.Context(), w, req.ProblemID)
		if !ok {
			return
		}
		req.TestCases = testCases
	}

	// the server write timeout is sized for ordinary requests; a grading may
	// legitimately hold the response for its whole budget
	budget := h.deps.Grading.WorstCaseLatency(len(req.TestCases))
	w.Header().Set(budgetHeader, budget.String())
	if err := http.NewResponseController(w).SetWriteDeadline(time.Now().Add(budget + writeSlack)); err != nil {
		h.logger.Debug("Write deadline not extended", "error", err)
	}

	verdict, err := h.deps.Grading.Grade(r.Context(), req.toDomain())
	if err != nil {
		h.writeGradeError(w, err)
		return
	}

	h.store(r.Context(), verdict)
	w.Header().Set("Location", "/api/gradings/"+verdict.SubmissionID.String())
	response.WriteJSON(w, http.StatusCreated, verdict)
}

func (h *GradingHandler) loadTestCases(ctx context.Context, w http.ResponseWriter, problemID string) ([]domain.TestCase, bool) {
	if h.deps.Problems == nil {
		response.WriteError(w, response.ErrorMessage{Message: "Problem storage is not configured", StatusCode: http.StatusBadRequest})
		return nil, false
	}
	testCases, err := h.deps.Problems.GetTestCases(ctx, problemID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			response.WriteError(w, response.ErrorMessage{Message: "Problem not found", StatusCode: http.StatusNotFound})
			return nil, false
		}
		h.logger.Error("Failed to load test cases", "problemId", problemID, "error", err)
		response.WriteError(w, response.ErrorMessage{Message: "Failed to load test cases", StatusCode: http.StatusInternalServerError})
		return nil, false
	}
	return testCases, true
}

// store persists and caches a verdict; failures do not affect the response
func (h *GradingHandler) store(ctx context.Context, verdict *domain.GradingVerdict) {
	if h.deps.Verdicts != nil {
		if err := h.deps.Verdicts.SaveVerdict(ctx, verdict); err != nil {
			h.logger.Warn("Failed to persist verdict", "submissionId", verdict.SubmissionID, "error", err)
		}
	}
	if h.deps.Cache != nil {
		if err := h.deps.Cache.Put(ctx, verdict); err != nil {
			h.logger.Warn("Failed to cache verdict", "submissionId", verdict.SubmissionID, "error", err)
		}
	}
}

func (h *GradingHandler) writeGradeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Failed to grade submission"
	switch {
	case errors.Is(err, errs.ErrUnsupportedLanguage):
		status, message = http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, errs.ErrEmptySource), errors.Is(err, errs.ErrInvalidLimits):
		status, message = http.StatusBadRequest, err.Error()
	case errs.IsConfiguration(err):
		h.logger.Error("Judge is misconfigured", "error", err)
		message = "Grading is unavailable: judge credentials are misconfigured"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status, message = http.StatusServiceUnavailable, "Grading was cancelled"
	default:
		h.logger.Error("Failed to grade submission", "error", err)
	}
	response.WriteError(w, response.ErrorMessage{Message: message, StatusCode: status})
}

// GetGrading returns a stored verdict, preferring the cache
func (h *GradingHandler) GetGrading(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["gradingId"]
	id, err := uuid.Parse(idStr)
	if err != nil {
		h.logger.Error("Invalid grading ID", "id", idStr)
		response.WriteError(w, response.ErrorMessage{Message: "Invalid grading ID", StatusCode: http.StatusBadRequest})
		return
	}

	if h.deps.Cache != nil {
		verdict, err := h.deps.Cache.Get(r.Context(), id)
		if err != nil {
			h.logger.Warn("Verdict cache lookup failed", "submissionId", id, "error", err)
		}
		if verdict != nil {
			response.WriteSuccess(w, verdict)
			return
		}
	}

	if h.deps.Verdicts == nil {
		response.WriteError(w, response.ErrorMessage{Message: "Grading not found", StatusCode: http.StatusNotFound})
		return
	}
	verdict, err := h.deps.Verdicts.GetVerdict(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get grading", "submissionId", id, "error", err)
		response.WriteError(w, response.ErrorMessage{Message: "Failed to get grading", StatusCode: http.StatusInternalServerError})
		return
	}
	if verdict == nil {
		response.WriteError(w, response.ErrorMessage{Message: "Grading not found", StatusCode: http.StatusNotFound})
		return
	}

	if h.deps.Cache != nil {
		if err := h.deps.Cache.Put(r.Context(), verdict); err != nil {
			h.logger.Warn("Failed to cache verdict", "submissionId", id, "error", err)
		}
	}
	response.WriteSuccess(w, verdict)
}

// GetLanguages lists the languages submissions may use
func (h *GradingHandler) GetLanguages(w http.ResponseWriter, r *http.Request) {
	response.WriteSuccess(w, LanguagesResponse{
		Languages:         h.deps.Languages.Languages(),
		PollBudgetSeconds: h.deps.Grading.WorstCaseLatency(1).Seconds(),
	})
}
