package api

import (
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/freewebtopdf/objcompare/internal/domain"
	"github.com/freewebtopdf/objcompare/internal/factory"
	"github.com/freewebtopdf/objcompare/internal/loader"
)

// Handlers contains all HTTP handlers for the comparison API
type Handlers struct {
	repository    domain.ProfileRepository
	cache         domain.ProfileCache
	healthChecker domain.HealthChecker
	parser        *loader.Parser
	requests      *validator.Validate
	defaultDetail domain.Detail
	startTime     time.Time

	comparisons atomic.Int64
	mismatches  atomic.Int64
}

// NewHandlers creates a new instance of API handlers
func NewHandlers(repository domain.ProfileRepository, cache domain.ProfileCache, healthChecker domain.HealthChecker, defaultDetail domain.Detail) *Handlers {
	if defaultDetail == "" {
		defaultDetail = domain.DetailFailures
	}
	return &Handlers{
		repository:    repository,
		cache:         cache,
		healthChecker: healthChecker,
		parser:        loader.NewParser(),
		requests:      validator.New(),
		defaultDetail: defaultDetail,
		startTime:     time.Now(),
	}
}

// CompareRequest represents the request payload for the compare endpoint
// @Description Two JSON documents and the profile to compare them with
type CompareRequest struct {
	ProfileName string          `json:"profile_name,omitempty" validate:"omitempty,max=128" example:"nutrition"`
	Profile     json.RawMessage `json:"profile,omitempty" swaggertype:"object"`
	Expected    json.RawMessage `json:"expected" swaggertype:"object"`
	Actual      json.RawMessage `json:"actual" swaggertype:"object"`
	Detail      string          `json:"detail,omitempty" example:"failures"`
	Format      string          `json:"format,omitempty" validate:"omitempty,oneof=json table" example:"json"`
}

// CompareResponse represents the outcome of a comparison
// @Description Comparison outcome with the fields selected by the detail level
type CompareResponse struct {
	Matches     bool                 `json:"matches" example:"false"`
	Summary     string               `json:"summary" example:"Comparison failed with 1 differences"`
	ProfileHash string               `json:"profile_hash" example:"9f2c..."`
	Detail      domain.Detail        `json:"detail" example:"failures"`
	Fields      []domain.FieldResult `json:"fields"`
	Table       string               `json:"table,omitempty"`
}

// ErrorResponse represents the standard error response format
// @Description Standard error response format
type ErrorResponse struct {
	Status  string `json:"status" example:"error"`
	Code    string `json:"code" example:"CONFIGURATION_ERROR"`
	Message string `json:"message" example:"Invalid profile configuration"`
	Details any    `json:"details,omitempty"`
}

// SuccessResponse represents the standard success response format
// @Description Standard success response format
type SuccessResponse struct {
	Status string `json:"status" example:"success"`
	Data   any    `json:"data"`
}

// ProfileListResponse represents the response for listing profiles
// @Description Stored profiles
type ProfileListResponse struct {
	Profiles []domain.ProfileInfo `json:"profiles"`
	Count    int                  `json:"count" example:"3"`
}

// ProfileResponse represents one stored profile
// @Description A stored profile and its metadata
type ProfileResponse struct {
	Info    *domain.ProfileInfo `json:"info"`
	Profile *domain.Profile     `json:"profile,omitempty"`
}

// MetricsResponse represents the metrics response
// @Description Service metrics
type MetricsResponse struct {
	Comparisons struct {
		Total      int64 `json:"total" example:"120"`
		Mismatches int64 `json:"mismatches" example:"7"`
	} `json:"comparisons"`
	ProfileCache domain.CacheStats `json:"profile_cache"`
	Storage      map[string]any    `json:"storage"`
	Uptime       struct {
		Seconds   float64 `json:"seconds" example:"3600"`
		Timestamp string  `json:"timestamp" example:"2026-01-01T12:00:00Z"`
	} `json:"uptime"`
}

// CompareHandler handles POST /v1/compare requests
// @Summary      Compare two JSON documents
// @Description  Compares expected against actual using a stored or inline profile. A mismatch is a successful response with matches=false.
// @Tags         Comparison
// @Accept       json
// @Produce      json
// @Param        request body CompareRequest true "Documents and profile"
// @Success      200 {object} SuccessResponse{data=CompareResponse} "Comparison finished"
// @Failure      400 {object} ErrorResponse "Invalid request payload or detail level"
// @Failure      404 {object} ErrorResponse "Profile not found"
// @Failure      422 {object} ErrorResponse "Invalid profile configuration"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /v1/compare [post]
func (h *Handlers) CompareHandler(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req CompareRequest
	if err := c.BodyParser(&req); err != nil {
		return h.sendError(c, domain.NewAppError(
			domain.ErrInvalidInput,
			"Invalid JSON payload",
			400,
			map[string]string{"error": err.Error()},
		).WithContext(ctx, "compare_request_parsing"))
	}

	req.ProfileName = strings.TrimSpace(req.ProfileName)
	if err := h.requests.Struct(&req); err != nil {
		return h.sendError(c, domain.NewAppErrorWithCause(
			domain.ErrInvalidInput,
			"Invalid compare request",
			400,
			err,
			map[string]string{"error": err.Error()},
		).WithContext(ctx, "compare_request_validation"))
	}
	if len(req.Expected) == 0 || len(req.Actual) == 0 {
		return h.sendError(c, domain.NewAppError(
			domain.ErrInvalidInput,
			"Both expected and actual documents are required",
			400,
			map[string]string{"field": "expected,actual", "reason": "required"},
		).WithContext(ctx, "compare_request_validation"))
	}
	if req.ProfileName != "" && len(req.Profile) > 0 {
		return h.sendError(c, domain.NewAppError(
			domain.ErrInvalidInput,
			"Specify either profile_name or profile, not both",
			400,
			nil,
		).WithContext(ctx, "compare_request_validation"))
	}

	detail := h.defaultDetail
	if req.Detail != "" {
		parsed, err := domain.ParseDetail(req.Detail)
		if err != nil {
			return h.sendAppError(c, err, "compare_detail")
		}
		detail = parsed
	}

	profile, name, err := h.resolveProfile(c, &req)
	if err != nil {
		return h.sendAppError(c, err, "compare_profile")
	}

	expected, err := loader.DecodeDocument(req.Expected)
	if err != nil {
		return h.sendDocumentError(c, "expected", err)
	}
	actual, err := loader.DecodeDocument(req.Actual)
	if err != nil {
		return h.sendDocumentError(c, "actual", err)
	}

	comparer, err := factory.Create(profile,
		factory.WithLogger(log.Logger),
		factory.WithProfileCache(h.cache),
		factory.WithProfileName(name),
	)
	if err != nil {
		return h.sendAppError(c, err, "compare_create")
	}

	result := comparer.Compare(expected, actual)
	h.comparisons.Add(1)
	if !result.Matches() {
		h.mismatches.Add(1)
	}

	visible, err := result.ForDetail(detail)
	if err != nil {
		return h.sendAppError(c, err, "compare_render")
	}

	resp := CompareResponse{
		Matches:     result.Matches(),
		Summary:     result.Summary(),
		ProfileHash: comparer.ProfileHash(),
		Detail:      detail,
		Fields:      visible.Fields(),
	}
	if req.Format == domain.LogFormatTable {
		table, err := result.FormatTable(detail)
		if err != nil {
			return h.sendAppError(c, err, "compare_render")
		}
		resp.Table = table
	}

	return c.Status(200).JSON(SuccessResponse{Status: "success", Data: resp})
}

// resolveProfile picks the stored profile, the inline profile, or an empty one
func (h *Handlers) resolveProfile(c *fiber.Ctx, req *CompareRequest) (*domain.Profile, string, error) {
	if req.ProfileName != "" {
		profile, err := h.repository.GetProfile(c.UserContext(), req.ProfileName)
		if err != nil {
			return nil, "", err
		}
		return profile, req.ProfileName, nil
	}
	if len(req.Profile) > 0 && string(req.Profile) != "null" {
		profile, err := h.parseInlineProfile(req.Profile)
		if err != nil {
			return nil, "", err
		}
		return profile, "", nil
	}
	return domain.NewProfile(), "", nil
}

// parseInlineProfile parses a profile document sent over HTTP. Inline
// documents may not extend files on the server.
func (h *Handlers) parseInlineProfile(data []byte) (*domain.Profile, error) {
	var probe struct {
		Extends *string `json:"extends"`
	}
	if err := json.Unmarshal(data, &probe); err == nil && probe.Extends != nil {
		return nil, domain.NewConfigurationError(
			"Invalid profile configuration: extends is not supported for profiles sent over HTTP",
			map[string]any{"field": "extends"},
		)
	}
	return h.parser.ParseContent(data, "json")
}

// ListProfilesHandler handles GET /v1/profiles requests
// @Summary      List stored profiles
// @Description  Retrieves information about every stored comparison profile
// @Tags         Profiles
// @Produce      json
// @Success      200 {object} SuccessResponse{data=ProfileListResponse} "Successfully retrieved profiles"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /v1/profiles [get]
func (h *Handlers) ListProfilesHandler(c *fiber.Ctx) error {
	ctx := c.UserContext()

	profiles, err := h.repository.ListProfiles(ctx)
	if err != nil {
		log.Error().
			Err(err).
			Str("request_id", requestID(c)).
			Msg("Failed to list profiles")

		return h.sendError(c, domain.NewAppError(
			domain.ErrInternal,
			"Failed to retrieve profiles",
			500,
			nil,
		).WithContext(ctx, "list_profiles"))
	}

	return c.Status(200).JSON(SuccessResponse{
		Status: "success",
		Data: ProfileListResponse{
			Profiles: profiles,
			Count:    len(profiles),
		},
	})
}

// GetProfileHandler handles GET /v1/profiles/:name requests
// @Summary      Get a stored profile
// @Description  Retrieves a stored comparison profile by name
// @Tags         Profiles
// @Produce      json
// @Param        name path string true "Profile name"
// @Success      200 {object} SuccessResponse{data=ProfileResponse} "Successfully retrieved profile"
// @Failure      404 {object} ErrorResponse "Profile not found"
// @Router       /v1/profiles/{name} [get]
func (h *Handlers) GetProfileHandler(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.Params("name"))

	profile, err := h.repository.GetProfile(c.UserContext(), name)
	if err != nil {
		return h.sendAppError(c, err, "get_profile")
	}

	hash, err := profile.Hash()
	if err != nil {
		return h.sendAppError(c, err, "get_profile")
	}

	return c.Status(200).JSON(SuccessResponse{
		Status: "success",
		Data: ProfileResponse{
			Info: &domain.ProfileInfo{
				Name:       name,
				FieldCount: profile.Fields.Len(),
				Hash:       hash,
			},
			Profile: profile,
		},
	})
}

// PutProfileHandler handles PUT /v1/profiles/:name requests
// @Summary      Create or replace a profile
// @Description  Validates a profile document and stores it under the given name
// @Tags         Profiles
// @Accept       json
// @Produce      json
// @Param        name path string true "Profile name"
// @Param        profile body object true "Profile document"
// @Success      200 {object} SuccessResponse{data=ProfileResponse} "Profile stored"
// @Failure      400 {object} ErrorResponse "Invalid request payload"
// @Failure      422 {object} ErrorResponse "Invalid profile configuration or name"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /v1/profiles/{name} [put]
func (h *Handlers) PutProfileHandler(c *fiber.Ctx) error {
	ctx := c.UserContext()
	name := strings.TrimSpace(c.Params("name"))

	body := c.Body()
	if !json.Valid(body) {
		return h.sendError(c, domain.NewAppError(
			domain.ErrInvalidInput,
			"Invalid JSON payload",
			400,
			nil,
		).WithContext(ctx, "put_profile_parsing"))
	}

	profile, err := h.parseInlineProfile(body)
	if err != nil {
		return h.sendAppError(c, err, "put_profile_validation")
	}

	info, err := h.repository.PutProfile(ctx, name, profile)
	if err != nil {
		return h.sendAppError(c, err, "put_profile")
	}

	log.Info().
		Str("request_id", requestID(c)).
		Str("profile", info.Name).
		Str("profile_hash", info.Hash).
		Int("field_count", info.FieldCount).
		Msg("Profile stored")

	return c.Status(200).JSON(SuccessResponse{
		Status: "success",
		Data:   ProfileResponse{Info: info},
	})
}

// DeleteProfileHandler handles DELETE /v1/profiles/:name requests
// @Summary      Delete a profile
// @Description  Deletes a stored comparison profile by name
// @Tags         Profiles
// @Produce      json
// @Param        name path string true "Profile name"
// @Success      200 {object} SuccessResponse{data=object{message=string,name=string}} "Successfully deleted profile"
// @Failure      404 {object} ErrorResponse "Profile not found"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /v1/profiles/{name} [delete]
func (h *Handlers) DeleteProfileHandler(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.Params("name"))

	if err := h.repository.DeleteProfile(c.UserContext(), name); err != nil {
		return h.sendAppError(c, err, "delete_profile")
	}

	return c.Status(200).JSON(SuccessResponse{
		Status: "success",
		Data: map[string]any{
			"message": "Profile deleted successfully",
			"name":    name,
		},
	})
}

// HealthHandler handles GET /health requests
// @Summary      Health check
// @Description  Returns the health status of the service and its components
// @Tags         System
// @Produce      json
// @Success      200 {object} domain.SystemHealth "Service is healthy"
// @Failure      503 {object} domain.SystemHealth "Service is degraded or unhealthy"
// @Router       /health [get]
func (h *Handlers) HealthHandler(c *fiber.Ctx) error {
	health := h.healthChecker.CheckHealth(c.UserContext())

	status := 200
	if health.Status != domain.HealthStatusHealthy {
		status = 503
	}

	return c.Status(status).JSON(map[string]any{
		"status":     health.Status,
		"timestamp":  health.Timestamp.Format(time.RFC3339),
		"components": health.Components,
		"uptime":     health.Uptime.String(),
	})
}

// MetricsHandler handles GET /metrics requests
// @Summary      Service metrics
// @Description  Returns comparison counters, profile cache statistics and storage statistics
// @Tags         System
// @Produce      json
// @Success      200 {object} SuccessResponse{data=MetricsResponse} "Successfully retrieved metrics"
// @Router       /metrics [get]
func (h *Handlers) MetricsHandler(c *fiber.Ctx) error {
	var metrics MetricsResponse
	metrics.Comparisons.Total = h.comparisons.Load()
	metrics.Comparisons.Mismatches = h.mismatches.Load()
	metrics.ProfileCache = h.cache.Stats()
	metrics.Storage = h.repository.GetStats(c.UserContext())
	metrics.Uptime.Seconds = time.Since(h.startTime).Seconds()
	metrics.Uptime.Timestamp = time.Now().UTC().Format(time.RFC3339)

	return c.Status(200).JSON(SuccessResponse{Status: "success", Data: metrics})
}

// sendDocumentError reports a compared document that is not valid JSON
func (h *Handlers) sendDocumentError(c *fiber.Ctx, field string, err error) error {
	return h.sendError(c, domain.NewAppErrorWithCause(
		domain.ErrInvalidInput,
		"Invalid JSON document",
		400,
		err,
		map[string]string{"field": field, "error": err.Error()},
	).WithContext(c.UserContext(), "compare_document_decoding"))
}

// sendAppError sends err as-is when it is an AppError and as a 500 otherwise
func (h *Handlers) sendAppError(c *fiber.Ctx, err error, operation string) error {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return h.sendError(c, appErr.WithContext(c.UserContext(), operation))
	}

	log.Error().
		Err(err).
		Str("request_id", requestID(c)).
		Str("operation", operation).
		Msg("Unexpected error")

	return h.sendError(c, domain.NewAppErrorWithCause(
		domain.ErrInternal,
		"Internal server error",
		500,
		err,
		nil,
	).WithContext(c.UserContext(), operation))
}

// sendError sends a standardized error response
func (h *Handlers) sendError(c *fiber.Ctx, appErr *domain.AppError) error {
	return c.Status(appErr.StatusCode).JSON(ErrorResponse{
		Status:  "error",
		Code:    appErr.Code,
		Message: appErr.Message,
		Details: appErr.Details,
	})
}

func requestID(c *fiber.Ctx) string {
	if rid, ok := c.Locals("requestid").(string); ok {
		return rid
	}
	return ""
}
