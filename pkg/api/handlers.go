package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/newtglobalgit/dmap-saas-request/pkg/models"
	"github.com/newtglobalgit/dmap-saas-request/pkg/services"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	submissionService services.SubmissionService
	logger            *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(submissionService services.SubmissionService, logger *zap.Logger) *Handlers {
	return &Handlers{
		submissionService: submissionService,
		logger:            logger,
	}
}

// RegisterRoutes mounts the form page, the JSON API and the health check.
func (h *Handlers) RegisterRoutes(router *gin.Engine) {
	router.GET("/", h.ShowForm)
	router.POST("/", h.SubmitForm)
	router.POST("/api/requests", h.SubmitRequest)
	router.GET("/health", h.HealthCheck)
}

// HealthCheck handler for monitoring
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

type formPage struct {
	Form    models.ResourceRequest
	Message string
	Success bool
}

// ShowForm renders an empty request form.
func (h *Handlers) ShowForm(c *gin.Context) {
	c.HTML(http.StatusOK, "form.html", formPage{})
}

// SubmitForm handles the HTML form post and renders the page with the outcome.
func (h *Handlers) SubmitForm(c *gin.Context) {
	var form models.ResourceRequest
	if err := c.ShouldBind(&form); err != nil {
		h.logger.Warn("error binding form", zap.Error(err))
		c.HTML(http.StatusBadRequest, "form.html", formPage{Form: form, Message: services.MsgMissingFields})
		return
	}

	out := h.submissionService.Submit(c.Request.Context(), form)

	page := formPage{Message: out.Message, Success: out.OK()}
	if !out.OK() {
		// Keep what the user typed so they can correct it.
		page.Form = form
	}
	c.HTML(statusFor(out), "form.html", page)
}

// SubmitRequest is the JSON flavour of SubmitForm.
func (h *Handlers) SubmitRequest(c *gin.Context) {
	var req models.ResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("error parsing JSON", zap.Error(err))
		c.JSON(http.StatusBadRequest, models.SubmissionResponse{
			Status:  "error",
			Stage:   string(services.StageValidation),
			Message: "Invalid JSON format",
		})
		return
	}

	out := h.submissionService.Submit(c.Request.Context(), req)

	resp := models.SubmissionResponse{
		Status:        "success",
		Stage:         string(out.Stage),
		Message:       out.Message,
		Branch:        out.Branch,
		BranchCreated: out.BranchCreated,
		Commit:        out.CommitSHA,
		RequestID:     out.RequestID,
	}
	if !out.OK() {
		resp.Status = "error"
	}
	c.JSON(statusFor(out), resp)
}

func statusFor(out services.Outcome) int {
	switch out.Stage {
	case services.StageNone:
		return http.StatusOK
	case services.StageValidation:
		return http.StatusBadRequest
	case services.StageNotification, services.StageRepository:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
