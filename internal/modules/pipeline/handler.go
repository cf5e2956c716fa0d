package pipeline

import (
	"net/http"
	"strconv"

	"dealercrm/internal/pkg/response"
	"dealercrm/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/leads", h.CreateLead)
	rg.GET("/companies/:id/leads", h.ListLeads)
	rg.PATCH("/leads/:id/stage", h.MoveLead)
	rg.GET("/leads/:id/reassignments", h.ReassignmentHistory)
}

func (h *Handler) CreateLead(c *gin.Context) {
	var req CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid lead", errs)
		return
	}

	lead, err := h.service.CreateLead(c.Request.Context(), req)
	if err != nil {
		switch err {
		case ErrCompanyNotFound, ErrWrongSalesperson:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
		case ErrNoNewLeadsStage:
			response.Error(c, http.StatusConflict, "NO_NEW_LEADS_STAGE", err.Error())
		case ErrDuplicateLead:
			response.Error(c, http.StatusConflict, "DUPLICATE_LEAD", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create lead")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"lead": lead})
}

func (h *Handler) ListLeads(c *gin.Context) {
	companyID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid company ID")
		return
	}

	var stageID *int64
	if raw := c.Query("stage_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid stage ID")
			return
		}
		stageID = &id
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	leads, err := h.service.ListLeads(c.Request.Context(), companyID, stageID, limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list leads")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"leads": leads})
}

func (h *Handler) MoveLead(c *gin.Context) {
	leadID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid lead ID")
		return
	}

	var req MoveLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	lead, err := h.service.MoveLead(c.Request.Context(), leadID, req.StageID)
	if err != nil {
		switch err {
		case ErrLeadNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
		case ErrUnknownStage:
			response.Error(c, http.StatusUnprocessableEntity, "UNKNOWN_STAGE", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to move lead")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"lead": lead})
}

func (h *Handler) ReassignmentHistory(c *gin.Context) {
	leadID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid lead ID")
		return
	}

	history, err := h.service.ReassignmentHistory(c.Request.Context(), leadID)
	if err != nil {
		switch err {
		case ErrLeadNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load history")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reassignments": history})
}
