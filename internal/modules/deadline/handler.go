package deadline

import (
	"net/http"
	"strconv"

	"dealercrm/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/leads/:id/deadline", h.LeadDeadline)
	rg.GET("/companies/:id/open", h.CompanyOpen)
}

func (h *Handler) LeadDeadline(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid lead ID")
		return
	}

	dl, err := h.service.LeadDeadline(c.Request.Context(), id)
	if err != nil {
		switch err {
		case ErrLeadNotFound, ErrCompanyNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute deadline")
		}
		return
	}

	response.Success(c, http.StatusOK, dl)
}

func (h *Handler) CompanyOpen(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid company ID")
		return
	}

	open, err := h.service.CompanyOpen(c.Request.Context(), id)
	if err != nil {
		switch err {
		case ErrCompanyNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to check business hours")
		}
		return
	}

	response.Success(c, http.StatusOK, open)
}
