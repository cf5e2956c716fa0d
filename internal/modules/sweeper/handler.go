package sweeper

import (
	"fmt"
	"net/http"

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
	rg.POST("/sweeper/run", h.Run)
}

// Run triggers one sweep. Meant to be called by an external scheduler;
// no request body.
func (h *Handler) Run(c *gin.Context) {
	summary, err := h.service.Run(c.Request.Context())
	if err != nil {
		if err == ErrAlreadyRunning {
			response.Error(c, http.StatusConflict, "SWEEP_RUNNING", "A sweep is already in progress")
			return
		}
		response.Error(c, http.StatusInternalServerError, "SWEEP_FAILED", err.Error())
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": fmt.Sprintf("Deadline sweep completed: reassigned %d leads", summary.Reassigned),
		"summary": summary,
	})
}
