package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	reqdto "lottery-sales/internal/handler/dto/request"
	resdto "lottery-sales/internal/handler/dto/response"
	"lottery-sales/internal/handler/middleware"
	"lottery-sales/internal/infra"
	"lottery-sales/internal/usecase/commands"
	"lottery-sales/internal/usecase/queries"
)

type TicketHandler struct {
	ticketCommands commands.TicketCommands
	ticketQueries  queries.TicketQueries
}

func NewTicketHandler(ticketCommands commands.TicketCommands, ticketQueries queries.TicketQueries) *TicketHandler {
	return &TicketHandler{
		ticketCommands: ticketCommands,
		ticketQueries:  ticketQueries,
	}
}

func (h *TicketHandler) IssueTicket(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.IssueTicketRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	input := commands.IssueTicketInput{
		UserID:     userID,
		ZoneID:     req.ZoneID,
		DrawTypeID: req.DrawTypeID,
		Lines:      req.LineInputs(),
	}

	ticketID, err := h.ticketCommands.IssueTicket(c.Request.Context(), input)
	if err != nil {
		var quotaErr *commands.QuotaExceededError
		switch {
		case errors.As(err, &quotaErr):
			c.JSON(http.StatusConflict, gin.H{
				"error":  "Quota exceeded",
				"detail": resdto.FromQuotaViolations(quotaErr.Violations),
			})
		case errors.Is(err, commands.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid ticket request",
			})
		case errors.Is(err, commands.ErrWindowClosed):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Sales window is closed",
			})
		case errors.Is(err, commands.ErrServiceUnavailable):
			c.Header("Retry-After", "1")
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Service temporarily unavailable, retry the request",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id": ticketID,
	})
}

func (h *TicketHandler) GetTicket(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid ticket ID format",
		})
		return
	}

	view, err := h.ticketQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		switch {
		case infra.IsKind(err, infra.KindNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Ticket not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromTicketView(view))
}
