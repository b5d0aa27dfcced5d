package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/evently/evently-api/internal/api/handler/v1/request"
	"github.com/evently/evently-api/internal/api/handler/v1/response"
	"github.com/evently/evently-api/internal/domain"
	"github.com/evently/evently-api/internal/service"
)

type ParticipationService interface {
	Join(ctx context.Context, userID, eventID uint) (domain.Participation, error)
	Request(ctx context.Context, userID, eventID uint, message string) (domain.Participation, error)
	Accept(ctx context.Context, actingUserID, participationID uint) (domain.Participation, error)
	Reject(ctx context.Context, actingUserID, participationID uint) (domain.Participation, error)
	Cancel(ctx context.Context, actingUserID, participationID uint) (domain.Participation, error)
	GetEventParticipations(ctx context.Context, actingUserID, eventID uint) ([]domain.Participation, error)
	GetUserParticipations(ctx context.Context, userID uint) ([]domain.Participation, error)
	GetParticipation(ctx context.Context, userID, eventID uint) (domain.Participation, error)
}

type TicketService interface {
	Mint(participation domain.Participation) (string, error)
	GetApplePass(token string) ([]byte, error)
}

type ParticipationHandler struct {
	svc       ParticipationService
	ticketSvc TicketService
}

func NewParticipationHandler(svc ParticipationService, ticketSvc TicketService) *ParticipationHandler {
	return &ParticipationHandler{
		svc:       svc,
		ticketSvc: ticketSvc,
	}
}

// HandleJoinEvent godoc
// @Summary      Join a public event
// @Description  Creates an accepted participation. Public events require no approval.
// @Tags         participations
// @Accept       json
// @Produce      json
// @Param        request  body       request.JoinEventRequest true "request body"
// @Success      201      {object}   domain.Participation
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /participations [post]
// @Security BearerAuth
func (h *ParticipationHandler) HandleJoinEvent(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.JoinEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	participation, err := h.svc.Join(ctx.Request.Context(), userID, req.EventID)
	if err != nil {
		h.renderTransitionErr(ctx, "v1.HandleJoinEvent", req.EventID, err)
		return
	}

	ctx.JSON(http.StatusCreated, participation)
}

// HandleRequestParticipation godoc
// @Summary      Request to join an invite-only event
// @Description  Creates a pending participation awaiting the organizer's decision.
// @Tags         participations
// @Accept       json
// @Produce      json
// @Param        request  body       request.RequestParticipationRequest true "request body"
// @Success      201      {object}   domain.Participation
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /participations/request [post]
// @Security BearerAuth
func (h *ParticipationHandler) HandleRequestParticipation(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.RequestParticipationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	participation, err := h.svc.Request(ctx.Request.Context(), userID, req.EventID, req.Message)
	if err != nil {
		h.renderTransitionErr(ctx, "v1.HandleRequestParticipation", req.EventID, err)
		return
	}

	ctx.JSON(http.StatusCreated, participation)
}

// HandleAcceptParticipation godoc
// @Summary      Accept a participation request
// @Description  Only the event owner may accept. Pending and rejected requests can be accepted.
// @Tags         participations
// @Accept       json
// @Produce      json
// @Param        request  body       request.AcceptParticipationRequest true "request body"
// @Success      200      {object}   domain.Participation
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /participations/accept [post]
// @Security BearerAuth
func (h *ParticipationHandler) HandleAcceptParticipation(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.AcceptParticipationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	participation, err := h.svc.Accept(ctx.Request.Context(), userID, req.ParticipationID)
	if err != nil {
		h.renderTransitionErr(ctx, "v1.HandleAcceptParticipation", req.ParticipationID, err)
		return
	}

	ctx.JSON(http.StatusOK, participation)
}

// HandleRejectParticipation godoc
// @Summary      Reject a participation request
// @Description  Only the event owner may reject, and only pending requests.
// @Tags         participations
// @Accept       json
// @Produce      json
// @Param        request  body       request.RejectParticipationRequest true "request body"
// @Success      200      {object}   domain.Participation
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /participations/reject [post]
// @Security BearerAuth
func (h *ParticipationHandler) HandleRejectParticipation(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.RejectParticipationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	participation, err := h.svc.Reject(ctx.Request.Context(), userID, req.ParticipationID)
	if err != nil {
		h.renderTransitionErr(ctx, "v1.HandleRejectParticipation", req.ParticipationID, err)
		return
	}

	ctx.JSON(http.StatusOK, participation)
}

// HandleCancelParticipation godoc
// @Summary      Cancel a participation
// @Description  Only the holder may cancel. Cancelled and rejected participations cannot be cancelled.
// @Tags         participations
// @Accept       json
// @Produce      json
// @Param        request  body       request.CancelParticipationRequest true "request body"
// @Success      200      {object}   domain.Participation
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /participations/cancel [post]
// @Security BearerAuth
func (h *ParticipationHandler) HandleCancelParticipation(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CancelParticipationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	participation, err := h.svc.Cancel(ctx.Request.Context(), userID, req.ParticipationID)
	if err != nil {
		h.renderTransitionErr(ctx, "v1.HandleCancelParticipation", req.ParticipationID, err)
		return
	}

	ctx.JSON(http.StatusOK, participation)
}

// HandleGetEventParticipations godoc
// @Summary      Get all participations for an event
// @Description  Only the event owner may list an event's participations.
// @Tags         participations
// @Produce      json
// @Param        eventID  path       int true "event ID"
// @Success      200      {array}    domain.Participation
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /participations/event/{eventID} [get]
// @Security BearerAuth
func (h *ParticipationHandler) HandleGetEventParticipations(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, respErr := parseIDParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	participations, err := h.svc.GetEventParticipations(ctx.Request.Context(), userID, eventID)
	if err != nil {
		h.renderTransitionErr(ctx, "v1.HandleGetEventParticipations", eventID, err)
		return
	}

	ctx.JSON(http.StatusOK, participations)
}

// HandleGetUserParticipations godoc
// @Summary      Get all of the caller's participations
// @Tags         participations
// @Produce      json
// @Success      200      {array}    domain.Participation
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /participations [get]
// @Security BearerAuth
func (h *ParticipationHandler) HandleGetUserParticipations(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	participations, err := h.svc.GetUserParticipations(ctx.Request.Context(), userID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetUserParticipations -> h.svc.GetUserParticipations -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, participations)
}

// HandleGetParticipation godoc
// @Summary      Get the caller's participation for an event
// @Description  Returns null when no active participation exists. Accepted participations include a passkit token.
// @Tags         participations
// @Produce      json
// @Param        eventID  path       int true "event ID"
// @Success      200      {object}   response.ParticipationResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /participations/{eventID} [get]
// @Security BearerAuth
func (h *ParticipationHandler) HandleGetParticipation(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, respErr := parseIDParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	participation, err := h.svc.GetParticipation(ctx.Request.Context(), userID, eventID)
	if err != nil {
		// No active participation is a normal empty result.
		if errors.Is(err, service.ErrParticipationNotFound) {
			ctx.JSON(http.StatusOK, nil)
			return
		}

		err = fmt.Errorf("v1.HandleGetParticipation -> h.svc.GetParticipation -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	resp := response.ParticipationResponse{Participation: participation}

	if participation.Status == domain.ParticipationAccepted {
		token, err := h.ticketSvc.Mint(participation)
		if err != nil {
			err = fmt.Errorf("v1.HandleGetParticipation -> h.ticketSvc.Mint -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
			return
		}
		resp.PasskitToken = token
	}

	ctx.JSON(http.StatusOK, resp)
}

// HandleGetApplePasskit godoc
// @Summary      Redeem a ticket token for an Apple Wallet pass
// @Description  The token itself is the credential; no session is required.
// @Tags         participations
// @Produce      application/vnd.apple.pkpass
// @Param        token    path       string true "ticket token"
// @Success      200      {file}     binary
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /participations/apple-passkit/{token} [get]
func (h *ParticipationHandler) HandleGetApplePasskit(ctx *gin.Context) {
	token := ctx.Param("token")

	pass, err := h.ticketSvc.GetApplePass(token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTicketExpired):
			response.RenderErr(ctx, response.ErrUnauthorized("ticket token is expired"))
		case errors.Is(err, service.ErrTicketInvalid):
			response.RenderErr(ctx, response.ErrUnauthorized("ticket token is invalid"))
		default:
			err = fmt.Errorf("v1.HandleGetApplePasskit -> h.ticketSvc.GetApplePass -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.Header("Content-Disposition", "attachment; filename=pass.pkpass")
	ctx.Data(http.StatusOK, "application/vnd.apple.pkpass", pass)
}

func (h *ParticipationHandler) renderTransitionErr(ctx *gin.Context, caller string, id uint, err error) {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		response.RenderErr(ctx, response.ErrNotFound("event", "ID", id))
	case errors.Is(err, service.ErrParticipationNotFound):
		response.RenderErr(ctx, response.ErrNotFound("participation", "ID", id))
	case errors.Is(err, service.ErrAlreadyParticipating),
		errors.Is(err, service.ErrEventInviteOnly),
		errors.Is(err, service.ErrEventNotInviteOnly),
		errors.Is(err, service.ErrNotEventOwner),
		errors.Is(err, service.ErrNotParticipationHolder),
		errors.Is(err, service.ErrIllegalTransition):
		response.RenderErr(ctx, response.ErrPermissionDenied(err))
	default:
		err = fmt.Errorf("%v -> %w", caller, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}
