package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/api/handler/v1/request"
	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/api/handler/v1/response"
	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/domain"
	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/service"
)

type FlightService interface {
	SearchFlights(ctx context.Context, q domain.FlightQuery) ([]domain.Flight, error)
	CreateTicket(ctx context.Context, packageSlug string, flightID uint) (domain.FlightTicket, error)
	DeleteTicket(ctx context.Context, id uint) error
}

type FlightHandler struct {
	svc  FlightService
	uSvc UserGetter
}

func NewFlightHandler(svc FlightService, uSvc UserGetter) *FlightHandler {
	return &FlightHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

func (h *FlightHandler) HandleSearchFlights(ctx *gin.Context) {
	var req request.FlightSearchRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	flights, err := h.svc.SearchFlights(ctx.Request.Context(), domain.FlightQuery{
		From: req.From,
		To:   req.To,
		Date: req.DateOrNil(),
	})
	if err != nil {
		if errors.Is(err, service.ErrAirportNotFound) || errors.Is(err, service.ErrAirportAmbiguous) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleSearchFlights -> h.svc.SearchFlights -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, flights)
}

func (h *FlightHandler) HandleCreateTicket(ctx *gin.Context) {
	if _, ok := requireAdmin(ctx, h.uSvc); !ok {
		return
	}

	var req request.FlightTicketRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	ticket, err := h.svc.CreateTicket(ctx.Request.Context(), req.PackageSlug, req.FlightID)
	if err != nil {
		if errors.Is(err, service.ErrPackageNotFound) || errors.Is(err, service.ErrFlightNotFound) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleCreateTicket -> h.svc.CreateTicket -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, ticket)
}

func (h *FlightHandler) HandleDeleteTicket(ctx *gin.Context) {
	if _, ok := requireAdmin(ctx, h.uSvc); !ok {
		return
	}

	id, errResp := parseUintParam(ctx, "id")
	if errResp != nil {
		response.RenderErr(ctx, errResp)
		return
	}

	if err := h.svc.DeleteTicket(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrFlightTicketNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("flight ticket", "ID", id))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteTicket -> h.svc.DeleteTicket -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}
