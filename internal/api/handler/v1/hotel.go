package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/api/handler/v1/request"
	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/api/handler/v1/response"
	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/domain"
	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/service"
)

type HotelService interface {
	SearchHotels(ctx context.Context, q domain.HotelQuery) ([]domain.Hotel, error)
	GetHotel(ctx context.Context, externalID string) (domain.Hotel, error)
	GetRooms(ctx context.Context, externalID string, arrival, departure time.Time) ([]domain.HotelRoom, error)
	CreateHotelBooking(ctx context.Context, packageSlug string, roomID uint, checkIn, checkOut time.Time) (domain.HotelBooking, error)
	DeleteHotelBooking(ctx context.Context, id uint) error
}

type HotelHandler struct {
	svc  HotelService
	uSvc UserGetter
}

func NewHotelHandler(svc HotelService, uSvc UserGetter) *HotelHandler {
	return &HotelHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleSearchHotels answers with an empty list when the upstream is unavailable.
func (h *HotelHandler) HandleSearchHotels(ctx *gin.Context) {
	var req request.HotelSearchRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	arrival, _ := request.ParseDate(req.Arrival)
	departure, _ := request.ParseDate(req.Departure)

	hotels, err := h.svc.SearchHotels(ctx.Request.Context(), domain.HotelQuery{
		City:      req.City,
		Country:   req.Country,
		Arrival:   arrival,
		Departure: departure,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleSearchHotels -> h.svc.SearchHotels -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, hotels)
}

func (h *HotelHandler) HandleGetHotel(ctx *gin.Context) {
	hotelID := ctx.Param("hotelID")

	hotel, err := h.svc.GetHotel(ctx.Request.Context(), hotelID)
	if err != nil {
		if errors.Is(err, service.ErrHotelNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("hotel", "ID", hotelID))
			return
		}

		err = fmt.Errorf("v1.HandleGetHotel -> h.svc.GetHotel -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, hotel)
}

func (h *HotelHandler) HandleGetRooms(ctx *gin.Context) {
	hotelID := ctx.Param("hotelID")

	var req request.RoomListRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	arrival, _ := request.ParseDate(req.Arrival)
	departure, _ := request.ParseDate(req.Departure)

	rooms, err := h.svc.GetRooms(ctx.Request.Context(), hotelID, arrival, departure)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrHotelNotFound):
			response.RenderErr(ctx, response.ErrNotFound("hotel", "ID", hotelID))
		case errors.Is(err, service.ErrInvalidStay):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleGetRooms -> h.svc.GetRooms -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, rooms)
}

func (h *HotelHandler) HandleCreateHotelBooking(ctx *gin.Context) {
	if _, ok := requireAdmin(ctx, h.uSvc); !ok {
		return
	}

	var req request.HotelBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	checkIn, _ := request.ParseDate(req.CheckIn)
	checkOut, _ := request.ParseDate(req.CheckOut)

	booking, err := h.svc.CreateHotelBooking(ctx.Request.Context(), req.PackageSlug, req.HotelRoomID, checkIn, checkOut)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPackageNotFound), errors.Is(err, service.ErrHotelRoomNotFound),
			errors.Is(err, service.ErrInvalidStay):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleCreateHotelBooking -> h.svc.CreateHotelBooking -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, booking)
}

func (h *HotelHandler) HandleDeleteHotelBooking(ctx *gin.Context) {
	if _, ok := requireAdmin(ctx, h.uSvc); !ok {
		return
	}

	id, errResp := parseUintParam(ctx, "id")
	if errResp != nil {
		response.RenderErr(ctx, errResp)
		return
	}

	if err := h.svc.DeleteHotelBooking(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrHotelBookingNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("hotel booking", "ID", id))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteHotelBooking -> h.svc.DeleteHotelBooking -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}
