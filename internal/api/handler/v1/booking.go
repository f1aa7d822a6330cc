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

var errNotYourBooking = errors.New("this booking belongs to another customer")

type BookingService interface {
	NextReference(ctx context.Context) (string, error)
	CreateBooking(ctx context.Context, draft domain.BookingDraft) (domain.HolidayBooking, error)
	GetBookings(ctx context.Context) ([]domain.HolidayBooking, error)
	GetBooking(ctx context.Context, ref string) (domain.HolidayBooking, error)
	GetCustomerBookings(ctx context.Context, customerID uint) ([]domain.HolidayBooking, error)
	UpdateStatus(ctx context.Context, ref string, status domain.BookingStatus) (domain.HolidayBooking, error)
	DeleteBooking(ctx context.Context, ref string) error
	GetTravellers(ctx context.Context, ref string) ([]domain.Traveller, error)
	AddTravellers(ctx context.Context, actor domain.User, travellers []domain.Traveller) ([]domain.Traveller, error)
}

type BookingHandler struct {
	svc  BookingService
	uSvc UserGetter
}

func NewBookingHandler(svc BookingService, uSvc UserGetter) *BookingHandler {
	return &BookingHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

func (h *BookingHandler) HandleNextReference(ctx *gin.Context) {
	if _, ok := requireAdmin(ctx, h.uSvc); !ok {
		return
	}

	ref, err := h.svc.NextReference(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleNextReference -> h.svc.NextReference -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NextReferenceResponse{BookingReference: ref})
}

// HandleCreateBooking lets admins book for anyone. Customers always book for themselves.
func (h *BookingHandler) HandleCreateBooking(ctx *gin.Context) {
	user, errResp := getUserFromContext(ctx, h.uSvc)
	if errResp != nil {
		response.RenderErr(ctx, errResp)
		return
	}

	var req request.CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if !user.IsAdmin() {
		req.CustomerEmail = user.Email
		req.CustomerID = 0
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	booking, err := h.svc.CreateBooking(ctx.Request.Context(), req.ToDomain())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPackageDoesNotExist),
			errors.Is(err, service.ErrCustomerDoesNotExist),
			errors.Is(err, service.ErrAmbiguousPackage),
			errors.Is(err, service.ErrDuplicateBookingReference),
			errors.Is(err, service.ErrMalformedBookingReference),
			errors.Is(err, service.ErrInvalidBookingStatus):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleCreateBooking -> h.svc.CreateBooking -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, booking)
}

func (h *BookingHandler) HandleGetBookings(ctx *gin.Context) {
	user, errResp := getUserFromContext(ctx, h.uSvc)
	if errResp != nil {
		response.RenderErr(ctx, errResp)
		return
	}

	var (
		bookings []domain.HolidayBooking
		err      error
	)
	if user.IsAdmin() {
		bookings, err = h.svc.GetBookings(ctx.Request.Context())
	} else {
		bookings, err = h.svc.GetCustomerBookings(ctx.Request.Context(), user.ID)
	}
	if err != nil {
		err = fmt.Errorf("v1.HandleGetBookings -> h.svc.GetBookings -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) HandleGetBooking(ctx *gin.Context) {
	user, errResp := getUserFromContext(ctx, h.uSvc)
	if errResp != nil {
		response.RenderErr(ctx, errResp)
		return
	}

	ref := ctx.Param("ref")
	booking, ok := h.findOwnedBooking(ctx, user, ref)
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) HandleGetCustomerBookings(ctx *gin.Context) {
	user, errResp := getUserFromContext(ctx, h.uSvc)
	if errResp != nil {
		response.RenderErr(ctx, errResp)
		return
	}

	customerID, errResp := parseUintParam(ctx, "customerID")
	if errResp != nil {
		response.RenderErr(ctx, errResp)
		return
	}
	if !user.IsAdmin() && user.ID != customerID {
		response.RenderErr(ctx, response.ErrPermissionDenied(errNotYourBooking))
		return
	}

	bookings, err := h.svc.GetCustomerBookings(ctx.Request.Context(), customerID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetCustomerBookings -> h.svc.GetCustomerBookings -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) HandleUpdateStatus(ctx *gin.Context) {
	if _, ok := requireAdmin(ctx, h.uSvc); !ok {
		return
	}

	ref := ctx.Param("ref")

	var req request.UpdateBookingStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	booking, err := h.svc.UpdateStatus(ctx.Request.Context(), ref, domain.BookingStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBookingNotFound):
			response.RenderErr(ctx, response.ErrNotFound("booking", "reference", ref))
		case errors.Is(err, service.ErrInvalidBookingStatus):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleUpdateStatus -> h.svc.UpdateStatus -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) HandleDeleteBooking(ctx *gin.Context) {
	if _, ok := requireAdmin(ctx, h.uSvc); !ok {
		return
	}

	ref := ctx.Param("ref")
	if err := h.svc.DeleteBooking(ctx.Request.Context(), ref); err != nil {
		if errors.Is(err, service.ErrBookingNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("booking", "reference", ref))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteBooking -> h.svc.DeleteBooking -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *BookingHandler) HandleGetTravellers(ctx *gin.Context) {
	user, errResp := getUserFromContext(ctx, h.uSvc)
	if errResp != nil {
		response.RenderErr(ctx, errResp)
		return
	}

	ref := ctx.Param("ref")
	if _, ok := h.findOwnedBooking(ctx, user, ref); !ok {
		return
	}

	travellers, err := h.svc.GetTravellers(ctx.Request.Context(), ref)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetTravellers -> h.svc.GetTravellers -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, travellers)
}

// HandleAddTravellers stores the whole list or nothing.
func (h *BookingHandler) HandleAddTravellers(ctx *gin.Context) {
	user, errResp := getUserFromContext(ctx, h.uSvc)
	if errResp != nil {
		response.RenderErr(ctx, errResp)
		return
	}

	var req request.AddTravellersRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	travellers, err := h.svc.AddTravellers(ctx.Request.Context(), user, req.ToDomain())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBookingNotFound), errors.Is(err, service.ErrPackageFull):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrBookingNotOwned):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		default:
			err = fmt.Errorf("v1.HandleAddTravellers -> h.svc.AddTravellers -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, travellers)
}

func (h *BookingHandler) findOwnedBooking(ctx *gin.Context, user domain.User, ref string) (domain.HolidayBooking, bool) {
	booking, err := h.svc.GetBooking(ctx.Request.Context(), ref)
	if err != nil {
		if errors.Is(err, service.ErrBookingNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("booking", "reference", ref))
			return domain.HolidayBooking{}, false
		}

		err = fmt.Errorf("v1.findOwnedBooking -> h.svc.GetBooking -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return domain.HolidayBooking{}, false
	}

	if !user.IsAdmin() && booking.CustomerID != user.ID {
		response.RenderErr(ctx, response.ErrPermissionDenied(errNotYourBooking))
		return domain.HolidayBooking{}, false
	}

	return booking, true
}
