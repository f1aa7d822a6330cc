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

type PackageService interface {
	CreatePackage(ctx context.Context, p domain.HolidayPackage) (domain.HolidayPackage, error)
	GetPackages(ctx context.Context) ([]domain.HolidayPackage, error)
	GetPackage(ctx context.Context, slug string) (domain.HolidayPackage, error)
	UpdatePackage(ctx context.Context, slug string, p domain.HolidayPackage) (domain.HolidayPackage, error)
	DeletePackage(ctx context.Context, slug string) error
	GetPackageBookings(ctx context.Context, slug string) ([]domain.HolidayBooking, error)
	GetPackageHotelBookings(ctx context.Context, slug string) ([]domain.HotelBooking, error)
	GetPackageFlightTickets(ctx context.Context, slug string) ([]domain.FlightTicket, error)
}

type PackageHandler struct {
	svc  PackageService
	uSvc UserGetter
}

func NewPackageHandler(svc PackageService, uSvc UserGetter) *PackageHandler {
	return &PackageHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

func (h *PackageHandler) HandleGetPackages(ctx *gin.Context) {
	packages, err := h.svc.GetPackages(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetPackages -> h.svc.GetPackages -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, packages)
}

func (h *PackageHandler) HandleGetPackage(ctx *gin.Context) {
	slug := ctx.Param("slug")

	p, err := h.svc.GetPackage(ctx.Request.Context(), slug)
	if err != nil {
		h.renderErr(ctx, "v1.HandleGetPackage -> h.svc.GetPackage", slug, err)
		return
	}

	ctx.JSON(http.StatusOK, p)
}

func (h *PackageHandler) HandleCreatePackage(ctx *gin.Context) {
	if _, ok := requireAdmin(ctx, h.uSvc); !ok {
		return
	}

	var req request.PackageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	created, err := h.svc.CreatePackage(ctx.Request.Context(), req.ToDomain())
	if err != nil {
		h.renderErr(ctx, "v1.HandleCreatePackage -> h.svc.CreatePackage", "", err)
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

func (h *PackageHandler) HandleUpdatePackage(ctx *gin.Context) {
	if _, ok := requireAdmin(ctx, h.uSvc); !ok {
		return
	}

	slug := ctx.Param("slug")

	var req request.PackageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	updated, err := h.svc.UpdatePackage(ctx.Request.Context(), slug, req.ToDomain())
	if err != nil {
		h.renderErr(ctx, "v1.HandleUpdatePackage -> h.svc.UpdatePackage", slug, err)
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

func (h *PackageHandler) HandleDeletePackage(ctx *gin.Context) {
	if _, ok := requireAdmin(ctx, h.uSvc); !ok {
		return
	}

	slug := ctx.Param("slug")
	if err := h.svc.DeletePackage(ctx.Request.Context(), slug); err != nil {
		h.renderErr(ctx, "v1.HandleDeletePackage -> h.svc.DeletePackage", slug, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *PackageHandler) HandleGetPackageBookings(ctx *gin.Context) {
	if _, ok := requireAdmin(ctx, h.uSvc); !ok {
		return
	}

	slug := ctx.Param("slug")
	bookings, err := h.svc.GetPackageBookings(ctx.Request.Context(), slug)
	if err != nil {
		h.renderErr(ctx, "v1.HandleGetPackageBookings -> h.svc.GetPackageBookings", slug, err)
		return
	}

	ctx.JSON(http.StatusOK, bookings)
}

func (h *PackageHandler) HandleGetPackageHotelBookings(ctx *gin.Context) {
	slug := ctx.Param("slug")
	bookings, err := h.svc.GetPackageHotelBookings(ctx.Request.Context(), slug)
	if err != nil {
		h.renderErr(ctx, "v1.HandleGetPackageHotelBookings -> h.svc.GetPackageHotelBookings", slug, err)
		return
	}

	ctx.JSON(http.StatusOK, bookings)
}

func (h *PackageHandler) HandleGetPackageFlightTickets(ctx *gin.Context) {
	slug := ctx.Param("slug")
	tickets, err := h.svc.GetPackageFlightTickets(ctx.Request.Context(), slug)
	if err != nil {
		h.renderErr(ctx, "v1.HandleGetPackageFlightTickets -> h.svc.GetPackageFlightTickets", slug, err)
		return
	}

	ctx.JSON(http.StatusOK, tickets)
}

func (h *PackageHandler) renderErr(ctx *gin.Context, trace, slug string, err error) {
	switch {
	case errors.Is(err, service.ErrPackageNotFound):
		response.RenderErr(ctx, response.ErrNotFound("package", "slug", slug))
	case errors.Is(err, service.ErrPackageTitleExists), errors.Is(err, service.ErrPackageInUse):
		response.RenderErr(ctx, response.ErrBadRequest(err))
	default:
		response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("%s -> %w", trace, err)))
	}
}
