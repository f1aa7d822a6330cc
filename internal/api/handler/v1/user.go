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

type UserService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
	UpdateProfile(ctx context.Context, id uint, name, phone string) (domain.User, error)
	ReplaceRoles(ctx context.Context, id uint, roles []string) (domain.User, error)
}

type UserHandler struct {
	svc UserService
}

func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{
		svc: svc,
	}
}

func (h *UserHandler) HandleGetMe(ctx *gin.Context) {
	user, errResp := getUserFromContext(ctx, h.svc)
	if errResp != nil {
		response.RenderErr(ctx, errResp)
		return
	}

	ctx.JSON(http.StatusOK, user)
}

func (h *UserHandler) HandleUpdateProfile(ctx *gin.Context) {
	user, errResp := getUserFromContext(ctx, h.svc)
	if errResp != nil {
		response.RenderErr(ctx, errResp)
		return
	}

	var req request.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	updated, err := h.svc.UpdateProfile(ctx.Request.Context(), user.ID, req.Name, req.Phone)
	if err != nil {
		err = fmt.Errorf("v1.HandleUpdateProfile -> h.svc.UpdateProfile -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

func (h *UserHandler) HandleGetRoles(ctx *gin.Context) {
	if _, ok := requireAdmin(ctx, h.svc); !ok {
		return
	}

	userID, errResp := parseUintParam(ctx, "userID")
	if errResp != nil {
		response.RenderErr(ctx, errResp)
		return
	}

	user, err := h.svc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", userID))
			return
		}

		err = fmt.Errorf("v1.HandleGetRoles -> h.svc.GetUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.RolesResponse{UserID: user.ID, Roles: user.Roles})
}

func (h *UserHandler) HandleReplaceRoles(ctx *gin.Context) {
	if _, ok := requireAdmin(ctx, h.svc); !ok {
		return
	}

	userID, errResp := parseUintParam(ctx, "userID")
	if errResp != nil {
		response.RenderErr(ctx, errResp)
		return
	}

	var req request.ReplaceRolesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.svc.ReplaceRoles(ctx.Request.Context(), userID, req.Roles)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRole):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrUserNotFound):
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", userID))
		default:
			err = fmt.Errorf("v1.HandleReplaceRoles -> h.svc.ReplaceRoles -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, response.RolesResponse{UserID: user.ID, Roles: user.Roles})
}
