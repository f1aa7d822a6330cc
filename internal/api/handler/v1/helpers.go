package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/api/handler/v1/response"
	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/api/middleware"
	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/domain"
	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/service"
)

var (
	errNotLoggedIn = errors.New("you need to log in first")
	errAdminOnly   = errors.New("only admins can do this")
)

type UserGetter interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
}

func getUserFromContext(ctx *gin.Context, uSvc UserGetter) (domain.User, *response.Err) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return domain.User{}, response.ErrUnauthorized(errNotLoggedIn)
	}

	user, err := uSvc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return domain.User{}, response.ErrUnauthorized(errNotLoggedIn)
		}

		err = fmt.Errorf("v1.getUserFromContext -> uSvc.GetUser -> %w", err)
		return domain.User{}, response.ErrInternalServerError(err)
	}

	return user, nil
}

// requireAdmin renders the error itself; callers only return when ok is false.
func requireAdmin(ctx *gin.Context, uSvc UserGetter) (domain.User, bool) {
	user, errResp := getUserFromContext(ctx, uSvc)
	if errResp != nil {
		response.RenderErr(ctx, errResp)
		return domain.User{}, false
	}
	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(errAdminOnly))
		return domain.User{}, false
	}

	return user, true
}

func parseUintParam(ctx *gin.Context, name string) (uint, *response.Err) {
	raw := ctx.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, response.ErrBadRequest(fmt.Errorf("%s must be a positive integer, got %q", name, raw))
	}

	return uint(id), nil
}

func HandleHealthcheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, response.HealthcheckResponse{Status: "ok"})
}
