package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/api/handler/v1/response"
	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/pkg/jwthelper"
)

const (
	AuthCookieName   = "auth_token"
	ContextKeyUserID = "userID"
)

var (
	errMissingToken      = errors.New("missing auth token")
	errInvalidToken      = errors.New("invalid or expired auth token")
	errUserAgentMismatch = errors.New("auth token was issued to another client")
)

type Authenticator struct {
	signingKey []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
	}
}

// VerifyJWT reads the token from the Authorization bearer header, falling back to the
// auth cookie, and stores the user id in the gin context.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString := bearerToken(ctx)
		if tokenString == "" {
			cookie, err := ctx.Cookie(AuthCookieName)
			if err != nil || cookie == "" {
				response.RenderErr(ctx, response.ErrUnauthorized(errMissingToken))
				return
			}
			tokenString = cookie
		}

		claims, err := jwthelper.ParseToken(a.signingKey, tokenString)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(errInvalidToken))
			return
		}

		if claims.UserAgent != "" && claims.UserAgent != ctx.Request.UserAgent() {
			response.RenderErr(ctx, response.ErrUnauthorized(errUserAgentMismatch))
			return
		}

		ctx.Set(ContextKeyUserID, claims.UserID)
		ctx.Next()
	}
}

func bearerToken(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

func UserIDFromContext(ctx *gin.Context) (uint, bool) {
	value, ok := ctx.Get(ContextKeyUserID)
	if !ok {
		return 0, false
	}

	id, ok := value.(uint)
	return id, ok && id != 0
}
