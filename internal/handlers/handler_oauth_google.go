package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/apperrors"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/domain"
	portssvc "github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/ports/services"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/dto"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/middleware"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/platform/config"
	"github.com/gin-gonic/gin"
	"google.golang.org/api/idtoken"
)

// googleStateCookieName holds the anti-CSRF state between the login redirect
// and the provider callback.
const googleStateCookieName = "g_oauth_state"

const googleStateCookieMaxAge = 600 // seconds

// googleOAuthHandler handles the web authorization-code flow and the mobile
// ID-token flow. Both end in the same place: a local session with a refresh
// cookie, identical to password login.
type googleOAuthHandler struct {
	cfg          *config.Config
	oauthService portssvc.GoogleOAuthHandlerSvcFacade
	userService  portssvc.UserSvcFacade
	sessions     *authHandler
}

func newGoogleOAuthHandler(cfg *config.Config, services *portssvc.ServiceContainer) *googleOAuthHandler {
	return &googleOAuthHandler{
		cfg:          cfg,
		oauthService: services.GoogleOAuthHandler,
		userService:  services.User,
		sessions:     newAuthHandler(cfg, services.User, services.TokenService),
	}
}

// registerGoogleOAuthRoutes mounts the Google routes under the auth group so
// they share its rate limit.
func registerGoogleOAuthRoutes(auth *gin.RouterGroup, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := newGoogleOAuthHandler(cfg, services)

	google := auth.Group("/google")
	{
		google.GET("/login", h.redirectToGoogle)
		google.GET("/callback", h.handleCallback)
		google.POST("/token", h.exchangeIDToken)
	}
}

// redirectToGoogle godoc
// @Summary Start Google sign-in
// @Description Redirects the browser to Google's consent screen. The state
// @Description value is mirrored in a short-lived cookie for CSRF protection.
// @Tags auth
// @Success 302
// @Failure 500 {object} ErrorResponse
// @Router /auth/google/login [get]
func (h *googleOAuthHandler) redirectToGoogle(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	state, err := h.oauthService.GenerateStateString(c.Request.Context())
	if err != nil {
		logger.Error("Failed to generate OAuth state", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to start Google sign-in"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(googleStateCookieName, state, googleStateCookieMaxAge, "/api/v1/auth", "", h.cfg.IsProduction, true)

	c.Redirect(http.StatusFound, h.oauthService.GetGoogleLoginURL(c.Request.Context(), state))
}

// handleCallback godoc
// @Summary Google sign-in callback
// @Description Completes the authorization-code flow. On success the refresh
// @Description cookie is set and the browser is redirected back to the
// @Description frontend, or a JSON session is returned when no frontend URL
// @Description is configured.
// @Tags auth
// @Produce json
// @Param code query string true "Authorization code"
// @Param state query string true "Anti-CSRF state"
// @Success 200 {object} dto.LoginResponse
// @Success 302
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/google/callback [get]
func (h *googleOAuthHandler) handleCallback(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	state := c.Query("state")
	cookieState, err := c.Cookie(googleStateCookieName)
	// The state cookie is single-use.
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(googleStateCookieName, "", -1, "/api/v1/auth", "", h.cfg.IsProduction, true)
	if err != nil || state == "" || state != cookieState {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid OAuth state"})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing authorization code"})
		return
	}

	token, err := h.oauthService.ExchangeCodeForToken(c.Request.Context(), code)
	if err != nil {
		logger.Error("Failed to exchange authorization code", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to authenticate with Google"})
		return
	}

	info, err := h.oauthService.GetUserInfo(c.Request.Context(), token)
	if err != nil {
		logger.Error("Failed to fetch Google user info", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to authenticate with Google"})
		return
	}

	h.completeSignIn(c, *info, true)
}

// exchangeIDToken godoc
// @Summary Google sign-in with an ID token
// @Description Verifies a Google ID token obtained by a mobile client and
// @Description returns a local session. No browser redirect is involved.
// @Tags auth
// @Accept json
// @Produce json
// @Param token body dto.GoogleTokenRequest true "Google ID token"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/google/token [post]
func (h *googleOAuthHandler) exchangeIDToken(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.GoogleTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	payload, err := h.oauthService.ValidateGoogleIDToken(c.Request.Context(), req.IDToken)
	if err != nil {
		logger.Warn("Rejected Google ID token", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid Google ID token"})
		return
	}

	h.completeSignIn(c, googleUserInfoFromIDToken(payload), false)
}

// completeSignIn resolves the Google identity to a local user and issues a
// session. Web callers with a configured frontend get a redirect with the
// access token in the URL fragment so it never reaches server logs.
func (h *googleOAuthHandler) completeSignIn(c *gin.Context, info domain.GoogleUserInfo, isWebFlow bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	user, err := h.userService.FindOrCreateGoogleUser(c.Request.Context(), info)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to resolve Google user", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to sign in"})
		return
	}

	accessToken, expiresAt, err := h.sessions.issueSession(c, user)
	if err != nil {
		logger.Error("Failed to issue session", slog.String("error", err.Error()), slog.String("user_id", user.UserID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to sign in"})
		return
	}

	logger.Info("User signed in with Google", slog.String("user_id", user.UserID))

	if isWebFlow && h.cfg.FrontendBaseURL != "" {
		c.Redirect(http.StatusFound, h.cfg.FrontendBaseURL+"/auth/callback#token="+url.QueryEscape(accessToken))
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:     accessToken,
		ExpiresAt: expiresAt,
		User:      dto.ToUserResponse(user),
	})
}

// googleUserInfoFromIDToken maps verified ID token claims onto the same shape
// the userinfo endpoint returns, so both flows share one user-resolution path.
func googleUserInfoFromIDToken(payload *idtoken.Payload) domain.GoogleUserInfo {
	info := domain.GoogleUserInfo{ID: payload.Subject}
	if email, ok := payload.Claims["email"].(string); ok {
		info.Email = email
	}
	if verified, ok := payload.Claims["email_verified"].(bool); ok {
		info.VerifiedEmail = verified
	}
	if name, ok := payload.Claims["name"].(string); ok {
		info.Name = name
	}
	if given, ok := payload.Claims["given_name"].(string); ok {
		info.GivenName = given
	}
	if family, ok := payload.Claims["family_name"].(string); ok {
		info.FamilyName = family
	}
	if picture, ok := payload.Claims["picture"].(string); ok {
		info.Picture = picture
	}
	return info
}
