package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/janhq/jan-crm/internal/application/pages"
	"github.com/janhq/jan-crm/internal/domain/backend"
	"github.com/janhq/jan-crm/internal/domain/forms"
	"github.com/janhq/jan-crm/internal/interfaces/httpserver/responses"
	"github.com/janhq/jan-crm/internal/utils/platformerrors"
)

// DashboardRoute is where a visitor lands after signing in.
const DashboardRoute = "/dashboard"

// CookieConfig names the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

// AuthHandler signs visitors in and out.
type AuthHandler struct {
	ws     *Workspace
	cookie CookieConfig
}

// NewAuthHandler wires the auth routes.
func NewAuthHandler(ws *Workspace, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{ws: ws, cookie: cookie}
}

// Credentials is the sign-in and sign-up body. JSON and form posts are both
// accepted.
type Credentials struct {
	Email    string `json:"email" form:"email" validate:"required,email,max=320" example:"ada@example.com"`
	Password string `json:"password" form:"password" validate:"required,min=6,max=72"`
}

// AuthView describes the auth screen.
type AuthView struct {
	SignInAction string `json:"sign_in_action"`
	SignUpAction string `json:"sign_up_action"`
}

// PendingResponse is returned when sign-up awaits email confirmation.
type PendingResponse struct {
	Message string `json:"message"`
}

// Page godoc
// @Summary      Auth screen
// @Description  Redirects to the dashboard when a session already exists.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  AuthView
// @Failure      303  "Already signed in"
// @Router       /auth [get]
func (h *AuthHandler) Page(c *gin.Context) {
	v := h.ws.visitor(c)
	if session, err := v.client.GetSession(c.Request.Context()); err == nil && session != nil {
		c.Redirect(http.StatusSeeOther, DashboardRoute)
		return
	}
	route := strings.TrimRight(h.ws.guard.AuthRoute(), "/")
	c.JSON(http.StatusOK, AuthView{SignInAction: route + "/sign-in", SignUpAction: route + "/sign-up"})
}

func (h *AuthHandler) bind(c *gin.Context) (Credentials, bool) {
	var creds Credentials
	if err := c.ShouldBind(&creds); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body: "+err.Error(), "7c1e4a92-3d5b-4f08-b6a7-2e9d1c8f4a01")
		return creds, false
	}
	creds.Email = strings.TrimSpace(creds.Email)
	if err := forms.Validate(c.Request.Context(), creds); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, forms.Message(err), "7c1e4a92-3d5b-4f08-b6a7-2e9d1c8f4a02")
		return creds, false
	}
	return creds, true
}

// SignIn godoc
// @Summary      Sign in with email and password
// @Description  Sets the session cookie and redirects to the dashboard.
// @Tags         auth
// @Accept       json
// @Param        body  body  Credentials  true  "Credentials"
// @Success      303   "Signed in"
// @Failure      400   {object}  responses.ErrorResponse
// @Failure      401   {object}  responses.ErrorResponse
// @Router       /auth/sign-in [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	creds, ok := h.bind(c)
	if !ok {
		return
	}
	session, err := h.ws.conn.SignInWithPassword(c.Request.Context(), creds.Email, creds.Password)
	if err != nil {
		platformerrors.LogError(h.ws.log, err)
		responses.HandleError(c, err, "sign in failed")
		return
	}
	h.setCookie(c, session)
	c.Redirect(http.StatusSeeOther, DashboardRoute)
}

// SignUp godoc
// @Summary      Create an account
// @Description  Signs the new account in, or reports that email confirmation is pending.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      Credentials  true  "Credentials"
// @Success      202   {object}  PendingResponse
// @Success      303   "Signed in"
// @Failure      409   {object}  responses.ErrorResponse
// @Router       /auth/sign-up [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	creds, ok := h.bind(c)
	if !ok {
		return
	}
	session, err := h.ws.conn.SignUp(c.Request.Context(), creds.Email, creds.Password)
	if err != nil {
		platformerrors.LogError(h.ws.log, err)
		responses.HandleError(c, err, "sign up failed")
		return
	}
	if session == nil {
		c.JSON(http.StatusAccepted, PendingResponse{Message: "Check your email to confirm your account"})
		return
	}
	h.setCookie(c, session)
	c.Redirect(http.StatusSeeOther, DashboardRoute)
}

// SignOut godoc
// @Summary      Sign out
// @Description  Ends the session, clears the cookie and redirects to the landing page. On failure the visitor stays signed in.
// @Tags         auth
// @Produce      json
// @Success      303  "Signed out"
// @Failure      502  {object}  responses.PageResponse
// @Router       /auth/sign-out [post]
func (h *AuthHandler) SignOut(c *gin.Context) {
	v := h.ws.visitor(c)
	nav := &redirector{}
	if !pages.NewShell(h.ws.deps(v)).SignOut(c.Request.Context(), nav) {
		responses.Page(c, http.StatusBadGateway, nil, nil, h.ws.drain(c, v))
		return
	}
	h.ws.forget(c, v)
	h.clearCookie(c)
	c.Redirect(http.StatusSeeOther, nav.to)
}

func (h *AuthHandler) setCookie(c *gin.Context, session *backend.Session) {
	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	if maxAge <= 0 {
		maxAge = 0
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, session.AccessToken, maxAge, "/", "", h.cookie.Secure, true)
}

func (h *AuthHandler) clearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
}
