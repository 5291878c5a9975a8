package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/solarstore/internal/server/http/dto"
	"github.com/polkiloo/solarstore/internal/server/http/middleware"
	"github.com/polkiloo/solarstore/internal/usecase"
)

// AuthHandler processes registration, email verification and login.
type AuthHandler struct {
	facade AuthFacade
}

// NewAuthHandler creates AuthHandler instance.
func NewAuthHandler(facade AuthFacade) *AuthHandler {
	return &AuthHandler{facade: facade}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	usr, err := h.facade.Register(c.Request.Context(), usecase.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.Envelope{
		Success: true,
		Data:    dto.NewUserResponse(usr),
		Message: "verification code sent to " + usr.Email,
	})
}

// VerifyEmail handles POST /api/auth/verify-email.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req dto.VerifyEmailRequest
	if !bindJSON(c, &req) {
		return
	}

	usr, token, err := h.facade.VerifyEmail(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		writeError(c, err)
		return
	}
	middleware.SetAuthCookie(c, token)
	respond(c, http.StatusOK, dto.AuthResponse{Token: token, User: dto.NewUserResponse(usr)})
}

// ResendOTP handles POST /api/auth/resend-otp.
func (h *AuthHandler) ResendOTP(c *gin.Context) {
	var req dto.EmailRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.facade.ResendOTP(c.Request.Context(), req.Email); err != nil {
		writeError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "verification code sent")
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	usr, token, err := h.facade.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	middleware.SetAuthCookie(c, token)
	respond(c, http.StatusOK, dto.AuthResponse{Token: token, User: dto.NewUserResponse(usr)})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.ClearAuthCookie(c)
	respondMessage(c, http.StatusOK, "logged out")
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	usr, err := h.facade.CurrentUser(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.NewUserResponse(usr))
}
