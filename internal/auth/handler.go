package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/reimburse/pkg/middleware"
	"github.com/fkhayef/reimburse/pkg/request"
	"github.com/fkhayef/reimburse/pkg/response"
)

// Handler handles HTTP requests for authentication and password recovery
type Handler struct {
	service *Service
}

// NewHandler creates a new auth handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for auth endpoints. public wraps the unauthenticated
// endpoints (rate limiting), authenticated wraps logout and change-password.
func (h *Handler) Routes(public, authenticated func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(public)
		r.Post("/login", h.Login)
		r.Post("/token/refresh", h.Refresh)
		r.Post("/forgot-password", h.ForgotPassword)
		r.Post("/verify-otp", h.VerifyOTP)
		r.Post("/reset-password", h.ResetPassword)
	})

	r.Group(func(r chi.Router) {
		r.Use(authenticated)
		r.Post("/logout", h.Logout)
		r.Post("/change-password", h.ChangePassword)
	})

	return r
}

// Login handles POST /auth/login
// @Summary      Log in
// @Description  Authenticate with a username or email and receive an access and refresh token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Credentials"
// @Success      200 {object} response.APIResponse{data=LoginResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      401 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Router       /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := request.Decode(r, &req); err != nil {
		response.FromError(w, r, err)
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, resp)
}

// Refresh handles POST /auth/token/refresh
// @Summary      Refresh the access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RefreshRequest true "Refresh token"
// @Success      200 {object} response.APIResponse{data=RefreshResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      401 {object} response.APIResponse
// @Router       /auth/token/refresh [post]
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := request.Decode(r, &req); err != nil {
		response.FromError(w, r, err)
		return
	}

	resp, err := h.service.Refresh(r.Context(), &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, resp)
}

// Logout handles POST /auth/logout
// @Summary      Log out
// @Description  Tokens are stateless; the client discards them
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.APIResponse{data=response.Message}
// @Failure      401 {object} response.APIResponse
// @Router       /auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	response.OK(w, MsgLogoutSuccessful)
}

// ForgotPassword handles POST /auth/forgot-password
// @Summary      Request a password reset code
// @Description  Always answers the same way, whether or not the email belongs to an account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ForgotPasswordRequest true "Account email"
// @Success      200 {object} response.APIResponse{data=response.Message}
// @Failure      400 {object} response.APIResponse
// @Router       /auth/forgot-password [post]
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := request.Decode(r, &req); err != nil {
		response.FromError(w, r, err)
		return
	}

	if err := h.service.ForgotPassword(r.Context(), &req); err != nil {
		response.FromError(w, r, err)
		return
	}

	response.OK(w, MsgOTPSent)
}

// VerifyOTP handles POST /auth/verify-otp
// @Summary      Verify a password reset code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body VerifyOTPRequest true "Email and code"
// @Success      200 {object} response.APIResponse{data=VerifyOTPResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /auth/verify-otp [post]
func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req VerifyOTPRequest
	if err := request.Decode(r, &req); err != nil {
		response.FromError(w, r, err)
		return
	}

	token, err := h.service.VerifyOTP(r.Context(), &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, &VerifyOTPResponse{Message: MsgOTPVerified, ResetToken: token})
}

// ResetPassword handles POST /auth/reset-password
// @Summary      Reset the password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ResetPasswordRequest true "Reset token and new password"
// @Success      200 {object} response.APIResponse{data=response.Message}
// @Failure      400 {object} response.APIResponse
// @Router       /auth/reset-password [post]
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := request.Decode(r, &req); err != nil {
		response.FromError(w, r, err)
		return
	}

	if err := h.service.ResetPassword(r.Context(), &req); err != nil {
		response.FromError(w, r, err)
		return
	}

	response.OK(w, MsgPasswordReset)
}

// ChangePassword handles POST /auth/change-password
// @Summary      Change the password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ChangePasswordRequest true "Old and new password"
// @Success      200 {object} response.APIResponse{data=response.Message}
// @Failure      400 {object} response.APIResponse
// @Failure      401 {object} response.APIResponse
// @Router       /auth/change-password [post]
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req ChangePasswordRequest
	if err := request.Decode(r, &req); err != nil {
		response.FromError(w, r, err)
		return
	}

	if err := h.service.ChangePassword(r.Context(), userID, &req); err != nil {
		response.FromError(w, r, err)
		return
	}

	response.OK(w, MsgPasswordChanged)
}
