package handler

import (
	"net/http"

	accountUsecase "trusthire/internal/usecase/account"
	"trusthire/pkg/utils"

	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	service *accountUsecase.Service
}

func NewAccountHandler(service *accountUsecase.Service) *AccountHandler {
	return &AccountHandler{service: service}
}

// RegisterRoutes mounts the public account workflow. otpLimit guards the code
// endpoints on top of the global limiter.
func (h *AccountHandler) RegisterRoutes(router *gin.RouterGroup, otpLimit gin.HandlerFunc) {
	users := router.Group("/users")
	{
		users.POST("/register", h.Register)
		users.POST("/verify-otp", otpLimit, h.VerifyOTP)
		users.POST("/resend-otp", otpLimit, h.ResendOTP)
		users.POST("/login", h.Login)
	}
}

// RegisterProtectedRoutes expects router to carry the auth middleware.
func (h *AccountHandler) RegisterProtectedRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("/profile", h.GetProfile)
		users.PUT("/profile", h.UpdateProfile)
		users.POST("/change-password", h.ChangePassword)
		users.GET("/validate-token", h.ValidateToken)
		users.POST("/logout", h.Logout)
		users.GET("/:id", h.GetAccount)
	}
}

func (h *AccountHandler) Register(c *gin.Context) {
	var req accountUsecase.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "User registered successfully. Please verify your email with OTP.", resp)
}

func (h *AccountHandler) VerifyOTP(c *gin.Context) {
	var req accountUsecase.VerifyOTPRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.VerifyOTP(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Email verified successfully", resp)
}

func (h *AccountHandler) ResendOTP(c *gin.Context) {
	var req accountUsecase.ResendOTPRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.service.ResendOTP(c.Request.Context(), &req); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "OTP resent successfully", nil)
}

func (h *AccountHandler) Login(c *gin.Context) {
	var req accountUsecase.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Login successful", resp)
}

func (h *AccountHandler) GetProfile(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	resp, err := h.service.GetProfile(c.Request.Context(), p.ID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", resp)
}

func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req accountUsecase.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.UpdateProfile(c.Request.Context(), p.ID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Profile updated successfully", resp)
}

func (h *AccountHandler) ChangePassword(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req accountUsecase.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), p.ID, &req); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Password changed successfully", nil)
}

func (h *AccountHandler) ValidateToken(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Token is valid", gin.H{
		"id":    p.ID,
		"email": p.Email,
		"role":  p.Role,
	})
}

// Logout only acknowledges; issued tokens stay valid until they expire.
func (h *AccountHandler) Logout(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Logged out successfully", nil)
}

func (h *AccountHandler) GetAccount(c *gin.Context) {
	id, ok := pathUUID(c, "id", "user")
	if !ok {
		return
	}

	resp, err := h.service.GetAccount(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", resp)
}
