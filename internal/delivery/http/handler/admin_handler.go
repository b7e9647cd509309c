package handler

import (
	"net/http"

	accountUsecase "trusthire/internal/usecase/account"
	appErrors "trusthire/pkg/errors"
	"trusthire/pkg/utils"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	service *accountUsecase.Service
}

func NewAdminHandler(service *accountUsecase.Service) *AdminHandler {
	return &AdminHandler{service: service}
}

func (h *AdminHandler) RegisterPublicRoutes(router *gin.RouterGroup) {
	router.POST("/login", h.Login)
}

// RegisterRoutes expects router to carry the auth and admin role middleware.
func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/users", h.ListUsers)
	router.DELETE("/users/:id", h.DeleteUser)
	router.GET("/dashboard/stats", h.DashboardStats)
}

func (h *AdminHandler) Login(c *gin.Context) {
	var req accountUsecase.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.AdminLogin(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Admin login successful", resp)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	var q accountUsecase.ListAccountsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, appErrors.CodeValidation, "Invalid query parameters")
		return
	}

	resp, err := h.service.ListAccounts(c.Request.Context(), &q)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", resp)
}

func (h *AdminHandler) DashboardStats(c *gin.Context) {
	stats, err := h.service.DashboardStats(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", stats)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	id, ok := pathUUID(c, "id", "user")
	if !ok {
		return
	}

	if err := h.service.DeleteAccount(c.Request.Context(), p.ID, id); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "User deleted successfully", nil)
}
