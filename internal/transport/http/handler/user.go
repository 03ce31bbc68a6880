package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"docmanager/internal/app"
	"docmanager/internal/model"
	"docmanager/internal/transport/http/response"
)

type UserHandler struct {
	authService *app.AuthService
	userService *app.UserService
}

type CreateUserRequest struct {
	Email    string     `json:"email" binding:"required,email,max=128"`
	Password string     `json:"password" binding:"required,min=6,max=128"`
	Role     model.Role `json:"role" binding:"required,oneof=admin editor viewer"`
}

type UpdateRoleRequest struct {
	Role model.Role `json:"role" binding:"required,oneof=admin editor viewer"`
}

func NewUserHandler(authService *app.AuthService, userService *app.UserService) *UserHandler {
	return &UserHandler{authService: authService, userService: userService}
}

// Create lets an admin provision an account with an explicit role. It goes
// through the same registration path as self-service signup.
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	user, err := h.authService.Register(app.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrEmailExists):
			response.Error(c, http.StatusConflict, response.CodeEmailExists, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "create user failed")
		}
		return
	}

	response.OK(c, user)
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.List()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list users failed")
		return
	}
	response.OK(c, users)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil || id == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid user id")
		return
	}

	user, err := h.userService.Get(id)
	if err != nil {
		if errors.Is(err, app.ErrNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "user not found")
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "fetch user failed")
		}
		return
	}
	response.OK(c, user)
}

func (h *UserHandler) UpdateRole(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil || id == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid user id")
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	user, err := h.userService.UpdateRole(id, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "user not found")
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "update role failed")
		}
		return
	}
	response.OK(c, user)
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	s := c.Param(key)
	u, err := strconv.ParseUint(s, 10, 64)
	return uint(u), err
}
