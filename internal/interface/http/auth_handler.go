package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-cqrs-user-service/internal/application"
	"github.com/oksasatya/go-cqrs-user-service/internal/domain/message"
	"github.com/oksasatya/go-cqrs-user-service/internal/messagebus"
	"github.com/oksasatya/go-cqrs-user-service/pkg/response"
	"github.com/oksasatya/go-cqrs-user-service/pkg/validation"
)

type AuthHandler struct {
	Bus    *messagebus.Bus
	Logger *logrus.Logger
}

func NewAuthHandler(bus *messagebus.Bus, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Bus: bus, Logger: logger}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
	GrantType    string `json:"grant_type" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	res, err := h.Bus.Handle(c.Request.Context(), message.LoginUser{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Fail(c, statusFor(err), messageFor(err), nil)
		return
	}
	response.OK(c, http.StatusOK, res.(application.TokenPair), "login successful")
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	res, err := h.Bus.Handle(c.Request.Context(), message.RefreshToken{
		RefreshToken: req.RefreshToken,
		GrantType:    req.GrantType,
	})
	if err != nil {
		response.Fail(c, statusFor(err), messageFor(err), nil)
		return
	}
	response.OK(c, http.StatusOK, res.(application.AccessToken), "token refreshed")
}
