package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-cqrs-user-service/internal/application"
	"github.com/oksasatya/go-cqrs-user-service/internal/domain/message"
	"github.com/oksasatya/go-cqrs-user-service/internal/messagebus"
	"github.com/oksasatya/go-cqrs-user-service/pkg/response"
	"github.com/oksasatya/go-cqrs-user-service/pkg/validation"
)

type UserHandler struct {
	Bus     *messagebus.Bus
	Queries *application.UserQueryService
	Logger  *logrus.Logger
}

func NewUserHandler(bus *messagebus.Bus, queries *application.UserQueryService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Bus: bus, Queries: queries, Logger: logger}
}

type createUserRequest struct {
	Phone    string `json:"phone" binding:"required,phone"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type updateUserRequest struct {
	Phone string `json:"phone" binding:"omitempty,phone"`
	Email string `json:"email" binding:"omitempty,email"`
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	res, err := h.Bus.Handle(c.Request.Context(), message.CreateUser{
		Phone:    req.Phone,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Fail(c, statusFor(err), messageFor(err), nil)
		return
	}
	response.OK(c, http.StatusCreated, res.(application.UserOut), "user created")
}

func (h *UserHandler) Update(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	res, err := h.Bus.Handle(c.Request.Context(), message.UpdateUser{
		ID:    c.Param("id"),
		Phone: req.Phone,
		Email: req.Email,
	})
	if err != nil {
		response.Fail(c, statusFor(err), messageFor(err), nil)
		return
	}
	response.OK(c, http.StatusOK, res.(application.UserOut), "user updated")
}

func (h *UserHandler) Delete(c *gin.Context) {
	_, err := h.Bus.Handle(c.Request.Context(), message.DeleteUser{ID: c.Param("id")})
	if err != nil {
		response.Fail(c, statusFor(err), messageFor(err), nil)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"deleted": true}, "user deleted")
}

func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.Queries.GetOne(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Fail(c, statusFor(err), messageFor(err), nil)
		return
	}
	response.OK(c, http.StatusOK, u, "user")
}

func (h *UserHandler) List(c *gin.Context) {
	page, size := pageParams(c)
	out, err := h.Queries.List(c.Request.Context(), page, size)
	if err != nil {
		response.Fail(c, statusFor(err), messageFor(err), nil)
		return
	}
	response.OK(c, http.StatusOK, out, "users")
}

func (h *UserHandler) ListFailures(c *gin.Context) {
	page, size := pageParams(c)
	out, err := h.Queries.ListFailures(c.Request.Context(), page, size)
	if err != nil {
		response.Fail(c, statusFor(err), messageFor(err), nil)
		return
	}
	response.OK(c, http.StatusOK, out, "failed messages")
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	return page, size
}
