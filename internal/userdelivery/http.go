// Package userdelivery manages delivery layer of account holders: signup and login.
package userdelivery

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-petr/abc-bank/internal/domain"
	"github.com/go-petr/abc-bank/internal/middleware"
	"github.com/go-petr/abc-bank/pkg/configpkg"
	"github.com/go-petr/abc-bank/pkg/errorspkg"
	"github.com/go-petr/abc-bank/pkg/tokenpkg"
	"github.com/go-petr/abc-bank/pkg/web"
)

// Service provides service layer interface needed by user delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package userdelivery
type Service interface {
	SignUp(ctx context.Context, username, email string, age int, phone, password string) (domain.AccountWithoutPassword, error)
	Login(ctx context.Context, username, password string) (domain.AccountWithoutPassword, error)
}

// Handler facilitates user delivery layer logic.
type Handler struct {
	service    Service
	tokenMaker tokenpkg.Maker
	config     configpkg.Config
	metrics    *middleware.Metrics
}

// NewHandler returns user handler. metrics may be nil.
func NewHandler(us Service, tm tokenpkg.Maker, config configpkg.Config, metrics *middleware.Metrics) *Handler {
	return &Handler{
		service:    us,
		tokenMaker: tm,
		config:     config,
		metrics:    metrics,
	}
}

type data struct {
	Account domain.AccountWithoutPassword `json:"account"`
}

type signUpRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Age      *int   `json:"age" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Create handles http request to sign up a new account holder.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req signUpRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, bindingError(err))

		return
	}

	created, err := h.service.SignUp(ctx, req.Username, req.Email, *req.Age, req.Phone, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUsernameAlreadyExists) {
			gctx.JSON(http.StatusConflict, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: data{Account: created}})
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles http login request and returns the account with an access token.
func (h *Handler) Login(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req loginRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, bindingError(err))

		return
	}

	account, err := h.service.Login(ctx, req.Username, req.Password)
	if err != nil {
		h.metrics.ObserveLogin(false)

		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		case errors.Is(err, domain.ErrWrongPassword):
			gctx.JSON(http.StatusUnauthorized, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	accessToken, payload, err := h.tokenMaker.CreateToken(account.Username, h.config.AccessTokenDuration)
	if err != nil {
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	h.metrics.ObserveLogin(true)

	res := web.Response{
		AccessToken:          accessToken,
		AccessTokenExpiresAt: payload.ExpiredAt.Format(time.RFC3339),
		Data:                 data{Account: account},
	}

	gctx.JSON(http.StatusOK, res)
}

func bindingError(err error) web.Response {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return web.Response{Error: web.GetErrorMsg(ve)}
	}

	return web.Error(err)
}
