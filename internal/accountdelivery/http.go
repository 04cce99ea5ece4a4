// Package accountdelivery manages delivery layer of the ledger operations of an authorized account holder.
package accountdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/abc-bank/internal/domain"
	"github.com/go-petr/abc-bank/internal/middleware"
	"github.com/go-petr/abc-bank/pkg/errorspkg"
	"github.com/go-petr/abc-bank/pkg/moneypkg"
	"github.com/go-petr/abc-bank/pkg/tokenpkg"
	"github.com/go-petr/abc-bank/pkg/web"
)

// Service provides service layer interface needed by account delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package accountdelivery
type Service interface {
	Get(ctx context.Context, username string) (domain.AccountWithoutPassword, error)
	Deposit(ctx context.Context, username string, amount decimal.Decimal) (domain.AccountWithoutPassword, error)
	Withdraw(ctx context.Context, username string, amount decimal.Decimal) (domain.AccountWithoutPassword, error)
	ListEntries(ctx context.Context, username string, pageSize, pageID int32) ([]domain.Entry, error)
}

// Handler facilitates account delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns account handler.
func NewHandler(as Service) Handler {
	return Handler{service: as}
}

type data struct {
	Account domain.AccountWithoutPassword `json:"account"`
}

// Balance handles http request to view the balance of the authorized account.
func (h *Handler) Balance(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	account, err := h.service.Get(ctx, authPayload.Username)
	if err != nil {
		writeError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: data{Account: account}})
}

type amountRequest struct {
	Amount string `json:"amount" binding:"required,amount"`
}

// Deposit handles http request to deposit money into the authorized account.
func (h *Handler) Deposit(gctx *gin.Context) {
	h.changeBalance(gctx, h.service.Deposit)
}

// Withdraw handles http request to withdraw money from the authorized account.
func (h *Handler) Withdraw(gctx *gin.Context) {
	h.changeBalance(gctx, h.service.Withdraw)
}

type balanceChanger func(ctx context.Context, username string, amount decimal.Decimal) (domain.AccountWithoutPassword, error)

func (h *Handler) changeBalance(gctx *gin.Context, change balanceChanger) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req amountRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, bindingError(err))

		return
	}

	amount, err := moneypkg.ParseAmount(req.Amount)
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(domain.ErrInvalidAmount))

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	account, err := change(ctx, authPayload.Username, amount)
	if err != nil {
		writeError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: data{Account: account}})
}

type listRequest struct {
	PageID   int32 `form:"page_id" binding:"required,min=1"`
	PageSize int32 `form:"page_size" binding:"required,min=1,max=100"`
}

type dataEntries struct {
	Entries []domain.Entry `json:"entries"`
}

// ListEntries handles http request to list balance entries of the authorized account.
func (h *Handler) ListEntries(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req listRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, bindingError(err))

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	entries, err := h.service.ListEntries(ctx, authPayload.Username, req.PageSize, req.PageID)
	if err != nil {
		writeError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: dataEntries{Entries: entries}})
}

func writeError(gctx *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		gctx.JSON(http.StatusBadRequest, web.Error(err))
	case errors.Is(err, domain.ErrUserNotFound):
		gctx.JSON(http.StatusNotFound, web.Error(err))
	case errors.Is(err, domain.ErrInsufficientFunds):
		gctx.JSON(http.StatusUnprocessableEntity, web.Error(err))
	default:
		zerolog.Ctx(gctx.Request.Context()).Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
	}
}

func bindingError(err error) web.Response {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return web.Response{Error: web.GetErrorMsg(ve)}
	}

	return web.Error(err)
}
