// Package accountdelivery manages delivery layer of accounts.
package accountdelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/safebank/internal/domain"
	"github.com/go-petr/safebank/pkg/errorspkg"
	"github.com/go-petr/safebank/pkg/validatepkg"
	"github.com/go-petr/safebank/pkg/web"
)

// Service provides service layer interface needed by account delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package accountdelivery
type Service interface {
	GeneratePIN(ctx context.Context) (int64, error)
	CreateAccount(ctx context.Context, arg domain.CreateAccountParams, generatePIN bool) (int64, error)
	ViewProfile(ctx context.Context, pin int64) (domain.Account, error)
	CheckBalance(ctx context.Context, pin int64) (int64, error)
	Deposit(ctx context.Context, pin, amount int64) (int64, error)
	Withdraw(ctx context.Context, pin, amount int64) (int64, error)
	FindPINByName(ctx context.Context, name string) (int64, error)
	FindNameByPIN(ctx context.Context, pin int64) (string, error)
	DeleteAccount(ctx context.Context, sel domain.Selector, confirmed bool) (int64, error)
}

// Handler facilitates account delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns account handler.
func NewHandler(s Service) Handler {
	return Handler{service: s}
}

// Register mounts the account routes on r.
func (h *Handler) Register(r gin.IRoutes) {
	r.POST("/pins", h.GeneratePIN)
	r.POST("/accounts", h.Create)
	r.GET("/accounts", h.FindByName)
	r.DELETE("/accounts", h.DeleteByName)
	r.GET("/accounts/:pin", h.Get)
	r.GET("/accounts/:pin/balance", h.Balance)
	r.GET("/accounts/:pin/name", h.Name)
	r.POST("/accounts/:pin/deposit", h.Deposit)
	r.POST("/accounts/:pin/withdraw", h.Withdraw)
	r.DELETE("/accounts/:pin", h.DeleteByPIN)
}

func badRequest(gctx *gin.Context, err error) {
	zerolog.Ctx(gctx.Request.Context()).Info().Err(err).Send()
	gctx.JSON(http.StatusBadRequest, web.Response{Error: web.JSONError{Error: web.ValidationMessage(err)}})
}

func fail(gctx *gin.Context, err error) {
	status := errorspkg.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		zerolog.Ctx(gctx.Request.Context()).Error().Err(err).Send()
		gctx.JSON(status, web.Response{Error: web.Error(errorspkg.ErrInternal)})

		return
	}

	gctx.JSON(status, web.Response{Error: web.Error(err)})
}

type pinData struct {
	PIN int64 `json:"pin"`
}

type balanceData struct {
	PIN     int64 `json:"pin"`
	Balance int64 `json:"balance"`
}

type nameData struct {
	PIN  int64  `json:"pin"`
	Name string `json:"name"`
}

type deletedData struct {
	Removed int64 `json:"removed"`
}

// GeneratePIN handles http request to draw a fresh PIN.
func (h *Handler) GeneratePIN(gctx *gin.Context) {
	pin, err := h.service.GeneratePIN(gctx.Request.Context())
	if err != nil {
		fail(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: pinData{PIN: pin}})
}

type createRequest struct {
	PIN         int64            `json:"pin" binding:"omitempty,pin"`
	GeneratePIN bool             `json:"generate_pin"`
	Name        string           `json:"name" binding:"required,personname"`
	Gender      string           `json:"gender" binding:"required"`
	Age         int              `json:"age" binding:"gte=0,lte=100"`
	Address     string           `json:"address"`
	Contact     string           `json:"contact" binding:"required,contact"`
	Amount      *decimal.Decimal `json:"amount" binding:"required"`
}

// Create handles http request to open an account.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		badRequest(gctx, err)
		return
	}

	amount, err := validatepkg.WholeAmount(*req.Amount)
	if err != nil {
		fail(gctx, err)
		return
	}

	arg := domain.CreateAccountParams{
		PIN:     req.PIN,
		Name:    req.Name,
		Gender:  req.Gender,
		Age:     req.Age,
		Address: req.Address,
		Contact: req.Contact,
		Amount:  amount,
	}

	pin, err := h.service.CreateAccount(ctx, arg, req.GeneratePIN)
	if err != nil {
		fail(gctx, err)
		return
	}

	gctx.JSON(http.StatusCreated, web.Response{Data: pinData{PIN: pin}})
}

type pinURI struct {
	PIN int64 `uri:"pin" binding:"required,pin"`
}

func bindPIN(gctx *gin.Context) (int64, bool) {
	var uri pinURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		badRequest(gctx, err)
		return 0, false
	}

	return uri.PIN, true
}

// Get handles http request to view an account profile.
func (h *Handler) Get(gctx *gin.Context) {
	pin, ok := bindPIN(gctx)
	if !ok {
		return
	}

	account, err := h.service.ViewProfile(gctx.Request.Context(), pin)
	if err != nil {
		fail(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: account})
}

// Balance handles http request to check an account balance.
func (h *Handler) Balance(gctx *gin.Context) {
	pin, ok := bindPIN(gctx)
	if !ok {
		return
	}

	balance, err := h.service.CheckBalance(gctx.Request.Context(), pin)
	if err != nil {
		fail(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: balanceData{PIN: pin, Balance: balance}})
}

// Name handles http request to look up the holder name by PIN.
func (h *Handler) Name(gctx *gin.Context) {
	pin, ok := bindPIN(gctx)
	if !ok {
		return
	}

	name, err := h.service.FindNameByPIN(gctx.Request.Context(), pin)
	if err != nil {
		fail(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: nameData{PIN: pin, Name: name}})
}

// amountRequest accepts the amount as a JSON number or a numeric string.
type amountRequest struct {
	Amount *decimal.Decimal `json:"amount" binding:"required"`
}

func (h *Handler) move(gctx *gin.Context, op func(ctx context.Context, pin, amount int64) (int64, error)) {
	pin, ok := bindPIN(gctx)
	if !ok {
		return
	}

	var req amountRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		badRequest(gctx, err)
		return
	}

	amount, err := validatepkg.WholeAmount(*req.Amount)
	if err != nil {
		fail(gctx, err)
		return
	}

	balance, err := op(gctx.Request.Context(), pin, amount)
	if err != nil {
		fail(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: balanceData{PIN: pin, Balance: balance}})
}

// Deposit handles http request to add money to an account.
func (h *Handler) Deposit(gctx *gin.Context) {
	h.move(gctx, h.service.Deposit)
}

// Withdraw handles http request to take money from an account.
func (h *Handler) Withdraw(gctx *gin.Context) {
	h.move(gctx, h.service.Withdraw)
}

type nameQuery struct {
	Name    string `form:"name" binding:"required"`
	Confirm bool   `form:"confirm"`
}

// FindByName handles http request to look up a PIN by holder name.
func (h *Handler) FindByName(gctx *gin.Context) {
	var q nameQuery
	if err := gctx.ShouldBindQuery(&q); err != nil {
		badRequest(gctx, err)
		return
	}

	pin, err := h.service.FindPINByName(gctx.Request.Context(), q.Name)
	if err != nil {
		fail(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: pinData{PIN: pin}})
}

type confirmQuery struct {
	Confirm bool `form:"confirm"`
}

// DeleteByPIN handles http request to close the account with the given PIN.
//
// The request is rejected with ErrCancelled unless confirm=true is passed.
func (h *Handler) DeleteByPIN(gctx *gin.Context) {
	pin, ok := bindPIN(gctx)
	if !ok {
		return
	}

	var q confirmQuery
	if err := gctx.ShouldBindQuery(&q); err != nil {
		badRequest(gctx, err)
		return
	}

	h.delete(gctx, domain.ByPIN(pin), q.Confirm)
}

// DeleteByName handles http request to close the account with the given holder name.
func (h *Handler) DeleteByName(gctx *gin.Context) {
	var q nameQuery
	if err := gctx.ShouldBindQuery(&q); err != nil {
		badRequest(gctx, err)
		return
	}

	h.delete(gctx, domain.ByName(q.Name), q.Confirm)
}

func (h *Handler) delete(gctx *gin.Context, sel domain.Selector, confirmed bool) {
	removed, err := h.service.DeleteAccount(gctx.Request.Context(), sel, confirmed)
	if err != nil {
		fail(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: deletedData{Removed: removed}})
}
