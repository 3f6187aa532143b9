package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/vector-10/wallet-service-lendsqr/internal/models"
	"github.com/vector-10/wallet-service-lendsqr/internal/services/wallet"
	"github.com/vector-10/wallet-service-lendsqr/internal/utils"
)

// WalletHandler exposes the money movement endpoints.
type WalletHandler struct {
	walletService wallet.Service
}

// NewWalletHandler creates a WalletHandler.
func NewWalletHandler(walletService wallet.Service) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

func extractUserClaims(c *fiber.Ctx) (*models.UserClaims, error) {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok || claims == nil {
		return nil, fiber.ErrUnauthorized
	}
	return claims, nil
}

// respondEngineError maps wallet service error kinds onto HTTP status codes.
func respondEngineError(c *fiber.Ctx, err error) error {
	werr, ok := wallet.AsError(err)
	if !ok {
		return utils.InternalError(c, "Something went wrong")
	}
	switch werr.Kind {
	case wallet.KindValidation:
		return utils.BadRequest(c, werr.Message)
	case wallet.KindNotFound:
		return utils.NotFound(c, werr.Message)
	case wallet.KindUnprocessable:
		return utils.Unprocessable(c, werr.Message)
	case wallet.KindStore:
		return utils.InternalError(c, "Transaction could not be completed. Please retry.")
	default:
		return utils.InternalError(c, "Something went wrong")
	}
}

type fundRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// FundWallet handles POST /api/wallet/fund.
func (h *WalletHandler) FundWallet(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var req fundRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	result, err := h.walletService.FundWallet(c.Context(), claims.UserID, req.Amount)
	if err != nil {
		return respondEngineError(c, err)
	}
	return utils.Success(c, "Wallet funded successfully", result)
}

type withdrawRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// WithdrawFunds handles POST /api/wallet/withdraw.
func (h *WalletHandler) WithdrawFunds(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var req withdrawRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	result, err := h.walletService.WithdrawFunds(c.Context(), claims.UserID, req.Amount)
	if err != nil {
		return respondEngineError(c, err)
	}
	return utils.Success(c, "Withdrawal successful", result)
}

type transferRequest struct {
	ReceiverEmail string          `json:"receiver_email" validate:"required,email"`
	Amount        decimal.Decimal `json:"amount"`
}

// TransferFunds handles POST /api/wallet/transfer.
func (h *WalletHandler) TransferFunds(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return utils.BadRequest(c, "A valid receiver_email is required")
	}

	result, err := h.walletService.TransferFunds(c.Context(), claims.UserID, req.ReceiverEmail, req.Amount)
	if err != nil {
		return respondEngineError(c, err)
	}
	return utils.Success(c, "Transfer successful", result)
}

// GetBalance handles GET /api/wallet.
func (h *WalletHandler) GetBalance(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	walletRow, err := h.walletService.GetWalletBalance(c.Context(), claims.UserID)
	if err != nil {
		return respondEngineError(c, err)
	}
	return utils.Success(c, "Wallet retrieved", fiber.Map{"wallet": walletRow})
}

// GetTransactionHistory handles GET /api/wallet/transactions.
func (h *WalletHandler) GetTransactionHistory(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	transactions, err := h.walletService.GetTransactionHistory(c.Context(), claims.UserID)
	if err != nil {
		return respondEngineError(c, err)
	}
	return utils.Success(c, "Transaction history retrieved", fiber.Map{"transactions": transactions})
}
