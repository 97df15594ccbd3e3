package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tournament-wallet-ledger/internal/api_gateway/middleware"
	"github.com/tournament-wallet-ledger/internal/domain/shared"
	"github.com/tournament-wallet-ledger/internal/reconciliation"
	"github.com/tournament-wallet-ledger/internal/walletview"
)

// WalletHandler handles HTTP requests for the reconciled wallet view
type WalletHandler struct {
	viewer walletview.Viewer
	logger *slog.Logger
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(logger *slog.Logger, viewer walletview.Viewer) *WalletHandler {
	return &WalletHandler{
		viewer: viewer,
		logger: logger,
	}
}

// ListTransactions returns one page of the merged feed under the requested filter
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	logger := middleware.RequestLogger(c, h.logger)

	var params TransactionListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	mode, err := shared.ParseFilterMode(params.Filter)
	if err != nil {
		logger.Warn("Invalid filter", "filter", params.Filter)
		RespondBadRequest(c, "Invalid filter: expected one of all, added, spent, withdrawals")
		return
	}

	view, ok := h.view(c, logger)
	if !ok {
		return
	}

	filtered := view.Filter(mode)
	start, end := pageBounds(params.Page, params.PerPage, len(filtered))

	transactions := make([]TransactionResponse, 0, end-start)
	for _, tx := range filtered[start:end] {
		transactions = append(transactions, mapTransactionToResponse(tx))
	}

	RespondWithPaginatedData(c, http.StatusOK, transactions, params.Page, params.PerPage, len(filtered), string(mode))
}

// Summary returns the wallet totals, balance and transaction count
func (h *WalletHandler) Summary(c *gin.Context) {
	logger := middleware.RequestLogger(c, h.logger)

	view, ok := h.view(c, logger)
	if !ok {
		return
	}

	RespondOK(c, mapResultToSummary(view))
}

// pageBounds returns the slice bounds of a 1-based page. Pages past the end are empty.
func pageBounds(page, perPage, total int) (int, int) {
	if page-1 >= (total+perPage-1)/perPage {
		return total, total
	}
	start := (page - 1) * perPage
	return start, min(start+perPage, total)
}

// view loads the caller's view and writes the error response on failure.
func (h *WalletHandler) view(c *gin.Context, logger *slog.Logger) (*reconciliation.Result, bool) {
	view, err := h.viewer.GetView(c.Request.Context(), middleware.GetCredential(c))
	if err == nil {
		return view, true
	}

	_ = c.Error(err)
	switch {
	case errors.Is(err, shared.ErrUnauthorized):
		logger.Warn("Wallet source rejected credential", "error", err)
		RespondUnauthorized(c, "Session is not valid for the wallet services")
	case errors.Is(err, shared.ErrUnavailable):
		logger.Error("Wallet sources unavailable", "error", err)
		RespondServiceUnavailable(c, "Wallet data is temporarily unavailable")
	default:
		logger.Error("Failed to build wallet view", "error", err)
		RespondInternalError(c)
	}
	return nil, false
}

// mapTransactionToResponse maps a merged feed row to its DTO
func mapTransactionToResponse(tx reconciliation.MergedTransaction) TransactionResponse {
	response := TransactionResponse{
		ID:          tx.ID,
		Type:        string(tx.Type),
		Amount:      tx.Amount.StringFixed(2),
		Description: tx.Description,
		ReferenceID: tx.ReferenceID,
		Kind:        tx.Kind.String(),
		CreatedAt:   tx.CreatedAt.UTC().Format(time.RFC3339),
		Synthetic:   tx.Synthetic,
	}

	if tx.IsCredit() {
		response.CreditClass = string(reconciliation.ClassifyCredit(tx))
	}
	if tx.BalanceAfter != nil {
		response.BalanceAfter = tx.BalanceAfter.StringFixed(2)
	}

	switch {
	case tx.UpiStatus != "":
		response.Status = string(tx.UpiStatus)
	case tx.WithdrawalStatus != "":
		response.Status = string(tx.WithdrawalStatus)
	case tx.RefundStatus != "":
		response.Status = string(tx.RefundStatus)
	}

	return response
}

func mapResultToSummary(view *reconciliation.Result) WalletSummaryResponse {
	response := WalletSummaryResponse{
		TotalAdded:       view.Totals.TotalAdded.StringFixed(2),
		TotalSpent:       view.Totals.TotalSpent.StringFixed(2),
		Profit:           view.Totals.Profit.StringFixed(2),
		WithdrawTotal:    view.Totals.WithdrawTotal.StringFixed(2),
		TransactionCount: view.TransactionCount,
		MalformedRecords: view.Malformed,
		AsOf:             view.AsOf.UTC().Format(time.RFC3339),
	}
	if view.Balance != nil {
		response.Balance = view.Balance.StringFixed(2)
	}
	return response
}
