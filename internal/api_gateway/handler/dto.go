package handler

// TransactionListParams are the query parameters of the transaction list
type TransactionListParams struct {
	Filter  string `form:"filter"`
	Page    int    `form:"page,default=1" binding:"min=1"`
	PerPage int    `form:"per_page,default=20" binding:"min=1,max=100"`
}

// TransactionResponse represents one merged feed row in API responses
type TransactionResponse struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	Amount       string `json:"amount"`
	Description  string `json:"description"`
	ReferenceID  string `json:"reference_id,omitempty"`
	Kind         string `json:"kind"`
	CreditClass  string `json:"credit_class,omitempty"`
	BalanceAfter string `json:"balance_after,omitempty"`
	CreatedAt    string `json:"created_at"`
	Synthetic    bool   `json:"synthetic"`
	// Status is the UPI, withdrawal or refund status the row was annotated with.
	Status string `json:"status,omitempty"`
}

// WalletSummaryResponse represents the wallet totals in API responses
type WalletSummaryResponse struct {
	TotalAdded       string `json:"total_added"`
	TotalSpent       string `json:"total_spent"`
	Profit           string `json:"profit"`
	WithdrawTotal    string `json:"withdraw_total"`
	Balance          string `json:"balance,omitempty"`
	TransactionCount int    `json:"transaction_count"`
	MalformedRecords int    `json:"malformed_records,omitempty"`
	AsOf             string `json:"as_of"`
}
