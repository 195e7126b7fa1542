package cashflow

import "github.com/shopspring/decimal"

// Stats summarizes approved cash flow for a scope
type Stats struct {
	TotalIncomeApproved  decimal.Decimal
	TotalExpenseApproved decimal.Decimal
	PendingCount         int64
}

// Balance is approved income minus approved expense
func (s Stats) Balance() decimal.Decimal {
	return s.TotalIncomeApproved.Sub(s.TotalExpenseApproved)
}
