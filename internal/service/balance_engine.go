package service

import (
	"backend/internal/model"
	"backend/pkg/apperr"

	"github.com/shopspring/decimal"
)

// The balance engine is the pure arithmetic shared by the approval workflow
// and supplier initialize. It never touches storage.

// ApplyApproval returns the supplier balance after deducting an approved
// order amount. The result is not clamped at zero: approved orders may
// exceed the initial amount, leaving the supplier in overdraft.
func ApplyApproval(current, orderAmount decimal.Decimal) decimal.Decimal {
	return current.Sub(orderAmount)
}

// ApplyInitialize resolves the balances for an initialize/reset. A nil
// newCurrent defaults to newInitial (a fresh slate).
func ApplyInitialize(newInitial decimal.Decimal, newCurrent *decimal.Decimal) (initial, current decimal.Decimal, err error) {
	if newInitial.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, decimal.Zero, apperr.Validation("initial amount must be greater than zero")
	}
	current = newInitial
	if newCurrent != nil {
		if newCurrent.IsNegative() {
			return decimal.Zero, decimal.Zero, apperr.Validation("current amount cannot be negative")
		}
		if newCurrent.GreaterThan(newInitial) {
			return decimal.Zero, decimal.Zero, apperr.Validation("current amount cannot exceed initial amount")
		}
		current = *newCurrent
	}
	return newInitial, current, nil
}

// ArchiveSummary aggregates the orders cleared by an initialize-with-export.
type ArchiveSummary struct {
	Count          int
	TotalAmount    decimal.Decimal
	ApprovedAmount decimal.Decimal
}

// SummarizeOrders computes the totals preserved in an order archive.
func SummarizeOrders(orders []model.Order) ArchiveSummary {
	summary := ArchiveSummary{
		Count:          len(orders),
		TotalAmount:    decimal.Zero,
		ApprovedAmount: decimal.Zero,
	}
	for _, o := range orders {
		summary.TotalAmount = summary.TotalAmount.Add(o.Amount)
		if o.Status == model.OrderStatusApproved {
			summary.ApprovedAmount = summary.ApprovedAmount.Add(o.Amount)
		}
	}
	return summary
}
