package model

import (
	"fmt"
	"time"
)

// =====================================================
// DELIVERY WINDOW VALIDATOR
// =====================================================

// DaysSinceDelivery returns whole calendar days between the delivery
// date and the reference date. Negative when the delivery date lies in
// the future.
func DaysSinceDelivery(deliveryDate, referenceDate time.Time) int {
	d := time.Date(deliveryDate.Year(), deliveryDate.Month(), deliveryDate.Day(), 0, 0, 0, 0, time.UTC)
	r := time.Date(referenceDate.Year(), referenceDate.Month(), referenceDate.Day(), 0, 0, 0, 0, time.UTC)
	return int(r.Sub(d).Hours() / 24)
}

// WithinWindow reports whether a refund may still be granted for a
// delivery at deliveryDate when judged at referenceDate.
//
// The window is inclusive on both ends: day thresholdDays exactly is
// still eligible, day thresholdDays+1 is not. A delivery date in the
// future counts as eligible - it cannot have exceeded the window yet.
func WithinWindow(deliveryDate, referenceDate time.Time, thresholdDays int) (bool, error) {
	if deliveryDate.IsZero() || referenceDate.IsZero() {
		return false, NewRefundError(
			ErrCodeInvalidInput,
			"Delivery date and reference date are required",
			ErrInvalidInput,
		)
	}
	return DaysSinceDelivery(deliveryDate, referenceDate) <= thresholdDays, nil
}

// =====================================================
// ELIGIBILITY VERDICT
// =====================================================

// ItemVerdict is the per-item outcome inside an EligibilityVerdict
type ItemVerdict struct {
	ProductID string `json:"product_id"`
	Eligible  bool   `json:"eligible"`
	Reason    string `json:"reason"`
	Amount    Money  `json:"amount"`
}

// EligibilityVerdict is the computed eligibility outcome for a whole
// request. Derived value - recomputed on demand, never mutated.
type EligibilityVerdict struct {
	Status       EligibilityStatus `json:"status"`
	RefundAmount Money             `json:"refund_amount"`
	Items        []ItemVerdict     `json:"items"`
}

// IsEligible reports whether at least one item qualifies
func (v EligibilityVerdict) IsEligible() bool {
	return v.Status == EligibilityEligible || v.Status == EligibilityPartiallyEligible
}

// Per-item reason strings surfaced to agents and customers
const (
	reasonWithinWindow   = "within window"
	reasonFutureDelivery = "future delivery date"
	reasonDefectOverride = "defect or damage reported"
)

// =====================================================
// ELIGIBILITY CALCULATOR
// =====================================================

// EvaluateEligibility applies the delivery-window rule to every line
// item and aggregates the result.
//
// Rules:
//  1. overrideDefective makes every item eligible regardless of date
//     (the customer reported a defect or transit damage).
//  2. Otherwise each item is judged independently against its own
//     delivery date.
//  3. All eligible -> Eligible with the full sum; none -> Ineligible
//     with zero; a mix -> PartiallyEligible with the eligible sum only.
//
// Pure function: same inputs always produce the same verdict.
func EvaluateEligibility(items []LineItem, referenceDate time.Time, thresholdDays int, overrideDefective bool) (EligibilityVerdict, error) {
	currency := DefaultCurrency
	if len(items) > 0 {
		currency = items[0].UnitPrice.Currency
	}

	// No items to refund
	if len(items) == 0 {
		return EligibilityVerdict{
			Status:       EligibilityIneligible,
			RefundAmount: ZeroMoney(currency),
			Items:        []ItemVerdict{},
		}, nil
	}

	total := ZeroMoney(currency)
	verdicts := make([]ItemVerdict, 0, len(items))
	eligibleCount := 0

	for _, item := range items {
		eligible, reason, err := evaluateItem(item, referenceDate, thresholdDays, overrideDefective)
		if err != nil {
			return EligibilityVerdict{}, err
		}

		amount := ZeroMoney(currency)
		if eligible {
			amount = item.LineTotal()
			total, err = total.Add(amount)
			if err != nil {
				return EligibilityVerdict{}, err
			}
			eligibleCount++
		}

		verdicts = append(verdicts, ItemVerdict{
			ProductID: item.ProductID,
			Eligible:  eligible,
			Reason:    reason,
			Amount:    amount,
		})
	}

	status := EligibilityPartiallyEligible
	switch eligibleCount {
	case len(items):
		status = EligibilityEligible
	case 0:
		status = EligibilityIneligible
	}

	return EligibilityVerdict{
		Status:       status,
		RefundAmount: total,
		Items:        verdicts,
	}, nil
}

func evaluateItem(item LineItem, referenceDate time.Time, thresholdDays int, overrideDefective bool) (bool, string, error) {
	if overrideDefective {
		return true, reasonDefectOverride, nil
	}

	ok, err := WithinWindow(item.DeliveryDate, referenceDate, thresholdDays)
	if err != nil {
		return false, "", err
	}

	days := DaysSinceDelivery(item.DeliveryDate, referenceDate)
	switch {
	case !ok:
		return false, fmt.Sprintf("exceeded %d-day window", thresholdDays), nil
	case days < 0:
		return true, reasonFutureDelivery, nil
	default:
		return true, reasonWithinWindow, nil
	}
}
