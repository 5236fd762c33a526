package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustItem(t *testing.T, productID, price string, qty int, delivered time.Time) LineItem {
	t.Helper()
	item, err := NewLineItem(productID, "item "+productID, MustMoney(price, "USD"), qty, delivered)
	require.NoError(t, err)
	return item
}

func TestWithinWindow(t *testing.T) {
	now := time.Date(2026, 3, 20, 15, 30, 0, 0, time.UTC)

	cases := []struct {
		name      string
		delivered time.Time
		want      bool
	}{
		{"same day", now, true},
		{"day 14 exactly", now.AddDate(0, 0, -14), true},
		{"day 15", now.AddDate(0, 0, -15), false},
		{"future delivery", now.AddDate(0, 0, 3), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := WithinWindow(tc.delivered, now, DefaultWindowDays)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ok)
		})
	}

	t.Run("zero dates rejected", func(t *testing.T) {
		_, err := WithinWindow(time.Time{}, now, DefaultWindowDays)
		require.Error(t, err)
	})
}

func TestDaysSinceDeliveryIgnoresTimeOfDay(t *testing.T) {
	delivered := time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC)
	reference := time.Date(2026, 3, 2, 0, 1, 0, 0, time.UTC)

	assert.Equal(t, 1, DaysSinceDelivery(delivered, reference))
}

func TestEvaluateEligibility(t *testing.T) {
	now := time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)
	fresh := now.AddDate(0, 0, -5)
	stale := now.AddDate(0, 0, -30)

	t.Run("all items eligible", func(t *testing.T) {
		items := []LineItem{
			mustItem(t, "sofa-1", "899.00", 1, fresh),
			mustItem(t, "chair-2", "120.00", 2, fresh),
		}

		verdict, err := EvaluateEligibility(items, now, DefaultWindowDays, false)
		require.NoError(t, err)

		assert.Equal(t, EligibilityEligible, verdict.Status)
		assert.True(t, verdict.RefundAmount.Equal(MustMoney("1139.00", "USD")))
		assert.True(t, verdict.IsEligible())
	})

	t.Run("no items eligible", func(t *testing.T) {
		items := []LineItem{mustItem(t, "sofa-1", "899.00", 1, stale)}

		verdict, err := EvaluateEligibility(items, now, DefaultWindowDays, false)
		require.NoError(t, err)

		assert.Equal(t, EligibilityIneligible, verdict.Status)
		assert.True(t, verdict.RefundAmount.IsZero())
		assert.False(t, verdict.IsEligible())
	})

	t.Run("mixed items are partially eligible", func(t *testing.T) {
		items := []LineItem{
			mustItem(t, "sofa-1", "899.00", 1, fresh),
			mustItem(t, "table-3", "450.00", 1, stale),
		}

		verdict, err := EvaluateEligibility(items, now, DefaultWindowDays, false)
		require.NoError(t, err)

		assert.Equal(t, EligibilityPartiallyEligible, verdict.Status)
		assert.True(t, verdict.RefundAmount.Equal(MustMoney("899.00", "USD")))

		require.Len(t, verdict.Items, 2)
		assert.True(t, verdict.Items[0].Eligible)
		assert.False(t, verdict.Items[1].Eligible)
		assert.True(t, verdict.Items[1].Amount.IsZero())
	})

	t.Run("defect override ignores the window", func(t *testing.T) {
		items := []LineItem{mustItem(t, "sofa-1", "899.00", 1, stale)}

		verdict, err := EvaluateEligibility(items, now, DefaultWindowDays, true)
		require.NoError(t, err)

		assert.Equal(t, EligibilityEligible, verdict.Status)
		assert.True(t, verdict.RefundAmount.Equal(MustMoney("899.00", "USD")))
		assert.Equal(t, "defect or damage reported", verdict.Items[0].Reason)
	})

	t.Run("future delivery date is eligible", func(t *testing.T) {
		items := []LineItem{mustItem(t, "bed-4", "1500.00", 1, now.AddDate(0, 0, 7))}

		verdict, err := EvaluateEligibility(items, now, DefaultWindowDays, false)
		require.NoError(t, err)

		assert.Equal(t, EligibilityEligible, verdict.Status)
		assert.Equal(t, "future delivery date", verdict.Items[0].Reason)
	})

	t.Run("empty items are ineligible", func(t *testing.T) {
		verdict, err := EvaluateEligibility(nil, now, DefaultWindowDays, false)
		require.NoError(t, err)

		assert.Equal(t, EligibilityIneligible, verdict.Status)
		assert.True(t, verdict.RefundAmount.IsZero())
		assert.Empty(t, verdict.Items)
	})

	t.Run("deterministic for identical input", func(t *testing.T) {
		items := []LineItem{
			mustItem(t, "sofa-1", "899.00", 1, fresh),
			mustItem(t, "table-3", "450.00", 1, stale),
		}

		first, err := EvaluateEligibility(items, now, DefaultWindowDays, false)
		require.NoError(t, err)
		second, err := EvaluateEligibility(items, now, DefaultWindowDays, false)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})
}
