package billing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultDeductionPercent is applied when the counter does not enter one.
const DefaultDeductionPercent = 5.0

// ReturnStatus is the lifecycle label of a return request.
type ReturnStatus string

const (
	ReturnPending   ReturnStatus = "pending"
	ReturnApproved  ReturnStatus = "approved"
	ReturnCompleted ReturnStatus = "completed"
)

var (
	ErrInvalidOriginalAmount = errors.New("original amount must be greater than zero")
	ErrInvalidDeduction      = errors.New("deduction percent must be between 0 and 100")
	ErrInvalidTransition     = errors.New("invalid return status transition")
)

// Returns only move forward, one step at a time. There is no reject state.
var returnTransitions = map[ReturnStatus]ReturnStatus{
	ReturnPending:  ReturnApproved,
	ReturnApproved: ReturnCompleted,
}

// Refund is original × (1 − percent/100), rounded to paise.
func Refund(original, deductionPercent float64) float64 {
	keep := hundred.Sub(decimal.NewFromFloat(deductionPercent)).Div(hundred)
	r, _ := decimal.NewFromFloat(original).Mul(keep).Round(2).Float64()
	return r
}

// ValidateReturn checks the inputs of the refund calculation.
func ValidateReturn(original, deductionPercent float64) error {
	if original <= 0 {
		return ErrInvalidOriginalAmount
	}
	if deductionPercent < 0 || deductionPercent > 100 {
		return ErrInvalidDeduction
	}
	return nil
}

// Next returns the status that follows s, if any.
func (s ReturnStatus) Next() (ReturnStatus, bool) {
	next, ok := returnTransitions[s]
	return next, ok
}

// Valid reports whether s is a known status.
func (s ReturnStatus) Valid() bool {
	switch s {
	case ReturnPending, ReturnApproved, ReturnCompleted:
		return true
	}
	return false
}

// Advance checks that moving from current to target is the single allowed step.
func Advance(current, target ReturnStatus) error {
	next, ok := current.Next()
	if !ok || next != target {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, target)
	}
	return nil
}
