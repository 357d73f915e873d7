package utils

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GenBillNumber formats a sales invoice number, e.g. INV-2025-000042
func GenBillNumber(seq uint, t time.Time) string {
	return fmt.Sprintf("INV-%d-%06d", t.Year(), seq)
}

// GenSlipNumber formats a purchase ("pink") slip number, e.g. PS-2025-000007
func GenSlipNumber(seq uint, t time.Time) string {
	return fmt.Sprintf("PS-%d-%06d", t.Year(), seq)
}

// PendingNumber is a unique placeholder held until the row id is known.
func PendingNumber() string {
	return "PENDING-" + uuid.NewString()
}
