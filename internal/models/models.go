package models

import (
	"time"
)

// User - A shop login (admin or counter staff)
type User struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Username           string    `gorm:"uniqueIndex;size:50" json:"username"`
	Password           string    `json:"-"`                   // plaintext or bcrypt hash, never returned
	Role               string    `gorm:"size:20" json:"role"` // 'admin', 'staff'
	StaffCode          string    `gorm:"size:20" json:"staff_code"`
	CanEditBills       bool      `json:"can_edit_bills"`
	CanEditStock       bool      `json:"can_edit_stock"`
	CanAuthorizeNonGST bool      `gorm:"column:can_authorize_nongst" json:"can_authorize_nongst"`
	CreatedAt          time.Time `json:"created_at"`
}

// Customer - Walk-in or repeat buyer
type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:120" json:"name"`
	Phone     string    `gorm:"size:20;index" json:"phone"`
	Address   string    `json:"address"`
	GSTIN     string    `gorm:"column:gstin;size:20" json:"gstin"`
	CreatedAt time.Time `json:"created_at"`
}

// Bill - The sales invoice header ("white" bill)
type Bill struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	BillNumber     string    `gorm:"uniqueIndex;size:50" json:"bill_number"`
	BillDate       time.Time `json:"bill_date"`
	CustomerID     *uint     `json:"customer_id"`
	Customer       *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Subtotal       float64   `gorm:"type:decimal(12,2)" json:"subtotal"`
	CGST           float64   `gorm:"column:cgst;type:decimal(12,2)" json:"cgst"`
	SGST           float64   `gorm:"column:sgst;type:decimal(12,2)" json:"sgst"`
	IGST           float64   `gorm:"column:igst;type:decimal(12,2)" json:"igst"`
	TaxTotal       float64   `gorm:"type:decimal(12,2)" json:"tax_total"`
	ExchangeCredit float64   `gorm:"type:decimal(12,2)" json:"exchange_credit"`
	GrandTotal     float64   `gorm:"type:decimal(12,2)" json:"grand_total"`
	PaymentMethod  string    `gorm:"size:20" json:"payment_method"` // 'cash', 'card', 'upi', 'bank'
	GSTMode        string    `gorm:"column:gst_mode;size:10" json:"gst_mode"`
	CreatedBy      uint      `json:"created_by"`

	// Layaway (advance booking). All nil for a plain sale.
	AdvanceDate      *time.Time `json:"advance_date,omitempty"`
	ItemTakenDate    *time.Time `json:"item_taken_date,omitempty"`
	FinalPaymentDate *time.Time `json:"final_payment_date,omitempty"`
	AdvanceAmount    float64    `gorm:"type:decimal(12,2)" json:"advance_amount"`
	RemainingAmount  float64    `gorm:"type:decimal(12,2)" json:"remaining_amount"`
	TrackingRequired bool       `json:"tracking_required"`

	Items     []BillItem       `gorm:"foreignKey:BillID" json:"items"`
	Exchange  *OldGoldExchange `gorm:"foreignKey:BillID" json:"exchange,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// IsLayaway reports whether the bill was booked with an advance payment.
func (b Bill) IsLayaway() bool {
	return b.AdvanceDate != nil
}

// BillItem - One jewellery line on a bill
type BillItem struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	BillID       uint    `gorm:"index" json:"bill_id"`
	ItemID       *uint   `json:"item_id,omitempty"` // Inventory link, optional for custom pieces
	ItemName     string  `json:"item_name"`
	Weight       float64 `gorm:"type:decimal(10,3)" json:"weight"`
	Rate         float64 `gorm:"type:decimal(12,2)" json:"rate"`
	MakingCharge float64 `gorm:"type:decimal(12,2)" json:"making_charge"`
	GSTRate      float64 `gorm:"column:gst_rate;type:decimal(5,2)" json:"gst_rate"`
	LineTotal    float64 `gorm:"type:decimal(12,2)" json:"line_total"`
}

// OldGoldExchange - Customer gold taken in against a bill ("pink slip")
type OldGoldExchange struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	BillID      uint      `gorm:"uniqueIndex" json:"bill_id"`
	SlipNumber  string    `gorm:"size:50" json:"slip_number"`
	Weight      float64   `gorm:"type:decimal(10,3)" json:"weight"`
	Purity      float64   `gorm:"type:decimal(5,2)" json:"purity"`
	RatePerGram float64   `gorm:"type:decimal(12,2)" json:"rate_per_gram"`
	TotalValue  float64   `gorm:"type:decimal(12,2)" json:"total_value"`
	Notes       string    `json:"notes"`
	Particulars string    `json:"particulars"`
	HSNCode     string    `gorm:"column:hsn_code;size:10" json:"hsn_code"`
	CreatedAt   time.Time `json:"created_at"`
}

// GoldRate - Daily board rate per purity
type GoldRate struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Purity        string    `gorm:"size:10;index" json:"purity"` // '24K', '22K', '18K'
	RatePerGram   float64   `gorm:"type:decimal(12,2)" json:"rate_per_gram"`
	EffectiveDate time.Time `gorm:"index" json:"effective_date"`
	CreatedBy     uint      `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

// Category - Inventory grouping (Rings, Chains, ...)
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:60" json:"name"`
}

// Item - A stocked piece
type Item struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	SKU           string    `gorm:"column:sku;uniqueIndex;size:40" json:"sku"`
	Name          string    `json:"name"`
	CategoryID    *uint     `json:"category_id"`
	Category      *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Weight        float64   `gorm:"type:decimal(10,3)" json:"weight"`
	Purity        string    `gorm:"size:10" json:"purity"`
	MakingCharge  float64   `gorm:"type:decimal(12,2)" json:"making_charge"`
	GSTRate       float64   `gorm:"column:gst_rate;type:decimal(5,2)" json:"gst_rate"`
	StockQuantity int       `json:"stock_quantity"`
	ImageURL      string    `json:"image_url"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Return - A refund request against a bill line
type Return struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	BillID           uint       `gorm:"index" json:"bill_id"`
	BillItemID       uint       `gorm:"index" json:"bill_item_id"`
	OriginalAmount   float64    `gorm:"type:decimal(12,2)" json:"original_amount"`
	DeductionPercent float64    `gorm:"type:decimal(5,2)" json:"deduction_percent"`
	RefundAmount     float64    `gorm:"type:decimal(12,2)" json:"refund_amount"`
	Status           string     `gorm:"size:20;index" json:"status"` // 'pending', 'approved', 'completed'
	Reason           string     `json:"reason"`
	ProcessedBy      uint       `json:"processed_by"` // staff who filed it
	ApprovedBy       *uint      `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time `json:"approved_at,omitempty"`
	CompletedBy      *uint      `json:"completed_by,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// AuditLog - Append-only change record
type AuditLog struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Actor         string    `gorm:"size:50;index" json:"actor"`
	Action        string    `gorm:"size:30" json:"action"` // 'create', 'update', 'delete', 'login', ...
	EntityType    string    `gorm:"size:30" json:"entity_type"`
	EntityID      string    `gorm:"size:40" json:"entity_id"`
	Detail        string    `json:"detail"`
	SourceAddress string    `gorm:"size:64" json:"source_address"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
}

// PrintJob - Tracks which document of a bill is currently at the printer
type PrintJob struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	BillID    uint      `gorm:"index" json:"bill_id"`
	Phase     string    `gorm:"size:20" json:"phase"`
	CreatedBy uint      `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ExchangeListing - Joined row for the gold exchange register (bill <-> customer <-> exchange)
type ExchangeListing struct {
	ExchangeID    uint      `json:"exchange_id"`
	SlipNumber    string    `json:"slip_number"`
	BillID        uint      `json:"bill_id"`
	BillNumber    string    `json:"bill_number"`
	BillDate      time.Time `json:"bill_date"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
	Weight        float64   `json:"weight"`
	Purity        float64   `json:"purity"`
	RatePerGram   float64   `json:"rate_per_gram"`
	TotalValue    float64   `json:"total_value"`
	Particulars   string    `json:"particulars"`
	HSNCode       string    `json:"hsn_code"`
}
