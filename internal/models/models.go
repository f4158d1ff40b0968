package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client represents a CRM client (or commercial collaborator)
type Client struct {
	ID             int64     `db:"id" json:"id"`
	FullName       string    `db:"full_name" json:"full_name"`
	Email          string    `db:"email" json:"email"`
	Phone          string    `db:"phone" json:"phone,omitempty"`
	Address        string    `db:"address" json:"address,omitempty"`
	IdentityDoc    string    `db:"identity_doc" json:"identity_doc,omitempty"`
	IsCollaborator bool      `db:"is_collaborator" json:"is_collaborator"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Order represents a client's aggregate request for one or more services.
// Totals are derived fields: they are always recomputed in full from the
// attached items and payments, never adjusted incrementally.
type Order struct {
	ID            int64           `db:"id" json:"id"`
	FriendlyID    string          `db:"friendly_id" json:"friendly_id"`
	ClientID      int64           `db:"client_id" json:"client_id"`
	CreatedBy     *int64          `db:"created_by" json:"created_by,omitempty"`
	AssignedTo    *int64          `db:"assigned_to" json:"assigned_to,omitempty"`
	Status        OrderStatus     `db:"status" json:"status"`
	GlobalStatus  GlobalStatus    `db:"global_status" json:"global_status"`
	PaymentStatus PaymentStatus   `db:"payment_status" json:"payment_status"`
	Currency      Currency        `db:"currency" json:"currency"`
	TotalAmount   decimal.Decimal `db:"total_amount" json:"total_amount"`
	TotalCost     decimal.Decimal `db:"total_cost" json:"total_cost"`
	TotalMargin   decimal.Decimal `db:"total_margin" json:"total_margin"`
	TotalPaid     decimal.Decimal `db:"total_paid" json:"total_paid"`
	Notes         string          `db:"notes" json:"notes,omitempty"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// ServiceItem represents a single billable unit of work within an order,
// e.g. one document legalization.
type ServiceItem struct {
	ID                  int64            `db:"id" json:"id"`
	OrderID             int64            `db:"order_id" json:"order_id"`
	ServiceType         ServiceType      `db:"service_type" json:"service_type"`
	DocumentType        DocumentType     `db:"document_type" json:"document_type,omitempty"`
	LegalizationType    LegalizationType `db:"legalization_type" json:"legalization_type,omitempty"`
	TitularName         string           `db:"titular_name" json:"titular_name,omitempty"`
	Status              ItemStatus       `db:"status" json:"status"`
	DeliveryDestination Destination      `db:"delivery_destination" json:"delivery_destination"`
	AssignedTramitador  *int64           `db:"assigned_tramitador" json:"assigned_tramitador,omitempty"`
	Responsible         Responsible      `db:"responsible" json:"responsible"`
	LogisticsStatus     LogisticsStatus  `db:"logistics_status" json:"logistics_status"`
	CurrentLocation     Location         `db:"current_location" json:"current_location"`
	Cost                decimal.Decimal  `db:"cost" json:"cost"`
	Price               decimal.Decimal  `db:"price" json:"price"`
	Margin              decimal.Decimal  `db:"margin" json:"margin"`
	Priority            Priority         `db:"priority" json:"priority"`
	Deadline            *time.Time       `db:"deadline" json:"deadline,omitempty"`
	PhaseDates          PhaseDates       `db:"phase_dates" json:"phase_dates"`
	Notes               string           `db:"notes" json:"notes,omitempty"`
	CreatedAt           time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time        `db:"updated_at" json:"updated_at"`
}

// RecomputeMargin enforces margin = price - cost. Called on every save path.
func (si *ServiceItem) RecomputeMargin() {
	si.Margin = si.Price.Sub(si.Cost)
}

// Payment represents money received against an order. Immutable once created.
type Payment struct {
	ID                 int64           `db:"id" json:"id"`
	OrderID            int64           `db:"order_id" json:"order_id"`
	Amount             decimal.Decimal `db:"amount" json:"amount"`
	Currency           Currency        `db:"currency" json:"currency"`
	Method             PaymentMethod   `db:"method" json:"method"`
	DestinationAccount Account         `db:"destination_account" json:"destination_account"`
	ReceiptSent        bool            `db:"receipt_sent" json:"receipt_sent"`
	Notes              string          `db:"notes" json:"notes,omitempty"`
	PaymentDate        time.Time       `db:"payment_date" json:"payment_date"`
}

// ActivityLog is an append-only audit record attached to an order.
// Entries are never mutated or deleted; listing is reverse-chronological.
type ActivityLog struct {
	ID          int64      `db:"id" json:"id"`
	OrderID     int64      `db:"order_id" json:"order_id"`
	UserID      *int64     `db:"user_id" json:"user_id,omitempty"`
	ActionType  ActionType `db:"action_type" json:"action_type"`
	Description string     `db:"description" json:"description"`
	Metadata    Metadata   `db:"metadata" json:"metadata"`
	Timestamp   time.Time  `db:"timestamp" json:"timestamp"`
}
