package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/joseph-ayodele/order-wizard/internal/common"
)

// Order represents one tracked purchase awaiting or undergoing a
// reimbursement review workflow.
type Order struct {
	bun.BaseModel `bun:"table:orders" json:"-"`

	ID                 int64     `bun:"id,pk,autoincrement" json:"id"`
	OrderNumber        string    `bun:"order_number" json:"order_number"`
	Amount             float64   `bun:"amount" json:"amount"`
	ImageURI           *string   `bun:"image_uri" json:"image_uri,omitempty"`
	CommentWithPicture bool      `bun:"comment_with_picture" json:"comment_with_picture"`
	Commented          bool      `bun:"commented" json:"commented"`
	Revealed           bool      `bun:"revealed" json:"revealed"`
	Reimbursed         bool      `bun:"reimbursed" json:"reimbursed"`
	ReimbursedAmount   float64   `bun:"reimbursed_amount" json:"reimbursed_amount"`
	Note               *string   `bun:"note" json:"note,omitempty"`
	CreatedAt          time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP" json:"created_at"`
}

// WriteColumns is the fixed column projection for store writes. Insert and
// update must bind through this same list so positional binding never
// shifts between the two paths. id and created_at are store-assigned and
// deliberately absent.
var WriteColumns = []string{
	"order_number",
	"amount",
	"image_uri",
	"comment_with_picture",
	"commented",
	"revealed",
	"reimbursed",
	"reimbursed_amount",
	"note",
}

// Validate checks the entity invariants that hold at the point of
// persistence.
func (o *Order) Validate() error {
	if strings.TrimSpace(o.OrderNumber) == "" {
		return fmt.Errorf("%w: order number cannot be empty", common.ErrValidation)
	}
	if o.Amount <= 0 {
		return fmt.Errorf("%w: amount must be greater than 0", common.ErrValidation)
	}
	return nil
}

// IsComplete reports whether every workflow step is done. Derived, never
// stored; the list view uses it for highlighting only.
func (o *Order) IsComplete() bool {
	return o.Commented && o.Revealed && o.Reimbursed
}
