// Package importer loads orders in bulk from a JSON document, validating
// the document against a schema before any row touches the store.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/order-wizard/internal/entity"
	"github.com/joseph-ayodele/order-wizard/internal/repository"
)

// orderRecord is the wire shape of one imported order.
type orderRecord struct {
	OrderNumber        string  `json:"order_number"`
	Amount             float64 `json:"amount"`
	ImageURI           string  `json:"image_uri,omitempty"`
	CommentWithPicture bool    `json:"comment_with_picture,omitempty"`
	Commented          bool    `json:"commented,omitempty"`
	Revealed           bool    `json:"revealed,omitempty"`
	Reimbursed         bool    `json:"reimbursed,omitempty"`
	ReimbursedAmount   float64 `json:"reimbursed_amount,omitempty"`
	Note               string  `json:"note,omitempty"`
}

type Importer struct {
	orders repository.OrderRepository
	logger *slog.Logger
}

func NewImporter(orders repository.OrderRepository, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{orders: orders, logger: logger}
}

// ImportJSON validates data against the order schema and inserts each
// record. A schema failure rejects the whole document; per-row insert
// failures are collected and reported alongside the inserted count.
func (i *Importer) ImportJSON(ctx context.Context, data []byte) (int, []error) {
	if err := ValidateJSONAgainstSchema(BuildOrdersJSONSchema(), data); err != nil {
		return 0, []error{fmt.Errorf("import document invalid: %w", err)}
	}

	var records []orderRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return 0, []error{fmt.Errorf("decode import document: %w", err)}
	}

	var (
		inserted int
		errs     []error
	)
	for n, rec := range records {
		order := &entity.Order{
			OrderNumber:        rec.OrderNumber,
			Amount:             rec.Amount,
			CommentWithPicture: rec.CommentWithPicture,
			Commented:          rec.Commented,
			Revealed:           rec.Revealed,
			Reimbursed:         rec.Reimbursed,
			ReimbursedAmount:   rec.ReimbursedAmount,
		}
		if rec.ImageURI != "" {
			uri := rec.ImageURI
			order.ImageURI = &uri
		}
		if rec.Note != "" {
			note := rec.Note
			order.Note = &note
		}

		if _, err := i.orders.Insert(ctx, order); err != nil {
			errs = append(errs, fmt.Errorf("record %d (%s): %w", n, rec.OrderNumber, err))
			continue
		}
		inserted++
	}

	i.logger.Info("import finished", "inserted", inserted, "failed", len(errs))
	return inserted, errs
}
