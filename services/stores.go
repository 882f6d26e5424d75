package services

import (
	"context"
	"errors"
	"time"

	"climate-hub/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned when a record with the requested id does not exist.
var ErrNotFound = errors.New("record not found")

// ReportStore persists environmental reports.
type ReportStore interface {
	// Create assigns id, timestamps and the pending status, then saves r.
	Create(ctx context.Context, r *models.Report) error
	// List returns matching reports, newest first.
	List(ctx context.Context, filter models.ReportFilter) ([]models.Report, error)
	Get(ctx context.Context, id primitive.ObjectID) (models.Report, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.ReportStatus) (models.Report, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Stats(ctx context.Context) (models.ReportStats, error)
}

// FaqStore persists FAQ messages.
type FaqStore interface {
	Create(ctx context.Context, f *models.Faq) error
	// List returns every message, newest first.
	List(ctx context.Context) ([]models.Faq, error)
}

// OrderStore persists shop orders.
type OrderStore interface {
	Create(ctx context.Context, o *models.Order) error
	Get(ctx context.Context, id primitive.ObjectID) (models.Order, error)
	// ExpirePending marks pending orders created before cutoff as expired
	// and returns how many changed.
	ExpirePending(ctx context.Context, cutoff time.Time) (int64, error)
}

// now is swapped by tests that need deterministic timestamps.
var now = func() time.Time { return time.Now().UTC() }

func prepareReport(r *models.Report) {
	t := now()
	r.ID = primitive.NewObjectID()
	r.Status = models.StatusPending
	r.Timestamp = t
	r.CreatedAt = t
	r.UpdatedAt = t
	if r.Severity == "" {
		r.Severity = models.SeverityLow
	}
	if r.Photos == nil {
		r.Photos = []string{}
	}
}

func prepareFaq(f *models.Faq) {
	t := now()
	f.ID = primitive.NewObjectID()
	f.CreatedAt = t
	f.UpdatedAt = t
	if f.Sender == "" {
		f.Sender = models.SenderUser
	}
}

func prepareOrder(o *models.Order) {
	o.ID = primitive.NewObjectID()
	o.CreatedAt = now()
	if o.Status == "" {
		o.Status = models.OrderPending
	}
}
