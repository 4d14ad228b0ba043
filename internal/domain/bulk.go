package domain

import "fmt"

// BulkItemStatus is the processing outcome of a single bulk item.
type BulkItemStatus string

// Bulk item status values.
const (
	BulkStatusOK    BulkItemStatus = "ok"
	BulkStatusError BulkItemStatus = "error"
)

// BulkItem is the outcome of processing one document in a bulk upsert.
type BulkItem struct {
	id     string
	status BulkItemStatus
	err    error
}

// NewBulkOK creates a successful bulk item result.
func NewBulkOK(id string) BulkItem { return BulkItem{id: id, status: BulkStatusOK} }

// NewBulkError creates a failed bulk item result.
func NewBulkError(id string, err error) BulkItem {
	return BulkItem{id: id, status: BulkStatusError, err: err}
}

// ID returns the document identifier.
func (i BulkItem) ID() string { return i.id }

// Status returns the processing outcome.
func (i BulkItem) Status() BulkItemStatus { return i.status }

// Err returns the failure cause, if any.
func (i BulkItem) Err() error { return i.err }

// BulkReport aggregates per-item outcomes of a bulk upsert. The operation
// succeeds iff zero items failed; failed items never abort the rest of the
// batch, and succeeded items stay persisted regardless of the overall outcome.
type BulkReport struct {
	items []BulkItem
}

// NewBulkReport creates a report from per-item outcomes.
func NewBulkReport(items []BulkItem) BulkReport { return BulkReport{items: items} }

// Items returns all per-item outcomes in submission order.
func (r BulkReport) Items() []BulkItem { return r.items }

// Failed returns the subset of items that failed, in submission order.
func (r BulkReport) Failed() []BulkItem {
	var failed []BulkItem
	for _, it := range r.items {
		if it.status == BulkStatusError {
			failed = append(failed, it)
		}
	}
	return failed
}

// OK reports whether every item succeeded.
func (r BulkReport) OK() bool { return len(r.Failed()) == 0 }

// Err returns nil when every item succeeded, or an error wrapping
// ErrBulkPartialFailure otherwise.
func (r BulkReport) Err() error {
	failed := len(r.Failed())
	if failed == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d documents failed: %w", failed, len(r.items), ErrBulkPartialFailure)
}
