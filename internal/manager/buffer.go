package manager

import "mlmodeld/internal/schema"

// trainingBuffer is an append-only, insertion-ordered list of encoded rows.
// It has no locking of its own; the owning Model's mutex guards it.
type trainingBuffer struct {
	rows []schema.Row
}

func (b *trainingBuffer) append(rows ...schema.Row) { b.rows = append(b.rows, rows...) }

func (b *trainingBuffer) len() int { return len(b.rows) }

// snapshot returns a copy of the row list that later appends cannot touch.
// Rows themselves are never mutated after encoding.
func (b *trainingBuffer) snapshot() []schema.Row {
	out := make([]schema.Row, len(b.rows))
	copy(out, b.rows)
	return out
}
