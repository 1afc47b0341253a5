package mart

import (
	"time"

	"github.com/google/uuid"
)

// Batch is every Mart resolved by one load run, sent between the loader and the status service
type Batch struct {
	RunId    string    `json:"run_id"`
	BaseDate time.Time `json:"base_date"`
	Marts    []*Mart   `json:"marts"`
}

// NewBatch creates a Batch with a new RunId
func NewBatch(baseDate time.Time, marts []*Mart) *Batch {
	return &Batch{
		RunId:    uuid.NewString(),
		BaseDate: baseDate,
		Marts:    marts,
	}
}

// MartTypes lists the distinct MartType values in the batch, in order of first appearance
func (b *Batch) MartTypes() []string {
	seen := make(map[string]bool)
	var results []string
	for _, m := range b.Marts {
		if !seen[m.MartType] {
			seen[m.MartType] = true
			results = append(results, m.MartType)
		}
	}
	return results
}
