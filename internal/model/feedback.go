package model

import "time"

// FeedbackRecord is a previously human-corrected classification. Records are
// appended by an external correction workflow; the engine only reads them.
type FeedbackRecord struct {
	CreatedAt     time.Time
	Fingerprint   string
	CorrectedCode string
	Confidence    float64
	Similarity    float64
}
