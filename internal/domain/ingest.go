package domain

// ItemStatus is the outcome of one article in an ingestion batch.
type ItemStatus string

const (
	StatusSaved     ItemStatus = "saved"
	StatusDuplicate ItemStatus = "duplicate"
	StatusFailed    ItemStatus = "failed"
)

// ItemOutcome reports what happened to a single batch item.
type ItemOutcome struct {
	URL    string     `json:"url"`
	Title  string     `json:"title"`
	Status ItemStatus `json:"status"`
	ID     int64      `json:"id,omitempty"`
	Error  string     `json:"error,omitempty"`
}

// IngestReport aggregates the outcome of a batch.
type IngestReport struct {
	BatchID     string        `json:"batch_id"`
	Crawled     int           `json:"crawled_count"`
	ProcessedOK int           `json:"processed_ok"`
	Saved       int           `json:"saved_count"`
	Skipped     int           `json:"skipped_count"`
	Failed      int           `json:"failed_count"`
	Items       []ItemOutcome `json:"items"`
}

// FetchOptions narrows one crawl. Zero values keep the configured defaults.
type FetchOptions struct {
	MaxPerFeed int      `json:"max_per_feed,omitempty"`
	Sites      []string `json:"sites,omitempty"`
}
