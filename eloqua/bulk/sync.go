package bulk

import (
	"context"
	"fmt"
	"time"
)

const (
	// DefaultSyncPollInterval is the gap between sync status polls.
	DefaultSyncPollInterval = 10 * time.Second

	// DefaultBatchSize is the record count per import data POST, the
	// API's documented ceiling.
	DefaultBatchSize = 20000

	// dataPageLimit is the page size for synced data retrieval.
	dataPageLimit = 50000

	// syncPageLimit is the page size for sync log and reject retrieval.
	syncPageLimit = 1000
)

// SyncStatus is the lifecycle state of a submitted sync.
type SyncStatus string

const (
	SyncPending SyncStatus = "pending"
	SyncActive  SyncStatus = "active"
	SyncSuccess SyncStatus = "success"
	SyncWarning SyncStatus = "warning"
	SyncError   SyncStatus = "error"
)

// Terminal reports whether the status is final.
func (st SyncStatus) Terminal() bool {
	switch st {
	case SyncSuccess, SyncWarning, SyncError:
		return true
	}
	return false
}

// Sync is one execution of a definition.
type Sync struct {
	SyncedInstanceURI string     `json:"syncedInstanceUri"`
	Status            SyncStatus `json:"status,omitempty"`
	URI               string     `json:"uri,omitempty"`
	CreatedBy         string     `json:"createdBy,omitempty"`
	CreatedAt         string     `json:"createdAt,omitempty"`
	SyncStartedAt     string     `json:"syncStartedAt,omitempty"`
	SyncEndedAt       string     `json:"syncEndedAt,omitempty"`
}

// SyncLog is one entry from a sync's execution log.
type SyncLog struct {
	SyncURI    string `json:"syncUri"`
	Severity   string `json:"severity"`
	StatusCode string `json:"statusCode"`
	Message    string `json:"message"`
	Count      int    `json:"count"`
	CreatedAt  string `json:"createdAt"`
}

// SyncReject is one record turned away during a sync, with the reason.
type SyncReject struct {
	RecordIndex   int               `json:"recordIndex,omitempty"`
	Message       string            `json:"message"`
	StatusCode    string            `json:"statusCode,omitempty"`
	InvalidFields []string          `json:"invalidFields,omitempty"`
	FieldValues   map[string]string `json:"fieldValues,omitempty"`
}

// Record is one row of import or export data keyed by field name.
type Record map[string]any

// CreateSync queues a sync of the definition and returns it. The returned
// URI is the handle for status polls and data retrieval.
func (s *Service) CreateSync(ctx context.Context, definitionURI string) (*Sync, error) {
	body := map[string]string{"syncedInstanceUri": definitionURI}
	var sync Sync
	if err := s.post(ctx, "/syncs", body, &sync); err != nil {
		return nil, err
	}
	return &sync, nil
}

// GetSync fetches the current state of a sync.
func (s *Service) GetSync(ctx context.Context, syncURI string) (*Sync, error) {
	var sync Sync
	if err := s.get(ctx, syncURI, nil, &sync); err != nil {
		return nil, err
	}
	return &sync, nil
}

// WaitOptions tunes WaitForSync polling.
type WaitOptions struct {
	// Interval between status polls. Defaults to DefaultSyncPollInterval.
	Interval time.Duration
	// Timeout bounds the whole wait. Zero leaves only ctx in charge.
	Timeout time.Duration
}

// WaitForSync polls a sync until it reaches a terminal status and returns
// it. A sync that finished with errors or warnings is still a successful
// wait; callers inspect Status and GetSyncLogs. Cancellation and timeout
// surface as ctx errors.
func (s *Service) WaitForSync(ctx context.Context, syncURI string, opts WaitOptions) (*Sync, error) {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultSyncPollInterval
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	sync, err := s.GetSync(ctx, syncURI)
	if err != nil {
		return nil, err
	}
	if sync.Status.Terminal() {
		return sync, nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			sync, err = s.GetSync(ctx, syncURI)
			if err != nil {
				return nil, err
			}
			if sync.Status.Terminal() {
				return sync, nil
			}
		}
	}
}

// GetSyncLogs retrieves a sync's full execution log.
func (s *Service) GetSyncLogs(ctx context.Context, syncURI string) ([]SyncLog, error) {
	return collectPages[SyncLog](ctx, s, syncURI+"/logs", nil, syncPageLimit, stepByCount)
}

// GetSyncRejects retrieves the records a sync refused.
func (s *Service) GetSyncRejects(ctx context.Context, syncURI string) ([]SyncReject, error) {
	return collectPages[SyncReject](ctx, s, syncURI+"/rejects", nil, syncPageLimit, stepByCount)
}

// GetSyncedData retrieves an export sync's records.
func (s *Service) GetSyncedData(ctx context.Context, syncURI string) ([]Record, error) {
	return collectPages[Record](ctx, s, syncURI+"/data", nil, dataPageLimit, stepByCount)
}

// PushData uploads records to an import definition, splitting them into
// batches the API accepts. No records, no requests.
func (s *Service) PushData(ctx context.Context, definitionURI string, records []Record) error {
	return s.pushData(ctx, definitionURI, records, DefaultBatchSize)
}

func (s *Service) pushData(ctx context.Context, definitionURI string, records []Record, size int) error {
	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		if err := s.post(ctx, definitionURI+"/data", records[start:end], nil); err != nil {
			return fmt.Errorf("push records %d through %d: %w", start, end-1, err)
		}
	}
	return nil
}
