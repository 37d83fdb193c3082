package activity

import (
	"context"
	"strings"
	"time"
)

// relevantKinds are the document types the point-of-sale feed shows. Entries
// for anything else are skipped while scanning.
var relevantKinds = map[string]bool{
	"Sales Invoice": true,
	"Payment Entry": true,
	"POS Session":   true,
	"Customer":      true,
}

// FeedRequest asks for recent relevant entries before a cursor. OnlyOthers
// hides the caller's own entries so the feed can drive "another cashier did
// X" notifications; DocType and Action narrow the scan further.
type FeedRequest struct {
	Before     time.Time `form:"before"`
	BeforeID   string    `form:"before_id"`
	Limit      int       `form:"limit" binding:"min=0,max=200"`
	OnlyOthers bool      `form:"only_others"`
	DocType    string    `form:"doc_type"`
	Action     string    `form:"action"`
}

// FeedResponse carries one page of entries plus the compound cursor for the
// next page. HitScanCeiling tells the client the scan stopped early, not
// that the log is exhausted.
type FeedResponse struct {
	Entries        []Entry    `json:"entries"`
	NextBefore     *time.Time `json:"next_before,omitempty"`
	NextBeforeID   string     `json:"next_before_id,omitempty"`
	HitScanCeiling bool       `json:"hit_scan_ceiling"`
}

// Feed pages the activity log. The underlying log is shared with every other
// subsystem, so relevance filtering happens while scanning; MaxScan bounds the
// total rows examined regardless of how sparse the relevant entries are.
type Feed struct {
	log       Log
	batchSize int
	maxScan   int
	now       func() time.Time
}

// NewFeed creates a feed reader. maxScan caps rows examined per call.
func NewFeed(log Log, batchSize, maxScan int) *Feed {
	if batchSize <= 0 {
		batchSize = 100
	}
	if maxScan <= 0 {
		maxScan = 1000
	}
	return &Feed{log: log, batchSize: batchSize, maxScan: maxScan, now: time.Now}
}

// Recent collects up to req.Limit relevant entries for viewer, scanning at
// most the configured ceiling of raw rows.
func (f *Feed) Recent(ctx context.Context, viewer string, req FeedRequest) (*FeedResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 20
	}
	cursor := req.Before
	cursorID := req.BeforeID
	if cursor.IsZero() {
		cursor = f.now().UTC()
		cursorID = ""
	}

	resp := &FeedResponse{Entries: make([]Entry, 0, limit)}
	scanned := 0

	for len(resp.Entries) < limit && scanned < f.maxScan {
		batch, err := f.log.Scan(ctx, cursor, cursorID, f.batchSize)
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			break
		}
		for _, e := range batch {
			scanned++
			cursor = e.CreatedAt
			cursorID = e.ID
			if f.matches(e, viewer, req) {
				resp.Entries = append(resp.Entries, e)
				if len(resp.Entries) == limit {
					break
				}
			}
			if scanned >= f.maxScan {
				break
			}
		}
	}

	if scanned >= f.maxScan && len(resp.Entries) < limit {
		resp.HitScanCeiling = true
	}
	if len(resp.Entries) > 0 || resp.HitScanCeiling {
		next := cursor
		resp.NextBefore = &next
		resp.NextBeforeID = cursorID
	}
	return resp, nil
}

func (f *Feed) matches(e Entry, viewer string, req FeedRequest) bool {
	if !relevantKinds[e.DocType] {
		return false
	}
	if req.OnlyOthers && viewer != "" && e.Actor == viewer {
		return false
	}
	if req.DocType != "" && !strings.EqualFold(e.DocType, req.DocType) {
		return false
	}
	if req.Action != "" && !strings.EqualFold(e.Action, req.Action) {
		return false
	}
	return true
}
