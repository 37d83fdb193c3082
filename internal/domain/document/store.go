package document

import (
	"context"

	"github.com/possync/backend/internal/domain/shared"
)

// ListQuery narrows a List call. Filters are equality matches on field names.
type ListQuery struct {
	Filters map[string]any
	OrderBy string
	Page    shared.Page
}

// Store is the narrow contract the engine holds against the transactional
// document store. Implementations raise the shared error taxonomy: not-found,
// validation, permission, link violation.
type Store interface {
	// Get loads one document by id.
	Get(ctx context.Context, kind Kind, id string) (Fields, error)

	// List returns a page of documents plus the total match count.
	List(ctx context.Context, kind Kind, q ListQuery) ([]Fields, int64, error)

	// Insert creates a draft document and returns its reference.
	Insert(ctx context.Context, kind Kind, fields Fields) (Ref, error)

	// Save applies a partial update to an existing document.
	Save(ctx context.Context, ref Ref, patch Fields) error

	// Submit finalizes a draft document.
	Submit(ctx context.Context, ref Ref) error

	// Cancel voids a submitted document.
	Cancel(ctx context.Context, ref Ref) error

	// InsertSubmitted creates and submits a document as one transaction, so a
	// crash between the two steps can never leave a stray draft behind.
	InsertSubmitted(ctx context.Context, kind Kind, fields Fields) (Ref, error)
}

// Action names a permission-checked operation on a document kind.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionWrite  Action = "write"
	ActionSubmit Action = "submit"
	ActionCancel Action = "cancel"
)

// PermissionChecker answers whether an actor may perform an action on a kind.
type PermissionChecker interface {
	HasPermission(ctx context.Context, actor string, kind Kind, action Action) bool
}

// Capabilities describes which optional schema features the connected store
// carries. It is resolved once at startup from the live schema; callers branch
// on it instead of probing table metadata per request.
type Capabilities struct {
	SchemaVersion string
	features      map[string]bool
}

// NewCapabilities builds a descriptor from the feature names the schema probe found.
func NewCapabilities(schemaVersion string, features ...string) Capabilities {
	set := make(map[string]bool, len(features))
	for _, f := range features {
		set[f] = true
	}
	return Capabilities{SchemaVersion: schemaVersion, features: set}
}

// Supports reports whether the named optional feature is present.
func (c Capabilities) Supports(feature string) bool {
	return c.features[feature]
}

// Feature names probed at startup.
const (
	FeatureCustomerCredit = "customer_credit"
	FeatureItemBarcodes   = "item_barcodes"
	FeatureActivityLog    = "activity_log"
)
