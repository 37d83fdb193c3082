package document

// Kind names an entity family in the transactional document store.
type Kind string

const (
	KindItem          Kind = "Item"
	KindCustomer      Kind = "Customer"
	KindSupplier      Kind = "Supplier"
	KindSalesInvoice  Kind = "Sales Invoice"
	KindPaymentEntry  Kind = "Payment Entry"
	KindPOSSession    Kind = "POS Session"
	KindPOSSettings   Kind = "POS Settings"
	KindActivityEntry Kind = "Activity Entry"
)

// Docstatus is the submission state of a transactional document.
type Docstatus int

const (
	DocstatusDraft     Docstatus = 0
	DocstatusSubmitted Docstatus = 1
	DocstatusCancelled Docstatus = 2
)

// Fields is the payload of a document write. Keys are column names of the
// target entity; unknown keys are rejected by the store as validation errors.
type Fields map[string]any

// Ref identifies one stored document.
type Ref struct {
	Kind Kind   `json:"kind"`
	ID   string `json:"id"`
}

// String returns a human-readable form used in error messages and activity entries.
func (r Ref) String() string {
	return string(r.Kind) + "/" + r.ID
}
