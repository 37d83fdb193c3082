package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/possync/backend/internal/domain/document"
	"github.com/possync/backend/internal/domain/shared"
	"github.com/possync/backend/internal/infrastructure/persistence/models"
)

// GormDocumentStore implements document.Store over the transactional tables.
// Each supported kind maps onto one header table; invoice lines and tender
// lines are written together with their header.
type GormDocumentStore struct {
	db *gorm.DB
}

// NewGormDocumentStore creates a new GormDocumentStore.
func NewGormDocumentStore(db *gorm.DB) *GormDocumentStore {
	return &GormDocumentStore{db: db}
}

// listColumns whitelists the filter and order columns per kind. Filters on
// anything else are validation errors, not silent no-ops.
var listColumns = map[document.Kind]map[string]string{
	document.KindCustomer: {
		"code":           "code",
		"territory":      "territory",
		"customer_group": "customer_group",
		"disabled":       "disabled",
	},
	document.KindSalesInvoice: {
		"customer":    "customer",
		"status":      "status",
		"docstatus":   "docstatus",
		"pos_profile": "pos_profile",
	},
	document.KindPaymentEntry: {
		"party":           "party",
		"docstatus":       "docstatus",
		"against_invoice": "against_invoice",
	},
	document.KindPOSSession: {
		"pos_profile": "profile",
		"user":        "user_email",
		"status":      "status",
	},
}

// Get loads one document by id.
func (s *GormDocumentStore) Get(ctx context.Context, kind document.Kind, id string) (document.Fields, error) {
	switch kind {
	case document.KindCustomer:
		var m models.Customer
		if err := s.first(ctx, &m, "code = ?", id); err != nil {
			return nil, err
		}
		return customerFields(&m), nil
	case document.KindSalesInvoice:
		var m models.SalesInvoice
		err := s.db.WithContext(ctx).
			Preload("Items").Preload("Payments").
			First(&m, "name = ?", id).Error
		if err != nil {
			return nil, mapNotFound(err)
		}
		return invoiceFields(&m), nil
	case document.KindPaymentEntry:
		var m models.PaymentEntry
		if err := s.first(ctx, &m, "name = ?", id); err != nil {
			return nil, err
		}
		return paymentFields(&m), nil
	case document.KindPOSSession:
		var m models.POSSession
		if err := s.first(ctx, &m, "name = ?", id); err != nil {
			return nil, err
		}
		return sessionFields(&m), nil
	default:
		return nil, unsupportedKind(kind)
	}
}

// List returns a page of documents plus the total match count.
func (s *GormDocumentStore) List(ctx context.Context, kind document.Kind, q document.ListQuery) ([]document.Fields, int64, error) {
	columns, ok := listColumns[kind]
	if !ok {
		return nil, 0, unsupportedKind(kind)
	}

	query := s.db.WithContext(ctx)
	switch kind {
	case document.KindCustomer:
		query = query.Model(&models.Customer{})
	case document.KindSalesInvoice:
		query = query.Model(&models.SalesInvoice{})
	case document.KindPaymentEntry:
		query = query.Model(&models.PaymentEntry{})
	case document.KindPOSSession:
		query = query.Model(&models.POSSession{})
	}

	for field, value := range q.Filters {
		column, ok := columns[field]
		if !ok {
			return nil, 0, shared.ValidationFailed(fmt.Sprintf("Cannot filter %s by %q", kind, field))
		}
		query = query.Where(fmt.Sprintf("%s = ?", column), value)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if q.OrderBy != "" {
		column, ok := columns[strings.TrimSuffix(q.OrderBy, " desc")]
		if !ok {
			return nil, 0, shared.ValidationFailed(fmt.Sprintf("Cannot order %s by %q", kind, q.OrderBy))
		}
		if strings.HasSuffix(q.OrderBy, " desc") {
			column += " DESC"
		}
		query = query.Order(column)
	} else {
		query = query.Order("created_at DESC")
	}

	page := q.Page.Normalize(20, 500)
	query = query.Offset(page.Offset).Limit(page.Limit)

	return s.scanList(kind, query, total)
}

func (s *GormDocumentStore) scanList(kind document.Kind, query *gorm.DB, total int64) ([]document.Fields, int64, error) {
	var out []document.Fields
	switch kind {
	case document.KindCustomer:
		var rows []models.Customer
		if err := query.Find(&rows).Error; err != nil {
			return nil, 0, err
		}
		for i := range rows {
			out = append(out, customerFields(&rows[i]))
		}
	case document.KindSalesInvoice:
		var rows []models.SalesInvoice
		if err := query.Find(&rows).Error; err != nil {
			return nil, 0, err
		}
		for i := range rows {
			out = append(out, invoiceFields(&rows[i]))
		}
	case document.KindPaymentEntry:
		var rows []models.PaymentEntry
		if err := query.Find(&rows).Error; err != nil {
			return nil, 0, err
		}
		for i := range rows {
			out = append(out, paymentFields(&rows[i]))
		}
	case document.KindPOSSession:
		var rows []models.POSSession
		if err := query.Find(&rows).Error; err != nil {
			return nil, 0, err
		}
		for i := range rows {
			out = append(out, sessionFields(&rows[i]))
		}
	}
	return out, total, nil
}

// Insert creates a draft document and returns its reference.
func (s *GormDocumentStore) Insert(ctx context.Context, kind document.Kind, fields document.Fields) (document.Ref, error) {
	return s.insert(ctx, s.db, kind, fields, document.DocstatusDraft)
}

// InsertSubmitted creates and submits a document in one transaction.
func (s *GormDocumentStore) InsertSubmitted(ctx context.Context, kind document.Kind, fields document.Fields) (document.Ref, error) {
	var ref document.Ref
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		ref, err = s.insert(ctx, tx, kind, fields, document.DocstatusSubmitted)
		return err
	})
	return ref, err
}

func (s *GormDocumentStore) insert(ctx context.Context, db *gorm.DB, kind document.Kind, fields document.Fields, docstatus document.Docstatus) (document.Ref, error) {
	switch kind {
	case document.KindCustomer:
		code := strOf(fields["code"])
		if code == "" {
			return document.Ref{}, shared.ValidationFailed("Customer code is required")
		}
		m := models.Customer{
			Code:          code,
			Name:          strOf(fields["customer_name"]),
			Mobile:        strOf(fields["mobile"]),
			Email:         strOf(fields["email"]),
			Territory:     strOf(fields["territory"]),
			CustomerGroup: strOf(fields["customer_group"]),
			CreditLimit:   decOf(fields["credit_limit"]),
		}
		if err := db.WithContext(ctx).Create(&m).Error; err != nil {
			return document.Ref{}, mapInsertError(kind, code, err)
		}
		return document.Ref{Kind: kind, ID: code}, nil

	case document.KindSalesInvoice:
		return s.insertInvoice(ctx, db, fields, docstatus)

	case document.KindPaymentEntry:
		name := docName("PE")
		m := models.PaymentEntry{
			Name:           name,
			PaymentType:    strOf(fields["payment_type"]),
			PartyType:      strOf(fields["party_type"]),
			Party:          strOf(fields["party"]),
			PaidAmount:     decOf(fields["paid_amount"]),
			ReceivedAmount: decOf(fields["received_amount"]),
			FromCurrency:   strOf(fields["from_currency"]),
			ToCurrency:     strOf(fields["to_currency"]),
			ExchangeRate:   decOf(fields["exchange_rate"]),
			PaidFrom:       strOf(fields["paid_from"]),
			PaidTo:         strOf(fields["paid_to"]),
			PostingDate:    strOf(fields["posting_date"]),
			ReferenceNo:    strOf(fields["reference_no"]),
			AgainstInvoice: strOf(fields["against_invoice"]),
			Docstatus:      int(docstatus),
		}
		if err := db.WithContext(ctx).Create(&m).Error; err != nil {
			return document.Ref{}, mapInsertError(kind, name, err)
		}
		return document.Ref{Kind: kind, ID: name}, nil

	case document.KindPOSSession:
		name := docName("POS")
		m := models.POSSession{
			Name:         name,
			Profile:      strOf(fields["pos_profile"]),
			User:         strOf(fields["user"]),
			Status:       strOf(fields["status"]),
			OpeningFloat: decOf(fields["opening_float"]),
			OpenedAt:     timeOf(fields["opened_at"]),
		}
		if err := db.WithContext(ctx).Create(&m).Error; err != nil {
			return document.Ref{}, mapInsertError(kind, name, err)
		}
		return document.Ref{Kind: kind, ID: name}, nil

	default:
		return document.Ref{}, unsupportedKind(kind)
	}
}

func (s *GormDocumentStore) insertInvoice(ctx context.Context, db *gorm.DB, fields document.Fields, docstatus document.Docstatus) (document.Ref, error) {
	name := docName("SINV")
	grandTotal := decOf(fields["grand_total"])

	paid := decimal.Zero
	payments := lineMaps(fields["payments"])
	paymentRows := make([]models.SalesInvoicePayment, 0, len(payments))
	for _, p := range payments {
		amount := decOf(p["amount"])
		paid = paid.Add(amount)
		paymentRows = append(paymentRows, models.SalesInvoicePayment{
			InvoiceName: name,
			Method:      strOf(p["method"]),
			Amount:      amount,
		})
	}

	items := lineMaps(fields["items"])
	itemRows := make([]models.SalesInvoiceItem, 0, len(items))
	for _, it := range items {
		itemRows = append(itemRows, models.SalesInvoiceItem{
			InvoiceName: name,
			ItemCode:    strOf(it["item_code"]),
			Qty:         decOf(it["qty"]),
			Rate:        decOf(it["rate"]),
			UOM:         strOf(it["uom"]),
			Warehouse:   strOf(it["warehouse"]),
		})
	}

	outstanding := grandTotal.Sub(paid)
	if outstanding.IsNegative() {
		outstanding = decimal.Zero
	}
	status := models.InvoiceStatusUnpaid
	switch {
	case outstanding.IsZero():
		status = models.InvoiceStatusPaid
	case paid.IsPositive():
		status = models.InvoiceStatusPartly
	}

	m := models.SalesInvoice{
		Name:           name,
		Customer:       strOf(fields["customer"]),
		POSProfile:     strOf(fields["pos_profile"]),
		Warehouse:      strOf(fields["warehouse"]),
		PostingDate:    strOf(fields["posting_date"]),
		Currency:       strOf(fields["currency"]),
		ConversionRate: decOf(fields["conversion_rate"]),
		GrandTotal:     grandTotal,
		Outstanding:    outstanding,
		Status:         status,
		Docstatus:      int(docstatus),
		Items:          itemRows,
		Payments:       paymentRows,
	}
	if err := db.WithContext(ctx).Create(&m).Error; err != nil {
		return document.Ref{}, mapInsertError(document.KindSalesInvoice, name, err)
	}
	return document.Ref{Kind: document.KindSalesInvoice, ID: name}, nil
}

// Save applies a partial update to an existing document.
func (s *GormDocumentStore) Save(ctx context.Context, ref document.Ref, patch document.Fields) error {
	switch ref.Kind {
	case document.KindCustomer:
		updates := pick(patch, map[string]string{
			"customer_name":  "name",
			"mobile":         "mobile",
			"email":          "email",
			"territory":      "territory",
			"customer_group": "customer_group",
			"credit_limit":   "credit_limit",
			"disabled":       "disabled",
		})
		return s.update(ctx, &models.Customer{}, "code = ?", ref.ID, updates)
	case document.KindPOSSession:
		updates := pick(patch, map[string]string{
			"status":        "status",
			"closing_total": "closing_total",
			"closed_at":     "closed_at",
		})
		return s.update(ctx, &models.POSSession{}, "name = ?", ref.ID, updates)
	case document.KindSalesInvoice:
		updates := pick(patch, map[string]string{
			"status":      "status",
			"outstanding": "outstanding",
		})
		return s.update(ctx, &models.SalesInvoice{}, "name = ?", ref.ID, updates)
	default:
		return unsupportedKind(ref.Kind)
	}
}

// Submit finalizes a draft document.
func (s *GormDocumentStore) Submit(ctx context.Context, ref document.Ref) error {
	return s.transition(ctx, ref, document.DocstatusDraft, document.DocstatusSubmitted)
}

// Cancel voids a submitted document.
func (s *GormDocumentStore) Cancel(ctx context.Context, ref document.Ref) error {
	if ref.Kind == document.KindSalesInvoice {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			result := tx.Model(&models.SalesInvoice{}).
				Where("name = ? AND docstatus = ?", ref.ID, int(document.DocstatusSubmitted)).
				Updates(map[string]any{
					"docstatus":   int(document.DocstatusCancelled),
					"status":      models.InvoiceStatusCancelled,
					"outstanding": decimal.Zero,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return s.transitionFailure(ctx, tx, ref)
			}
			return nil
		})
	}
	return s.transition(ctx, ref, document.DocstatusSubmitted, document.DocstatusCancelled)
}

func (s *GormDocumentStore) transition(ctx context.Context, ref document.Ref, from, to document.Docstatus) error {
	var model any
	switch ref.Kind {
	case document.KindSalesInvoice:
		model = &models.SalesInvoice{}
	case document.KindPaymentEntry:
		model = &models.PaymentEntry{}
	default:
		return unsupportedKind(ref.Kind)
	}

	result := s.db.WithContext(ctx).Model(model).
		Where("name = ? AND docstatus = ?", ref.ID, int(from)).
		Update("docstatus", int(to))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return s.transitionFailure(ctx, s.db, ref)
	}
	return nil
}

// transitionFailure distinguishes a missing document from one in the wrong
// state so callers get the right error code.
func (s *GormDocumentStore) transitionFailure(ctx context.Context, db *gorm.DB, ref document.Ref) error {
	var count int64
	var err error
	switch ref.Kind {
	case document.KindSalesInvoice:
		err = db.WithContext(ctx).Model(&models.SalesInvoice{}).Where("name = ?", ref.ID).Count(&count).Error
	case document.KindPaymentEntry:
		err = db.WithContext(ctx).Model(&models.PaymentEntry{}).Where("name = ?", ref.ID).Count(&count).Error
	}
	if err != nil {
		return err
	}
	if count == 0 {
		return shared.NotFound(fmt.Sprintf("%s not found", ref))
	}
	return shared.ValidationFailed(fmt.Sprintf("%s is not in a state that allows this transition", ref))
}

func (s *GormDocumentStore) first(ctx context.Context, dest any, query string, args ...any) error {
	return mapNotFound(s.db.WithContext(ctx).First(dest, append([]any{query}, args...)...).Error)
}

func (s *GormDocumentStore) update(ctx context.Context, model any, query string, id string, updates map[string]any) error {
	if len(updates) == 0 {
		return shared.ValidationFailed("Nothing to update")
	}
	result := s.db.WithContext(ctx).Model(model).Where(query, id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NotFound("Document not found")
	}
	return nil
}

func customerFields(m *models.Customer) document.Fields {
	return document.Fields{
		"name":           m.Code,
		"code":           m.Code,
		"customer_name":  m.Name,
		"mobile":         m.Mobile,
		"email":          m.Email,
		"territory":      m.Territory,
		"customer_group": m.CustomerGroup,
		"credit_limit":   m.CreditLimit,
		"disabled":       m.Disabled,
		"modified_at":    m.UpdatedAt,
	}
}

func invoiceFields(m *models.SalesInvoice) document.Fields {
	f := document.Fields{
		"name":            m.Name,
		"customer":        m.Customer,
		"pos_profile":     m.POSProfile,
		"warehouse":       m.Warehouse,
		"posting_date":    m.PostingDate,
		"currency":        m.Currency,
		"conversion_rate": m.ConversionRate,
		"grand_total":     m.GrandTotal,
		"outstanding":     m.Outstanding,
		"status":          m.Status,
		"docstatus":       m.Docstatus,
		"modified_at":     m.UpdatedAt,
	}
	if len(m.Items) > 0 {
		items := make([]map[string]any, 0, len(m.Items))
		for _, it := range m.Items {
			items = append(items, map[string]any{
				"item_code": it.ItemCode,
				"qty":       it.Qty,
				"rate":      it.Rate,
				"uom":       it.UOM,
				"warehouse": it.Warehouse,
			})
		}
		f["items"] = items
	}
	if len(m.Payments) > 0 {
		payments := make([]map[string]any, 0, len(m.Payments))
		for _, p := range m.Payments {
			payments = append(payments, map[string]any{
				"method": p.Method,
				"amount": p.Amount,
			})
		}
		f["payments"] = payments
	}
	return f
}

func paymentFields(m *models.PaymentEntry) document.Fields {
	return document.Fields{
		"name":            m.Name,
		"payment_type":    m.PaymentType,
		"party_type":      m.PartyType,
		"party":           m.Party,
		"paid_amount":     m.PaidAmount,
		"received_amount": m.ReceivedAmount,
		"from_currency":   m.FromCurrency,
		"to_currency":     m.ToCurrency,
		"exchange_rate":   m.ExchangeRate,
		"posting_date":    m.PostingDate,
		"reference_no":    m.ReferenceNo,
		"against_invoice": m.AgainstInvoice,
		"docstatus":       m.Docstatus,
		"modified_at":     m.UpdatedAt,
	}
}

func sessionFields(m *models.POSSession) document.Fields {
	f := document.Fields{
		"name":          m.Name,
		"pos_profile":   m.Profile,
		"user":          m.User,
		"status":        m.Status,
		"opening_float": m.OpeningFloat,
		"closing_total": m.ClosingTotal,
		"opened_at":     m.OpenedAt,
		"modified_at":   m.UpdatedAt,
	}
	if m.ClosedAt != nil {
		f["closed_at"] = *m.ClosedAt
	}
	return f
}

// pick copies whitelisted patch fields into a column-keyed update map.
func pick(patch document.Fields, columns map[string]string) map[string]any {
	updates := make(map[string]any, len(patch))
	for field, value := range patch {
		if column, ok := columns[field]; ok {
			updates[column] = normalizeValue(value)
		}
	}
	return updates
}

// normalizeValue converts domain value types into driver-friendly ones.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case decimal.Decimal, *decimal.Decimal, time.Time, *time.Time, string, bool, int, int64, float64, nil:
		return t
	default:
		return strOf(v)
	}
}

func docName(prefix string) string {
	return prefix + "-" + strings.ToUpper(uuid.NewString()[:8])
}

func lineMaps(v any) []map[string]any {
	switch t := v.(type) {
	case []map[string]any:
		return t
	case []any:
		out := make([]map[string]any, 0, len(t))
		for _, e := range t {
			if m, ok := e.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	default:
		return nil
	}
}

func strOf(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}

func decOf(v any) decimal.Decimal {
	switch t := v.(type) {
	case decimal.Decimal:
		return t
	case *decimal.Decimal:
		if t != nil {
			return *t
		}
	case float64:
		return decimal.NewFromFloat(t)
	case int:
		return decimal.NewFromInt(int64(t))
	case int64:
		return decimal.NewFromInt(t)
	case string:
		if d, err := decimal.NewFromString(t); err == nil {
			return d
		}
	}
	return decimal.Zero
}

func timeOf(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case *time.Time:
		if t != nil {
			return *t
		}
	}
	return time.Now().UTC()
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

func mapInsertError(kind document.Kind, id string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.NewDomainError(shared.CodeConflict, fmt.Sprintf("%s %q already exists", kind, id))
	}
	return err
}

func unsupportedKind(kind document.Kind) error {
	return shared.ValidationFailed(fmt.Sprintf("Unsupported document kind %q", kind))
}
