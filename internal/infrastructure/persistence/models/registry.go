package models

// All returns every model in migration order. Used by AutoMigrate in tests
// and by the startup capabilities probe.
func All() []any {
	return []any{
		&Item{},
		&Bin{},
		&ItemPrice{},
		&AlertRule{},
		&Customer{},
		&Supplier{},
		&CustomerGroup{},
		&Territory{},
		&SalesInvoice{},
		&SalesInvoiceItem{},
		&SalesInvoicePayment{},
		&PaymentEntry{},
		&PaymentTerm{},
		&POSProfile{},
		&POSProfileUser{},
		&POSPaymentMethod{},
		&POSSession{},
		&PosSettings{},
		&Currency{},
		&CurrencyQuote{},
		&ActivityEntry{},
		&IdempotencyRecord{},
	}
}
