// Package models defines the GORM persistence models backing the
// point-of-sale synchronization store. Models live apart from the domain
// types so schema concerns (column types, indexes, constraints) never leak
// into domain logic.
package models
