package persistence

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/possync/backend/internal/application/sync"
)

// stubSpec describes how to read bare change stubs from one table. None of
// the stub tables carries a docstatus column; every stub reports 0.
type stubSpec struct {
	table      string
	nameColumn string
}

// stubTables maps the entity-type names clients send to the tables that can
// serve a (name, modified, docstatus) listing. Types outside this map return
// an empty listing.
var stubTables = map[string]stubSpec{
	"pos session": {table: "pos_sessions", nameColumn: "name"},
	"pos_session": {table: "pos_sessions", nameColumn: "name"},
	"pos opening": {table: "pos_sessions", nameColumn: "name"},
	"pos_opening": {table: "pos_sessions", nameColumn: "name"},
	"pos profile": {table: "pos_profiles", nameColumn: "name"},
	"pos_profile": {table: "pos_profiles", nameColumn: "name"},
	"supplier":    {table: "suppliers", nameColumn: "code"},
	"suppliers":   {table: "suppliers", nameColumn: "code"},
}

// GormStubReader implements sync.StubReader over the tables that have no
// rich delta family of their own.
type GormStubReader struct {
	db *gorm.DB
}

// NewGormStubReader creates a new GormStubReader.
func NewGormStubReader(db *gorm.DB) *GormStubReader {
	return &GormStubReader{db: db}
}

type stubScan struct {
	Name      string
	UpdatedAt time.Time
	Docstatus int
}

// StubsChangedSince lists bare change stubs for one entity type, ordered by
// modification time ascending so the client's watermark advances cleanly.
func (r *GormStubReader) StubsChangedSince(ctx context.Context, entityType string, since time.Time) ([]sync.DocStub, error) {
	spec, ok := stubTables[strings.ToLower(strings.TrimSpace(entityType))]
	if !ok {
		return []sync.DocStub{}, nil
	}

	var scans []stubScan
	err := r.db.WithContext(ctx).
		Table(spec.table).
		Select(spec.nameColumn+" AS name, updated_at, 0 AS docstatus").
		Where("updated_at > ?", since).
		Order("updated_at ASC, " + spec.nameColumn + " ASC").
		Scan(&scans).Error
	if err != nil {
		return nil, err
	}

	stubs := make([]sync.DocStub, 0, len(scans))
	for _, s := range scans {
		stubs = append(stubs, sync.DocStub{
			Name:       s.Name,
			ModifiedAt: s.UpdatedAt,
			Docstatus:  s.Docstatus,
		})
	}
	return stubs, nil
}
