package mutation

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/possync/backend/internal/domain/document"
)

type mockDocumentStore struct {
	mock.Mock
}

func (m *mockDocumentStore) Get(ctx context.Context, kind document.Kind, id string) (document.Fields, error) {
	args := m.Called(ctx, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(document.Fields), args.Error(1)
}

func (m *mockDocumentStore) List(ctx context.Context, kind document.Kind, q document.ListQuery) ([]document.Fields, int64, error) {
	args := m.Called(ctx, kind, q)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]document.Fields), args.Get(1).(int64), args.Error(2)
}

func (m *mockDocumentStore) Insert(ctx context.Context, kind document.Kind, fields document.Fields) (document.Ref, error) {
	args := m.Called(ctx, kind, fields)
	return args.Get(0).(document.Ref), args.Error(1)
}

func (m *mockDocumentStore) Save(ctx context.Context, ref document.Ref, patch document.Fields) error {
	args := m.Called(ctx, ref, patch)
	return args.Error(0)
}

func (m *mockDocumentStore) Submit(ctx context.Context, ref document.Ref) error {
	args := m.Called(ctx, ref)
	return args.Error(0)
}

func (m *mockDocumentStore) Cancel(ctx context.Context, ref document.Ref) error {
	args := m.Called(ctx, ref)
	return args.Error(0)
}

func (m *mockDocumentStore) InsertSubmitted(ctx context.Context, kind document.Kind, fields document.Fields) (document.Ref, error) {
	args := m.Called(ctx, kind, fields)
	return args.Get(0).(document.Ref), args.Error(1)
}

// staticPerms grants or denies everything, for tests that only need one side.
type staticPerms bool

func (p staticPerms) HasPermission(ctx context.Context, actor string, kind document.Kind, action document.Action) bool {
	return bool(p)
}
