package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xavierca1/ecocrm/internal/entity"
)

type failingBlobStore struct {
	err error
}

func (f failingBlobStore) Get(ctx context.Context, key string) ([]byte, error) { return nil, f.err }
func (f failingBlobStore) Set(ctx context.Context, key string, value []byte) error {
	return f.err
}

func sampleLeads() []entity.Lead {
	ret := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	return []entity.Lead{
		{
			ID:             "b",
			Name:           "Maria",
			Phone:          "11 99999-0000",
			HasWhatsApp:    true,
			BillValue:      decimal.RequireFromString("612.40"),
			ReturnDateTime: &ret,
			Notes:          "ligar depois do almoço",
			Status:         entity.StatusContacted,
			CreatedAt:      time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:        "a",
			Name:      "João",
			Phone:     "21 98888-1111",
			BillValue: decimal.NewFromInt(90),
			IsLowBill: true,
			Status:    entity.StatusNew,
			CreatedAt: time.Date(2026, 3, 8, 10, 0, 0, 0, time.UTC),
		},
	}
}

func TestLeadStoreLoadEmpty(t *testing.T) {
	store := NewLeadStore(NewMemoryBlobStore(), zap.NewNop())

	leads, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, leads)
	assert.Empty(t, leads)
}

func TestLeadStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	blobs := NewMemoryBlobStore()
	store := NewLeadStore(blobs, zap.NewNop())

	require.NoError(t, store.Save(ctx, sampleLeads()))
	first, err := blobs.Get(ctx, StorageKey)
	require.NoError(t, err)

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "b", loaded[0].ID)
	assert.True(t, loaded[0].BillValue.Equal(decimal.RequireFromString("612.4")))
	assert.True(t, loaded[0].ReturnDateTime.Equal(*sampleLeads()[0].ReturnDateTime))
	assert.Equal(t, entity.StatusContacted, loaded[0].Status)
	assert.Nil(t, loaded[1].ReturnDateTime)

	require.NoError(t, store.Save(ctx, loaded))
	second, err := blobs.Get(ctx, StorageKey)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestLeadStoreCorruptBlobStartsEmpty(t *testing.T) {
	ctx := context.Background()
	blobs := NewMemoryBlobStore()
	require.NoError(t, blobs.Set(ctx, StorageKey, []byte("{not json")))

	leads, err := NewLeadStore(blobs, zap.NewNop()).Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, leads)

	_, err = NewLeadStore(blobs, zap.NewNop()).read(ctx)
	var pe *PersistenceReadError
	assert.ErrorAs(t, err, &pe)
}

func TestLeadStoreUnreachableIsNotEmpty(t *testing.T) {
	refused := errors.New("dial tcp 127.0.0.1:6379: connection refused")
	store := NewLeadStore(failingBlobStore{err: refused}, zap.NewNop())

	leads, err := store.Load(context.Background())
	require.Error(t, err)
	assert.Nil(t, leads)
	assert.ErrorIs(t, err, refused)

	var pe *PersistenceReadError
	assert.False(t, errors.As(err, &pe))
}

func TestLeadStoreSaveError(t *testing.T) {
	boom := errors.New("read-only")
	store := NewLeadStore(failingBlobStore{err: boom}, zap.NewNop())

	err := store.Save(context.Background(), sampleLeads())
	assert.ErrorIs(t, err, boom)
}

func TestLeadStoreReadsLegacyDocument(t *testing.T) {
	ctx := context.Background()
	blobs := NewMemoryBlobStore()
	legacy := `[{"id":"x","name":"Ana","phone":"1","hasWhatsApp":false,"billValue":200,` +
		`"isLowBill":false,"isLowIncomeProgram":false,"returnDateTime":"","status":"Novo",` +
		`"createdAt":"2026-01-02T03:04:05Z"}]`
	require.NoError(t, blobs.Set(ctx, StorageKey, []byte(legacy)))

	leads, err := NewLeadStore(blobs, zap.NewNop()).Load(ctx)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, entity.StatusNew, leads[0].Status)
	assert.Nil(t, leads[0].ReturnDateTime)
	assert.True(t, leads[0].BillValue.Equal(decimal.NewFromInt(200)))
}

// Formato gravado pelo primeiro app em JS puro: id numérico (Date.now()),
// isLowIncome e sem status.
func TestLeadStoreReadsPlainScriptDocument(t *testing.T) {
	ctx := context.Background()
	blobs := NewMemoryBlobStore()
	legacy := `[{"id":1736000000000,"name":"Carlos","phone":"(11) 95555-4444","hasWhatsApp":true,` +
		`"billValue":412.5,"isLowBill":false,"isLowIncome":true,"returnDateTime":"2026-01-02T10:00",` +
		`"notes":"","createdAt":"2026-01-01T12:00:00.000Z","notified":false},` +
		`{"id":1736000000001,"name":"Rita","phone":"1","hasWhatsApp":false,"billValue":0,` +
		`"isLowBill":true,"isLowIncome":false,"returnDateTime":"","notes":"",` +
		`"createdAt":"2026-01-01T12:00:01.000Z","notified":true}]`
	require.NoError(t, blobs.Set(ctx, StorageKey, []byte(legacy)))

	store := NewLeadStore(blobs, zap.NewNop())
	leads, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, leads, 2)

	carlos := leads[0]
	assert.Equal(t, "1736000000000", carlos.ID)
	assert.True(t, carlos.IsLowIncomeProgram)
	assert.Equal(t, entity.StatusNew, carlos.Status)
	assert.True(t, carlos.BillValue.Equal(decimal.RequireFromString("412.5")))
	require.NotNil(t, carlos.ReturnDateTime)
	assert.Equal(t, 10, carlos.ReturnDateTime.Hour())

	assert.Equal(t, "1736000000001", leads[1].ID)
	assert.False(t, leads[1].IsLowIncomeProgram)
	assert.True(t, leads[1].Notified)

	// regravado no formato atual, o id continua o mesmo
	require.NoError(t, store.Save(ctx, leads))
	again, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1736000000000", again[0].ID)
	assert.True(t, again[0].IsLowIncomeProgram)
}
