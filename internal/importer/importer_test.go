package importer_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/order-wizard/internal/importer"
	"github.com/joseph-ayodele/order-wizard/internal/repository"
)

func newTestRepo(t *testing.T) repository.OrderRepository {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := repository.Open(context.Background(), repository.Config{
		DSN:          "file:" + filepath.Join(t.TempDir(), "orders.db"),
		MaxOpenConns: 2,
		MaxIdleConns: 2,
		DialTimeout:  3 * time.Second,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { repository.Close(db, logger) })

	repo, err := repository.NewOrderRepository(context.Background(), db, logger)
	require.NoError(t, err)
	return repo
}

func TestImportJSON(t *testing.T) {
	repo := newTestRepo(t)
	imp := importer.NewImporter(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

	doc := []byte(`[
		{"order_number": "113-2089298-0236240", "amount": 16.15, "note": "seed"},
		{"order_number": "114-1111111-2222222", "amount": 42.0, "reimbursed": true, "reimbursed_amount": 42.0}
	]`)

	inserted, errs := imp.ImportJSON(context.Background(), doc)
	assert.Empty(t, errs)
	assert.Equal(t, 2, inserted)

	orders, err := repo.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "113-2089298-0236240", orders[0].OrderNumber)
	require.NotNil(t, orders[0].Note)
	assert.Equal(t, "seed", *orders[0].Note)
	assert.True(t, orders[1].Reimbursed)
}

func TestImportJSONRejectsInvalidDocument(t *testing.T) {
	repo := newTestRepo(t)
	imp := importer.NewImporter(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

	// amount must be > 0 per the schema; the whole document is rejected
	doc := []byte(`[{"order_number": "113-2089298-0236240", "amount": 0}]`)

	inserted, errs := imp.ImportJSON(context.Background(), doc)
	assert.Zero(t, inserted)
	require.Len(t, errs, 1)

	orders, err := repo.ListOrders(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestImportJSONRejectsUnknownFields(t *testing.T) {
	repo := newTestRepo(t)
	imp := importer.NewImporter(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

	doc := []byte(`[{"order_number": "113-2089298-0236240", "amount": 16.15, "color": "red"}]`)

	inserted, errs := imp.ImportJSON(context.Background(), doc)
	assert.Zero(t, inserted)
	assert.NotEmpty(t, errs)
}

func TestBuildOrdersJSONSchemaValidates(t *testing.T) {
	schema := importer.BuildOrdersJSONSchema()

	assert.NoError(t, importer.ValidateJSONAgainstSchema(schema,
		[]byte(`[{"order_number": "a", "amount": 1.5}]`)))
	assert.Error(t, importer.ValidateJSONAgainstSchema(schema,
		[]byte(`[{"amount": 1.5}]`)))
	assert.Error(t, importer.ValidateJSONAgainstSchema(schema,
		[]byte(`{"order_number": "a", "amount": 1.5}`)))
}
