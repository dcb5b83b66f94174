package cli

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/typefinder/internal/core/domain"
)

func seedRecords(t *testing.T, env *testEnv) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, env.catalog.Save(ctx, domain.ScanRecord{
		ID:        "scan-old",
		Contract:  "github.com/acme/shop.Entity",
		StartedAt: base,
		Duration:  2 * time.Millisecond,
		Modules:   []string{"github.com/acme/shop@v1.2.0"},
		Types:     []domain.TypeID{"github.com/acme/shop.Customer"},
	}))
	require.NoError(t, env.catalog.Save(ctx, domain.ScanRecord{
		ID:        "scan-new",
		Contract:  "open:github.com/acme/shop.Repository",
		StartedAt: base.Add(time.Hour),
		Modules:   []string{"github.com/acme/shop@v1.2.0", "github.com/acme/billing"},
		Failures:  []string{"github.com/acme/billing: could not load dependency github.com/acme/ledger: not found"},
	}))
}

func TestHistoryCmd_Lists(t *testing.T) {
	env := setupTestServices(t)
	seedRecords(t, env)

	out, err := execute(t, "history")

	require.NoError(t, err)
	assert.Contains(t, out, "Scans (2):")
	assert.Contains(t, out, "scan-new")
	assert.Contains(t, out, "1 failed")
	assert.Contains(t, out, "scan-old")
	assert.Contains(t, out, "1 type(s)  ok")
	assert.Less(t, strings.Index(out, "scan-new"), strings.Index(out, "scan-old"))
}

func TestHistoryCmd_Limit(t *testing.T) {
	env := setupTestServices(t)
	seedRecords(t, env)

	out, err := execute(t, "history", "-n", "1")

	require.NoError(t, err)
	assert.Contains(t, out, "Scans (1):")
	assert.NotContains(t, out, "scan-old")
}

func TestHistoryCmd_LimitFromSettings(t *testing.T) {
	env := setupTestServices(t)
	seedRecords(t, env)
	require.NoError(t, env.config.Set("catalog.history_limit", 1))

	out, err := execute(t, "history")

	require.NoError(t, err)
	assert.Contains(t, out, "Scans (1):")
	assert.Contains(t, out, "scan-new")
}

func TestHistoryCmd_Empty(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "history")

	require.NoError(t, err)
	assert.Contains(t, out, "No scans recorded.")
}

func TestHistoryCmd_ShowsRecord(t *testing.T) {
	env := setupTestServices(t)
	seedRecords(t, env)

	out, err := execute(t, "history", "scan-new")

	require.NoError(t, err)
	assert.Contains(t, out, "Scan scan-new")
	assert.Contains(t, out, "Contract:  open:github.com/acme/shop.Repository")
	assert.Contains(t, out, "Modules (2):")
	assert.Contains(t, out, "Types (0):")
	assert.Contains(t, out, "Failed modules (1):")
	assert.Contains(t, out, "github.com/acme/ledger")
}

func TestHistoryCmd_UnknownRecord(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "history", "nope")

	assert.EqualError(t, err, "scan nope not found")
}

func TestHistoryCmd_NoCatalog(t *testing.T) {
	SetServices(nil)

	_, err := execute(t, "history")

	assert.EqualError(t, err, "catalog service not configured")
}
