package core

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"eventgate.io/eventgate/model"
)

// newTestDB gives each test an isolated in-memory store. The pool is capped
// at one connection so concurrent writers are serialized the same way a
// transactional server-side store would serialize them.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	dm, err := Open(sqlite.Open(dsn), 1, LogLevelSilent)
	require.NoError(t, err)
	require.NoError(t, dm.Migrate())
	t.Cleanup(func() { dm.Close() })

	return dm.DB(context.Background())
}

func seedGuest(t *testing.T, db *gorm.DB, code, name string) model.Guest {
	t.Helper()

	guest := model.Guest{ScanCode: code, Name: name}
	require.NoError(t, db.Create(&guest).Error)
	return guest
}

func ledgerCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(&model.AttendanceRecord{}).Count(&n).Error)
	return n
}

func strPtr(s string) *string { return &s }
