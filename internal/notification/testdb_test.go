package notification

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"crewops-backend/internal/db"
	"crewops-backend/internal/directory"
	"crewops-backend/internal/model"
	"crewops-backend/internal/store"
)

// newTestEnv builds an in-memory database with the full schema plus
// the store and directory layered over it.
func newTestEnv(t *testing.T) (*gorm.DB, store.Store, *directory.Directory) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))
	return gdb, store.NewGormStore(gdb), directory.New(gdb)
}

func seed(t *testing.T, gdb *gorm.DB, rows ...any) {
	t.Helper()
	for _, row := range rows {
		require.NoError(t, gdb.Create(row).Error)
	}
}

func user(id, name, role, dept string) *model.User {
	return &model.User{ID: id, Name: name, Role: role, Department: dept, Active: true}
}

func adminWithScope(id, name, dept, scope string) *model.User {
	return &model.User{ID: id, Name: name, Role: model.RoleAdmin, Department: dept, StaffingScope: scope, Active: true}
}
