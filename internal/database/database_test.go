package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-marketplace-api/internal/models"
	"github.com/yukikurage/task-marketplace-api/internal/utils"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestClose(t *testing.T) {
	prev := DB
	t.Cleanup(func() { SetDB(prev) })

	SetDB(nil)
	assert.NoError(t, Close())

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	SetDB(db)

	require.NoError(t, Close())
	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Error(t, sqlDB.Ping())
}

func TestMigrateDatabase_CreatesSkills(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	require.NoError(t, MigrateDatabase(db))
	assert.True(t, db.Migrator().HasTable("skills"))
	assert.True(t, db.Migrator().HasIndex("skills", "idx_skills_provider_category"))
	assert.True(t, db.Migrator().HasColumn("categories", "deleted_at"))
}

func TestScopes(t *testing.T) {
	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		DryRun: true,
	})
	require.NoError(t, err)

	var tasks []models.Task
	stmt := db.Scopes(ForUpdate, Paginate(utils.NewPaginationParams(3, 5))).Find(&tasks).Statement

	sql := stmt.SQL.String()
	assert.Contains(t, sql, "FOR UPDATE")
	assert.Contains(t, sql, "LIMIT ? OFFSET ?")
	assert.Equal(t, []interface{}{5, 10}, stmt.Vars)
}
