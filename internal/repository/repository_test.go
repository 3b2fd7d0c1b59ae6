package repository

import (
	"fmt"
	"testing"
	"time"

	"go-erp-sync/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Privilege{}, &model.Role{}, &model.User{},
		&model.Document{}, &model.RemoteSale{}, &model.Backup{},
	))
	return db
}

func TestDocumentRepo_GetPut(t *testing.T) {
	repo := NewDocumentRepo(setupTestDB(t))

	_, err := repo.Get(model.InventoryPath)
	assert.ErrorIs(t, err, ErrNotFound)

	first := &model.Document{Path: model.InventoryPath, Body: []byte(`{"products":[]}`), UpdatedBy: "a@example.com"}
	require.NoError(t, repo.Put(first))

	second := &model.Document{Path: model.InventoryPath, Body: []byte(`{"products":[{"id":1}]}`), UpdatedBy: "b@example.com"}
	require.NoError(t, repo.Put(second))

	got, err := repo.Get(model.InventoryPath)
	require.NoError(t, err)
	assert.JSONEq(t, `{"products":[{"id":1}]}`, string(got.Body))
	assert.Equal(t, "b@example.com", got.UpdatedBy)
}

func TestSaleRepo_ListLastKeepsInsertionOrder(t *testing.T) {
	repo := NewSaleRepo(setupTestDB(t))

	for i := 1; i <= 5; i++ {
		require.NoError(t, repo.Append(&model.RemoteSale{
			Key:      fmt.Sprintf("k%d", i),
			Body:     []byte(fmt.Sprintf(`{"id":%d}`, i)),
			SyncedAt: time.Now(),
		}))
	}

	all, err := repo.ListLast(0)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "k1", all[0].Key)
	assert.Equal(t, "k5", all[4].Key)

	last, err := repo.ListLast(2)
	require.NoError(t, err)
	require.Len(t, last, 2)
	assert.Equal(t, "k4", last[0].Key)
	assert.Equal(t, "k5", last[1].Key)

	more, err := repo.ListLast(50)
	require.NoError(t, err)
	assert.Len(t, more, 5)
}

func TestSaleRepo_DuplicateKeyRejected(t *testing.T) {
	repo := NewSaleRepo(setupTestDB(t))

	require.NoError(t, repo.Append(&model.RemoteSale{Key: "dup", Body: []byte(`{}`)}))
	assert.Error(t, repo.Append(&model.RemoteSale{Key: "dup", Body: []byte(`{}`)}))

	got, err := repo.FindByKey("dup")
	require.NoError(t, err)
	assert.Equal(t, "dup", got.Key)

	_, err = repo.FindByKey("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBackupRepo_NewestFirst(t *testing.T) {
	repo := NewBackupRepo(setupTestDB(t))
	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(&model.Backup{Key: "100", Body: []byte(`{}`), CreatedAt: base}))
	require.NoError(t, repo.Create(&model.Backup{Key: "200", Body: []byte(`{}`), CreatedAt: base.Add(time.Hour)}))

	list, err := repo.FindAll()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "200", list[0].Key)

	got, err := repo.FindByKey("100")
	require.NoError(t, err)
	assert.True(t, got.CreatedAt.Equal(base))

	_, err = repo.FindByKey("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSeedDefaults_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	privRepo := NewPrivilegeRepo(db)
	roleRepo := NewRoleRepo(db)

	for i := 0; i < 2; i++ {
		require.NoError(t, privRepo.SeedDefaults())
		require.NoError(t, roleRepo.SeedDefaults())
	}

	privs, err := privRepo.FindAll()
	require.NoError(t, err)
	assert.Len(t, privs, len(model.DefaultPrivileges))

	role, err := roleRepo.FindByCode(model.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, roleRepo.AssignPrivileges(role, privs[:2]))

	role, err = roleRepo.FindByCode(model.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, role.Privileges, 2)
}

func TestUserRepo_SessionAndPassword(t *testing.T) {
	repo := NewUserRepo(setupTestDB(t))

	user := &model.User{Email: "ops@example.com", FullName: "Ops", IsActive: true}
	require.NoError(t, user.SetPassword("secret"))
	require.NoError(t, repo.Create(user))
	assert.NotEqual(t, uuid.Nil, user.ID)

	first, err := repo.RotateSession(user.ID)
	require.NoError(t, err)
	second, err := repo.RotateSession(user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	got, err := repo.FindByEmail("ops@example.com")
	require.NoError(t, err)
	assert.Equal(t, second, got.Session)
	assert.True(t, got.PasswordMatches("secret"))

	require.NoError(t, got.SetPassword("changed"))
	require.NoError(t, repo.SetPasswordHash(user.ID, got.PasswordHash))
	got, err = repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.True(t, got.PasswordMatches("changed"))
	assert.False(t, got.PasswordMatches("secret"))
}

func TestUserRepo_UnknownAccount(t *testing.T) {
	repo := NewUserRepo(setupTestDB(t))

	_, err := repo.FindByEmail("nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.FindByID(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.RotateSession(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
