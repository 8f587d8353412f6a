package database

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/j-marthe/sistema-gestion-archivos-backend/config"
	userModel "github.com/j-marthe/sistema-gestion-archivos-backend/internal/model/user"
	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/storage"
)

func testConfig(t *testing.T) *config.AppConfig {
	conf := config.Default()
	conf.JWT.Secret = "secret"
	conf.Database.Driver = "sqlite"
	conf.Database.Path = ":memory:"
	conf.Storage.Driver = "local"
	conf.Storage.LocalRoot = t.TempDir()
	conf.Storage.RetryAttempts = 1
	return conf
}

func TestInitDatabase_SQLite(t *testing.T) {
	db, err := InitDatabase(testConfig(t), zap.NewNop())
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&userModel.Role{}).Count(&count).Error)
	assert.Equal(t, int64(len(userModel.DefaultRoles)), count)
}

func TestOpen_UnknownDriver(t *testing.T) {
	conf := testConfig(t)
	conf.Database.Driver = "mysql"

	_, err := Open(conf, zap.NewNop())
	assert.ErrorContains(t, err, "不支持的数据库驱动")
}

func TestInitRedis_Disabled(t *testing.T) {
	conf := testConfig(t)
	conf.Redis.Enabled = false

	client, err := InitRedis(conf, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestInitStorage_Local(t *testing.T) {
	ctx := context.Background()
	store, err := InitStorage(ctx, testConfig(t), zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &storage.Instrumented{}, store)

	pointer, err := store.Put(ctx, "a.txt", bytes.NewReader([]byte("hola")), 4, "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "a.txt", storage.NameFromPointer(pointer))

	obj, err := store.Get(ctx, "a.txt")
	require.NoError(t, err)
	defer obj.Body.Close()
	data, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	assert.Equal(t, "hola", string(data))
}

func TestInitStorage_UnknownDriver(t *testing.T) {
	conf := testConfig(t)
	conf.Storage.Driver = "azure"

	_, err := InitStorage(context.Background(), conf, zap.NewNop())
	assert.ErrorContains(t, err, "不支持的存储驱动")
}
