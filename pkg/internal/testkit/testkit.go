// Package testkit prepares an isolated in-memory environment for tests.
package testkit

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"git.solsynth.dev/hypernet/circle/pkg/internal/cache"
	"git.solsynth.dev/hypernet/circle/pkg/internal/database"
	"git.solsynth.dev/hypernet/circle/pkg/internal/models"
	"git.solsynth.dev/hypernet/circle/pkg/internal/services"
	"github.com/glebarez/sqlite"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Setup points the global database, cache and media host at fresh
// in-memory instances. Tests using it must not run in parallel.
func Setup(t *testing.T) *FakeImageHost {
	t.Helper()

	viper.Reset()
	viper.Set("security.token_secret", "testing-secret")
	viper.Set("security.token_lifetime", "1h")
	viper.Set("security.password_cost", bcrypt.MinCost)
	viper.Set("media.timeout", "2s")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to :memory: is a database of its own.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	require.NoError(t, database.RunMigration(db))
	database.C = db

	if cache.S == nil {
		require.NoError(t, cache.NewStore())
	} else {
		require.NoError(t, cache.S.Clear(context.Background()))
	}

	host := NewFakeImageHost()
	services.MediaHost = host

	t.Cleanup(func() {
		_ = sqlDB.Close()
		services.MediaHost = nil
	})

	return host
}

// CreateAccount registers an account with the password "password".
func CreateAccount(t *testing.T, username string) models.Account {
	t.Helper()

	account, err := services.RegisterAccount(
		strings.ToUpper(username[:1])+username[1:],
		username,
		username+"@example.com",
		"password",
		"password",
	)
	require.NoError(t, err)
	return account
}

// FakeImageHost keeps uploaded images in memory. Failures can be switched
// on to exercise the error paths.
type FakeImageHost struct {
	mu        sync.Mutex
	seq       int
	Images    map[string]string
	Destroyed []string

	FailUpload  bool
	FailDestroy bool
}

func NewFakeImageHost() *FakeImageHost {
	return &FakeImageHost{Images: make(map[string]string)}
}

func (v *FakeImageHost) Upload(ctx context.Context, source string) (services.UploadedImage, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.FailUpload {
		return services.UploadedImage{}, fmt.Errorf("upload rejected")
	}

	v.seq++
	id := fmt.Sprintf("circle/image-%d", v.seq)
	v.Images[id] = source
	return services.UploadedImage{
		URL:      fmt.Sprintf("https://res.cloudinary.com/demo/image/upload/v1/%s.png", id),
		RemoteID: id,
	}, nil
}

func (v *FakeImageHost) Destroy(ctx context.Context, remoteID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.FailDestroy {
		return fmt.Errorf("destroy rejected")
	}

	delete(v.Images, remoteID)
	v.Destroyed = append(v.Destroyed, remoteID)
	return nil
}

func (v *FakeImageHost) SetFailures(upload, destroy bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.FailUpload, v.FailDestroy = upload, destroy
}

func (v *FakeImageHost) Count() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.Images)
}
