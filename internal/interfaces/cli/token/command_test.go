package token

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/customerly-inc/customerly/internal/infrastructure/auth"
	"github.com/customerly-inc/customerly/internal/infrastructure/migration"
	"github.com/customerly-inc/customerly/internal/infrastructure/repository"
	"github.com/customerly-inc/customerly/internal/shared/authorization"
	"github.com/customerly-inc/customerly/internal/shared/logger"
)

func newUserRepo(t *testing.T) *repository.UserRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, migration.Run(db))
	return repository.NewUserRepository(db, logger.NewNop())
}

func TestIssue(t *testing.T) {
	ctx := context.Background()
	users := newUserRepo(t)
	jwtSvc := auth.NewJWTService("secret", 60)

	_, _, _, err := issue(ctx, users, jwtSvc, issueOptions{Email: "admin@example.com", TTL: time.Hour})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--create")

	tok, exp, created, err := issue(ctx, users, jwtSvc, issueOptions{
		Email:  "Admin@Example.com",
		Role:   "admin",
		Create: true,
		TTL:    time.Hour,
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	claims, err := jwtSvc.VerifyAccess(tok)
	require.NoError(t, err)
	assert.Equal(t, authorization.RoleAdmin, claims.Role)

	u, err := users.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID(), claims.UserID)

	// existing user keeps its stored role
	_, _, created, err = issue(ctx, users, jwtSvc, issueOptions{Email: "admin@example.com", Role: "customer", Create: true, TTL: time.Hour})
	require.NoError(t, err)
	assert.False(t, created)
}

func TestIssue_InvalidRole(t *testing.T) {
	users := newUserRepo(t)

	_, _, _, err := issue(context.Background(), users, auth.NewJWTService("secret", 60), issueOptions{
		Email:  "x@example.com",
		Role:   "root",
		Create: true,
		TTL:    time.Hour,
	})

	assert.Error(t, err)
}
