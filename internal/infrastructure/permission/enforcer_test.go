package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/customerly-inc/customerly/internal/shared/authorization"
	"github.com/customerly-inc/customerly/internal/shared/logger"
)

func newTestEnforcer(t *testing.T) (*Enforcer, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	e, err := NewEnforcer(db, logger.NewNop())
	require.NoError(t, err)
	require.NoError(t, e.SeedDefaultPolicies())
	return e, db
}

func TestEnforcer_DefaultPolicies(t *testing.T) {
	e, _ := newTestEnforcer(t)

	tests := []struct {
		role     authorization.UserRole
		resource string
		action   string
		want     bool
	}{
		{authorization.RoleAdmin, authorization.ResourceDirectory, authorization.ActionWrite, true},
		{authorization.RoleAdmin, authorization.ResourceTickets, authorization.ActionDelete, true},
		{authorization.RoleAgent, authorization.ResourceTickets, authorization.ActionAssign, true},
		{authorization.RoleAgent, authorization.ResourceTickets, authorization.ActionDelete, false},
		{authorization.RoleAgent, authorization.ResourceDirectory, authorization.ActionRead, true},
		{authorization.RoleAgent, authorization.ResourceDirectory, authorization.ActionWrite, false},
		{authorization.RoleCustomer, authorization.ResourceTickets, authorization.ActionCreate, true},
		{authorization.RoleCustomer, authorization.ResourceTickets, authorization.ActionAssign, false},
		{authorization.RoleCustomer, authorization.ResourceDirectory, authorization.ActionRead, false},
		{authorization.RoleCustomer, authorization.ResourceFeed, authorization.ActionRead, true},
	}

	for _, tt := range tests {
		t.Run(tt.role.String()+"/"+tt.resource+"/"+tt.action, func(t *testing.T) {
			got, err := e.Enforce(tt.role, tt.resource, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnforcer_SeedIsIdempotentAndPersists(t *testing.T) {
	e, db := newTestEnforcer(t)
	require.NoError(t, e.SeedDefaultPolicies())

	policies, err := e.Policies()
	require.NoError(t, err)
	assert.Len(t, policies, len(DefaultPolicies))

	require.NoError(t, e.AddPolicy(authorization.RoleAgent, authorization.ResourceTickets, authorization.ActionDelete))

	reloaded, err := NewEnforcer(db, logger.NewNop())
	require.NoError(t, err)
	ok, err := reloaded.Enforce(authorization.RoleAgent, authorization.ResourceTickets, authorization.ActionDelete)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, reloaded.RemovePolicy(authorization.RoleAgent, authorization.ResourceTickets, authorization.ActionDelete))
	require.NoError(t, e.LoadPolicy())
	ok, err = e.Enforce(authorization.RoleAgent, authorization.ResourceTickets, authorization.ActionDelete)
	require.NoError(t, err)
	assert.False(t, ok)
}
