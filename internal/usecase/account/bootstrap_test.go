package account

import (
	"context"
	"testing"

	"trusthire/internal/config"
	domainAccount "trusthire/internal/domain/account"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bootstrapConfig() config.BootstrapConfig {
	return config.BootstrapConfig{
		AdminName:     "Admin User",
		AdminEmail:    "Admin@TrustHire.test",
		AdminPassword: "admin-pass",
		UserName:      "Demo User",
		UserEmail:     "demo@trusthire.test",
		UserPassword:  "demo-pass",
	}
}

func TestService_Bootstrap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Bootstrap(ctx, bootstrapConfig()))

	admin, err := f.accounts.GetByEmail(ctx, "admin@trusthire.test")
	require.NoError(t, err)
	assert.Equal(t, domainAccount.RoleAdmin, admin.Role)
	assert.Equal(t, domainAccount.StateVerified, domainAccount.StateOf(admin))
	assert.Nil(t, admin.OTPCode)

	demo, err := f.accounts.GetByEmail(ctx, "demo@trusthire.test")
	require.NoError(t, err)
	assert.Equal(t, domainAccount.RoleWorker, demo.Role)
	assert.True(t, demo.IsVerified())

	resp, err := f.svc.Login(ctx, &LoginRequest{Email: "demo@trusthire.test", Password: "demo-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

func TestService_Bootstrap_LeavesExistingAccounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.svc.Bootstrap(ctx, bootstrapConfig()))
	before, err := f.accounts.GetByEmail(ctx, "admin@trusthire.test")
	require.NoError(t, err)

	cfg := bootstrapConfig()
	cfg.AdminPassword = "rotated-pass"
	require.NoError(t, f.svc.Bootstrap(ctx, cfg))

	after, err := f.accounts.GetByEmail(ctx, "admin@trusthire.test")
	require.NoError(t, err)
	assert.Equal(t, before.PasswordHashed, after.PasswordHashed)

	stats, err := f.svc.DashboardStats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.Total)
}

func TestService_Bootstrap_SkipsUnconfigured(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Bootstrap(ctx, config.BootstrapConfig{
		AdminName:  "Admin User",
		AdminEmail: "admin@trusthire.test",
	}))

	stats, err := f.svc.DashboardStats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, stats.Total)
}
