package user

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/customerly-inc/customerly/internal/domain/user/valueobjects"
	"github.com/customerly-inc/customerly/internal/shared/id"
)

func mustEmail(t *testing.T, s string) vo.Email {
	t.Helper()
	e, err := vo.NewEmail(s)
	require.NoError(t, err)
	return e
}

func TestNewEmail(t *testing.T) {
	e, err := vo.NewEmail("  Ada@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", e.String())
	assert.Equal(t, "example.com", e.Domain())

	for _, bad := range []string{"", "ada", "ada@", "@example.com", strings.Repeat("a", 250) + "@x.com"} {
		_, err := vo.NewEmail(bad)
		assert.Error(t, err, bad)
	}
}

func TestNewUser(t *testing.T) {
	u, err := NewUser(mustEmail(t, "ada@example.com"), " Ada Lovelace ", vo.RoleAgent, "")
	require.NoError(t, err)
	assert.NoError(t, id.ValidatePrefix(u.ID(), id.PrefixUser))
	assert.Equal(t, "Ada Lovelace", u.Name())
	assert.True(t, u.Role().IsStaff())

	_, err = NewUser(mustEmail(t, "x@example.com"), "x", vo.Role("root"), "")
	assert.Error(t, err)
}

func TestUser_DisplayName(t *testing.T) {
	u, err := NewUser(mustEmail(t, "anon@example.com"), "", vo.RoleCustomer, "")
	require.NoError(t, err)
	assert.Equal(t, "anon@example.com", u.DisplayName())
}

func TestNewTeam(t *testing.T) {
	team, err := NewTeam(" Tier 1 ")
	require.NoError(t, err)
	assert.Equal(t, "Tier 1", team.Name())
	assert.NoError(t, id.ValidatePrefix(team.ID(), id.PrefixTeam))

	_, err = NewTeam("  ")
	assert.Error(t, err)
}

func TestAgent_Capacity(t *testing.T) {
	a, err := NewAgent("usr_1", "team_1", 2)
	require.NoError(t, err)

	require.NoError(t, a.TakeTicket())
	require.NoError(t, a.TakeTicket())
	assert.False(t, a.HasCapacity())
	assert.Error(t, a.TakeTicket())

	a.ReleaseTicket()
	assert.Equal(t, 1, a.CurrentTickets())
	a.ReleaseTicket()
	a.ReleaseTicket()
	assert.Equal(t, 0, a.CurrentTickets())
}

func TestNewAgent_DefaultCapacity(t *testing.T) {
	a, err := NewAgent("usr_1", "team_1", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxTickets, a.MaxTickets())
}

func TestReconstructAgent_RejectsOverbooking(t *testing.T) {
	now := time.Now()
	_, err := ReconstructAgent("agt_1", "usr_1", "team_1", 3, 4, now, now)
	assert.Error(t, err)
	_, err = ReconstructAgent("agt_1", "usr_1", "team_1", 3, -1, now, now)
	assert.Error(t, err)
}

func TestUser_UpdateProfile(t *testing.T) {
	u, err := NewUser(mustEmail(t, "ada@example.com"), "Ada", vo.RoleCustomer, "")
	require.NoError(t, err)

	name, avatar := "  Ada L. ", "https://cdn.example.com/ada.png"
	require.NoError(t, u.UpdateProfile(&name, &avatar))
	assert.Equal(t, "Ada L.", u.Name())
	assert.Equal(t, avatar, u.AvatarURL())

	long := strings.Repeat("n", 101)
	assert.Error(t, u.UpdateProfile(&long, nil))
	assert.Equal(t, "Ada L.", u.Name())
}
