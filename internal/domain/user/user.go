package user

import (
	"fmt"
	"strings"
	"time"

	vo "github.com/customerly-inc/customerly/internal/domain/user/valueobjects"
	"github.com/customerly-inc/customerly/internal/shared/biztime"
	"github.com/customerly-inc/customerly/internal/shared/id"
)

const maxNameLength = 100

// User is anyone who can sign a message: customers and staff alike.
type User struct {
	id          string
	email       vo.Email
	name        string
	avatarURL   string
	role        vo.Role
	preferences map[string]any
	createdAt   time.Time
	updatedAt   time.Time
}

func NewUser(email vo.Email, name string, role vo.Role, avatarURL string) (*User, error) {
	name = strings.TrimSpace(name)
	if len(name) > maxNameLength {
		return nil, fmt.Errorf("name cannot exceed %d characters", maxNameLength)
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid role: %s", role)
	}
	now := biztime.NowUTC()
	return &User{
		id:          id.NewUserID(),
		email:       email,
		name:        name,
		avatarURL:   avatarURL,
		role:        role,
		preferences: map[string]any{},
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func ReconstructUser(
	userID string,
	email vo.Email,
	name, avatarURL string,
	role vo.Role,
	preferences map[string]any,
	createdAt, updatedAt time.Time,
) *User {
	if preferences == nil {
		preferences = map[string]any{}
	}
	return &User{
		id:          userID,
		email:       email,
		name:        name,
		avatarURL:   avatarURL,
		role:        role,
		preferences: preferences,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (u *User) ID() string                  { return u.id }
func (u *User) Email() vo.Email             { return u.email }
func (u *User) Name() string                { return u.name }
func (u *User) AvatarURL() string           { return u.avatarURL }
func (u *User) Role() vo.Role               { return u.role }
func (u *User) Preferences() map[string]any { return u.preferences }
func (u *User) CreatedAt() time.Time        { return u.createdAt }
func (u *User) UpdatedAt() time.Time        { return u.updatedAt }

// DisplayName falls back to the email address when no name is set.
func (u *User) DisplayName() string {
	if u.name != "" {
		return u.name
	}
	return u.email.String()
}

func (u *User) ChangeRole(role vo.Role) error {
	if !role.IsValid() {
		return fmt.Errorf("invalid role: %s", role)
	}
	u.role = role
	u.updatedAt = biztime.NowUTC()
	return nil
}

// UpdateProfile changes the display fields. Nil arguments are left as is.
func (u *User) UpdateProfile(name, avatarURL *string) error {
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if len(trimmed) > maxNameLength {
			return fmt.Errorf("name cannot exceed %d characters", maxNameLength)
		}
		u.name = trimmed
	}
	if avatarURL != nil {
		u.avatarURL = strings.TrimSpace(*avatarURL)
	}
	u.updatedAt = biztime.NowUTC()
	return nil
}
