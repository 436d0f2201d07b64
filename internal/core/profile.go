package core

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// BadgeAdmin marks privileged identities on their profile.
const BadgeAdmin = "admin"

// Profile is per-connection metadata, independent of channel membership.
type Profile struct {
	ConnectionID  string
	DisplayName   string
	Avatar        string
	Bio           string
	CustomStatus  string
	Pronouns      string
	Location      string
	Website       string
	Birthday      string
	FavoriteColor string
	Theme         string
	Badges        []string
	JoinedAt      time.Time
}

// ProfilePatch carries only the fields a client may change. Nil fields are
// left untouched.
type ProfilePatch struct {
	DisplayName   *string `json:"displayName,omitempty" validate:"omitnil,min=1,max=32"`
	Bio           *string `json:"bio,omitempty" validate:"omitnil,max=200"`
	CustomStatus  *string `json:"customStatus,omitempty" validate:"omitnil,max=100"`
	Pronouns      *string `json:"pronouns,omitempty" validate:"omitnil,max=32"`
	Location      *string `json:"location,omitempty" validate:"omitnil,max=64"`
	Website       *string `json:"website,omitempty" validate:"omitnil,max=200"`
	Birthday      *string `json:"birthday,omitempty" validate:"omitnil,max=32"`
	FavoriteColor *string `json:"favoriteColor,omitempty" validate:"omitnil,max=32"`
	Theme         *string `json:"theme,omitempty" validate:"omitnil,max=32"`
}

// ProfileStore keeps profiles keyed by connection id.
type ProfileStore struct {
	profiles map[string]*Profile
	validate *validator.Validate
}

// NewProfileStore returns an empty store.
func NewProfileStore() *ProfileStore {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return &ProfileStore{
		profiles: make(map[string]*Profile),
		validate: v,
	}
}

// Create stores a fresh profile for a newly registered connection.
func (s *ProfileStore) Create(c *Client, at time.Time) Profile {
	p := &Profile{
		ConnectionID: c.ID,
		DisplayName:  c.Name,
		Avatar:       c.Avatar,
		Badges:       badgesFor(c),
		JoinedAt:     at,
	}
	s.profiles[c.ID] = p
	return *p
}

// Get returns a copy of the profile for connectionID.
func (s *ProfileStore) Get(connectionID string) (Profile, error) {
	p, ok := s.profiles[connectionID]
	if !ok {
		return Profile{}, fmt.Errorf("get %q: %w", connectionID, ErrProfileNotFound)
	}
	return *p, nil
}

// Delete drops the profile. Deleting an absent profile is a no-op.
func (s *ProfileStore) Delete(connectionID string) {
	delete(s.profiles, connectionID)
}

// SetAvatar mirrors an avatar change onto the profile.
func (s *ProfileStore) SetAvatar(connectionID, avatar string) {
	if p, ok := s.profiles[connectionID]; ok {
		p.Avatar = avatar
	}
}

// Validate trims the patch in place and checks every present field. Any
// violation rejects the whole patch.
func (s *ProfileStore) Validate(patch *ProfilePatch) error {
	for _, f := range patch.fields() {
		if *f != nil {
			trimmed := strings.TrimSpace(**f)
			*f = &trimmed
		}
	}
	if err := s.validate.Struct(patch); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s", ErrInvalidProfile, describeViolation(verrs[0]))
		}
		return fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	return nil
}

// Apply writes a validated patch. It returns the updated profile.
func (s *ProfileStore) Apply(connectionID string, patch ProfilePatch) (Profile, error) {
	p, ok := s.profiles[connectionID]
	if !ok {
		return Profile{}, fmt.Errorf("apply %q: %w", connectionID, ErrProfileNotFound)
	}
	assign := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	assign(&p.DisplayName, patch.DisplayName)
	assign(&p.Bio, patch.Bio)
	assign(&p.CustomStatus, patch.CustomStatus)
	assign(&p.Pronouns, patch.Pronouns)
	assign(&p.Location, patch.Location)
	assign(&p.Website, patch.Website)
	assign(&p.Birthday, patch.Birthday)
	assign(&p.FavoriteColor, patch.FavoriteColor)
	assign(&p.Theme, patch.Theme)
	return *p, nil
}

// Len returns the number of stored profiles.
func (s *ProfileStore) Len() int {
	return len(s.profiles)
}

func (p *ProfilePatch) fields() []**string {
	return []**string{
		&p.DisplayName, &p.Bio, &p.CustomStatus, &p.Pronouns, &p.Location,
		&p.Website, &p.Birthday, &p.FavoriteColor, &p.Theme,
	}
}

func badgesFor(c *Client) []string {
	if c.Privileged {
		return []string{BadgeAdmin}
	}
	return nil
}

func describeViolation(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
