package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestResolveName(t *testing.T) {
	name, err := ResolveName(RegistrationRequest{Name: "  alice  "})
	require.NoError(t, err)
	assert.Equal(t, "alice", name)

	_, err = ResolveName(RegistrationRequest{Name: " a "})
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = ResolveName(RegistrationRequest{Name: strings.Repeat("x", 33)})
	assert.ErrorIs(t, err, ErrInvalidName)

	name, err = ResolveName(RegistrationRequest{Name: strings.Repeat("s", 64), Privileged: true})
	require.NoError(t, err)
	assert.Equal(t, PrivilegedName, name)

	_, err = ResolveName(RegistrationRequest{Name: " " + PrivilegedName + " "})
	assert.ErrorIs(t, err, ErrNameTaken)
}

func TestIdentityRegistryReservesPrivilegedName(t *testing.T) {
	r := NewIdentityRegistry()
	mallory := &Client{ID: "m", Name: "mallory"}
	require.NoError(t, r.Register("mallory", mallory))

	assert.ErrorIs(t, r.Rename("mallory", PrivilegedName, mallory), ErrNameTaken)
	_, ok := r.Lookup(PrivilegedName)
	assert.False(t, ok)
	owner, _ := r.Lookup("mallory")
	assert.Same(t, mallory, owner)

	admin := &Client{ID: "a", Name: "root", Privileged: true}
	require.NoError(t, r.Register("root", admin))
	require.NoError(t, r.Rename("root", PrivilegedName, admin))
}

func TestIdentityRegistryRename(t *testing.T) {
	r := NewIdentityRegistry()
	alice := &Client{ID: "a", Name: "alice"}
	bob := &Client{ID: "b", Name: "bob"}
	require.NoError(t, r.Register("alice", alice))
	require.NoError(t, r.Register("bob", bob))

	assert.ErrorIs(t, r.Rename("alice", "bob", alice), ErrNameTaken)
	owner, _ := r.Lookup("bob")
	assert.Same(t, bob, owner)

	require.NoError(t, r.Rename("alice", "alicia", alice))
	_, ok := r.Lookup("alice")
	assert.False(t, ok)
	owner, _ = r.Lookup("alicia")
	assert.Same(t, alice, owner)
	assert.Equal(t, 2, r.Len())
}

// Random register/unregister sequences never leave two live clients owning
// the same name.
func TestIdentityRegistryUniqueness(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := NewIdentityRegistry()
		owners := map[string]*Client{}
		names := rapid.SampledFrom([]string{"alice", "bob", "carol", "dave"})

		steps := rapid.IntRange(1, 60).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			name := names.Draw(t, "name")
			if rapid.Bool().Draw(t, "register") {
				c := &Client{ID: name + "-conn", Name: name}
				err := r.Register(name, c)
				if _, taken := owners[name]; taken {
					if err == nil {
						t.Fatalf("%q registered twice", name)
					}
					continue
				}
				if err != nil {
					t.Fatalf("register %q: %v", name, err)
				}
				owners[name] = c
			} else {
				r.Unregister(name)
				delete(owners, name)
			}
			if r.Len() != len(owners) {
				t.Fatalf("registry size %d, model %d", r.Len(), len(owners))
			}
		}
	})
}
