package core

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	minDisplayName = 2
	maxDisplayName = 32

	// PrivilegedName is the stored name of the privileged identity.
	PrivilegedName = "Admin"
)

// IdentityRegistry maps stored display names to live connections.
// At most one connection owns a name at any time.
type IdentityRegistry struct {
	byName map[string]*Client
}

// NewIdentityRegistry returns an empty registry.
func NewIdentityRegistry() *IdentityRegistry {
	return &IdentityRegistry{byName: make(map[string]*Client)}
}

// ResolveName applies the registration naming rules: the candidate is
// trimmed and length-checked, then replaced by PrivilegedName for the
// privileged identity. PrivilegedName itself is reserved for it.
func ResolveName(req RegistrationRequest) (string, error) {
	name := strings.TrimSpace(req.Name)
	if utf8.RuneCountInString(name) < minDisplayName {
		return "", fmt.Errorf("resolve %q: %w", req.Name, ErrInvalidName)
	}
	if req.Privileged {
		return PrivilegedName, nil
	}
	if name == PrivilegedName {
		return "", fmt.Errorf("resolve %q: %w", req.Name, ErrNameTaken)
	}
	if utf8.RuneCountInString(name) > maxDisplayName {
		return "", fmt.Errorf("resolve %q: %w", req.Name, ErrInvalidName)
	}
	return name, nil
}

// Register binds name to c. The match is exact on the stored value.
func (r *IdentityRegistry) Register(name string, c *Client) error {
	if _, taken := r.byName[name]; taken {
		return fmt.Errorf("register %q: %w", name, ErrNameTaken)
	}
	r.byName[name] = c
	return nil
}

// Unregister removes the name. Removing an absent name is a no-op.
func (r *IdentityRegistry) Unregister(name string) {
	delete(r.byName, name)
}

// Lookup returns the connection owning name.
func (r *IdentityRegistry) Lookup(name string) (*Client, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// Owns reports whether c currently owns its own stored name.
func (r *IdentityRegistry) Owns(c *Client) bool {
	if c == nil || !c.Registered() {
		return false
	}
	owner, ok := r.byName[c.Name]
	return ok && owner == c
}

// Rename repoints c from oldName to newName. A name owned by another
// connection, or PrivilegedName for an ordinary connection, is rejected and
// nothing changes.
func (r *IdentityRegistry) Rename(oldName, newName string, c *Client) error {
	if oldName == newName {
		return nil
	}
	if newName == PrivilegedName && !c.Privileged {
		return fmt.Errorf("rename %q to %q: %w", oldName, newName, ErrNameTaken)
	}
	if owner, taken := r.byName[newName]; taken && owner != c {
		return fmt.Errorf("rename %q to %q: %w", oldName, newName, ErrNameTaken)
	}
	if owner, ok := r.byName[oldName]; ok && owner == c {
		delete(r.byName, oldName)
	}
	r.byName[newName] = c
	return nil
}

// Len returns the number of registered names.
func (r *IdentityRegistry) Len() int {
	return len(r.byName)
}
