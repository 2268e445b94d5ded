// Package repo defines the repository identity shared by all of binge.
package repo

import (
	"fmt"
	"strings"
)

// Repo identifies a GitHub repository as owner/name, optionally carrying
// the name the installed executable should be renamed to. Identity is
// defined by Owner and Name only; Rename is metadata.
type Repo struct {
	Owner  string `json:"owner"`
	Name   string `json:"name"`
	Rename string `json:"rename,omitempty"`
}

// Parse parses a reference of the form "owner/name[:alias]".
func Parse(spec string) (Repo, error) {
	owner, rest, ok := strings.Cut(spec, "/")
	if !ok {
		return Repo{}, fmt.Errorf("invalid repository %q: expected owner/name", spec)
	}

	if strings.Contains(rest, "/") {
		return Repo{}, fmt.Errorf("invalid repository %q: more than one /", spec)
	}

	name, alias, hasAlias := strings.Cut(rest, ":")

	if owner == "" || name == "" {
		return Repo{}, fmt.Errorf("invalid repository %q: owner and name must not be empty", spec)
	}

	if hasAlias && (alias == "" || strings.Contains(alias, ":")) {
		return Repo{}, fmt.Errorf("invalid repository %q: expected a single :alias suffix", spec)
	}

	return Repo{Owner: owner, Name: name, Rename: alias}, nil
}

// String renders the identity as owner/name, without the alias.
func (r Repo) String() string {
	return r.Owner + "/" + r.Name
}

// Spec renders the full reference, including the alias when set, in the
// format accepted by Parse.
func (r Repo) Spec() string {
	if r.Rename == "" {
		return r.String()
	}
	return r.String() + ":" + r.Rename
}

// Equal reports whether both identities refer to the same repository,
// ignoring any alias.
func (r Repo) Equal(other Repo) bool {
	return r.Owner == other.Owner && r.Name == other.Name
}

// Compare orders identities by owner, then name.
func (r Repo) Compare(other Repo) int {
	if c := strings.Compare(r.Owner, other.Owner); c != 0 {
		return c
	}
	return strings.Compare(r.Name, other.Name)
}
