package profiles

import (
	"errors"
	"fmt"
	"sync"

	"github.com/smazurov/avconv/internal/encoders"
	"github.com/smazurov/avconv/internal/logging"
)

// Registry holds the current set of valid profiles. Readers see a
// consistent snapshot while Replace swaps in a new one.
type Registry struct {
	codecs *encoders.Registry

	mu       sync.RWMutex
	profiles map[string]Profile
}

// NewRegistry creates an empty registry validating against codecs.
func NewRegistry(codecs *encoders.Registry) *Registry {
	return &Registry{codecs: codecs, profiles: make(map[string]Profile)}
}

// Codecs returns the codec registry profiles are compiled against.
func (r *Registry) Codecs() *encoders.Registry {
	return r.codecs
}

// Replace validates profiles and swaps them in. Invalid profiles are left
// out and reported in the returned error; valid ones are still installed.
func (r *Registry) Replace(profiles map[string]Profile) error {
	logger := logging.GetLogger("profiles")

	next := make(map[string]Profile, len(profiles))
	var errs []error
	for name, p := range profiles {
		p.Name = name
		if err := p.Validate(r.codecs); err != nil {
			logger.Debug("Skipping invalid profile", "profile", name, "error", err)
			errs = append(errs, err)
			continue
		}
		next[name] = p
	}

	r.mu.Lock()
	r.profiles = next
	r.mu.Unlock()

	logger.Debug("Profiles loaded", "count", len(next), "skipped", len(errs))
	return errors.Join(errs...)
}

// Get returns the profile called name.
func (r *Registry) Get(name string) (Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	return p, nil
}

// List returns every profile sorted by name.
func (r *Registry) List() []Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedProfiles(r.profiles)
}

// Names returns the sorted profile names.
func (r *Registry) Names() []string {
	list := r.List()
	names := make([]string, len(list))
	for i, p := range list {
		names[i] = p.Name
	}
	return names
}
