package profiles

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gofrs/flock"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DefaultPath is used when no profiles file is configured.
const DefaultPath = "profiles.toml"

// Store persists profiles.
type Store interface {
	Load() error
	Save() error
	Get(name string) (Profile, bool)
	List() []Profile
	Put(p Profile) error
	Remove(name string) error
	Path() string
}

// file is the on-disk layout.
type file struct {
	Version  int                `toml:"version" yaml:"version"`
	Profiles map[string]Profile `toml:"profiles" yaml:"profiles"`
}

type format struct {
	marshal   func(any) ([]byte, error)
	unmarshal func([]byte, any) error
}

var (
	tomlFormat = format{marshal: toml.Marshal, unmarshal: toml.Unmarshal}
	yamlFormat = format{marshal: yaml.Marshal, unmarshal: yaml.Unmarshal}
)

// formatFor picks the encoding from the file extension. Anything that is not
// .yaml or .yml is TOML.
func formatFor(path string) format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yamlFormat
	default:
		return tomlFormat
	}
}

// fileStore implements Store on a TOML or YAML file. Reads and writes hold an
// advisory lock on a sibling .lock file so separate processes editing the
// same profiles do not interleave.
type fileStore struct {
	path   string
	format format
	lock   *flock.Flock
	data   *file
}

// NewStore creates a file-backed store. Nothing is read until Load.
func NewStore(path string) Store {
	if path == "" {
		path = DefaultPath
	}
	return &fileStore{
		path:   path,
		format: formatFor(path),
		lock:   flock.New(path + ".lock"),
		data:   emptyFile(),
	}
}

func emptyFile() *file {
	return &file{Version: 1, Profiles: make(map[string]Profile)}
}

// LoadFile reads the profiles of path, keyed by name. A missing file yields
// no profiles.
func LoadFile(path string) (map[string]Profile, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]Profile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles: %w", err)
	}
	return parse(formatFor(path), data)
}

func parse(f format, data []byte) (map[string]Profile, error) {
	doc := emptyFile()
	if err := f.unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to parse profiles: %w", err)
	}
	out := make(map[string]Profile, len(doc.Profiles))
	for name, p := range doc.Profiles {
		p.Name = name
		out[name] = p
	}
	return out, nil
}

// Path returns the backing file.
func (s *fileStore) Path() string {
	return s.path
}

// Load replaces the in-memory profiles with the file contents.
func (s *fileStore) Load() error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	if err := s.lock.RLock(); err != nil {
		return fmt.Errorf("failed to lock profiles: %w", err)
	}
	defer s.lock.Unlock()

	profiles, err := LoadFile(s.path)
	if err != nil {
		return err
	}
	s.data = &file{Version: 1, Profiles: profiles}
	return nil
}

// Save writes the profiles, creating the directory if needed. The file is
// replaced by rename so watchers never see a partial write.
func (s *fileStore) Save() error {
	if err := s.ensureDir(); err != nil {
		return err
	}

	data, err := s.format.marshal(s.data)
	if err != nil {
		return fmt.Errorf("failed to marshal profiles: %w", err)
	}

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock profiles: %w", err)
	}
	defer s.lock.Unlock()

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write profiles: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace profiles: %w", err)
	}
	return nil
}

func (s *fileStore) ensureDir() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create profiles directory: %w", err)
	}
	return nil
}

// Get returns the profile called name.
func (s *fileStore) Get(name string) (Profile, bool) {
	p, ok := s.data.Profiles[name]
	return p, ok
}

// List returns every profile sorted by name.
func (s *fileStore) List() []Profile {
	return sortedProfiles(s.data.Profiles)
}

// Put adds or replaces p and saves.
func (s *fileStore) Put(p Profile) error {
	s.data.Profiles[p.Name] = p
	return s.Save()
}

// Remove deletes the profile called name and saves.
func (s *fileStore) Remove(name string) error {
	if _, ok := s.data.Profiles[name]; !ok {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	delete(s.data.Profiles, name)
	return s.Save()
}

// Profiles returns the store contents keyed by name.
func Profiles(s Store) map[string]Profile {
	list := s.List()
	out := make(map[string]Profile, len(list))
	for _, p := range list {
		out[p.Name] = p
	}
	return out
}

func sortedProfiles(m map[string]Profile) []Profile {
	out := make([]Profile, 0, len(m))
	for _, p := range m {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
