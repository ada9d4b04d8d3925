package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	configDirName = "cdcadmin"
	profilesFile  = "profiles.yaml"
)

// ErrNoProfile is returned when no profile is selected or the named one is
// missing.
var ErrNoProfile = errors.New("no profile selected; run cdcctl login first")

// Profile is a saved backend endpoint and access token.
type Profile struct {
	Name   string `yaml:"-"`
	APIURL string `yaml:"api_url"`
	Token  string `yaml:"token,omitempty"`
	Email  string `yaml:"email,omitempty"`
}

// Profiles is the on-disk profiles file.
type Profiles struct {
	Active   string              `yaml:"active,omitempty"`
	Profiles map[string]*Profile `yaml:"profiles"`

	path string
}

// DefaultProfilesPath returns ~/.config/cdcadmin/profiles.yaml, honouring
// XDG_CONFIG_HOME.
func DefaultProfilesPath() (string, error) {
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home directory: %w", err)
		}
		xdgConfig = filepath.Join(home, ".config")
	}
	return filepath.Join(xdgConfig, configDirName, profilesFile), nil
}

// LoadProfiles reads the profiles file at path. A missing file yields an
// empty set.
func LoadProfiles(path string) (*Profiles, error) {
	p := &Profiles{Profiles: map[string]*Profile{}, path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return nil, fmt.Errorf("read profiles: %w", err)
	}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parse profiles %s: %w", path, err)
	}
	if p.Profiles == nil {
		p.Profiles = map[string]*Profile{}
	}
	for name, prof := range p.Profiles {
		prof.Name = name
	}
	return p, nil
}

// Save writes the file with owner-only permissions since it holds tokens.
func (p *Profiles) Save() error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profiles: %w", err)
	}
	if err := os.WriteFile(p.path, data, 0600); err != nil {
		return fmt.Errorf("write profiles: %w", err)
	}
	return nil
}

// Put stores prof under its sanitized name and returns that name.
func (p *Profiles) Put(prof Profile) string {
	name := sanitizeName(prof.Name)
	prof.Name = name
	prof.APIURL = strings.TrimRight(prof.APIURL, "/")
	p.Profiles[name] = &prof
	return name
}

// Get returns the named profile, or the active one when name is empty.
func (p *Profiles) Get(name string) (*Profile, error) {
	if name == "" {
		name = p.Active
	}
	if name == "" {
		return nil, ErrNoProfile
	}
	prof, ok := p.Profiles[name]
	if !ok {
		return nil, fmt.Errorf("profile %q not found", name)
	}
	return prof, nil
}

// SetActive selects an existing profile.
func (p *Profiles) SetActive(name string) error {
	if _, ok := p.Profiles[name]; !ok {
		return fmt.Errorf("profile %q not found", name)
	}
	p.Active = name
	return nil
}

// Delete removes a profile, clearing the selection if it was active.
func (p *Profiles) Delete(name string) error {
	if _, ok := p.Profiles[name]; !ok {
		return fmt.Errorf("profile %q not found", name)
	}
	delete(p.Profiles, name)
	if p.Active == name {
		p.Active = ""
	}
	return nil
}

// Names returns the profile names in order.
func (p *Profiles) Names() []string {
	names := make([]string, 0, len(p.Profiles))
	for name := range p.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sanitizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)
	name = strings.Trim(name, "-")
	if name == "" {
		return "default"
	}
	return name
}
