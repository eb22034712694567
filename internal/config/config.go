package config

import (
	"slices"
	"strings"

	"github.com/joacominatel/snowclient"
)

// Config represents the application configuration.
type Config struct {
	Profiles    []Profile   `mapstructure:"profiles" yaml:"profiles"`
	Preferences Preferences `mapstructure:"preferences" yaml:"preferences"`
}

// Profile is a saved set of Snowflake connection settings.
type Profile struct {
	Name      string `mapstructure:"name" yaml:"name"`
	Account   string `mapstructure:"account" yaml:"account"`
	User      string `mapstructure:"user" yaml:"user"`
	Password  string `mapstructure:"password" yaml:"password,omitempty"`
	Warehouse string `mapstructure:"warehouse" yaml:"warehouse,omitempty"`
	Database  string `mapstructure:"database" yaml:"database,omitempty"`
	Schema    string `mapstructure:"schema" yaml:"schema,omitempty"`
	Role      string `mapstructure:"role" yaml:"role,omitempty"`
}

// Preferences holds user preferences.
type Preferences struct {
	DefaultProfile string `mapstructure:"default_profile" yaml:"default_profile"`
	Format         string `mapstructure:"format" yaml:"format"`
}

// ClientConfig converts the profile into client settings.
func (p Profile) ClientConfig() snowclient.Config {
	return snowclient.Config{
		Account:   p.Account,
		User:      p.User,
		Password:  p.Password,
		Warehouse: p.Warehouse,
		Database:  p.Database,
		Schema:    p.Schema,
		Role:      p.Role,
	}
}

// ProfileFromConfig captures client settings under name.
func ProfileFromConfig(name string, cfg snowclient.Config) Profile {
	return Profile{
		Name:      name,
		Account:   cfg.Account,
		User:      cfg.User,
		Password:  cfg.Password,
		Warehouse: cfg.Warehouse,
		Database:  cfg.Database,
		Schema:    cfg.Schema,
		Role:      cfg.Role,
	}
}

// DisplayString returns a human-readable summary of the profile.
func (p Profile) DisplayString() string {
	s := p.User + "@" + p.Account
	var path []string
	if p.Database != "" {
		path = append(path, p.Database)
		if p.Schema != "" {
			path = append(path, p.Schema)
		}
	}
	if len(path) > 0 {
		s += "/" + strings.Join(path, ".")
	}
	if p.Warehouse != "" {
		s += " [" + p.Warehouse + "]"
	}
	return s
}

// Profile looks up a profile by name.
func (cfg *Config) Profile(name string) (*Profile, bool) {
	for i := range cfg.Profiles {
		if cfg.Profiles[i].Name == name {
			return &cfg.Profiles[i], true
		}
	}
	return nil, false
}

// Upsert replaces the profile with the same name or appends p.
func (cfg *Config) Upsert(p Profile) {
	if existing, ok := cfg.Profile(p.Name); ok {
		*existing = p
		return
	}
	cfg.Profiles = append(cfg.Profiles, p)
}

// Remove deletes the named profile and reports whether it existed.
// The default profile preference is cleared when it pointed at name.
func (cfg *Config) Remove(name string) bool {
	n := len(cfg.Profiles)
	cfg.Profiles = slices.DeleteFunc(cfg.Profiles, func(p Profile) bool {
		return p.Name == name
	})
	if cfg.Preferences.DefaultProfile == name {
		cfg.Preferences.DefaultProfile = ""
	}
	return len(cfg.Profiles) != n
}

// DefaultProfile returns the preferred profile, or the first one.
func (cfg *Config) DefaultProfile() *Profile {
	if len(cfg.Profiles) == 0 {
		return nil
	}

	if cfg.Preferences.DefaultProfile != "" {
		if p, ok := cfg.Profile(cfg.Preferences.DefaultProfile); ok {
			return p
		}
	}

	return &cfg.Profiles[0]
}
