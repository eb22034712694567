package app

import (
	"fmt"

	"github.com/joacominatel/snowclient"
	"github.com/joacominatel/snowclient/internal/config"
)

// Sources are the layers a connection is assembled from, lowest first:
// the saved profile, the SNOWFLAKE_* environment, then explicit flags.
type Sources struct {
	Config  *config.Config
	Profile string
	Lookup  snowclient.LookupFunc
	Flags   snowclient.Config
}

// Resolve merges the sources and validates the result. An explicitly named
// profile must exist; otherwise the default profile, if any, is the base.
func Resolve(src Sources) (snowclient.Config, string, error) {
	var (
		base  snowclient.Config
		label string
	)

	p, err := pickProfile(src.Config, src.Profile)
	if err != nil {
		return snowclient.Config{}, "", &ErrConfig{Cause: err}
	}
	if p != nil {
		resolved, err := p.Resolve()
		if err != nil {
			return snowclient.Config{}, "", &ErrConfig{Cause: err}
		}
		base = resolved.ClientConfig()
		label = p.Name
	}

	cfg := base.
		Merge(snowclient.LoadEnvironment(src.Lookup)).
		Merge(src.Flags)
	if err := cfg.Validate(); err != nil {
		return snowclient.Config{}, "", &ErrConfig{Cause: err}
	}

	if label == "" {
		label = cfg.User + "@" + cfg.Account
	}
	return cfg, label, nil
}

func pickProfile(cfg *config.Config, name string) (*config.Profile, error) {
	if cfg == nil {
		if name != "" {
			return nil, fmt.Errorf("profile %q not found", name)
		}
		return nil, nil
	}
	if name == "" {
		return cfg.DefaultProfile(), nil
	}
	p, ok := cfg.Profile(name)
	if !ok {
		return nil, fmt.Errorf("profile %q not found", name)
	}
	return p, nil
}
