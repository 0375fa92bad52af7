// Package props resolves run metadata properties with a three-tier fallback:
// a process-level override, then an environment variable, then an entry in a
// local parameter file. It exists only to tag debug output with run metadata,
// so every failure mode degrades to the empty string.
package props

import (
	"os"
	"strings"
)

// DefaultParamsFile is the fixed-name local parameter file consulted last.
// Its content is comma-separated "-Dkey=value" or "key=value" items.
const DefaultParamsFile = "run.params"

// ResolverConfig configures a Resolver. Zero values select the process
// environment and the default parameter file.
type ResolverConfig struct {
	// Overrides take precedence over every other tier.
	Overrides map[string]string

	// LookupEnv is a test hook; defaults to os.LookupEnv.
	LookupEnv func(key string) (string, bool)

	// ParamsFile overrides the parameter file path.
	ParamsFile string
}

// Resolver resolves named properties. The zero value is not usable; create
// with NewResolver.
type Resolver struct {
	overrides  map[string]string
	lookupEnv  func(string) (string, bool)
	paramsFile string
}

// NewResolver creates a resolver, applying defaults for unset fields.
func NewResolver(cfg ResolverConfig) *Resolver {
	if cfg.LookupEnv == nil {
		cfg.LookupEnv = os.LookupEnv
	}
	if cfg.ParamsFile == "" {
		cfg.ParamsFile = DefaultParamsFile
	}
	return &Resolver{
		overrides:  cfg.Overrides,
		lookupEnv:  cfg.LookupEnv,
		paramsFile: cfg.ParamsFile,
	}
}

// Get resolves key through override, environment and parameter file, in that
// order. It returns "" when no tier resolves or the file is unreadable.
func (r *Resolver) Get(key string) string {
	if v, ok := r.overrides[key]; ok {
		return v
	}
	if v, ok := r.lookupEnv(key); ok {
		return v
	}
	return r.fromParamsFile(key)
}

func (r *Resolver) fromParamsFile(key string) string {
	data, err := os.ReadFile(r.paramsFile)
	if err != nil {
		return ""
	}
	for _, item := range strings.Split(string(data), ",") {
		item = strings.TrimSpace(item)
		item = strings.TrimPrefix(item, "-D")
		k, v, ok := strings.Cut(item, "=")
		if !ok {
			continue
		}
		if strings.TrimSpace(k) == key {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
