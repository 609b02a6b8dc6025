package depsolve

import (
	"io"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// Config is the solver's TOML-configurable policy surface: vendor
// equivalence classes, architecture scoring, and default flags — spec.md
// §6 "Configuration", grounded in the teacher's manifest/lock TOML
// encoding (toml.go) but scoped to solver policy instead of project
// dependency constraints.
type Config struct {
	VendorClasses map[string][]string `toml:"vendor-classes"`
	ArchScores    map[string]int      `toml:"arch-scores"`
	Flags         SolverFlags         `toml:"flags"`
}

// ReadConfig parses a Config from r, the same pelletier/go-toml
// decoding path the teacher's manifest reader uses.
func ReadConfig(r io.Reader) (*Config, error) {
	var cfg Config
	dec := toml.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "config: decoding toml")
	}
	return &cfg, nil
}

// Apply wires a parsed Config into pool and opts: interns the vendor
// classes, registers an arch scorer closure over ArchScores, and
// overlays Flags onto opts.
func (c *Config) Apply(pool *Pool, opts *Options) {
	classes := map[string]int{}
	for class, vendors := range c.VendorClasses {
		for i, v := range vendors {
			_ = i
			classes[v] = stableClassID(class)
		}
	}
	if len(classes) > 0 {
		pool.SetVendorClasses(classes)
	}

	if len(c.ArchScores) > 0 {
		scores := make(map[StringID]int, len(c.ArchScores))
		for arch, score := range c.ArchScores {
			scores[pool.InternString(arch)] = score
		}
		pool.SetArchPolicy(func(a StringID) (int, bool) {
			s, ok := scores[a]
			return s, ok
		})
	}

	opts.Flags = c.Flags
}

// stableClassID derives a small integer id for a vendor-class name so
// repeated Apply calls over the same config remain deterministic
// without needing a separate counter threaded through Config.
func stableClassID(name string) int {
	h := 0
	for _, r := range name {
		h = h*31 + int(r)
	}
	if h < 0 {
		h = -h
	}
	return h
}

// WriteConfig serializes cfg back to TOML, used by tests round-tripping
// a config fixture.
func WriteConfig(w io.Writer, cfg *Config) error {
	enc := toml.NewEncoder(w)
	if err := enc.Encode(cfg); err != nil {
		return errors.Wrap(err, "config: encoding toml")
	}
	return nil
}
