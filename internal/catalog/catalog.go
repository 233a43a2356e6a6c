// Package catalog loads component and resin records into an immutable
// emulsion.Registry. A built-in catalog is embedded; user catalogs use the
// same TOML layout.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/alexshd/emulsion"
)

//go:embed components.toml
var builtinData []byte

// Record is one component entry in a catalog file.
type Record struct {
	// ID is the stable identifier used by selections and the CLI.
	ID string `toml:"id"`

	// Name is the display name. Defaults to ID.
	Name string `toml:"name,omitempty"`

	HSP        [3]float64 `toml:"hsp"`
	Density    float64    `toml:"density"`
	FlashPoint float64    `toml:"flash_point"`
	EACN       float64    `toml:"eacn,omitempty"`
	FHLD       float64    `toml:"f_hld,omitempty"`
	CC         float64    `toml:"cc,omitempty"`

	// Ionic is "anionic" or "nonionic"; surfactants only.
	Ionic string  `toml:"ionic,omitempty"`
	Price float64 `toml:"price,omitempty"`
}

// ResinRecord is one target resin entry.
type ResinRecord struct {
	ID   string     `toml:"id"`
	Name string     `toml:"name,omitempty"`
	HSP  [3]float64 `toml:"hsp"`
	R0   float64    `toml:"r0"`
}

// File is the on-disk layout: one array of tables per role.
type File struct {
	Solvents      []Record      `toml:"solvent"`
	Cosolvents    []Record      `toml:"cosolvent"`
	Surfactants   []Record      `toml:"surfactant"`
	Cosurfactants []Record      `toml:"cosurfactant"`
	Aqueous       []Record      `toml:"aqueous"`
	Resins        []ResinRecord `toml:"resin"`
}

func (f *File) byRole() map[emulsion.Role][]Record {
	return map[emulsion.Role][]Record{
		emulsion.RoleSolvent:      f.Solvents,
		emulsion.RoleCosolvent:    f.Cosolvents,
		emulsion.RoleSurfactant:   f.Surfactants,
		emulsion.RoleCosurfactant: f.Cosurfactants,
		emulsion.RoleAqueous:      f.Aqueous,
	}
}

// Catalog is a validated registry plus the display names of its records.
// Like the registry it wraps, it is read-only after Load.
type Catalog struct {
	*emulsion.Registry
	names map[string]string
}

func nameKey(kind, id string) string {
	return kind + "/" + id
}

// Name returns the display name of a component, or its ID when unnamed.
func (c *Catalog) Name(role emulsion.Role, id string) string {
	if n, ok := c.names[nameKey(role.String(), id)]; ok {
		return n
	}
	return id
}

// ResinName returns the display name of a resin, or its ID when unnamed.
func (c *Catalog) ResinName(id string) string {
	if n, ok := c.names[nameKey("resin", id)]; ok {
		return n
	}
	return id
}

var builtin = sync.OnceValues(func() (*Catalog, error) {
	c, err := Load(bytes.NewReader(builtinData))
	if err != nil {
		return nil, fmt.Errorf("built-in catalog: %w", err)
	}
	return c, nil
})

// Default returns the built-in catalog. It is parsed once and shared.
func Default() (*Catalog, error) {
	return builtin()
}

// LoadFile reads a catalog from a TOML file.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Load parses a catalog and validates every record. Unknown keys are
// rejected so a misspelled field cannot silently become zero.
func Load(r io.Reader) (*Catalog, error) {
	var file File
	md, err := toml.NewDecoder(r).Decode(&file)
	if err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("parsing catalog: unknown keys %s", strings.Join(keys, ", "))
	}
	return Build(&file)
}

// Build turns decoded records into a Catalog.
func Build(file *File) (*Catalog, error) {
	b := emulsion.NewRegistryBuilder()
	names := make(map[string]string)

	for role, records := range file.byRole() {
		for _, rec := range records {
			comp, err := rec.component(role)
			if err != nil {
				return nil, err
			}
			b.Add(role, comp)
			if rec.Name != "" {
				names[nameKey(role.String(), rec.ID)] = rec.Name
			}
		}
	}
	for _, rec := range file.Resins {
		b.AddResin(emulsion.Resin{ID: rec.ID, HSP: emulsion.HSP(rec.HSP), R0: rec.R0})
		if rec.Name != "" {
			names[nameKey("resin", rec.ID)] = rec.Name
		}
	}

	reg, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("validating catalog: %w", err)
	}
	return &Catalog{Registry: reg, names: names}, nil
}

func (rec Record) component(role emulsion.Role) (emulsion.Component, error) {
	c := emulsion.Component{
		ID:         rec.ID,
		HSP:        emulsion.HSP(rec.HSP),
		Density:    rec.Density,
		FlashPoint: rec.FlashPoint,
		EACN:       rec.EACN,
		FHLD:       rec.FHLD,
		CC:         rec.CC,
		Price:      rec.Price,
	}
	if rec.Ionic == "" {
		return c, nil
	}
	if role != emulsion.RoleSurfactant {
		return emulsion.Component{}, fmt.Errorf("%w: %s %q: ionic type is only valid for surfactants",
			emulsion.ErrInvalidComponentData, role, rec.ID)
	}
	t, err := emulsion.ParseIonicType(rec.Ionic)
	if err != nil {
		return emulsion.Component{}, fmt.Errorf("%w: %s %q: %v", emulsion.ErrInvalidComponentData, role, rec.ID, err)
	}
	c.Ionic = t
	return c, nil
}
