package emulsion

import (
	"errors"
	"fmt"
	"sort"
)

// Registry is an immutable catalog of component and resin records keyed by
// stable identifier. Display names and translations live outside the engine.
//
// A Registry is safe for concurrent use: it is never written after Build.
type Registry struct {
	components map[Role]map[string]Component
	resins     map[string]Resin
}

// RegistryBuilder accumulates records for a Registry.
type RegistryBuilder struct {
	components map[Role]map[string]Component
	resins     map[string]Resin
	errs       []error
}

// NewRegistryBuilder creates an empty builder.
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{
		components: make(map[Role]map[string]Component),
		resins:     make(map[string]Resin),
	}
}

// Add registers a component under a role. Duplicate IDs within a role are
// reported by Build.
func (b *RegistryBuilder) Add(role Role, c Component) *RegistryBuilder {
	if c.ID == "" {
		b.errs = append(b.errs, fmt.Errorf("%s: component without id", role))
		return b
	}
	byID, ok := b.components[role]
	if !ok {
		byID = make(map[string]Component)
		b.components[role] = byID
	}
	if _, dup := byID[c.ID]; dup {
		b.errs = append(b.errs, fmt.Errorf("%s %q registered twice", role, c.ID))
		return b
	}
	byID[c.ID] = c
	return b
}

// AddResin registers a target resin.
func (b *RegistryBuilder) AddResin(r Resin) *RegistryBuilder {
	if r.ID == "" {
		b.errs = append(b.errs, errors.New("resin without id"))
		return b
	}
	if _, dup := b.resins[r.ID]; dup {
		b.errs = append(b.errs, fmt.Errorf("resin %q registered twice", r.ID))
		return b
	}
	b.resins[r.ID] = r
	return b
}

// Build validates every record and freezes the registry. Records that are
// physically implausible are rejected with ErrInvalidComponentData rather
// than silently kept.
func (b *RegistryBuilder) Build() (*Registry, error) {
	errs := append([]error(nil), b.errs...)

	reg := &Registry{
		components: make(map[Role]map[string]Component, len(b.components)),
		resins:     make(map[string]Resin, len(b.resins)),
	}

	for role, byID := range b.components {
		frozen := make(map[string]Component, len(byID))
		for id, c := range byID {
			if err := c.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("%s %q: %w", role, id, err))
				continue
			}
			if role == RoleSurfactant && c.Ionic == IonicUnknown {
				errs = append(errs, fmt.Errorf("surfactant %q: %w", id,
					stabilityError("ionic_type", 0, "surfactant has no ionic type")))
				continue
			}
			frozen[id] = c
		}
		reg.components[role] = frozen
	}

	for id, r := range b.resins {
		if err := r.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("resin %q: %w", id, err))
			continue
		}
		reg.resins[id] = r
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return reg, nil
}

// Component looks up a record by role and identifier.
func (r *Registry) Component(role Role, id string) (Component, error) {
	c, ok := r.components[role][id]
	if !ok {
		return Component{}, fmt.Errorf("%w: %s %q", ErrUnknownComponent, role, id)
	}
	return c, nil
}

// Resin looks up a target resin.
func (r *Registry) Resin(id string) (Resin, error) {
	res, ok := r.resins[id]
	if !ok {
		return Resin{}, fmt.Errorf("%w: resin %q", ErrUnknownComponent, id)
	}
	return res, nil
}

// IDs returns the sorted identifiers registered for a role.
func (r *Registry) IDs(role Role) []string {
	ids := make([]string, 0, len(r.components[role]))
	for id := range r.components[role] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ResinIDs returns the sorted resin identifiers.
func (r *Registry) ResinIDs() []string {
	ids := make([]string, 0, len(r.resins))
	for id := range r.resins {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Selection names one record per role. An empty Cosolvent means "none".
type Selection struct {
	Solvent      string
	Cosolvent    string
	Surfactant   string
	Cosurfactant string
	Aqueous      string
}

// Resolve looks up every selected record.
func (r *Registry) Resolve(sel Selection) (Components, error) {
	var (
		c    Components
		errs []error
	)
	lookup := func(role Role, id string, dst *Component) {
		comp, err := r.Component(role, id)
		if err != nil {
			errs = append(errs, err)
			return
		}
		*dst = comp
	}

	lookup(RoleSolvent, sel.Solvent, &c.Solvent)
	if sel.Cosolvent != "" {
		lookup(RoleCosolvent, sel.Cosolvent, &c.Cosolvent)
	}
	lookup(RoleSurfactant, sel.Surfactant, &c.Surfactant)
	lookup(RoleCosurfactant, sel.Cosurfactant, &c.Cosurfactant)
	lookup(RoleAqueous, sel.Aqueous, &c.Aqueous)

	if err := errors.Join(errs...); err != nil {
		return Components{}, err
	}
	return c, nil
}
