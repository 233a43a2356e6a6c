package emulsion

import (
	"fmt"
	"math"
)

// HSP is a point in Hansen solubility space: δD (dispersion), δP (polar),
// δH (hydrogen bonding), all in MPa^0.5.
type HSP [3]float64

// D returns the dispersion coordinate.
func (h HSP) D() float64 { return h[0] }

// P returns the polar coordinate.
func (h HSP) P() float64 { return h[1] }

// H returns the hydrogen-bonding coordinate.
func (h HSP) H() float64 { return h[2] }

// Distance returns the Hansen interaction distance Ra between two points:
//
//	Ra = sqrt(4·ΔD² + ΔP² + ΔH²)
//
// The factor 4 on the dispersion axis is part of the solubility-sphere model.
func (h HSP) Distance(o HSP) float64 {
	dD := h[0] - o[0]
	dP := h[1] - o[1]
	dH := h[2] - o[2]
	return math.Sqrt(4*dD*dD + dP*dP + dH*dH)
}

func (h HSP) finite() bool {
	for _, v := range h {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Role is the phase a component plays in the formulation.
type Role int

const (
	RoleSolvent      Role = iota // Oil phase
	RoleCosolvent                // Leveling cosolvent
	RoleSurfactant               // Primary surfactant
	RoleCosurfactant             // Alcohol
	RoleAqueous                  // Water / brine
)

// Roles lists every phase role in phase order.
var Roles = [numPhases]Role{RoleSolvent, RoleCosolvent, RoleSurfactant, RoleCosurfactant, RoleAqueous}

func (r Role) String() string {
	switch r {
	case RoleSolvent:
		return "solvent"
	case RoleCosolvent:
		return "cosolvent"
	case RoleSurfactant:
		return "surfactant"
	case RoleCosurfactant:
		return "cosurfactant"
	case RoleAqueous:
		return "aqueous"
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// ParseRole maps a role name back to its Role.
func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if r.String() == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

// IonicType selects the salinity term of the HLD model.
type IonicType int

const (
	IonicUnknown IonicType = iota // Missing; rejected by the evaluator
	Anionic
	NonIonic
)

func (t IonicType) String() string {
	switch t {
	case Anionic:
		return "anionic"
	case NonIonic:
		return "nonionic"
	}
	return "unknown"
}

// ParseIonicType accepts "anionic"/"A" and "nonionic"/"non-ionic"/"NI".
func ParseIonicType(s string) (IonicType, error) {
	switch s {
	case "anionic", "A":
		return Anionic, nil
	case "nonionic", "non-ionic", "NI":
		return NonIonic, nil
	}
	return IonicUnknown, fmt.Errorf("unknown ionic type %q", s)
}

// Component is an immutable ingredient record.
//
// EACN is only meaningful for solvents, FHLD for cosolvents, CC and Ionic for
// surfactants. Unused optional fields are zero.
type Component struct {
	ID         string
	HSP        HSP
	Density    float64 // kg/m³
	FlashPoint float64 // °C; large sentinel (e.g. 1000) for non-flammable
	EACN       float64
	FHLD       float64
	CC         float64
	Ionic      IonicType
	Price      float64 // per kg
}

// Absent reports whether c is the zero record standing in for "no component".
func (c Component) Absent() bool {
	return c == Component{}
}

// MinPlausibleDensity rejects placeholder densities such as 1.0 kg/m³.
// The lightest liquid solvents sit around 600 kg/m³.
const MinPlausibleDensity = 100.0

// Validate checks the physical fields shared by every role.
func (c Component) Validate() error {
	name := c.ID
	if name == "" {
		name = "component"
	}
	if math.IsNaN(c.Density) || c.Density <= 0 {
		return componentError(name+".density", c.Density, "must be positive")
	}
	if c.Density < MinPlausibleDensity {
		return componentError(name+".density", c.Density,
			fmt.Sprintf("below plausible minimum %.0f kg/m³ (placeholder record?)", MinPlausibleDensity))
	}
	if math.IsNaN(c.FlashPoint) || math.IsInf(c.FlashPoint, 0) || c.FlashPoint <= 0 {
		return componentError(name+".flash_point", c.FlashPoint, "must be positive and finite for the log blend")
	}
	if !c.HSP.finite() {
		return componentError(name+".hsp", math.NaN(), "coordinates must be finite")
	}
	return nil
}

// Resin is a target polymer: the center and radius of its solubility sphere.
type Resin struct {
	ID  string
	HSP HSP
	R0  float64 // Interaction radius, > 0
}

// Validate checks the sphere is well formed.
func (r Resin) Validate() error {
	name := r.ID
	if name == "" {
		name = "resin"
	}
	if math.IsNaN(r.R0) || r.R0 <= 0 {
		return componentError(name+".r0", r.R0, "interaction radius must be positive")
	}
	if !r.HSP.finite() {
		return componentError(name+".hsp", math.NaN(), "coordinates must be finite")
	}
	return nil
}

// Components holds the resolved record for every phase role.
// Cosolvent may be Absent when the formulation carries no cosolvent.
type Components struct {
	Solvent      Component
	Cosolvent    Component
	Surfactant   Component
	Cosurfactant Component
	Aqueous      Component
}

// ByRole returns the record for a role.
func (c Components) ByRole(r Role) Component {
	switch r {
	case RoleSolvent:
		return c.Solvent
	case RoleCosolvent:
		return c.Cosolvent
	case RoleSurfactant:
		return c.Surfactant
	case RoleCosurfactant:
		return c.Cosurfactant
	default:
		return c.Aqueous
	}
}

func (c Components) ordered() [numPhases]Component {
	return [numPhases]Component{c.Solvent, c.Cosolvent, c.Surfactant, c.Cosurfactant, c.Aqueous}
}

// Validate checks every present record. Only the cosolvent may be absent.
func (c Components) Validate() error {
	for _, r := range Roles {
		comp := c.ByRole(r)
		if comp.Absent() {
			if r == RoleCosolvent {
				continue
			}
			return componentError(r.String(), math.NaN(), "record missing")
		}
		if err := comp.Validate(); err != nil {
			return fmt.Errorf("%s: %w", r, err)
		}
	}
	if c.Surfactant.Ionic == IonicUnknown {
		return stabilityError("surfactant.ionic_type", math.NaN(), "surfactant has no ionic type")
	}
	return nil
}
