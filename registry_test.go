package emulsion

import (
	"errors"
	"slices"
	"testing"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()

	c := testComponents()
	reg, err := NewRegistryBuilder().
		Add(RoleSolvent, c.Solvent).
		Add(RoleCosolvent, c.Cosolvent).
		Add(RoleSurfactant, c.Surfactant).
		Add(RoleCosurfactant, c.Cosurfactant).
		Add(RoleAqueous, c.Aqueous).
		AddResin(testResin()).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return reg
}

func TestRegistry_Resolve(t *testing.T) {
	reg := testRegistry(t)
	want := testComponents()

	got, err := reg.Resolve(Selection{
		Solvent:      "methyl-soyate",
		Cosolvent:    "benzyl-alcohol",
		Surfactant:   "sles",
		Cosurfactant: "butanol",
		Aqueous:      "water",
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != want {
		t.Errorf("Resolve = %+v, want %+v", got, want)
	}
}

func TestRegistry_NoCosolvent(t *testing.T) {
	reg := testRegistry(t)

	got, err := reg.Resolve(Selection{
		Solvent:      "methyl-soyate",
		Surfactant:   "sles",
		Cosurfactant: "butanol",
		Aqueous:      "water",
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !got.Cosolvent.Absent() {
		t.Errorf("Expected absent cosolvent, got %+v", got.Cosolvent)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("Components without cosolvent should validate, got %v", err)
	}
}

func TestRegistry_UnknownID(t *testing.T) {
	reg := testRegistry(t)

	_, err := reg.Component(RoleSolvent, "d-limonene")
	if !errors.Is(err, ErrUnknownComponent) {
		t.Errorf("Expected ErrUnknownComponent, got %v", err)
	}

	// Right ID, wrong role
	_, err = reg.Component(RoleCosolvent, "methyl-soyate")
	if !errors.Is(err, ErrUnknownComponent) {
		t.Errorf("Expected ErrUnknownComponent, got %v", err)
	}

	_, err = reg.Resin("epoxy")
	if !errors.Is(err, ErrUnknownComponent) {
		t.Errorf("Expected ErrUnknownComponent, got %v", err)
	}
}

func TestRegistry_IDs(t *testing.T) {
	c := testComponents()
	extra := c.Solvent
	extra.ID = "d-limonene"

	reg, err := NewRegistryBuilder().
		Add(RoleSolvent, c.Solvent).
		Add(RoleSolvent, extra).
		AddResin(testResin()).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if got := reg.IDs(RoleSolvent); !slices.Equal(got, []string{"d-limonene", "methyl-soyate"}) {
		t.Errorf("Expected sorted solvent IDs, got %v", got)
	}
	if got := reg.IDs(RoleAqueous); len(got) != 0 {
		t.Errorf("Expected no aqueous IDs, got %v", got)
	}
	if got := reg.ResinIDs(); !slices.Equal(got, []string{"alkyd"}) {
		t.Errorf("Expected [alkyd], got %v", got)
	}
}

func TestRegistryBuilder_RejectsBadRecords(t *testing.T) {
	c := testComponents()
	placeholder := Component{ID: "none", Density: 1.0, FlashPoint: 1000}
	noClass := c.Surfactant
	noClass.Ionic = IonicUnknown

	_, err := NewRegistryBuilder().
		Add(RoleSolvent, c.Solvent).
		Add(RoleSolvent, c.Solvent).
		Add(RoleCosolvent, placeholder).
		Add(RoleSurfactant, noClass).
		AddResin(Resin{ID: "flat", R0: 0}).
		Build()
	if err == nil {
		t.Fatal("Expected Build to fail")
	}

	for _, kind := range []error{ErrInvalidComponentData, ErrInvalidStabilityInput} {
		if !errors.Is(err, kind) {
			t.Errorf("Expected joined error to contain %v, got %v", kind, err)
		}
	}
}
