package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexshd/emulsion"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Len(t, c.IDs(emulsion.RoleSolvent), 6)
	assert.Len(t, c.IDs(emulsion.RoleCosolvent), 6)
	assert.Len(t, c.IDs(emulsion.RoleSurfactant), 5)
	assert.Len(t, c.IDs(emulsion.RoleCosurfactant), 3)
	assert.Equal(t, []string{"water"}, c.IDs(emulsion.RoleAqueous))
	assert.Len(t, c.ResinIDs(), 8)

	// Placeholder and out-of-domain records are not shipped
	assert.NotContains(t, c.IDs(emulsion.RoleCosolvent), "none")
	assert.NotContains(t, c.IDs(emulsion.RoleCosolvent), "acetone")

	again, err := Default()
	require.NoError(t, err)
	assert.Same(t, c, again, "built-in catalog should be parsed once")
}

func TestDefault_Records(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	water, err := c.Component(emulsion.RoleAqueous, "water")
	require.NoError(t, err)

	want := emulsion.Component{
		ID:         "water",
		HSP:        emulsion.HSP{15.5, 16.0, 42.1},
		Density:    997,
		FlashPoint: 1000,
		Price:      0.01,
	}
	if diff := cmp.Diff(want, water); diff != "" {
		t.Errorf("water record mismatch (-want +got):\n%s", diff)
	}

	sles, err := c.Component(emulsion.RoleSurfactant, "sles")
	require.NoError(t, err)
	assert.Equal(t, emulsion.Anionic, sles.Ionic)
	assert.Equal(t, -2.0, sles.CC)

	apg, err := c.Component(emulsion.RoleSurfactant, "apg")
	require.NoError(t, err)
	assert.Equal(t, emulsion.NonIonic, apg.Ionic)

	alkyd, err := c.Resin("alkyd")
	require.NoError(t, err)
	assert.Equal(t, 8.0, alkyd.R0)

	assert.Equal(t, "Benzyl Alcohol", c.Name(emulsion.RoleCosolvent, "benzyl-alcohol"))
	assert.Equal(t, "Alkydic", c.ResinName("alkyd"))
	assert.Equal(t, "unknown-id", c.Name(emulsion.RoleSolvent, "unknown-id"))
}

func TestDefault_EveryPairAnalyzes(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	f, err := emulsion.FromOrganic(25, 5, 12, 8, 0.5, emulsion.DefaultCompositionRules())
	require.NoError(t, err)

	for _, sol := range c.IDs(emulsion.RoleSolvent) {
		for _, sur := range c.IDs(emulsion.RoleSurfactant) {
			comps, err := c.Resolve(emulsion.Selection{
				Solvent:      sol,
				Cosolvent:    "benzyl-alcohol",
				Surfactant:   sur,
				Cosurfactant: "butanol",
				Aqueous:      "water",
			})
			require.NoError(t, err)

			for _, resin := range c.ResinIDs() {
				r, err := c.Resin(resin)
				require.NoError(t, err)

				a, err := emulsion.Analyze(f, comps, r)
				require.NoError(t, err, "%s/%s/%s", sol, sur, resin)
				assert.Greater(t, a.Properties.Density, 0.0)
				assert.GreaterOrEqual(t, a.Metrics.RED, 0.0)
			}
		}
	}
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
		msg     string
	}{
		{
			name: "placeholder density",
			doc: `[[cosolvent]]
id = "none"
hsp = [0, 0, 0]
density = 1.0
flash_point = 200`,
			wantErr: emulsion.ErrInvalidComponentData,
		},
		{
			name: "negative flash point",
			doc: `[[cosolvent]]
id = "acetone"
hsp = [15.5, 10.4, 7.0]
density = 784
flash_point = -20`,
			wantErr: emulsion.ErrInvalidComponentData,
		},
		{
			name: "surfactant without class",
			doc: `[[surfactant]]
id = "mystery"
hsp = [17, 8, 12]
density = 1000
flash_point = 150`,
			wantErr: emulsion.ErrInvalidStabilityInput,
		},
		{
			name: "bad class",
			doc: `[[surfactant]]
id = "cationic"
hsp = [17, 8, 12]
density = 1000
flash_point = 150
ionic = "cationic"`,
			wantErr: emulsion.ErrInvalidComponentData,
		},
		{
			name: "class on a solvent",
			doc: `[[solvent]]
id = "oil"
hsp = [16, 3, 4]
density = 880
flash_point = 170
ionic = "anionic"`,
			wantErr: emulsion.ErrInvalidComponentData,
		},
		{
			name: "misspelled key",
			doc: `[[solvent]]
id = "oil"
hsp = [16, 3, 4]
densty = 880
flash_point = 170`,
			msg: "unknown keys",
		},
		{
			name: "zero radius",
			doc: `[[resin]]
id = "flat"
hsp = [18, 4, 5]
r0 = 0`,
			wantErr: emulsion.ErrInvalidComponentData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			}
			if tt.msg != "" {
				assert.Contains(t, err.Error(), tt.msg)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lab.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[[solvent]]
id = "d-limonene"
hsp = [17.2, 1.8, 4.3]
density = 841
flash_point = 48
eacn = 6.5

[[resin]]
id = "rosin"
hsp = [17.5, 5.0, 7.0]
r0 = 8.0
`), 0o644))

	c, err := LoadFile(path)
	require.NoError(t, err)

	lim, err := c.Component(emulsion.RoleSolvent, "d-limonene")
	require.NoError(t, err)
	assert.Equal(t, 6.5, lim.EACN)
	assert.Equal(t, "d-limonene", c.Name(emulsion.RoleSolvent, "d-limonene"))

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
