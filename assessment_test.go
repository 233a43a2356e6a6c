package emulsion

import (
	"strings"
	"testing"
)

func TestAssess_Regimes(t *testing.T) {
	tests := []struct {
		name       string
		m          StabilityMetrics
		regime     Winsor
		stability  Rating
		solubility Rating
	}{
		{"Balanced and soluble", StabilityMetrics{RED: 0.4, HLD: 0.1}, WinsorIII, RatingHigh, RatingExcellent},
		{"Oil-in-water", StabilityMetrics{RED: 1.2, HLD: -0.8}, WinsorI, RatingMedium, RatingPartial},
		{"Water-in-oil", StabilityMetrics{RED: 2.0, HLD: 3.0}, WinsorII, RatingLow, RatingPoor},
		{"Band edge", StabilityMetrics{RED: 1.0, HLD: 0.5}, WinsorIII, RatingMedium, RatingPartial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Assess(tt.m, DefaultHLDBand)

			if a.Regime != tt.regime {
				t.Errorf("Expected %s, got %s", tt.regime, a.Regime)
			}
			if a.Stability != tt.stability {
				t.Errorf("Expected stability %s, got %s", tt.stability, a.Stability)
			}
			if a.Solubility != tt.solubility {
				t.Errorf("Expected solubility %s, got %s", tt.solubility, a.Solubility)
			}
			if !strings.Contains(a.Reason, string(tt.regime)) {
				t.Errorf("Reason should name the regime, got: %s", a.Reason)
			}
		})
	}
}

func TestAssess_DefaultBand(t *testing.T) {
	m := StabilityMetrics{RED: 0.9, HLD: 0.3}

	if Assess(m, 0) != Assess(m, DefaultHLDBand) {
		t.Error("Zero band should fall back to DefaultHLDBand")
	}

	a := Assess(m, 0.2)
	if a.Balanced {
		t.Error("HLD 0.3 is outside a 0.2 band")
	}
	if !a.Soluble {
		t.Error("RED 0.9 is inside the sphere")
	}
}
