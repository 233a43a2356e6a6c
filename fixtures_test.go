package emulsion

// Shared records for tests. Values follow common catalog entries; the
// optimizer fixture is tuned so the HLD optimum is known in closed form.

func water() Component {
	return Component{ID: "water", HSP: HSP{15.5, 16.0, 42.1}, Density: 997, FlashPoint: 1000, Price: 0.01}
}

func testComponents() Components {
	return Components{
		Solvent: Component{
			ID: "methyl-soyate", HSP: HSP{16.1, 3.1, 3.7}, Density: 885, FlashPoint: 175, EACN: 1.4, Price: 1.60,
		},
		Cosolvent: Component{
			ID: "benzyl-alcohol", HSP: HSP{18.4, 6.3, 13.7}, Density: 1045, FlashPoint: 93, FHLD: -0.2, Price: 2.45,
		},
		Surfactant: Component{
			ID: "sles", HSP: HSP{17.5, 11.0, 9.5}, Density: 1050, FlashPoint: 200, CC: -2.0, Ionic: Anionic, Price: 3.85,
		},
		Cosurfactant: Component{
			ID: "butanol", HSP: HSP{16.0, 5.7, 15.8}, Density: 810, FlashPoint: 35, Price: 1.80,
		},
		Aqueous: water(),
	}
}

func testResin() Resin {
	return Resin{ID: "alkyd", HSP: HSP{18.5, 4.5, 5.1}, R0: 8.0}
}

// balancedFixture: solvent EACN equals the cosolvent contribution (10), so
// EACN_eff = 10 at every composition and
//
//	HLD = 0.13·S − 0.17·10 + 1.2 = 0.13·S − 0.5
//
// vanishes at S = 0.5/0.13. The resin radius is huge so RED barely moves the
// objective.
func balancedFixture() (Components, Resin) {
	c := Components{
		Solvent: Component{
			ID: "oil", HSP: HSP{16.2, 3.2, 3.8}, Density: 870, FlashPoint: 170, EACN: 10,
		},
		Cosolvent: Component{
			ID: "co", HSP: HSP{18.4, 6.3, 13.7}, Density: 1045, FlashPoint: 93, FHLD: 10,
		},
		Surfactant: Component{
			ID: "apg", HSP: HSP{18.0, 12.0, 15.0}, Density: 1100, FlashPoint: 200, CC: 1.2, Ionic: NonIonic,
		},
		Cosurfactant: Component{
			ID: "alc", HSP: HSP{16.0, 5.7, 15.8}, Density: 810, FlashPoint: 35,
		},
		Aqueous: water(),
	}
	return c, Resin{ID: "wide", HSP: HSP{18, 10, 10}, R0: 1e6}
}

const balancedSalinity = 0.5 / 0.13
