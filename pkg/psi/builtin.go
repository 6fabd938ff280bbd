package psi

// MaxMagnitude is the PSI value above which a set is flagged as suspicious.
const MaxMagnitude = 5.0

// Built-in set ids.
const (
	NonThermalBridging = "(non thermal bridging)"
	PoorBETBG          = "poor (BETBG)"
	RegularBETBG       = "regular (BETBG)"
	EfficientBETBG     = "efficient (BETBG)"
	SpandrelBETBG      = "spandrel (BETBG)"
	CodeQuebec         = "code (Quebec)"
	UncompliantQuebec  = "uncompliant (Quebec)"

	// DefaultSet is used when no building default is configured.
	DefaultSet = PoorBETBG
)

func builtinSet(id string, rimjoist, parapet, fenestration, spandrel, corner, balcony, party, grade, joint float64) Set {
	return Set{
		ID: id,
		Values: map[Type]float64{
			RimJoist:     rimjoist,
			Parapet:      parapet,
			Roof:         parapet,
			Fenestration: fenestration,
			Door:         fenestration,
			Skylight:     fenestration,
			Spandrel:     spandrel,
			Corner:       corner,
			Balcony:      balcony,
			BalconySill:  balcony,
			Party:        party,
			Grade:        grade,
			Joint:        joint,
			Transition:   0,
		},
	}
}

// BuiltinSets returns fresh copies of the built-in PSI sets.
func BuiltinSets() []Set {
	return []Set{
		builtinSet(NonThermalBridging, 0, 0, 0, 0, 0, 0, 0, 0, 0),
		builtinSet(PoorBETBG, 1.000, 0.800, 0.500, 0.155, 0.850, 1.000, 0.850, 0.850, 0.300),
		builtinSet(RegularBETBG, 0.500, 0.450, 0.350, 0.155, 0.450, 0.500, 0.450, 0.450, 0.200),
		builtinSet(EfficientBETBG, 0.200, 0.200, 0.200, 0.155, 0.200, 0.200, 0.200, 0.200, 0.100),
		builtinSet(SpandrelBETBG, 0.615, 1.000, 0.000, 0.155, 0.425, 1.110, 0.990, 1.000, 0.000),
		builtinSet(CodeQuebec, 0.300, 0.325, 0.200, 0.155, 0.300, 0.500, 0.450, 0.450, 0.200),
		builtinSet(UncompliantQuebec, 0.850, 0.800, 0.500, 0.155, 0.850, 1.000, 0.850, 0.850, 0.500),
	}
}

// BuiltinPoints returns the built-in KHI entries.
func BuiltinPoints() []Point {
	return []Point{
		{ID: NonThermalBridging, Value: 0},
		{ID: PoorBETBG, Value: 0.900},
		{ID: RegularBETBG, Value: 0.500},
		{ID: EfficientBETBG, Value: 0.150},
		{ID: CodeQuebec, Value: 0.500},
		{ID: UncompliantQuebec, Value: 1.000},
	}
}

// IsBuiltin reports whether id names a built-in PSI set.
func IsBuiltin(id string) bool {
	for _, s := range BuiltinSets() {
		if s.ID == id {
			return true
		}
	}
	return false
}
