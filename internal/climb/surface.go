package climb

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// SurfaceKind enumerates the climbable surface families.
type SurfaceKind uint8

const (
	SurfaceDefault SurfaceKind = iota
	SurfaceStone
	SurfaceWood
	SurfaceMetal
	SurfaceIce
	SurfaceRope
	SurfaceCustom
)

// SurfaceType is an immutable surface classification. The zero value is
// the default surface.
type SurfaceType struct {
	Kind  SurfaceKind
	speed float32 // only for SurfaceCustom
}

type surfaceTraits struct {
	name  string
	speed float32
	drain float32
}

// Indexed by SurfaceKind.
var surfaceTable = [...]surfaceTraits{
	SurfaceDefault: {"default", 1.0, 1.0},
	SurfaceStone:   {"stone", 0.9, 1.1},
	SurfaceWood:    {"wood", 1.0, 1.0},
	SurfaceMetal:   {"metal", 0.8, 1.2},
	SurfaceIce:     {"ice", 0.5, 1.5},
	SurfaceRope:    {"rope", 1.2, 0.8},
	SurfaceCustom:  {"custom", 1.0, 1.0},
}

// Predefined surfaces.
var (
	DefaultSurface = SurfaceType{Kind: SurfaceDefault}
	Stone          = SurfaceType{Kind: SurfaceStone}
	Wood           = SurfaceType{Kind: SurfaceWood}
	Metal          = SurfaceType{Kind: SurfaceMetal}
	Ice            = SurfaceType{Kind: SurfaceIce}
	Rope           = SurfaceType{Kind: SurfaceRope}
)

// Custom returns a surface with an explicit speed multiplier and the default
// drain multiplier.
func Custom(speed float32) SurfaceType {
	return SurfaceType{Kind: SurfaceCustom, speed: speed}
}

func (s SurfaceType) traits() surfaceTraits {
	if int(s.Kind) >= len(surfaceTable) {
		return surfaceTable[SurfaceDefault]
	}
	return surfaceTable[s.Kind]
}

// SpeedMultiplier scales climb, shimmy, vault and jump-off speeds.
func (s SurfaceType) SpeedMultiplier() float32 {
	if s.Kind == SurfaceCustom {
		return s.speed
	}
	return s.traits().speed
}

// DrainMultiplier scales per-second stamina drain while attached.
func (s SurfaceType) DrainMultiplier() float32 {
	return s.traits().drain
}

func (s SurfaceType) String() string {
	if s.Kind == SurfaceCustom {
		return fmt.Sprintf("custom(%g)", s.speed)
	}
	return s.traits().name
}

// surfaceAliases maps material/tag words to kinds. Ordered so fuzzy matching
// is deterministic.
var surfaceAliases = []struct {
	alias string
	kind  SurfaceKind
}{
	{"stone", SurfaceStone},
	{"rock", SurfaceStone},
	{"brick", SurfaceStone},
	{"concrete", SurfaceStone},
	{"granite", SurfaceStone},
	{"marble", SurfaceStone},
	{"wood", SurfaceWood},
	{"wooden", SurfaceWood},
	{"timber", SurfaceWood},
	{"plank", SurfaceWood},
	{"bark", SurfaceWood},
	{"oak", SurfaceWood},
	{"pine", SurfaceWood},
	{"metal", SurfaceMetal},
	{"steel", SurfaceMetal},
	{"iron", SurfaceMetal},
	{"pipe", SurfaceMetal},
	{"grate", SurfaceMetal},
	{"ice", SurfaceIce},
	{"icy", SurfaceIce},
	{"frozen", SurfaceIce},
	{"frost", SurfaceIce},
	{"rope", SurfaceRope},
	{"vine", SurfaceRope},
	{"net", SurfaceRope},
}

const customPrefix = "custom:"

// Fuzzy matching only pairs long words with long aliases.
const (
	fuzzyMinWord  = 6
	fuzzyMinAlias = 5
)

// Classify maps a collider material or tag to a surface. Tags are split into
// words ("Wall_Stone_01" is stone) and a plural "s" is ignored. "custom:<speed>"
// yields a custom surface. Words of six or more letters also match a long alias
// one edit away, so "concret" still reads as stone. Unknown tags are the
// default surface.
func Classify(material string) SurfaceType {
	if material == "" {
		return DefaultSurface
	}
	m := strings.ToLower(strings.TrimSpace(material))

	if rest, ok := strings.CutPrefix(m, customPrefix); ok {
		v, err := strconv.ParseFloat(strings.TrimSpace(rest), 32)
		if err == nil && v > 0 {
			return Custom(float32(v))
		}
		return DefaultSurface
	}

	words := strings.FieldsFunc(m, func(r rune) bool { return !unicode.IsLetter(r) })
	for _, w := range words {
		singular := w
		if len(w) > 3 {
			singular = strings.TrimSuffix(w, "s")
		}
		for _, a := range surfaceAliases {
			if w == a.alias || singular == a.alias {
				return SurfaceType{Kind: a.kind}
			}
		}
	}

	for _, w := range words {
		if len(w) < fuzzyMinWord {
			continue
		}
		for _, a := range surfaceAliases {
			if len(a.alias) < fuzzyMinAlias {
				continue
			}
			if levenshtein.ComputeDistance(w, a.alias) <= 1 {
				return SurfaceType{Kind: a.kind}
			}
		}
	}
	return DefaultSurface
}
