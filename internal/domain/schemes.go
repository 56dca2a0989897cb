package domain

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

var (
	negInf = math.Inf(-1)
	posInf = math.Inf(1)
)

// MagnitudeScheme buckets events by magnitude class.
var MagnitudeScheme = MustScheme("magnitude",
	Range{Label: "Micro", Lower: negInf, Upper: 2.0},
	Range{Label: "Menor", Lower: 2.0, Upper: 4.0},
	Range{Label: "Ligero", Lower: 4.0, Upper: 5.0},
	Range{Label: "Moderado", Lower: 5.0, Upper: 6.0},
	Range{Label: "Fuerte", Lower: 6.0, Upper: 7.0},
	Range{Label: "Mayor", Lower: 7.0, Upper: 8.0},
	Range{Label: "Gran terremoto", Lower: 8.0, Upper: posInf},
)

// DepthScheme buckets events by hypocentre depth in km.
var DepthScheme = MustScheme("depth",
	Range{Label: "Superficial", Lower: negInf, Upper: 70},
	Range{Label: "Intermedio", Lower: 70, Upper: 300},
	Range{Label: "Profundo", Lower: 300, Upper: posInf},
)

// MapColorScheme groups magnitudes into the three colour classes of the
// world map legend.
var MapColorScheme = MustScheme("map",
	Range{Label: "Magnitud < 5", Lower: negInf, Upper: 5},
	Range{Label: "Magnitud 5-7", Lower: 5, Upper: 7},
	Range{Label: "Magnitud ≥ 7", Lower: 7, Upper: posInf},
)

// Schemes is the set of classification tables used by the dashboards.
type Schemes struct {
	Magnitude Scheme
	Depth     Scheme
	MapColor  Scheme
}

// DefaultSchemes returns the built-in tables.
func DefaultSchemes() Schemes {
	return Schemes{
		Magnitude: MagnitudeScheme,
		Depth:     DepthScheme,
		MapColor:  MapColorScheme,
	}
}

// schemeFile is the YAML layout accepted by LoadSchemes:
//
//	magnitude:
//	  - label: Micro
//	    max: 2
//	  - label: Menor
//	    min: 2
//	    max: 4
//
// An omitted min or max is an open end.
type schemeFile struct {
	Magnitude []rangeSpec `yaml:"magnitude"`
	Depth     []rangeSpec `yaml:"depth"`
	MapColor  []rangeSpec `yaml:"map"`
}

type rangeSpec struct {
	Label string   `yaml:"label"`
	Min   *float64 `yaml:"min"`
	Max   *float64 `yaml:"max"`
}

// LoadSchemes parses scheme overrides from YAML. Tables missing from the
// document keep their defaults; every table present is validated.
func LoadSchemes(data []byte) (Schemes, error) {
	var file schemeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Schemes{}, fmt.Errorf("parse schemes: %w", err)
	}

	out := DefaultSchemes()
	var err error
	if out.Magnitude, err = overrideScheme(out.Magnitude, file.Magnitude); err != nil {
		return Schemes{}, err
	}
	if out.Depth, err = overrideScheme(out.Depth, file.Depth); err != nil {
		return Schemes{}, err
	}
	if out.MapColor, err = overrideScheme(out.MapColor, file.MapColor); err != nil {
		return Schemes{}, err
	}
	return out, nil
}

func overrideScheme(def Scheme, specs []rangeSpec) (Scheme, error) {
	if len(specs) == 0 {
		return def, nil
	}
	ranges := make([]Range, len(specs))
	for i, s := range specs {
		r := Range{Label: s.Label, Lower: negInf, Upper: posInf}
		if s.Min != nil {
			r.Lower = *s.Min
		}
		if s.Max != nil {
			r.Upper = *s.Max
		}
		ranges[i] = r
	}
	return NewScheme(def.Name, ranges...)
}
