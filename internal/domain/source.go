package domain

import (
	"encoding/json"
	"fmt"
)

// Source identifies an electricity generation source.
type Source int

const (
	Hydro Source = iota
	Nuclear
	Solar
	Wind

	numSources
)

// Sources lists every Source in canonical order.
var Sources = [numSources]Source{Hydro, Nuclear, Solar, Wind}

var sourceNames = [numSources]string{"hydro", "nuclear", "solar", "wind"}

func (s Source) String() string {
	if s < 0 || s >= numSources {
		return fmt.Sprintf("source(%d)", int(s))
	}
	return sourceNames[s]
}

// ParseSource maps a lower-case source name back to a Source.
func ParseSource(name string) (Source, error) {
	for i, n := range sourceNames {
		if n == name {
			return Source(i), nil
		}
	}
	return 0, fmt.Errorf("unknown energy source %q", name)
}

func (s Source) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// BySource holds one Value per Source, indexed by Source.
type BySource [numSources]Value
