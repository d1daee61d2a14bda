package domain

import dErrors "datagov/pkg/domain-errors"

// DataRegion is the tenant-facing legal jurisdiction a tenant's data must
// respect. Invariant: the value is one of the supported regions; anything else
// in a tenant row is a data-integrity problem, not a user input error.
type DataRegion string

const (
	RegionEU DataRegion = "EU"
	RegionCH DataRegion = "CH"

	// FallbackRegion is the safe default when resolution cannot determine a
	// tenant's region.
	FallbackRegion = RegionEU
)

// validDataRegions is the single source of truth for supported regions.
var validDataRegions = map[DataRegion]bool{
	RegionEU: true,
	RegionCH: true,
}

// ParseDataRegion constructs a DataRegion from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
func ParseDataRegion(s string) (DataRegion, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "data region cannot be empty")
	}
	r := DataRegion(s)
	if !r.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unsupported data region: "+s)
	}
	return r, nil
}

// IsValid checks the region against the closed supported set.
func (r DataRegion) IsValid() bool {
	return validDataRegions[r]
}

func (r DataRegion) String() string {
	return string(r)
}

// DataRegions lists the supported regions in stable order.
func DataRegions() []DataRegion {
	return []DataRegion{RegionEU, RegionCH}
}
