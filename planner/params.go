package planner

import (
	"encoding/json"
	"os"

	"spiralstc/geom"
)

// Params is the JSON-tagged tuning surface, modelled on
// banshee-data-velocity.report/internal/config's tuning structs but with
// plain value fields instead of optional pointers — a caller loads the
// file, gets spec-default values for anything the file omits, and only
// overrides what differs.
type Params struct {
	VehicleWidth         float64     `json:"vehicle_width"`
	DivisionFactor       int         `json:"division_factor"`
	ManoeuvreResolution  int         `json:"manoeuvre_resolution"`
	MaxOverlapTurn       int         `json:"max_overlap_turn"`
	MaxOverlapForward    int         `json:"max_overlap_forward"`
	RelocationMaxOverlap int         `json:"relocation_max_overlap"`
	ToolFootprint        geom.Polygon `json:"tool_footprint"`
}

// TileSize derives the coverage-grid cell side from VehicleWidth and
// DivisionFactor (spec §6).
func (p Params) TileSize() float64 { return p.VehicleWidth / float64(p.DivisionFactor) }

// DefaultParams returns the spec's §6 defaults, including the default tool
// footprint: a small rectangle offset ahead of the vehicle origin.
func DefaultParams() Params {
	return Params{
		VehicleWidth:         1.1,
		DivisionFactor:       3,
		ManoeuvreResolution:  100,
		MaxOverlapTurn:       0,
		MaxOverlapForward:    0,
		RelocationMaxOverlap: 0,
		ToolFootprint: geom.Polygon{
			{X: 0.2, Y: 0.4},
			{X: 0.545, Y: 0.4},
			{X: 0.545, Y: -0.4},
			{X: 0.2, Y: -0.4},
		},
	}
}

// LoadParams reads a JSON file and overlays it onto DefaultParams, so a
// config file only needs to mention the fields it wants to change.
func LoadParams(path string) (Params, error) {
	p := DefaultParams()
	data, err := os.ReadFile(path)
	if err != nil {
		return Params{}, err
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return Params{}, err
	}
	return p, nil
}
