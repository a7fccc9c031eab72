package domain

import "math"

// RegionType is the shape of a drawn region
type RegionType string

const (
	RegionRectangle RegionType = "RECTANGLE"
	RegionPolygon   RegionType = "POLYGON"
	RegionPoint     RegionType = "POINT"
	RegionPolyline  RegionType = "POLYLINE"
)

// Point is a 2D coordinate in asset pixel space
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BoundingBox is an axis-aligned box in asset pixel space
type BoundingBox struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Region is a drawn shape over an asset carrying zero or more tags
type Region struct {
	ID          string       `json:"id"`
	Type        RegionType   `json:"type"`
	Tags        []string     `json:"tags"`
	Points      []Point      `json:"points"`
	BoundingBox *BoundingBox `json:"boundingBox,omitempty"`
}

// AssetMetadata holds the regions drawn over one asset
type AssetMetadata struct {
	Asset   Asset    `json:"asset"`
	Regions []Region `json:"regions"`
	Version string   `json:"version"`
}

// HasTag reports whether the region carries the tag
func (r Region) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Bounds returns the region's bounding box. Regions saved without one
// (points only) get the min/max box of their points.
func (r Region) Bounds() BoundingBox {
	if r.BoundingBox != nil {
		return *r.BoundingBox
	}
	if len(r.Points) == 0 {
		return BoundingBox{}
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range r.Points {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}

	return BoundingBox{
		Left:   minX,
		Top:    minY,
		Width:  maxX - minX,
		Height: maxY - minY,
	}
}

// TagSet returns the distinct tags used by the regions, in first-seen order
func (m *AssetMetadata) TagSet() []string {
	if m == nil {
		return nil
	}
	seen := make(map[string]bool)
	var tags []string
	for _, r := range m.Regions {
		for _, t := range r.Tags {
			if !seen[t] {
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}
	return tags
}
