package domain

import "github.com/google/uuid"

// PasteMargin is the offset applied to duplicated regions until they no
// longer sit on top of an existing region
const PasteMargin = 10

// ToggleTag adds tag if missing, removes it otherwise. The input slice is not modified.
func ToggleTag(tags []string, tag string) []string {
	for i, t := range tags {
		if t == tag {
			out := make([]string, 0, len(tags)-1)
			out = append(out, tags[:i]...)
			return append(out, tags[i+1:]...)
		}
	}
	out := make([]string, 0, len(tags)+1)
	out = append(out, tags...)
	return append(out, tag)
}

// AddIfMissing returns tags with tag appended when not already present
func AddIfMissing(tags []string, tag string) []string {
	out := append([]string{}, tags...)
	for _, t := range tags {
		if t == tag {
			return out
		}
	}
	return append(out, tag)
}

// AddAllIfMissing appends every tag of newTags not already in tags
func AddAllIfMissing(tags []string, newTags []string) []string {
	out := append([]string{}, tags...)
	for _, t := range newTags {
		out = AddIfMissing(out, t)
	}
	return out
}

// RemoveIfContained returns tags without the first occurrence of tag
func RemoveIfContained(tags []string, tag string) []string {
	for i, t := range tags {
		if t == tag {
			out := make([]string, 0, len(tags)-1)
			out = append(out, tags[:i]...)
			return append(out, tags[i+1:]...)
		}
	}
	return append([]string{}, tags...)
}

// ToggleRegion adds the region if no region with its id exists, removes it otherwise
func ToggleRegion(regions []Region, region Region) []Region {
	for i, r := range regions {
		if r.ID == region.ID {
			out := make([]Region, 0, len(regions)-1)
			out = append(out, regions[:i]...)
			return append(out, regions[i+1:]...)
		}
	}
	out := make([]Region, 0, len(regions)+1)
	out = append(out, regions...)
	return append(out, region)
}

// UpdateRegions replaces every region that has a counterpart with the same id in updates
func UpdateRegions(regions []Region, updates []Region) []Region {
	if regions == nil || len(updates) == 0 {
		return regions
	}

	byID := make(map[string]Region, len(updates))
	for _, u := range updates {
		byID[u.ID] = u
	}

	out := make([]Region, 0, len(regions))
	for _, r := range regions {
		if u, ok := byID[r.ID]; ok {
			out = append(out, u)
		} else {
			out = append(out, r)
		}
	}
	return out
}

// DuplicateRegionsAndMove copies regions with new ids, shifting each copy by
// PasteMargin steps until its top-left corner is free among others.
func DuplicateRegionsAndMove(regions []Region, others []Region) []Region {
	out := make([]Region, 0, len(regions))
	for _, r := range regions {
		box := r.Bounds()
		dx, dy := shiftCoordinates(box, others)

		dup := r
		dup.ID = uuid.NewString()
		dup.Tags = append([]string{}, r.Tags...)
		dup.BoundingBox = &BoundingBox{
			Left:   box.Left + dx,
			Top:    box.Top + dy,
			Width:  box.Width,
			Height: box.Height,
		}
		dup.Points = make([]Point, len(r.Points))
		for i, p := range r.Points {
			dup.Points[i] = Point{X: p.X + dx, Y: p.Y + dy}
		}
		out = append(out, dup)
	}
	return out
}

func shiftCoordinates(box BoundingBox, others []Region) (float64, float64) {
	x, y := box.Left, box.Top
	for occupied(x, y, others) {
		x += PasteMargin
		y += PasteMargin
	}
	return x - box.Left, y - box.Top
}

func occupied(x, y float64, others []Region) bool {
	for _, o := range others {
		b := o.Bounds()
		if b.Left == x && b.Top == y {
			return true
		}
	}
	return false
}
