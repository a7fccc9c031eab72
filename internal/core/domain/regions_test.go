package domain

import (
	"reflect"
	"testing"
)

func TestToggleTag(t *testing.T) {
	original := []string{"a", "b"}

	added := ToggleTag(original, "c")
	if !reflect.DeepEqual(added, []string{"a", "b", "c"}) {
		t.Errorf("expected tag appended, got %v", added)
	}

	removed := ToggleTag(original, "a")
	if !reflect.DeepEqual(removed, []string{"b"}) {
		t.Errorf("expected tag removed, got %v", removed)
	}

	if !reflect.DeepEqual(original, []string{"a", "b"}) {
		t.Errorf("input was modified: %v", original)
	}
}

func TestAddAndRemoveTags(t *testing.T) {
	tags := []string{"a"}

	if got := AddIfMissing(tags, "a"); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("AddIfMissing duplicate = %v", got)
	}
	if got := AddAllIfMissing(tags, []string{"b", "a", "c"}); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("AddAllIfMissing = %v", got)
	}
	if got := RemoveIfContained([]string{"a", "b", "a"}, "a"); !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Errorf("RemoveIfContained = %v", got)
	}
	if got := RemoveIfContained(tags, "z"); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("RemoveIfContained missing = %v", got)
	}
}

func TestToggleAndUpdateRegions(t *testing.T) {
	r1 := Region{ID: "1", Tags: []string{"x"}}
	r2 := Region{ID: "2"}

	regions := ToggleRegion(nil, r1)
	regions = ToggleRegion(regions, r2)
	if len(regions) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(regions))
	}

	updated := UpdateRegions(regions, []Region{{ID: "1", Tags: []string{"y"}}})
	if updated[0].Tags[0] != "y" || regions[0].Tags[0] != "x" {
		t.Errorf("UpdateRegions should replace without mutating: %v / %v", updated, regions)
	}

	regions = ToggleRegion(regions, r1)
	if len(regions) != 1 || regions[0].ID != "2" {
		t.Errorf("expected region 1 removed, got %v", regions)
	}
}

func TestRegionBounds(t *testing.T) {
	fromPoints := Region{Points: []Point{{X: 5, Y: 1}, {X: 1, Y: 7}, {X: 3, Y: 3}}}
	if got := fromPoints.Bounds(); got != (BoundingBox{Left: 1, Top: 1, Width: 4, Height: 6}) {
		t.Errorf("Bounds() from points = %+v", got)
	}

	explicit := Region{BoundingBox: &BoundingBox{Left: 2, Top: 2, Width: 1, Height: 1}, Points: []Point{{X: 100, Y: 100}}}
	if got := explicit.Bounds(); got.Left != 2 || got.Width != 1 {
		t.Errorf("Bounds() should prefer the stored box, got %+v", got)
	}

	if got := (Region{}).Bounds(); got != (BoundingBox{}) {
		t.Errorf("Bounds() of empty region = %+v", got)
	}
}

func TestDuplicateRegionsAndMove(t *testing.T) {
	source := Region{
		ID:          "orig",
		Tags:        []string{"car"},
		BoundingBox: &BoundingBox{Left: 0, Top: 0, Width: 10, Height: 10},
		Points:      []Point{{X: 0, Y: 0}, {X: 10, Y: 10}},
	}
	// one region already sits at the first paste offset
	blocker := Region{ID: "blocker", BoundingBox: &BoundingBox{Left: 10, Top: 10, Width: 5, Height: 5}}

	dups := DuplicateRegionsAndMove([]Region{source}, []Region{source, blocker})
	if len(dups) != 1 {
		t.Fatalf("expected 1 duplicate, got %d", len(dups))
	}

	dup := dups[0]
	if dup.ID == "" || dup.ID == source.ID {
		t.Errorf("expected a fresh id, got %q", dup.ID)
	}
	if dup.BoundingBox.Left != 20 || dup.BoundingBox.Top != 20 {
		t.Errorf("expected copy moved to (20,20), got %+v", dup.BoundingBox)
	}
	if dup.Points[1] != (Point{X: 30, Y: 30}) {
		t.Errorf("expected points shifted, got %v", dup.Points)
	}
	if source.BoundingBox.Left != 0 || source.Points[0].X != 0 {
		t.Error("source region was modified")
	}
}

func TestAssetMetadata_TagSet(t *testing.T) {
	meta := AssetMetadata{Regions: []Region{
		{Tags: []string{"b", "a"}},
		{Tags: []string{"a", "c"}},
	}}
	if got := meta.TagSet(); !reflect.DeepEqual(got, []string{"b", "a", "c"}) {
		t.Errorf("TagSet() = %v", got)
	}
}
