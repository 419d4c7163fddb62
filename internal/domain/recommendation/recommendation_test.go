package recommendation

import "testing"

func TestPathFor(t *testing.T) {
	if PathFor(false) != Primary {
		t.Errorf("PathFor(false) = %q", PathFor(false))
	}
	if PathFor(true) != Fallback {
		t.Errorf("PathFor(true) = %q", PathFor(true))
	}
}

func TestPath_IsValid(t *testing.T) {
	for _, p := range []Path{Primary, Fallback} {
		if !p.IsValid() {
			t.Errorf("%q should be valid", p)
		}
	}
	if Path("popular").IsValid() {
		t.Error("unknown path reported valid")
	}
}

func TestIDs(t *testing.T) {
	got := IDs([]Recommendation{{ID: "b"}, {ID: "a"}})
	if len(got) != 2 || got[0] != "b" || got[1] != "a" {
		t.Errorf("IDs() = %v", got)
	}
	if len(IDs(nil)) != 0 {
		t.Error("IDs(nil) should be empty")
	}
}
