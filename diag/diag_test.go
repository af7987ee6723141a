package diag

import (
	"strings"
	"testing"

	"github.com/vela-lang/go-vela/source"
)

func TestBag_SortsBySourceOrder(t *testing.T) {
	bag := NewBag()
	bag.Errorf("pass: late", source.Pos(9, 1, 3), "late")
	bag.Warnf("pass: early", source.Pos(2, 4, 3), "early")
	bag.Errorf("pass: middle", source.Pos(5, 1, 3), "middle")

	all := bag.All()
	expected := []string{"pass: early", "pass: middle", "pass: late"}
	for i, code := range expected {
		if all[i].Code != code {
			t.Errorf("position %d: expected %s, got %s", i, code, all[i].Code)
		}
	}
}

func TestBag_StableAtSameSpan(t *testing.T) {
	span := source.Pos(3, 1, 5)
	bag := NewBag()
	bag.Errorf("pass: first", span, "first")
	bag.Errorf("pass: second", span, "second")

	all := bag.All()
	if all[0].Code != "pass: first" || all[1].Code != "pass: second" {
		t.Errorf("emission order not preserved at equal spans: %s, %s", all[0].Code, all[1].Code)
	}
}

func TestBag_SeveritySplit(t *testing.T) {
	bag := NewBag()
	if bag.HasErrors() {
		t.Error("empty bag reports errors")
	}

	bag.Warnf("pass: warn", source.Pos(1, 1, 1), "w")
	if bag.HasErrors() {
		t.Error("warnings alone must not count as errors")
	}

	bag.Errorf("pass: err", source.Pos(2, 1, 1), "e")
	if !bag.HasErrors() {
		t.Error("error not detected")
	}
	if len(bag.Errors()) != 1 || len(bag.Warnings()) != 1 || bag.Len() != 2 {
		t.Errorf("unexpected counts: errors=%d warnings=%d len=%d",
			len(bag.Errors()), len(bag.Warnings()), bag.Len())
	}
}

func TestDiagnostic_Chaining(t *testing.T) {
	bag := NewBag()
	prev := source.Pos(1, 1, 4)
	d := bag.Errorf("pass: dup", source.Pos(4, 1, 4), "duplicate %q", "x").
		WithSecondary(prev).
		WithHint("rename one of the declarations")

	if d.Message != `duplicate "x"` {
		t.Errorf("message: %q", d.Message)
	}
	if len(d.Secondary) != 1 || d.Secondary[0] != prev {
		t.Errorf("secondary spans: %v", d.Secondary)
	}
	if !strings.Contains(d.String(), "hint: rename") {
		t.Errorf("hint missing from rendering: %s", d.String())
	}
}
