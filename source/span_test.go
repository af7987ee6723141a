package source

import "testing"

func TestBefore(t *testing.T) {
	tests := []struct {
		a, b Span
		want bool
	}{
		{Pos(1, 1, 3), Pos(2, 1, 3), true},
		{Pos(2, 1, 3), Pos(1, 1, 3), false},
		{Pos(3, 2, 1), Pos(3, 8, 1), true},
		{Pos(3, 8, 1), Pos(3, 8, 1), false},
	}
	for _, tt := range tests {
		if got := tt.a.Before(tt.b); got != tt.want {
			t.Errorf("%s.Before(%s) = %v, expected %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestIsZero(t *testing.T) {
	if !(Span{}).IsZero() {
		t.Error("zero span not detected")
	}
	if Pos(1, 1, 1).IsZero() {
		t.Error("non-zero span reported as zero")
	}
}

func TestString(t *testing.T) {
	if got := Pos(4, 7, 3).String(); got != "4:7-10" {
		t.Errorf("single-line span rendered as %q", got)
	}
	multi := NewSpan(Position{Line: 2, Column: 5}, Position{Line: 4, Column: 1})
	if got := multi.String(); got != "2:5-4:1" {
		t.Errorf("multi-line span rendered as %q", got)
	}
}
