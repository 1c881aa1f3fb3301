package tensor

import (
	"math"
	"testing"
)

func TestComputeStrides(t *testing.T) {
	tests := []struct {
		shape Shape
		want  []int
	}{
		{Shape{5}, []int{1}},
		{Shape{3, 4}, []int{4, 1}},
		{Shape{2, 3, 4}, []int{12, 4, 1}},
		{Shape{2, 0, 4}, []int{0, 4, 1}},
	}
	for _, tt := range tests {
		got := tt.shape.ComputeStrides()
		if len(got) != len(tt.want) {
			t.Fatalf("ComputeStrides(%v) = %v, want %v", tt.shape, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ComputeStrides(%v) = %v, want %v", tt.shape, got, tt.want)
				break
			}
		}
	}
}

func TestShapeValidate(t *testing.T) {
	if err := (Shape{3, 0}).Validate(); err != nil {
		t.Errorf("zero extent should be valid: %v", err)
	}
	if err := (Shape{}).Validate(); err == nil {
		t.Error("rank 0 should be invalid")
	}
	if err := (Shape{2, -1}).Validate(); err == nil {
		t.Error("negative extent should be invalid")
	}
	if err := (Shape{math.MaxInt / 2, 4}).Validate(); err == nil {
		t.Error("overflowing element count should be invalid")
	}
	if err := (Shape{math.MaxInt, 0}).Validate(); err != nil {
		t.Errorf("zero extent with a large extent should be valid: %v", err)
	}
	if n := (Shape{2, 3, 4}).NumElements(); n != 24 {
		t.Errorf("NumElements = %d, want 24", n)
	}
	if c := Shape(nil).Clone(); c == nil || len(c) != 0 {
		t.Errorf("Clone(nil) = %#v, want empty non-nil", c)
	}
}

func TestCheckedArithmetic(t *testing.T) {
	tests := []struct {
		a, b int
		ok   bool
	}{
		{3, 4, true},
		{0, math.MaxInt, true},
		{-1, math.MinInt, false},
		{math.MaxInt / 2, 4, false},
		{math.MinInt / 2, 4, false},
	}
	for _, tt := range tests {
		if _, ok := mulInt(tt.a, tt.b); ok != tt.ok {
			t.Errorf("mulInt(%d, %d) ok = %v, want %v", tt.a, tt.b, ok, tt.ok)
		}
	}
	if _, ok := addInt(math.MaxInt, 1); ok {
		t.Error("addInt(MaxInt, 1) should overflow")
	}
	if _, ok := addInt(math.MinInt, -1); ok {
		t.Error("addInt(MinInt, -1) should overflow")
	}
	if c, ok := addInt(-5, 0); !ok || c != -5 {
		t.Errorf("addInt(-5, 0) = %d, %v", c, ok)
	}
}
