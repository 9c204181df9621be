package quads

import "testing"

func TestRectangleEmpty(t *testing.T) {
	if !(Rectangle[uint32]{}).Empty() {
		t.Error("zero rectangle should be empty")
	}
	if (Rectangle[uint32]{Width: 10, Height: 5}).Empty() {
		t.Error("10x5 rectangle should not be empty")
	}
	if !(Rectangle[float32]{Width: 10}).Empty() {
		t.Error("zero-height rectangle should be empty")
	}
	if !(Rectangle[int]{Width: -3, Height: 4}).Empty() {
		t.Error("negative-width rectangle should be empty")
	}
}
