package preview

import "testing"

func TestFitWidth(t *testing.T) {
	tests := []struct {
		name   string
		layout Layout
		want   int
		ok     bool
	}{
		{name: "regular", layout: Layout{ContainerWidth: 600}, want: 447, ok: true},
		{name: "regular repeat row", layout: Layout{ContainerWidth: 600, InRepeatRow: true}, want: 341, ok: true},
		{name: "small", layout: Layout{ContainerWidth: 400}, want: 295, ok: true},
		{name: "small repeat row", layout: Layout{ContainerWidth: 400, InRepeatRow: true}, want: 295, ok: true},
		{name: "smallest", layout: Layout{ContainerWidth: 300}, want: 270, ok: true},
		{name: "side", layout: Layout{ContainerWidth: 500, Side: true}, want: 470, ok: true},
		{name: "too wide", layout: Layout{ContainerWidth: 900}, ok: false},
		{name: "side too wide", layout: Layout{ContainerWidth: 800, Side: true}, ok: false},
		{name: "unknown", layout: Layout{}, ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FitWidth(tt.layout)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("FitWidth(%+v) = (%d, %v), want (%d, %v)", tt.layout, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestFitSizeKeepsAspectRatio(t *testing.T) {
	w, h, ok := FitSize(Layout{ContainerWidth: 600}, 640, 360)
	if !ok || w != 447 || h != 251 {
		t.Fatalf("unexpected size %dx%d (%v)", w, h, ok)
	}
	w, h, ok = FitSize(Layout{ContainerWidth: 900}, 640, 360)
	if ok || w != 640 || h != 360 {
		t.Fatalf("expected natural size, got %dx%d (%v)", w, h, ok)
	}
}
