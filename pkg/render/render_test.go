package render

import (
	"bytes"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/decker502/pvzcore/pkg/game"
	"github.com/decker502/pvzcore/pkg/session"
	"github.com/decker502/pvzcore/pkg/types"
)

func TestLayoutSize(t *testing.T) {
	l := DefaultLayout()
	if l.Width() != 720 || l.Height() != 548 {
		t.Errorf("size = %dx%d, want 720x548", l.Width(), l.Height())
	}

	half := Layout{Scale: 0.5, HUDHeight: 20}
	if half.Width() != 360 || half.Height() != 270 {
		t.Errorf("half size = %dx%d, want 360x270", half.Width(), half.Height())
	}
}

func TestCellAt(t *testing.T) {
	l := DefaultLayout()
	tests := []struct {
		name    string
		x, y    float64
		row     int
		col     int
		wantHit bool
	}{
		{"first cell", 1, 49, 0, 0, true},
		{"center", 360 + 40, 48 + 250, 2, 5, true},
		{"last cell", 719, 547, 4, 8, true},
		{"hud", 100, 10, 0, 0, false},
		{"right of lawn", 721, 100, 0, 0, false},
		{"below lawn", 100, 549, 0, 0, false},
		{"negative", -1, 100, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, col, ok := l.CellAt(tt.x, tt.y)
			if ok != tt.wantHit {
				t.Fatalf("CellAt(%v, %v) ok = %v, want %v", tt.x, tt.y, ok, tt.wantHit)
			}
			if ok && (row != tt.row || col != tt.col) {
				t.Errorf("CellAt(%v, %v) = (%d, %d), want (%d, %d)", tt.x, tt.y, row, col, tt.row, tt.col)
			}
		})
	}
}

func TestSunAt(t *testing.T) {
	l := DefaultLayout()
	snap := &session.Snapshot{Suns: []session.SunView{{ID: 7, Row: 1, Col: 2, Amount: 25}}}

	// 格子 (1, 2) 中心：x = 200, y = 48 + 150
	if sun, ok := l.SunAt(snap, 205, 195); !ok || sun.ID != 7 {
		t.Errorf("SunAt center = %+v, %v", sun, ok)
	}
	if _, ok := l.SunAt(snap, 240, 198); ok {
		t.Error("point outside the sun radius should miss")
	}
}

func TestFrameDrawsPlants(t *testing.T) {
	l := DefaultLayout()
	snap := &session.Snapshot{
		State: types.SessionRunning,
		Plants: []session.PlantView{
			{Type: types.PlantWallnut, Row: 0, Col: 0, Health: 4000, MaxHealth: 4000},
		},
		Zombies: []session.ZombieView{
			{Type: types.ZombieBasic, Row: 3, X: 500, Health: 200, MaxHealth: 200},
		},
	}

	img := Frame(snap, l)
	if b := img.Bounds(); b.Dx() != l.Width() || b.Dy() != l.Height() {
		t.Fatalf("bounds = %v", b)
	}

	// 植物矩形内（避开中间的字母）取一个像素
	r := l.PlantRect(snap.Plants[0])
	got := color.RGBAModel.Convert(img.At(int(r.X+6), int(r.Y+r.H-6))).(color.RGBA)
	if got != PlantColor(types.PlantWallnut) {
		t.Errorf("plant pixel = %v, want %v", got, PlantColor(types.PlantWallnut))
	}

	zr := l.ZombieRect(snap.Zombies[0])
	got = color.RGBAModel.Convert(img.At(int(zr.X+zr.W/2), int(zr.Y+zr.H/2))).(color.RGBA)
	if got != ZombieColor(types.ZombieBasic) {
		t.Errorf("zombie pixel = %v, want %v", got, ZombieColor(types.ZombieBasic))
	}
}

func TestEncodePNG(t *testing.T) {
	var buf bytes.Buffer
	snap := &session.Snapshot{State: types.SessionIdle}
	if err := EncodePNG(&buf, snap, DefaultLayout()); err != nil {
		t.Fatalf("EncodePNG error = %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 720 {
		t.Errorf("width = %d, want 720", img.Bounds().Dx())
	}
}

func TestOverlayText(t *testing.T) {
	if OverlayText(&session.Snapshot{State: types.SessionRunning}) != "" {
		t.Error("running session should have no overlay")
	}
	if !strings.Contains(OverlayText(&session.Snapshot{State: types.SessionEnded, Score: 30}), "30") {
		t.Error("game over overlay should show the score")
	}
	if !strings.Contains(StatusLine(&session.Snapshot{Sun: 175}), "Sun 175") {
		t.Error("status line should show sun")
	}
}

func TestLeaderboardLine(t *testing.T) {
	line := LeaderboardLine(3, game.LeaderboardEntry{Name: "Zed", Score: 120, Seconds: 95})
	for _, want := range []string{" 3. Zed", "120", "(95s)"} {
		if !strings.Contains(line, want) {
			t.Errorf("line %q missing %q", line, want)
		}
	}
}

func TestNewFaceScales(t *testing.T) {
	small, large := newFace(0.5), newFace(2)
	defer small.Close()
	defer large.Close()

	if small.Metrics().Height >= large.Metrics().Height {
		t.Errorf("scaled face heights: %v >= %v", small.Metrics().Height, large.Metrics().Height)
	}
}
