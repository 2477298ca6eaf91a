// 指示: miu200521358
package bvh

import (
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestRenderClosesScopesByDepth(t *testing.T) {
	tree := buildBranchedTree(t)
	got, err := Render(tree)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := strings.Join([]string{
		"HIERARCHY",
		"ROOT Hips",
		"{",
		"  OFFSET 0.0 0.0 0.0",
		"  CHANNELS 6 Xposition Yposition Zposition Zrotation Xrotation Yrotation",
		"  JOINT Spine",
		"  {",
		"    OFFSET 0.0 5.5 0.0",
		"    CHANNELS 3 Zrotation Xrotation Yrotation",
		"    End Site",
		"    {",
		"      OFFSET 0.0 2.0 0.0",
		"    }",
		"  }",
		"  JOINT Leg",
		"  {",
		"    OFFSET 1.0 0.0 0.0",
		"    CHANNELS 3 Zrotation Xrotation Yrotation",
		"    End Site",
		"    {",
		"      OFFSET 0.0 -1.0 0.0",
		"    }",
		"  }",
		"}",
		"MOTION",
		"Frames: 2",
		"Frame Time: 0.05",
		"1.0 2.0 3.0 4.0 5.0 6.0 7.0 8.0 9.0 10.0 11.0 12.0",
		"13.0 14.0 15.0 16.0 17.0 18.0 19.0 20.0 21.0 22.0 23.0 24.0",
		"",
	}, "\n")
	if got != want {
		t.Fatalf("rendered text mismatch:\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestRenderDeepChainClosesAllScopes(t *testing.T) {
	s := NewSkeleton()
	root, err := s.AddRoot("A", r3.Vec{}, []Channel{ChannelZrotation, ChannelXrotation, ChannelYrotation})
	if err != nil {
		t.Fatalf("add root: %v", err)
	}
	b, err := s.AddJoint("B", root, r3.Vec{Y: 1}, []Channel{ChannelZrotation, ChannelXrotation, ChannelYrotation})
	if err != nil {
		t.Fatalf("add joint: %v", err)
	}
	if _, err := s.AddEndSite("", b, r3.Vec{Y: 1}); err != nil {
		t.Fatalf("add end site: %v", err)
	}
	motion, err := NewMotion([][]float64{{1, 2, 3, 4, 5, 6}}, 6, 0.05)
	if err != nil {
		t.Fatalf("new motion: %v", err)
	}
	tree, err := NewBvhTree(s, motion)
	if err != nil {
		t.Fatalf("new tree: %v", err)
	}
	got, err := Render(tree)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	opens := strings.Count(got, "{")
	closes := strings.Count(got, "}")
	if opens != closes {
		t.Fatalf("unbalanced scopes: open=%d close=%d\n%s", opens, closes, got)
	}
	if !strings.HasSuffix(strings.TrimSuffix(got[:strings.Index(got, "MOTION")], "\n"), "}") {
		t.Fatalf("hierarchy should end with root closing brace:\n%s", got)
	}
}

func TestFormatValueTrimsTrailingZeros(t *testing.T) {
	cases := map[float64]string{
		0:         "0.0",
		1:         "1.0",
		-1.5:      "-1.5",
		0.05:      "0.05",
		0.0333333: "0.033333",
	}
	for in, want := range cases {
		if got := formatValue(in); got != want {
			t.Fatalf("format mismatch for %v: got=%s want=%s", in, got, want)
		}
	}
}
