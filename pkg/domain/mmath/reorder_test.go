// 指示: miu200521358
package mmath

import (
	"errors"
	"math"
	"testing"

	"github.com/miu200521358/mu_bvh_conv/pkg/config/merr"
	"gonum.org/v1/gonum/spatial/r3"
)

// reorderOrders は並べ替えに使える12軸順。
var reorderOrders = []string{
	"xyz", "xyx", "xzy", "xzx", "yzx", "yzy",
	"yxz", "yxy", "zxy", "zxz", "zyx", "zyz",
}

// inverseOrder は order の並べ替えを打ち消す軸順を返す。
func inverseOrder(t *testing.T, order string) string {
	t.Helper()
	i, j, k, err := reorderIndices(order)
	if err != nil {
		t.Fatalf("reorderIndices(%q): %v", order, err)
	}
	var inv [3]int
	inv[i], inv[j], inv[k] = 0, 1, 2
	letters := "xyz"
	for _, candidate := range reorderOrders {
		ci, cj, ck, err := reorderIndices(candidate)
		if err != nil {
			t.Fatalf("reorderIndices(%q): %v", candidate, err)
		}
		if ci == inv[0] && cj == inv[1] && ck == inv[2] {
			return candidate
		}
	}
	t.Fatalf("inverse order not found for %q (%s)", order, letters)
	return ""
}

func TestReorderVecExample(t *testing.T) {
	v := r3.Vec{X: 1, Y: 2, Z: 3}
	got, err := ReorderVec(v, "zxy")
	if err != nil {
		t.Fatalf("ReorderVec: %v", err)
	}
	if got != (r3.Vec{X: 3, Y: 1, Z: 2}) {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestReorderVecInvolution(t *testing.T) {
	v := r3.Vec{X: 1.5, Y: -2.25, Z: 3.75}
	for _, order := range reorderOrders {
		fwd, err := ReorderVec(v, order)
		if err != nil {
			t.Fatalf("ReorderVec(%q): %v", order, err)
		}
		back, err := ReorderVec(fwd, inverseOrder(t, order))
		if err != nil {
			t.Fatalf("ReorderVec inverse(%q): %v", order, err)
		}
		if back != v {
			t.Fatalf("%q: involution failed: %+v", order, back)
		}
	}
}

func TestReorderRowsInvolution(t *testing.T) {
	rows := [][]float64{{1, 2, 3}, {-4, 5, -6}, {0.5, 0, 7}}
	for _, order := range reorderOrders {
		fwd, err := Reorder(rows, order)
		if err != nil {
			t.Fatalf("Reorder(%q): %v", order, err)
		}
		back, err := Reorder(fwd, inverseOrder(t, order))
		if err != nil {
			t.Fatalf("Reorder inverse(%q): %v", order, err)
		}
		for r := range rows {
			for c := range rows[r] {
				if back[r][c] != rows[r][c] {
					t.Fatalf("%q: involution failed at (%d,%d)", order, r, c)
				}
			}
		}
	}
}

func TestReorderIdentityReturnsInput(t *testing.T) {
	rows := [][]float64{{1, 2, 3}}
	got, err := Reorder(rows, "xyz")
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	if &got[0][0] != &rows[0][0] {
		t.Fatalf("identity order must not copy")
	}
}

func TestReorderShapeError(t *testing.T) {
	_, err := Reorder([][]float64{{1, 2, 3, 4}}, "zxy")
	var shapeErr *merr.ShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("expected ShapeError, got %v", err)
	}
}

func TestPrune(t *testing.T) {
	a := []float64{1e-10, -1e-9, 0, 0.5, -2, math.NaN(), math.Inf(1)}
	if err := Prune(a, 1e-8); err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if a[0] != 0 || a[1] != 0 || a[2] != 0 {
		t.Fatalf("small values not pruned: %v", a)
	}
	if a[3] != 0.5 || a[4] != -2 {
		t.Fatalf("large values altered: %v", a)
	}
	if !math.IsNaN(a[5]) || !math.IsInf(a[6], 1) {
		t.Fatalf("NaN/Inf entries altered: %v", a)
	}

	// 同じしきい値での再適用は何も変えない。
	before := append([]float64(nil), a...)
	if err := Prune(a, 1e-8); err != nil {
		t.Fatalf("Prune: %v", err)
	}
	for i := range a {
		if a[i] != before[i] && !(math.IsNaN(a[i]) && math.IsNaN(before[i])) {
			t.Fatalf("second prune changed index %d", i)
		}
	}
}

func TestPruneNaNEpsilon(t *testing.T) {
	err := Prune([]float64{1}, math.NaN())
	var argErr *merr.InvalidArgumentError
	if !errors.As(err, &argErr) {
		t.Fatalf("expected InvalidArgumentError, got %v", err)
	}
}
