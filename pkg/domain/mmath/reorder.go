// 指示: miu200521358
package mmath

import (
	"math"

	"github.com/miu200521358/mu_bvh_conv/pkg/config/merr"
	"gonum.org/v1/gonum/spatial/r3"
)

// ReorderVec は xyz 順のベクトルを指定軸順へ並べ替える。
// 例: order="zxy" のとき戻り値の成分順は (z, x, y)。
func ReorderVec(v r3.Vec, order string) (r3.Vec, error) {
	if order == "xyz" {
		return v, nil
	}
	i, j, k, err := reorderIndices(order)
	if err != nil {
		return r3.Vec{}, err
	}
	xyz := [3]float64{v.X, v.Y, v.Z}
	return r3.Vec{X: xyz[i], Y: xyz[j], Z: xyz[k]}, nil
}

// Reorder は xyz 順の Nx3 行列を指定軸順へ並べ替えた新しい行列を返す。
// 3列でない行があれば ShapeError を返す。order が "xyz" なら入力をそのまま返す。
func Reorder(rows [][]float64, order string) ([][]float64, error) {
	for _, row := range rows {
		if len(row) != 3 {
			return nil, &merr.ShapeError{Rows: len(rows), Cols: len(row)}
		}
	}
	if order == "xyz" {
		return rows, nil
	}
	i, j, k, err := reorderIndices(order)
	if err != nil {
		return nil, err
	}
	res := make([][]float64, len(rows))
	for n, row := range rows {
		res[n] = []float64{row[i], row[j], row[k]}
	}
	return res, nil
}

// Prune は絶対値が epsilon 未満の成分をその場で 0 にする。
// NaN/Inf の成分は変更しない。epsilon が NaN なら InvalidArgumentError を返す。
func Prune(a []float64, epsilon float64) error {
	if math.IsNaN(epsilon) {
		return &merr.InvalidArgumentError{Message: "epsilon に NaN は指定できません"}
	}
	for i, v := range a {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if math.Abs(v) < epsilon {
			a[i] = 0
		}
	}
	return nil
}

// DegToRad は度をラジアンへ変換する。
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// RadToDeg はラジアンを度へ変換する。
func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
