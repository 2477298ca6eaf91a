// 指示: miu200521358
package mmath

import (
	"github.com/miu200521358/mu_bvh_conv/pkg/config/merr"
)

// nextAxis はオイラー角の軸順序巡回表。
var nextAxis = [4]int{1, 2, 0, 1}

// axesTuple は規約文字列に対応する (firstAxis, parity, repetition, frame) の組。
type axesTuple struct {
	firstAxis  int
	parity     int
	repetition int
	frame      int
}

// axes2Tuple は対応する全24規約(12軸順×静止系s/回転系r)の閉じた表。
var axes2Tuple = map[string]axesTuple{
	"sxyz": {0, 0, 0, 0}, "sxyx": {0, 0, 1, 0}, "sxzy": {0, 1, 0, 0}, "sxzx": {0, 1, 1, 0},
	"syzx": {1, 0, 0, 0}, "syzy": {1, 0, 1, 0}, "syxz": {1, 1, 0, 0}, "syxy": {1, 1, 1, 0},
	"szxy": {2, 0, 0, 0}, "szxz": {2, 0, 1, 0}, "szyx": {2, 1, 0, 0}, "szyz": {2, 1, 1, 0},
	"rzyx": {0, 0, 0, 1}, "rxyx": {0, 0, 1, 1}, "ryzx": {0, 1, 0, 1}, "rxzx": {0, 1, 1, 1},
	"rxzy": {1, 0, 0, 1}, "ryzy": {1, 0, 1, 1}, "rzxy": {1, 1, 0, 1}, "ryxy": {1, 1, 1, 1},
	"ryxz": {2, 0, 0, 1}, "rzxz": {2, 0, 1, 1}, "rxyz": {2, 1, 0, 1}, "rzyz": {2, 1, 1, 1},
}

// Axes は検証済みの回転規約を表す。ParseAxes 経由でのみ生成する。
type Axes struct {
	tuple axesTuple
	name  string
}

// ParseAxes は "[r|s]<axis><axis><axis>" 形式の規約文字列を検証して返す。
func ParseAxes(axes string) (Axes, error) {
	tuple, ok := axes2Tuple[axes]
	if !ok {
		return Axes{}, &merr.UnsupportedConventionError{Axes: axes}
	}
	return Axes{tuple: tuple, name: axes}, nil
}

// MustAxes は不正な規約文字列でパニックする ParseAxes。定数規約の初期化用。
func MustAxes(axes string) Axes {
	a, err := ParseAxes(axes)
	if err != nil {
		panic(err)
	}
	return a
}

// String は規約文字列を返す。
func (a Axes) String() string {
	return a.name
}

// Rotating は回転系(intrinsic)規約かを返す。
func (a Axes) Rotating() bool {
	return a.tuple.frame == 1
}

// ijk は行列・四元数生成で使う軸インデックス3つ組を返す。
func (a Axes) ijk() (int, int, int) {
	i := a.tuple.firstAxis
	j := nextAxis[i+a.tuple.parity]
	k := nextAxis[i-a.tuple.parity+1]
	return i, j, k
}

// reorderIndices は "xyz" 順から指定軸順への並べ替えインデックスを返す。
func reorderIndices(order string) (int, int, int, error) {
	tuple, ok := axes2Tuple["s"+order]
	if !ok {
		return 0, 0, 0, &merr.UnsupportedConventionError{Axes: order}
	}
	i := tuple.firstAxis
	j := nextAxis[i+tuple.parity]
	k := nextAxis[i-tuple.parity+1]
	return i, j, k, nil
}
