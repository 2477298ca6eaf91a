// 指示: miu200521358
package mmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/num/quat"
)

// eps4 は特異点判定のしきい値(倍精度機械イプシロンの4倍)。
const eps4 = 4 * 2.220446049250313e-16

// EulerToMatrix はオイラー角(ラジアン)を規約に従って回転行列へ変換する。
func EulerToMatrix(ai, aj, ak float64, axes Axes) mgl64.Mat3 {
	i, j, k := axes.ijk()
	if axes.tuple.frame == 1 {
		ai, ak = ak, ai
	}
	if axes.tuple.parity == 1 {
		ai, aj, ak = -ai, -aj, -ak
	}

	si, ci := math.Sincos(ai)
	sj, cj := math.Sincos(aj)
	sk, ck := math.Sincos(ak)
	cc, cs := ci*ck, ci*sk
	sc, ss := si*ck, si*sk

	m := mgl64.Ident3()
	if axes.tuple.repetition == 1 {
		m.Set(i, i, cj)
		m.Set(i, j, sj*si)
		m.Set(i, k, sj*ci)
		m.Set(j, i, sj*sk)
		m.Set(j, j, -cj*ss+cc)
		m.Set(j, k, -cj*cs-sc)
		m.Set(k, i, -sj*ck)
		m.Set(k, j, cj*sc+cs)
		m.Set(k, k, cj*cc-ss)
	} else {
		m.Set(i, i, cj*ck)
		m.Set(i, j, sj*sc-cs)
		m.Set(i, k, sj*cc+ss)
		m.Set(j, i, cj*sk)
		m.Set(j, j, sj*ss+cc)
		m.Set(j, k, sj*cs-sc)
		m.Set(k, i, -sj)
		m.Set(k, j, cj*si)
		m.Set(k, k, cj*ci)
	}
	return m
}

// MatrixToEuler は回転行列を規約に従ってオイラー角(ラジアン)へ変換する。
// ジンバルロック近傍では3つめの角を 0 に固定した解を返す。
func MatrixToEuler(m mgl64.Mat3, axes Axes) (float64, float64, float64) {
	i, j, k := axes.ijk()

	var ax, ay, az float64
	if axes.tuple.repetition == 1 {
		sy := math.Hypot(m.At(i, j), m.At(i, k))
		if sy > eps4 {
			ax = math.Atan2(m.At(i, j), m.At(i, k))
			ay = math.Atan2(sy, m.At(i, i))
			az = math.Atan2(m.At(j, i), -m.At(k, i))
		} else {
			ax = math.Atan2(-m.At(j, k), m.At(j, j))
			ay = math.Atan2(sy, m.At(i, i))
			az = 0
		}
	} else {
		cy := math.Hypot(m.At(i, i), m.At(j, i))
		if cy > eps4 {
			ax = math.Atan2(m.At(k, j), m.At(k, k))
			ay = math.Atan2(-m.At(k, i), cy)
			az = math.Atan2(m.At(j, i), m.At(i, i))
		} else {
			ax = math.Atan2(-m.At(j, k), m.At(j, j))
			ay = math.Atan2(-m.At(k, i), cy)
			az = 0
		}
	}

	if axes.tuple.parity == 1 {
		ax, ay, az = -ax, -ay, -az
	}
	if axes.tuple.frame == 1 {
		ax, az = az, ax
	}
	return ax, ay, az
}

// EulerToQuat はオイラー角(ラジアン)を規約に従って wxyz 四元数へ変換する。
func EulerToQuat(ai, aj, ak float64, axes Axes) quat.Number {
	i := axes.tuple.firstAxis + 1
	j := nextAxis[i+axes.tuple.parity-1] + 1
	k := nextAxis[i-axes.tuple.parity] + 1

	if axes.tuple.frame == 1 {
		ai, ak = ak, ai
	}
	if axes.tuple.parity == 1 {
		aj = -aj
	}

	ai /= 2
	aj /= 2
	ak /= 2
	si, ci := math.Sincos(ai)
	sj, cj := math.Sincos(aj)
	sk, ck := math.Sincos(ak)
	cc, cs := ci*ck, ci*sk
	sc, ss := si*ck, si*sk

	var q [4]float64
	if axes.tuple.repetition == 1 {
		q[0] = cj * (cc - ss)
		q[i] = cj * (cs + sc)
		q[j] = sj * (cc + ss)
		q[k] = sj * (cs - sc)
	} else {
		q[0] = cj*cc + sj*ss
		q[i] = cj*sc - sj*cs
		q[j] = cj*ss + sj*cc
		q[k] = cj*cs - sj*sc
	}
	if axes.tuple.parity == 1 {
		q[j] *= -1
	}
	return quat.Number{Real: q[0], Imag: q[1], Jmag: q[2], Kmag: q[3]}
}

// QuatToMatrix は wxyz 四元数を回転行列へ変換する。ほぼ零ノルムなら単位行列。
func QuatToMatrix(q quat.Number) mgl64.Mat3 {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	nq := w*w + x*x + y*y + z*z
	if nq < eps4 {
		return mgl64.Ident3()
	}
	s := 2.0 / nq
	xs, ys, zs := x*s, y*s, z*s
	wx, wy, wz := w*xs, w*ys, w*zs
	xx, xy, xz := x*xs, x*ys, x*zs
	yy, yz, zz := y*ys, y*zs, z*zs

	m := mgl64.Ident3()
	m.Set(0, 0, 1-(yy+zz))
	m.Set(0, 1, xy-wz)
	m.Set(0, 2, xz+wy)
	m.Set(1, 0, xy+wz)
	m.Set(1, 1, 1-(xx+zz))
	m.Set(1, 2, yz-wx)
	m.Set(2, 0, xz-wy)
	m.Set(2, 1, yz+wx)
	m.Set(2, 2, 1-(xx+yy))
	return m
}

// QuatToEuler は wxyz 四元数を規約に従ってオイラー角(ラジアン)へ変換する。
func QuatToEuler(q quat.Number, axes Axes) (float64, float64, float64) {
	return MatrixToEuler(QuatToMatrix(q), axes)
}
