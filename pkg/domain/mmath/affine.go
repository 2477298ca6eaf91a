// 指示: miu200521358
package mmath

import (
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/spatial/r3"
)

// ComposeAffine は平行移動と回転行列から単位スケールの4x4アフィン行列を組み立てる。
func ComposeAffine(translation r3.Vec, rotation mgl64.Mat3) mgl64.Mat4 {
	m := mgl64.Ident4()
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			m.Set(row, col, rotation.At(row, col))
		}
	}
	m.Set(0, 3, translation.X)
	m.Set(1, 3, translation.Y)
	m.Set(2, 3, translation.Z)
	return m
}

// DecomposeAffine は4x4アフィン行列を平行移動と回転行列へ分解する。
func DecomposeAffine(m mgl64.Mat4) (r3.Vec, mgl64.Mat3) {
	rotation := mgl64.Ident3()
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			rotation.Set(row, col, m.At(row, col))
		}
	}
	return AffineTranslation(m), rotation
}

// AffineTranslation はアフィン行列の平行移動成分を返す。
func AffineTranslation(m mgl64.Mat4) r3.Vec {
	return r3.Vec{X: m.At(0, 3), Y: m.At(1, 3), Z: m.At(2, 3)}
}

// SetAffineTranslation はアフィン行列の平行移動成分をその場で置き換える。
func SetAffineTranslation(m *mgl64.Mat4, translation r3.Vec) {
	m.Set(0, 3, translation.X)
	m.Set(1, 3, translation.Y)
	m.Set(2, 3, translation.Z)
}
