// 指示: miu200521358
package mmath

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Mat4 は列優先の4x4行列を表す。
type Mat4 [16]float64

// NewMat4 は単位行列を生成する。
func NewMat4() Mat4 {
	return Mat4(mgl64.Ident4())
}

// Muled は行列積を返す。
func (m Mat4) Muled(other Mat4) Mat4 {
	return Mat4(mgl64.Mat4(m).Mul4(mgl64.Mat4(other)))
}

// Translation は平行移動成分を返す。
func (m Mat4) Translation() Vec3 {
	return NewVec3ByValues(m[12], m[13], m[14])
}

// MulVec3 は点を変換した結果を返す。
func (m Mat4) MulVec3(v Vec3) Vec3 {
	transformed := mgl64.TransformCoordinate(mgl64.Vec3{v.X, v.Y, v.Z}, mgl64.Mat4(m))
	return NewVec3ByValues(transformed[0], transformed[1], transformed[2])
}

// ToMat4 は平行移動行列へ変換する。
func (v Vec3) ToMat4() Mat4 {
	return Mat4(mgl64.Translate3D(v.X, v.Y, v.Z))
}

// ToScaleMat4 は拡大縮小行列へ変換する。
func (v Vec3) ToScaleMat4() Mat4 {
	return Mat4(mgl64.Scale3D(v.X, v.Y, v.Z))
}
