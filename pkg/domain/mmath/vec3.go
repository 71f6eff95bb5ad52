// 指示: miu200521358
// Package mmath はシーン変換に使うベクトル・回転・行列演算を提供する。
package mmath

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Vec3 は3次元ベクトルを表す。
type Vec3 struct {
	r3.Vec
}

var (
	// ZERO_VEC3 は零ベクトルを表す。
	ZERO_VEC3 = Vec3{Vec: r3.Vec{X: 0, Y: 0, Z: 0}}
	// ONE_VEC3 は全成分1のベクトルを表す。
	ONE_VEC3 = Vec3{Vec: r3.Vec{X: 1, Y: 1, Z: 1}}
	// UNIT_X_VEC3 はX軸単位ベクトルを表す。
	UNIT_X_VEC3 = Vec3{Vec: r3.Vec{X: 1, Y: 0, Z: 0}}
	// UNIT_Y_VEC3 はY軸単位ベクトルを表す。
	UNIT_Y_VEC3 = Vec3{Vec: r3.Vec{X: 0, Y: 1, Z: 0}}
	// UNIT_Z_VEC3 はZ軸単位ベクトルを表す。
	UNIT_Z_VEC3 = Vec3{Vec: r3.Vec{X: 0, Y: 0, Z: 1}}
)

// NewVec3ByValues は成分指定でVec3を生成する。
func NewVec3ByValues(x float64, y float64, z float64) Vec3 {
	return Vec3{Vec: r3.Vec{X: x, Y: y, Z: z}}
}

// Added は加算結果を返す。
func (v Vec3) Added(other Vec3) Vec3 {
	return Vec3{Vec: r3.Add(v.Vec, other.Vec)}
}

// Subed は減算結果を返す。
func (v Vec3) Subed(other Vec3) Vec3 {
	return Vec3{Vec: r3.Sub(v.Vec, other.Vec)}
}

// MuledScalar はスカラー倍を返す。
func (v Vec3) MuledScalar(scale float64) Vec3 {
	return Vec3{Vec: r3.Scale(scale, v.Vec)}
}

// Length はベクトル長を返す。
func (v Vec3) Length() float64 {
	return r3.Norm(v.Vec)
}

// Normalized は正規化したベクトルを返す。
func (v Vec3) Normalized() Vec3 {
	length := v.Length()
	if length <= 0 {
		return ZERO_VEC3
	}
	return Vec3{Vec: r3.Unit(v.Vec)}
}

// Distance は2点間距離を返す。
func (v Vec3) Distance(other Vec3) float64 {
	return v.Subed(other).Length()
}

// Dot は内積を返す。
func (v Vec3) Dot(other Vec3) float64 {
	return r3.Dot(v.Vec, other.Vec)
}

// Cross は外積を返す。
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{Vec: r3.Cross(v.Vec, other.Vec)}
}

// NearEquals は許容誤差内で一致するか判定する。
func (v Vec3) NearEquals(other Vec3, epsilon float64) bool {
	return absValue(v.X-other.X) <= epsilon &&
		absValue(v.Y-other.Y) <= epsilon &&
		absValue(v.Z-other.Z) <= epsilon
}

// absValue は絶対値を返す。
func absValue(value float64) float64 {
	if value < 0 {
		return -value
	}
	return value
}
