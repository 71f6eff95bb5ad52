// 指示: miu200521358
package mmath

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Quaternion は回転クォータニオンを表す。
type Quaternion struct {
	mgl64.Quat
}

// NewQuaternion は単位クォータニオンを生成する。
func NewQuaternion() Quaternion {
	return Quaternion{Quat: mgl64.QuatIdent()}
}

// NewQuaternionByValues はXYZW順の成分指定でクォータニオンを生成する。
func NewQuaternionByValues(x float64, y float64, z float64, w float64) Quaternion {
	return Quaternion{Quat: mgl64.Quat{W: w, V: mgl64.Vec3{x, y, z}}}
}

// Normalized は正規化したクォータニオンを返す。
func (q Quaternion) Normalized() Quaternion {
	return Quaternion{Quat: q.Quat.Normalize()}
}

// Muled は合成回転を返す。
func (q Quaternion) Muled(other Quaternion) Quaternion {
	return Quaternion{Quat: q.Quat.Mul(other.Quat)}
}

// ToMat4 は回転行列へ変換する。
func (q Quaternion) ToMat4() Mat4 {
	return Mat4(q.Quat.Mat4())
}

// IsIdent は単位クォータニオンか判定する。
func (q Quaternion) IsIdent() bool {
	return q.Quat.W == 1 && q.Quat.V[0] == 0 && q.Quat.V[1] == 0 && q.Quat.V[2] == 0
}
