// 指示: miu200521358
package mmath

import (
	"math"
	"testing"
)

func TestMat4TranslationCompose(t *testing.T) {
	a := NewVec3ByValues(1, 2, 3).ToMat4()
	b := NewVec3ByValues(10, 0, -1).ToMat4()

	translation := a.Muled(b).Translation()
	if !translation.NearEquals(NewVec3ByValues(11, 2, 2), 1e-12) {
		t.Fatalf("translation mismatch: %+v", translation)
	}
}

func TestMat4MulVec3AppliesTranslationAndScale(t *testing.T) {
	matrix := NewVec3ByValues(1, 0, 0).ToMat4().Muled(NewVec3ByValues(2, 2, 2).ToScaleMat4())
	transformed := matrix.MulVec3(NewVec3ByValues(1, 1, 1))
	if !transformed.NearEquals(NewVec3ByValues(3, 2, 2), 1e-12) {
		t.Fatalf("transform mismatch: %+v", transformed)
	}
}

func TestQuaternionToMat4RotatesAroundZ(t *testing.T) {
	// Z軸回り90度回転はX軸単位ベクトルをY軸へ移す。
	half := math.Pi / 4
	rotation := NewQuaternionByValues(0, 0, math.Sin(half), math.Cos(half)).Normalized()

	rotated := rotation.ToMat4().MulVec3(UNIT_X_VEC3)
	if !rotated.NearEquals(UNIT_Y_VEC3, 1e-9) {
		t.Fatalf("rotated mismatch: %+v", rotated)
	}
}

func TestNewQuaternionIsIdent(t *testing.T) {
	if !NewQuaternion().IsIdent() {
		t.Fatalf("expected identity quaternion")
	}
	if NewQuaternionByValues(0, 0, 1, 0).IsIdent() {
		t.Fatalf("expected non-identity quaternion")
	}
}

func TestQuaternionMuledComposesRotation(t *testing.T) {
	half := math.Pi / 4
	quarter := NewQuaternionByValues(0, 0, math.Sin(half), math.Cos(half)).Normalized()

	// 90度回転2回の合成はX軸単位ベクトルを反転させる。
	rotated := quarter.Muled(quarter).ToMat4().MulVec3(UNIT_X_VEC3)
	if !rotated.NearEquals(NewVec3ByValues(-1, 0, 0), 1e-9) {
		t.Fatalf("composed rotation mismatch: %+v", rotated)
	}
}
