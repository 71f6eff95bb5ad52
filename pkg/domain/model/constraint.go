// 指示: miu200521358
package model

// BoneConstraintKind はボーン拘束の種別を表す。
type BoneConstraintKind string

const (
	// BONE_CONSTRAINT_COPY_ROTATION は回転コピー拘束を表す。
	BONE_CONSTRAINT_COPY_ROTATION BoneConstraintKind = "copy_rotation"
)

// ConstraintSpace は拘束の評価空間を表す。
type ConstraintSpace string

const (
	// CONSTRAINT_SPACE_LOCAL はローカル空間を表す。
	CONSTRAINT_SPACE_LOCAL ConstraintSpace = "local"
	// CONSTRAINT_SPACE_WORLD はワールド空間を表す。
	CONSTRAINT_SPACE_WORLD ConstraintSpace = "world"
)

// BoneConstraint はボーンに付与する拘束を表す。
// 同一ボーン内の拘束は (TargetIndex, Kind) の組で一意になる。
type BoneConstraint struct {
	Kind        BoneConstraintKind
	TargetIndex int
	OwnerSpace  ConstraintSpace
	TargetSpace ConstraintSpace
	Additive    bool
	Influence   float64
}

// FindConstraint は (target, kind) 一致の拘束を返す。
func (b *Bone) FindConstraint(kind BoneConstraintKind, targetIndex int) *BoneConstraint {
	if b == nil {
		return nil
	}
	for _, constraint := range b.Constraints {
		if constraint == nil {
			continue
		}
		if constraint.Kind == kind && constraint.TargetIndex == targetIndex {
			return constraint
		}
	}
	return nil
}
