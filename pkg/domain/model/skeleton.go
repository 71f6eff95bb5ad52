// 指示: miu200521358
package model

import (
	"fmt"

	"github.com/miu200521358/mu_metamagic/pkg/domain/mmath"
)

// Bone はスケルトン内の1ボーンを表す。
type Bone struct {
	index int
	name  string

	// ParentIndex は親ボーンindexを表す。ルートは-1。
	ParentIndex int
	// RestTranslation は親ボーン空間でのレストポーズ平行移動を表す。
	RestTranslation mmath.Vec3
	// RestRotation は親ボーン空間でのレストポーズ回転を表す。
	RestRotation mmath.Quaternion
	// Constraints はボーンに付与された拘束一覧を表す。
	Constraints []*BoneConstraint
}

// NewBoneByName は名前指定でボーンを生成する。
func NewBoneByName(name string) *Bone {
	return &Bone{
		index:           -1,
		name:            name,
		ParentIndex:     -1,
		RestTranslation: mmath.ZERO_VEC3,
		RestRotation:    mmath.NewQuaternion(),
	}
}

// Index はボーンindexを返す。
func (b *Bone) Index() int {
	if b == nil {
		return -1
	}
	return b.index
}

// Name はボーン名を返す。
func (b *Bone) Name() string {
	if b == nil {
		return ""
	}
	return b.name
}

// Skeleton は名前付きボーンの順序付き集合を表す。
type Skeleton struct {
	bones        []*Bone
	nameIndexes  map[string]int
	childIndexes [][]int
}

// NewSkeleton はスケルトンを生成する。
func NewSkeleton() *Skeleton {
	return &Skeleton{
		bones:       []*Bone{},
		nameIndexes: map[string]int{},
	}
}

// AppendBone はボーンを末尾へ追加し、割り当てたindexを返す。
func (s *Skeleton) AppendBone(bone *Bone) int {
	if s == nil || bone == nil {
		return -1
	}
	bone.index = len(s.bones)
	s.bones = append(s.bones, bone)
	normalized := NormalizeName(bone.name)
	if _, exists := s.nameIndexes[normalized]; !exists {
		s.nameIndexes[normalized] = bone.index
	}
	s.childIndexes = nil
	return bone.index
}

// Len はボーン数を返す。
func (s *Skeleton) Len() int {
	if s == nil {
		return 0
	}
	return len(s.bones)
}

// Values はボーン一覧をindex順で返す。
func (s *Skeleton) Values() []*Bone {
	if s == nil {
		return nil
	}
	return s.bones
}

// Get はindex指定でボーンを取得する。
func (s *Skeleton) Get(index int) (*Bone, error) {
	if s == nil || index < 0 || index >= len(s.bones) {
		return nil, fmt.Errorf("ボーンindexが範囲外です: %d", index)
	}
	return s.bones[index], nil
}

// GetByName は名前指定でボーンを取得する。照合はNFC正規化後に行う。
func (s *Skeleton) GetByName(name string) (*Bone, error) {
	index, exists := s.BoneIndexByName(name)
	if !exists {
		return nil, fmt.Errorf("ボーンが見つかりません: %s", name)
	}
	return s.bones[index], nil
}

// BoneIndexByName は名前からボーンindexを解決する。
func (s *Skeleton) BoneIndexByName(name string) (int, bool) {
	if s == nil {
		return -1, false
	}
	normalized := NormalizeName(name)
	if normalized == "" {
		return -1, false
	}
	index, exists := s.nameIndexes[normalized]
	return index, exists
}

// ChildIndexes は指定ボーンの子ボーンindexを追加順(ネイティブ順)で返す。
func (s *Skeleton) ChildIndexes(index int) []int {
	if s == nil || index < 0 || index >= len(s.bones) {
		return nil
	}
	if s.childIndexes == nil {
		s.childIndexes = make([][]int, len(s.bones))
		for _, bone := range s.bones {
			parentIndex := bone.ParentIndex
			if parentIndex < 0 || parentIndex >= len(s.bones) {
				continue
			}
			s.childIndexes[parentIndex] = append(s.childIndexes[parentIndex], bone.index)
		}
	}
	return s.childIndexes[index]
}

// RestPoseMatrix はレストポーズを親ボーンから合成したスケルトン空間行列を返す。
func (s *Skeleton) RestPoseMatrix(index int) (mmath.Mat4, error) {
	bone, err := s.Get(index)
	if err != nil {
		return mmath.NewMat4(), err
	}

	local := bone.RestTranslation.ToMat4().Muled(bone.RestRotation.ToMat4())
	if bone.ParentIndex < 0 {
		return local, nil
	}
	// 親子関係の破損で無限ループしないよう、合成段数をボーン数で打ち切る。
	matrix := local
	currentIndex := bone.ParentIndex
	for depth := 0; currentIndex >= 0 && depth <= len(s.bones); depth++ {
		parent, err := s.Get(currentIndex)
		if err != nil {
			return mmath.NewMat4(), err
		}
		parentLocal := parent.RestTranslation.ToMat4().Muled(parent.RestRotation.ToMat4())
		matrix = parentLocal.Muled(matrix)
		currentIndex = parent.ParentIndex
	}
	return matrix, nil
}

// RestPosePosition はレストポーズのボーン原点をスケルトン空間で返す。
func (s *Skeleton) RestPosePosition(index int) (mmath.Vec3, error) {
	matrix, err := s.RestPoseMatrix(index)
	if err != nil {
		return mmath.ZERO_VEC3, err
	}
	return matrix.Translation(), nil
}
