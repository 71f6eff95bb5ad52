// 指示: miu200521358
package minteractor

import (
	"fmt"
	"strings"

	"github.com/miu200521358/mu_metamagic/pkg/domain/model"
	"github.com/miu200521358/mu_metamagic/pkg/shared/base/logging"
)

const rotationChainConstraintInfluence = 1.0

// RotationChainResult は回転チェーン生成結果を表す。
type RotationChainResult struct {
	Analysis     *BoneChainAnalysis
	CreatedCount int
	UpdatedCount int
}

// CreateRotationChain は選択ボーンを解析し、回転コピー拘束チェーンを生成する。
// オーサリング側コマンドの入口で、分岐警告は結果へ載せつつ処理は完走する。
func CreateRotationChain(skeleton *model.Skeleton, selectedBoneNames []string) (*RotationChainResult, error) {
	analysis, err := AnalyzeBoneChain(skeleton, selectedBoneNames)
	if err != nil {
		return nil, err
	}
	if len(analysis.Ordering) < minimumChainSelectionCount {
		return nil, fmt.Errorf("チェーンには%d個以上のボーンが必要です", minimumChainSelectionCount)
	}
	if analysis.Branched {
		logging.DefaultLogger().Warn(
			"%s: 分岐を検出しました bone=%s",
			model.RiggingWarningChainBranchDetected,
			analysis.BranchBoneName,
		)
	}
	if len(analysis.ExcludedBoneNames) > 0 {
		logging.DefaultLogger().Warn(
			"%s: チェーンに含まれない選択ボーンがあります bones=%s",
			model.RiggingWarningBonesNotInChain,
			strings.Join(analysis.ExcludedBoneNames, ","),
		)
	}

	created, updated, err := ApplyRotationChainConstraints(skeleton, analysis.Ordering)
	if err != nil {
		return nil, err
	}
	return &RotationChainResult{
		Analysis:     analysis,
		CreatedCount: created,
		UpdatedCount: updated,
	}, nil
}

// ApplyRotationChainConstraints は順列の連続ペアへ回転コピー拘束を冪等に適用する。
// 拘束は (親ボーン, 種別) で同一視し、既存一致はパラメータのみ上書きする。
// 先頭ボーンには拘束を付与しない。
func ApplyRotationChainConstraints(skeleton *model.Skeleton, ordering []string) (int, int, error) {
	if skeleton == nil {
		return 0, 0, fmt.Errorf("スケルトンが未指定です")
	}

	createdCount := 0
	updatedCount := 0
	for i := 1; i < len(ordering); i++ {
		parentBone, err := skeleton.GetByName(ordering[i-1])
		if err != nil {
			return createdCount, updatedCount, fmt.Errorf("拘束対象の親ボーンが見つかりません: %s", ordering[i-1])
		}
		childBone, err := skeleton.GetByName(ordering[i])
		if err != nil {
			return createdCount, updatedCount, fmt.Errorf("拘束対象のボーンが見つかりません: %s", ordering[i])
		}

		if existing := childBone.FindConstraint(model.BONE_CONSTRAINT_COPY_ROTATION, parentBone.Index()); existing != nil {
			existing.OwnerSpace = model.CONSTRAINT_SPACE_LOCAL
			existing.TargetSpace = model.CONSTRAINT_SPACE_LOCAL
			existing.Additive = true
			existing.Influence = rotationChainConstraintInfluence
			updatedCount++
			continue
		}
		childBone.Constraints = append(childBone.Constraints, &model.BoneConstraint{
			Kind:        model.BONE_CONSTRAINT_COPY_ROTATION,
			TargetIndex: parentBone.Index(),
			OwnerSpace:  model.CONSTRAINT_SPACE_LOCAL,
			TargetSpace: model.CONSTRAINT_SPACE_LOCAL,
			Additive:    true,
			Influence:   rotationChainConstraintInfluence,
		})
		createdCount++
	}
	return createdCount, updatedCount, nil
}
