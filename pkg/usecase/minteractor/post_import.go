// 指示: miu200521358
package minteractor

import (
	"fmt"

	"github.com/miu200521358/mu_metamagic/pkg/domain/model"
	"github.com/miu200521358/mu_metamagic/pkg/shared/base/logging"
)

// PostImport はインポート直後のシーンへボーンアタッチと揺れ骨リグを適用する。
// ノード単位の失敗は診断ログつきで見送り、処理全体は継続する。
func (uc *MetamagicUsecase) PostImport(request PostImportRequest) (*PostImportResult, error) {
	if request.Root == nil {
		return nil, fmt.Errorf("インポート後処理の対象シーンが未設定です")
	}

	nodeCount := len(request.Root.DepthFirst())
	skeletonCount := len(request.Root.FindByKind(model.NODE_KIND_SKELETAL))
	logging.DefaultLogger().Info(
		"インポート後処理開始: nodes=%d skeletons=%d", nodeCount, skeletonCount)

	reportPostImportProgress(request.ProgressReporter, PostImportProgressEvent{
		Type:          PostImportProgressEventTypeSceneValidated,
		NodeCount:     nodeCount,
		SkeletonCount: skeletonCount,
	})

	// アタッチを先に適用する。再親付け後のノードも揺れ骨パスの走査対象に含まれる。
	attachments := applyBoneAttachmentsAfterImport(request.Root)
	reportPostImportProgress(request.ProgressReporter, PostImportProgressEvent{
		Type:          PostImportProgressEventTypeAttachmentsApplied,
		NodeCount:     nodeCount,
		SkeletonCount: skeletonCount,
		AnchorCount:   attachments.AnchorCount,
	})

	jiggle := applyJiggleChainsAfterImport(request.Root)
	reportPostImportProgress(request.ProgressReporter, PostImportProgressEvent{
		Type:          PostImportProgressEventTypeJiggleApplied,
		NodeCount:     nodeCount,
		SkeletonCount: skeletonCount,
		AnchorCount:   attachments.AnchorCount,
		RigCount:      jiggle.RigCount,
		SlotCount:     jiggle.SlotCount,
	})

	result := &PostImportResult{
		AnchorCount:            attachments.AnchorCount,
		SkippedAttachmentCount: attachments.SkippedCount,
		RigCount:               jiggle.RigCount,
		SlotCount:              jiggle.SlotCount,
		DroppedChainCount:      jiggle.DroppedChainCount,
		CreatedAnchorNodes:     attachments.CreatedAnchorNodes,
		CreatedRigNodes:        jiggle.CreatedRigNodes,
	}

	logging.DefaultLogger().Info(
		"インポート後処理完了: anchors=%d rigs=%d slots=%d droppedChains=%d skippedAttachments=%d",
		result.AnchorCount, result.RigCount, result.SlotCount,
		result.DroppedChainCount, result.SkippedAttachmentCount)

	reportPostImportProgress(request.ProgressReporter, PostImportProgressEvent{
		Type:          PostImportProgressEventTypeCompleted,
		NodeCount:     nodeCount,
		SkeletonCount: skeletonCount,
		AnchorCount:   result.AnchorCount,
		RigCount:      result.RigCount,
		SlotCount:     result.SlotCount,
	})
	return result, nil
}
