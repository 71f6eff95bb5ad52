// 指示: miu200521358
package minteractor

import (
	"github.com/miu200521358/mu_metamagic/pkg/domain/model"
	"github.com/miu200521358/mu_metamagic/pkg/domain/model/rigging"
	"github.com/miu200521358/mu_metamagic/pkg/shared/base/logging"
)

const attachmentAnchorNodeNameSuffix = "_attach"

// boneAttachmentRequest は収集済みのアタッチ要求1件を表す。
type boneAttachmentRequest struct {
	node   *model.Node
	config rigging.BoneAttachmentConfig
}

// attachmentApplyResult はボーンアタッチ適用パスの集計を表す。
type attachmentApplyResult struct {
	AnchorCount        int
	SkippedCount       int
	CreatedAnchorNodes []*model.Node
}

// applyBoneAttachmentsAfterImport はメタデータのアタッチ要求を解決し、
// 要求ノードをボーン追従アンカー配下へ再親付けする。
// 失敗はノード単位で、部分的な再親付けは行わない。
func applyBoneAttachmentsAfterImport(root *model.Node) *attachmentApplyResult {
	result := &attachmentApplyResult{CreatedAnchorNodes: []*model.Node{}}
	if root == nil {
		return result
	}

	// 走査中の再親付けで反復が壊れないよう、要求と対象スケルトンを先に収集する。
	requests := collectBoneAttachmentRequests(root)
	skeletonNodes := root.FindByKind(model.NODE_KIND_SKELETAL)

	for _, request := range requests {
		if applyBoneAttachment(request, skeletonNodes, result) {
			result.AnchorCount++
		} else {
			result.SkippedCount++
		}
	}
	return result
}

// collectBoneAttachmentRequests は有効なアタッチ設定を持つノードを行きがけ順で収集する。
func collectBoneAttachmentRequests(root *model.Node) []boneAttachmentRequest {
	requests := []boneAttachmentRequest{}
	for _, node := range root.DepthFirst() {
		parsed := rigging.ParseBoneAttachment(node.Metadata)
		if parsed.State == rigging.PARSE_STATE_NOT_CONFIGURED {
			continue
		}
		if parsed.State == rigging.PARSE_STATE_MALFORMED {
			logging.DefaultLogger().Debug(
				"ボーンアタッチ設定を解釈できないため無視します node=%s", node.Name())
			continue
		}
		requests = append(requests, boneAttachmentRequest{node: node, config: parsed.Config})
	}
	return requests
}

// applyBoneAttachment は1件のアタッチ要求を適用する。生成に至った場合のみtrueを返す。
func applyBoneAttachment(
	request boneAttachmentRequest,
	skeletonNodes []*model.Node,
	result *attachmentApplyResult,
) bool {
	skeletonNode := findSkeletonByArmatureName(skeletonNodes, request.config.Armature)
	if skeletonNode == nil || skeletonNode.Skeleton == nil {
		logging.DefaultLogger().Warn(
			"%s: アタッチ先スケルトンが見つかりません node=%s armature=%s",
			model.RiggingWarningAttachmentArmatureNotFound,
			request.node.Name(),
			request.config.Armature,
		)
		return false
	}

	// 要求ノードがスケルトンの祖先だと、再親付けで部分木が親サイクルに陥る。
	if request.node.IsAncestorOf(skeletonNode) {
		logging.DefaultLogger().Warn(
			"%s: 要求ノードがアタッチ先スケルトンの祖先のため適用できません node=%s armature=%s",
			model.RiggingWarningAttachmentCycleDetected,
			request.node.Name(),
			request.config.Armature,
		)
		return false
	}

	skeletonParent := skeletonNode.Parent()
	if skeletonParent == nil {
		logging.DefaultLogger().Warn(
			"%s: スケルトンの親ノードがありません node=%s armature=%s",
			model.RiggingWarningAttachmentParentMissing,
			request.node.Name(),
			request.config.Armature,
		)
		return false
	}

	boneIndex, exists := skeletonNode.Skeleton.BoneIndexByName(request.config.Bone)
	if !exists {
		logging.DefaultLogger().Warn(
			"%s: アタッチ先ボーンが見つかりません node=%s armature=%s bone=%s",
			model.RiggingWarningAttachmentBoneNotFound,
			request.node.Name(),
			request.config.Armature,
			request.config.Bone,
		)
		return false
	}

	restOrigin, err := skeletonNode.Skeleton.RestPosePosition(boneIndex)
	if err != nil {
		logging.DefaultLogger().Warn(
			"%s: レストポーズを解決できません node=%s bone=%s: %v",
			model.RiggingWarningAttachmentBoneNotFound,
			request.node.Name(),
			request.config.Bone,
			err,
		)
		return false
	}

	// オーサリング時の見た目位置をボーン相対でも保つための差分。
	// 共通親フレームでの「ボーンのレスト原点 + スケルトン親の位置」に対する相対位置をとる。
	delta := request.node.Translation.Subed(restOrigin.Added(skeletonParent.Translation))

	anchorNode := model.NewNode(
		ensureUniqueChildNodeName(skeletonNode, request.config.Bone+attachmentAnchorNodeNameSuffix),
		model.NODE_KIND_SPATIAL,
	)
	anchorNode.Anchor = &model.AttachmentAnchor{
		BoneName:  request.config.Bone,
		BoneIndex: boneIndex,
	}
	anchorNode.Translation = restOrigin
	skeletonNode.AddChild(anchorNode)
	anchorNode.AddChild(request.node)
	request.node.Translation = delta

	result.CreatedAnchorNodes = append(result.CreatedAnchorNodes, anchorNode)
	logging.DefaultLogger().Debug(
		"ボーンアタッチ適用: node=%s armature=%s bone=%s",
		request.node.Name(),
		request.config.Armature,
		request.config.Bone,
	)
	return true
}

// findSkeletonByArmatureName はアーマチュア名からスケルトンノードを解決する。
// スケルトンの親ノード名または自身のノード名が一致した最初のもの(走査順)を採用する。
func findSkeletonByArmatureName(skeletonNodes []*model.Node, armatureName string) *model.Node {
	normalized := model.NormalizeName(armatureName)
	for _, skeletonNode := range skeletonNodes {
		if parent := skeletonNode.Parent(); parent != nil {
			if model.NormalizeName(parent.Name()) == normalized {
				return skeletonNode
			}
		}
		if model.NormalizeName(skeletonNode.Name()) == normalized {
			return skeletonNode
		}
	}
	return nil
}
