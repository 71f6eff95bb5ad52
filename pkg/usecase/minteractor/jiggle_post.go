// 指示: miu200521358
package minteractor

import (
	"fmt"

	"github.com/miu200521358/mu_metamagic/pkg/domain/model"
	"github.com/miu200521358/mu_metamagic/pkg/domain/model/rigging"
	"github.com/miu200521358/mu_metamagic/pkg/shared/base/logging"
	"github.com/tiendc/go-deepcopy"
)

const simulationRigNodeNameSuffix = "_jiggle_rig"

// jiggleApplyResult は揺れ骨リグ適用パスの集計を表す。
type jiggleApplyResult struct {
	RigCount          int
	SlotCount         int
	DroppedChainCount int
	CreatedRigNodes   []*model.Node
}

// applyJiggleChainsAfterImport はスケルトン毎のメタデータから揺れ骨リグを生成する。
// 失敗はチェーン単位で、1件の不正が他スケルトンの処理を止めることはない。
func applyJiggleChainsAfterImport(root *model.Node) *jiggleApplyResult {
	result := &jiggleApplyResult{CreatedRigNodes: []*model.Node{}}
	if root == nil {
		return result
	}

	// 再親付けと走査が干渉しないよう、対象スケルトンを先に収集する。
	skeletonNodes := root.FindByKind(model.NODE_KIND_SKELETAL)
	for _, skeletonNode := range skeletonNodes {
		applyJiggleChainsToSkeleton(skeletonNode, result)
	}
	return result
}

// applyJiggleChainsToSkeleton は1スケルトン分の揺れ骨リグを生成する。
func applyJiggleChainsToSkeleton(skeletonNode *model.Node, result *jiggleApplyResult) {
	if skeletonNode == nil || skeletonNode.Skeleton == nil {
		return
	}

	parsed := rigging.ParseJiggleChainList(skeletonNode.Metadata)
	switch parsed.State {
	case rigging.PARSE_STATE_NOT_CONFIGURED:
		return
	case rigging.PARSE_STATE_MALFORMED:
		// 未設定と同じく黙ってスキップする(設定されていない扱い)。
		logging.DefaultLogger().Debug("揺れ骨設定が解析できないためスキップ: node=%s", skeletonNode.Name())
		return
	}
	if len(parsed.Chains) == 0 && parsed.DroppedElementCount == 0 {
		// 空リストはリグノード自体を作らない。
		return
	}
	if parsed.DroppedElementCount > 0 {
		logging.DefaultLogger().Warn(
			"%s: 形式不正のチェーン要素を除外しました node=%s count=%d",
			model.RiggingWarningChainElementMalformed,
			skeletonNode.Name(),
			parsed.DroppedElementCount,
		)
	}

	// リグノードは要素単位の検証より先に生成する。
	// 全要素がボーン未解決でも、スロット0件のリグノードが残るのは仕様上の挙動。
	rigNode := model.NewNode(
		ensureUniqueChildNodeName(skeletonNode, skeletonNode.Name()+simulationRigNodeNameSuffix),
		model.NODE_KIND_GENERIC,
	)
	rigNode.Rig = model.NewSimulationRig()
	skeletonNode.AddChild(rigNode)
	result.RigCount++
	result.CreatedRigNodes = append(result.CreatedRigNodes, rigNode)

	skeleton := skeletonNode.Skeleton
	for _, chain := range parsed.Chains {
		startIndex, startExists := skeleton.BoneIndexByName(chain.StartBone)
		endIndex, endExists := skeleton.BoneIndexByName(chain.EndBone)
		if !startExists || !endExists {
			// 片側だけの適用はしない。スロットindexも進めない。
			logging.DefaultLogger().Warn(
				"%s: チェーンのボーンが解決できません node=%s start=%s end=%s",
				model.RiggingWarningChainBoneNotFound,
				skeletonNode.Name(),
				chain.StartBone,
				chain.EndBone,
			)
			result.DroppedChainCount++
			continue
		}

		slot := model.ChainSlot{
			StartBoneIndex: startIndex,
			EndBoneIndex:   endIndex,
		}
		// スロットがメタデータ保持側の値と共有されないよう、物理パラメータは複製して転記する。
		if err := deepcopy.Copy(&slot, chain); err != nil {
			logging.DefaultLogger().Warn(
				"%s: チェーン設定の転記に失敗しました node=%s start=%s end=%s: %v",
				model.RiggingWarningChainSlotCopyFailed,
				skeletonNode.Name(),
				chain.StartBone,
				chain.EndBone,
				err,
			)
			result.DroppedChainCount++
			continue
		}
		slot.StartBoneIndex = startIndex
		slot.EndBoneIndex = endIndex
		rigNode.Rig.AppendSlot(slot)
		result.SlotCount++
	}
}

// ensureUniqueChildNodeName は親の子ノード名と重複しない名前を返す。
func ensureUniqueChildNodeName(parent *model.Node, name string) string {
	if parent == nil {
		return name
	}
	used := map[string]struct{}{}
	for _, child := range parent.Children() {
		used[child.Name()] = struct{}{}
	}
	if _, exists := used[name]; !exists {
		return name
	}
	for index := 1; ; index++ {
		candidate := fmt.Sprintf("%s_%d", name, index)
		if _, exists := used[candidate]; !exists {
			return candidate
		}
	}
}
