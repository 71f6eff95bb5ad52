// 指示: miu200521358
package gltf

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/miu200521358/mu_metamagic/pkg/domain/model"
	"github.com/miu200521358/mu_metamagic/pkg/usecase/port/moutput"
)

const (
	exportDirMode  = 0o755
	exportFileMode = 0o644
)

// SceneReportWriter は拡張後シーンのレポート保存契約を表す。
type SceneReportWriter struct{}

// NewSceneReportWriter はSceneReportWriterを生成する。
func NewSceneReportWriter() *SceneReportWriter {
	return &SceneReportWriter{}
}

// reportNode はレポート出力用のノード要素を表す。
type reportNode struct {
	Name        string            `json:"name"`
	Kind        string            `json:"kind"`
	Translation [3]float64        `json:"translation"`
	Skeleton    *reportSkeleton   `json:"skeleton,omitempty"`
	Rig         *reportRig        `json:"rig,omitempty"`
	Anchor      *reportAnchor     `json:"anchor,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Children    []reportNode      `json:"children,omitempty"`
}

// reportSkeleton はレポート出力用のスケルトン要素を表す。
type reportSkeleton struct {
	BoneCount int          `json:"boneCount"`
	Bones     []reportBone `json:"bones"`
}

// reportBone はレポート出力用のボーン要素を表す。
type reportBone struct {
	Name        string             `json:"name"`
	ParentIndex int                `json:"parentIndex"`
	Constraints []reportConstraint `json:"constraints,omitempty"`
}

// reportConstraint はレポート出力用のボーンコンストレイント要素を表す。
type reportConstraint struct {
	Kind        string  `json:"kind"`
	TargetIndex int     `json:"targetIndex"`
	OwnerSpace  string  `json:"ownerSpace"`
	TargetSpace string  `json:"targetSpace"`
	Influence   float64 `json:"influence"`
}

// reportRig はレポート出力用のシミュレーションリグ要素を表す。
type reportRig struct {
	SlotCount int             `json:"slotCount"`
	Slots     []reportRigSlot `json:"slots"`
}

// reportRigSlot はレポート出力用のチェーンスロット要素を表す。
type reportRigSlot struct {
	StartBoneIndex int     `json:"startBoneIndex"`
	EndBoneIndex   int     `json:"endBoneIndex"`
	Stiffness      float64 `json:"stiffness"`
	Drag           float64 `json:"drag"`
	Gravity        float64 `json:"gravity"`
	Radius         float64 `json:"radius"`
	ExtendEndBone  bool    `json:"extendEndBone"`
}

// reportAnchor はレポート出力用のアタッチアンカー要素を表す。
type reportAnchor struct {
	BoneName  string `json:"boneName"`
	BoneIndex int    `json:"boneIndex"`
}

// Save は拡張後シーンのレポートをJSONとして保存する。
func (w *SceneReportWriter) Save(path string, root *model.Node, options moutput.SaveOptions) error {
	trimmedPath := strings.TrimSpace(path)
	if trimmedPath == "" {
		return fmt.Errorf("レポート保存先パスが未指定です")
	}
	if root == nil {
		return fmt.Errorf("レポート対象シーンが未設定です")
	}

	if dir := filepath.Dir(trimmedPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, exportDirMode); err != nil {
			return fmt.Errorf("レポート出力先ディレクトリの作成に失敗しました: %w", err)
		}
	}

	report := buildReportNode(root)
	var payload []byte
	var err error
	if options.Indent {
		payload, err = json.MarshalIndent(report, "", "  ")
	} else {
		payload, err = json.Marshal(report)
	}
	if err != nil {
		return fmt.Errorf("レポートのJSON生成に失敗しました: %w", err)
	}
	if err := os.WriteFile(trimmedPath, payload, exportFileMode); err != nil {
		return fmt.Errorf("レポートの保存に失敗しました: %w", err)
	}
	return nil
}

// buildReportNode はノードをレポート要素へ再帰的に変換する。
func buildReportNode(nodeData *model.Node) reportNode {
	report := reportNode{
		Name: nodeData.Name(),
		Kind: string(nodeData.Kind),
		Translation: [3]float64{
			nodeData.Translation.X,
			nodeData.Translation.Y,
			nodeData.Translation.Z,
		},
	}
	if len(nodeData.Metadata) > 0 {
		report.Metadata = nodeData.Metadata
	}
	if nodeData.Skeleton != nil {
		report.Skeleton = buildReportSkeleton(nodeData.Skeleton)
	}
	if nodeData.Rig != nil {
		report.Rig = buildReportRig(nodeData.Rig)
	}
	if nodeData.Anchor != nil {
		report.Anchor = &reportAnchor{
			BoneName:  nodeData.Anchor.BoneName,
			BoneIndex: nodeData.Anchor.BoneIndex,
		}
	}
	for _, child := range nodeData.Children() {
		report.Children = append(report.Children, buildReportNode(child))
	}
	return report
}

// buildReportSkeleton はスケルトンをレポート要素へ変換する。
func buildReportSkeleton(skeleton *model.Skeleton) *reportSkeleton {
	report := &reportSkeleton{
		BoneCount: skeleton.Len(),
		Bones:     make([]reportBone, 0, skeleton.Len()),
	}
	for _, bone := range skeleton.Values() {
		boneReport := reportBone{
			Name:        bone.Name(),
			ParentIndex: bone.ParentIndex,
		}
		for _, constraint := range bone.Constraints {
			boneReport.Constraints = append(boneReport.Constraints, reportConstraint{
				Kind:        string(constraint.Kind),
				TargetIndex: constraint.TargetIndex,
				OwnerSpace:  string(constraint.OwnerSpace),
				TargetSpace: string(constraint.TargetSpace),
				Influence:   constraint.Influence,
			})
		}
		report.Bones = append(report.Bones, boneReport)
	}
	return report
}

// buildReportRig はシミュレーションリグをレポート要素へ変換する。
func buildReportRig(rig *model.SimulationRig) *reportRig {
	report := &reportRig{
		SlotCount: len(rig.Slots),
		Slots:     make([]reportRigSlot, 0, len(rig.Slots)),
	}
	for _, slot := range rig.Slots {
		report.Slots = append(report.Slots, reportRigSlot{
			StartBoneIndex: slot.StartBoneIndex,
			EndBoneIndex:   slot.EndBoneIndex,
			Stiffness:      slot.Stiffness,
			Drag:           slot.Drag,
			Gravity:        slot.Gravity,
			Radius:         slot.Radius,
			ExtendEndBone:  slot.ExtendEndBone,
		})
	}
	return report
}
