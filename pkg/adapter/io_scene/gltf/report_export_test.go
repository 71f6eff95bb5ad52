// 指示: miu200521358
package gltf

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/miu200521358/mu_metamagic/pkg/domain/mmath"
	"github.com/miu200521358/mu_metamagic/pkg/domain/model"
	"github.com/miu200521358/mu_metamagic/pkg/usecase/port/moutput"
)

// buildAugmentedSceneForTest はリグとアンカーを含む拡張済みシーンを生成する。
func buildAugmentedSceneForTest() *model.Node {
	root := model.NewNode("scene", model.NODE_KIND_GENERIC)

	skeletonNode := model.NewNode("Armature", model.NODE_KIND_SKELETAL)
	skeletonNode.Skeleton = model.NewSkeleton()
	start := model.NewBoneByName("Hair_Start")
	skeletonNode.Skeleton.AppendBone(start)
	end := model.NewBoneByName("Hair_End")
	end.ParentIndex = 0
	end.Constraints = append(end.Constraints, &model.BoneConstraint{
		Kind:        model.BONE_CONSTRAINT_COPY_ROTATION,
		TargetIndex: 0,
		OwnerSpace:  model.CONSTRAINT_SPACE_LOCAL,
		TargetSpace: model.CONSTRAINT_SPACE_LOCAL,
		Influence:   1.0,
	})
	skeletonNode.Skeleton.AppendBone(end)
	root.AddChild(skeletonNode)

	rigNode := model.NewNode("Armature_jiggle_rig", model.NODE_KIND_GENERIC)
	rigNode.Rig = model.NewSimulationRig()
	rigNode.Rig.AppendSlot(model.ChainSlot{
		StartBoneIndex: 0,
		EndBoneIndex:   1,
		Stiffness:      0.7,
		Drag:           0.4,
		Radius:         0.02,
	})
	skeletonNode.AddChild(rigNode)

	anchorNode := model.NewNode("Hair_Start_attach", model.NODE_KIND_SPATIAL)
	anchorNode.Anchor = &model.AttachmentAnchor{BoneName: "Hair_Start", BoneIndex: 0}
	anchorNode.Translation = mmath.NewVec3ByValues(0, 1, 0)
	skeletonNode.AddChild(anchorNode)

	return root
}

func TestSaveWritesSceneReport(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "nested", "scene.report.json")

	writer := NewSceneReportWriter()
	if err := writer.Save(path, buildAugmentedSceneForTest(), moutput.SaveOptions{Indent: true}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("report not found: %v", err)
	}
	report := reportNode{}
	if err := json.Unmarshal(payload, &report); err != nil {
		t.Fatalf("report unmarshal failed: %v", err)
	}

	if report.Name != "scene" || report.Kind != string(model.NODE_KIND_GENERIC) {
		t.Fatalf("root mismatch: %+v", report)
	}
	if len(report.Children) != 1 {
		t.Fatalf("children mismatch: %d", len(report.Children))
	}

	armature := report.Children[0]
	if armature.Skeleton == nil || armature.Skeleton.BoneCount != 2 {
		t.Fatalf("skeleton report mismatch: %+v", armature.Skeleton)
	}
	if len(armature.Skeleton.Bones[1].Constraints) != 1 {
		t.Fatalf("constraint report mismatch: %+v", armature.Skeleton.Bones[1])
	}
	constraint := armature.Skeleton.Bones[1].Constraints[0]
	if constraint.Kind != string(model.BONE_CONSTRAINT_COPY_ROTATION) || constraint.TargetIndex != 0 {
		t.Fatalf("constraint fields mismatch: %+v", constraint)
	}

	if len(armature.Children) != 2 {
		t.Fatalf("armature children mismatch: %d", len(armature.Children))
	}
	rig := armature.Children[0]
	if rig.Rig == nil || rig.Rig.SlotCount != 1 {
		t.Fatalf("rig report mismatch: %+v", rig.Rig)
	}
	if rig.Rig.Slots[0].Stiffness != 0.7 || rig.Rig.Slots[0].EndBoneIndex != 1 {
		t.Fatalf("slot report mismatch: %+v", rig.Rig.Slots[0])
	}
	anchor := armature.Children[1]
	if anchor.Anchor == nil || anchor.Anchor.BoneName != "Hair_Start" {
		t.Fatalf("anchor report mismatch: %+v", anchor.Anchor)
	}
	if anchor.Translation != [3]float64{0, 1, 0} {
		t.Fatalf("anchor translation mismatch: %+v", anchor.Translation)
	}
}

func TestSaveCompactWithoutIndent(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "scene.report.json")

	writer := NewSceneReportWriter()
	if err := writer.Save(path, buildAugmentedSceneForTest(), moutput.SaveOptions{}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("report not found: %v", err)
	}
	for _, b := range payload {
		if b == '\n' {
			t.Fatalf("compact output should not contain newlines")
		}
	}
}

func TestSaveRejectsEmptyPathAndNilRoot(t *testing.T) {
	writer := NewSceneReportWriter()
	if err := writer.Save("  ", buildAugmentedSceneForTest(), moutput.SaveOptions{}); err == nil {
		t.Fatalf("expected error for empty path")
	}
	if err := writer.Save(filepath.Join(t.TempDir(), "out.json"), nil, moutput.SaveOptions{}); err == nil {
		t.Fatalf("expected error for nil root")
	}
}
