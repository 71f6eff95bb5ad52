// 指示: miu200521358
package minteractor

import (
	"testing"

	"github.com/miu200521358/mu_metamagic/pkg/domain/model"
	"github.com/miu200521358/mu_metamagic/pkg/domain/model/rigging"
)

// buildHairSceneForTest は髪ボーンを持つスケルトンノード付きシーンを生成する。
func buildHairSceneForTest() (*model.Node, *model.Node) {
	root := model.NewNode("scene", model.NODE_KIND_GENERIC)
	skeletonNode := model.NewNode("Armature", model.NODE_KIND_SKELETAL)
	skeletonNode.Skeleton = model.NewSkeleton()
	for i, name := range []string{"Hair_Start", "Hair_Mid", "Hair_End"} {
		bone := model.NewBoneByName(name)
		bone.ParentIndex = i - 1
		skeletonNode.Skeleton.AppendBone(bone)
	}
	root.AddChild(skeletonNode)
	return root, skeletonNode
}

func TestApplyJiggleChainsCreatesRigWithDefaults(t *testing.T) {
	root, skeletonNode := buildHairSceneForTest()
	skeletonNode.Metadata[rigging.JiggleConfigMetadataKey] =
		`[{"start_bone":"Hair_Start","end_bone":"Hair_End","stiffness":0.7}]`

	result := applyJiggleChainsAfterImport(root)
	if result.RigCount != 1 || result.SlotCount != 1 || result.DroppedChainCount != 0 {
		t.Fatalf("result mismatch: %+v", result)
	}
	if len(result.CreatedRigNodes) != 1 {
		t.Fatalf("created rig nodes mismatch: %d", len(result.CreatedRigNodes))
	}

	rigNode := result.CreatedRigNodes[0]
	if rigNode.Name() != "Armature_jiggle_rig" {
		t.Fatalf("rig node name mismatch: %s", rigNode.Name())
	}
	if rigNode.Parent() != skeletonNode {
		t.Fatalf("rig node should be child of skeleton node")
	}
	if rigNode.Rig == nil || len(rigNode.Rig.Slots) != 1 {
		t.Fatalf("rig slots mismatch: %+v", rigNode.Rig)
	}

	slot := rigNode.Rig.Slots[0]
	if slot.StartBoneIndex != 0 || slot.EndBoneIndex != 2 {
		t.Fatalf("slot bone indexes mismatch: %+v", slot)
	}
	if slot.Stiffness != 0.7 {
		t.Fatalf("stiffness mismatch: %f", slot.Stiffness)
	}
	if slot.Drag != rigging.DefaultDrag || slot.Gravity != rigging.DefaultGravity || slot.Radius != rigging.DefaultRadius {
		t.Fatalf("default params mismatch: %+v", slot)
	}
	if slot.ExtendEndBone {
		t.Fatalf("extend_end_bone default mismatch")
	}
}

func TestApplyJiggleChainsWithoutMetadataCreatesNothing(t *testing.T) {
	root, skeletonNode := buildHairSceneForTest()

	result := applyJiggleChainsAfterImport(root)
	if result.RigCount != 0 || result.SlotCount != 0 {
		t.Fatalf("result mismatch: %+v", result)
	}
	if len(skeletonNode.Children()) != 0 {
		t.Fatalf("skeleton node should have no children: %d", len(skeletonNode.Children()))
	}
}

func TestApplyJiggleChainsEmptyListCreatesNoRigNode(t *testing.T) {
	root, skeletonNode := buildHairSceneForTest()
	skeletonNode.Metadata[rigging.JiggleConfigMetadataKey] = `[]`

	result := applyJiggleChainsAfterImport(root)
	if result.RigCount != 0 {
		t.Fatalf("rig count mismatch: %d", result.RigCount)
	}
	if len(skeletonNode.Children()) != 0 {
		t.Fatalf("skeleton node should have no children: %d", len(skeletonNode.Children()))
	}
}

func TestApplyJiggleChainsMalformedConfigIsIgnored(t *testing.T) {
	root, skeletonNode := buildHairSceneForTest()
	skeletonNode.Metadata[rigging.JiggleConfigMetadataKey] = `{"broken": true}`

	result := applyJiggleChainsAfterImport(root)
	if result.RigCount != 0 || result.SlotCount != 0 {
		t.Fatalf("result mismatch: %+v", result)
	}
}

func TestApplyJiggleChainsUnresolvedBonesLeaveEmptyRig(t *testing.T) {
	root, skeletonNode := buildHairSceneForTest()
	skeletonNode.Metadata[rigging.JiggleConfigMetadataKey] =
		`[{"start_bone":"Ghost_Start","end_bone":"Ghost_End"}]`

	result := applyJiggleChainsAfterImport(root)
	// 全要素が無効でもリグノードは生成済みのまま残る。
	if result.RigCount != 1 || result.SlotCount != 0 || result.DroppedChainCount != 1 {
		t.Fatalf("result mismatch: %+v", result)
	}
	rigNode := result.CreatedRigNodes[0]
	if rigNode.Rig == nil || len(rigNode.Rig.Slots) != 0 {
		t.Fatalf("expected empty rig: %+v", rigNode.Rig)
	}
}

func TestApplyJiggleChainsDroppedChainDoesNotShiftSlotIndexes(t *testing.T) {
	root, skeletonNode := buildHairSceneForTest()
	skeletonNode.Metadata[rigging.JiggleConfigMetadataKey] =
		`[{"start_bone":"Ghost","end_bone":"Hair_End"},{"start_bone":"Hair_Mid","end_bone":"Hair_End"}]`

	result := applyJiggleChainsAfterImport(root)
	if result.SlotCount != 1 || result.DroppedChainCount != 1 {
		t.Fatalf("result mismatch: %+v", result)
	}
	rigNode := result.CreatedRigNodes[0]
	if len(rigNode.Rig.Slots) != 1 {
		t.Fatalf("slot count mismatch: %d", len(rigNode.Rig.Slots))
	}
	// 有効チェーンがスロット0へ詰めて入ること。
	slot := rigNode.Rig.Slots[0]
	if slot.StartBoneIndex != 1 || slot.EndBoneIndex != 2 {
		t.Fatalf("slot indexes mismatch: %+v", slot)
	}
}

func TestApplyJiggleChainsRigNameAvoidsCollision(t *testing.T) {
	root, skeletonNode := buildHairSceneForTest()
	occupied := model.NewNode("Armature_jiggle_rig", model.NODE_KIND_GENERIC)
	skeletonNode.AddChild(occupied)
	skeletonNode.Metadata[rigging.JiggleConfigMetadataKey] =
		`[{"start_bone":"Hair_Start","end_bone":"Hair_End"}]`

	result := applyJiggleChainsAfterImport(root)
	if result.RigCount != 1 {
		t.Fatalf("rig count mismatch: %d", result.RigCount)
	}
	if result.CreatedRigNodes[0].Name() != "Armature_jiggle_rig_1" {
		t.Fatalf("rig name mismatch: %s", result.CreatedRigNodes[0].Name())
	}
}

func TestApplyJiggleChainsHandlesMultipleSkeletons(t *testing.T) {
	root, skeletonNode := buildHairSceneForTest()
	skeletonNode.Metadata[rigging.JiggleConfigMetadataKey] =
		`[{"start_bone":"Hair_Start","end_bone":"Hair_End"}]`

	second := model.NewNode("Armature2", model.NODE_KIND_SKELETAL)
	second.Skeleton = model.NewSkeleton()
	for i, name := range []string{"Tail_Start", "Tail_End"} {
		bone := model.NewBoneByName(name)
		bone.ParentIndex = i - 1
		second.Skeleton.AppendBone(bone)
	}
	second.Metadata[rigging.JiggleConfigMetadataKey] =
		`[{"start_bone":"Tail_Start","end_bone":"Tail_End","gravity":-9.8}]`
	root.AddChild(second)

	result := applyJiggleChainsAfterImport(root)
	if result.RigCount != 2 || result.SlotCount != 2 {
		t.Fatalf("result mismatch: %+v", result)
	}
	tailRig := result.CreatedRigNodes[1]
	if tailRig.Parent() != second {
		t.Fatalf("second rig parent mismatch")
	}
	if tailRig.Rig.Slots[0].Gravity != -9.8 {
		t.Fatalf("gravity mismatch: %f", tailRig.Rig.Slots[0].Gravity)
	}
}
