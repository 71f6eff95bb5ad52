// 指示: miu200521358
package gltf

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/miu200521358/mu_metamagic/pkg/adapter/io_common"
	"github.com/miu200521358/mu_metamagic/pkg/domain/model"
)

// writeGLBFileForTest はテスト用JSONをGLB形式で保存する。
func writeGLBFileForTest(t *testing.T, path string, doc map[string]any) {
	t.Helper()
	jsonBytes, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("json marshal failed: %v", err)
	}
	padding := (4 - (len(jsonBytes) % 4)) % 4
	if padding > 0 {
		jsonBytes = append(jsonBytes, bytes.Repeat([]byte(" "), padding)...)
	}

	totalLength := uint32(12 + 8 + len(jsonBytes))
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, uint32(0x46546C67)); err != nil {
		t.Fatalf("write magic failed: %v", err)
	}
	if err := binary.Write(&buf, binary.LittleEndian, uint32(2)); err != nil {
		t.Fatalf("write version failed: %v", err)
	}
	if err := binary.Write(&buf, binary.LittleEndian, totalLength); err != nil {
		t.Fatalf("write total length failed: %v", err)
	}
	if err := binary.Write(&buf, binary.LittleEndian, uint32(len(jsonBytes))); err != nil {
		t.Fatalf("write chunk length failed: %v", err)
	}
	if err := binary.Write(&buf, binary.LittleEndian, uint32(0x4E4F534A)); err != nil {
		t.Fatalf("write chunk type failed: %v", err)
	}
	if _, err := buf.Write(jsonBytes); err != nil {
		t.Fatalf("write chunk body failed: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write glb file failed: %v", err)
	}
}

// buildSkinnedSceneDocForTest はスキン付きシーンのglTF文書を生成する。
func buildSkinnedSceneDocForTest() map[string]any {
	return map[string]any{
		"asset": map[string]any{"version": "2.0"},
		"scene": 0,
		"scenes": []any{
			map[string]any{"nodes": []int{0, 3}},
		},
		"nodes": []any{
			map[string]any{
				"name":     "Armature",
				"children": []int{1},
				"skin":     0,
				"extras": map[string]any{
					"jiggle_bones_config": []any{
						map[string]any{"start_bone": "Hair_Start", "end_bone": "Hair_End"},
					},
				},
			},
			map[string]any{
				"name":        "Hair_Start",
				"translation": []float64{0, 1, 0},
				"children":    []int{2},
			},
			map[string]any{
				"name":        "Hair_End",
				"translation": []float64{0, 0.5, 0},
			},
			map[string]any{
				"name":        "sword",
				"mesh":        0,
				"translation": []float64{0.2, 0.3, 0},
				"extras": map[string]any{
					"metamagic_bone_attachment": `{"armature":"Armature","bone":"Hair_Start"}`,
				},
			},
		},
		"skins": []any{
			map[string]any{"joints": []int{1, 2}},
		},
	}
}

func TestCanLoadAcceptsGlbAndGltf(t *testing.T) {
	repository := NewSceneRepository()
	if !repository.CanLoad("scene.glb") || !repository.CanLoad("SCENE.GLTF") {
		t.Fatalf("expected glb/gltf to be loadable")
	}
	if repository.CanLoad("scene.vrm") {
		t.Fatalf("expected vrm to be rejected")
	}
}

func TestInferNameStripsExtension(t *testing.T) {
	repository := NewSceneRepository()
	if name := repository.InferName(filepath.Join("dir", "hero.glb")); name != "hero" {
		t.Fatalf("name mismatch: %s", name)
	}
}

func TestLoadBuildsSceneTreeFromGLB(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "scene.glb")
	writeGLBFileForTest(t, path, buildSkinnedSceneDocForTest())

	repository := NewSceneRepository()
	root, err := repository.Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if root.Name() != "scene" {
		t.Fatalf("root name mismatch: %s", root.Name())
	}
	if len(root.Children()) != 2 {
		t.Fatalf("root children mismatch: %d", len(root.Children()))
	}

	armature := root.Children()[0]
	if armature.Name() != "Armature" || armature.Kind != model.NODE_KIND_SKELETAL {
		t.Fatalf("armature mismatch: name=%s kind=%s", armature.Name(), armature.Kind)
	}
	if armature.Skeleton == nil || armature.Skeleton.Len() != 2 {
		t.Fatalf("skeleton mismatch: %+v", armature.Skeleton)
	}

	start, err := armature.Skeleton.GetByName("Hair_Start")
	if err != nil {
		t.Fatalf("bone lookup failed: %v", err)
	}
	if start.ParentIndex != -1 {
		t.Fatalf("start parent mismatch: %d", start.ParentIndex)
	}
	end, err := armature.Skeleton.GetByName("Hair_End")
	if err != nil {
		t.Fatalf("bone lookup failed: %v", err)
	}
	if end.ParentIndex != start.Index() {
		t.Fatalf("end parent mismatch: %d", end.ParentIndex)
	}
	if !end.RestTranslation.NearEquals(start.RestTranslation.MuledScalar(0.5), 1e-12) {
		t.Fatalf("rest translation mismatch: %+v", end.RestTranslation)
	}

	sword := root.Children()[1]
	if sword.Name() != "sword" || sword.Kind != model.NODE_KIND_SPATIAL {
		t.Fatalf("sword mismatch: name=%s kind=%s", sword.Name(), sword.Kind)
	}
}

func TestLoadKeepsExtrasAsMetadata(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "scene.glb")
	writeGLBFileForTest(t, path, buildSkinnedSceneDocForTest())

	repository := NewSceneRepository()
	root, err := repository.Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	// 文字列値はそのまま保持される。
	sword := root.Children()[1]
	attachment := sword.Metadata["metamagic_bone_attachment"]
	if attachment != `{"armature":"Armature","bone":"Hair_Start"}` {
		t.Fatalf("attachment metadata mismatch: %s", attachment)
	}

	// 非文字列値はJSON原文として保持され、後段の設定解析に渡せる。
	armature := root.Children()[0]
	raw := armature.Metadata["jiggle_bones_config"]
	chains := []map[string]any{}
	if err := json.Unmarshal([]byte(raw), &chains); err != nil {
		t.Fatalf("jiggle metadata should stay parseable: %v", err)
	}
	if len(chains) != 1 || chains[0]["start_bone"] != "Hair_Start" {
		t.Fatalf("jiggle metadata mismatch: %s", raw)
	}
}

func TestLoadRawGltfJSON(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "scene.gltf")
	jsonBytes, err := json.Marshal(buildSkinnedSceneDocForTest())
	if err != nil {
		t.Fatalf("json marshal failed: %v", err)
	}
	if err := os.WriteFile(path, jsonBytes, 0o644); err != nil {
		t.Fatalf("write gltf failed: %v", err)
	}

	repository := NewSceneRepository()
	root, err := repository.Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(root.FindByKind(model.NODE_KIND_SKELETAL)) != 1 {
		t.Fatalf("skeletal node count mismatch")
	}
}

func TestLoadFallsBackToParentlessRoots(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "scene.glb")
	doc := map[string]any{
		"asset": map[string]any{"version": "2.0"},
		"nodes": []any{
			map[string]any{"name": "solo"},
		},
	}
	writeGLBFileForTest(t, path, doc)

	repository := NewSceneRepository()
	root, err := repository.Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(root.Children()) != 1 || root.Children()[0].Name() != "solo" {
		t.Fatalf("fallback roots mismatch: %d", len(root.Children()))
	}
}

func TestLoadNamesAnonymousNodes(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "scene.glb")
	doc := map[string]any{
		"asset": map[string]any{"version": "2.0"},
		"nodes": []any{
			map[string]any{"translation": []float64{1, 0, 0}},
		},
	}
	writeGLBFileForTest(t, path, doc)

	repository := NewSceneRepository()
	root, err := repository.Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if root.Children()[0].Name() != "node_000" {
		t.Fatalf("anonymous node name mismatch: %s", root.Children()[0].Name())
	}
}

func TestLoadRejectsInvalidExtension(t *testing.T) {
	repository := NewSceneRepository()
	_, err := repository.Load("scene.vrm")
	if !errors.Is(err, io_common.ErrIoExtInvalid) {
		t.Fatalf("error kind mismatch: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	repository := NewSceneRepository()
	_, err := repository.Load(filepath.Join(t.TempDir(), "missing.glb"))
	if !errors.Is(err, io_common.ErrIoFileNotFound) {
		t.Fatalf("error kind mismatch: %v", err)
	}
}

func TestLoadRejectsBrokenGLB(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "broken.glb")
	if err := os.WriteFile(path, []byte("not a glb at all"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	repository := NewSceneRepository()
	_, err := repository.Load(path)
	if !errors.Is(err, io_common.ErrIoParseFailed) {
		t.Fatalf("error kind mismatch: %v", err)
	}
}

func TestLoadReportsProgressEvents(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "scene.glb")
	writeGLBFileForTest(t, path, buildSkinnedSceneDocForTest())

	repository := NewSceneRepository()
	types := []LoadProgressEventType{}
	repository.SetLoadProgressReporter(func(event LoadProgressEvent) {
		types = append(types, event.Type)
	})
	if _, err := repository.Load(path); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	expected := []LoadProgressEventType{
		LoadProgressEventTypeFileReadComplete,
		LoadProgressEventTypeJsonParsed,
		LoadProgressEventTypeCompleted,
	}
	if len(types) != len(expected) {
		t.Fatalf("event count mismatch: %v", types)
	}
	for i := range expected {
		if types[i] != expected[i] {
			t.Fatalf("event order mismatch: got=%v want=%v", types, expected)
		}
	}
}
