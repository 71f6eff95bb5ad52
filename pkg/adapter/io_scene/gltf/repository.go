// 指示: miu200521358
package gltf

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/miu200521358/mu_metamagic/pkg/adapter/io_common"
	"github.com/miu200521358/mu_metamagic/pkg/domain/mmath"
	"github.com/miu200521358/mu_metamagic/pkg/domain/model"
	"github.com/miu200521358/mu_metamagic/pkg/shared/base/logging"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	glbHeaderLength   = 12
	glbChunkHeadSize  = 8
	glbMagic          = 0x46546C67
	glbJSONChunkType  = 0x4E4F534A
	glbMinValidLength = glbHeaderLength + glbChunkHeadSize
)

// LoadProgressEventType はシーン読込進捗イベント種別を表す。
type LoadProgressEventType string

const (
	// LoadProgressEventTypeFileReadComplete はファイル読込完了イベントを表す。
	LoadProgressEventTypeFileReadComplete LoadProgressEventType = "file_read_complete"
	// LoadProgressEventTypeJsonParsed はJSON解析完了イベントを表す。
	LoadProgressEventTypeJsonParsed LoadProgressEventType = "json_parsed"
	// LoadProgressEventTypeCompleted はシーン読込完了イベントを表す。
	LoadProgressEventTypeCompleted LoadProgressEventType = "completed"
)

// LoadProgressEvent はシーン読込進捗イベントを表す。
type LoadProgressEvent struct {
	Type          LoadProgressEventType
	FileSizeBytes int
	ReadBytes     int
	NodeCount     int
	SkeletonCount int
}

// SceneRepository はglTF/GLBシーン入力の読み込み契約を表す。
type SceneRepository struct {
	loadProgressReporter func(LoadProgressEvent)
}

// NewSceneRepository はSceneRepositoryを生成する。
func NewSceneRepository() *SceneRepository {
	return &SceneRepository{}
}

// SetLoadProgressReporter はシーン読込進捗受信コールバックを設定する。
func (r *SceneRepository) SetLoadProgressReporter(reporter func(LoadProgressEvent)) {
	if r == nil {
		return
	}
	r.loadProgressReporter = reporter
}

// CanLoad は拡張子に応じて読み込み可否を判定する。
func (r *SceneRepository) CanLoad(path string) bool {
	ext := filepath.Ext(path)
	return strings.EqualFold(ext, ".glb") || strings.EqualFold(ext, ".gltf")
}

// InferName はパスから表示名を推定する。
func (r *SceneRepository) InferName(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == "" {
		return base
	}
	return strings.TrimSuffix(base, ext)
}

// Load はglTF/GLBシーンを読み込み、ノードツリーを構築する。
func (r *SceneRepository) Load(path string) (*model.Node, error) {
	if !r.CanLoad(path) {
		return nil, io_common.NewIoExtInvalid(path, nil)
	}
	loadTargetName := filepath.Base(path)
	logSceneInfo("シーン読込開始: file=%s", loadTargetName)

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, io_common.NewIoFileNotFound(path, err)
		}
		return nil, io_common.NewIoParseFailed("シーンファイルの読み取りに失敗しました", err)
	}
	r.reportLoadProgress(LoadProgressEvent{
		Type:          LoadProgressEventTypeFileReadComplete,
		FileSizeBytes: len(b),
		ReadBytes:     len(b),
	})
	logSceneInfo("シーン読込ステップ: ファイル読み取り完了 bytes=%d", len(b))

	jsonChunk := b
	if strings.EqualFold(filepath.Ext(path), ".glb") {
		jsonChunk, err = parseGLBJSONChunk(b)
		if err != nil {
			return nil, io_common.NewIoParseFailed("GLBチャンクの解析に失敗しました", err)
		}
		logSceneInfo("シーン読込ステップ: GLBチャンク解析完了 jsonBytes=%d", len(jsonChunk))
	}

	doc := gltfDocument{Scene: -1}
	if err := json.Unmarshal(jsonChunk, &doc); err != nil {
		return nil, io_common.NewIoParseFailed("glTF JSONの解析に失敗しました", err)
	}
	r.reportLoadProgress(LoadProgressEvent{
		Type:          LoadProgressEventTypeJsonParsed,
		FileSizeBytes: len(b),
		ReadBytes:     len(b),
		NodeCount:     len(doc.Nodes),
		SkeletonCount: len(doc.Skins),
	})
	logSceneInfo(
		"シーン読込ステップ: JSON解析完了 nodes=%d skins=%d scenes=%d",
		len(doc.Nodes),
		len(doc.Skins),
		len(doc.Scenes),
	)

	parentIndexes, err := buildNodeParentIndexes(doc.Nodes)
	if err != nil {
		return nil, err
	}
	logSceneInfo("シーン読込ステップ: ノード親子解析完了")

	root, err := buildSceneTree(&doc, parentIndexes, r.InferName(path))
	if err != nil {
		return nil, err
	}
	skeletonCount := len(root.FindByKind(model.NODE_KIND_SKELETAL))
	logSceneInfo(
		"シーン読込完了: file=%s nodes=%d skeletons=%d",
		loadTargetName,
		len(root.DepthFirst()),
		skeletonCount,
	)
	r.reportLoadProgress(LoadProgressEvent{
		Type:          LoadProgressEventTypeCompleted,
		FileSizeBytes: len(b),
		ReadBytes:     len(b),
		NodeCount:     len(doc.Nodes),
		SkeletonCount: skeletonCount,
	})
	return root, nil
}

// reportLoadProgress は読込進捗イベントを通知する。
func (r *SceneRepository) reportLoadProgress(event LoadProgressEvent) {
	if r == nil || r.loadProgressReporter == nil {
		return
	}
	r.loadProgressReporter(event)
}

// logSceneInfo はシーン読込のINFOログを出力する。
func logSceneInfo(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Info(format, params...)
}

// logSceneWarn はシーン読込の警告ログを出力する。
func logSceneWarn(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Warn(format, params...)
}

// gltfDocument はシーン読込時に必要なglTFトップレベル要素を表す。
type gltfDocument struct {
	Asset          gltfAsset   `json:"asset"`
	Skins          []gltfSkin  `json:"skins"`
	ExtensionsUsed []string    `json:"extensionsUsed"`
	Nodes          []gltfNode  `json:"nodes"`
	Scenes         []gltfScene `json:"scenes"`
	Scene          int         `json:"scene"`
}

// gltfAsset はglTF asset要素を表す。
type gltfAsset struct {
	Version   string `json:"version"`
	Generator string `json:"generator"`
}

// gltfScene はglTF scene要素を表す。
type gltfScene struct {
	Nodes []int `json:"nodes"`
}

// gltfNode はglTF node要素を表す。
type gltfNode struct {
	Name        string          `json:"name"`
	Mesh        *int            `json:"mesh"`
	Skin        *int            `json:"skin"`
	Children    []int           `json:"children"`
	Matrix      []float64       `json:"matrix"`
	Translation []float64       `json:"translation"`
	Rotation    []float64       `json:"rotation"`
	Scale       []float64       `json:"scale"`
	Extras      json.RawMessage `json:"extras"`
}

// gltfSkin はglTF skin要素を表す。
type gltfSkin struct {
	Name     string `json:"name"`
	Skeleton *int   `json:"skeleton"`
	Joints   []int  `json:"joints"`
}

// parseGLBJSONChunk はGLBバイナリからJSONチャンクを取り出す。
func parseGLBJSONChunk(b []byte) ([]byte, error) {
	if len(b) < glbMinValidLength {
		return nil, io_common.NewIoParseFailed("GLBヘッダが不足しています", nil)
	}
	magic := binary.LittleEndian.Uint32(b[0:4])
	if magic != glbMagic {
		return nil, io_common.NewIoParseFailed("GLBマジックが不正です", nil)
	}
	version := binary.LittleEndian.Uint32(b[4:8])
	if version != 2 {
		return nil, io_common.NewIoFormatNotSupported("GLBバージョンが未対応です: %d", nil, version)
	}
	totalLength := binary.LittleEndian.Uint32(b[8:12])
	if totalLength > uint32(len(b)) {
		return nil, io_common.NewIoParseFailed("GLB全体長が不正です", nil)
	}

	offset := glbHeaderLength
	for offset+glbChunkHeadSize <= len(b) {
		chunkLength := int(binary.LittleEndian.Uint32(b[offset : offset+4]))
		chunkType := binary.LittleEndian.Uint32(b[offset+4 : offset+8])
		chunkStart := offset + glbChunkHeadSize
		chunkEnd := chunkStart + chunkLength
		if chunkLength < 0 || chunkEnd > len(b) {
			return nil, io_common.NewIoParseFailed("GLBチャンク長が不正です", nil)
		}
		if chunkType == glbJSONChunkType {
			return b[chunkStart:chunkEnd], nil
		}
		offset = chunkEnd
	}
	return nil, io_common.NewIoParseFailed("GLB JSONチャンクが見つかりません", nil)
}

// buildNodeParentIndexes はnode配列から親インデックス配列を生成する。
func buildNodeParentIndexes(nodes []gltfNode) ([]int, error) {
	parentIndexes := make([]int, len(nodes))
	for i := range parentIndexes {
		parentIndexes[i] = -1
	}
	for parentIndex, node := range nodes {
		for _, childIndex := range node.Children {
			if childIndex < 0 || childIndex >= len(nodes) {
				return nil, io_common.NewIoParseFailed("node.children のindexが不正です: %d", nil, childIndex)
			}
			if parentIndexes[childIndex] == -1 {
				parentIndexes[childIndex] = parentIndex
			}
		}
	}
	return parentIndexes, nil
}

// buildSceneTree はglTF文書からシーンのノードツリーを構築する。
func buildSceneTree(doc *gltfDocument, parentIndexes []int, inferredName string) (*model.Node, error) {
	built := make([]*model.Node, len(doc.Nodes))
	for nodeIndex, gltfNodeData := range doc.Nodes {
		nodeData, err := buildSceneNode(doc, nodeIndex, gltfNodeData)
		if err != nil {
			return nil, err
		}
		built[nodeIndex] = nodeData
	}

	root := model.NewNode(inferredName, model.NODE_KIND_GENERIC)
	state := make([]int, len(doc.Nodes))
	for _, rootIndex := range sceneRootIndexes(doc, parentIndexes) {
		if err := attachSceneNode(doc, built, state, root, rootIndex); err != nil {
			return nil, err
		}
	}
	return root, nil
}

// sceneRootIndexes はツリー構築の起点となるnode indexを返す。
// シーン宣言があればそれを、無ければ親を持たない全nodeを採用する。
func sceneRootIndexes(doc *gltfDocument, parentIndexes []int) []int {
	if doc.Scene >= 0 && doc.Scene < len(doc.Scenes) {
		return doc.Scenes[doc.Scene].Nodes
	}
	if len(doc.Scenes) > 0 {
		return doc.Scenes[0].Nodes
	}
	rootIndexes := []int{}
	for nodeIndex, parentIndex := range parentIndexes {
		if parentIndex == -1 {
			rootIndexes = append(rootIndexes, nodeIndex)
		}
	}
	return rootIndexes
}

// attachSceneNode はnodeをツリーへ再帰的に接続する。循環参照は解析失敗とする。
func attachSceneNode(
	doc *gltfDocument,
	built []*model.Node,
	state []int,
	parent *model.Node,
	nodeIndex int,
) error {
	if nodeIndex < 0 || nodeIndex >= len(built) {
		return io_common.NewIoParseFailed("node index が不正です: %d", nil, nodeIndex)
	}
	if state[nodeIndex] == 1 {
		return io_common.NewIoParseFailed("node親子関係に循環があります: %d", nil, nodeIndex)
	}
	if state[nodeIndex] == 2 {
		// 複数親からの参照は最初の親を優先する。
		logSceneWarn("nodeが複数の親から参照されています: %d", nodeIndex)
		return nil
	}
	state[nodeIndex] = 1
	parent.AddChild(built[nodeIndex])
	for _, childIndex := range doc.Nodes[nodeIndex].Children {
		if err := attachSceneNode(doc, built, state, built[nodeIndex], childIndex); err != nil {
			return err
		}
	}
	state[nodeIndex] = 2
	return nil
}

// buildSceneNode はglTF node 1件からシーンノードを構築する。
func buildSceneNode(
	doc *gltfDocument,
	nodeIndex int,
	gltfNodeData gltfNode,
) (*model.Node, error) {
	nodeData := model.NewNode(
		resolveSceneNodeName(nodeIndex, gltfNodeData.Name),
		resolveSceneNodeKind(gltfNodeData),
	)

	translation, rotation, scale, err := parseNodeTransform(gltfNodeData)
	if err != nil {
		return nil, err
	}
	nodeData.Translation = translation
	nodeData.Rotation = rotation
	nodeData.Scale = scale

	metadata, err := parseNodeExtras(gltfNodeData.Extras)
	if err != nil {
		return nil, err
	}
	nodeData.Metadata = metadata

	if gltfNodeData.Skin != nil {
		skeleton, err := buildSkeleton(doc, *gltfNodeData.Skin)
		if err != nil {
			return nil, err
		}
		nodeData.Skeleton = skeleton
	}
	return nodeData, nil
}

// resolveSceneNodeName はnode名からシーンノード名を決定する。
func resolveSceneNodeName(nodeIndex int, nodeName string) string {
	trimmed := strings.TrimSpace(nodeName)
	if trimmed != "" {
		return trimmed
	}
	return fmt.Sprintf("node_%03d", nodeIndex)
}

// resolveSceneNodeKind はnode要素からノード種別を決定する。
func resolveSceneNodeKind(gltfNodeData gltfNode) model.NodeKind {
	if gltfNodeData.Skin != nil {
		return model.NODE_KIND_SKELETAL
	}
	if gltfNodeData.Mesh != nil {
		return model.NODE_KIND_SPATIAL
	}
	return model.NODE_KIND_GENERIC
}

// parseNodeTransform はnode要素からローカル変換を取り出す。
// matrix指定のnodeは平行移動成分のみ採用する。
func parseNodeTransform(gltfNodeData gltfNode) (mmath.Vec3, mmath.Quaternion, mmath.Vec3, error) {
	if len(gltfNodeData.Matrix) > 0 {
		if len(gltfNodeData.Matrix) != 16 {
			return mmath.ZERO_VEC3, mmath.NewQuaternion(), mmath.ONE_VEC3,
				io_common.NewIoParseFailed("node.matrix の要素数が不正です: %d", nil, len(gltfNodeData.Matrix))
		}
		mat := mmath.NewMat4()
		for i := 0; i < 16; i++ {
			mat[i] = gltfNodeData.Matrix[i]
		}
		return mat.Translation(), mmath.NewQuaternion(), mmath.ONE_VEC3, nil
	}

	translation, err := parseVec3(gltfNodeData.Translation, mmath.ZERO_VEC3, "node.translation")
	if err != nil {
		return mmath.ZERO_VEC3, mmath.NewQuaternion(), mmath.ONE_VEC3, err
	}
	scale, err := parseVec3(gltfNodeData.Scale, mmath.ONE_VEC3, "node.scale")
	if err != nil {
		return mmath.ZERO_VEC3, mmath.NewQuaternion(), mmath.ONE_VEC3, err
	}
	rotation, err := parseQuaternion(gltfNodeData.Rotation)
	if err != nil {
		return mmath.ZERO_VEC3, mmath.NewQuaternion(), mmath.ONE_VEC3, err
	}
	return translation, rotation, scale, nil
}

// parseVec3 はスライスをVec3へ変換する。
func parseVec3(values []float64, defaultValue mmath.Vec3, label string) (mmath.Vec3, error) {
	if len(values) == 0 {
		return defaultValue, nil
	}
	if len(values) != 3 {
		return mmath.ZERO_VEC3, io_common.NewIoParseFailed("%s の要素数が不正です: %d", nil, label, len(values))
	}
	return mmath.Vec3{Vec: r3.Vec{X: values[0], Y: values[1], Z: values[2]}}, nil
}

// parseQuaternion はスライスをQuaternionへ変換する。
func parseQuaternion(values []float64) (mmath.Quaternion, error) {
	if len(values) == 0 {
		return mmath.NewQuaternion(), nil
	}
	if len(values) != 4 {
		return mmath.NewQuaternion(), io_common.NewIoParseFailed("node.rotation の要素数が不正です: %d", nil, len(values))
	}
	return mmath.NewQuaternionByValues(values[0], values[1], values[2], values[3]).Normalized(), nil
}

// parseNodeExtras はnode.extrasをメタデータへ変換する。
// 文字列値はそのまま、その他のJSON値は原文のまま保持する。
func parseNodeExtras(extras json.RawMessage) (map[string]string, error) {
	if len(extras) == 0 {
		return map[string]string{}, nil
	}
	rawValues := map[string]json.RawMessage{}
	if err := json.Unmarshal(extras, &rawValues); err != nil {
		// extrasがオブジェクトでない場合はメタデータ無しとして扱う。
		logSceneWarn("node.extras がオブジェクトではありません: %s", string(extras))
		return map[string]string{}, nil
	}
	metadata := make(map[string]string, len(rawValues))
	for key, raw := range rawValues {
		value := ""
		if err := json.Unmarshal(raw, &value); err != nil {
			value = string(raw)
		}
		metadata[key] = value
	}
	return metadata, nil
}

// buildSkeleton はskin要素からスケルトンを構築する。
// ボーンの並びはjoints宣言順をそのまま採用する。
func buildSkeleton(doc *gltfDocument, skinIndex int) (*model.Skeleton, error) {
	if skinIndex < 0 || skinIndex >= len(doc.Skins) {
		return nil, io_common.NewIoParseFailed("node.skin のindexが不正です: %d", nil, skinIndex)
	}
	skin := doc.Skins[skinIndex]

	jointToBoneIndex := make(map[int]int, len(skin.Joints))
	for boneIndex, jointNodeIndex := range skin.Joints {
		if jointNodeIndex < 0 || jointNodeIndex >= len(doc.Nodes) {
			return nil, io_common.NewIoParseFailed("skin.joints のindexが不正です: %d", nil, jointNodeIndex)
		}
		if _, exists := jointToBoneIndex[jointNodeIndex]; !exists {
			jointToBoneIndex[jointNodeIndex] = boneIndex
		}
	}

	jointParents := buildJointParentIndexes(doc, skin, jointToBoneIndex)

	skeleton := model.NewSkeleton()
	for boneIndex, jointNodeIndex := range skin.Joints {
		jointNode := doc.Nodes[jointNodeIndex]
		bone := model.NewBoneByName(resolveSceneNodeName(jointNodeIndex, jointNode.Name))
		bone.ParentIndex = jointParents[boneIndex]

		translation, rotation, _, err := parseNodeTransform(jointNode)
		if err != nil {
			return nil, err
		}
		bone.RestTranslation = translation
		bone.RestRotation = rotation
		skeleton.AppendBone(bone)
	}
	return skeleton, nil
}

// buildJointParentIndexes はjoint集合内で完結する親indexを算出する。
// 親nodeがjoint集合外の場合はルートボーン扱いとする。
func buildJointParentIndexes(doc *gltfDocument, skin gltfSkin, jointToBoneIndex map[int]int) []int {
	nodeParents := make([]int, len(doc.Nodes))
	for i := range nodeParents {
		nodeParents[i] = -1
	}
	for parentIndex, node := range doc.Nodes {
		for _, childIndex := range node.Children {
			if childIndex >= 0 && childIndex < len(doc.Nodes) && nodeParents[childIndex] == -1 {
				nodeParents[childIndex] = parentIndex
			}
		}
	}

	jointParents := make([]int, len(skin.Joints))
	for boneIndex, jointNodeIndex := range skin.Joints {
		jointParents[boneIndex] = -1
		parentNodeIndex := nodeParents[jointNodeIndex]
		if parentNodeIndex < 0 {
			continue
		}
		if parentBoneIndex, ok := jointToBoneIndex[parentNodeIndex]; ok {
			jointParents[boneIndex] = parentBoneIndex
		}
	}
	return jointParents
}
