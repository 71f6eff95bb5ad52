// 指示: miu200521358
// Package rigging はメタデータ由来のリグ設定スキーマと解析を提供する。
package rigging

import (
	"encoding/json"
	"strings"
)

const (
	// JiggleConfigMetadataKey はアーマチュアノードに格納される揺れ骨設定のキー。
	JiggleConfigMetadataKey = "jiggle_bones_config"
	// BoneAttachmentMetadataKey はアタッチ要求ノードに格納される設定のキー。
	BoneAttachmentMetadataKey = "metamagic_bone_attachment"
)

const (
	// DefaultStiffness は剛性の既定値。
	DefaultStiffness = 1.0
	// DefaultDrag は空気抵抗の既定値。
	DefaultDrag = 0.4
	// DefaultGravity は重力の既定値。
	DefaultGravity = 0.0
	// DefaultRadius は衝突半径の既定値。
	DefaultRadius = 0.02
)

// ParseState はメタデータ解析の3値結果を表す。
// 「未設定」と「形式不正」を区別し、暗黙の空設定へ落とさない。
type ParseState string

const (
	// PARSE_STATE_CONFIGURED は設定が有効に解析できた状態を表す。
	PARSE_STATE_CONFIGURED ParseState = "configured"
	// PARSE_STATE_NOT_CONFIGURED はキー自体が存在しない状態を表す。
	PARSE_STATE_NOT_CONFIGURED ParseState = "not_configured"
	// PARSE_STATE_MALFORMED は値が期待形式で解析できない状態を表す。
	PARSE_STATE_MALFORMED ParseState = "malformed"
)

// JiggleChainConfig は揺れ骨チェーン1本分の設定を表す。
type JiggleChainConfig struct {
	StartBone     string
	EndBone       string
	Stiffness     float64
	Drag          float64
	Gravity       float64
	Radius        float64
	ExtendEndBone bool
}

// JiggleChainListResult は揺れ骨設定リストの解析結果を表す。
type JiggleChainListResult struct {
	State ParseState
	// Chains は既定値適用済みのチェーン設定をリスト順で保持する。
	Chains []JiggleChainConfig
	// DroppedElementCount はオブジェクトでない要素など、要素単位で落とした件数。
	DroppedElementCount int
}

// jiggleChainPayload は要素単位のJSON形状を表す。欠落判定のためポインタで受ける。
type jiggleChainPayload struct {
	StartBone     *string  `json:"start_bone"`
	EndBone       *string  `json:"end_bone"`
	Stiffness     *float64 `json:"stiffness"`
	Drag          *float64 `json:"drag"`
	Gravity       *float64 `json:"gravity"`
	Radius        *float64 `json:"radius"`
	ExtendEndBone *bool    `json:"extend_end_bone"`
}

// ParseJiggleChainList はノードメタデータから揺れ骨設定リストを解析する。
func ParseJiggleChainList(metadata map[string]string) JiggleChainListResult {
	raw, exists := metadata[JiggleConfigMetadataKey]
	if !exists {
		return JiggleChainListResult{State: PARSE_STATE_NOT_CONFIGURED}
	}

	elements := []json.RawMessage{}
	if err := json.Unmarshal([]byte(raw), &elements); err != nil {
		return JiggleChainListResult{State: PARSE_STATE_MALFORMED}
	}

	result := JiggleChainListResult{
		State:  PARSE_STATE_CONFIGURED,
		Chains: make([]JiggleChainConfig, 0, len(elements)),
	}
	for _, element := range elements {
		payload := jiggleChainPayload{}
		if err := json.Unmarshal(element, &payload); err != nil {
			result.DroppedElementCount++
			continue
		}
		result.Chains = append(result.Chains, buildJiggleChainConfig(payload))
	}
	return result
}

// buildJiggleChainConfig は欠落フィールドへ既定値を適用した設定を生成する。
func buildJiggleChainConfig(payload jiggleChainPayload) JiggleChainConfig {
	config := JiggleChainConfig{
		Stiffness: DefaultStiffness,
		Drag:      DefaultDrag,
		Gravity:   DefaultGravity,
		Radius:    DefaultRadius,
	}
	if payload.StartBone != nil {
		config.StartBone = strings.TrimSpace(*payload.StartBone)
	}
	if payload.EndBone != nil {
		config.EndBone = strings.TrimSpace(*payload.EndBone)
	}
	if payload.Stiffness != nil {
		config.Stiffness = *payload.Stiffness
	}
	if payload.Drag != nil {
		config.Drag = *payload.Drag
	}
	if payload.Gravity != nil {
		config.Gravity = *payload.Gravity
	}
	if payload.Radius != nil {
		config.Radius = *payload.Radius
	}
	if payload.ExtendEndBone != nil {
		config.ExtendEndBone = *payload.ExtendEndBone
	}
	return config
}

// BoneAttachmentConfig はボーンアタッチ要求1件分の設定を表す。
type BoneAttachmentConfig struct {
	Armature string `json:"armature"`
	Bone     string `json:"bone"`
}

// BoneAttachmentResult はボーンアタッチ設定の解析結果を表す。
type BoneAttachmentResult struct {
	State  ParseState
	Config BoneAttachmentConfig
}

// ParseBoneAttachment はノードメタデータからボーンアタッチ設定を解析する。
// 必須フィールドの欠落・空文字は形式不正として扱う。
func ParseBoneAttachment(metadata map[string]string) BoneAttachmentResult {
	raw, exists := metadata[BoneAttachmentMetadataKey]
	if !exists {
		return BoneAttachmentResult{State: PARSE_STATE_NOT_CONFIGURED}
	}

	config := BoneAttachmentConfig{}
	if err := json.Unmarshal([]byte(raw), &config); err != nil {
		return BoneAttachmentResult{State: PARSE_STATE_MALFORMED}
	}
	config.Armature = strings.TrimSpace(config.Armature)
	config.Bone = strings.TrimSpace(config.Bone)
	if config.Armature == "" || config.Bone == "" {
		return BoneAttachmentResult{State: PARSE_STATE_MALFORMED}
	}
	return BoneAttachmentResult{State: PARSE_STATE_CONFIGURED, Config: config}
}
