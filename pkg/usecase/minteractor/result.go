// 指示: miu200521358
package minteractor

import (
	"github.com/miu200521358/mu_metamagic/pkg/domain/model"
	"github.com/miu200521358/mu_metamagic/pkg/usecase/port/moutput"
)

// SceneData は拡張対象シーンのルートノードを表す。
type SceneData = model.Node

// SaveOptions は保存時オプションを表す。
type SaveOptions = moutput.SaveOptions

// PostImportProgressEventType はインポート後処理の進捗イベント種別を表す。
type PostImportProgressEventType string

const (
	// PostImportProgressEventTypeSceneValidated はシーン検証完了イベントを表す。
	PostImportProgressEventTypeSceneValidated PostImportProgressEventType = "scene_validated"
	// PostImportProgressEventTypeAttachmentsApplied はボーンアタッチ適用完了イベントを表す。
	PostImportProgressEventTypeAttachmentsApplied PostImportProgressEventType = "attachments_applied"
	// PostImportProgressEventTypeJiggleApplied は揺れ骨リグ適用完了イベントを表す。
	PostImportProgressEventTypeJiggleApplied PostImportProgressEventType = "jiggle_applied"
	// PostImportProgressEventTypeCompleted はインポート後処理完了イベントを表す。
	PostImportProgressEventTypeCompleted PostImportProgressEventType = "completed"
)

// PostImportProgressEvent はインポート後処理の進捗イベントを表す。
type PostImportProgressEvent struct {
	Type          PostImportProgressEventType
	NodeCount     int
	SkeletonCount int
	AnchorCount   int
	RigCount      int
	SlotCount     int
}

// IPostImportProgressReporter はインポート後処理の進捗通知契約を表す。
type IPostImportProgressReporter interface {
	// ReportPostImportProgress はインポート後処理進捗を通知する。
	ReportPostImportProgress(event PostImportProgressEvent)
}

// PostImportRequest はインポート後処理要求を表す。
type PostImportRequest struct {
	Root             *model.Node
	ProgressReporter IPostImportProgressReporter
}

// PostImportResult はインポート後処理結果を表す。
type PostImportResult struct {
	// AnchorCount は生成したアタッチアンカー数。
	AnchorCount int
	// SkippedAttachmentCount は診断つきで見送ったアタッチ要求数。
	SkippedAttachmentCount int
	// RigCount は生成したシミュレーションリグノード数。
	RigCount int
	// SlotCount は生成したチェーンスロット総数。
	SlotCount int
	// DroppedChainCount はボーン未解決で落としたチェーン数。
	DroppedChainCount int
	// CreatedAnchorNodes は生成順のアンカーノード一覧。
	CreatedAnchorNodes []*model.Node
	// CreatedRigNodes は生成順のリグノード一覧。
	CreatedRigNodes []*model.Node
}

// reportPostImportProgress はインポート後処理の進捗を通知する。
func reportPostImportProgress(reporter IPostImportProgressReporter, event PostImportProgressEvent) {
	if reporter == nil {
		return
	}
	reporter.ReportPostImportProgress(event)
}
