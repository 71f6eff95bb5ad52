// 指示: miu200521358
// Package messages はCLI表示に使うメッセージ文言を提供する。
package messages

// メッセージ文言一覧。
const (
	HelpUsageTitle = "使い方"
	HelpUsage      = "mu_metamagic -in <scene.glb|scene.gltf> [-out <report.json>]"

	LabelScenePath     = "シーン入力"
	LabelScenePathTip  = "入力glTF/GLBファイルパス"
	LabelReportPath    = "レポート出力"
	LabelReportPathTip = "出力レポートファイルパス"

	MessageLoadFailed       = "シーン読み込みに失敗しました"
	MessageSaveFailed       = "レポート保存に失敗しました"
	MessageAugmentFailed    = "インポート後処理に失敗しました"
	MessageInputRequired    = "入力glTF/GLBファイルを指定してください"
	MessageSceneDataMissing = "シーンデータが見つかりません"

	LogLoadSuccess    = "シーン読み込み成功: %s"
	LogAugmentSuccess = "レポート保存成功: %s"
)
