// 指示: miu200521358
package moutput

import "github.com/miu200521358/mu_metamagic/pkg/domain/model"

// SaveOptions は保存時のオプションを表す。
type SaveOptions struct {
	// Indent はレポートJSONを整形出力するか。
	Indent bool
}

// ISceneReader はシーン入力の読み込み契約を表す。
type ISceneReader interface {
	// CanLoad は拡張子に応じて読み込み可否を判定する。
	CanLoad(path string) bool
	// InferName はパスから表示名を推定する。
	InferName(path string) string
	// Load はシーンを読み込み、ルートノードを返す。
	Load(path string) (*model.Node, error)
}

// IReportWriter は拡張後シーンレポートの書き込み契約を表す。
type IReportWriter interface {
	// Save はルートノード配下のレポートを保存する。
	Save(path string, root *model.Node, options SaveOptions) error
}
