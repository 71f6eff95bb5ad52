// 指示: miu200521358
package minteractor

import (
	"fmt"

	"github.com/miu200521358/mu_metamagic/pkg/domain/model"
	"github.com/miu200521358/mu_metamagic/pkg/usecase/port/moutput"
)

// MetamagicUsecaseDeps はシーン拡張ユースケースの依存を表す。
type MetamagicUsecaseDeps struct {
	SceneReader  moutput.ISceneReader
	ReportWriter moutput.IReportWriter
}

// MetamagicUsecase はインポート後のシーン拡張処理をまとめたユースケースを表す。
type MetamagicUsecase struct {
	sceneReader  moutput.ISceneReader
	reportWriter moutput.IReportWriter
}

// NewMetamagicUsecase はシーン拡張ユースケースを生成する。
func NewMetamagicUsecase(deps MetamagicUsecaseDeps) *MetamagicUsecase {
	return &MetamagicUsecase{
		sceneReader:  deps.SceneReader,
		reportWriter: deps.ReportWriter,
	}
}

// LoadScene はシーンを読み込む。
func (uc *MetamagicUsecase) LoadScene(rep moutput.ISceneReader, path string) (*model.Node, error) {
	repo := rep
	if repo == nil {
		repo = uc.sceneReader
	}
	if repo == nil {
		return nil, fmt.Errorf("シーン読み込みリポジトリが設定されていません")
	}
	return repo.Load(path)
}

// SaveReport は拡張後シーンレポートを保存する。
func (uc *MetamagicUsecase) SaveReport(rep moutput.IReportWriter, path string, root *model.Node, opts moutput.SaveOptions) error {
	writer := rep
	if writer == nil {
		writer = uc.reportWriter
	}
	if writer == nil {
		return fmt.Errorf("レポート保存リポジトリが設定されていません")
	}
	if root == nil {
		return fmt.Errorf("保存対象シーンが未設定です")
	}
	return writer.Save(path, root, opts)
}
