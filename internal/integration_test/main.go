// 指示: miu200521358
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/miu200521358/mu_metamagic/pkg/adapter/io_scene/gltf"
	"github.com/miu200521358/mu_metamagic/pkg/usecase/minteractor"
)

const (
	batchOutputDirMode = 0o755
)

var targetScenePaths = []string{
	"E:/MMD_E/202101_vroid/Scenes/hair_jiggle_check.glb",
	// "E:/MMD_E/202101_vroid/Scenes/skirt_chain_branch.glb",
	// "E:/MMD_E/202101_vroid/Scenes/sword_attachment.gltf",
	// "E:/MMD_E/202101_vroid/Scenes/twin_tail_full_rig.glb",
	// "C:/Codex/mlib/mu_metamagic/internal/test_resources/gltf/attach_offset_check.gltf",
	// "C:/Codex/mlib/mu_metamagic/internal/test_resources/gltf/multi_skeleton.glb",
}

// batchConfig はバッチ拡張の実行設定を表す。
type batchConfig struct {
	OutputRoot string
	DryRun     bool
	FailFast   bool
}

// augmentEntry は1シーン分の拡張入力情報を表す。
type augmentEntry struct {
	Index      int
	SourcePath string
	SceneName  string
	CaseDir    string
	OutputPath string
}

// augmentResult は1シーン分の拡張結果を表す。
type augmentResult struct {
	Entry            augmentEntry
	Status           string
	Duration         time.Duration
	Err              error
	ProgressInfo     string
	AnchorCount      int
	SlotCount        int
	DroppedChainInfo int
}

// postImportProgressCollector は PostImport の進捗イベントを収集する。
type postImportProgressCollector struct {
	eventCounts map[minteractor.PostImportProgressEventType]int
	nodeMax     int
	skeletonMax int
	anchorMax   int
	rigMax      int
	slotMax     int
}

// main は検証向けのシーン一括拡張を実行する。
func main() {
	os.Exit(run())
}

// run は実行設定を解決して一括拡張を実行し、終了コードを返す。
func run() int {
	config, err := parseBatchConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "設定解析に失敗しました: %v\n", err)
		return 2
	}
	entries := buildAugmentEntries(config.OutputRoot, targetScenePaths)
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "拡張対象シーンがありません")
		return 2
	}

	results := executeBatchAugment(config, entries)
	printBatchSummary(results)

	hasFailed := false
	for _, result := range results {
		if result.Status == "failed" {
			hasFailed = true
			break
		}
	}
	if hasFailed {
		return 1
	}
	return 0
}

// parseBatchConfig はコマンドライン引数から実行設定を構築する。
func parseBatchConfig() (batchConfig, error) {
	defaultOutputRoot, err := resolveDefaultOutputRoot()
	if err != nil {
		return batchConfig{}, err
	}
	outputRoot := flag.String("output-root", defaultOutputRoot, "拡張結果の出力ルートディレクトリ")
	dryRun := flag.Bool("dry-run", false, "実拡張せず、入力解決と出力先計画のみ表示する")
	failFast := flag.Bool("fail-fast", false, "失敗時に即時終了する")
	flag.Parse()

	trimmedOutputRoot := strings.TrimSpace(*outputRoot)
	if trimmedOutputRoot == "" {
		return batchConfig{}, errors.New("output-root が空です")
	}
	return batchConfig{
		OutputRoot: filepath.Clean(trimmedOutputRoot),
		DryRun:     *dryRun,
		FailFast:   *failFast,
	}, nil
}

// resolveDefaultOutputRoot はスクリプト配置ディレクトリ基準の既定出力先を返す。
func resolveDefaultOutputRoot() (string, error) {
	_, currentFilePath, _, ok := runtime.Caller(0)
	if !ok {
		return "", errors.New("実行ファイル位置を取得できません")
	}
	currentDir := filepath.Dir(currentFilePath)
	return filepath.Join(currentDir, "output"), nil
}

// buildAugmentEntries は入力パス一覧から拡張対象エントリを生成する。
func buildAugmentEntries(outputRoot string, inputPaths []string) []augmentEntry {
	entries := make([]augmentEntry, 0, len(inputPaths))
	for i, rawPath := range inputPaths {
		resolvedInputPath := normalizeInputPath(rawPath)
		sceneName := resolveSceneName(rawPath)
		safeSceneName := sanitizePathComponent(sceneName)
		caseDirName := fmt.Sprintf("%03d_%s", i+1, safeSceneName)
		caseDir := filepath.Join(outputRoot, caseDirName)
		outputPath := filepath.Join(caseDir, safeSceneName+".report.json")
		entries = append(entries, augmentEntry{
			Index:      i + 1,
			SourcePath: resolvedInputPath,
			SceneName:  sceneName,
			CaseDir:    caseDir,
			OutputPath: outputPath,
		})
	}
	return entries
}

// executeBatchAugment は全シーンの拡張処理を順次実行する。
func executeBatchAugment(config batchConfig, entries []augmentEntry) []augmentResult {
	results := make([]augmentResult, 0, len(entries))
	usecase := minteractor.NewMetamagicUsecase(minteractor.MetamagicUsecaseDeps{
		SceneReader:  gltf.NewSceneRepository(),
		ReportWriter: gltf.NewSceneReportWriter(),
	})

	total := len(entries)
	for _, entry := range entries {
		fmt.Printf("[%d/%d] 拡張開始: scene=%s\n", entry.Index, total, entry.SceneName)
		result := augmentSceneEntry(usecase, config, entry)
		results = append(results, result)
		switch result.Status {
		case "succeeded":
			fmt.Printf("[%d/%d] 拡張成功: scene=%s output=%s anchors=%d slots=%d elapsed=%s\n", entry.Index, total, entry.SceneName, entry.OutputPath, result.AnchorCount, result.SlotCount, result.Duration.Round(time.Millisecond))
			if strings.TrimSpace(result.ProgressInfo) != "" {
				fmt.Printf("[%d/%d] PostImport進捗: %s\n", entry.Index, total, result.ProgressInfo)
			}
		case "dry_run":
			fmt.Printf("[%d/%d] DRY-RUN: scene=%s input=%s output=%s\n", entry.Index, total, entry.SceneName, entry.SourcePath, entry.OutputPath)
		case "skipped_missing":
			fmt.Printf("[%d/%d] 入力不足でスキップ: scene=%s input=%s reason=%v\n", entry.Index, total, entry.SceneName, entry.SourcePath, result.Err)
		default:
			fmt.Printf("[%d/%d] 拡張失敗: scene=%s reason=%v\n", entry.Index, total, entry.SceneName, result.Err)
			if config.FailFast {
				return results
			}
		}
	}
	return results
}

// augmentSceneEntry は1シーン分の拡張を実行する。
func augmentSceneEntry(usecase *minteractor.MetamagicUsecase, config batchConfig, entry augmentEntry) augmentResult {
	result := augmentResult{
		Entry:  entry,
		Status: "failed",
	}
	if _, err := os.Stat(entry.SourcePath); err != nil {
		result.Status = "skipped_missing"
		result.Err = err
		return result
	}
	if config.DryRun {
		result.Status = "dry_run"
		return result
	}
	if err := os.MkdirAll(entry.CaseDir, batchOutputDirMode); err != nil {
		result.Err = fmt.Errorf("出力ディレクトリ作成に失敗しました: %w", err)
		return result
	}

	startedAt := time.Now()
	progressCollector := newPostImportProgressCollector()
	root, err := usecase.LoadScene(nil, entry.SourcePath)
	if err != nil {
		result.Err = fmt.Errorf("LoadSceneに失敗しました: %w", err)
		return result
	}
	postImportResult, err := usecase.PostImport(minteractor.PostImportRequest{
		Root:             root,
		ProgressReporter: progressCollector,
	})
	if err != nil {
		result.Err = fmt.Errorf("PostImportに失敗しました: %w", err)
		return result
	}
	if err := usecase.SaveReport(nil, entry.OutputPath, root, minteractor.SaveOptions{Indent: true}); err != nil {
		result.Err = fmt.Errorf("SaveReportに失敗しました: %w", err)
		return result
	}

	result.Status = "succeeded"
	result.Duration = time.Since(startedAt)
	result.ProgressInfo = progressCollector.Summary()
	result.AnchorCount = postImportResult.AnchorCount
	result.SlotCount = postImportResult.SlotCount
	result.DroppedChainInfo = postImportResult.DroppedChainCount
	return result
}

// printBatchSummary は拡張結果の集計を標準出力へ表示する。
func printBatchSummary(results []augmentResult) {
	succeeded := 0
	failed := 0
	skipped := 0
	dryRun := 0
	for _, result := range results {
		switch result.Status {
		case "succeeded":
			succeeded++
		case "dry_run":
			dryRun++
		case "skipped_missing":
			skipped++
		default:
			failed++
		}
	}
	fmt.Printf(
		"バッチ拡張サマリ: total=%d succeeded=%d failed=%d skipped_missing=%d dry_run=%d\n",
		len(results),
		succeeded,
		failed,
		skipped,
		dryRun,
	)
}

// resolveSceneName は入力パスから拡張子を除いたシーン名を返す。
func resolveSceneName(path string) string {
	base := strings.TrimSpace(filepath.Base(path))
	ext := filepath.Ext(base)
	name := strings.TrimSpace(strings.TrimSuffix(base, ext))
	if name == "" {
		return "scene"
	}
	return name
}

// normalizeInputPath は入力パスを実行環境向けに正規化する。
func normalizeInputPath(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return ""
	}
	return filepath.Clean(convertWindowsPathToWsl(path))
}

// convertWindowsPathToWsl は Linux 実行時に Windows パスを WSL パスへ変換する。
func convertWindowsPathToWsl(path string) string {
	trimmed := strings.TrimSpace(path)
	if runtime.GOOS != "linux" {
		return trimmed
	}
	if len(trimmed) < 2 || trimmed[1] != ':' {
		return trimmed
	}
	drive := strings.ToLower(trimmed[:1])
	rest := strings.ReplaceAll(trimmed[2:], "\\", "/")
	if rest == "" {
		return filepath.ToSlash(filepath.Join("/mnt", drive))
	}
	if !strings.HasPrefix(rest, "/") {
		rest = "/" + rest
	}
	return filepath.ToSlash(filepath.Join("/mnt", drive) + rest)
}

// sanitizePathComponent は出力ディレクトリ/ファイル名に使えない文字を置換する。
func sanitizePathComponent(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "scene"
	}
	replaced := strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			return '_'
		default:
			if r < 0x20 {
				return '_'
			}
			return r
		}
	}, trimmed)
	replaced = strings.Trim(replaced, " .")
	if replaced == "" {
		return "scene"
	}
	return replaced
}

// newPostImportProgressCollector は PostImport 進捗収集器を生成する。
func newPostImportProgressCollector() *postImportProgressCollector {
	return &postImportProgressCollector{
		eventCounts: map[minteractor.PostImportProgressEventType]int{},
	}
}

// ReportPostImportProgress は PostImport の進捗イベントを収集する。
func (collector *postImportProgressCollector) ReportPostImportProgress(event minteractor.PostImportProgressEvent) {
	if collector == nil {
		return
	}
	if collector.eventCounts == nil {
		collector.eventCounts = map[minteractor.PostImportProgressEventType]int{}
	}
	collector.eventCounts[event.Type]++
	if event.NodeCount > collector.nodeMax {
		collector.nodeMax = event.NodeCount
	}
	if event.SkeletonCount > collector.skeletonMax {
		collector.skeletonMax = event.SkeletonCount
	}
	if event.AnchorCount > collector.anchorMax {
		collector.anchorMax = event.AnchorCount
	}
	if event.RigCount > collector.rigMax {
		collector.rigMax = event.RigCount
	}
	if event.SlotCount > collector.slotMax {
		collector.slotMax = event.SlotCount
	}
}

// Summary は収集した PostImport 進捗の要約文字列を返す。
func (collector *postImportProgressCollector) Summary() string {
	if collector == nil || len(collector.eventCounts) == 0 {
		return ""
	}
	types := make([]string, 0, len(collector.eventCounts))
	for stageType := range collector.eventCounts {
		types = append(types, string(stageType))
	}
	sort.Strings(types)
	return fmt.Sprintf(
		"events=%d nodes=%d skeletons=%d anchors=%d rigs=%d slots=%d stages=%s",
		len(collector.eventCounts),
		collector.nodeMax,
		collector.skeletonMax,
		collector.anchorMax,
		collector.rigMax,
		collector.slotMax,
		strings.Join(types, ","),
	)
}
