// 指示: miu200521358
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/miu200521358/mu_metamagic/pkg/adapter/io_scene/gltf"
	"github.com/miu200521358/mu_metamagic/pkg/adapter/mpresenter/messages"
	"github.com/miu200521358/mu_metamagic/pkg/usecase/minteractor"
)

// options はCLI引数を保持する。
type options struct {
	inputPath  string
	outputPath string
}

// main はシーン読込とインポート後拡張を実行する。
func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run はCLI処理全体を実行する。
func run(args []string, out io.Writer, errOut io.Writer) error {
	opts, err := parseOptions(args, errOut)
	if err != nil {
		return err
	}

	sceneRepository := gltf.NewSceneRepository()
	if !sceneRepository.CanLoad(opts.inputPath) {
		return fmt.Errorf("入力形式が未対応です: %s", opts.inputPath)
	}

	usecase := minteractor.NewMetamagicUsecase(minteractor.MetamagicUsecaseDeps{
		SceneReader:  sceneRepository,
		ReportWriter: gltf.NewSceneReportWriter(),
	})

	root, err := usecase.LoadScene(nil, opts.inputPath)
	if err != nil {
		return fmt.Errorf("%s: %w", messages.MessageLoadFailed, err)
	}
	if root == nil {
		return fmt.Errorf("%s: %s", messages.MessageSceneDataMissing, opts.inputPath)
	}
	fmt.Fprintf(out, "[mu_metamagic] "+messages.LogLoadSuccess+"\n", filepath.Base(opts.inputPath))

	result, err := usecase.PostImport(minteractor.PostImportRequest{Root: root})
	if err != nil {
		return fmt.Errorf("%s: %w", messages.MessageAugmentFailed, err)
	}
	fmt.Fprintf(
		out,
		"[mu_metamagic] 拡張完了: anchors=%d rigs=%d slots=%d droppedChains=%d skippedAttachments=%d\n",
		result.AnchorCount,
		result.RigCount,
		result.SlotCount,
		result.DroppedChainCount,
		result.SkippedAttachmentCount,
	)

	outputPath, err := resolveOutputPath(opts.inputPath, opts.outputPath)
	if err != nil {
		return err
	}
	if err := ensureOutputDir(outputPath); err != nil {
		return err
	}

	if err := usecase.SaveReport(nil, outputPath, root, minteractor.SaveOptions{Indent: true}); err != nil {
		return fmt.Errorf("%s: %w", messages.MessageSaveFailed, err)
	}
	fmt.Fprintf(out, "[mu_metamagic] "+messages.LogAugmentSuccess+"\n", outputPath)
	return nil
}

// parseOptions はCLI引数を解析する。
func parseOptions(args []string, errOut io.Writer) (options, error) {
	fs := flag.NewFlagSet("mu_metamagic", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.Usage = func() {
		fmt.Fprintf(errOut, "%s: %s\n", messages.HelpUsageTitle, messages.HelpUsage)
		fmt.Fprintf(errOut, "  -in   %s: %s\n", messages.LabelScenePath, messages.LabelScenePathTip)
		fmt.Fprintf(errOut, "  -out  %s: %s\n", messages.LabelReportPath, messages.LabelReportPathTip)
	}

	in := fs.String("in", "", messages.LabelScenePathTip)
	out := fs.String("out", "", messages.LabelReportPathTip)
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if *in == "" && fs.NArg() > 0 {
		*in = fs.Arg(0)
	}
	if *out == "" && fs.NArg() > 1 {
		*out = fs.Arg(1)
	}
	if *in == "" {
		return options{}, fmt.Errorf("%s (-in)", messages.MessageInputRequired)
	}

	ext := filepath.Ext(*in)
	if !strings.EqualFold(ext, ".glb") && !strings.EqualFold(ext, ".gltf") {
		return options{}, fmt.Errorf("入力拡張子が .glb/.gltf ではありません: %s", *in)
	}

	return options{inputPath: *in, outputPath: *out}, nil
}

// resolveOutputPath は出力レポートパスを解決する。
func resolveOutputPath(inputPath string, outputPath string) (string, error) {
	if strings.TrimSpace(outputPath) == "" {
		dir := filepath.Dir(inputPath)
		base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
		return filepath.Join(dir, base+".report.json"), nil
	}
	if !strings.EqualFold(filepath.Ext(outputPath), ".json") {
		return "", fmt.Errorf("出力拡張子が .json ではありません: %s", outputPath)
	}
	return outputPath, nil
}

// ensureOutputDir は出力先ディレクトリを作成する。
func ensureOutputDir(outputPath string) error {
	dir := filepath.Dir(outputPath)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("出力先ディレクトリの作成に失敗しました: %w", err)
	}
	return nil
}
