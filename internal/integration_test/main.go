// 指示: miu200521358
package main

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/miu200521358/mu_bvh_conv/pkg/adapter/io_motion/bvhio"
	"github.com/miu200521358/mu_bvh_conv/pkg/adapter/io_motion/csvtable"
	"github.com/miu200521358/mu_bvh_conv/pkg/usecase/binteractor"
)

const (
	batchOutputDirMode = 0o755
	// motionTolerance はCSV往復後に許容するモーション値の誤差。
	// CSVセルは小数5桁で書き出すため、その丸め分を見込む。
	motionTolerance = 1e-4
)

var targetMotionPaths = []string{
	"E:/MMD_E/motion/bvh/cmu/01/01_01.bvh",
	// "E:/MMD_E/motion/bvh/cmu/01/01_02.bvh",
	// "E:/MMD_E/motion/bvh/cmu/02/02_01.bvh",
	// "E:/MMD_E/motion/bvh/accad/Female1_B03_Walk1.bvh",
	// "E:/MMD_E/motion/bvh/accad/Male1_A1_Stand.bvh",
	// "C:/Codex/mocap/test_resources/bvh/walk_loop.bvh",
	// "C:/Codex/mocap/test_resources/bvh/run_cycle.bvh",
}

// batchConfig はバッチ検証の実行設定を表す。
type batchConfig struct {
	OutputRoot string
	DryRun     bool
	FailFast   bool
}

// roundTripEntry は1モーション分の検証入力情報を表す。
type roundTripEntry struct {
	Index      int
	SourcePath string
	MotionName string
	CaseDir    string
	OutputPath string
}

// roundTripResult は1モーション分の検証結果を表す。
type roundTripResult struct {
	Entry    roundTripEntry
	Status   string
	Duration time.Duration
	Err      error
	Frames   int
}

// main はBVHのCSV往復一括検証を実行する。
func main() {
	os.Exit(run())
}

// run は実行設定を解決して一括検証を実行し、終了コードを返す。
func run() int {
	config, err := parseBatchConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "設定解析に失敗しました: %v\n", err)
		return 2
	}
	entries := buildRoundTripEntries(config.OutputRoot, targetMotionPaths)
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "検証対象モーションがありません")
		return 2
	}

	results := executeBatchRoundTrip(config, entries)
	printBatchSummary(results)

	for _, result := range results {
		if result.Status == "failed" {
			return 1
		}
	}
	return 0
}

// parseBatchConfig はコマンドライン引数から実行設定を構築する。
func parseBatchConfig() (batchConfig, error) {
	defaultOutputRoot, err := resolveDefaultOutputRoot()
	if err != nil {
		return batchConfig{}, err
	}
	outputRoot := flag.String("output-root", defaultOutputRoot, "検証結果の出力ルートディレクトリ")
	dryRun := flag.Bool("dry-run", false, "実変換せず、入力解決と出力先計画のみ表示する")
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

// buildRoundTripEntries は入力パス一覧から検証対象エントリを生成する。
func buildRoundTripEntries(outputRoot string, inputPaths []string) []roundTripEntry {
	entries := make([]roundTripEntry, 0, len(inputPaths))
	for i, rawPath := range inputPaths {
		resolvedInputPath := normalizeInputPath(rawPath)
		motionName := resolveMotionName(rawPath)
		safeMotionName := sanitizePathComponent(motionName)
		caseDirName := fmt.Sprintf("%03d_%s", i+1, safeMotionName)
		caseDir := filepath.Join(outputRoot, caseDirName)
		outputPath := filepath.Join(caseDir, safeMotionName+".bvh")
		entries = append(entries, roundTripEntry{
			Index:      i + 1,
			SourcePath: resolvedInputPath,
			MotionName: motionName,
			CaseDir:    caseDir,
			OutputPath: outputPath,
		})
	}
	return entries
}

// executeBatchRoundTrip は全モーションの往復検証を順次実行する。
func executeBatchRoundTrip(config batchConfig, entries []roundTripEntry) []roundTripResult {
	results := make([]roundTripResult, 0, len(entries))
	motionRepo := bvhio.NewBvhRepository()
	usecase := binteractor.NewBvhConvUsecase(binteractor.BvhConvUsecaseDeps{
		MotionReader: motionRepo,
		MotionWriter: motionRepo,
		TableRepo:    csvtable.NewCsvTableRepository(),
	})

	total := len(entries)
	for _, entry := range entries {
		fmt.Printf("[%d/%d] 検証開始: motion=%s\n", entry.Index, total, entry.MotionName)
		result := verifyMotionEntry(usecase, config, entry)
		results = append(results, result)
		switch result.Status {
		case "succeeded":
			fmt.Printf("[%d/%d] 検証成功: motion=%s frames=%d output=%s elapsed=%s\n", entry.Index, total, entry.MotionName, result.Frames, entry.OutputPath, result.Duration.Round(time.Millisecond))
		case "dry_run":
			fmt.Printf("[%d/%d] DRY-RUN: motion=%s input=%s output=%s\n", entry.Index, total, entry.MotionName, entry.SourcePath, entry.OutputPath)
		case "skipped_missing":
			fmt.Printf("[%d/%d] 入力不足でスキップ: motion=%s input=%s reason=%v\n", entry.Index, total, entry.MotionName, entry.SourcePath, result.Err)
		default:
			fmt.Printf("[%d/%d] 検証失敗: motion=%s reason=%v\n", entry.Index, total, entry.MotionName, result.Err)
			if config.FailFast {
				return results
			}
		}
	}
	return results
}

// verifyMotionEntry は1モーション分のBVH→CSV→BVH往復検証を実行する。
func verifyMotionEntry(usecase *binteractor.BvhConvUsecase, config batchConfig, entry roundTripEntry) roundTripResult {
	result := roundTripResult{
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
	csvResult, err := usecase.Bvh2Csv(binteractor.Bvh2CsvRequest{
		InputPath:       entry.SourcePath,
		OutputDir:       entry.CaseDir,
		ExportRotation:  true,
		ExportPosition:  true,
		ExportHierarchy: true,
	})
	if err != nil {
		result.Err = fmt.Errorf("Bvh2Csvに失敗しました: %w", err)
		return result
	}
	if _, err := usecase.Csv2Bvh(binteractor.Csv2BvhRequest{
		HierarchyPath: csvResult.HierarchyPath,
		PositionPath:  csvResult.PositionPath,
		RotationPath:  csvResult.RotationPath,
		OutputPath:    entry.OutputPath,
	}); err != nil {
		result.Err = fmt.Errorf("Csv2Bvhに失敗しました: %w", err)
		return result
	}

	frames, err := compareMotions(entry.SourcePath, entry.OutputPath)
	if err != nil {
		result.Err = err
		return result
	}
	result.Status = "succeeded"
	result.Duration = time.Since(startedAt)
	result.Frames = frames
	return result
}

// compareMotions は往復前後のBVHを読み直してモーション値を突き合わせる。
func compareMotions(originalPath, rebuiltPath string) (int, error) {
	repo := bvhio.NewBvhRepository()
	original, err := repo.Load(originalPath)
	if err != nil {
		return 0, fmt.Errorf("元BVHの再読み込みに失敗しました: %w", err)
	}
	rebuilt, err := repo.Load(rebuiltPath)
	if err != nil {
		return 0, fmt.Errorf("再構築BVHの読み込みに失敗しました: %w", err)
	}
	if rebuilt.Skeleton().Len() != original.Skeleton().Len() {
		return 0, fmt.Errorf("関節数が一致しません: %d != %d", rebuilt.Skeleton().Len(), original.Skeleton().Len())
	}
	if rebuilt.Motion().FrameCount() != original.Motion().FrameCount() {
		return 0, fmt.Errorf("フレーム数が一致しません: %d != %d", rebuilt.Motion().FrameCount(), original.Motion().FrameCount())
	}
	if rebuilt.Motion().ColCount() != original.Motion().ColCount() {
		return 0, fmt.Errorf("チャネル列数が一致しません: %d != %d", rebuilt.Motion().ColCount(), original.Motion().ColCount())
	}
	for f := 0; f < original.Motion().FrameCount(); f++ {
		for c := 0; c < original.Motion().ColCount(); c++ {
			diff := math.Abs(rebuilt.Motion().Value(f, c) - original.Motion().Value(f, c))
			if diff > motionTolerance {
				return 0, fmt.Errorf("モーション値が一致しません: frame=%d col=%d diff=%g", f, c, diff)
			}
		}
	}
	return original.Motion().FrameCount(), nil
}

// printBatchSummary は検証結果の集計を標準出力へ表示する。
func printBatchSummary(results []roundTripResult) {
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
		"バッチ検証サマリ: total=%d succeeded=%d failed=%d skipped_missing=%d dry_run=%d\n",
		len(results),
		succeeded,
		failed,
		skipped,
		dryRun,
	)
}

// resolveMotionName は入力パスから拡張子を除いたモーション名を返す。
func resolveMotionName(path string) string {
	base := strings.TrimSpace(filepath.Base(path))
	ext := filepath.Ext(base)
	name := strings.TrimSpace(strings.TrimSuffix(base, ext))
	if name == "" {
		return "motion"
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
		return "motion"
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
		return "motion"
	}
	return replaced
}
