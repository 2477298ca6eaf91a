// 指示: miu200521358
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/cheggaaa/pb/v3"

	"github.com/miu200521358/mu_bvh_conv/pkg/adapter/io_motion/bvhio"
	"github.com/miu200521358/mu_bvh_conv/pkg/adapter/io_motion/csvtable"
	"github.com/miu200521358/mu_bvh_conv/pkg/config/mlog"
	"github.com/miu200521358/mu_bvh_conv/pkg/domain/miter"
	"github.com/miu200521358/mu_bvh_conv/pkg/usecase/binteractor"
)

const usageText = `使い方: mu_bvh_conv <コマンド> [オプション]

コマンド:
  bvh2csv       BVHを階層・位置・回転のCSVへ変換する (ディレクトリ指定で一括変換)
  csv2bvh       階層・位置・回転のCSVからBVHを再構築する
  offsetangles  関節の回転へ固定オフセットを加算する
  removeframes  フレーム範囲を削除する
  renamejoints  関節名をCSVの対応表で置換する

各コマンドの詳細は "mu_bvh_conv <コマンド> -h" で確認できます。
`

// main はBVH変換ツール全体のエントリポイント。
func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run はサブコマンドを振り分けて実行する。
func run(args []string, out io.Writer, errOut io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(errOut, usageText)
		return fmt.Errorf("コマンドを指定してください")
	}

	mlog.Init("info")
	uc := newUsecase()

	switch args[0] {
	case "bvh2csv":
		return runBvh2Csv(uc, args[1:], out, errOut)
	case "csv2bvh":
		return runCsv2Bvh(uc, args[1:], out, errOut)
	case "offsetangles":
		return runOffsetAngles(uc, args[1:], out, errOut)
	case "removeframes":
		return runRemoveFrames(uc, args[1:], out, errOut)
	case "renamejoints":
		return runRenameJoints(uc, args[1:], out, errOut)
	case "-h", "--help", "help":
		fmt.Fprint(out, usageText)
		return nil
	default:
		fmt.Fprint(errOut, usageText)
		return fmt.Errorf("未知のコマンドです: %s", args[0])
	}
}

// newUsecase は実リポジトリを束ねたユースケースを生成する。
func newUsecase() *binteractor.BvhConvUsecase {
	motionRepo := bvhio.NewBvhRepository()
	return binteractor.NewBvhConvUsecase(binteractor.BvhConvUsecaseDeps{
		MotionReader: motionRepo,
		MotionWriter: motionRepo,
		TableRepo:    csvtable.NewCsvTableRepository(),
	})
}

// runBvh2Csv はBVHからCSVへの変換を実行する。入力にディレクトリを
// 指定した場合は直下の *.bvh を並列に一括変換する。
func runBvh2Csv(uc *binteractor.BvhConvUsecase, args []string, out io.Writer, errOut io.Writer) error {
	fs := flag.NewFlagSet("bvh2csv", flag.ContinueOnError)
	fs.SetOutput(errOut)
	in := fs.String("in", "", "入力BVHファイルまたはディレクトリ")
	outDir := fs.String("out", "", "出力ディレクトリ (省略時は入力と同じ場所)")
	scale := fs.Float64("scale", 1.0, "オフセットと位置に掛ける倍率")
	rotation := fs.Bool("rotation", false, "回転CSVを出力する")
	position := fs.Bool("position", false, "ワールド位置CSVを出力する")
	hierarchy := fs.Bool("hierarchy", false, "階層CSVを出力する")
	endSites := fs.Bool("ends", false, "位置CSVへ末端部位も含める")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" && fs.NArg() > 0 {
		*in = fs.Arg(0)
	}
	if *in == "" {
		return fmt.Errorf("入力BVHを指定してください (-in)")
	}
	// 明示指定がなければ3種すべてを出力する。
	if !*rotation && !*position && !*hierarchy {
		*rotation, *position, *hierarchy = true, true, true
	}

	inputPaths, err := collectBvhPaths(*in)
	if err != nil {
		return err
	}

	request := binteractor.Bvh2CsvRequest{
		OutputDir:       *outDir,
		Scale:           *scale,
		ExportRotation:  *rotation,
		ExportPosition:  *position,
		ExportHierarchy: *hierarchy,
		EndSites:        *endSites,
	}
	if len(inputPaths) == 1 {
		request.InputPath = inputPaths[0]
		result, err := uc.Bvh2Csv(request)
		if err != nil {
			return err
		}
		printBvh2CsvResult(out, result)
		return nil
	}

	fmt.Fprintf(out, "[mu_bvh_conv] 一括変換開始: %d件\n", len(inputPaths))
	bar := pb.New(len(inputPaths)).SetWriter(out).Start()
	var failed int64
	miter.IterParallelByList(inputPaths, 1, func(path string, _ int) {
		defer bar.Increment()
		batchRequest := request
		batchRequest.InputPath = path
		if _, err := uc.Bvh2Csv(batchRequest); err != nil {
			atomic.AddInt64(&failed, 1)
			mlog.E("変換に失敗しました: %s: %v", path, err)
		}
	})
	bar.Finish()
	if failed > 0 {
		return fmt.Errorf("一括変換で%d件が失敗しました", failed)
	}
	fmt.Fprintf(out, "[mu_bvh_conv] 一括変換完了: %d件\n", len(inputPaths))
	return nil
}

// runCsv2Bvh はCSVからBVHへの再構築を実行する。
func runCsv2Bvh(uc *binteractor.BvhConvUsecase, args []string, out io.Writer, errOut io.Writer) error {
	fs := flag.NewFlagSet("csv2bvh", flag.ContinueOnError)
	fs.SetOutput(errOut)
	hierarchy := fs.String("hierarchy", "", "階層CSVパス")
	position := fs.String("position", "", "位置CSVパス")
	rotation := fs.String("rotation", "", "回転CSVパス")
	outPath := fs.String("out", "", "出力BVHパス (省略時は階層CSVから導出)")
	scale := fs.Float64("scale", 1.0, "オフセットと位置に掛ける倍率")
	base := fs.String("base", "", "共通プレフィックス (<base>_hierarchy.csv などを補完)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *base != "" {
		if *hierarchy == "" {
			*hierarchy = *base + csvtable.HierarchySuffix
		}
		if *position == "" {
			*position = *base + csvtable.PositionSuffix
		}
		if *rotation == "" {
			*rotation = *base + csvtable.RotationSuffix
		}
	}

	result, err := uc.Csv2Bvh(binteractor.Csv2BvhRequest{
		HierarchyPath: *hierarchy,
		PositionPath:  *position,
		RotationPath:  *rotation,
		OutputPath:    *outPath,
		Scale:         *scale,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "[mu_bvh_conv] 再構築完了: %s\n", result.OutputPath)
	return nil
}

// runOffsetAngles は回転オフセット加算を実行する。
func runOffsetAngles(uc *binteractor.BvhConvUsecase, args []string, out io.Writer, errOut io.Writer) error {
	fs := flag.NewFlagSet("offsetangles", flag.ContinueOnError)
	fs.SetOutput(errOut)
	in := fs.String("in", "", "入力BVHファイルパス")
	offsets := fs.String("offsets", "", "回転オフセットCSVパス (joint,i,j,k)")
	outPath := fs.String("out", "", "出力BVHパス (省略時は入力へ上書き)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *offsets == "" {
		return fmt.Errorf("回転オフセットCSVを指定してください (-offsets)")
	}

	angles, err := csvtable.NewCsvTableRepository().LoadAngleOffsets(*offsets)
	if err != nil {
		return err
	}
	result, err := uc.AngleOffset(binteractor.AngleOffsetRequest{
		InputPath:  *in,
		OutputPath: *outPath,
		Angles:     angles,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "[mu_bvh_conv] オフセット適用完了: %s (適用=%d, 読み飛ばし=%d)\n",
		result.OutputPath, len(result.Applied), len(result.Skipped))
	return nil
}

// runRemoveFrames はフレーム範囲削除を実行する。
func runRemoveFrames(uc *binteractor.BvhConvUsecase, args []string, out io.Writer, errOut io.Writer) error {
	fs := flag.NewFlagSet("removeframes", flag.ContinueOnError)
	fs.SetOutput(errOut)
	in := fs.String("in", "", "入力BVHファイルパス")
	outPath := fs.String("out", "", "出力BVHパス (省略時は入力へ上書き)")
	start := fs.Int("start", 0, "削除開始フレーム")
	end := fs.Int("end", -1, "削除終了フレーム (-1 で末尾まで)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := uc.RemoveFrames(binteractor.RemoveFramesRequest{
		InputPath:  *in,
		OutputPath: *outPath,
		Start:      *start,
		End:        *end,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "[mu_bvh_conv] フレーム削除完了: %s (残り%dフレーム)\n",
		result.OutputPath, result.Remaining)
	return nil
}

// runRenameJoints は関節名の一括置換を実行する。
func runRenameJoints(uc *binteractor.BvhConvUsecase, args []string, out io.Writer, errOut io.Writer) error {
	fs := flag.NewFlagSet("renamejoints", flag.ContinueOnError)
	fs.SetOutput(errOut)
	in := fs.String("in", "", "入力BVHファイルパス")
	namesPath := fs.String("names", "", "リネームCSVパス (joint,new)")
	outPath := fs.String("out", "", "出力BVHパス (省略時は入力へ上書き)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *namesPath == "" {
		return fmt.Errorf("リネームCSVを指定してください (-names)")
	}

	names, err := csvtable.NewCsvTableRepository().LoadJointNames(*namesPath)
	if err != nil {
		return err
	}
	result, err := uc.RenameJoints(binteractor.RenameJointsRequest{
		InputPath:  *in,
		OutputPath: *outPath,
		Names:      names,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "[mu_bvh_conv] リネーム完了: %s\n", result.OutputPath)
	return nil
}

// collectBvhPaths は入力がディレクトリなら直下の *.bvh を集める。
func collectBvhPaths(input string) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("入力パスを確認できません: %w", err)
	}
	if !info.IsDir() {
		if !strings.EqualFold(filepath.Ext(input), ".bvh") {
			return nil, fmt.Errorf("入力拡張子が .bvh ではありません: %s", input)
		}
		return []string{input}, nil
	}
	paths, err := filepath.Glob(filepath.Join(input, "*.bvh"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("ディレクトリに .bvh ファイルがありません: %s", input)
	}
	return paths, nil
}

// printBvh2CsvResult は出力されたCSVパスを列挙する。
func printBvh2CsvResult(out io.Writer, result *binteractor.Bvh2CsvResult) {
	for _, path := range []string{result.HierarchyPath, result.PositionPath, result.RotationPath} {
		if path != "" {
			fmt.Fprintf(out, "[mu_bvh_conv] 出力: %s\n", path)
		}
	}
}
