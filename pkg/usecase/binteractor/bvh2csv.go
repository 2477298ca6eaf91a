// 指示: miu200521358
package binteractor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/miu200521358/mu_bvh_conv/pkg/adapter/io_motion/csvtable"
	"github.com/miu200521358/mu_bvh_conv/pkg/config/mlog"
)

// Bvh2Csv はBVHファイルを階層・位置・回転の3つのCSVへ変換する。
// 出力先フォルダが未指定の場合は入力と同じフォルダに書き出す。
func (uc *BvhConvUsecase) Bvh2Csv(request Bvh2CsvRequest) (*Bvh2CsvResult, error) {
	if strings.TrimSpace(request.InputPath) == "" {
		return nil, fmt.Errorf("入力BVHパスが未指定です")
	}
	if uc.motionReader == nil || uc.tableRepo == nil {
		return nil, fmt.Errorf("リポジトリが設定されていません")
	}
	if !request.ExportRotation && !request.ExportPosition && !request.ExportHierarchy {
		return nil, fmt.Errorf("出力対象のCSVが選択されていません")
	}
	scale := request.Scale
	if scale == 0 {
		scale = 1
	}

	tree, err := uc.motionReader.Load(request.InputPath)
	if err != nil {
		return nil, err
	}
	mlog.I("BVH読込完了: %s (関節数=%d, フレーム数=%d)",
		request.InputPath, tree.Skeleton().Len(), tree.Motion().FrameCount())

	outputDir := strings.TrimSpace(request.OutputDir)
	if outputDir == "" {
		outputDir = filepath.Dir(request.InputPath)
	}
	base := filepath.Join(outputDir, uc.motionReader.InferName(request.InputPath))

	result := &Bvh2CsvResult{}
	if request.ExportHierarchy {
		result.HierarchyPath = base + csvtable.HierarchySuffix
		if err := uc.tableRepo.SaveHierarchy(result.HierarchyPath, tree, scale); err != nil {
			return nil, err
		}
		mlog.I("階層CSV出力完了: %s", result.HierarchyPath)
	}
	if request.ExportPosition {
		result.PositionPath = base + csvtable.PositionSuffix
		if err := uc.tableRepo.SavePositions(result.PositionPath, tree, scale, request.EndSites); err != nil {
			return nil, err
		}
		mlog.I("位置CSV出力完了: %s", result.PositionPath)
	}
	if request.ExportRotation {
		result.RotationPath = base + csvtable.RotationSuffix
		if err := uc.tableRepo.SaveRotations(result.RotationPath, tree); err != nil {
			return nil, err
		}
		mlog.I("回転CSV出力完了: %s", result.RotationPath)
	}
	return result, nil
}
