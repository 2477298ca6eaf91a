// 指示: miu200521358
package binteractor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/miu200521358/mu_bvh_conv/pkg/adapter/io_motion/csvtable"
	"github.com/miu200521358/mu_bvh_conv/pkg/config/mlog"
	"github.com/miu200521358/mu_bvh_conv/pkg/domain/bvh"
)

// Csv2Bvh は階層・位置・回転の3つのCSVからBVHファイルを組み立てる。
// 出力パスが未指定の場合は階層CSVのパスから導出する。
func (uc *BvhConvUsecase) Csv2Bvh(request Csv2BvhRequest) (*Csv2BvhResult, error) {
	if strings.TrimSpace(request.HierarchyPath) == "" ||
		strings.TrimSpace(request.PositionPath) == "" ||
		strings.TrimSpace(request.RotationPath) == "" {
		return nil, fmt.Errorf("階層・位置・回転のCSVパスはすべて必要です")
	}
	if uc.motionWriter == nil || uc.tableRepo == nil {
		return nil, fmt.Errorf("リポジトリが設定されていません")
	}
	scale := request.Scale
	if scale == 0 {
		scale = 1
	}

	rows, err := uc.tableRepo.LoadHierarchy(request.HierarchyPath)
	if err != nil {
		return nil, err
	}
	positions, err := uc.tableRepo.LoadTransforms(request.PositionPath)
	if err != nil {
		return nil, err
	}
	rotations, err := uc.tableRepo.LoadTransforms(request.RotationPath)
	if err != nil {
		return nil, err
	}

	tree, err := bvh.BuildFromTables(rows, positions, rotations, scale)
	if err != nil {
		return nil, err
	}
	mlog.I("階層再構築完了: 関節数=%d, フレーム数=%d",
		tree.Skeleton().Len(), tree.Motion().FrameCount())

	outputPath := strings.TrimSpace(request.OutputPath)
	if outputPath == "" {
		outputPath = defaultBvhOutputPath(request.HierarchyPath)
	}
	if err := uc.motionWriter.Save(outputPath, tree); err != nil {
		return nil, err
	}
	mlog.I("BVH出力完了: %s", outputPath)
	return &Csv2BvhResult{OutputPath: outputPath}, nil
}

// defaultBvhOutputPath は階層CSVのパスからBVH出力パスを導出する。
func defaultBvhOutputPath(hierarchyPath string) string {
	base := filepath.Base(hierarchyPath)
	base = strings.TrimSuffix(base, csvtable.HierarchySuffix)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(hierarchyPath), base+".bvh")
}
