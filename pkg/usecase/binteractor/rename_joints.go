// 指示: miu200521358
package binteractor

import (
	"fmt"
	"strings"

	"github.com/miu200521358/mu_bvh_conv/pkg/config/mlog"
)

// RenameJoints は対応表に従ってBVHの関節名を一括置換して保存する。
func (uc *BvhConvUsecase) RenameJoints(request RenameJointsRequest) (*RenameJointsResult, error) {
	if strings.TrimSpace(request.InputPath) == "" {
		return nil, fmt.Errorf("入力BVHパスが未指定です")
	}
	if len(request.Names) == 0 {
		return nil, fmt.Errorf("名前の対応表が未指定です")
	}
	if uc.motionReader == nil || uc.motionWriter == nil {
		return nil, fmt.Errorf("リポジトリが設定されていません")
	}

	tree, err := uc.motionReader.Load(request.InputPath)
	if err != nil {
		return nil, err
	}
	if err := tree.RenameJoints(request.Names); err != nil {
		return nil, err
	}
	mlog.I("関節名置換完了: %d件", len(request.Names))

	outputPath := strings.TrimSpace(request.OutputPath)
	if outputPath == "" {
		outputPath = request.InputPath
	}
	if err := uc.motionWriter.Save(outputPath, tree); err != nil {
		return nil, err
	}
	return &RenameJointsResult{OutputPath: outputPath}, nil
}
