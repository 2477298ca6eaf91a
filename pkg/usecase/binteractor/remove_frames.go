// 指示: miu200521358
package binteractor

import (
	"fmt"
	"strings"

	"github.com/miu200521358/mu_bvh_conv/pkg/config/mlog"
)

// RemoveFrames はBVHから指定範囲のフレームを取り除いて保存する。
// End に負値を渡すと Start 以降をすべて取り除く。
func (uc *BvhConvUsecase) RemoveFrames(request RemoveFramesRequest) (*RemoveFramesResult, error) {
	if strings.TrimSpace(request.InputPath) == "" {
		return nil, fmt.Errorf("入力BVHパスが未指定です")
	}
	if uc.motionReader == nil || uc.motionWriter == nil {
		return nil, fmt.Errorf("リポジトリが設定されていません")
	}

	tree, err := uc.motionReader.Load(request.InputPath)
	if err != nil {
		return nil, err
	}
	before := tree.Motion().FrameCount()
	if err := tree.RemoveFrames(request.Start, request.End); err != nil {
		return nil, err
	}
	remaining := tree.Motion().FrameCount()
	mlog.I("フレーム削除完了: %d -> %d", before, remaining)

	outputPath := strings.TrimSpace(request.OutputPath)
	if outputPath == "" {
		outputPath = request.InputPath
	}
	if err := uc.motionWriter.Save(outputPath, tree); err != nil {
		return nil, err
	}
	return &RemoveFramesResult{OutputPath: outputPath, Remaining: remaining}, nil
}
