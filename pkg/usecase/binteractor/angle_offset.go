// 指示: miu200521358
package binteractor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/miu200521358/mu_bvh_conv/pkg/config/mlog"
	"github.com/miu200521358/mu_bvh_conv/pkg/domain/bvh"
	"github.com/miu200521358/mu_bvh_conv/pkg/domain/deform"
	"github.com/miu200521358/mu_bvh_conv/pkg/domain/mmath"
	deepcopy "github.com/tiendc/go-deepcopy"
	"gonum.org/v1/gonum/num/quat"
)

// AngleOffset は指定関節の回転に固定のオイラー角オフセットを乗算で加える。
// 関節が回転チャネルを3つ持たない場合は不足分をゼロ初期化で補ってから適用する。
// 見つからない関節は警告して読み飛ばす。
func (uc *BvhConvUsecase) AngleOffset(request AngleOffsetRequest) (*AngleOffsetResult, error) {
	if strings.TrimSpace(request.InputPath) == "" {
		return nil, fmt.Errorf("入力BVHパスが未指定です")
	}
	if len(request.Angles) == 0 {
		return nil, fmt.Errorf("回転オフセットが未指定です")
	}
	if uc.motionReader == nil || uc.motionWriter == nil {
		return nil, fmt.Errorf("リポジトリが設定されていません")
	}

	// 呼び出し元の角度表を書き換えないよう複製してから扱う。
	var angles map[string][]float64
	if err := deepcopy.Copy(&angles, request.Angles); err != nil {
		return nil, fmt.Errorf("回転オフセットの複製に失敗しました: %w", err)
	}

	tree, err := uc.motionReader.Load(request.InputPath)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(angles))
	for name := range angles {
		names = append(names, name)
	}
	sort.Strings(names)

	result := &AngleOffsetResult{}
	for _, jointName := range names {
		if _, err := tree.Skeleton().FindJoint(jointName); err != nil {
			mlog.W("関節 %s が見つからないため読み飛ばします", jointName)
			result.Skipped = append(result.Skipped, jointName)
			continue
		}
		if err := applyAngleOffset(tree, jointName, angles[jointName]); err != nil {
			return nil, err
		}
		result.Applied = append(result.Applied, jointName)
	}

	outputPath := strings.TrimSpace(request.OutputPath)
	if outputPath == "" {
		outputPath = request.InputPath
	}
	if err := uc.motionWriter.Save(outputPath, tree); err != nil {
		return nil, err
	}
	mlog.I("回転オフセット適用完了: %s (適用=%d, 読み飛ばし=%d)",
		outputPath, len(result.Applied), len(result.Skipped))
	result.OutputPath = outputPath
	return result, nil
}

// applyAngleOffset は1関節の全フレーム回転をオフセット乗算後の角度で書き換える。
func applyAngleOffset(tree *bvh.BvhTree, jointName string, values []float64) error {
	if len(values) != 3 {
		return fmt.Errorf("関節 %s のオフセットは3要素が必要です: %d", jointName, len(values))
	}
	for _, axis := range []string{"x", "y", "z"} {
		if err := tree.InsertRotationChannel(jointName, axis); err != nil {
			return err
		}
	}
	joint, err := tree.Skeleton().FindJoint(jointName)
	if err != nil {
		return err
	}
	rotChannels := joint.RotationChannels()
	var order strings.Builder
	for _, ch := range rotChannels {
		order.WriteString(ch.Axis())
	}
	axes, err := mmath.ParseAxes("s" + order.String())
	if err != nil {
		return err
	}

	offset := mmath.EulerToQuat(
		mmath.DegToRad(values[0]), mmath.DegToRad(values[1]), mmath.DegToRad(values[2]), axes)
	quats, err := deform.Quaternions(tree, jointName, axes)
	if err != nil {
		return err
	}
	cols := make([]int, len(rotChannels))
	for i, ch := range rotChannels {
		col, err := tree.ChannelColumnIndex(jointName, ch)
		if err != nil {
			return err
		}
		cols[i] = col
	}
	for f, q := range quats {
		ai, aj, ak := mmath.QuatToEuler(quat.Mul(q, offset), axes)
		tree.Motion().SetValue(f, cols[0], mmath.RadToDeg(ai))
		tree.Motion().SetValue(f, cols[1], mmath.RadToDeg(aj))
		tree.Motion().SetValue(f, cols[2], mmath.RadToDeg(ak))
	}
	return nil
}
