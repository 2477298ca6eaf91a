// 指示: miu200521358
package bvh

import (
	"strings"

	"github.com/miu200521358/mu_bvh_conv/pkg/config/merr"
	"github.com/miu200521358/mu_bvh_conv/pkg/domain/mmath"
	"gonum.org/v1/gonum/mat"
)

// BvhTree は骨格と動作表を束ねた BVH ドキュメント全体を表す。
// 動作表の列順は、エンドサイトを除く関節のドキュメント順チャネル連結で定まる。
type BvhTree struct {
	skeleton *Skeleton
	motion   *Motion
}

// NewBvhTree は骨格と動作表から BvhTree を構築する。
// 動作表の列数が骨格のチャネル総数と一致することを検証する。
func NewBvhTree(skeleton *Skeleton, motion *Motion) (*BvhTree, error) {
	total := 0
	for _, j := range skeleton.joints {
		if !j.endSite {
			total += len(j.channels)
		}
	}
	if motion.ColCount() != total {
		return nil, &merr.InvalidArgumentError{Message: "動作表の列数が骨格のチャネル総数と一致しません"}
	}
	return &BvhTree{skeleton: skeleton, motion: motion}, nil
}

// Skeleton は関節階層を返す。
func (t *BvhTree) Skeleton() *Skeleton {
	return t.skeleton
}

// Motion は動作表を返す。
func (t *BvhTree) Motion() *Motion {
	return t.motion
}

// JointChannelsIndex は指定関節のチャネル列開始位置を返す。
// エンドサイトを除くドキュメント順で先行する関節のチャネル数を合算する。
func (t *BvhTree) JointChannelsIndex(jointName string) (int, error) {
	target, err := t.skeleton.FindJoint(jointName)
	if err != nil {
		return 0, err
	}
	index := 0
	for _, j := range t.skeleton.JointsDepthFirst(false) {
		if j.index == target.index {
			return index, nil
		}
		index += len(j.channels)
	}
	return 0, &merr.JointNotFoundError{Name: jointName}
}

// ChannelColumnIndex は指定関節の指定チャネルの動作表列位置を返す。
func (t *BvhTree) ChannelColumnIndex(jointName string, channel Channel) (int, error) {
	joint, err := t.skeleton.FindJoint(jointName)
	if err != nil {
		return 0, err
	}
	base, err := t.JointChannelsIndex(jointName)
	if err != nil {
		return 0, err
	}
	for i, ch := range joint.channels {
		if ch == channel {
			return base + i, nil
		}
	}
	return 0, &merr.ChannelNotFoundError{Joint: jointName, Channel: string(channel)}
}

// FrameJointChannels は指定フレームの関節チャネル値を要求順に返す。
// 関節が持たないチャネルには fill を充てる。
func (t *BvhTree) FrameJointChannels(frame int, jointName string, channels []Channel, fill float64) ([]float64, error) {
	joint, err := t.skeleton.FindJoint(jointName)
	if err != nil {
		return nil, err
	}
	base, err := t.JointChannelsIndex(jointName)
	if err != nil {
		return nil, err
	}
	values := make([]float64, 0, len(channels))
	for _, ch := range channels {
		found := false
		for i, have := range joint.channels {
			if have == ch {
				values = append(values, t.motion.Value(frame, base+i))
				found = true
				break
			}
		}
		if !found {
			values = append(values, fill)
		}
	}
	return values, nil
}

// RotationOrder は関節の回転チャネル軸を宣言順に連結した3文字を返す。
// 宣言に欠けた軸は x, y, z の順で末尾に補われる。
func (t *BvhTree) RotationOrder(jointName string) (string, error) {
	joint, err := t.skeleton.FindJoint(jointName)
	if err != nil {
		return "", err
	}
	var order strings.Builder
	for _, ch := range joint.RotationChannels() {
		order.WriteString(ch.Axis())
	}
	declared := order.String()
	for _, axis := range []string{"x", "y", "z"} {
		if !strings.Contains(declared, axis) {
			order.WriteString(axis)
		}
	}
	return order.String(), nil
}

// RotationAxes は関節の回転チャネル順に対応する静的フレームの軸規約を返す。
// 回転チャネル Zrotation Xrotation Yrotation は sYXZ 相当の "syxz" に写る。
func (t *BvhTree) RotationAxes(jointName string) (mmath.Axes, error) {
	order, err := t.RotationOrder(jointName)
	if err != nil {
		return mmath.Axes{}, err
	}
	reversed := []byte(order)
	reversed[0], reversed[2] = reversed[2], reversed[0]
	return mmath.ParseAxes("s" + string(reversed))
}

// InsertRotationChannel は関節に回転チャネルを追加し、動作表にゼロ列を挿入する。
// 既に持つチャネルなら何もしない。スキーマと表の更新は一体で行われ、
// 検証に失敗した場合はどちらも変更されない。
func (t *BvhTree) InsertRotationChannel(jointName string, axis string) error {
	channel, ok := RotationChannelForAxis(axis)
	if !ok {
		return &merr.InvalidArgumentError{Message: "回転軸が不正です: " + axis}
	}
	joint, err := t.skeleton.FindJoint(jointName)
	if err != nil {
		return err
	}
	if joint.endSite {
		return &merr.InvalidArgumentError{Message: "エンドサイトにはチャネルを追加できません: " + jointName}
	}
	if joint.HasChannel(channel) {
		return nil
	}
	// 既存の回転チャネル連の直後に差し込む。回転チャネルが無ければ末尾。
	insertAt := len(joint.channels)
	for i := len(joint.channels) - 1; i >= 0; i-- {
		if joint.channels[i].IsRotation() {
			insertAt = i + 1
			break
		}
	}
	base, err := t.JointChannelsIndex(jointName)
	if err != nil {
		return err
	}
	if err := t.motion.insertZeroColumn(base + insertAt); err != nil {
		return err
	}
	joint.channels = append(joint.channels, "")
	copy(joint.channels[insertAt+1:], joint.channels[insertAt:])
	joint.channels[insertAt] = channel
	return nil
}

// RemoveFrames は [start, end] のフレーム範囲を動作表から取り除く。
func (t *BvhTree) RemoveFrames(start, end int) error {
	return t.motion.RemoveFrames(start, end)
}

// RenameJoints は対応表に従って関節名を一括で差し替える。
func (t *BvhTree) RenameJoints(names map[string]string) error {
	return t.skeleton.Rename(names)
}

// Clone は骨格・動作表を含む完全な複製を返す。
func (t *BvhTree) Clone() *BvhTree {
	joints := make([]*Joint, len(t.skeleton.joints))
	for i, j := range t.skeleton.joints {
		dup := *j
		dup.childIndexes = append([]int(nil), j.childIndexes...)
		dup.channels = append([]Channel(nil), j.channels...)
		joints[i] = &dup
	}
	skeleton := &Skeleton{joints: joints, rootIndex: t.skeleton.rootIndex}
	motion := &Motion{
		frameCount: t.motion.frameCount,
		colCount:   t.motion.colCount,
		frameTime:  t.motion.frameTime,
	}
	if t.motion.frames != nil {
		motion.frames = mat.DenseCopyOf(t.motion.frames)
	}
	return &BvhTree{skeleton: skeleton, motion: motion}
}
