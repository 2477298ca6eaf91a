// 指示: miu200521358
package deform

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/miu200521358/mu_bvh_conv/pkg/config/merr"
	"github.com/miu200521358/mu_bvh_conv/pkg/domain/bvh"
	"github.com/miu200521358/mu_bvh_conv/pkg/domain/mmath"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// pruneEpsilon は回転行列の微小成分をゼロに落とす閾値。
const pruneEpsilon = 1e-8

// EulerAngles は関節のオイラー角(度)を全フレーム分、指定軸順で返す。
// 関節が持たない回転チャネルは0度として扱う。
func EulerAngles(tree *bvh.BvhTree, jointName string, order string) ([][]float64, error) {
	frameCount := tree.Motion().FrameCount()
	rows := make([][]float64, frameCount)
	channels := []bvh.Channel{bvh.ChannelXrotation, bvh.ChannelYrotation, bvh.ChannelZrotation}
	for f := 0; f < frameCount; f++ {
		values, err := tree.FrameJointChannels(f, jointName, channels, 0)
		if err != nil {
			return nil, err
		}
		rows[f] = values
	}
	return mmath.Reorder(rows, order)
}

// Quaternions は関節の回転を全フレーム分の四元数で返す。
func Quaternions(tree *bvh.BvhTree, jointName string, axes mmath.Axes) ([]quat.Number, error) {
	eulers, err := EulerAngles(tree, jointName, axes.String()[1:])
	if err != nil {
		return nil, err
	}
	quats := make([]quat.Number, len(eulers))
	for f, angles := range eulers {
		quats[f] = mmath.EulerToQuat(
			mmath.DegToRad(angles[0]), mmath.DegToRad(angles[1]), mmath.DegToRad(angles[2]), axes)
	}
	return quats, nil
}

// RotationMatrices は関節の回転を全フレーム分の回転行列で返す。
// 微小成分はゼロに丸める。
func RotationMatrices(tree *bvh.BvhTree, jointName string, axes mmath.Axes) ([]mgl64.Mat3, error) {
	eulers, err := EulerAngles(tree, jointName, axes.String()[1:])
	if err != nil {
		return nil, err
	}
	matrices := make([]mgl64.Mat3, len(eulers))
	for f, angles := range eulers {
		m := mmath.EulerToMatrix(
			mmath.DegToRad(angles[0]), mmath.DegToRad(angles[1]), mmath.DegToRad(angles[2]), axes)
		if err := mmath.Prune(m[:], pruneEpsilon); err != nil {
			return nil, err
		}
		matrices[f] = m
	}
	return matrices, nil
}

// Translations は関節の位置チャネル値を全フレーム分返す。
// 位置チャネルを持たない関節はゼロベクトルになる。
func Translations(tree *bvh.BvhTree, jointName string) ([]r3.Vec, error) {
	frameCount := tree.Motion().FrameCount()
	channels := []bvh.Channel{bvh.ChannelXposition, bvh.ChannelYposition, bvh.ChannelZposition}
	translations := make([]r3.Vec, frameCount)
	for f := 0; f < frameCount; f++ {
		values, err := tree.FrameJointChannels(f, jointName, channels, 0)
		if err != nil {
			return nil, err
		}
		translations[f] = r3.Vec{X: values[0], Y: values[1], Z: values[2]}
	}
	return translations, nil
}

// Affines は関節のローカル変換を全フレーム分のアフィン行列で返す。
func Affines(tree *bvh.BvhTree, jointName string, axes mmath.Axes) ([]mgl64.Mat4, error) {
	translations, err := Translations(tree, jointName)
	if err != nil {
		return nil, err
	}
	rotations, err := RotationMatrices(tree, jointName, axes)
	if err != nil {
		return nil, err
	}
	affines := make([]mgl64.Mat4, len(translations))
	for f := range affines {
		affines[f] = mmath.ComposeAffine(translations[f], rotations[f])
	}
	return affines, nil
}

// BoneDeltas は全関節のワールド変換をアリーナインデックス順に保持する。
type BoneDeltas struct {
	worlds     [][]mgl64.Mat4
	frameCount int
}

// FrameCount はフレーム数を返す。
func (d *BoneDeltas) FrameCount() int {
	return d.frameCount
}

// WorldMatrix は関節の指定フレームのワールド変換を返す。
func (d *BoneDeltas) WorldMatrix(jointIndex, frame int) (mgl64.Mat4, error) {
	if jointIndex < 0 || jointIndex >= len(d.worlds) || d.worlds[jointIndex] == nil {
		return mgl64.Mat4{}, &merr.InvalidArgumentError{Message: "関節インデックスが範囲外です"}
	}
	if frame < 0 || frame >= d.frameCount {
		return mgl64.Mat4{}, &merr.InvalidArgumentError{Message: "フレームが範囲外です"}
	}
	return d.worlds[jointIndex][frame], nil
}

// WorldPositions は関節の全フレームのワールド位置を scale 倍して返す。
func (d *BoneDeltas) WorldPositions(jointIndex int, scale float64) ([]r3.Vec, error) {
	if jointIndex < 0 || jointIndex >= len(d.worlds) || d.worlds[jointIndex] == nil {
		return nil, &merr.InvalidArgumentError{Message: "関節インデックスが範囲外です"}
	}
	positions := make([]r3.Vec, d.frameCount)
	for f, world := range d.worlds[jointIndex] {
		positions[f] = r3.Scale(scale, mmath.AffineTranslation(world))
	}
	return positions, nil
}

// WorldMatrices は親から子の順に全関節のワールド変換を合成して返す。
// ルートのローカル変換は位置チャネル、他の関節は固定オフセットが平行移動になる。
// エンドサイトは回転なしのオフセットのみで合成される。
func WorldMatrices(tree *bvh.BvhTree) (*BoneDeltas, error) {
	skeleton := tree.Skeleton()
	frameCount := tree.Motion().FrameCount()
	deltas := &BoneDeltas{
		worlds:     make([][]mgl64.Mat4, skeleton.Len()),
		frameCount: frameCount,
	}
	// 文書順は親が必ず子より先に現れる。
	for _, joint := range skeleton.JointsDepthFirst(true) {
		locals, err := localAffines(tree, joint, frameCount)
		if err != nil {
			return nil, err
		}
		parent := skeleton.Parent(joint)
		worlds := make([]mgl64.Mat4, frameCount)
		for f := 0; f < frameCount; f++ {
			if parent == nil {
				worlds[f] = locals[f]
				continue
			}
			worlds[f] = deltas.worlds[parent.Index()][f].Mul4(locals[f])
		}
		deltas.worlds[joint.Index()] = worlds
	}
	return deltas, nil
}

// localAffines は関節のローカル変換を全フレーム分組み立てる。
func localAffines(tree *bvh.BvhTree, joint *bvh.Joint, frameCount int) ([]mgl64.Mat4, error) {
	if joint.IsEndSite() {
		affine := mmath.ComposeAffine(joint.Offset(), mgl64.Ident3())
		locals := make([]mgl64.Mat4, frameCount)
		for f := range locals {
			locals[f] = affine
		}
		return locals, nil
	}
	axes, err := tree.RotationAxes(joint.Name())
	if err != nil {
		return nil, err
	}
	rotations, err := RotationMatrices(tree, joint.Name(), axes)
	if err != nil {
		return nil, err
	}
	locals := make([]mgl64.Mat4, frameCount)
	if joint.IsRoot() {
		translations, err := Translations(tree, joint.Name())
		if err != nil {
			return nil, err
		}
		for f := range locals {
			locals[f] = mmath.ComposeAffine(translations[f], rotations[f])
		}
		return locals, nil
	}
	for f := range locals {
		locals[f] = mmath.ComposeAffine(joint.Offset(), rotations[f])
	}
	return locals, nil
}
