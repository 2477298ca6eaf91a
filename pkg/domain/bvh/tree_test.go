// 指示: miu200521358
package bvh

import (
	"errors"
	"math"
	"testing"

	"github.com/miu200521358/mu_bvh_conv/pkg/config/merr"
	"gonum.org/v1/gonum/spatial/r3"
)

func buildBranchedTree(t *testing.T) *BvhTree {
	t.Helper()
	s := buildBranchedSkeleton(t)
	// 列順: Hips 6ch, Spine 3ch, Leg 3ch の計12列。
	data := [][]float64{
		{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
		{13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24},
	}
	motion, err := NewMotion(data, 12, 0.05)
	if err != nil {
		t.Fatalf("new motion: %v", err)
	}
	tree, err := NewBvhTree(s, motion)
	if err != nil {
		t.Fatalf("new tree: %v", err)
	}
	return tree
}

func TestNewBvhTreeColumnCountMismatch(t *testing.T) {
	s := buildBranchedSkeleton(t)
	motion, err := NewMotion([][]float64{{1, 2, 3}}, 3, 0.05)
	if err != nil {
		t.Fatalf("new motion: %v", err)
	}
	if _, err := NewBvhTree(s, motion); err == nil {
		t.Fatalf("column count mismatch should fail")
	}
}

func TestJointChannelsIndex(t *testing.T) {
	tree := buildBranchedTree(t)
	for name, want := range map[string]int{"Hips": 0, "Spine": 6, "Leg": 9} {
		got, err := tree.JointChannelsIndex(name)
		if err != nil {
			t.Fatalf("channels index %s: %v", name, err)
		}
		if got != want {
			t.Fatalf("channels index mismatch for %s: got=%d want=%d", name, got, want)
		}
	}
}

func TestChannelColumnIndex(t *testing.T) {
	tree := buildBranchedTree(t)
	got, err := tree.ChannelColumnIndex("Spine", ChannelXrotation)
	if err != nil {
		t.Fatalf("channel column: %v", err)
	}
	if got != 7 {
		t.Fatalf("channel column mismatch: got=%d want=7", got)
	}
	if _, err := tree.ChannelColumnIndex("Spine", ChannelXposition); err == nil {
		t.Fatalf("missing channel should fail")
	} else {
		var notFound *merr.ChannelNotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("unexpected error type: %v", err)
		}
	}
}

func TestFrameJointChannelsFillsMissing(t *testing.T) {
	tree := buildBranchedTree(t)
	got, err := tree.FrameJointChannels(1, "Spine", []Channel{
		ChannelXposition, ChannelZrotation, ChannelYrotation,
	}, -1)
	if err != nil {
		t.Fatalf("frame joint channels: %v", err)
	}
	want := []float64{-1, 19, 21}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("channel values mismatch: got=%v want=%v", got, want)
		}
	}
}

func TestRotationOrder(t *testing.T) {
	tree := buildBranchedTree(t)
	order, err := tree.RotationOrder("Spine")
	if err != nil {
		t.Fatalf("rotation order: %v", err)
	}
	if order != "zxy" {
		t.Fatalf("rotation order mismatch: got=%s want=zxy", order)
	}
	axes, err := tree.RotationAxes("Spine")
	if err != nil {
		t.Fatalf("rotation axes: %v", err)
	}
	if axes.String() != "syxz" {
		t.Fatalf("rotation axes mismatch: got=%s want=syxz", axes.String())
	}
}

func TestRotationOrderPartialChannels(t *testing.T) {
	s := NewSkeleton()
	root, err := s.AddRoot("Hips", r3.Vec{}, []Channel{ChannelYrotation})
	if err != nil {
		t.Fatalf("add root: %v", err)
	}
	if _, err := s.AddEndSite("", root, r3.Vec{}); err != nil {
		t.Fatalf("add end site: %v", err)
	}
	motion, err := NewMotion([][]float64{{90}}, 1, 0.05)
	if err != nil {
		t.Fatalf("new motion: %v", err)
	}
	tree, err := NewBvhTree(s, motion)
	if err != nil {
		t.Fatalf("new tree: %v", err)
	}
	order, err := tree.RotationOrder("Hips")
	if err != nil {
		t.Fatalf("rotation order: %v", err)
	}
	// 宣言済みの y の後に欠けた軸が x, z の順で補われる。
	if order != "yxz" {
		t.Fatalf("partial rotation order mismatch: got=%s want=yxz", order)
	}
}

func TestInsertRotationChannel(t *testing.T) {
	tree := buildBranchedTree(t)
	// 部分チャネルの骨格を別に組む。
	partial := NewSkeleton()
	root, err := partial.AddRoot("Hips", r3.Vec{}, []Channel{
		ChannelXposition, ChannelYposition, ChannelZposition,
		ChannelZrotation, ChannelXrotation,
	})
	if err != nil {
		t.Fatalf("add root: %v", err)
	}
	if _, err := partial.AddEndSite("", root, r3.Vec{}); err != nil {
		t.Fatalf("add end site: %v", err)
	}
	motion, err := NewMotion([][]float64{{1, 2, 3, 4, 5}, {6, 7, 8, 9, 10}}, 5, 0.05)
	if err != nil {
		t.Fatalf("new motion: %v", err)
	}
	partialTree, err := NewBvhTree(partial, motion)
	if err != nil {
		t.Fatalf("new tree: %v", err)
	}

	if err := partialTree.InsertRotationChannel("Hips", "y"); err != nil {
		t.Fatalf("insert rotation channel: %v", err)
	}
	joint, err := partial.FindJoint("Hips")
	if err != nil {
		t.Fatalf("find joint: %v", err)
	}
	want := []Channel{
		ChannelXposition, ChannelYposition, ChannelZposition,
		ChannelZrotation, ChannelXrotation, ChannelYrotation,
	}
	got := joint.Channels()
	if len(got) != len(want) {
		t.Fatalf("channel count mismatch: got=%v want=%v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("channel order mismatch: got=%v want=%v", got, want)
		}
	}
	if partialTree.Motion().ColCount() != 6 {
		t.Fatalf("motion column count mismatch: got=%d want=6", partialTree.Motion().ColCount())
	}
	// 挿入列はゼロ、既存列はずれずに残る。
	if v := partialTree.Motion().Value(1, 5); v != 0 {
		t.Fatalf("inserted column should be zero: got=%v", v)
	}
	if v := partialTree.Motion().Value(1, 4); v != 10 {
		t.Fatalf("existing column shifted wrongly: got=%v want=10", v)
	}

	// 既に持つチャネルの挿入は何もしない。
	if err := partialTree.InsertRotationChannel("Hips", "y"); err != nil {
		t.Fatalf("idempotent insert: %v", err)
	}
	if partialTree.Motion().ColCount() != 6 {
		t.Fatalf("idempotent insert should not grow motion: got=%d", partialTree.Motion().ColCount())
	}

	// 不正な軸は拒否され、何も変更されない。
	if err := partialTree.InsertRotationChannel("Hips", "w"); err == nil {
		t.Fatalf("invalid axis should fail")
	}
	if partialTree.Motion().ColCount() != 6 || len(joint.Channels()) != 6 {
		t.Fatalf("failed insert must not mutate tree")
	}

	// エンドサイトへの挿入は拒否する。
	if err := tree.InsertRotationChannel("Spine_End", "x"); err == nil {
		t.Fatalf("end site insert should fail")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	tree := buildBranchedTree(t)
	clone := tree.Clone()

	if err := clone.RenameJoints(map[string]string{"Spine": "Chest"}); err != nil {
		t.Fatalf("rename clone: %v", err)
	}
	clone.Motion().SetValue(0, 0, 999)

	if _, err := tree.Skeleton().FindJoint("Spine"); err != nil {
		t.Fatalf("original skeleton mutated by clone rename: %v", err)
	}
	if v := tree.Motion().Value(0, 0); v != 1 {
		t.Fatalf("original motion mutated by clone write: got=%v want=1", v)
	}
}

func TestMotionValidation(t *testing.T) {
	if _, err := NewMotion([][]float64{{1, 2}, {3}}, 2, 0.05); err == nil {
		t.Fatalf("ragged rows should fail")
	}
	if _, err := NewMotion([][]float64{{math.NaN()}}, 1, 0.05); err == nil {
		t.Fatalf("NaN value should fail")
	}
	if _, err := NewMotion([][]float64{{math.Inf(1)}}, 1, 0.05); err == nil {
		t.Fatalf("Inf value should fail")
	}
	if _, err := NewMotion([][]float64{{1}}, 1, 0); err == nil {
		t.Fatalf("non-positive frame time should fail")
	}
}

func TestMotionDuration(t *testing.T) {
	motion, err := NewMotion([][]float64{{1}, {2}, {3}}, 1, 0.05)
	if err != nil {
		t.Fatalf("new motion: %v", err)
	}
	if got := motion.Duration(); math.Abs(got-0.1) > 1e-12 {
		t.Fatalf("duration mismatch: got=%v want=0.1", got)
	}
}

func TestRemoveFrames(t *testing.T) {
	tree := buildBranchedTree(t)
	if err := tree.RemoveFrames(0, 0); err != nil {
		t.Fatalf("remove frames: %v", err)
	}
	if tree.Motion().FrameCount() != 1 {
		t.Fatalf("frame count mismatch: got=%d want=1", tree.Motion().FrameCount())
	}
	if v := tree.Motion().Value(0, 0); v != 13 {
		t.Fatalf("remaining frame mismatch: got=%v want=13", v)
	}
	if err := tree.RemoveFrames(5, 9); err == nil {
		t.Fatalf("out-of-range removal should fail")
	}
	// end に負値を渡すと start 以降をすべて取り除く。
	if err := tree.RemoveFrames(0, -1); err != nil {
		t.Fatalf("remove tail: %v", err)
	}
	if tree.Motion().FrameCount() != 0 {
		t.Fatalf("motion should be empty: got=%d", tree.Motion().FrameCount())
	}
}
