// 指示: miu200521358
package merr

import (
	"fmt"
	"strings"
)

// ShapeError は軸変換関数への入力次元不正を表す。
type ShapeError struct {
	Rows int
	Cols int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("入力は長さ3の1次元またはNx3の2次元配列である必要があります: %dx%d", e.Rows, e.Cols)
}

// UnsupportedConventionError は未対応の回転規約文字列を表す。
type UnsupportedConventionError struct {
	Axes string
}

func (e *UnsupportedConventionError) Error() string {
	return fmt.Sprintf("未対応の回転規約です: %q", e.Axes)
}

// InvalidArgumentError は不正な引数を表す。
type InvalidArgumentError struct {
	Message string
}

func (e *InvalidArgumentError) Error() string {
	return e.Message
}

// JointNotFoundError は指定名の関節が存在しないことを表す。
type JointNotFoundError struct {
	Name string
}

func (e *JointNotFoundError) Error() string {
	return fmt.Sprintf("関節が見つかりません: %s", e.Name)
}

// ChannelNotFoundError は関節が指定チャネルを持たないことを表す。
type ChannelNotFoundError struct {
	Joint   string
	Channel string
}

func (e *ChannelNotFoundError) Error() string {
	return fmt.Sprintf("関節 %s にチャネル %s がありません", e.Joint, e.Channel)
}

// NoRootError は階層定義にルート関節が無いことを表す。
type NoRootError struct{}

func (e *NoRootError) Error() string {
	return "階層定義にルート関節が見つかりません"
}

// MultipleRootsError は階層定義にルート関節が複数あることを表す。
type MultipleRootsError struct {
	Names []string
}

func (e *MultipleRootsError) Error() string {
	return fmt.Sprintf("階層定義にルート関節が複数あります: %s", strings.Join(e.Names, ", "))
}

// SelfParentError は自分自身を親に指定した関節を表す。
type SelfParentError struct {
	Name string
}

func (e *SelfParentError) Error() string {
	return fmt.Sprintf("関節 %s は自身の親にはなれません", e.Name)
}

// DanglingParentError は存在しない親を参照する関節を表す。
type DanglingParentError struct {
	Joint  string
	Parent string
}

func (e *DanglingParentError) Error() string {
	return fmt.Sprintf("関節 %s の親 %s が階層定義に存在しません", e.Joint, e.Parent)
}

// CyclicHierarchyError は親子関係の循環を表す。
type CyclicHierarchyError struct {
	Joint  string
	Parent string
}

func (e *CyclicHierarchyError) Error() string {
	return fmt.Sprintf("関節 %s と %s の間に循環した親子関係があります", e.Joint, e.Parent)
}

// MissingRootPositionError はルート関節の位置データ欠落を表す。
type MissingRootPositionError struct {
	Root string
}

func (e *MissingRootPositionError) Error() string {
	return fmt.Sprintf("ルート関節 %s の位置データが見つかりません", e.Root)
}

// MissingJointRotationError は回転データの無い非末端関節を表す。
type MissingJointRotationError struct {
	Names []string
}

func (e *MissingJointRotationError) Error() string {
	return fmt.Sprintf("回転データが見つからない関節があります: %s", strings.Join(e.Names, ", "))
}

// FrameCountMismatchError は位置と回転のフレーム数不一致を表す。
type FrameCountMismatchError struct {
	Positions int
	Rotations int
}

func (e *FrameCountMismatchError) Error() string {
	return fmt.Sprintf("位置(%d)と回転(%d)のフレーム数が一致しません", e.Positions, e.Rotations)
}
