// 指示: miu200521358
package bvh

import (
	"sort"
	"strings"

	"github.com/miu200521358/mu_bvh_conv/pkg/config/merr"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"
)

// DefaultFrameTime はフレーム時刻列から推定できない場合の既定値(30fps)。
const DefaultFrameTime = 1.0 / 30.0

// TimeColumn は変換表に必須のフレーム時刻列名。
const TimeColumn = "time"

// HierarchyRow は階層表の1行(関節名・親名・オフセット)を表す。
// 親名が空の行はルートを意味する。
type HierarchyRow struct {
	Joint  string
	Parent string
	Offset r3.Vec
}

// TransformTable は位置・回転の平坦な時系列表を表す。
// 列名は time または <関節名>.<軸> の形式を取る。
type TransformTable struct {
	Columns []string
	Data    *mat.Dense
}

// FrameCount は表のフレーム数を返す。
func (t *TransformTable) FrameCount() int {
	if t.Data == nil {
		return 0
	}
	rows, _ := t.Data.Dims()
	return rows
}

// column は列名の位置を返す。見つからなければ -1。
func (t *TransformTable) column(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// jointAxes は指定関節の軸列を表の列順に返す。
func (t *TransformTable) jointAxes(joint string) []string {
	var axes []string
	prefix := joint + "."
	for _, c := range t.Columns {
		if c == TimeColumn {
			continue
		}
		if strings.HasPrefix(c, prefix) {
			axes = append(axes, strings.TrimPrefix(c, prefix))
		}
	}
	return axes
}

// jointNames は表に現れる関節名の集合を返す。
func (t *TransformTable) jointNames() map[string]bool {
	names := make(map[string]bool)
	for _, c := range t.Columns {
		if c == TimeColumn {
			continue
		}
		if dot := strings.Index(c, "."); dot > 0 {
			names[c[:dot]] = true
		}
	}
	return names
}

// BuildFromTables は階層表・位置表・回転表から BvhTree を組み立てる。
// すべての検証を通過するまでツリーは構築されず、失敗時は部分的な結果を返さない。
// scale はオフセットとルート位置の両方に掛かる。
func BuildFromTables(rows []HierarchyRow, positions, rotations *TransformTable, scale float64) (*BvhTree, error) {
	rowByName, rootName, err := validateHierarchy(rows)
	if err != nil {
		return nil, err
	}

	// 子リストは階層表の行順を保つ。
	children := make(map[string][]string)
	for _, row := range rows {
		if row.Parent != "" {
			children[row.Parent] = append(children[row.Parent], row.Joint)
		}
	}

	rootPosChannels, err := rootPositionChannels(positions, rootName)
	if err != nil {
		return nil, err
	}
	rotChannels, err := jointRotationChannels(rotations, rows, children)
	if err != nil {
		return nil, err
	}
	if positions.FrameCount() != rotations.FrameCount() {
		return nil, &merr.FrameCountMismatchError{Positions: positions.FrameCount(), Rotations: rotations.FrameCount()}
	}
	timeCol := rotations.column(TimeColumn)
	if timeCol < 0 {
		return nil, &merr.InvalidArgumentError{Message: "回転表に time 列がありません"}
	}

	skeleton := NewSkeleton()
	if err := addJointRecursive(skeleton, -1, rootName, rowByName, children, rootPosChannels, rotChannels, scale); err != nil {
		return nil, err
	}

	motion, err := projectMotion(skeleton, positions, rotations, scale)
	if err != nil {
		return nil, err
	}
	return NewBvhTree(skeleton, motion)
}

// validateHierarchy は階層表の整合性を検証し、行索引とルート名を返す。
func validateHierarchy(rows []HierarchyRow) (map[string]HierarchyRow, string, error) {
	rowByName := make(map[string]HierarchyRow, len(rows))
	var roots []string
	for _, row := range rows {
		if row.Joint == row.Parent {
			return nil, "", &merr.SelfParentError{Name: row.Joint}
		}
		rowByName[row.Joint] = row
		if row.Parent == "" {
			roots = append(roots, row.Joint)
		}
	}
	for _, row := range rows {
		if row.Parent == "" {
			continue
		}
		if _, ok := rowByName[row.Parent]; !ok {
			return nil, "", &merr.DanglingParentError{Joint: row.Joint, Parent: row.Parent}
		}
	}
	// 親を辿ってルートに到達できなければ循環している。相互参照はルート行を
	// 持たないため、ルート有無の判定より先に調べる。
	for _, row := range rows {
		current := row
		for steps := 0; current.Parent != ""; steps++ {
			if steps >= len(rows) {
				return nil, "", &merr.CyclicHierarchyError{Joint: row.Joint, Parent: row.Parent}
			}
			current = rowByName[current.Parent]
		}
	}
	if len(roots) == 0 {
		return nil, "", &merr.NoRootError{}
	}
	if len(roots) > 1 {
		return nil, "", &merr.MultipleRootsError{Names: roots}
	}
	return rowByName, roots[0], nil
}

// rootPositionChannels はルートの位置チャネルを表の列順に返す。
func rootPositionChannels(positions *TransformTable, rootName string) ([]Channel, error) {
	axes := positions.jointAxes(rootName)
	if len(axes) == 0 {
		return nil, &merr.MissingRootPositionError{Root: rootName}
	}
	channels := make([]Channel, 0, len(axes))
	for _, axis := range axes {
		ch, ok := PositionChannelForAxis(axis)
		if !ok {
			return nil, &merr.InvalidArgumentError{Message: "位置列の軸が不正です: " + rootName + "." + axis}
		}
		channels = append(channels, ch)
	}
	return channels, nil
}

// jointRotationChannels は非末端関節の回転チャネルを表の列順に返す。
// 回転データを欠く非末端関節があればまとめて報告する。
func jointRotationChannels(rotations *TransformTable, rows []HierarchyRow, children map[string][]string) (map[string][]Channel, error) {
	present := rotations.jointNames()
	var missing []string
	channels := make(map[string][]Channel)
	for _, row := range rows {
		if len(children[row.Joint]) == 0 {
			continue
		}
		if !present[row.Joint] {
			missing = append(missing, row.Joint)
			continue
		}
		axes := rotations.jointAxes(row.Joint)
		chs := make([]Channel, 0, len(axes))
		for _, axis := range axes {
			ch, ok := RotationChannelForAxis(axis)
			if !ok {
				return nil, &merr.InvalidArgumentError{Message: "回転列の軸が不正です: " + row.Joint + "." + axis}
			}
			chs = append(chs, ch)
		}
		channels[row.Joint] = chs
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &merr.MissingJointRotationError{Names: missing}
	}
	return channels, nil
}

// addJointRecursive は行順を保ちながら関節を深さ優先で骨格に追加する。
// 子を持たない行はエンドサイトとして親に取り込む。
func addJointRecursive(skeleton *Skeleton, parentIndex int, name string, rowByName map[string]HierarchyRow, children map[string][]string, rootPosChannels []Channel, rotChannels map[string][]Channel, scale float64) error {
	row := rowByName[name]
	offset := r3.Scale(scale, row.Offset)
	var index int
	var err error
	if parentIndex < 0 {
		channels := append(append([]Channel(nil), rootPosChannels...), rotChannels[name]...)
		index, err = skeleton.AddRoot(name, offset, channels)
	} else {
		index, err = skeleton.AddJoint(name, parentIndex, offset, rotChannels[name])
	}
	if err != nil {
		return err
	}
	for _, child := range children[name] {
		if len(children[child]) == 0 {
			childRow := rowByName[child]
			if _, err := skeleton.AddEndSite(child, index, r3.Scale(scale, childRow.Offset)); err != nil {
				return err
			}
			continue
		}
		if err := addJointRecursive(skeleton, index, child, rowByName, children, rootPosChannels, rotChannels, scale); err != nil {
			return err
		}
	}
	return nil
}

// projectMotion は入力表の列を正準の深さ優先チャネル順に並べ替えた動作表を作る。
func projectMotion(skeleton *Skeleton, positions, rotations *TransformTable, scale float64) (*Motion, error) {
	frameCount := rotations.FrameCount()
	type source struct {
		table *TransformTable
		col   int
		scale float64
	}
	var sources []source
	for _, joint := range skeleton.JointsDepthFirst(false) {
		for _, ch := range joint.Channels() {
			name := joint.Name() + "." + ch.Axis()
			if ch.IsPosition() {
				col := positions.column(name)
				if col < 0 {
					return nil, &merr.ChannelNotFoundError{Joint: joint.Name(), Channel: string(ch)}
				}
				sources = append(sources, source{positions, col, scale})
				continue
			}
			col := rotations.column(name)
			if col < 0 {
				return nil, &merr.ChannelNotFoundError{Joint: joint.Name(), Channel: string(ch)}
			}
			sources = append(sources, source{rotations, col, 1})
		}
	}
	data := make([][]float64, frameCount)
	for f := 0; f < frameCount; f++ {
		row := make([]float64, len(sources))
		for i, src := range sources {
			row[i] = src.table.Data.At(f, src.col) * src.scale
		}
		data[f] = row
	}
	return NewMotion(data, len(sources), frameTimeFromTable(rotations))
}

// frameTimeFromTable は time 列の隣接差分の平均からフレーム時間を推定する。
func frameTimeFromTable(rotations *TransformTable) float64 {
	col := rotations.column(TimeColumn)
	frameCount := rotations.FrameCount()
	if col < 0 || frameCount < 2 {
		return DefaultFrameTime
	}
	deltas := make([]float64, frameCount-1)
	for f := 1; f < frameCount; f++ {
		deltas[f-1] = rotations.Data.At(f, col) - rotations.Data.At(f-1, col)
	}
	return stat.Mean(deltas, nil)
}
