// 指示: miu200521358
package bvh

import (
	"fmt"
	"math"

	"github.com/miu200521358/mu_bvh_conv/pkg/config/merr"
	"gonum.org/v1/gonum/mat"
)

// Motion はフレーム×チャネルの動作数値表とフレームメタデータを表す。
// 列レイアウトの権威はこの表を所有する BvhTree 側の骨格にある。
type Motion struct {
	frames     *mat.Dense
	frameCount int
	colCount   int
	frameTime  float64
}

// NewMotion は行列データとフレーム時間から Motion を構築する。
// 列数はフレーム0件でも骨格のチャネル総数と照合できるよう明示的に受け取る。
// すべての値が有限であること、行が矩形であることを検証する。
func NewMotion(data [][]float64, colCount int, frameTime float64) (*Motion, error) {
	if frameTime <= 0 {
		return nil, &merr.InvalidArgumentError{Message: fmt.Sprintf("フレーム時間は正の値が必要です: %v", frameTime)}
	}
	if colCount < 0 {
		return nil, &merr.InvalidArgumentError{Message: fmt.Sprintf("列数は非負の値が必要です: %d", colCount)}
	}
	frameCount := len(data)
	flat := make([]float64, 0, frameCount*colCount)
	for i, row := range data {
		if len(row) != colCount {
			return nil, &merr.InvalidArgumentError{Message: fmt.Sprintf("フレーム %d の列数が一致しません: %d != %d", i, len(row), colCount)}
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, &merr.InvalidArgumentError{Message: fmt.Sprintf("フレーム %d 列 %d の値が有限ではありません", i, j)}
			}
			flat = append(flat, v)
		}
	}
	m := &Motion{frameCount: frameCount, colCount: colCount, frameTime: frameTime}
	if frameCount > 0 && colCount > 0 {
		m.frames = mat.NewDense(frameCount, colCount, flat)
	}
	return m, nil
}

// FrameCount はフレーム数を返す。
func (m *Motion) FrameCount() int {
	return m.frameCount
}

// ColCount はチャネル列数を返す。
func (m *Motion) ColCount() int {
	return m.colCount
}

// FrameTime は1フレームあたりの秒数を返す。
func (m *Motion) FrameTime() float64 {
	return m.frameTime
}

// Duration は動作全体の長さ(秒)を返す。
func (m *Motion) Duration() float64 {
	if m.frameCount < 1 {
		return 0
	}
	return float64(m.frameCount-1) * m.frameTime
}

// Value は指定フレーム・列の値を返す。
func (m *Motion) Value(frame, col int) float64 {
	return m.frames.At(frame, col)
}

// SetValue は指定フレーム・列の値を書き換える。
func (m *Motion) SetValue(frame, col int, v float64) {
	m.frames.Set(frame, col, v)
}

// Row は指定フレームの全チャネル値のコピーを返す。
func (m *Motion) Row(frame int) []float64 {
	row := make([]float64, m.colCount)
	if m.frames != nil {
		mat.Row(row, frame, m.frames)
	}
	return row
}

// insertZeroColumn は指定位置にゼロ初期化列を挿入する。
// チャネル挿入の一環としてのみ呼ばれ、スキーマ更新と常に対で行う。
func (m *Motion) insertZeroColumn(at int) error {
	if at < 0 || at > m.colCount {
		return &merr.InvalidArgumentError{Message: fmt.Sprintf("列挿入位置が範囲外です: %d", at)}
	}
	newCols := m.colCount + 1
	if m.frameCount == 0 {
		m.colCount = newCols
		return nil
	}
	grown := mat.NewDense(m.frameCount, newCols, nil)
	for r := 0; r < m.frameCount; r++ {
		for c := 0; c < at; c++ {
			grown.Set(r, c, m.frames.At(r, c))
		}
		for c := at; c < m.colCount; c++ {
			grown.Set(r, c+1, m.frames.At(r, c))
		}
	}
	m.frames = grown
	m.colCount = newCols
	return nil
}

// RemoveFrames は [start, end] のフレーム範囲を取り除く(0始まり、両端含む)。
// end が負の場合は start 以降すべてを取り除く。
func (m *Motion) RemoveFrames(start, end int) error {
	if end < 0 {
		end = m.frameCount - 1
	}
	if start < 0 || start > end || end >= m.frameCount {
		return &merr.InvalidArgumentError{Message: fmt.Sprintf("フレーム範囲が不正です: [%d, %d]", start, end)}
	}
	kept := m.frameCount - (end - start + 1)
	if kept == 0 {
		m.frames = nil
		m.frameCount = 0
		return nil
	}
	shrunk := mat.NewDense(kept, m.colCount, nil)
	out := 0
	for r := 0; r < m.frameCount; r++ {
		if r >= start && r <= end {
			continue
		}
		for c := 0; c < m.colCount; c++ {
			shrunk.Set(out, c, m.frames.At(r, c))
		}
		out++
	}
	m.frames = shrunk
	m.frameCount = kept
	return nil
}
