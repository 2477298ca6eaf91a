// 指示: miu200521358
package csvtable

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/miu200521358/mu_bvh_conv/pkg/domain/bvh"
	"github.com/miu200521358/mu_bvh_conv/pkg/domain/deform"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// 出力ファイル名の接尾辞。
const (
	HierarchySuffix = "_hierarchy.csv"
	PositionSuffix  = "_pos.csv"
	RotationSuffix  = "_rot.csv"
)

// CsvTableRepository はCSVテーブルの読み書き契約を表す。
type CsvTableRepository struct{}

// NewCsvTableRepository はCsvTableRepositoryを生成する。
func NewCsvTableRepository() *CsvTableRepository {
	return &CsvTableRepository{}
}

// CanLoad は拡張子に応じて読み込み可否を判定する。
func (r *CsvTableRepository) CanLoad(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".csv")
}

// SaveHierarchy は関節階層(エンドサイト含む)をCSVへ書き出す。
func (r *CsvTableRepository) SaveHierarchy(path string, tree *bvh.BvhTree, scale float64) error {
	records := [][]string{{"joint", "parent", "offset.x", "offset.y", "offset.z"}}
	skeleton := tree.Skeleton()
	for _, joint := range skeleton.JointsDepthFirst(true) {
		parentName := ""
		if parent := skeleton.Parent(joint); parent != nil {
			parentName = parent.Name()
		}
		offset := r3.Scale(scale, joint.Offset())
		records = append(records, []string{
			joint.Name(), parentName,
			formatCell(offset.X), formatCell(offset.Y), formatCell(offset.Z),
		})
	}
	return writeRecords(path, records)
}

// SavePositions は全関節のワールド位置をCSVへ書き出す。
func (r *CsvTableRepository) SavePositions(path string, tree *bvh.BvhTree, scale float64, endSites bool) error {
	deltas, err := deform.WorldMatrices(tree)
	if err != nil {
		return err
	}
	frameCount := tree.Motion().FrameCount()
	header := []string{"time"}
	columns := [][]float64{timeColumn(frameCount, tree.Motion().FrameTime())}
	for _, joint := range tree.Skeleton().JointsDepthFirst(endSites) {
		positions, err := deltas.WorldPositions(joint.Index(), scale)
		if err != nil {
			return err
		}
		xs := make([]float64, frameCount)
		ys := make([]float64, frameCount)
		zs := make([]float64, frameCount)
		for f, p := range positions {
			xs[f], ys[f], zs[f] = p.X, p.Y, p.Z
		}
		header = append(header, joint.Name()+".x", joint.Name()+".y", joint.Name()+".z")
		columns = append(columns, xs, ys, zs)
	}
	return writeColumns(path, header, columns, frameCount)
}

// SaveRotations は全関節の回転チャネル値をCSVへ書き出す。
// 列は関節の宣言チャネル順で <関節名>.<軸> と名付けられる。
func (r *CsvTableRepository) SaveRotations(path string, tree *bvh.BvhTree) error {
	frameCount := tree.Motion().FrameCount()
	header := []string{"time"}
	columns := [][]float64{timeColumn(frameCount, tree.Motion().FrameTime())}
	for _, joint := range tree.Skeleton().JointsDepthFirst(false) {
		for _, ch := range joint.RotationChannels() {
			col, err := tree.ChannelColumnIndex(joint.Name(), ch)
			if err != nil {
				return err
			}
			values := make([]float64, frameCount)
			for f := 0; f < frameCount; f++ {
				values[f] = tree.Motion().Value(f, col)
			}
			header = append(header, joint.Name()+"."+ch.Axis())
			columns = append(columns, values)
		}
	}
	return writeColumns(path, header, columns, frameCount)
}

// LoadHierarchy は階層CSVを読み込む。
func (r *CsvTableRepository) LoadHierarchy(path string) ([]bvh.HierarchyRow, error) {
	records, err := readRecords(path)
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("階層CSVに関節行がありません: %s", path)
	}
	rows := make([]bvh.HierarchyRow, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != 5 {
			return nil, fmt.Errorf("階層CSVの%d行目の列数が不正です: %d", i+2, len(record))
		}
		offset, err := parseCells(record[2:])
		if err != nil {
			return nil, fmt.Errorf("階層CSVの%d行目のオフセットが不正です: %w", i+2, err)
		}
		rows = append(rows, bvh.HierarchyRow{
			Joint:  strings.TrimSpace(record[0]),
			Parent: strings.TrimSpace(record[1]),
			Offset: r3.Vec{X: offset[0], Y: offset[1], Z: offset[2]},
		})
	}
	return rows, nil
}

// LoadTransforms は位置・回転CSVを読み込む。
func (r *CsvTableRepository) LoadTransforms(path string) (*bvh.TransformTable, error) {
	records, err := readRecords(path)
	if err != nil {
		return nil, err
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("CSVにヘッダ行がありません: %s", path)
	}
	columns := make([]string, len(records[0]))
	for i, name := range records[0] {
		columns[i] = strings.TrimSpace(name)
	}
	frameCount := len(records) - 1
	if frameCount == 0 {
		return &bvh.TransformTable{Columns: columns}, nil
	}
	data := mat.NewDense(frameCount, len(columns), nil)
	for f, record := range records[1:] {
		if len(record) != len(columns) {
			return nil, fmt.Errorf("CSVの%d行目の列数が一致しません: %d != %d", f+2, len(record), len(columns))
		}
		values, err := parseCells(record)
		if err != nil {
			return nil, fmt.Errorf("CSVの%d行目の値が不正です: %w", f+2, err)
		}
		data.SetRow(f, values)
	}
	return &bvh.TransformTable{Columns: columns, Data: data}, nil
}

// LoadAngleOffsets は関節ごとの回転オフセットCSVを読み込む。
// ヘッダは joint,i,j,k で、i,j,k は各関節の回転チャネル順のオイラー角(度)。
func (r *CsvTableRepository) LoadAngleOffsets(path string) (map[string][]float64, error) {
	records, err := readRecords(path)
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("回転オフセットCSVに関節行がありません: %s", path)
	}
	offsets := make(map[string][]float64, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != 4 {
			return nil, fmt.Errorf("回転オフセットCSVの%d行目の列数が不正です: %d", i+2, len(record))
		}
		values, err := parseCells(record[1:])
		if err != nil {
			return nil, fmt.Errorf("回転オフセットCSVの%d行目の値が不正です: %w", i+2, err)
		}
		offsets[strings.TrimSpace(record[0])] = values
	}
	return offsets, nil
}

// LoadJointNames は関節リネームCSVを読み込む。ヘッダは joint,new。
func (r *CsvTableRepository) LoadJointNames(path string) (map[string]string, error) {
	records, err := readRecords(path)
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("リネームCSVに関節行がありません: %s", path)
	}
	names := make(map[string]string, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != 2 {
			return nil, fmt.Errorf("リネームCSVの%d行目の列数が不正です: %d", i+2, len(record))
		}
		oldName := strings.TrimSpace(record[0])
		newName := strings.TrimSpace(record[1])
		if oldName == "" || newName == "" {
			return nil, fmt.Errorf("リネームCSVの%d行目に空の関節名があります", i+2)
		}
		names[oldName] = newName
	}
	return names, nil
}

// timeColumn はフレーム時間から各フレームの時刻列を作る。
func timeColumn(frameCount int, frameTime float64) []float64 {
	if frameCount == 0 {
		return nil
	}
	times := make([]float64, frameCount)
	if frameCount == 1 {
		return times
	}
	floats.Span(times, 0, float64(frameCount-1)*frameTime)
	return times
}

func writeColumns(path string, header []string, columns [][]float64, frameCount int) error {
	records := make([][]string, 0, frameCount+1)
	records = append(records, header)
	for f := 0; f < frameCount; f++ {
		row := make([]string, len(columns))
		for c, column := range columns {
			row[c] = formatCell(column[f])
		}
		records = append(records, row)
	}
	return writeRecords(path, records)
}

func writeRecords(path string, records [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("出力先フォルダの作成に失敗しました: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("CSVファイルの作成に失敗しました: %w", err)
	}
	defer file.Close()
	writer := csv.NewWriter(file)
	if err := writer.WriteAll(records); err != nil {
		return fmt.Errorf("CSVファイルの書き出しに失敗しました: %w", err)
	}
	writer.Flush()
	return writer.Error()
}

func readRecords(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("CSVファイルの読み込みに失敗しました: %w", err)
	}
	defer file.Close()
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("CSVファイルの解析に失敗しました(%s): %w", path, err)
	}
	return records, nil
}

func formatCell(v float64) string {
	return fmt.Sprintf("%10.5f", v)
}

func parseCells(cells []string) ([]float64, error) {
	values := make([]float64, len(cells))
	for i, cell := range cells {
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}
