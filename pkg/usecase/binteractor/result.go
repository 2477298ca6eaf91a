// 指示: miu200521358
package binteractor

import (
	"github.com/miu200521358/mu_bvh_conv/pkg/usecase/port/boutput"
)

// BvhConvUsecaseDeps はBVH変換ユースケースの依存を表す。
type BvhConvUsecaseDeps struct {
	MotionReader boutput.IMotionReader
	MotionWriter boutput.IMotionWriter
	TableRepo    boutput.ITableRepository
}

// BvhConvUsecase はBVHとCSVの相互変換・加工処理をまとめたユースケースを表す。
type BvhConvUsecase struct {
	motionReader boutput.IMotionReader
	motionWriter boutput.IMotionWriter
	tableRepo    boutput.ITableRepository
}

// NewBvhConvUsecase はBVH変換ユースケースを生成する。
func NewBvhConvUsecase(deps BvhConvUsecaseDeps) *BvhConvUsecase {
	return &BvhConvUsecase{
		motionReader: deps.MotionReader,
		motionWriter: deps.MotionWriter,
		tableRepo:    deps.TableRepo,
	}
}

// Bvh2CsvRequest はBVHからCSVへの変換要求を表す。
type Bvh2CsvRequest struct {
	InputPath       string
	OutputDir       string
	Scale           float64
	ExportRotation  bool
	ExportPosition  bool
	ExportHierarchy bool
	EndSites        bool
}

// Bvh2CsvResult はBVHからCSVへの変換結果を表す。
type Bvh2CsvResult struct {
	HierarchyPath string
	PositionPath  string
	RotationPath  string
}

// Csv2BvhRequest はCSVからBVHへの変換要求を表す。
type Csv2BvhRequest struct {
	HierarchyPath string
	PositionPath  string
	RotationPath  string
	OutputPath    string
	Scale         float64
}

// Csv2BvhResult はCSVからBVHへの変換結果を表す。
type Csv2BvhResult struct {
	OutputPath string
}

// AngleOffsetRequest は関節への回転オフセット加算要求を表す。
// 角度はその関節のチャネル順に並んだオイラー角(度)で与える。
type AngleOffsetRequest struct {
	InputPath  string
	OutputPath string
	Angles     map[string][]float64
}

// AngleOffsetResult は回転オフセット加算結果を表す。
type AngleOffsetResult struct {
	OutputPath string
	Applied    []string
	Skipped    []string
}

// RemoveFramesRequest はフレーム範囲削除要求を表す。
type RemoveFramesRequest struct {
	InputPath  string
	OutputPath string
	Start      int
	End        int
}

// RemoveFramesResult はフレーム範囲削除結果を表す。
type RemoveFramesResult struct {
	OutputPath string
	Remaining  int
}

// RenameJointsRequest は関節名一括置換要求を表す。
type RenameJointsRequest struct {
	InputPath  string
	OutputPath string
	Names      map[string]string
}

// RenameJointsResult は関節名一括置換結果を表す。
type RenameJointsResult struct {
	OutputPath string
}
