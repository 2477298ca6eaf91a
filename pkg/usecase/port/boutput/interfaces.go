// 指示: miu200521358
package boutput

import "github.com/miu200521358/mu_bvh_conv/pkg/domain/bvh"

// IMotionReader はモーション入力の読み込み契約を表す。
type IMotionReader interface {
	// CanLoad はパスが読み込み可能かを判定する。
	CanLoad(path string) bool
	// InferName はパスから表示名を推定する。
	InferName(path string) string
	// Load はモーションファイルを読み込む。
	Load(path string) (*bvh.BvhTree, error)
}

// IMotionWriter はモーション出力の書き込み契約を表す。
type IMotionWriter interface {
	// Save はツリーをモーションファイルへ書き出す。
	Save(path string, tree *bvh.BvhTree) error
}

// ITableRepository はCSVテーブルの読み書き契約を表す。
type ITableRepository interface {
	// SaveHierarchy は関節階層をCSVへ書き出す。
	SaveHierarchy(path string, tree *bvh.BvhTree, scale float64) error
	// SavePositions はワールド位置をCSVへ書き出す。
	SavePositions(path string, tree *bvh.BvhTree, scale float64, endSites bool) error
	// SaveRotations は回転チャネル値をCSVへ書き出す。
	SaveRotations(path string, tree *bvh.BvhTree) error
	// LoadHierarchy は階層CSVを読み込む。
	LoadHierarchy(path string) ([]bvh.HierarchyRow, error)
	// LoadTransforms は位置・回転CSVを読み込む。
	LoadTransforms(path string) (*bvh.TransformTable, error)
}
