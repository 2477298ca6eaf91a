// 指示: miu200521358
package binteractor

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/miu200521358/mu_bvh_conv/pkg/adapter/io_motion/bvhio"
	"github.com/miu200521358/mu_bvh_conv/pkg/adapter/io_motion/csvtable"
	"github.com/miu200521358/mu_bvh_conv/pkg/domain/bvh"
)

const sampleBvh = `HIERARCHY
ROOT Hips
{
  OFFSET 0.0 0.0 0.0
  CHANNELS 6 Xposition Yposition Zposition Zrotation Xrotation Yrotation
  JOINT Spine
  {
    OFFSET 0.0 1.0 0.0
    CHANNELS 3 Zrotation Xrotation Yrotation
    End Site
    {
      OFFSET 0.0 1.0 0.0
    }
  }
}
MOTION
Frames: 2
Frame Time: 0.05
0.0 0.0 0.0 0.0 0.0 0.0 0.0 0.0 0.0
1.0 2.0 3.0 90.0 0.0 0.0 0.0 45.0 0.0
`

func newTestUsecase() *BvhConvUsecase {
	repo := bvhio.NewBvhRepository()
	return NewBvhConvUsecase(BvhConvUsecaseDeps{
		MotionReader: repo,
		MotionWriter: repo,
		TableRepo:    csvtable.NewCsvTableRepository(),
	})
}

func writeSampleBvh(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "walk01.bvh")
	if err := os.WriteFile(path, []byte(sampleBvh), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	return path
}

func TestBvh2CsvAndBack(t *testing.T) {
	dir := t.TempDir()
	inputPath := writeSampleBvh(t, dir)
	uc := newTestUsecase()

	csvResult, err := uc.Bvh2Csv(Bvh2CsvRequest{
		InputPath:       inputPath,
		OutputDir:       dir,
		ExportRotation:  true,
		ExportPosition:  true,
		ExportHierarchy: true,
	})
	if err != nil {
		t.Fatalf("bvh2csv: %v", err)
	}
	for _, path := range []string{csvResult.HierarchyPath, csvResult.PositionPath, csvResult.RotationPath} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("csv not found: %v", err)
		}
	}

	bvhResult, err := uc.Csv2Bvh(Csv2BvhRequest{
		HierarchyPath: csvResult.HierarchyPath,
		PositionPath:  csvResult.PositionPath,
		RotationPath:  csvResult.RotationPath,
		OutputPath:    filepath.Join(dir, "rebuilt.bvh"),
	})
	if err != nil {
		t.Fatalf("csv2bvh: %v", err)
	}

	original, err := bvhio.NewBvhRepository().Load(inputPath)
	if err != nil {
		t.Fatalf("load original: %v", err)
	}
	rebuilt, err := bvhio.NewBvhRepository().Load(bvhResult.OutputPath)
	if err != nil {
		t.Fatalf("load rebuilt: %v", err)
	}
	if rebuilt.Skeleton().Len() != original.Skeleton().Len() {
		t.Fatalf("joint count mismatch: got=%d want=%d",
			rebuilt.Skeleton().Len(), original.Skeleton().Len())
	}
	if rebuilt.Motion().FrameCount() != original.Motion().FrameCount() {
		t.Fatalf("frame count mismatch: got=%d want=%d",
			rebuilt.Motion().FrameCount(), original.Motion().FrameCount())
	}
	for f := 0; f < original.Motion().FrameCount(); f++ {
		for c := 0; c < original.Motion().ColCount(); c++ {
			if math.Abs(rebuilt.Motion().Value(f, c)-original.Motion().Value(f, c)) > 1e-4 {
				t.Fatalf("motion mismatch at (%d,%d): got=%v want=%v",
					f, c, rebuilt.Motion().Value(f, c), original.Motion().Value(f, c))
			}
		}
	}
}

func TestBvh2CsvRejectsEmptySelection(t *testing.T) {
	dir := t.TempDir()
	inputPath := writeSampleBvh(t, dir)
	uc := newTestUsecase()
	if _, err := uc.Bvh2Csv(Bvh2CsvRequest{InputPath: inputPath}); err == nil {
		t.Fatalf("empty selection should fail")
	}
}

func TestAngleOffset(t *testing.T) {
	dir := t.TempDir()
	inputPath := writeSampleBvh(t, dir)
	outputPath := filepath.Join(dir, "offset.bvh")
	uc := newTestUsecase()

	result, err := uc.AngleOffset(AngleOffsetRequest{
		InputPath:  inputPath,
		OutputPath: outputPath,
		Angles: map[string][]float64{
			"Spine":   {0, 30, 0},
			"Unknown": {1, 2, 3},
		},
	})
	if err != nil {
		t.Fatalf("angle offset: %v", err)
	}
	if len(result.Applied) != 1 || result.Applied[0] != "Spine" {
		t.Fatalf("applied mismatch: %v", result.Applied)
	}
	if len(result.Skipped) != 1 || result.Skipped[0] != "Unknown" {
		t.Fatalf("skipped mismatch: %v", result.Skipped)
	}

	tree, err := bvhio.NewBvhRepository().Load(outputPath)
	if err != nil {
		t.Fatalf("load output: %v", err)
	}
	// Spine の回転チャネル順は z,x,y。フレーム0は (0,0,0) + (0,30,0) = X軸30度。
	col, err := tree.ChannelColumnIndex("Spine", bvh.ChannelXrotation)
	if err != nil {
		t.Fatalf("channel column: %v", err)
	}
	if got := tree.Motion().Value(0, col); math.Abs(got-30) > 1e-9 {
		t.Fatalf("offset angle mismatch: got=%v want=30", got)
	}
	// フレーム1は既存の45度に加算され75度になる。
	if got := tree.Motion().Value(1, col); math.Abs(got-75) > 1e-9 {
		t.Fatalf("accumulated angle mismatch: got=%v want=75", got)
	}
	// ルートの列はずれていない。
	if got := tree.Motion().Value(1, 3); math.Abs(got-90) > 1e-9 {
		t.Fatalf("root rotation disturbed: got=%v want=90", got)
	}
}

func TestRemoveFramesUsecase(t *testing.T) {
	dir := t.TempDir()
	inputPath := writeSampleBvh(t, dir)
	outputPath := filepath.Join(dir, "trimmed.bvh")
	uc := newTestUsecase()

	result, err := uc.RemoveFrames(RemoveFramesRequest{
		InputPath:  inputPath,
		OutputPath: outputPath,
		Start:      0,
		End:        0,
	})
	if err != nil {
		t.Fatalf("remove frames: %v", err)
	}
	if result.Remaining != 1 {
		t.Fatalf("remaining mismatch: got=%d want=1", result.Remaining)
	}
	tree, err := bvhio.NewBvhRepository().Load(outputPath)
	if err != nil {
		t.Fatalf("load output: %v", err)
	}
	if got := tree.Motion().Value(0, 0); got != 1 {
		t.Fatalf("remaining frame mismatch: got=%v want=1", got)
	}
}

func TestRenameJointsUsecase(t *testing.T) {
	dir := t.TempDir()
	inputPath := writeSampleBvh(t, dir)
	outputPath := filepath.Join(dir, "renamed.bvh")
	uc := newTestUsecase()

	if _, err := uc.RenameJoints(RenameJointsRequest{
		InputPath:  inputPath,
		OutputPath: outputPath,
		Names:      map[string]string{"Spine": "Chest"},
	}); err != nil {
		t.Fatalf("rename joints: %v", err)
	}
	tree, err := bvhio.NewBvhRepository().Load(outputPath)
	if err != nil {
		t.Fatalf("load output: %v", err)
	}
	if _, err := tree.Skeleton().FindJoint("Chest"); err != nil {
		t.Fatalf("renamed joint should exist: %v", err)
	}
}
