// 指示: miu200521358
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
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

func writeSampleBvh(t *testing.T, dir string, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(sampleBvh), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	return path
}

func TestRunWithoutCommand(t *testing.T) {
	outBuf := bytes.NewBuffer(nil)
	errBuf := bytes.NewBuffer(nil)
	if err := run(nil, outBuf, errBuf); err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(errBuf.String(), "bvh2csv") {
		t.Fatalf("usage should be printed: %s", errBuf.String())
	}
}

func TestRunUnknownCommand(t *testing.T) {
	outBuf := bytes.NewBuffer(nil)
	errBuf := bytes.NewBuffer(nil)
	if err := run([]string{"compile"}, outBuf, errBuf); err == nil {
		t.Fatalf("expected error")
	}
}

func TestRunHelp(t *testing.T) {
	outBuf := bytes.NewBuffer(nil)
	errBuf := bytes.NewBuffer(nil)
	if err := run([]string{"help"}, outBuf, errBuf); err != nil {
		t.Fatalf("help failed: %v", err)
	}
	if !strings.Contains(outBuf.String(), "csv2bvh") {
		t.Fatalf("usage should be printed: %s", outBuf.String())
	}
}

func TestRunBvh2CsvSingleFile(t *testing.T) {
	dir := t.TempDir()
	inputPath := writeSampleBvh(t, dir, "walk01.bvh")
	outBuf := bytes.NewBuffer(nil)
	errBuf := bytes.NewBuffer(nil)

	if err := run([]string{"bvh2csv", "-in", inputPath}, outBuf, errBuf); err != nil {
		t.Fatalf("bvh2csv failed: %v", err)
	}
	for _, suffix := range []string{"_hierarchy.csv", "_pos.csv", "_rot.csv"} {
		path := filepath.Join(dir, "walk01"+suffix)
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("csv not found: %v", err)
		}
	}
}

func TestRunBvh2CsvAndBackToBvh(t *testing.T) {
	dir := t.TempDir()
	inputPath := writeSampleBvh(t, dir, "walk01.bvh")
	outBuf := bytes.NewBuffer(nil)
	errBuf := bytes.NewBuffer(nil)

	if err := run([]string{"bvh2csv", "-in", inputPath}, outBuf, errBuf); err != nil {
		t.Fatalf("bvh2csv failed: %v", err)
	}
	rebuiltPath := filepath.Join(dir, "rebuilt.bvh")
	if err := run([]string{
		"csv2bvh",
		"-base", filepath.Join(dir, "walk01"),
		"-out", rebuiltPath,
	}, outBuf, errBuf); err != nil {
		t.Fatalf("csv2bvh failed: %v", err)
	}
	data, err := os.ReadFile(rebuiltPath)
	if err != nil {
		t.Fatalf("read rebuilt: %v", err)
	}
	if !strings.Contains(string(data), "JOINT Spine") {
		t.Fatalf("rebuilt bvh should contain hierarchy: %s", string(data))
	}
}

func TestRunBvh2CsvBatchDirectory(t *testing.T) {
	dir := t.TempDir()
	writeSampleBvh(t, dir, "walk01.bvh")
	writeSampleBvh(t, dir, "walk02.bvh")
	outBuf := bytes.NewBuffer(nil)
	errBuf := bytes.NewBuffer(nil)

	if err := run([]string{"bvh2csv", "-in", dir, "-rotation"}, outBuf, errBuf); err != nil {
		t.Fatalf("batch bvh2csv failed: %v", err)
	}
	for _, name := range []string{"walk01_rot.csv", "walk02_rot.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("csv not found: %v", err)
		}
	}
}

func TestRunOffsetAngles(t *testing.T) {
	dir := t.TempDir()
	inputPath := writeSampleBvh(t, dir, "walk01.bvh")
	offsetsPath := filepath.Join(dir, "offsets.csv")
	offsets := "joint,i,j,k\nSpine,0,30,0\n"
	if err := os.WriteFile(offsetsPath, []byte(offsets), 0o644); err != nil {
		t.Fatalf("write offsets: %v", err)
	}
	outputPath := filepath.Join(dir, "offset.bvh")
	outBuf := bytes.NewBuffer(nil)
	errBuf := bytes.NewBuffer(nil)

	if err := run([]string{
		"offsetangles",
		"-in", inputPath,
		"-offsets", offsetsPath,
		"-out", outputPath,
	}, outBuf, errBuf); err != nil {
		t.Fatalf("offsetangles failed: %v", err)
	}
	if _, err := os.Stat(outputPath); err != nil {
		t.Fatalf("output not found: %v", err)
	}
}

func TestCollectBvhPathsRejectsOtherExt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "walk01.csv")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := collectBvhPaths(path); err == nil {
		t.Fatalf("expected error")
	}
}

func TestCollectBvhPathsEmptyDirectory(t *testing.T) {
	if _, err := collectBvhPaths(t.TempDir()); err == nil {
		t.Fatalf("expected error")
	}
}
