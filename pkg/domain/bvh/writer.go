// 指示: miu200521358
package bvh

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Render は BvhTree を BVH テキスト形式に直列化して返す。
func Render(tree *BvhTree) (string, error) {
	var sb strings.Builder
	if err := Write(&sb, tree); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Write は BvhTree を BVH テキスト形式で書き出す。
// 階層部はドキュメント順に関節を書き、深さの差分に応じて開きスコープを閉じる。
func Write(w io.Writer, tree *BvhTree) error {
	if err := writeHierarchy(w, tree.Skeleton()); err != nil {
		return err
	}
	return writeMotion(w, tree.Motion())
}

func writeHierarchy(w io.Writer, skeleton *Skeleton) error {
	if _, err := io.WriteString(w, "HIERARCHY\n"); err != nil {
		return err
	}
	// 開いたままのスコープの深さを積む。次の関節が同じ深さ以下なら
	// そこまでポップしながら閉じ括弧を書く。
	var open []int
	for _, joint := range skeleton.JointsDepthFirst(true) {
		depth := skeleton.JointDepth(joint)
		for len(open) > 0 && open[len(open)-1] >= depth {
			top := open[len(open)-1]
			open = open[:len(open)-1]
			if _, err := fmt.Fprintf(w, "%s}\n", indent(top)); err != nil {
				return err
			}
		}
		if err := writeJoint(w, joint, depth); err != nil {
			return err
		}
		open = append(open, depth)
	}
	for len(open) > 0 {
		top := open[len(open)-1]
		open = open[:len(open)-1]
		if _, err := fmt.Fprintf(w, "%s}\n", indent(top)); err != nil {
			return err
		}
	}
	return nil
}

func writeJoint(w io.Writer, joint *Joint, depth int) error {
	pad := indent(depth)
	switch {
	case joint.IsEndSite():
		if _, err := fmt.Fprintf(w, "%sEnd Site\n", pad); err != nil {
			return err
		}
	case joint.IsRoot():
		if _, err := fmt.Fprintf(w, "%sROOT %s\n", pad, joint.Name()); err != nil {
			return err
		}
	default:
		if _, err := fmt.Fprintf(w, "%sJOINT %s\n", pad, joint.Name()); err != nil {
			return err
		}
	}
	offset := joint.Offset()
	if _, err := fmt.Fprintf(w, "%s{\n%s  OFFSET %s %s %s\n",
		pad, pad, formatValue(offset.X), formatValue(offset.Y), formatValue(offset.Z)); err != nil {
		return err
	}
	if joint.IsEndSite() {
		return nil
	}
	names := make([]string, len(joint.Channels()))
	for i, ch := range joint.Channels() {
		names[i] = string(ch)
	}
	_, err := fmt.Fprintf(w, "%s  CHANNELS %d %s\n", pad, len(names), strings.Join(names, " "))
	return err
}

func writeMotion(w io.Writer, motion *Motion) error {
	if _, err := fmt.Fprintf(w, "MOTION\nFrames: %d\nFrame Time: %s\n",
		motion.FrameCount(), formatValue(motion.FrameTime())); err != nil {
		return err
	}
	values := make([]string, motion.ColCount())
	for f := 0; f < motion.FrameCount(); f++ {
		for c := range values {
			values[c] = formatValue(motion.Value(f, c))
		}
		if _, err := fmt.Fprintf(w, "%s\n", strings.Join(values, " ")); err != nil {
			return err
		}
	}
	return nil
}

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}

// formatValue は数値を小数6桁で書き、末尾の余分なゼロを落とす。
func formatValue(v float64) string {
	s := strconv.FormatFloat(v, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	return s
}
