// 指示: miu200521358
package bvhio

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/miu200521358/mu_bvh_conv/pkg/domain/bvh"
	"gonum.org/v1/gonum/spatial/r3"
)

// BvhRepository はBVHファイルの読み書き契約を表す。
type BvhRepository struct{}

// NewBvhRepository はBvhRepositoryを生成する。
func NewBvhRepository() *BvhRepository {
	return &BvhRepository{}
}

// CanLoad は拡張子に応じて読み込み可否を判定する。
func (r *BvhRepository) CanLoad(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".bvh")
}

// InferName はパスから表示名を推定する。
func (r *BvhRepository) InferName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Load はBVHファイルを読み込んでツリーを構築する。
func (r *BvhRepository) Load(path string) (*bvh.BvhTree, error) {
	if !r.CanLoad(path) {
		return nil, fmt.Errorf("BVHファイルではありません: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("BVHファイルの読み込みに失敗しました: %w", err)
	}
	tree, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("BVHファイルの解析に失敗しました(%s): %w", path, err)
	}
	return tree, nil
}

// Save はツリーをBVHファイルへ書き出す。
func (r *BvhRepository) Save(path string, tree *bvh.BvhTree) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("出力先フォルダの作成に失敗しました: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("BVHファイルの作成に失敗しました: %w", err)
	}
	defer file.Close()
	writer := bufio.NewWriter(file)
	if err := bvh.Write(writer, tree); err != nil {
		return fmt.Errorf("BVHファイルの書き出しに失敗しました: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("BVHファイルの書き出しに失敗しました: %w", err)
	}
	return nil
}

// parseNode は階層部の1ブロックを一時的に保持する。
type parseNode struct {
	name     string
	endSite  bool
	offset   r3.Vec
	channels []bvh.Channel
	children []*parseNode
}

// Parse はBVHテキストを解析してツリーを返す。
// エンドサイトには「親名_End」の名前が与えられる。
func Parse(data string) (*bvh.BvhTree, error) {
	lines := splitLines(data)
	pos := 0
	next := func() (string, bool) {
		if pos >= len(lines) {
			return "", false
		}
		line := lines[pos]
		pos++
		return line, true
	}

	line, ok := next()
	if !ok || line != "HIERARCHY" {
		return nil, fmt.Errorf("HIERARCHY セクションがありません")
	}

	var root *parseNode
	var stack []*parseNode
	var current *parseNode
	for {
		line, ok = next()
		if !ok {
			return nil, fmt.Errorf("MOTION セクションがありません")
		}
		if line == "MOTION" {
			break
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "ROOT", "JOINT":
			if len(fields) < 2 {
				return nil, fmt.Errorf("関節名がありません: %s", line)
			}
			node := &parseNode{name: fields[1]}
			if fields[0] == "ROOT" {
				if root != nil {
					return nil, fmt.Errorf("ROOT が複数あります")
				}
				root = node
			} else {
				if len(stack) == 0 {
					return nil, fmt.Errorf("親のない JOINT があります: %s", fields[1])
				}
				stack[len(stack)-1].children = append(stack[len(stack)-1].children, node)
			}
			current = node
		case "End":
			if len(stack) == 0 {
				return nil, fmt.Errorf("親のない End Site があります")
			}
			node := &parseNode{endSite: true}
			stack[len(stack)-1].children = append(stack[len(stack)-1].children, node)
			current = node
		case "{":
			if current == nil {
				return nil, fmt.Errorf("開きスコープに対応する関節がありません")
			}
			stack = append(stack, current)
			current = nil
		case "}":
			if len(stack) == 0 {
				return nil, fmt.Errorf("閉じスコープが多すぎます")
			}
			stack = stack[:len(stack)-1]
		case "OFFSET":
			if len(fields) != 4 || len(stack) == 0 {
				return nil, fmt.Errorf("OFFSET の形式が不正です: %s", line)
			}
			values, err := parseFloats(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("OFFSET の値が不正です: %w", err)
			}
			stack[len(stack)-1].offset = r3.Vec{X: values[0], Y: values[1], Z: values[2]}
		case "CHANNELS":
			if len(fields) < 2 || len(stack) == 0 {
				return nil, fmt.Errorf("CHANNELS の形式が不正です: %s", line)
			}
			count, err := strconv.Atoi(fields[1])
			if err != nil || len(fields) != count+2 {
				return nil, fmt.Errorf("CHANNELS の数が一致しません: %s", line)
			}
			channels := make([]bvh.Channel, 0, count)
			for _, name := range fields[2:] {
				ch, ok := bvh.ParseChannel(name)
				if !ok {
					return nil, fmt.Errorf("未知のチャネルです: %s", name)
				}
				channels = append(channels, ch)
			}
			stack[len(stack)-1].channels = channels
		default:
			return nil, fmt.Errorf("未知のキーワードです: %s", fields[0])
		}
	}
	if root == nil {
		return nil, fmt.Errorf("ROOT 関節がありません")
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("閉じられていないスコープがあります")
	}

	skeleton := bvh.NewSkeleton()
	if err := addNode(skeleton, -1, root); err != nil {
		return nil, err
	}

	motion, err := parseMotion(next, skeleton)
	if err != nil {
		return nil, err
	}
	return bvh.NewBvhTree(skeleton, motion)
}

// addNode は一時ノードを骨格へ移し替える。
func addNode(skeleton *bvh.Skeleton, parentIndex int, node *parseNode) error {
	var index int
	var err error
	if parentIndex < 0 {
		index, err = skeleton.AddRoot(node.name, node.offset, node.channels)
	} else {
		index, err = skeleton.AddJoint(node.name, parentIndex, node.offset, node.channels)
	}
	if err != nil {
		return err
	}
	for _, child := range node.children {
		if child.endSite {
			if _, err := skeleton.AddEndSite("", index, child.offset); err != nil {
				return err
			}
			continue
		}
		if err := addNode(skeleton, index, child); err != nil {
			return err
		}
	}
	return nil
}

// parseMotion は MOTION セクションを解析する。
func parseMotion(next func() (string, bool), skeleton *bvh.Skeleton) (*bvh.Motion, error) {
	line, ok := next()
	if !ok || !strings.HasPrefix(line, "Frames:") {
		return nil, fmt.Errorf("Frames 行がありません")
	}
	frameCount, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Frames:")))
	if err != nil {
		return nil, fmt.Errorf("Frames の値が不正です: %w", err)
	}
	line, ok = next()
	if !ok || !strings.HasPrefix(line, "Frame Time:") {
		return nil, fmt.Errorf("Frame Time 行がありません")
	}
	frameTime, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimPrefix(line, "Frame Time:")), 64)
	if err != nil {
		return nil, fmt.Errorf("Frame Time の値が不正です: %w", err)
	}

	colCount := 0
	for _, joint := range skeleton.JointsDepthFirst(false) {
		colCount += len(joint.Channels())
	}
	data := make([][]float64, 0, frameCount)
	for f := 0; f < frameCount; f++ {
		line, ok = next()
		if !ok {
			return nil, fmt.Errorf("フレーム数が足りません: %d/%d", f, frameCount)
		}
		values, err := parseFloats(strings.Fields(line))
		if err != nil {
			return nil, fmt.Errorf("フレーム %d の値が不正です: %w", f, err)
		}
		if len(values) != colCount {
			return nil, fmt.Errorf("フレーム %d の列数が一致しません: %d != %d", f, len(values), colCount)
		}
		data = append(data, values)
	}
	return bvh.NewMotion(data, colCount, frameTime)
}

func splitLines(data string) []string {
	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func parseFloats(fields []string) ([]float64, error) {
	values := make([]float64, len(fields))
	for i, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}
