// 指示: miu200521358
package bvh

import (
	"fmt"

	"github.com/miu200521358/mu_bvh_conv/pkg/config/merr"
	"gonum.org/v1/gonum/spatial/r3"
)

// EndSiteSuffix は末端サイトの合成名に付く接尾辞。
const EndSiteSuffix = "_End"

// Joint は骨格階層の1関節を表す。ツリー所有のアリーナに格納され、
// 親子関係はポインタではなく安定したインデックスで持つ。
type Joint struct {
	index        int
	name         string
	parentIndex  int
	childIndexes []int
	endIndex     int
	offset       r3.Vec
	channels     []Channel
	endSite      bool
}

// Index はアリーナ内の安定インデックスを返す。
func (j *Joint) Index() int {
	return j.index
}

// Name は関節名を返す。
func (j *Joint) Name() string {
	return j.name
}

// ParentIndex は親関節のインデックスを返す。ルートは -1。
func (j *Joint) ParentIndex() int {
	return j.parentIndex
}

// Offset は親ローカル座標系での静的平行移動を返す。
func (j *Joint) Offset() r3.Vec {
	return j.offset
}

// Channels は宣言順のチャネル一覧を返す。
func (j *Joint) Channels() []Channel {
	return j.channels
}

// RotationChannels は宣言順の回転チャネルのみを返す。
func (j *Joint) RotationChannels() []Channel {
	rots := make([]Channel, 0, 3)
	for _, ch := range j.channels {
		if ch.IsRotation() {
			rots = append(rots, ch)
		}
	}
	return rots
}

// PositionChannels は宣言順の位置チャネルのみを返す。
func (j *Joint) PositionChannels() []Channel {
	poss := make([]Channel, 0, 3)
	for _, ch := range j.channels {
		if ch.IsPosition() {
			poss = append(poss, ch)
		}
	}
	return poss
}

// HasChannel は指定チャネルを持つかを返す。
func (j *Joint) HasChannel(ch Channel) bool {
	for _, c := range j.channels {
		if c == ch {
			return true
		}
	}
	return false
}

// IsEndSite は末端サイトかを返す。
func (j *Joint) IsEndSite() bool {
	return j.endSite
}

// IsRoot はルート関節かを返す。
func (j *Joint) IsRoot() bool {
	return j.parentIndex < 0 && !j.endSite
}

// Skeleton は関節アリーナとルート参照を持つ骨格階層を表す。
// 全関節はスケルトンが所有し、ツリー間で共有されない。
type Skeleton struct {
	joints    []*Joint
	rootIndex int
}

// NewSkeleton は空の骨格を返す。最初に AddRoot を呼ぶこと。
func NewSkeleton() *Skeleton {
	return &Skeleton{rootIndex: -1}
}

// AddRoot はルート関節を登録してそのインデックスを返す。
func (s *Skeleton) AddRoot(name string, offset r3.Vec, channels []Channel) (int, error) {
	if s.rootIndex >= 0 {
		return -1, fmt.Errorf("ルート関節は既に登録済みです: %s", s.joints[s.rootIndex].name)
	}
	joint := &Joint{
		index:       len(s.joints),
		name:        name,
		parentIndex: -1,
		endIndex:    -1,
		offset:      offset,
		channels:    channels,
	}
	s.joints = append(s.joints, joint)
	s.rootIndex = joint.index
	return joint.index, nil
}

// AddJoint は内部関節を親の子として登録してそのインデックスを返す。
func (s *Skeleton) AddJoint(name string, parentIndex int, offset r3.Vec, channels []Channel) (int, error) {
	parent, err := s.Joint(parentIndex)
	if err != nil {
		return -1, err
	}
	joint := &Joint{
		index:       len(s.joints),
		name:        name,
		parentIndex: parentIndex,
		endIndex:    -1,
		offset:      offset,
		channels:    channels,
	}
	s.joints = append(s.joints, joint)
	parent.childIndexes = append(parent.childIndexes, joint.index)
	return joint.index, nil
}

// AddEndSite は末端サイトを親に1つだけ登録してそのインデックスを返す。
// 名前が空なら「親名_End」を合成する。
func (s *Skeleton) AddEndSite(name string, parentIndex int, offset r3.Vec) (int, error) {
	parent, err := s.Joint(parentIndex)
	if err != nil {
		return -1, err
	}
	if parent.endIndex >= 0 {
		return -1, fmt.Errorf("関節 %s は既に末端サイトを持っています", parent.name)
	}
	if name == "" {
		name = parent.name + EndSiteSuffix
	}
	joint := &Joint{
		index:       len(s.joints),
		name:        name,
		parentIndex: parentIndex,
		endIndex:    -1,
		endSite:     true,
		offset:      offset,
	}
	s.joints = append(s.joints, joint)
	parent.endIndex = joint.index
	return joint.index, nil
}

// Joint はインデックスで関節を返す。
func (s *Skeleton) Joint(index int) (*Joint, error) {
	if index < 0 || index >= len(s.joints) {
		return nil, &merr.InvalidArgumentError{Message: fmt.Sprintf("関節インデックスが範囲外です: %d", index)}
	}
	return s.joints[index], nil
}

// Root はルート関節を返す。
func (s *Skeleton) Root() (*Joint, error) {
	if s.rootIndex < 0 {
		return nil, &merr.NoRootError{}
	}
	return s.joints[s.rootIndex], nil
}

// Len はアリーナ内の関節数(末端サイト含む)を返す。
func (s *Skeleton) Len() int {
	return len(s.joints)
}

// Parent は親関節を返す。ルートと末端サイト以外で nil を返すことはない。
func (s *Skeleton) Parent(j *Joint) *Joint {
	if j.parentIndex < 0 {
		return nil
	}
	return s.joints[j.parentIndex]
}

// JointsDepthFirst は文書順(親が先、子は宣言順、末端サイトは親の直後)で
// 関節を列挙する。この順序がすべての派生テーブルの正準列順になる。
func (s *Skeleton) JointsDepthFirst(includeEndSites bool) []*Joint {
	if s.rootIndex < 0 {
		return nil
	}
	ordered := make([]*Joint, 0, len(s.joints))
	var walk func(index int)
	walk = func(index int) {
		joint := s.joints[index]
		ordered = append(ordered, joint)
		if includeEndSites && joint.endIndex >= 0 {
			ordered = append(ordered, s.joints[joint.endIndex])
		}
		for _, child := range joint.childIndexes {
			walk(child)
		}
	}
	walk(s.rootIndex)
	return ordered
}

// FindJoint は名前の完全一致で関節を探す。名前衝突時の優先順位は
// ルート、内部関節(文書順)、末端サイト(文書順)。
func (s *Skeleton) FindJoint(name string) (*Joint, error) {
	root, err := s.Root()
	if err != nil {
		return nil, err
	}
	if root.name == name {
		return root, nil
	}
	ordered := s.JointsDepthFirst(false)
	for _, joint := range ordered {
		if joint.name == name {
			return joint, nil
		}
	}
	for _, joint := range s.JointsDepthFirst(true) {
		if joint.endSite && joint.name == name {
			return joint, nil
		}
	}
	return nil, &merr.JointNotFoundError{Name: name}
}

// JointDepth はルートからの距離を返す(ルートは0)。
func (s *Skeleton) JointDepth(j *Joint) int {
	depth := 0
	for parent := s.Parent(j); parent != nil; parent = s.Parent(parent) {
		depth++
	}
	return depth
}

// Children は内部関節の子(宣言順)に末端サイトを続けて返す。
func (s *Skeleton) Children(j *Joint) []*Joint {
	children := make([]*Joint, 0, len(j.childIndexes)+1)
	for _, child := range j.childIndexes {
		children = append(children, s.joints[child])
	}
	if j.endIndex >= 0 {
		children = append(children, s.joints[j.endIndex])
	}
	return children
}

// Rename は関節名を一括置換する。新しい名前が既存名と衝突する場合は失敗する。
func (s *Skeleton) Rename(names map[string]string) error {
	if len(names) == 0 {
		return nil
	}
	existing := make(map[string]bool, len(s.joints))
	for _, joint := range s.joints {
		existing[joint.name] = true
	}
	for oldName, newName := range names {
		if oldName == newName {
			continue
		}
		if existing[newName] {
			return &merr.InvalidArgumentError{Message: fmt.Sprintf("関節名 %s は既に存在します", newName)}
		}
	}
	for _, joint := range s.joints {
		if newName, ok := names[joint.name]; ok {
			joint.name = newName
		}
	}
	return nil
}
