// 指示: miu200521358
package bvh

// Channel は1フレームごとに記録される自由度1つ分の種別を表す。
type Channel string

const (
	// ChannelXposition はX軸位置チャネル。
	ChannelXposition Channel = "Xposition"
	// ChannelYposition はY軸位置チャネル。
	ChannelYposition Channel = "Yposition"
	// ChannelZposition はZ軸位置チャネル。
	ChannelZposition Channel = "Zposition"
	// ChannelXrotation はX軸回転チャネル。
	ChannelXrotation Channel = "Xrotation"
	// ChannelYrotation はY軸回転チャネル。
	ChannelYrotation Channel = "Yrotation"
	// ChannelZrotation はZ軸回転チャネル。
	ChannelZrotation Channel = "Zrotation"
)

// channelByName は有効なチャネル名の閉じた集合。
var channelByName = map[string]Channel{
	string(ChannelXposition): ChannelXposition,
	string(ChannelYposition): ChannelYposition,
	string(ChannelZposition): ChannelZposition,
	string(ChannelXrotation): ChannelXrotation,
	string(ChannelYrotation): ChannelYrotation,
	string(ChannelZrotation): ChannelZrotation,
}

// ParseChannel はチャネル名を検証して返す。
func ParseChannel(name string) (Channel, bool) {
	ch, ok := channelByName[name]
	return ch, ok
}

// IsRotation は回転チャネルかを返す。
func (c Channel) IsRotation() bool {
	return c == ChannelXrotation || c == ChannelYrotation || c == ChannelZrotation
}

// IsPosition は位置チャネルかを返す。
func (c Channel) IsPosition() bool {
	return c == ChannelXposition || c == ChannelYposition || c == ChannelZposition
}

// Axis は軸を小文字1文字("x","y","z")で返す。
func (c Channel) Axis() string {
	switch c {
	case ChannelXposition, ChannelXrotation:
		return "x"
	case ChannelYposition, ChannelYrotation:
		return "y"
	case ChannelZposition, ChannelZrotation:
		return "z"
	}
	return ""
}

// RotationChannelForAxis は軸1文字に対応する回転チャネルを返す。
func RotationChannelForAxis(axis string) (Channel, bool) {
	switch axis {
	case "x", "X":
		return ChannelXrotation, true
	case "y", "Y":
		return ChannelYrotation, true
	case "z", "Z":
		return ChannelZrotation, true
	}
	return "", false
}

// PositionChannelForAxis は軸1文字に対応する位置チャネルを返す。
func PositionChannelForAxis(axis string) (Channel, bool) {
	switch axis {
	case "x", "X":
		return ChannelXposition, true
	case "y", "Y":
		return ChannelYposition, true
	case "z", "Z":
		return ChannelZposition, true
	}
	return "", false
}
