package tts

// Emotion 朗读情感
type Emotion string

const (
	EmotionHappy   Emotion = "happy"
	EmotionSad     Emotion = "sad"
	EmotionExcited Emotion = "excited"
	EmotionCalm    Emotion = "calm"
	EmotionCurious Emotion = "curious"
)

// emotionPrompts CosyVoice 风格的情感指令
var emotionPrompts = map[Emotion]string{
	EmotionHappy:   "你能用高兴的情感说吗？",
	EmotionSad:     "你能用悲伤的情感说吗？",
	EmotionExcited: "你能用兴奋的情感说吗？",
	EmotionCalm:    "你能用平静的情感说吗？",
	EmotionCurious: "你能用好奇的情感说吗？",
}

// EmotionOption 情感选项（用于接口展示）
type EmotionOption struct {
	Value  Emotion `json:"value"`
	Label  string  `json:"label"`
	Prompt string  `json:"prompt"`
}

// Emotions 支持的情感列表（顺序固定）
func Emotions() []EmotionOption {
	return []EmotionOption{
		{Value: EmotionHappy, Label: "高兴", Prompt: emotionPrompts[EmotionHappy]},
		{Value: EmotionSad, Label: "悲伤", Prompt: emotionPrompts[EmotionSad]},
		{Value: EmotionExcited, Label: "兴奋", Prompt: emotionPrompts[EmotionExcited]},
		{Value: EmotionCalm, Label: "平静", Prompt: emotionPrompts[EmotionCalm]},
		{Value: EmotionCurious, Label: "好奇", Prompt: emotionPrompts[EmotionCurious]},
	}
}

// NormalizeEmotion 未知情感按 happy 处理
func NormalizeEmotion(emotion string) Emotion {
	e := Emotion(emotion)
	if _, ok := emotionPrompts[e]; ok {
		return e
	}
	return EmotionHappy
}

// BuildInput 拼接带情感指令的 TTS 输入
// 格式: <情感指令><|endofprompt|> <文本>
func BuildInput(text, emotion string) string {
	return emotionPrompts[NormalizeEmotion(emotion)] + "<|endofprompt|> " + text
}
