package storytools

const (
	secondsPerIdeograph = 0.3 // 每个汉字的估算朗读时长
	secondsPerLatinWord = 0.4 // 每个连续拉丁字母串的估算朗读时长
	minSentenceSeconds  = 1.0 // 单句最短时长
)

// EstimateDuration 估算一句话的朗读时长（秒）
// TTS 接口不返回时间戳，字幕时间轴只能依据字数估算：
// 汉字数 × 0.3 + 英文单词数 × 0.4，最少 1 秒
func EstimateDuration(sentence string) float64 {
	ideographs := 0
	latinWords := 0
	inWord := false

	for _, r := range sentence {
		if isLatinLetter(r) {
			if !inWord {
				latinWords++
				inWord = true
			}
			continue
		}
		inWord = false
		if r >= 0x4e00 && r <= 0x9fff {
			ideographs++
		}
	}

	seconds := float64(ideographs)*secondsPerIdeograph + float64(latinWords)*secondsPerLatinWord
	if seconds < minSentenceSeconds {
		return minSentenceSeconds
	}
	return seconds
}

func isLatinLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
