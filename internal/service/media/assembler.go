package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"picbook/internal/pkg/storage"
	"picbook/internal/pkg/storytools"
)

// ParagraphMedia 一个段落的音频和字幕产物
// 处理失败时 AudioPath/SubtitlePath 为空，Error 记录原因
type ParagraphMedia struct {
	ParagraphID  string  `json:"paragraph_id"`
	Text         string  `json:"text,omitempty"`
	AudioPath    string  `json:"audio_path,omitempty"`
	SubtitlePath string  `json:"subtitle_path,omitempty"`
	Sentences    int     `json:"sentences,omitempty"`
	Duration     float64 `json:"estimated_duration,omitempty"`
	Strategy     string  `json:"merge_strategy,omitempty"`
	Error        string  `json:"error,omitempty"`
}

// Assembler 段落媒体组装：逐句合成语音，生成字幕，合并音频
type Assembler struct {
	speech  storytools.SpeechSynthesizer
	merger  *AudioMerger
	store   storage.Storage
	scratch *Scratch
	now     func() time.Time
}

// NewAssembler 创建段落媒体组装器
func NewAssembler(speech storytools.SpeechSynthesizer, merger *AudioMerger, store storage.Storage, scratch *Scratch) *Assembler {
	return &Assembler{
		speech:  speech,
		merger:  merger,
		store:   store,
		scratch: scratch,
		now:     time.Now,
	}
}

// Assemble 处理标题和所有段落
// 标题作为第 1 段放在最前面；单个段落失败不影响其它段落，结果顺序与输入一致
func (a *Assembler) Assemble(ctx context.Context, title string, paragraphs []string, emotion string) []ParagraphMedia {
	texts := append([]string{title}, paragraphs...)
	results := make([]ParagraphMedia, 0, len(texts))

	for i, text := range texts {
		pid := storytools.ParagraphID(i+1, a.now().Unix())
		media, err := a.assembleParagraph(ctx, pid, text, emotion)
		if err != nil {
			log.Error().Err(err).Str("paragraph_id", pid).Msg("段落处理失败")
			results = append(results, ParagraphMedia{ParagraphID: pid, Text: text, Error: err.Error()})
			continue
		}
		results = append(results, *media)
	}
	return results
}

func (a *Assembler) assembleParagraph(ctx context.Context, pid, text, emotion string) (*ParagraphMedia, error) {
	area, err := a.scratch.Acquire(pid)
	if err != nil {
		return nil, err
	}
	defer area.Release()

	sentences := storytools.SplitText(text, true, true)

	var (
		clips    []string
		captions []storytools.Caption
		clock    float64
	)
	for i, sentence := range sentences {
		clip, err := a.stageSentence(ctx, area, pid, i, sentence, emotion)
		if err != nil {
			// 失败的句子不占用时间轴，字幕与音频保持对齐
			log.Warn().Err(err).Str("paragraph_id", pid).Int("sentence", i).Msg("句子语音合成失败，跳过")
			continue
		}

		d := storytools.EstimateDuration(sentence)
		captions = append(captions, storytools.Caption{Text: sentence, Start: clock, End: clock + d})
		clock += d
		clips = append(clips, clip)
	}

	if len(clips) == 0 {
		return nil, ErrNoAudioClips
	}

	srt := storytools.BuildSRT(captions)

	// 音频合并成功后才发布字幕，避免留下没有音频的字幕文件
	merged, err := a.merger.Merge(ctx, clips, area.Path(pid+".mp3"))
	if err != nil {
		return nil, err
	}

	subtitleKey := storage.ObjectKey(storage.CategorySubtitles, pid+".srt")
	subtitleURL, err := a.store.Upload(ctx, subtitleKey, strings.NewReader(srt), storage.ContentType(".srt"))
	if err != nil {
		return nil, fmt.Errorf("save subtitle: %w", err)
	}

	audioURL, err := storage.UploadFile(ctx, a.store, storage.ObjectKey(storage.CategoryAudio, pid+".mp3"), merged.OutputPath)
	if err != nil {
		if derr := a.store.Delete(ctx, subtitleKey); derr != nil {
			log.Warn().Err(derr).Str("key", subtitleKey).Msg("删除字幕文件失败")
		}
		return nil, fmt.Errorf("save audio: %w", err)
	}

	log.Info().
		Str("paragraph_id", pid).
		Int("sentences", len(sentences)).
		Int("voiced", len(clips)).
		Str("strategy", merged.Strategy).
		Msg("段落音频生成完成")

	return &ParagraphMedia{
		ParagraphID:  pid,
		Text:         text,
		AudioPath:    audioURL,
		SubtitlePath: subtitleURL,
		Sentences:    len(clips),
		Duration:     clock,
		Strategy:     merged.Strategy,
	}, nil
}

// stageSentence 合成一句语音并移入段落临时目录
func (a *Assembler) stageSentence(ctx context.Context, area *Area, pid string, index int, sentence, emotion string) (string, error) {
	src, err := a.speech.Synthesize(ctx, sentence, emotion)
	if err != nil {
		return "", err
	}

	ext := filepath.Ext(src)
	if ext == "" {
		ext = ".mp3"
	}
	dst := area.Path(fmt.Sprintf("temp_%s_sentence_%d%s", pid, index, ext))
	if err := copyFile(src, dst); err != nil {
		return "", fmt.Errorf("stage clip: %w", err)
	}
	if err := os.Remove(src); err != nil {
		log.Debug().Err(err).Str("path", src).Msg("删除原始语音文件失败")
	}
	return dst, nil
}
