package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"picbook/internal/pkg/ffmpeg"
	"picbook/internal/pkg/storage/local"
)

// fakeTool 记录调用并在成功时写出输出文件
type fakeTool struct {
	mu    sync.Mutex
	calls []string

	durations     map[string]float64
	demuxerFn     func(encode *ffmpeg.EncodeOptions) error
	filterErr     error
	filterFn      func(inputs []string) error
	renderErr     error
	infoErr       error
	emptyOutput   bool
	rendered      []ffmpeg.StillSegment
	filterInputs  []string
	manifestLines string
}

func (f *fakeTool) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeTool) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeTool) writeOutput(path string) error {
	if f.emptyOutput {
		return os.WriteFile(path, nil, 0o644)
	}
	return os.WriteFile(path, []byte("media:"+filepath.Base(path)), 0o644)
}

func (f *fakeTool) ProbeDuration(ctx context.Context, path string) (float64, error) {
	f.record("probe")
	if d, ok := f.durations[filepath.Base(path)]; ok {
		return d, nil
	}
	return 3.0, nil
}

func (f *fakeTool) GetVideoInfo(ctx context.Context, path string) (*ffmpeg.VideoInfo, error) {
	f.record("info")
	if f.infoErr != nil {
		return nil, f.infoErr
	}
	return &ffmpeg.VideoInfo{Width: 1024, Height: 576, FPS: 25, Duration: 12.5}, nil
}

func (f *fakeTool) ConcatDemuxer(ctx context.Context, manifestPath, outputPath string, encode *ffmpeg.EncodeOptions) error {
	if encode == nil {
		f.record("demuxer_copy")
	} else {
		f.record("demuxer_reencode")
	}
	data, _ := os.ReadFile(manifestPath)
	f.mu.Lock()
	f.manifestLines = string(data)
	f.mu.Unlock()
	if f.demuxerFn != nil {
		if err := f.demuxerFn(encode); err != nil {
			return err
		}
	}
	return f.writeOutput(outputPath)
}

func (f *fakeTool) ConcatAudioFilter(ctx context.Context, inputs []string, outputPath string) error {
	f.record("filter")
	f.mu.Lock()
	f.filterInputs = append([]string(nil), inputs...)
	f.mu.Unlock()
	if f.filterErr != nil {
		return f.filterErr
	}
	if f.filterFn != nil {
		if err := f.filterFn(inputs); err != nil {
			return err
		}
	}
	return f.writeOutput(outputPath)
}

func (f *fakeTool) RenderStillSegment(ctx context.Context, seg ffmpeg.StillSegment) error {
	f.record("render")
	f.mu.Lock()
	f.rendered = append(f.rendered, seg)
	f.mu.Unlock()
	if f.renderErr != nil {
		return f.renderErr
	}
	return f.writeOutput(seg.OutputPath)
}

func commandErr(msg string) error {
	return &ffmpeg.CommandError{Tool: "ffmpeg", Stderr: msg, Err: errors.New("exit status 1")}
}

// fakeSpeech 把文本写入文件模拟语音合成
type fakeSpeech struct {
	dir  string
	fail map[string]bool
	n    int
}

func (s *fakeSpeech) Synthesize(ctx context.Context, text, emotion string) (string, error) {
	if s.fail[text] {
		return "", fmt.Errorf("tts failed: %s", text)
	}
	s.n++
	path := filepath.Join(s.dir, fmt.Sprintf("speech_%d.mp3", s.n))
	if err := os.WriteFile(path, []byte(emotion+":"+text), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func newTestStorage(t *testing.T) *local.LocalStorage {
	store, err := local.NewLocalStorage(filepath.Join(t.TempDir(), "static"), "/static")
	if err != nil {
		t.Fatal(err)
	}
	return store
}

func fixedNow() time.Time {
	return time.Unix(1700000000, 0)
}

// memoryJobStore 内存任务存储
type memoryJobStore struct {
	mu   sync.Mutex
	jobs map[string]Job
}

func newMemoryJobStore() *memoryJobStore {
	return &memoryJobStore{jobs: map[string]Job{}}
}

func (m *memoryJobStore) Save(ctx context.Context, job *Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[job.ID] = *job
	return nil
}

func (m *memoryJobStore) Get(ctx context.Context, jobID string) (*Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return nil, ErrJobNotFound
	}
	return &job, nil
}

// waitJob 轮询直到任务结束
func waitJob(store JobStore, jobID string) *Job {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, err := store.Get(context.Background(), jobID)
		if err == nil && (job.Status == JobStatusCompleted || job.Status == JobStatusFailed) {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	return nil
}
