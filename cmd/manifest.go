package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// storyManifest compose 命令的故事清单
//
//	title: 小兔的冒险
//	cover: images/cover.png
//	pages:
//	  - text: 小兔出发了。
//	    image: images/p1.png
type storyManifest struct {
	Title   string         `yaml:"title"`
	Emotion string         `yaml:"emotion"`
	Output  string         `yaml:"output"`
	Cover   string         `yaml:"cover"`
	Pages   []manifestPage `yaml:"pages"`
}

type manifestPage struct {
	Text  string `yaml:"text"`
	Image string `yaml:"image"`
}

// loadManifest 读取清单，图片的相对路径按清单所在目录解析
func loadManifest(path string) (*storyManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m storyManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}

	if m.Cover == "" {
		return nil, errors.New("manifest: cover is required")
	}
	if len(m.Pages) == 0 {
		return nil, errors.New("manifest: at least one page is required")
	}

	dir := filepath.Dir(path)
	m.Cover = resolvePath(dir, m.Cover)
	for i := range m.Pages {
		if m.Pages[i].Image == "" {
			return nil, fmt.Errorf("manifest: page %d has no image", i+1)
		}
		m.Pages[i].Image = resolvePath(dir, m.Pages[i].Image)
	}
	return &m, nil
}

func resolvePath(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// paragraphs 段落文本，按页顺序
func (m *storyManifest) paragraphs() []string {
	out := make([]string, len(m.Pages))
	for i, p := range m.Pages {
		out[i] = p.Text
	}
	return out
}

// images 封面在前，之后每页一张
func (m *storyManifest) images() []string {
	out := make([]string, 0, len(m.Pages)+1)
	out = append(out, m.Cover)
	for _, p := range m.Pages {
		out = append(out, p.Image)
	}
	return out
}
