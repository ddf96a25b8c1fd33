package main

import (
	"os"

	"picbook/cmd"
)

// @title        Picbook API
// @version      1.0
// @description  儿童绘本生成服务：故事文本、插图、配音字幕和段落视频合成
// @BasePath     /
func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
