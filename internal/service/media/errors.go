package media

import "errors"

var (
	// 输入校验（在调用任何外部工具之前完成）
	ErrNotEnoughImages       = errors.New("至少需要两张图片（一张封面和至少一张内容图片）")
	ErrAudioCountMismatch    = errors.New("音频文件数量必须与图片数量一致")
	ErrSubtitleCountMismatch = errors.New("字幕文件数量必须与音频文件数量一致")
	ErrNoParagraphs          = errors.New("段落列表不能为空")
	ErrInvalidDuration       = errors.New("淡入淡出和转场时长不能为负数")

	// 流水线执行
	ErrNoAudioClips         = errors.New("没有可合并的句子音频")
	ErrNoSegments           = errors.New("没有可合并的视频片段")
	ErrAllStrategiesFailed  = errors.New("所有处理策略均失败")
	ErrEmptyOutput          = errors.New("输出文件不存在或为空")
	ErrLocalInputNotAllowed = errors.New("不允许引用服务器本地路径，请使用已发布的产物 URL")
	ErrInputNotFound        = errors.New("输入文件不存在")

	// 异步任务
	ErrJobsUnavailable = errors.New("异步任务不可用（未配置 Redis）")
	ErrJobNotFound     = errors.New("任务不存在或已过期")
)

// IsValidationError 是否为请求参数校验错误
func IsValidationError(err error) bool {
	return errors.Is(err, ErrNotEnoughImages) ||
		errors.Is(err, ErrAudioCountMismatch) ||
		errors.Is(err, ErrSubtitleCountMismatch) ||
		errors.Is(err, ErrNoParagraphs) ||
		errors.Is(err, ErrInvalidDuration) ||
		errors.Is(err, ErrInputNotFound) ||
		errors.Is(err, ErrLocalInputNotAllowed)
}
