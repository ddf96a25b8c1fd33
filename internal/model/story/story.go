package story

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Character 故事人物设定
// 外观描述会写入每一张图片的提示词，保证人物形象前后一致
type Character struct {
	Name       string   `bson:"name" json:"name"`
	Role       string   `bson:"role" json:"role"`
	Appearance string   `bson:"appearance" json:"appearance"`
	Traits     []string `bson:"traits" json:"traits"`
	Age        string   `bson:"age" json:"age"`
}

// SpeechRecord 一个段落的音频和字幕
type SpeechRecord struct {
	ParagraphID  string    `bson:"paragraph_id" json:"paragraph_id"`
	AudioPath    string    `bson:"audio_path" json:"audio_path"`
	SubtitlePath string    `bson:"subtitle_path" json:"subtitle_path"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

// VideoRecord 一次视频合成结果
type VideoRecord struct {
	VideoPath string    `bson:"video_path" json:"video_path"`
	Duration  float64   `bson:"duration" json:"duration"`
	Width     int       `bson:"width" json:"width"`
	Height    int       `bson:"height" json:"height"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Story 绘本故事（主表）
// 生成过程中产出的图片描述、图片、音频、视频都追加在同一个文档上
type Story struct {
	ID string `bson:"id" json:"id"`

	// 生成参数
	Theme     string    `bson:"theme" json:"theme"`
	StoryType StoryType `bson:"story_type" json:"story_type"`
	AgeRange  AgeRange  `bson:"age_range" json:"age_range"`
	Language  Language  `bson:"language" json:"language"`
	WordCount int       `bson:"word_count" json:"word_count"`
	Pages     int       `bson:"pages" json:"pages"`

	// 故事内容
	Title      string      `bson:"title" json:"title"`
	Paragraphs []string    `bson:"paragraphs" json:"paragraphs"`
	Characters []Character `bson:"characters" json:"characters"`

	// 生成产物
	ArtStyle          ArtStyle       `bson:"art_style,omitempty" json:"art_style,omitempty"`
	ImageDescriptions []string       `bson:"image_descriptions,omitempty" json:"image_descriptions,omitempty"` // [0] 为封面
	Images            []string       `bson:"images,omitempty" json:"images,omitempty"`
	Speeches          []SpeechRecord `bson:"speeches,omitempty" json:"speeches,omitempty"`
	Videos            []VideoRecord  `bson:"videos,omitempty" json:"videos,omitempty"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}

// Collection 返回集合名称
func (s *Story) Collection() string { return "stories" }

// EnsureIndexes 创建和维护索引
func (s *Story) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(s.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetName("idx_id").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "deleted_at", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_deleted_created"),
		},
		{
			Keys:    bson.D{{Key: "story_type", Value: 1}},
			Options: options.Index().SetName("idx_story_type"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
