package story

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"picbook/internal/model/story"
)

// ErrStoryNotFound 故事不存在（或已删除）
var ErrStoryNotFound = errors.New("story not found")

// StoryRepository 故事仓库接口（供 service 层依赖）
type StoryRepository interface {
	Create(ctx context.Context, s *story.Story) error
	FindByID(ctx context.Context, id string) (*story.Story, error)
	List(ctx context.Context, offset, limit int64) ([]*story.Story, int64, error)
	Delete(ctx context.Context, id string) error

	SetImageDescriptions(ctx context.Context, id string, style story.ArtStyle, descriptions []string) error
	AppendImages(ctx context.Context, id string, images []string) error
	AppendSpeeches(ctx context.Context, id string, speeches []story.SpeechRecord) error
	AppendVideo(ctx context.Context, id string, video story.VideoRecord) error
}

// StoryRepo 故事仓库
type StoryRepo struct {
	coll *mongo.Collection
}

// NewStoryRepo 创建故事仓库
func NewStoryRepo(db *mongo.Database) *StoryRepo {
	var s story.Story
	return &StoryRepo{coll: db.Collection(s.Collection())}
}

// Create 创建故事
func (r *StoryRepo) Create(ctx context.Context, s *story.Story) error {
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, s)
	return err
}

// FindByID 根据ID查询
func (r *StoryRepo) FindByID(ctx context.Context, id string) (*story.Story, error) {
	var s story.Story
	err := r.coll.FindOne(ctx, activeFilter(id)).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrStoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// List 分页查询（按创建时间倒序）
func (r *StoryRepo) List(ctx context.Context, offset, limit int64) ([]*story.Story, int64, error) {
	filter := bson.M{"deleted_at": nil}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetSkip(offset).
		SetProjection(bson.M{"speeches": 0, "videos": 0, "image_descriptions": 0})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	stories := make([]*story.Story, 0)
	if err := cur.All(ctx, &stories); err != nil {
		return nil, 0, err
	}
	return stories, total, nil
}

// Delete 软删除
func (r *StoryRepo) Delete(ctx context.Context, id string) error {
	now := time.Now()
	return r.update(ctx, id, bson.M{"$set": bson.M{"deleted_at": now, "updated_at": now}})
}

// SetImageDescriptions 保存图片描述（覆盖旧值）
func (r *StoryRepo) SetImageDescriptions(ctx context.Context, id string, style story.ArtStyle, descriptions []string) error {
	return r.update(ctx, id, bson.M{"$set": bson.M{
		"art_style":          style,
		"image_descriptions": descriptions,
		"updated_at":         time.Now(),
	}})
}

// AppendImages 追加图片
func (r *StoryRepo) AppendImages(ctx context.Context, id string, images []string) error {
	return r.update(ctx, id, bson.M{
		"$push": bson.M{"images": bson.M{"$each": images}},
		"$set":  bson.M{"updated_at": time.Now()},
	})
}

// AppendSpeeches 追加段落音频
func (r *StoryRepo) AppendSpeeches(ctx context.Context, id string, speeches []story.SpeechRecord) error {
	return r.update(ctx, id, bson.M{
		"$push": bson.M{"speeches": bson.M{"$each": speeches}},
		"$set":  bson.M{"updated_at": time.Now()},
	})
}

// AppendVideo 追加视频
func (r *StoryRepo) AppendVideo(ctx context.Context, id string, video story.VideoRecord) error {
	return r.update(ctx, id, bson.M{
		"$push": bson.M{"videos": video},
		"$set":  bson.M{"updated_at": time.Now()},
	})
}

func (r *StoryRepo) update(ctx context.Context, id string, update bson.M) error {
	res, err := r.coll.UpdateOne(ctx, activeFilter(id), update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrStoryNotFound
	}
	return nil
}

func activeFilter(id string) bson.M {
	return bson.M{"id": id, "deleted_at": nil}
}
