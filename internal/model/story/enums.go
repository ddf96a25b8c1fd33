package story

// ArtStyle 绘本插画风格
type ArtStyle string

const (
	ArtStyleWatercolor         ArtStyle = "水彩风格"
	ArtStyleFlat               ArtStyle = "扁平风格"
	ArtStyleCartoon            ArtStyle = "卡通风格"
	ArtStyleInk                ArtStyle = "水墨画风格"
	ArtStyleAnime              ArtStyle = "动漫风格"
	ArtStylePixar              ArtStyle = "皮克斯风格"
	ArtStyleMiyazaki           ArtStyle = "宫崎骏风格"
	ArtStylePixel              ArtStyle = "像素风格"
	ArtStyleColoredPencil      ArtStyle = "手绘彩铅风格"
	ArtStyleCrayon             ArtStyle = "蜡笔画风格"
	ArtStylePictureBook        ArtStyle = "童书插画风格"
	ArtStyleFantasy            ArtStyle = "梦幻插画风格"
	ArtStyleChildDoodle        ArtStyle = "童趣涂鸦风格"
	ArtStyleSketch             ArtStyle = "简笔画风格"
	ArtStyleRetroAnime         ArtStyle = "80日漫风格"
	ArtStyleChineseTraditional ArtStyle = "国风工笔画风格"
	ArtStyleBlackWhite         ArtStyle = "黑白线稿风格"
	ArtStyleFeltArt            ArtStyle = "毛毡艺术风格"
	ArtStyleHealingSketch      ArtStyle = "简笔治愈风格"
	ArtStyleBlindBox           ArtStyle = "3D盲盒风格"
	ArtStyleDreamyWatercolor   ArtStyle = "梦幻水彩风格"
	ArtStyleDopamine           ArtStyle = "多巴胺插画风格"
	ArtStyleHazyPencil         ArtStyle = "朦胧彩铅风格"
	ArtStyleThickLine          ArtStyle = "粗线条风格"

	DefaultArtStyle = ArtStylePictureBook
)

// ArtStyles 所有支持的插画风格（顺序固定）
func ArtStyles() []ArtStyle {
	return []ArtStyle{
		ArtStyleWatercolor, ArtStyleFlat, ArtStyleCartoon, ArtStyleInk,
		ArtStyleAnime, ArtStylePixar, ArtStyleMiyazaki, ArtStylePixel,
		ArtStyleColoredPencil, ArtStyleCrayon, ArtStylePictureBook, ArtStyleFantasy,
		ArtStyleChildDoodle, ArtStyleSketch, ArtStyleRetroAnime, ArtStyleChineseTraditional,
		ArtStyleBlackWhite, ArtStyleFeltArt, ArtStyleHealingSketch, ArtStyleBlindBox,
		ArtStyleDreamyWatercolor, ArtStyleDopamine, ArtStyleHazyPencil, ArtStyleThickLine,
	}
}

// StoryType 故事类型
type StoryType string

const (
	StoryTypeAdventure   StoryType = "冒险"
	StoryTypeFantasy     StoryType = "奇幻"
	StoryTypeEducational StoryType = "教育"
	StoryTypeFable       StoryType = "寓言"
	StoryTypeScifi       StoryType = "科幻"
	StoryTypeMystery     StoryType = "悬疑"
	StoryTypeFriendship  StoryType = "友谊"
	StoryTypeNature      StoryType = "自然"
)

// StoryTypes 所有故事类型
func StoryTypes() []StoryType {
	return []StoryType{
		StoryTypeAdventure, StoryTypeFantasy, StoryTypeEducational, StoryTypeFable,
		StoryTypeScifi, StoryTypeMystery, StoryTypeFriendship, StoryTypeNature,
	}
}

// AgeRange 适读年龄段
type AgeRange string

const (
	AgeRangeToddler AgeRange = "0-3岁"
	AgeRangeChild   AgeRange = "3-8岁"
	AgeRangeTeen    AgeRange = "8-14岁"

	DefaultAgeRange = AgeRangeChild
)

// AgeRanges 所有年龄段
func AgeRanges() []AgeRange {
	return []AgeRange{AgeRangeToddler, AgeRangeChild, AgeRangeTeen}
}

// Language 故事语言
type Language string

const (
	LanguageChinese Language = "中文"
	LanguageEnglish Language = "英文"
)

// Languages 所有语言
func Languages() []Language {
	return []Language{LanguageChinese, LanguageEnglish}
}

// IsValid 是否为支持的风格
func (s ArtStyle) IsValid() bool { return contains(ArtStyles(), s) }

// IsValid 是否为支持的故事类型
func (t StoryType) IsValid() bool { return contains(StoryTypes(), t) }

// IsValid 是否为支持的年龄段
func (a AgeRange) IsValid() bool { return contains(AgeRanges(), a) }

// IsValid 是否为支持的语言
func (l Language) IsValid() bool { return contains(Languages(), l) }

func contains[T comparable](list []T, v T) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
