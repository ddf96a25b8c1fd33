package cache

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"picbook/internal/config"
)

func TestKeys(t *testing.T) {
	Convey("cache key 生成", t, func() {
		So(MediaJobKey("abc"), ShouldEqual, "picbook:job:abc")
		So(StoryCacheKey("s1"), ShouldEqual, "picbook:story:s1")
	})
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	Convey("Redis 不可达时返回错误", t, func() {
		_, err := NewRedisCache(&config.RedisConfig{Addr: "127.0.0.1:1"})
		So(err, ShouldNotBeNil)
	})
}
