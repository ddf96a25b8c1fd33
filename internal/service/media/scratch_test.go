package media

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestScratch(t *testing.T) {
	Convey("Scratch 临时目录", t, func() {
		root := filepath.Join(t.TempDir(), "work")

		Convey("每次申请得到不同的目录，Release 后删除", func() {
			s := NewScratch(root, false)
			a, err := s.Acquire("paragraph_1")
			So(err, ShouldBeNil)
			b, err := s.Acquire("paragraph_1")
			So(err, ShouldBeNil)
			So(a.Dir, ShouldNotEqual, b.Dir)
			So(strings.HasPrefix(filepath.Base(a.Dir), "paragraph_1_"), ShouldBeTrue)

			So(os.WriteFile(a.Path("x.txt"), []byte("x"), 0o644), ShouldBeNil)
			a.Release()
			_, err = os.Stat(a.Dir)
			So(os.IsNotExist(err), ShouldBeTrue)

			b.Release()
		})

		Convey("keep 模式保留目录", func() {
			s := NewScratch(root, true)
			a, err := s.Acquire("video")
			So(err, ShouldBeNil)
			a.Release()
			_, err = os.Stat(a.Dir)
			So(err, ShouldBeNil)
		})

		Convey("DEBUG_MODE=1 同样保留目录", func() {
			t.Setenv("DEBUG_MODE", "1")
			s := NewScratch(root, false)
			a, err := s.Acquire("video")
			So(err, ShouldBeNil)
			a.Release()
			_, err = os.Stat(a.Dir)
			So(err, ShouldBeNil)
		})
	})
}
