package id

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestID(t *testing.T) {
	Convey("id 生成", t, func() {
		So(IsValid(New()), ShouldBeTrue)
		So(IsValid("not-a-uuid"), ShouldBeFalse)
		So(Short(), ShouldHaveLength, 8)
		So(Short(), ShouldNotEqual, Short())
	})
}
