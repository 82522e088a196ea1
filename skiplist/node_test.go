package skiplist

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNodeSentinels(t *testing.T) {
	Convey("Given HEAD and NIL sentinels with maxLevels 4", t, func() {
		head := newSentinel[int, string](headSentinel, 4)
		nilN := newSentinel[int, string](nilSentinel, 4)

		Convey("both have maxLevels+1 forward cells", func() {
			So(len(head.forward), ShouldEqual, 5)
			So(len(nilN.forward), ShouldEqual, 5)
		})

		Convey("HEAD sorts before every key", func() {
			So(head.keyLess(-1000000), ShouldBeTrue)
			So(head.keyLess(0), ShouldBeTrue)
			So(head.keyLess(1000000), ShouldBeTrue)
		})

		Convey("NIL sorts after every key", func() {
			So(nilN.keyLess(-1000000), ShouldBeFalse)
			So(nilN.keyLess(1000000), ShouldBeFalse)
		})

		Convey("neither sentinel ever equals a real key", func() {
			So(head.equalKey(0), ShouldBeFalse)
			So(nilN.equalKey(0), ShouldBeFalse)
		})

		Convey("isSentinel distinguishes them from normal nodes", func() {
			So(head.isSentinel(), ShouldBeTrue)
			So(nilN.isSentinel(), ShouldBeTrue)
			n := newNode(5, "five", 1)
			So(n.isSentinel(), ShouldBeFalse)
		})
	})
}

func TestNodeOrdering(t *testing.T) {
	Convey("Given a normal node with key 10", t, func() {
		n := newNode(10, "ten", 3)

		Convey("it is less than keys greater than 10", func() {
			So(n.keyLess(11), ShouldBeTrue)
		})

		Convey("it is not less than its own key or smaller keys", func() {
			So(n.keyLess(10), ShouldBeFalse)
			So(n.keyLess(9), ShouldBeFalse)
		})

		Convey("equalKey matches only its exact key", func() {
			So(n.equalKey(10), ShouldBeTrue)
			So(n.equalKey(9), ShouldBeFalse)
		})

		Convey("it has exactly the requested number of forward cells", func() {
			So(len(n.forward), ShouldEqual, 3)
		})
	})
}
