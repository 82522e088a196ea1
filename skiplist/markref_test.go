package skiplist

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestAtomicMarkableRef(t *testing.T) {
	Convey("Given a fresh atomicMarkableRef", t, func() {
		a := newAtomicMarkableRef[int, string](nil, false)

		Convey("load reflects the constructed pair", func() {
			ref, marked := a.load()
			So(ref, ShouldBeNil)
			So(marked, ShouldBeFalse)
		})

		Convey("getRef and getMark project load's two halves", func() {
			So(a.getRef(), ShouldBeNil)
			So(a.getMark(), ShouldBeFalse)
		})

		Convey("set overwrites both fields together", func() {
			n := newNode(1, "one", 1)
			a.set(n, true)
			ref, marked := a.load()
			So(ref == n, ShouldBeTrue)
			So(marked, ShouldBeTrue)
		})

		Convey("set is a no-op when the pair already matches", func() {
			n := newNode(1, "one", 1)
			a.set(n, false)
			before := a.pair.Load()
			a.set(n, false)
			after := a.pair.Load()
			So(after == before, ShouldBeTrue)
		})

		Convey("cas fails when the expected pair does not match", func() {
			n := newNode(1, "one", 1)
			ok := a.cas(n, false, n, true)
			So(ok, ShouldBeFalse)
		})

		Convey("cas succeeds and replaces the pair when the expectation matches", func() {
			n := newNode(1, "one", 1)
			ok := a.cas(nil, false, n, false)
			So(ok, ShouldBeTrue)
			ref, marked := a.load()
			So(ref == n, ShouldBeTrue)
			So(marked, ShouldBeFalse)
		})

		Convey("cas is idempotent when the requested pair is already current", func() {
			n := newNode(1, "one", 1)
			a.set(n, true)
			ok := a.cas(n, true, n, true)
			So(ok, ShouldBeTrue)
		})

		Convey("concurrent cas on the same cell: exactly one of two contenders wins", func() {
			a.set(nil, false)
			n1 := newNode(1, "one", 1)
			n2 := newNode(2, "two", 1)

			results := make(chan bool, 2)
			done := make(chan struct{})
			go func() { results <- a.cas(nil, false, n1, false); done <- struct{}{} }()
			go func() { results <- a.cas(nil, false, n2, false); done <- struct{}{} }()
			<-done
			<-done
			close(results)

			wins := 0
			for ok := range results {
				if ok {
					wins++
				}
			}
			So(wins, ShouldEqual, 1)
		})
	})
}
