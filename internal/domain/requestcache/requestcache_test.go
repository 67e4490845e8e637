package requestcache_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/racedayai/planner/internal/domain/requestcache"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSeenOrRecord(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty cache", t, func() {
		cache := requestcache.New()

		Convey("A new request id is recorded", func() {
			planID, seen := cache.SeenOrRecord(ctx, "req-1", "plan-1")
			So(seen, ShouldBeFalse)
			So(planID, ShouldEqual, "plan-1")
			So(cache.Size(), ShouldEqual, 1)
		})

		Convey("A retried request returns the original plan id", func() {
			_, _ = cache.SeenOrRecord(ctx, "req-1", "plan-1")
			planID, seen := cache.SeenOrRecord(ctx, "req-1", "plan-other")
			So(seen, ShouldBeTrue)
			So(planID, ShouldEqual, "plan-1")
			So(cache.Size(), ShouldEqual, 1)
		})

		Convey("Unrecord allows the request to be retried", func() {
			_, _ = cache.SeenOrRecord(ctx, "req-1", "plan-1")
			cache.Unrecord(ctx, "req-1")
			So(cache.Size(), ShouldEqual, 0)
			_, seen := cache.SeenOrRecord(ctx, "req-1", "plan-2")
			So(seen, ShouldBeFalse)
		})

		Convey("Unrecord on an unknown id is a no-op", func() {
			cache.Unrecord(ctx, "ghost")
			So(cache.Size(), ShouldEqual, 0)
		})
	})

	Convey("Given a bounded cache", t, func() {
		cache := requestcache.New(requestcache.WithMaxSize(3))

		Convey("The oldest entry is evicted at capacity", func() {
			for i := 1; i <= 4; i++ {
				_, seen := cache.SeenOrRecord(ctx, fmt.Sprintf("req-%d", i), fmt.Sprintf("plan-%d", i))
				So(seen, ShouldBeFalse)
			}
			So(cache.Size(), ShouldEqual, 3)

			// req-1 was first in, so it is gone; req-4 is present.
			_, seen := cache.SeenOrRecord(ctx, "req-1", "plan-new")
			So(seen, ShouldBeFalse)
			planID, seen := cache.SeenOrRecord(ctx, "req-4", "x")
			So(seen, ShouldBeTrue)
			So(planID, ShouldEqual, "plan-4")
		})
	})

	Convey("Given an unbounded cache", t, func() {
		cache := requestcache.New(requestcache.WithMaxSize(0))

		Convey("Entries accumulate without eviction", func() {
			for i := 0; i < 100; i++ {
				cache.SeenOrRecord(ctx, fmt.Sprintf("req-%d", i), "p")
			}
			So(cache.Size(), ShouldEqual, 100)
		})
	})
}
