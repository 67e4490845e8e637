package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/racedayai/planner/internal/adapters/mq/queue"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryQueue(t *testing.T) {
	ctx := context.Background()

	Convey("Given a small bounded queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(2), queue.WithBufferSize(2))

		Convey("Enqueue accepts jobs up to capacity", func() {
			So(q.Enqueue(ctx, queue.Job{PlanID: "p-1"}), ShouldBeTrue)
			So(q.Enqueue(ctx, queue.Job{PlanID: "p-2"}), ShouldBeTrue)
			So(q.Len(ctx), ShouldEqual, 2)

			Convey("And rejects the overflow job", func() {
				So(q.Enqueue(ctx, queue.Job{PlanID: "p-3"}), ShouldBeFalse)
			})
		})

		Convey("Dequeue delivers jobs in order", func() {
			So(q.Enqueue(ctx, queue.Job{PlanID: "a"}), ShouldBeTrue)
			So(q.Enqueue(ctx, queue.Job{PlanID: "b"}), ShouldBeTrue)

			out := q.Dequeue(ctx)
			So((<-out).PlanID, ShouldEqual, "a")
			So((<-out).PlanID, ShouldEqual, "b")
		})

		Convey("Close rejects further enqueues and drains the channel", func() {
			So(q.Enqueue(ctx, queue.Job{PlanID: "last"}), ShouldBeTrue)
			So(q.Close(), ShouldBeNil)
			So(q.IsClosed(), ShouldBeTrue)
			So(q.Enqueue(ctx, queue.Job{PlanID: "late"}), ShouldBeFalse)

			out := q.Dequeue(ctx)
			So((<-out).PlanID, ShouldEqual, "last")

			select {
			case _, ok := <-out:
				So(ok, ShouldBeFalse)
			case <-time.After(time.Second):
				t.Fatal("dequeue channel did not close")
			}
		})

		Convey("Close is idempotent", func() {
			So(q.Close(), ShouldBeNil)
			So(q.Close(), ShouldBeNil)
		})
	})
}
