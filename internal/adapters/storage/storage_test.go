package storage_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/racedayai/planner/internal/adapters/storage"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty memory store", t, func() {
		store := storage.NewMemoryStore()

		Convey("Put then Get round-trips", func() {
			body := "<gpx><trk></trk></gpx>"
			So(store.Put(ctx, "tracks/p-1.gpx", strings.NewReader(body), int64(len(body)), "application/gpx+xml"), ShouldBeNil)

			rc, err := store.Get(ctx, "tracks/p-1.gpx")
			So(err, ShouldBeNil)
			defer rc.Close()
			data, err := io.ReadAll(rc)
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, body)
		})

		Convey("Unknown keys return ErrObjectNotFound", func() {
			_, err := store.Get(ctx, "tracks/missing.gpx")
			So(err, ShouldEqual, storage.ErrObjectNotFound)
		})

		Convey("Put replaces existing content", func() {
			So(store.Put(ctx, "k", strings.NewReader("v1"), 2, ""), ShouldBeNil)
			So(store.Put(ctx, "k", strings.NewReader("v2"), 2, ""), ShouldBeNil)
			rc, err := store.Get(ctx, "k")
			So(err, ShouldBeNil)
			defer rc.Close()
			data, _ := io.ReadAll(rc)
			So(string(data), ShouldEqual, "v2")
		})
	})
}

func TestMinIOConfig(t *testing.T) {
	Convey("Config validation requires endpoint and bucket", t, func() {
		So(storage.Config{}.Validate(), ShouldEqual, storage.ErrInvalidConfig)
		So(storage.Config{Endpoint: "localhost:9000"}.Validate(), ShouldEqual, storage.ErrInvalidConfig)
		So(storage.Config{Endpoint: "localhost:9000", Bucket: "race-tracks"}.Validate(), ShouldBeNil)
	})
}
