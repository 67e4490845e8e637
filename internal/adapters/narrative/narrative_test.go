package narrative_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/racedayai/planner/internal/adapters/narrative"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClient(t *testing.T) {
	ctx := context.Background()

	Convey("Given a configured narrative service", t, func() {
		var gotPrompt string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var in struct {
				Prompt string `json:"prompt"`
			}
			_ = json.NewDecoder(r.Body).Decode(&in)
			gotPrompt = in.Prompt
			_ = json.NewEncoder(w).Encode(map[string]string{"text": "Settle into 195W on the flats."})
		}))
		defer srv.Close()

		client := narrative.New(srv.URL)
		So(client.Enabled(), ShouldBeTrue)

		Convey("Generate posts the prompt and returns the prose", func() {
			text, err := client.Generate(ctx, "half distance, 195W target")
			So(err, ShouldBeNil)
			So(text, ShouldEqual, "Settle into 195W on the flats.")
			So(gotPrompt, ShouldEqual, "half distance, 195W target")
		})
	})

	Convey("Given no configured URL", t, func() {
		client := narrative.New("")
		So(client.Enabled(), ShouldBeFalse)

		_, err := client.Generate(ctx, "anything")
		So(err, ShouldEqual, narrative.ErrDisabled)
	})

	Convey("Given an upstream failure", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, err := narrative.New(srv.URL).Generate(ctx, "x")
		So(errors.Is(err, narrative.ErrUpstream), ShouldBeTrue)
	})
}
