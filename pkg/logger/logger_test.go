package logger

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given a fresh Init", t, func() {
		So(Init(), ShouldBeNil)
		defer func() { So(Sync(), ShouldBeNil) }()

		Convey("Then the global logger is available", func() {
			So(Get(), ShouldNotBeNil)
			So(Named("pipeline"), ShouldNotBeNil)
		})
	})
}

func TestLoggerOutput(t *testing.T) {
	Convey("Given a logger writing text to a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(WithWriter(&buf)), ShouldBeNil)
		ctx := context.Background()

		Convey("When logging with typed fields", func() {
			Get().Info(ctx, "run finished",
				String("run_id", "abc"),
				Int("games", 3),
				Bool("linked", true),
				Duration("took", 2*time.Second),
				Error(errors.New("boom")),
			)

			Convey("Then every field and the caller are rendered", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "run finished")
				So(out, ShouldContainSubstring, "run_id=abc")
				So(out, ShouldContainSubstring, "games=3")
				So(out, ShouldContainSubstring, "linked=true")
				So(out, ShouldContainSubstring, "error=boom")
				So(out, ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When the level is raised to warn", func() {
			So(SetLevelString("warn"), ShouldBeNil)
			Get().Info(ctx, "hidden")
			Get().Warn(ctx, "shown")

			Convey("Then info lines are dropped", func() {
				So(buf.String(), ShouldNotContainSubstring, "hidden")
				So(buf.String(), ShouldContainSubstring, "shown")
			})
			So(SetLevelString("info"), ShouldBeNil)
		})

		Convey("When a named logger writes", func() {
			Named("linker").Info(ctx, "linked", String("game", "g1"))

			Convey("Then the group prefixes the keys", func() {
				So(buf.String(), ShouldContainSubstring, "linker.game=g1")
			})
		})
	})

	Convey("Given a JSON logger", t, func() {
		var buf bytes.Buffer
		So(Init(WithWriter(&buf), WithFormat("json")), ShouldBeNil)
		Get().Info(context.Background(), "hello", String("k", "v"))

		So(strings.HasPrefix(strings.TrimSpace(buf.String()), "{"), ShouldBeTrue)
		So(buf.String(), ShouldContainSubstring, `"k":"v"`)
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level strings", t, func() {
		for _, lvl := range []string{"debug", "info", "", "WARN", "warning", "error"} {
			So(SetLevelString(lvl), ShouldBeNil)
		}
		So(SetLevelString("loud"), ShouldNotBeNil)
		So(SetLevelString("info"), ShouldBeNil)
	})
}

func TestNop(t *testing.T) {
	Convey("Given the nop logger", t, func() {
		l := Nop()
		So(func() { l.Error(context.Background(), "ignored") }, ShouldNotPanic)
		So(l.Named("x"), ShouldNotBeNil)
	})
}
