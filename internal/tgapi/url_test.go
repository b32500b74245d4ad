package tgapi

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestBuildURL(t *testing.T) {
	Convey("Given a bot token", t, func() {
		token := "123:ABC"

		Convey("GetMe builds the bare method URL", func() {
			url := BuildURL(NewGetMeCall(token))
			So(url, ShouldEqual, "https://api.telegram.org/bot123:ABC/getMe")
		})

		Convey("GetUpdates builds the bare method URL", func() {
			url := BuildURL(NewGetUpdatesCall(token))
			So(url, ShouldEqual, "https://api.telegram.org/bot123:ABC/getUpdates")
		})

		Convey("SendMessage percent-encodes its text and appends chat_id", func() {
			url := BuildURL(NewSendMessageCall(token, 42, "hi there"))
			So(url, ShouldEqual, "https://api.telegram.org/bot123:ABC/sendMessage?chat_id=42&text=hi%20there")
		})

		Convey("BuildURL is pure: equal inputs produce byte-equal outputs", func() {
			a := BuildURL(NewSendMessageCall(token, 7, "x"))
			b := BuildURL(NewSendMessageCall(token, 7, "x"))
			So(a, ShouldEqual, b)
		})
	})
}

func TestPercentEncode(t *testing.T) {
	Convey("Given strings with reserved and unreserved bytes", t, func() {
		Convey("unreserved characters pass through unchanged", func() {
			So(percentEncode("abc-_.~123"), ShouldEqual, "abc-_.~123")
		})
		Convey("space becomes %20", func() {
			So(percentEncode("a b"), ShouldEqual, "a%20b")
		})
		Convey("other bytes become uppercase %HH", func() {
			So(percentEncode("a/b"), ShouldEqual, "a%2Fb")
		})
	})
}
