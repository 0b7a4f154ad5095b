package transport

import (
	"strings"
	"testing"
)

func TestBuildMessage_Headers(t *testing.T) {
	msg := string(BuildMessage("me@example.com", "you@example.com", "Hello", "body"))

	for _, want := range []string{
		"From: me@example.com\r\n",
		"To: you@example.com\r\n",
		"Subject: Hello\r\n",
		"MIME-Version: 1.0\r\n",
		"Content-Type: multipart/alternative; boundary=",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestBuildMessage_PlainAndHTMLParts(t *testing.T) {
	msg := string(BuildMessage("me@x.com", "you@x.com", "s", "line one\nline two"))

	if !strings.Contains(msg, `text/plain; charset="utf-8"`) {
		t.Fatalf("no plain part:\n%s", msg)
	}
	if !strings.Contains(msg, `text/html; charset="utf-8"`) {
		t.Fatalf("no html part:\n%s", msg)
	}
	if !strings.Contains(msg, "line one\nline two") {
		t.Fatal("plain part must keep raw newlines")
	}
	if !strings.Contains(msg, "line one<br>line two") {
		t.Fatal("html part must use <br> line breaks")
	}
}

func TestBuildMessage_AutolinksURLs(t *testing.T) {
	msg := string(BuildMessage("me@x.com", "you@x.com", "s", "see https://example.com/page today"))

	if !strings.Contains(msg, `<a href="https://example.com/page"`) {
		t.Fatalf("url not linked:\n%s", msg)
	}
}
