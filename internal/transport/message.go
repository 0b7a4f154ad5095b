package transport

import (
	"bytes"
	"fmt"
	"mime"
	"mime/multipart"
	"net/textproto"
	"regexp"
	"strings"
)

var urlRe = regexp.MustCompile(`https?://[^\s<]+`)

// BuildMessage assembles a multipart/alternative MIME message: the raw
// text body plus an HTML part with <br> line breaks and clickable links.
func BuildMessage(from, to, subject, textBody string) []byte {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	plain, _ := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {`text/plain; charset="utf-8"`},
	})
	fmt.Fprint(plain, textBody)

	html, _ := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {`text/html; charset="utf-8"`},
	})
	fmt.Fprint(html, htmlBody(textBody))

	mw.Close()

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprint(&msg, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=%q\r\n", mw.Boundary())
	fmt.Fprint(&msg, "\r\n")
	msg.Write(body.Bytes())

	return msg.Bytes()
}

func htmlBody(textBody string) string {
	out := strings.ReplaceAll(textBody, "\n", "<br>")
	return urlRe.ReplaceAllStringFunc(out, func(u string) string {
		return fmt.Sprintf(`<a href="%s" style="color: #0066cc; text-decoration: underline;">%s</a>`, u, u)
	})
}
