package campaign

import (
	"errors"
	"testing"
)

func TestRender_Personalizes(t *testing.T) {
	r := Renderer{}
	tpl := Template{
		Subject: "Hi {first_name}, about {company}",
		Body:    "Hi {first_name}",
	}
	rec := Record{"email": "a@x.com", "first_name": "Ada", "company": "Analytical Engines"}

	subject, body, err := r.Render(tpl, rec)
	if err != nil {
		t.Fatal(err)
	}
	if subject != "Hi Ada, about Analytical Engines" {
		t.Fatalf("subject=%q", subject)
	}
	if body != "Hi Ada" {
		t.Fatalf("body=%q", body)
	}
}

func TestRender_MissingFieldFails(t *testing.T) {
	r := Renderer{}
	tpl := Template{Subject: "s", Body: "Hi {first_name}"}
	rec := Record{"email": "a@x.com"}

	_, _, err := r.Render(tpl, rec)
	if err == nil {
		t.Fatal("expected error for missing field")
	}
	var missing *MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("want MissingFieldError, got %T: %v", err, err)
	}
	if missing.Field != "first_name" {
		t.Fatalf("want field first_name, got %q", missing.Field)
	}
}

func TestRender_EmptyValueSubstitutesVerbatim(t *testing.T) {
	r := Renderer{}
	tpl := Template{Subject: "s", Body: "Hi {first_name}!"}
	rec := Record{"email": "a@x.com", "first_name": ""}

	_, body, err := r.Render(tpl, rec)
	if err != nil {
		t.Fatal(err)
	}
	if body != "Hi !" {
		t.Fatalf("body=%q", body)
	}
}

func TestRender_FallbackReplacesMissingField(t *testing.T) {
	r := Renderer{Fallback: "there"}
	tpl := Template{Subject: "s", Body: "Hi {first_name}"}
	rec := Record{"email": "a@x.com"}

	_, body, err := r.Render(tpl, rec)
	if err != nil {
		t.Fatal(err)
	}
	if body != "Hi there" {
		t.Fatalf("body=%q", body)
	}
}

func TestRender_SubjectErrorNamesFirstMissingField(t *testing.T) {
	r := Renderer{}
	tpl := Template{Subject: "Hello {nick}", Body: "Bye {sign_off}"}

	_, _, err := r.Render(tpl, Record{"email": "a@x.com"})
	var missing *MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("want MissingFieldError, got %v", err)
	}
	if missing.Field != "nick" {
		t.Fatalf("want nick (subject rendered first), got %q", missing.Field)
	}
}
