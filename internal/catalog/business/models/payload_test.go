package models

import (
	"io"
	"mime"
	"mime/multipart"
	"testing"
)

func TestPayloadEncodeKeepsFieldsAndFiles(t *testing.T) {
	p := &Payload{}
	p.Add(FieldTitle, "Shirt")
	p.Add(FieldPrice, "20")
	p.Attach(ImageFile{Name: "front.png", Data: []byte("png-bytes")})

	body, contentType, err := p.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType != "multipart/form-data" {
		t.Fatalf("content type = %q (%v)", contentType, err)
	}

	reader := multipart.NewReader(body, params["boundary"])
	form, err := reader.ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("ReadForm: %v", err)
	}
	defer form.RemoveAll()

	if got := form.Value[FieldTitle]; len(got) != 1 || got[0] != "Shirt" {
		t.Errorf("title = %v", got)
	}
	if got := form.Value[FieldPrice]; len(got) != 1 || got[0] != "20" {
		t.Errorf("price = %v", got)
	}

	files := form.File["front.png"]
	if len(files) != 1 {
		t.Fatalf("file parts for front.png = %d, want 1", len(files))
	}
	f, err := files[0].Open()
	if err != nil {
		t.Fatalf("open part: %v", err)
	}
	defer f.Close()
	data, _ := io.ReadAll(f)
	if string(data) != "png-bytes" {
		t.Errorf("file data = %q", data)
	}
}

func TestPayloadValue(t *testing.T) {
	p := &Payload{}
	p.Add(FieldStock, "5")

	if v, ok := p.Value(FieldStock); !ok || v != "5" {
		t.Errorf("Value(stock) = %q, %v", v, ok)
	}
	if _, ok := p.Value(FieldWeight); ok {
		t.Error("Value(weight) reported present")
	}
}

func TestParsePolicy(t *testing.T) {
	for _, p := range Policies {
		got, err := ParsePolicy(string(p.Type))
		if err != nil || got != p.Type {
			t.Errorf("ParsePolicy(%q) = %q, %v", p.Type, got, err)
		}
	}
	if _, err := ParsePolicy("express"); err == nil {
		t.Error("ParsePolicy(express) returned no error")
	}
}
