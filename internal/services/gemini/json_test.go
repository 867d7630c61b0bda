package gemini_test

import (
	"strings"
	"testing"

	"telenovela/internal/services/gemini"
)

type pitch struct {
	Title   string `json:"title"`
	Setting string `json:"setting"`
}

func TestDecodeModelJSONDirect(t *testing.T) {
	var got []pitch
	payload := `[{"title": "Forbidden Vows", "setting": "vineyard"}]`
	if err := gemini.DecodeModelJSON(payload, &got); err != nil {
		t.Fatalf("DecodeModelJSON: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Forbidden Vows" {
		t.Fatalf("unexpected decode result: %+v", got)
	}
}

func TestDecodeModelJSONStripsCodeFence(t *testing.T) {
	var got []pitch
	payload := "```json\n[{\"title\": \"Hidden Heir\", \"setting\": \"penthouse\"}]\n```"
	if err := gemini.DecodeModelJSON(payload, &got); err != nil {
		t.Fatalf("DecodeModelJSON: %v", err)
	}
	if len(got) != 1 || got[0].Setting != "penthouse" {
		t.Fatalf("unexpected decode result: %+v", got)
	}
}

func TestDecodeModelJSONExtractsFromProse(t *testing.T) {
	var got []pitch
	payload := `Here are the pitches you asked for:
[{"title": "Midnight Confession", "setting": "chapel"}]
Let me know if you want more.`
	if err := gemini.DecodeModelJSON(payload, &got); err != nil {
		t.Fatalf("DecodeModelJSON: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Midnight Confession" {
		t.Fatalf("unexpected decode result: %+v", got)
	}
}

func TestDecodeModelJSONObjectInProse(t *testing.T) {
	var got pitch
	payload := `Sure! {"title": "The Inheritance", "setting": "hacienda"} Done.`
	if err := gemini.DecodeModelJSON(payload, &got); err != nil {
		t.Fatalf("DecodeModelJSON: %v", err)
	}
	if got.Setting != "hacienda" {
		t.Fatalf("unexpected decode result: %+v", got)
	}
}

func TestDecodeModelJSONEmptyPayload(t *testing.T) {
	var got []pitch
	if err := gemini.DecodeModelJSON("   \n", &got); err == nil {
		t.Fatal("expected error for empty payload")
	}
}

func TestDecodeModelJSONInvalidPayloadIncludesSnippet(t *testing.T) {
	var got []pitch
	err := gemini.DecodeModelJSON("I cannot produce that content.", &got)
	if err == nil {
		t.Fatal("expected error for non-JSON payload")
	}
	if !strings.Contains(err.Error(), "snippet") {
		t.Fatalf("expected payload snippet in error, got: %v", err)
	}
}
