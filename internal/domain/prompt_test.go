package domain

import (
	"strings"
	"testing"
)

func TestComposePromptWithoutAddOn(t *testing.T) {
	turntable, ok := AnimationByID("turntable")
	if !ok {
		t.Fatalf("AnimationByID(turntable) not found")
	}
	got := ComposePrompt(turntable, nil)
	if got != turntable.Prompt {
		t.Fatalf("ComposePrompt() = %q, want base prompt %q", got, turntable.Prompt)
	}
}

func TestComposePromptWithAddOn(t *testing.T) {
	turntable, _ := AnimationByID("turntable")
	splash, ok := AnimationByID("water-splash")
	if !ok {
		t.Fatalf("AnimationByID(water-splash) not found")
	}
	got := ComposePrompt(turntable, &splash)
	want := turntable.Prompt + " Additionally, the following effect should be applied: refreshing water splashes around the product."
	if got != want {
		t.Fatalf("ComposePrompt() = %q, want %q", got, want)
	}
	if strings.Count(got, "Additionally, the following effect should be applied:") != 1 {
		t.Fatalf("ComposePrompt() duplicated the add-on lead-in: %q", got)
	}
}

func TestComposePromptLowercasesDescription(t *testing.T) {
	base := AnimationOption{ID: "x", Prompt: "Base prompt."}
	addOn := AnimationOption{ID: "y", Description: "LOUD Sparkles Everywhere."}
	got := ComposePrompt(base, &addOn)
	want := "Base prompt. Additionally, the following effect should be applied: loud sparkles everywhere."
	if got != want {
		t.Fatalf("ComposePrompt() = %q, want %q", got, want)
	}
}

func TestParseAspectRatio(t *testing.T) {
	for _, valid := range []string{"16:9", "9:16"} {
		if _, err := ParseAspectRatio(valid); err != nil {
			t.Fatalf("ParseAspectRatio(%q) unexpected error: %v", valid, err)
		}
	}
	if _, err := ParseAspectRatio("4:3"); err == nil {
		t.Fatalf("ParseAspectRatio(4:3) expected error")
	}
}

func TestDraftEditRevertSingleStep(t *testing.T) {
	d := &Draft{ImageBytes: []byte("original"), MIMEType: "image/png"}
	d.ApplyEdit([]byte("edited"), "image/jpeg")
	if string(d.ImageBytes) != "edited" || d.MIMEType != "image/jpeg" {
		t.Fatalf("ApplyEdit() did not swap image: %q %q", d.ImageBytes, d.MIMEType)
	}
	d.ApplyEdit([]byte("edited-again"), "image/jpeg")
	d.RevertEdit()
	if string(d.ImageBytes) != "original" || d.MIMEType != "image/png" {
		t.Fatalf("RevertEdit() = %q %q, want original upload", d.ImageBytes, d.MIMEType)
	}
	d.RevertEdit()
	if string(d.ImageBytes) != "original" {
		t.Fatalf("second RevertEdit() changed the image: %q", d.ImageBytes)
	}
}
