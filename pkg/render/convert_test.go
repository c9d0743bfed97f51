package render

import (
	"context"
	"os/exec"
	"testing"

	"github.com/matzehuels/meldgrid/pkg/errors"
)

func TestConvert_SVGPassThrough(t *testing.T) {
	in := []byte("<svg/>")
	for _, format := range []string{"", FormatSVG} {
		out, err := Convert(context.Background(), in, format)
		if err != nil || string(out) != string(in) {
			t.Errorf("Convert(%q) = %q, %v", format, out, err)
		}
	}
}

func TestConvert_Unsupported(t *testing.T) {
	_, err := Convert(context.Background(), []byte("<svg/>"), "gif")
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Convert(gif) error = %v, want UNSUPPORTED", err)
	}
}

func TestToPNG_MissingTool(t *testing.T) {
	if _, err := exec.LookPath("rsvg-convert"); err == nil {
		t.Skip("rsvg-convert installed")
	}
	_, err := ToPNG(context.Background(), []byte("<svg/>"), 2)
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("ToPNG error = %v, want UNSUPPORTED", err)
	}
}
