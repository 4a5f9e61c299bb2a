package autoformat

import "testing"

func TestBuildPDFOptions_PageSizes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		opts         *renderOptions
		wantW, wantH float64
		wantMargin   float64
	}{
		{"nil options use letter", nil, 8.5, 11, DefaultMargin},
		{"a4 portrait", &renderOptions{Page: &PageSettings{Size: PageSizeA4, Orientation: OrientationPortrait, Margin: 0.5}}, 8.27, 11.69, 0.5},
		{"legal landscape", &renderOptions{Page: &PageSettings{Size: PageSizeLegal, Orientation: OrientationLandscape, Margin: 1}}, 14, 8.5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := buildPDFOptions(tt.opts)
			if *got.PaperWidth != tt.wantW || *got.PaperHeight != tt.wantH {
				t.Errorf("paper = %vx%v, want %vx%v", *got.PaperWidth, *got.PaperHeight, tt.wantW, tt.wantH)
			}
			if *got.MarginTop != tt.wantMargin || *got.MarginLeft != tt.wantMargin {
				t.Errorf("margin = %v, want %v", *got.MarginTop, tt.wantMargin)
			}
			if !got.PrintBackground {
				t.Error("PrintBackground = false, want true")
			}
		})
	}
}

func TestDeviceMetrics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		opts      *renderOptions
		wantWidth int
		wantScale float64
	}{
		{"pdf default scale", nil, 816, DefaultScale},
		{"pdf a4 landscape", &renderOptions{Page: &PageSettings{Size: PageSizeA4, Orientation: OrientationLandscape}, Scale: 3}, 1122, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := pdfDeviceMetrics(tt.opts)
			if got.Width != tt.wantWidth || got.DeviceScaleFactor != tt.wantScale {
				t.Errorf("pdfDeviceMetrics() = %d @%v, want %d @%v", got.Width, got.DeviceScaleFactor, tt.wantWidth, tt.wantScale)
			}
		})
	}

	shot := screenshotDeviceMetrics(&renderOptions{Scale: 1.5})
	if shot.Width != viewportWidthPx || shot.DeviceScaleFactor != 1.5 {
		t.Errorf("screenshotDeviceMetrics() = %d @%v", shot.Width, shot.DeviceScaleFactor)
	}
}
