package metrics

import (
	"math"
	"testing"

	"da3d/pkg/image"
)

func gradientImage(rows, cols int, offset float32) *image.Image {
	img := image.New(rows, cols, 1)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			img.SetVal(col, row, 0, float32(row+col)+offset)
		}
	}
	return img
}

func TestIdenticalImages(t *testing.T) {
	img := gradientImage(16, 16, 0)

	report, err := Compare(img, img.Copy(), 255)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}

	if report.RMSE != 0 {
		t.Errorf("RMSE = %f; want 0", report.RMSE)
	}
	if !math.IsInf(report.PSNR, 1) {
		t.Errorf("PSNR = %f; want +Inf", report.PSNR)
	}
	if math.Abs(report.SSIM-1) > 1e-9 {
		t.Errorf("SSIM = %f; want 1", report.SSIM)
	}
}

func TestConstantOffset(t *testing.T) {
	a := gradientImage(16, 16, 0)
	b := gradientImage(16, 16, 3)

	report, err := Compare(a, b, 255)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}

	if math.Abs(report.RMSE-3) > 1e-6 {
		t.Errorf("RMSE = %f; want 3", report.RMSE)
	}

	wantPSNR := 20 * math.Log10(255.0/3.0)
	if math.Abs(report.PSNR-wantPSNR) > 1e-6 {
		t.Errorf("PSNR = %f; want %f", report.PSNR, wantPSNR)
	}

	if report.SSIM >= 1 {
		t.Errorf("SSIM = %f; want < 1 for differing images", report.SSIM)
	}
}

func TestShapeMismatch(t *testing.T) {
	a := gradientImage(16, 16, 0)
	b := gradientImage(16, 8, 0)

	if _, err := Compare(a, b, 255); err == nil {
		t.Error("Expected an error for mismatched shapes")
	}
}
