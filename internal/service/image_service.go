// Package service contains the application's business logic.
package service

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	_ "image/png" // register PNG decoder
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"roastarena/internal/config"
	"roastarena/internal/models"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultImageUploadDir       = "/tmp/roastarena/uploads/images"
	DefaultImageMaxUploadSizeMB = 10
	MasterMaxSize               = 2048
	JPEGQuality                 = 82
	WebPQuality                 = 70
)

// StoredImage describes the persisted variants of an accepted upload.
type StoredImage struct {
	Hash     string
	JPEGPath string
	WebPPath string
	Width    int
	Height   int
}

// ImageService validates, normalizes and stores uploaded images. Every image
// is decoded, downscaled to a master size and re-encoded, so nothing a client
// sent byte-for-byte ever reaches storage.
type ImageService struct {
	uploadDir          string
	baseURL            string
	maxUploadSizeBytes int64
}

// NewImageService creates an ImageService from configuration.
func NewImageService(cfg *config.Config) *ImageService {
	uploadDir := DefaultImageUploadDir
	maxUploadSizeMB := DefaultImageMaxUploadSizeMB
	baseURL := "/images"

	if cfg != nil {
		if cfg.ImageUploadDir != "" {
			uploadDir = cfg.ImageUploadDir
		}
		if cfg.ImageMaxUploadSizeMB > 0 {
			maxUploadSizeMB = cfg.ImageMaxUploadSizeMB
		}
		if cfg.ImageBaseURL != "" {
			baseURL = cfg.ImageBaseURL
		}
	}

	return &ImageService{
		uploadDir:          uploadDir,
		baseURL:            baseURL,
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

// Store validates and persists an uploaded image, returning the stored variants.
func (s *ImageService) Store(content []byte, contentType string) (*StoredImage, error) {
	if len(content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if int64(len(content)) > s.maxUploadSizeBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	detectedType := http.DetectContentType(content)
	if !isAllowedImageMIME(detectedType) {
		return nil, models.NewValidationError("Invalid image type")
	}

	decoded, format, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}
	if !isSupportedDecodedFormat(format) {
		return nil, models.NewValidationError("Unsupported image format")
	}

	if provided := normalizeContentType(contentType); strings.HasPrefix(provided, "image/") && provided != detectedType {
		// Browsers occasionally mislabel; the sniffed type wins but a clearly
		// contradictory claim is rejected.
		if !equivalentMIME(provided, detectedType) {
			return nil, models.NewValidationError("Image content type mismatch")
		}
	}

	master := resizeToFit(decoded, MasterMaxSize, MasterMaxSize)

	encodedJPEG, err := encodeJPEG(master, JPEGQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	encodedWebP, err := encodeWebP(master, WebPQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	sum := sha256.Sum256(encodedJPEG)
	hash := hex.EncodeToString(sum[:])

	jpegRel := filepath.ToSlash(filepath.Join(hash, "master.jpg"))
	webpRel := filepath.ToSlash(filepath.Join(hash, "master.webp"))
	jpegAbs := filepath.Join(s.uploadDir, jpegRel)
	webpAbs := filepath.Join(s.uploadDir, webpRel)

	if err := writeBytesToFile(jpegAbs, encodedJPEG); err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := writeBytesToFile(webpAbs, encodedWebP); err != nil {
		_ = os.Remove(jpegAbs)
		return nil, models.NewInternalError(err)
	}

	bounds := master.Bounds()
	return &StoredImage{
		Hash:     hash,
		JPEGPath: jpegRel,
		WebPPath: webpRel,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
	}, nil
}

// PublicURL builds the URL the front-end uses to display a stored image.
func (s *ImageService) PublicURL(img *StoredImage) string {
	return strings.TrimRight(s.baseURL, "/") + "/" + img.JPEGPath
}

// UploadDir returns the root directory of stored images, for static serving.
func (s *ImageService) UploadDir() string {
	return s.uploadDir
}

func isAllowedImageMIME(mime string) bool {
	switch mime {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return true
	}
	return false
}

func isSupportedDecodedFormat(format string) bool {
	switch format {
	case "jpeg", "png", "gif", "webp":
		return true
	}
	return false
}

func normalizeContentType(ct string) string {
	ct = strings.TrimSpace(strings.ToLower(ct))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	return ct
}

func equivalentMIME(a, b string) bool {
	if a == b {
		return true
	}
	// image/jpg is a common mislabel for image/jpeg
	return (a == "image/jpg" && b == "image/jpeg") || (a == "image/jpeg" && b == "image/jpg")
}

func resizeToFit(src image.Image, maxW, maxH int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxW && h <= maxH {
		return src
	}

	scaleW := float64(maxW) / float64(w)
	scaleH := float64(maxH) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}

	dstW := int(float64(w) * scale)
	dstH := int(float64(h) * scale)
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeWebP(img image.Image, quality float32) ([]byte, error) {
	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeBytesToFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
