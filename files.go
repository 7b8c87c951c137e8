package kargopress

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	maxUploadSize = 10 << 20 // 10MB
	maxImageWidth = 1200
	jpegQuality   = 80
	uploadsSubdir = "uploads"
)

// UploadError is a recoverable rejection of an uploaded file (wrong type,
// forged content, oversized). Its message is safe to show to the user.
type UploadError struct {
	msg string
}

func (e *UploadError) Error() string { return e.msg }

// allowedImageExts is the upload allow-list for article images.
var allowedImageExts = []string{".jpg", ".jpeg", ".png", ".webp", ".gif"}

// imageSignatures holds the magic-number prefixes checked before a file is
// accepted, so a renamed executable never lands in the uploads directory.
var imageSignatures = map[string][][]byte{
	".jpg":  {{0xFF, 0xD8, 0xFF}},
	".jpeg": {{0xFF, 0xD8, 0xFF}},
	".png":  {{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	".webp": {{0x52, 0x49, 0x46, 0x46}},
	".gif":  {{0x47, 0x49, 0x46, 0x38}},
}

// ValidFileType reports whether the file name carries one of the allowed
// extensions.
func ValidFileType(name string, allowed []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return false
	}
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}

// ValidFileSize reports whether size fits under the given cap.
func ValidFileSize(size, maxBytes int64) bool {
	return size >= 0 && size <= maxBytes
}

// matchesSignature checks the magic-number prefix for the given extension.
// Extensions without a registered signature pass.
func matchesSignature(ext string, data []byte) bool {
	sigs, ok := imageSignatures[ext]
	if !ok {
		return true
	}
	for _, sig := range sigs {
		if len(data) >= len(sig) && bytes.Equal(data[:len(sig)], sig) {
			return true
		}
	}
	return false
}

// FileStore persists uploaded article images under <root>/uploads/<category>/
// and owns their full lifecycle: validation, normalization, deletion.
type FileStore struct {
	root string
}

// NewFileStore creates a FileStore rooted at the public static directory.
func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

// Save validates and stores one uploaded image. The file is size-capped,
// extension- and magic-number-checked, decoded, resized down to maxImageWidth
// when wider, and re-encoded as JPEG under a sanitized unique name. The
// returned path is relative to the static root (e.g.
// "uploads/articles/kargo-takip-3f2a91cd.jpg").
func (f *FileStore) Save(category, originalName string, r io.Reader) (string, error) {
	if !ValidFileType(originalName, allowedImageExts) {
		return "", &UploadError{msg: fmt.Sprintf("unsupported file type %q", filepath.Ext(originalName))}
	}

	data, err := io.ReadAll(io.LimitReader(r, maxUploadSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return "", &UploadError{msg: "empty file"}
	}
	if int64(len(data)) > maxUploadSize {
		return "", &UploadError{msg: fmt.Sprintf("file too large (max %dMB)", maxUploadSize>>20)}
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	if !matchesSignature(ext, data) {
		return "", &UploadError{msg: "file content does not match its extension"}
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", &UploadError{msg: "invalid image: " + err.Error()}
	}

	bounds := img.Bounds()
	if w, h := bounds.Dx(), bounds.Dy(); w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("encode jpeg: %w", err)
	}

	if strings.TrimSpace(category) == "" {
		category = "general"
	}
	category = sanitizeFileName(category)

	dir := filepath.Join(f.root, uploadsSubdir, category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create uploads dir: %w", err)
	}

	name := uniqueFileName(originalName)
	if err := os.WriteFile(filepath.Join(dir, name), buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return filepath.ToSlash(filepath.Join(uploadsSubdir, category, name)), nil
}

// Remove deletes a stored file by its relative path. A missing file is not
// an error.
func (f *FileStore) Remove(rel string) error {
	if strings.TrimSpace(rel) == "" {
		return nil
	}
	full, err := f.fullPath(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Exists reports whether a stored file is present on disk.
func (f *FileStore) Exists(rel string) bool {
	full, err := f.fullPath(rel)
	if err != nil {
		return false
	}
	_, err = os.Stat(full)
	return err == nil
}

// Size returns the byte size of a stored file, or 0 if it is missing.
func (f *FileStore) Size(rel string) int64 {
	full, err := f.fullPath(rel)
	if err != nil {
		return 0
	}
	info, err := os.Stat(full)
	if err != nil {
		return 0
	}
	return info.Size()
}

// fullPath resolves a relative upload path under root, rejecting anything
// that escapes it.
func (f *FileStore) fullPath(rel string) (string, error) {
	root, err := filepath.Abs(f.root)
	if err != nil {
		return "", err
	}
	full, err := filepath.Abs(filepath.Join(root, filepath.FromSlash(strings.TrimLeft(rel, "/"))))
	if err != nil {
		return "", err
	}
	if full != root && !strings.HasPrefix(full, root+string(filepath.Separator)) {
		return "", fmt.Errorf("kargopress: path %q escapes upload root", rel)
	}
	return full, nil
}

// uniqueFileName builds a sanitized, collision-free name from the uploaded
// file's base name. Output is always .jpg because Save re-encodes.
func uniqueFileName(originalName string) string {
	base := strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName))
	safe := sanitizeFileName(base)
	if len(safe) < 3 {
		safe = "image"
	}
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return safe + "-" + token + ".jpg"
}

// sanitizeFileName lowers a name to [a-z0-9_-], mapping Turkish characters
// to ASCII first.
func sanitizeFileName(name string) string {
	name = turkishASCII.Replace(name)
	name = strings.ToLower(name)
	var b strings.Builder
	prev := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
