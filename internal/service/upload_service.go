package service

import (
	"encoding/binary"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/folio-next/internal/config"
	"github.com/folio-next/internal/constants"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
)

const uploadURLPrefix = "/uploads/"

type uploadSceneRule struct {
	mimeTypes  []string
	extensions []string
	image      bool
}

var uploadSceneRules = map[string]uploadSceneRule{
	constants.UploadSceneProfile: {
		mimeTypes:  []string{"image/jpeg", "image/png", "image/gif", "image/webp"},
		extensions: []string{".jpg", ".jpeg", ".png", ".gif", ".webp"},
		image:      true,
	},
	constants.UploadSceneCV: {
		mimeTypes:  []string{"application/pdf"},
		extensions: []string{".pdf"},
	},
}

// StoredFile 已保存的上传文件
type StoredFile struct {
	URL          string
	OriginalName string
	Size         int64
	ContentType  string
}

// UploadService 文件上传服务
type UploadService struct {
	cfg *config.Config
	now func() time.Time
}

// NewUploadService 创建文件上传服务实例
func NewUploadService(cfg *config.Config) *UploadService {
	return &UploadService{cfg: cfg, now: time.Now}
}

// Dir 上传根目录
func (s *UploadService) Dir() string {
	dir := strings.TrimSpace(s.cfg.Upload.Dir)
	if dir == "" {
		return "uploads"
	}
	return dir
}

// SaveFile 校验并保存上传文件，返回可公开访问的相对 URL
func (s *UploadService) SaveFile(file *multipart.FileHeader, scene string) (*StoredFile, error) {
	if file == nil || file.Size <= 0 {
		return nil, ErrEmptyFile
	}
	rule, ok := uploadSceneRules[scene]
	if !ok {
		return nil, ErrUnsupportedUploadKind
	}

	maxSize := s.cfg.Upload.MaxSize
	if scene == constants.UploadSceneCV && s.cfg.Upload.CVMaxSize > 0 {
		maxSize = s.cfg.Upload.CVMaxSize
	}
	if maxSize > 0 && file.Size > maxSize {
		return nil, fmt.Errorf("%w: max %d MB", ErrFileTooLarge, maxSize/1024/1024)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext == "" || !isAllowedExtension(ext, rule.extensions) {
		return nil, fmt.Errorf("%w: extension %q", ErrUnsupportedFileType, ext)
	}
	if len(s.cfg.Upload.AllowedExtensions) > 0 && !isAllowedExtension(ext, s.cfg.Upload.AllowedExtensions) {
		return nil, fmt.Errorf("%w: extension %q", ErrUnsupportedFileType, ext)
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	// 读取文件头部识别 MIME 类型
	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && err != io.EOF {
		return nil, err
	}
	contentType := http.DetectContentType(buffer[:n])
	if !containsFold(rule.mimeTypes, contentType) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, contentType)
	}
	if len(s.cfg.Upload.AllowedTypes) > 0 && !containsFold(s.cfg.Upload.AllowedTypes, contentType) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, contentType)
	}

	if rule.image {
		width, height, err := decodeImageDimensions(src, contentType)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedFileType, err)
		}
		if s.cfg.Upload.MaxWidth > 0 && width > s.cfg.Upload.MaxWidth {
			return nil, fmt.Errorf("%w: width %d", ErrImageDimensionTooBig, width)
		}
		if s.cfg.Upload.MaxHeight > 0 && height > s.cfg.Upload.MaxHeight {
			return nil, fmt.Errorf("%w: height %d", ErrImageDimensionTooBig, height)
		}
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	// 生成唯一文件名
	filename := uuid.New().String() + ext
	now := s.now()
	year := now.Format("2006")
	month := now.Format("01")
	savePath := filepath.Join(s.Dir(), scene, year, month, filename)

	if err := os.MkdirAll(filepath.Dir(savePath), 0o755); err != nil {
		return nil, err
	}

	dst, err := os.Create(savePath)
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(savePath)
		return nil, err
	}

	return &StoredFile{
		URL:          uploadURLPrefix + strings.Join([]string{scene, year, month, filename}, "/"),
		OriginalName: sanitizeOriginalName(file.Filename),
		Size:         file.Size,
		ContentType:  contentType,
	}, nil
}

// RemoveFile 删除 SaveFile 生成的文件，URL 不在上传目录内时拒绝
func (s *UploadService) RemoveFile(url string) error {
	path, err := s.resolveUploadPath(url)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *UploadService) resolveUploadPath(url string) (string, error) {
	url = strings.TrimSpace(url)
	if !strings.HasPrefix(url, uploadURLPrefix) {
		return "", fmt.Errorf("%w: %q", ErrInvalidUploadURL, url)
	}
	rel := filepath.FromSlash(strings.TrimPrefix(url, uploadURLPrefix))
	root, err := filepath.Abs(s.Dir())
	if err != nil {
		return "", err
	}
	full := filepath.Join(root, rel)
	inside, err := filepath.Rel(root, full)
	if err != nil || inside == "." || strings.HasPrefix(inside, "..") {
		return "", fmt.Errorf("%w: escapes upload dir: %q", ErrInvalidUploadURL, url)
	}
	return full, nil
}

func sanitizeOriginalName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	base = strings.TrimSpace(base)
	if base == "." || base == "/" {
		return ""
	}
	runes := []rune(base)
	if len(runes) > 200 {
		return string(runes[:200])
	}
	return base
}

func containsFold(list []string, value string) bool {
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), value) {
			return true
		}
	}
	return false
}

func isAllowedExtension(ext string, allowed []string) bool {
	for _, allowedExt := range allowed {
		normalized := strings.ToLower(strings.TrimSpace(allowedExt))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if strings.EqualFold(ext, normalized) {
			return true
		}
	}
	return false
}

func decodeImageDimensions(src io.ReadSeeker, contentType string) (int, int, error) {
	if strings.EqualFold(contentType, "image/webp") {
		width, height, err := decodeWebPDimensions(src)
		if err != nil {
			return 0, 0, fmt.Errorf("无法解析 WebP 图片: %w", err)
		}
		return width, height, nil
	}

	if _, err := src.Seek(0, 0); err != nil {
		return 0, 0, err
	}
	cfg, _, err := image.DecodeConfig(src)
	if err != nil {
		return 0, 0, fmt.Errorf("无法解析图片: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

func decodeWebPDimensions(src io.ReadSeeker) (int, int, error) {
	if _, err := src.Seek(0, 0); err != nil {
		return 0, 0, err
	}

	header := make([]byte, 12)
	if _, err := io.ReadFull(src, header); err != nil {
		return 0, 0, err
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WEBP" {
		return 0, 0, fmt.Errorf("无效的 WebP 文件头")
	}

	for {
		chunkHeader := make([]byte, 8)
		if _, err := io.ReadFull(src, chunkHeader); err != nil {
			return 0, 0, err
		}
		chunkType := string(chunkHeader[0:4])
		chunkSize := int(binary.LittleEndian.Uint32(chunkHeader[4:8]))
		if chunkSize < 0 {
			return 0, 0, fmt.Errorf("无效的 WebP chunk")
		}

		data := make([]byte, chunkSize)
		if _, err := io.ReadFull(src, data); err != nil {
			return 0, 0, err
		}

		if chunkType == "VP8X" {
			if len(data) < 10 {
				return 0, 0, fmt.Errorf("VP8X chunk 长度不足")
			}
			width := 1 + int(data[4]) + int(data[5])<<8 + int(data[6])<<16
			height := 1 + int(data[7]) + int(data[8])<<8 + int(data[9])<<16
			return width, height, nil
		}
		if chunkType == "VP8 " {
			if len(data) < 10 {
				return 0, 0, fmt.Errorf("VP8 chunk 长度不足")
			}
			width := int(binary.LittleEndian.Uint16(data[6:8]) & 0x3FFF)
			height := int(binary.LittleEndian.Uint16(data[8:10]) & 0x3FFF)
			return width, height, nil
		}
		if chunkType == "VP8L" {
			if len(data) < 5 {
				return 0, 0, fmt.Errorf("VP8L chunk 长度不足")
			}
			if data[0] != 0x2f {
				return 0, 0, fmt.Errorf("VP8L 签名无效")
			}
			bits := binary.LittleEndian.Uint32(data[1:5])
			width := int(bits&0x3FFF) + 1
			height := int((bits>>14)&0x3FFF) + 1
			return width, height, nil
		}

		if chunkSize%2 == 1 {
			if _, err := src.Seek(1, io.SeekCurrent); err != nil {
				return 0, 0, err
			}
		}
	}
}
