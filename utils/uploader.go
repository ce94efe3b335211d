package utils

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"barterhub_go/config"
)

// UploadConfig 上传配置
type UploadConfig struct {
	MaxImageSize   int64    // 解码后最大字节数
	AllowedTypes   []string // 允许的MIME类型
	UploadPath     string   // 上传路径
	MaxImagesCount int      // 单个物品最多图片数
	UseRedisCache  bool     // 是否使用Redis缓存
}

// DefaultUploadConfig 默认上传配置
var DefaultUploadConfig = &UploadConfig{
	MaxImageSize:   5 * 1024 * 1024, // 5MB
	AllowedTypes:   []string{"image/jpeg", "image/png", "image/gif", "image/webp"},
	UploadPath:     "./uploads",
	MaxImagesCount: 5,
	UseRedisCache:  true,
}

// UploadResult 上传结果
type UploadResult struct {
	URL      string `json:"url"`       // 图片URL
	FileSize int64  `json:"file_size"` // 文件大小
	FileName string `json:"file_name"` // 文件名
	MimeType string `json:"mime_type"` // MIME类型
}

// ImageUploader 图片上传器，接收前端发来的 base64 data URL
type ImageUploader struct {
	config *UploadConfig
}

// NewImageUploader 创建图片上传器实例
func NewImageUploader(config ...*UploadConfig) *ImageUploader {
	cfg := DefaultUploadConfig
	if len(config) > 0 && config[0] != nil {
		cfg = config[0]
	}
	return &ImageUploader{config: cfg}
}

var mimeExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// SaveDataURL 保存单个 data URL 图片
func (iu *ImageUploader) SaveDataURL(dataURL string) (*UploadResult, error) {
	mimeType, payload, err := parseDataURL(dataURL)
	if err != nil {
		return nil, err
	}

	// 验证MIME类型
	if !iu.isAllowedType(mimeType) {
		return nil, fmt.Errorf("image type %s is not allowed", mimeType)
	}

	// 解码图片数据
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image data: %w", err)
	}

	// 验证大小
	if int64(len(data)) > iu.config.MaxImageSize {
		return nil, fmt.Errorf("image size exceeds maximum allowed size of %d bytes", iu.config.MaxImageSize)
	}

	// 创建目录
	if err := os.MkdirAll(iu.config.UploadPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	// 生成文件名并保存
	fileName := generateImageName(mimeExtensions[mimeType])
	filePath := filepath.Join(iu.config.UploadPath, fileName)
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to save image: %w", err)
	}

	result := &UploadResult{
		URL:      fmt.Sprintf("/uploads/%s", fileName),
		FileSize: int64(len(data)),
		FileName: fileName,
		MimeType: mimeType,
	}

	// 异步缓存图片元数据到Redis
	if iu.config.UseRedisCache && config.RedisClient != nil {
		go iu.cacheImageMetadata(fileName, result)
	}

	return result, nil
}

// SaveDataURLs 并发保存多个 data URL 图片
func (iu *ImageUploader) SaveDataURLs(dataURLs []string) ([]*UploadResult, error) {
	if len(dataURLs) == 0 {
		return nil, fmt.Errorf("no images provided")
	}
	if len(dataURLs) > iu.config.MaxImagesCount {
		return nil, fmt.Errorf("too many images, maximum is %d", iu.config.MaxImagesCount)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	results := make([]*UploadResult, len(dataURLs))
	errorChan := make(chan error, len(dataURLs))

	for i, dataURL := range dataURLs {
		wg.Add(1)
		go func(idx int, raw string) {
			defer wg.Done()

			result, err := iu.SaveDataURL(raw)
			if err != nil {
				errorChan <- fmt.Errorf("image %d: %w", idx+1, err)
				return
			}

			mu.Lock()
			results[idx] = result
			mu.Unlock()
		}(i, dataURL)
	}

	wg.Wait()
	close(errorChan)

	errors := make([]error, 0)
	for err := range errorChan {
		errors = append(errors, err)
	}
	if len(errors) > 0 {
		// 回滚已写入的文件
		for _, r := range results {
			if r != nil {
				iu.DeleteImage(r.FileName)
			}
		}
		return nil, fmt.Errorf("%d upload(s) failed: %v", len(errors), errors)
	}

	return results, nil
}

// parseDataURL 拆分 data URL，返回MIME类型和base64内容
func parseDataURL(dataURL string) (string, string, error) {
	if !strings.HasPrefix(dataURL, "data:") {
		return "", "", fmt.Errorf("invalid data URL")
	}

	comma := strings.Index(dataURL, ",")
	if comma < 0 {
		return "", "", fmt.Errorf("invalid data URL")
	}

	header := dataURL[len("data:"):comma]
	payload := dataURL[comma+1:]

	parts := strings.Split(header, ";")
	if len(parts) < 2 || parts[len(parts)-1] != "base64" {
		return "", "", fmt.Errorf("data URL must be base64 encoded")
	}

	return parts[0], payload, nil
}

// cacheImageMetadata 缓存图片元数据到Redis
func (iu *ImageUploader) cacheImageMetadata(fileName string, result *UploadResult) {
	if config.RedisClient == nil {
		return
	}

	ctx := context.Background()
	key := fmt.Sprintf("image:metadata:%s", fileName)

	metadata := map[string]interface{}{
		"url":       result.URL,
		"file_size": result.FileSize,
		"mime_type": result.MimeType,
		"cached_at": time.Now().Unix(),
	}

	// 设置过期时间（24小时）
	config.RedisClient.HSet(ctx, key, metadata)
	config.RedisClient.Expire(ctx, key, 24*time.Hour)
}

// GetImageMetadata 从Redis获取图片元数据
func (iu *ImageUploader) GetImageMetadata(fileName string) (map[string]string, error) {
	if config.RedisClient == nil {
		return nil, fmt.Errorf("redis not available")
	}

	ctx := context.Background()
	key := fmt.Sprintf("image:metadata:%s", fileName)

	return config.RedisClient.HGetAll(ctx, key).Result()
}

// isAllowedType 检查MIME类型是否允许
func (iu *ImageUploader) isAllowedType(mimeType string) bool {
	for _, allowed := range iu.config.AllowedTypes {
		if strings.EqualFold(mimeType, allowed) {
			return true
		}
	}
	return false
}

// generateImageName 生成唯一文件名
func generateImageName(ext string) string {
	if ext == "" {
		ext = ".bin"
	}
	timestamp := time.Now().Format("20060102150405")
	return fmt.Sprintf("listing_%s_%s%s", timestamp, randomString(8), ext)
}

const randomChars = "abcdefghijklmnopqrstuvwxyz0123456789"

// randomString 生成指定长度的随机字符串
func randomString(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = randomChars[rand.Intn(len(randomChars))]
	}
	return string(b)
}

// DeleteImage 删除图片文件
func (iu *ImageUploader) DeleteImage(fileName string) error {
	filePath := filepath.Join(iu.config.UploadPath, fileName)

	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete image: %w", err)
	}

	if iu.config.UseRedisCache && config.RedisClient != nil {
		go func() {
			ctx := context.Background()
			key := fmt.Sprintf("image:metadata:%s", fileName)
			config.RedisClient.Del(ctx, key)
		}()
	}

	return nil
}

// CleanupOldImages 清理旧图片（异步任务）
func (iu *ImageUploader) CleanupOldImages(days int) error {
	cutoffTime := time.Now().AddDate(0, 0, -days)
	var deletedCount int

	err := filepath.Walk(iu.config.UploadPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && info.ModTime().Before(cutoffTime) {
			if err := os.Remove(path); err == nil {
				deletedCount++
			}
		}
		return nil
	})

	log.Printf("Cleaned up %d old images (older than %d days)", deletedCount, days)
	return err
}
