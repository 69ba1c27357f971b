package storage

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Storage 媒体文件存储的抽象，service层只认识这个接口，测试里用内存假实现
type Storage interface {
	// Upload 把文件存进对象存储，返回外部可访问的URL
	Upload(ctx context.Context, objectName, localPath, contentType string) (string, error)
	// ProbeDuration 探测视频时长（秒）
	ProbeDuration(localPath string) (uint64, error)
	// Delete 按URL删除对象，对象不存在时也算成功（幂等删除）
	Delete(ctx context.Context, fileURL string) error
}

type minioStorage struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// InitMinio 初始化MinIO客户端，配置从环境变量取
func InitMinio() (Storage, error) {
	endpoint := getEnvOrDefault("MINIO_ENDPOINT", "localhost:9000")
	accessKeyID := getEnvOrDefault("MINIO_ACCESS_KEY", "minioadmin")
	secretAccessKey := getEnvOrDefault("MINIO_SECRET_KEY", "minioadmin")
	useSSL := getEnvOrDefault("MINIO_USE_SSL", "false") == "true"
	bucket := getEnvOrDefault("MINIO_BUCKET", "vidtube")
	baseURL := getEnvOrDefault("MINIO_BASE_URL", "http://"+endpoint)

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}

	s := &minioStorage{client: client, bucket: bucket, baseURL: baseURL}

	// 检查存储桶是否存在，不存在则创建
	exists, err := client.BucketExists(context.Background(), bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket error: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(context.Background(), bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket error: %w", err)
		}
	}
	return s, nil
}

func (s *minioStorage) Upload(ctx context.Context, objectName, localPath, contentType string) (string, error) {
	_, err := s.client.FPutObject(ctx, s.bucket, objectName, localPath, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s/%s", s.baseURL, s.bucket, objectName), nil
}

// Delete 从URL反推对象名再删。不是我们这个桶的URL就直接跳过
func (s *minioStorage) Delete(ctx context.Context, fileURL string) error {
	prefix := fmt.Sprintf("%s/%s/", s.baseURL, s.bucket)
	if !strings.HasPrefix(fileURL, prefix) {
		return nil
	}
	objectName := strings.TrimPrefix(fileURL, prefix)
	return s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{})
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
