package handler

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// UploadHandler 文件上传处理器。配置了MinIO时存对象存储，否则落本地磁盘。
type UploadHandler struct {
	minioClient *minio.Client
	bucket      string
	localDir    string
}

func NewUploadHandler(minioClient *minio.Client, bucket, localDir string) *UploadHandler {
	if localDir == "" {
		localDir = "./uploads"
	}
	return &UploadHandler{minioClient: minioClient, bucket: bucket, localDir: localDir}
}

// UploadedFile 上传文件信息
type UploadedFile struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
}

// Upload POST /api/upload 进度日志照片等附件上传
func (h *UploadHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(400, Response{Error: "无法解析上传文件: " + err.Error()})
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		files = form.File["file"]
	}
	if len(files) == 0 {
		c.JSON(400, Response{Error: "没有上传文件"})
		return
	}

	now := time.Now()
	var uploaded []UploadedFile

	for _, fileHeader := range files {
		fileID := uuid.New().String()[:32]
		savedName := fmt.Sprintf("%s_%s", fileID, fileHeader.Filename)
		objectName := fmt.Sprintf("%d/%02d/%s", now.Year(), now.Month(), savedName)
		contentType := fileHeader.Header.Get("Content-Type")

		src, err := fileHeader.Open()
		if err != nil {
			c.JSON(500, Response{Error: "读取上传文件失败"})
			return
		}

		var url string
		if h.minioClient != nil {
			_, err = h.minioClient.PutObject(c.Request.Context(), h.bucket, objectName, src, fileHeader.Size,
				minio.PutObjectOptions{ContentType: contentType})
			src.Close()
			if err != nil {
				c.JSON(500, Response{Error: "保存文件失败"})
				return
			}
			url = fmt.Sprintf("/%s/%s", h.bucket, objectName)
		} else {
			dir := filepath.Join(h.localDir, fmt.Sprintf("%d/%02d", now.Year(), now.Month()))
			if err := os.MkdirAll(dir, 0o755); err != nil {
				src.Close()
				c.JSON(500, Response{Error: "创建上传目录失败"})
				return
			}
			dst, err := os.Create(filepath.Join(dir, savedName))
			if err != nil {
				src.Close()
				c.JSON(500, Response{Error: "保存文件失败"})
				return
			}
			_, err = io.Copy(dst, src)
			src.Close()
			dst.Close()
			if err != nil {
				c.JSON(500, Response{Error: "写入文件失败"})
				return
			}
			url = "/uploads/" + objectName
		}

		uploaded = append(uploaded, UploadedFile{
			ID:          fileID,
			URL:         url,
			Filename:    fileHeader.Filename,
			Size:        fileHeader.Size,
			ContentType: contentType,
		})
	}

	OKMessage(c, "上传成功", uploaded)
}
