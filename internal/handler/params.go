package handler

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"VidTube/internal/pagination"

	"github.com/gin-gonic/gin"
)

// parseIDParam 解析路径里的数字ID，失败时直接回400
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		sendErrorResponse(c, http.StatusBadRequest, "无效的"+name)
		return 0, false
	}
	return id, true
}

// parsePagination 解析query里的分页参数，sortBy只认白名单里的列
func parsePagination(c *gin.Context, allowedSorts ...string) (pagination.Params, bool) {
	p, err := pagination.Parse(
		c.Query("page"),
		c.Query("limit"),
		c.Query("sort_by"),
		c.Query("sort_type"),
		allowedSorts...,
	)
	if err != nil {
		handleServiceError(c, err)
		return p, false
	}
	return p, true
}

// saveUpload 把multipart文件落到临时目录，返回本地路径。
// 调用方用完负责删，service层只认本地路径不认multipart。
func saveUpload(c *gin.Context, file *multipart.FileHeader) (string, error) {
	localPath := filepath.Join(os.TempDir(), fmt.Sprintf("vidtube_%d_%s", time.Now().UnixNano(), filepath.Base(file.Filename)))
	if err := c.SaveUploadedFile(file, localPath); err != nil {
		return "", err
	}
	return localPath, nil
}
