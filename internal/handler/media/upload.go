package media

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	httputil "picbook/internal/pkg/http"
	"picbook/internal/pkg/id"
	"picbook/internal/pkg/storage"
)

// maxUploadSize 上传图片大小上限
const maxUploadSize = 20 << 20

var uploadImageExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".webp": true}

// UploadImageResponseData 上传图片响应数据
type UploadImageResponseData struct {
	ImagePath string `json:"image_path"` // 可直接作为 image_paths 的元素
	FileSize  int64  `json:"file_size"`
	FileName  string `json:"file_name"`
}

// UploadImage 上传图片
// @Summary      上传图片
// @Description  通过 multipart/form-data 上传自备的插图，返回的 image_path 可用于视频合成
// @Tags         图片生成
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "图片文件（png/jpg/webp）"
// @Success      200   {object}  map[string]interface{}  "成功响应"  "{\"code\": 0, \"message\": \"图片上传成功\", \"data\": {\"image_path\": \"/static/images/...\"}}"
// @Failure      400   {object}  ErrorResponse  "请求参数错误"
// @Failure      500   {object}  ErrorResponse  "服务器内部错误"
// @Router       /api/v1/image/upload [post]
func (h *Handler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		httputil.BadRequest(c, err)
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !uploadImageExts[ext] {
		httputil.BadRequest(c, fmt.Errorf("unsupported image type: %q", ext))
		return
	}
	if file.Size > maxUploadSize {
		httputil.BadRequest(c, errors.New("image too large"))
		return
	}

	f, err := file.Open()
	if err != nil {
		httputil.BadRequest(c, err)
		return
	}
	defer f.Close()

	name := fmt.Sprintf("upload_%d_%s%s", time.Now().Unix(), id.Short(), ext)
	url, err := h.storage.Upload(c.Request.Context(), storage.ObjectKey(storage.CategoryImages, name), f, storage.ContentType(name))
	if err != nil {
		httputil.Error(c, http.StatusInternalServerError, 50003, "图片保存失败", err)
		return
	}

	log.Info().Str("file", file.Filename).Str("url", url).Int64("size", file.Size).Msg("image uploaded")
	httputil.Success(c, "图片上传成功", UploadImageResponseData{
		ImagePath: url,
		FileSize:  file.Size,
		FileName:  file.Filename,
	})
}
