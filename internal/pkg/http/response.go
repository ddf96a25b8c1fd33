package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse 错误响应（所有API共用）
// Code 为 <HTTP 状态码><两位序号>，例如 40001、50301
type ErrorResponse struct {
	Code    int    `json:"code"`             // 错误码（非0表示错误）
	Message string `json:"message"`          // 错误消息
	Detail  string `json:"detail,omitempty"` // 错误详情（可选）
}

// SuccessResponse 成功响应（所有API共用）
type SuccessResponse struct {
	Code    int    `json:"code"`           // 状态码（0表示成功）
	Message string `json:"message"`        // 响应消息
	Data    any    `json:"data,omitempty"` // 响应数据（可选）
}

// Success 写入成功响应
func Success(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, SuccessResponse{Code: 0, Message: message, Data: data})
}

// Accepted 写入 202 响应（异步任务已提交）
func Accepted(c *gin.Context, message string, data any) {
	c.JSON(http.StatusAccepted, SuccessResponse{Code: 0, Message: message, Data: data})
}

// Error 写入错误响应，err 非 nil 时作为 detail
func Error(c *gin.Context, status, code int, message string, err error) {
	resp := ErrorResponse{Code: code, Message: message}
	if err != nil {
		resp.Detail = err.Error()
	}
	c.JSON(status, resp)
}

// BadRequest 请求参数错误 (40001)
func BadRequest(c *gin.Context, err error) {
	Error(c, http.StatusBadRequest, 40001, "请求参数错误", err)
}
