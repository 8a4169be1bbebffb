// file: utils/response.go
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一 JSON 信封：成功时带 data，失败时带 error.{code,message}
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

// Fail 将错误映射为 HTTP 状态码 + 信封。非 *APIError 的错误一律按 500 处理，
// 不向客户端泄露内部错误文本。
func Fail(c *gin.Context, err error) {
	apiErr := AsAPIError(err)
	c.JSON(apiErr.Status, Response{Success: false, Error: &ErrorBody{
		Code:    apiErr.Code,
		Message: apiErr.Message,
	}})
}
