package httpserver

import "github.com/gin-gonic/gin"

// Error codes in the response envelope.
const (
	codeValidation         = "VALIDATION_ERROR"
	codeUnauthorized       = "UNAUTHORIZED"
	codeProductUnavailable = "PRODUCT_UNAVAILABLE"
	codeInternal           = "INTERNAL_ERROR"
)

type successResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

type errorResponse struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, successResponse{Success: true, Data: data})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, errorResponse{Success: false, Error: errorBody{Code: code, Message: message}})
}
