package response

import (
	"net/http"

	"estate-market/pkg/logger"

	"github.com/gin-gonic/gin"
)

const (
	MsgOK             = "عملیات با موفقیت انجام شد"
	MsgCreated        = "با موفقیت ایجاد شد"
	MsgUpdated        = "با موفقیت ویرایش شد"
	MsgDeleted        = "با موفقیت حذف شد"
	MsgBadRequest     = "اطلاعات ارسالی نامعتبر است"
	MsgMissingToken   = "توکن ارسال نشده است"
	MsgInvalidToken   = "توکن نامعتبر یا منقضی شده است"
	MsgForbidden      = "شما دسترسی لازم برای این عملیات را ندارید"
	MsgNotFound       = "موردی یافت نشد"
	MsgConflict       = "این مورد قبلا ثبت شده است"
	MsgServerError    = "خطای سرور، لطفا دوباره تلاش کنید"
	MsgTooManyRequest = "تعداد درخواست‌ها بیش از حد مجاز است"
)

// OK writes {success: true, message, ...payload}.
func OK(c *gin.Context, status int, message string, payload gin.H) {
	body := gin.H{"success": true, "message": message}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// Fail writes {success: false, message} and aborts the chain.
func Fail(c *gin.Context, status int, message string) {
	FailWith(c, status, message, nil)
}

// FailWith is Fail with extra fields, e.g. the index of a missing chunk.
func FailWith(c *gin.Context, status int, message string, payload gin.H) {
	body := gin.H{}
	for k, v := range payload {
		body[k] = v
	}
	body["success"] = false
	body["message"] = message
	c.AbortWithStatusJSON(status, body)
}

// ServerError logs err and writes a generic 500. The raw error text is only
// echoed back while gin runs in debug mode.
func ServerError(c *gin.Context, log *logger.Logger, context string, err error) {
	if log != nil {
		log.Error("%s: %v", context, err)
	}
	body := gin.H{"success": false, "message": MsgServerError}
	if gin.Mode() == gin.DebugMode && err != nil {
		body["error"] = err.Error()
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, body)
}
