package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func replyWithError(ctx *gin.Context, errCode int, errMsg string) {
	ctx.JSON(http.StatusOK, struct {
		ErrCode int    `json:"errcode"`
		ErrMsg  string `json:"errmsg"`
	}{
		ErrCode: errCode,
		ErrMsg:  errMsg,
	})
}

func replyWithData(ctx *gin.Context, data any) {
	ctx.JSON(http.StatusOK, gin.H{
		"errcode": 0,
		"data":    data,
	})
}
