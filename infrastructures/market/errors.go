package market

import (
	"github.com/pkg/errors"
)

// 错误类型定义。数据质量问题（没匹配上、行解析不出东西）不是错误，
// 这里只覆盖接口误用和持久化失败。
var (
	ErrEmptyName        = errors.New("empty canonical name")
	ErrRecordNotFound   = errors.New("trade record not found")
	ErrDictionarySave   = errors.New("dictionary save failed")
	ErrInvalidThreshold = errors.New("threshold out of [0,1]")
)

// WrapError 包装错误并添加上下文
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, message)
}

// WrapErrorf 包装错误并添加格式化消息
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, format, args...)
}
