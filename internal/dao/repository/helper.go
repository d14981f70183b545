package repository

import (
	"errors"

	"gorm.io/gorm"

	"unisocial_server/pkg/errorx"
)

// ==================== 错误包装辅助函数 ====================

// wrapDBError 包装数据库错误
// 根据错误类型返回不同的错误码：
//   - ErrRecordNotFound -> CodeNotFound
//   - ErrDuplicatedKey -> CodeConflict（需要开启 gorm TranslateError）
//   - 其他错误 -> CodeDBError
func wrapDBError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errorx.Wrap(err, dbErrorCode(err), msg)
}

// wrapDBErrorf 功能同 wrapDBError，但支持 fmt.Sprintf 风格的格式化
func wrapDBErrorf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return errorx.Wrapf(err, dbErrorCode(err), format, args...)
}

func dbErrorCode(err error) int {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errorx.CodeNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errorx.CodeConflict
	default:
		return errorx.CodeDBError
	}
}
