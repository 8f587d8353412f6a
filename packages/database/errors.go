package database

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// IsNotFound 记录不存在
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateKey 检测唯一索引冲突
// 开启 TranslateError 后驱动会返回 gorm.ErrDuplicatedKey，字符串匹配兜底未翻译的驱动错误
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return containsAny(err.Error(), []string{
		"duplicate key value",
		"UNIQUE constraint failed",
		"Duplicate entry",
	})
}

// IsForeignKeyViolation 检测外键约束冲突
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return containsAny(err.Error(), []string{
		"violates foreign key constraint",
		"FOREIGN KEY constraint failed",
	})
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
