package authsdk

import "strings"

// ExtractBearer 从 Authorization 头中提取 token
// 支持 "Bearer <token>" 与裸 token 两种写法
func ExtractBearer(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", ErrNoToken
	}
	if strings.EqualFold(header, "Bearer") {
		return "", ErrNoToken
	}

	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		token := strings.TrimSpace(header[7:])
		if token == "" {
			return "", ErrNoToken
		}
		return token, nil
	}

	if strings.Contains(header, " ") {
		return "", ErrInvalidToken
	}
	return header, nil
}
