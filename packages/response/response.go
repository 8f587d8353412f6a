package response

type ResponseCode int

// 统一业务代码
const (
	Success ResponseCode = 100
)

type Response struct {
	Message string       `json:"message"`
	Code    ResponseCode `json:"code"`
	Data    any          `json:"data"`
}

// ListData 列表类接口的数据载体
type ListData struct {
	Items any `json:"items"`
	Total int `json:"total"`
}

func SuccessResponse(data any) Response {
	return Response{
		Message: "success",
		Code:    Success,
		Data:    data,
	}
}

// ListResponse 返回带总数的列表
func ListResponse(items any, total int) Response {
	return SuccessResponse(ListData{Items: items, Total: total})
}

func ErrorResponse(code ResponseCode, msg string) Response {
	return Response{
		Message: msg,
		Code:    code,
		Data:    nil,
	}
}
