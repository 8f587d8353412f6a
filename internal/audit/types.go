package audit

import "time"

// DeletedLabel 引用已删除的文档或账号时展示的名称
const DeletedLabel = "[deleted]"

// EntryView 审计记录展示结构
type EntryView struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	UserName     string    `json:"user_name"`
	DocumentID   *string   `json:"document_id"`
	DocumentName string    `json:"document_name"`
	Action       string    `json:"action"`
	Detail       string    `json:"detail"`
	CreatedAt    time.Time `json:"created_at"`
}

// ListFilter 时间范围过滤，均可为空
type ListFilter struct {
	From *time.Time
	To   *time.Time
}

// entryRow LEFT JOIN 查询结果，引用失效时名称为 NULL
type entryRow struct {
	ID           string
	UserID       string
	UserName     *string
	DocumentID   *string
	DocumentName *string
	Action       string
	Detail       string
	CreatedAt    time.Time
}

func (r entryRow) toView() EntryView {
	view := EntryView{
		ID:         r.ID,
		UserID:     r.UserID,
		UserName:   DeletedLabel,
		DocumentID: r.DocumentID,
		Action:     r.Action,
		Detail:     r.Detail,
		CreatedAt:  r.CreatedAt,
	}
	if r.UserName != nil {
		view.UserName = *r.UserName
	}
	if r.DocumentID != nil {
		view.DocumentName = DeletedLabel
		if r.DocumentName != nil {
			view.DocumentName = *r.DocumentName
		}
	}
	return view
}
