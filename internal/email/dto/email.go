package dto

type SyncRequest struct {
	MaxMessages int `json:"max_messages"`
}

type CreateCategoryRequest struct {
	Name        string   `json:"name" binding:"required"`
	Color       string   `json:"color"`
	Icon        string   `json:"icon"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
}

type SendEmailRequest struct {
	To      string `json:"to" binding:"required"`
	Cc      string `json:"cc"`
	Bcc     string `json:"bcc"`
	Subject string `json:"subject" binding:"required"`
	Body    string `json:"body" binding:"required"`
	IsHTML  bool   `json:"is_html"`
}
