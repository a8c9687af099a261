package ojapi

import "github.com/group38/ojweb/internal/jsonx"

// LoginUserVO is the desensitized current user.
type LoginUserVO struct {
	ID          jsonx.ID `json:"id"`
	UserName    string   `json:"userName"`
	UserAvatar  string   `json:"userAvatar,omitempty"`
	UserProfile string   `json:"userProfile,omitempty"`
	UserRole    string   `json:"userRole"`
	CreateTime  string   `json:"createTime,omitempty"`
	UpdateTime  string   `json:"updateTime,omitempty"`
}

// UserVO is the public view of a user.
type UserVO struct {
	ID         jsonx.ID `json:"id"`
	UserName   string   `json:"userName"`
	UserAvatar string   `json:"userAvatar,omitempty"`
	UserRole   string   `json:"userRole,omitempty"`
}

// UserLoginRequest is the account/password login body.
type UserLoginRequest struct {
	UserAccount  string `json:"userAccount"`
	UserPassword string `json:"userPassword"`
}

// JudgeInfo is the judge's verdict for one submission.
type JudgeInfo struct {
	Message string `json:"message,omitempty"`
	Memory  *int64 `json:"memory,omitempty"`
	Time    *int64 `json:"time,omitempty"`
}

// QuestionSubmitAddRequest submits code for a question.
type QuestionSubmitAddRequest struct {
	Language   string   `json:"language"`
	Code       string   `json:"code"`
	QuestionID jsonx.ID `json:"questionId"`
}

// QuestionSubmitQueryRequest filters the submissions list.
type QuestionSubmitQueryRequest struct {
	Current    int64    `json:"current,omitempty"`
	PageSize   int64    `json:"pageSize,omitempty"`
	SortField  string   `json:"sortField,omitempty"`
	SortOrder  string   `json:"sortOrder,omitempty"`
	Language   string   `json:"language,omitempty"`
	Status     *int     `json:"status,omitempty"`
	QuestionID jsonx.ID `json:"questionId,omitempty"`
	UserID     jsonx.ID `json:"userId,omitempty"`
}

// QuestionSubmitVO is one row of the submissions list.
type QuestionSubmitVO struct {
	ID         jsonx.ID       `json:"id"`
	Language   string         `json:"language"`
	Code       string         `json:"code,omitempty"`
	JudgeInfo  *JudgeInfo     `json:"judgeInfo,omitempty"`
	Status     int            `json:"status"`
	QuestionID jsonx.ID       `json:"questionId"`
	UserID     jsonx.ID       `json:"userId"`
	CreateTime string         `json:"createTime,omitempty"`
	UpdateTime string         `json:"updateTime,omitempty"`
	UserVO     *UserVO        `json:"userVO,omitempty"`
	QuestionVO map[string]any `json:"questionVO,omitempty"`
}

// Submission status values.
const (
	SubmitStatusWaiting = 0
	SubmitStatusRunning = 1
	SubmitStatusSucceed = 2
	SubmitStatusFailed  = 3
)

// ObfuscateCodeRequest asks the backend to obfuscate source code.
type ObfuscateCodeRequest struct {
	SourceCode string `json:"sourceCode"`
	Language   string `json:"language"`
	Scheme     string `json:"scheme"`
	// Config holds extra scheme options as a JSON string.
	Config string `json:"config,omitempty"`
}

// ObfuscateCodeResponse carries the obfuscated source.
type ObfuscateCodeResponse struct {
	ObfuscatedCode string `json:"obfuscatedCode"`
}

// SupportedSchemesResponse lists obfuscation schemes per language.
type SupportedSchemesResponse struct {
	SchemesByLanguage map[string][]string `json:"schemesByLanguage"`
}

// SubmitStatusLabel names a submission status for display.
func SubmitStatusLabel(status int) string {
	switch status {
	case SubmitStatusWaiting:
		return "Waiting"
	case SubmitStatusRunning:
		return "Running"
	case SubmitStatusSucceed:
		return "Succeed"
	case SubmitStatusFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}
