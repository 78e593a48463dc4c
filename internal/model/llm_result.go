package model

// LLMResult 是一次助手调用的结果，只在单次提交处理中使用，不单独持久化。
type LLMResult struct {
	UserResponse string   `json:"user_response"`
	Summary      string   `json:"summary"`
	Actions      []string `json:"actions"`
}
