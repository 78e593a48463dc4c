package service

import (
	"feedback-assist-go/internal/model"

	"github.com/tidwall/gjson"
)

const (
	maxUserResponseLen = 400
	maxSummaryLen      = 300
)

// replyOutcome 是模型回复解码后的结果，只有 decodedReply 与 unstructuredReply 两种。
type replyOutcome interface {
	isReplyOutcome()
}

// decodedReply 表示回复是一个 JSON 对象。
type decodedReply struct {
	obj gjson.Result
}

// unstructuredReply 表示回复不是 JSON，或者是 JSON 但不是对象。
type unstructuredReply struct{}

func (decodedReply) isReplyOutcome()      {}
func (unstructuredReply) isReplyOutcome() {}

func decodeReply(raw string) replyOutcome {
	if !gjson.Valid(raw) {
		return unstructuredReply{}
	}
	parsed := gjson.Parse(raw)
	if !parsed.IsObject() {
		return unstructuredReply{}
	}
	return decodedReply{obj: parsed}
}

// ValidateReply 将模型回复规范化为固定结构。
// 第二个返回值为 false 表示回复无法按结构化结果使用，调用方应自行兜底。
func ValidateReply(raw string) (model.LLMResult, bool) {
	switch outcome := decodeReply(raw).(type) {
	case decodedReply:
		return normalizeReply(raw, outcome.obj), true
	case unstructuredReply:
		return model.LLMResult{}, false
	default:
		panic("unreachable reply outcome")
	}
}

func normalizeReply(raw string, obj gjson.Result) model.LLMResult {
	userResponse := raw
	if v := lastField(obj, "user_response"); v.Exists() && v.Type != gjson.Null {
		userResponse = v.String()
	}

	return model.LLMResult{
		UserResponse: truncateRunes(userResponse, maxUserResponseLen),
		Summary:      truncateRunes(lastField(obj, "summary").String(), maxSummaryLen),
		Actions:      normalizeActions(lastField(obj, "actions")),
	}
}

// lastField 返回 key 的最后一次出现；重复键以后者为准。
func lastField(obj gjson.Result, key string) gjson.Result {
	var found gjson.Result
	obj.ForEach(func(k, v gjson.Result) bool {
		if k.String() == key {
			found = v
		}
		return true
	})
	return found
}

// normalizeActions: 字符串包装为单元素列表，缺失或 null 为空列表，数组逐项取字符串，
// 其他形态保留其原始 JSON 文本作为单个元素。
func normalizeActions(v gjson.Result) []string {
	switch {
	case !v.Exists(), v.Type == gjson.Null:
		return []string{}
	case v.Type == gjson.String:
		return []string{v.String()}
	case v.IsArray():
		items := v.Array()
		actions := make([]string, 0, len(items))
		for _, item := range items {
			actions = append(actions, item.String())
		}
		return actions
	default:
		return []string{v.Raw}
	}
}

// truncateRunes 按字符（而非字节）截断，避免切断多字节字符。
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
