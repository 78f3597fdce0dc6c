package xutil

import "encoding/json"

// ToJsonString 转换为 json 字符串，失败时返回空串
func ToJsonString(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}

// ToJsonStringIndent 转换为带缩进的 json 字符串
func ToJsonStringIndent(v any) string {
	b, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		ErrorIfEnableDebug("ToJsonStringIndent failed, err=[%v]", err)
		return ""
	}
	return string(b)
}
