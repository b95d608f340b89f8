package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "key"); placeholders are written as {name}.
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var messages = map[string]map[string]string{
	"en": {
		"invalid_type":    "expected {expected}",
		"required":        "required field {field} missing",
		"unknown_key":     "unknown key {key}",
		"too_small":       "value below minimum {min}",
		"too_big":         "value above maximum {max}",
		"too_short":       "fewer than {min} elements",
		"too_long":        "more than {max} elements",
		"pattern":         "value does not match pattern {pattern}",
		"invalid_enum":    "{value} is not a member of {type}",
		"invalid_format":  "value is not a valid {format}",
		"choice_count":    "choice requires exactly one key, got {count}",
		"duplicate_value": "element {dup} duplicates element {first}",
		"unresolved_type": "type {type} is not defined",
		"not_exported":    "type {type} is not exported",
		"depth_exceeded":  "nesting deeper than {max}",
	},
	"ja": {
		"invalid_type":    "型が不正です（期待値: {expected}）",
		"required":        "必須フィールド {field} がありません",
		"unknown_key":     "未知のキーです: {key}",
		"too_small":       "最小値 {min} を下回っています",
		"too_big":         "最大値 {max} を超えています",
		"too_short":       "要素数が {min} 未満です",
		"too_long":        "要素数が {max} を超えています",
		"pattern":         "パターン {pattern} に一致しません",
		"invalid_enum":    "{value} は {type} のメンバーではありません",
		"invalid_format":  "{format} として不正な値です",
		"choice_count":    "Choice にはキーが1つ必要です（実際: {count}）",
		"duplicate_value": "要素 {dup} は要素 {first} と重複しています",
		"unresolved_type": "型 {type} が定義されていません",
		"not_exported":    "型 {type} はエクスポートされていません",
		"depth_exceeded":  "ネストが {max} を超えています",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := messages[t.lang][code]
	if !ok {
		return code
	}
	if len(data) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	pairs := make([]string, 0, 2*len(data))
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	mu.Lock()
	currentTranslator = dictTranslator{lang: lang}
	mu.Unlock()
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	mu.Lock()
	defer mu.Unlock()
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
