package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "field" or "max").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "invalid_name":
			return "フィールド名が不正です"
		case "invalid_kind":
			return "フィールド種別が不正です"
		case "invalid_start":
			return "開始ビットが不正です"
		case "invalid_width":
			return "ビット幅が不正です"
		case "invalid_default":
			return "デフォルト値が不正です"
		case "default_forbidden":
			return "デフォルト値は指定できません"
		case "missing_selector":
			return "セレクタがありません"
		case "missing_variants":
			return "サブタイプがありません"
		case "selector_kind":
			return "セレクタの種別が不正です"
		case "overlap":
			return "ビット範囲が重複しています"
		case "width_exceeded":
			return "合計ビット幅が上限を超えています"
		case "empty_layout":
			return "フィールドがありません"
		case "invalid_valid":
			return "valid制約が不正です"
		case "parse_error":
			return "解析エラー"
		case "out_of_range":
			return "値が範囲外です"
		case "variant_index":
			return "セレクタ値に対応するバリアントがありません"
		case "unknown_field":
			return "未知のフィールドです"
		case "reserved_field":
			return "予約フィールドには書き込めません"
		case "invalid_type":
			return "値の型が不正です"
		}
	default: // "en"
		switch code {
		case "invalid_name":
			return "invalid field name"
		case "invalid_kind":
			return "invalid field kind"
		case "invalid_start":
			return "invalid start bit"
		case "invalid_width":
			return "invalid bit width"
		case "invalid_default":
			return "invalid default value"
		case "default_forbidden":
			return "default value not allowed"
		case "missing_selector":
			return "selector missing"
		case "missing_variants":
			return "subtype list missing"
		case "selector_kind":
			return "invalid selector kind"
		case "overlap":
			return "overlapping bit ranges"
		case "width_exceeded":
			return "total width exceeded"
		case "empty_layout":
			return "layout has no fields"
		case "invalid_valid":
			return "invalid valid constraint"
		case "parse_error":
			return "parse error"
		case "out_of_range":
			return "value out of range"
		case "variant_index":
			return "no variant for selector value"
		case "unknown_field":
			return "unknown field"
		case "reserved_field":
			return "reserved field is read-only"
		case "invalid_type":
			return "invalid value type"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
