package metrics

// Label 指标标签
type Label struct {
	Key   string
	Value string
}

// L 创建一个 Label
func L(key, value string) Label {
	return Label{Key: key, Value: value}
}

// 路由相关的标签键
const (
	LabelTarget  = "target"
	LabelOutcome = "outcome"
	LabelState   = "state"
	LabelType    = "pool_type"
)

// 常见结果
const (
	OutcomeSuccess  = "success"
	OutcomeError    = "error"
	OutcomeNotFound = "not_found"
)

// Outcome 将错误映射为结果标签值
func Outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeSuccess
}
