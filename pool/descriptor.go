package pool

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// 必填字段的规范键
const (
	FieldDriverClassName = "driver-class-name"
	FieldURL             = "url"
	FieldUsername        = "username"
	FieldPassword        = "password"
)

// Descriptor 单个路由目标的描述
//
// 四个必填字段缺一不可；其余属性保存在 Extra 中，由具体的连接池实现按需解析。
type Descriptor struct {
	Name            string
	DriverClassName string
	URL             string
	Username        string
	Password        string
	Extra           map[string]string
}

// String 输出时隐藏密码
func (d Descriptor) String() string {
	return fmt.Sprintf("Descriptor{Name:%s Driver:%s URL:%s Username:%s Password:****}",
		d.Name, d.DriverClassName, d.URL, d.Username)
}

// rawDescriptor 区分 "未配置" 与 "配置为空"：username/password 允许为空字符串，但必须出现
type rawDescriptor struct {
	DriverClassName *string `key:"driver-class-name" validate:"required,min=1"`
	URL             *string `key:"url" validate:"required,min=1"`
	Username        *string `key:"username" validate:"required"`
	Password        *string `key:"password" validate:"required"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func descriptorValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			return fld.Tag.Get("key")
		})
	})
	return validate
}

// ParseDescriptor 从已去掉 "<name>." 前缀的属性中提取目标描述
//
// 按 driver-class-name、url、username、password 的顺序报告第一个缺失字段。
func ParseDescriptor(name string, fields map[string]string) (*Descriptor, error) {
	normalized := normalizeFields(fields)

	raw := rawDescriptor{}
	extra := make(map[string]string, len(normalized))
	for k, v := range normalized {
		switch k {
		case FieldDriverClassName:
			s := strings.TrimSpace(v)
			raw.DriverClassName = &s
		case FieldURL:
			s := strings.TrimSpace(v)
			raw.URL = &s
		case FieldUsername:
			raw.Username = &v
		case FieldPassword:
			raw.Password = &v
		default:
			extra[k] = v
		}
	}

	if err := descriptorValidator().Struct(&raw); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, configError(name, verrs[0].Field(), ErrMissingField)
		}
		return nil, configError(name, "", err)
	}

	return &Descriptor{
		Name:            name,
		DriverClassName: *raw.DriverClassName,
		URL:             *raw.URL,
		Username:        *raw.Username,
		Password:        *raw.Password,
		Extra:           extra,
	}, nil
}
