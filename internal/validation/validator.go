// Package validation 封装 go-playground/validator，提供以 JSON 字段名为键的校验错误。
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/Nyoote/myGames/internal/domain"
)

var (
	once     sync.Once
	instance *validator.Validate

	bindingOnce sync.Once
)

// Now 返回当前时间，测试中可以替换。
var Now = time.Now

// Validator 返回进程内共享的校验器实例 (线程安全，结构体信息只解析一次)。
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonFieldName)
		_ = v.RegisterValidation("releaseyear", validateReleaseYear)
		instance = v
	})
	return instance
}

// UseJSONNamesInBinding 让 gin 的 binding 校验错误也使用 JSON 字段名，
// 这样 FieldErrors 对请求绑定错误给出的键与请求体一致。
func UseJSONNamesInBinding() {
	bindingOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(jsonFieldName)
		}
	})
}

// Struct 校验结构体。校验通过时返回 nil，否则返回 字段名 -> 错误信息。
func Struct(s interface{}) map[string]string {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	fields := FieldErrors(err)
	if len(fields) == 0 {
		// 非字段级错误 (例如传入了非结构体)，也不能当作通过
		return map[string]string{"_": err.Error()}
	}
	return fields
}

// FieldErrors 把 validator.ValidationErrors 翻译为 字段名 -> 错误信息。
// 其他类型的错误返回 nil。gin 的 binding 错误同样可以交给它翻译。
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := fieldPath(fe)
		if _, exists := out[name]; exists {
			continue
		}
		out[name] = message(fe)
	}
	return out
}

// MaxReleaseYear 返回允许的最大发行年份 (当前年份 + 1)。
func MaxReleaseYear() int {
	return Now().Year() + 1
}

func validateReleaseYear(fl validator.FieldLevel) bool {
	year := int(fl.Field().Int())
	return year >= domain.MinReleaseYear && year <= MaxReleaseYear()
}

// jsonFieldName 让错误中的字段名与请求体中的 JSON 字段一致。
func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// fieldPath 去掉顶层结构体名，集合元素保留下标，例如 "genre[0]"。
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		if isCollection(fe.Kind()) {
			return fmt.Sprintf("%s must contain at least %s element(s)", field, fe.Param())
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "max":
		if isCollection(fe.Kind()) {
			return fmt.Sprintf("%s must contain at most %s element(s)", field, fe.Param())
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "releaseyear":
		return fmt.Sprintf("%s must be between %d and %d", field, domain.MinReleaseYear, MaxReleaseYear())
	default:
		return fmt.Sprintf("%s failed on the '%s' rule", field, fe.Tag())
	}
}

func isCollection(k reflect.Kind) bool {
	return k == reflect.Slice || k == reflect.Array || k == reflect.Map
}
