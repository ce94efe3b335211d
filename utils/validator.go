package utils

import (
	"fmt"
	"strings"

	"barterhub_go/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// ValidationErrors 字段级验证错误
type ValidationErrors map[string]string

// RegisterValidators 注册自定义验证规则
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("无法获取 validator 引擎")
	}

	if err := v.RegisterValidation("listing_category", validateListingCategory); err != nil {
		return err
	}
	if err := v.RegisterValidation("listing_condition", validateListingCondition); err != nil {
		return err
	}
	if err := v.RegisterValidation("exchange_method", validateExchangeMethod); err != nil {
		return err
	}
	return nil
}

// validateListingCategory 验证物品分类
func validateListingCategory(fl validator.FieldLevel) bool {
	return models.IsValidCategory(fl.Field().String())
}

// validateListingCondition 验证物品成色
func validateListingCondition(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.IsValidCondition(value)
}

// validateExchangeMethod 验证交换方式，选择器的小写值和字面值都接受
func validateExchangeMethod(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	switch value {
	case "in-person", "shipping", "both":
		return true
	}
	return models.IsValidExchangeMethod(value)
}

// FormatValidationError 将验证错误转换为字段级错误信息，非验证错误返回nil
func FormatValidationError(err error) ValidationErrors {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}

	result := make(ValidationErrors)
	for _, fieldErr := range validationErrs {
		field := strings.ToLower(fieldErr.Field())
		result[field] = messageForTag(field, fieldErr)
	}
	return result
}

func messageForTag(field string, fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "invalid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fieldErr.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fieldErr.Param())
	case "listing_category":
		return fmt.Sprintf("unknown category, expected one of: %s", strings.Join(models.ListingCategories, ", "))
	case "listing_condition":
		return fmt.Sprintf("unknown condition, expected one of: %s", strings.Join(models.ConditionTypes, ", "))
	case "exchange_method":
		return fmt.Sprintf("unknown exchange method, expected one of: %s", strings.Join(models.ExchangeMethods, ", "))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
